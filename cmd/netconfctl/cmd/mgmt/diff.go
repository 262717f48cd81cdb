// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package mgmt

import (
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/siderolabs/netconf/cmd/netconfctl/cmd/common"
	"github.com/siderolabs/netconf/pkg/machinery/config/configdiff"
)

// diffCmd compares two net configs.
var diffCmd = &cobra.Command{
	Use:   "diff <old> <new>",
	Short: "Show the difference between two net configs",
	Long:  `Both configs are loaded, validated and compared in canonical form, so formatting changes are ignored.`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return diff(common.Logger(), cmd.InOrStdin(), cmd.OutOrStdout(), args[0], args[1])
	},
}

func diff(logger *zap.Logger, stdin io.Reader, out io.Writer, oldPath, newPath string) error {
	oldSrc, err := loadConfig(logger, stdin, []string{oldPath})
	if err != nil {
		return err
	}

	newSrc, err := loadConfig(logger, stdin, []string{newPath})
	if err != nil {
		return err
	}

	patch, err := configdiff.DiffToString(oldSrc.config, newSrc.config)
	if err != nil {
		return err
	}

	printPatch(out, patch)

	return nil
}

func init() {
	addCommand(diffCmd)
}
