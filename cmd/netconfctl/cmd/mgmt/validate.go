// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package mgmt

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/siderolabs/netconf/cmd/netconfctl/cmd/common"
)

var validateConfigArg []string

// validateCmd reads in a net config file and attempts to parse and validate it.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate net config",
	Long:  ``,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return validate(common.Logger(), cmd.InOrStdin(), cmd.OutOrStdout(), validateConfigArg)
	},
}

func validate(logger *zap.Logger, stdin io.Reader, out io.Writer, paths []string) error {
	src, err := loadConfig(logger, stdin, paths)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "%s is %s (%d bonds)\n", src.name, color.GreenString("valid"), len(src.config.Bonds()))

	return nil
}

func init() {
	validateCmd.Flags().StringSliceVarP(&validateConfigArg, "config", "c", nil, "the path of the config file, repeat to overlay drop-ins, - for stdin")
	cobra.CheckErr(validateCmd.MarkFlagRequired("config"))
	addCommand(validateCmd)
}
