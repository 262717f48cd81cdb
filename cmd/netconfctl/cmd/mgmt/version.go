// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package mgmt

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/siderolabs/netconf/pkg/machinery/version"
)

var versionCmdFlags struct {
	short bool
}

// versionCmd prints the version of netconfctl.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Prints the version",
	Long:  ``,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if versionCmdFlags.short {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), version.Short())

			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), version.Name)

		return version.WriteLongVersion(cmd.OutOrStdout(), version.NewVersion())
	},
}

func init() {
	versionCmd.Flags().BoolVar(&versionCmdFlags.short, "short", false, "print the short version")
	addCommand(versionCmd)
}
