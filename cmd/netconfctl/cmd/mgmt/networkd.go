// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package mgmt

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/siderolabs/netconf/cmd/netconfctl/cmd/common"
	"github.com/siderolabs/netconf/internal/pkg/networkd"
	"github.com/siderolabs/netconf/pkg/cli"
	"github.com/siderolabs/netconf/pkg/logging"
)

type networkdOptions struct {
	configs []string
	dir     string
	dryRun  bool
}

var networkdCmdFlags networkdOptions

// networkdCmd renders the net config as systemd-networkd configuration.
var networkdCmd = &cobra.Command{
	Use:   "networkd",
	Short: "Generate systemd-networkd configuration",
	Long:  ``,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cli.WithContext(cmd.Context(), func(ctx context.Context) error {
			return generateNetworkd(ctx, common.Logger(), cmd.InOrStdin(), cmd.OutOrStdout(), networkdCmdFlags)
		})
	},
}

func generateNetworkd(ctx context.Context, logger *zap.Logger, stdin io.Reader, out io.Writer, opts networkdOptions) error {
	src, err := loadConfig(logger, stdin, opts.configs)
	if err != nil {
		return err
	}

	files, err := networkd.Render(src.config)
	if err != nil {
		return err
	}

	if opts.dryRun {
		for _, file := range files {
			fmt.Fprintf(out, "# %s\n%s\n", file.Name, file.Contents)
		}

		return nil
	}

	return networkd.Write(ctx, logger.With(logging.Component("networkd")), opts.dir, files)
}

func init() {
	networkdCmd.Flags().StringSliceVarP(&networkdCmdFlags.configs, "config", "c", nil, "the path of the config file, repeat to overlay drop-ins, - for stdin")
	networkdCmd.Flags().StringVar(&networkdCmdFlags.dir, "dir", "/etc/systemd/network", "directory to write the files to")
	networkdCmd.Flags().BoolVar(&networkdCmdFlags.dryRun, "dry-run", false, "print the files instead of writing them")
	cobra.CheckErr(networkdCmd.MarkFlagRequired("config"))
	addCommand(networkdCmd)
}
