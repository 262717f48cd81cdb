// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package mgmt

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/siderolabs/netconf/cmd/netconfctl/cmd/common"
	"github.com/siderolabs/netconf/pkg/machinery/config/encoder"
	"github.com/siderolabs/netconf/pkg/machinery/textdiff"
)

var renderCmdFlags struct {
	configs []string
	output  string
	diff    bool
}

// renderCmd prints the canonical encoding of the net config.
var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render net config in canonical form",
	Long:  ``,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := encoder.ParseFormat(renderCmdFlags.output)
		if err != nil {
			return err
		}

		return render(common.Logger(), cmd.InOrStdin(), cmd.OutOrStdout(), renderCmdFlags.configs, format, renderCmdFlags.diff)
	},
}

func render(logger *zap.Logger, stdin io.Reader, out io.Writer, paths []string, format encoder.Format, diff bool) error {
	if diff && format != encoder.FormatTOML {
		return errors.New("--diff is only supported for toml output")
	}

	src, err := loadConfig(logger, stdin, paths)
	if err != nil {
		return err
	}

	canonical, err := encoder.EncodeNetConfig(src.config, encoder.WithFormat(format))
	if err != nil {
		return err
	}

	if !diff {
		_, err = out.Write(canonical)

		return err
	}

	patch, err := textdiff.DiffWithCustomPaths(string(src.data), string(canonical), src.name, src.name+" (canonical)")
	if err != nil {
		return err
	}

	if patch == "" {
		logger.Info("net config is already in canonical form")

		return nil
	}

	printPatch(out, patch)

	return nil
}

// printPatch prints a unified diff, coloring added and removed lines.
func printPatch(out io.Writer, patch string) {
	for line := range strings.Lines(patch) {
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
			fmt.Fprint(out, color.New(color.Bold).Sprint(line))
		case strings.HasPrefix(line, "+"):
			fmt.Fprint(out, color.GreenString("%s", line))
		case strings.HasPrefix(line, "-"):
			fmt.Fprint(out, color.RedString("%s", line))
		case strings.HasPrefix(line, "@@"):
			fmt.Fprint(out, color.CyanString("%s", line))
		default:
			fmt.Fprint(out, line)
		}
	}
}

func init() {
	renderCmd.Flags().StringSliceVarP(&renderCmdFlags.configs, "config", "c", nil, "the path of the config file, repeat to overlay drop-ins, - for stdin")
	renderCmd.Flags().StringVarP(&renderCmdFlags.output, "output", "o", encoder.FormatTOML.String(), "output format (toml, yaml)")
	renderCmd.Flags().BoolVar(&renderCmdFlags.diff, "diff", false, "show the difference between the config and its canonical form")
	cobra.CheckErr(renderCmd.MarkFlagRequired("config"))
	addCommand(renderCmd)
}
