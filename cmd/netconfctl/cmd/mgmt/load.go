// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package mgmt

import (
	"bytes"
	"encoding/hex"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"

	"github.com/siderolabs/netconf/cmd/netconfctl/pkg/helpers"
	"github.com/siderolabs/netconf/internal/pkg/toml"
	"github.com/siderolabs/netconf/pkg/machinery/config/configloader"
)

// stdinPath reads the net config from stdin.
const stdinPath = "-"

// source is a loaded net config and the document it was loaded from.
type source struct {
	name   string
	data   []byte
	config *configloader.NetConfig
}

// loadConfig reads the net config from the paths, merging drop-ins in order.
func loadConfig(logger *zap.Logger, stdin io.Reader, paths []string) (*source, error) {
	if len(paths) == 0 {
		return nil, errors.New("at least one config path is required")
	}

	var (
		data []byte
		cfg  *configloader.NetConfig
		err  error
	)

	switch {
	case len(paths) == 1 && paths[0] == stdinPath:
		var buf bytes.Buffer

		cfg, err = configloader.NewFromReader(io.TeeReader(stdin, &buf))
		data = buf.Bytes()
	case len(paths) == 1:
		data, err = os.ReadFile(paths[0])
		if err == nil {
			cfg, err = configloader.NewFromBytes(data)
		}
	default:
		data, err = mergeConfig(logger, stdin, paths)
		if err == nil {
			cfg, err = configloader.NewFromBytes(data)
		}
	}

	if err != nil {
		var merr *multierror.Error

		if errors.As(err, &merr) {
			return nil, helpers.AppendErrors(nil, merr.Errors...)
		}

		return nil, err
	}

	logger.Debug("loaded config", zap.Strings("paths", paths), zap.Int("devices", len(cfg.Devices())))

	return &source{
		name:   strings.Join(paths, ", "),
		data:   data,
		config: cfg,
	}, nil
}

// mergeConfig merges the files in order, stdin may be one of the parts.
func mergeConfig(logger *zap.Logger, stdin io.Reader, paths []string) ([]byte, error) {
	parts := make([]toml.Part, 0, len(paths))
	stdinUsed := false

	for _, path := range paths {
		if path == stdinPath {
			if stdinUsed {
				return nil, errors.New("stdin can only be used once as a config source")
			}

			stdinUsed = true

			parts = append(parts, toml.Part{Name: path, Reader: stdin})

			continue
		}

		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}

		defer f.Close() //nolint:errcheck

		parts = append(parts, toml.Part{Name: path, Reader: f})
	}

	data, checksums, err := toml.MergeParts(parts)
	if err != nil {
		return nil, err
	}

	for _, path := range paths {
		logger.Debug("merged config", zap.String("path", path), zap.String("sha256", hex.EncodeToString(checksums[path])))
	}

	return data, nil
}
