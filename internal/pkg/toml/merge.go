// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

// Package toml merges net config drop-in files.
package toml

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/siderolabs/netconf/pkg/machinery/config/decoder"
	"github.com/siderolabs/netconf/pkg/machinery/config/merge"
)

// Part is a named net config document.
type Part struct {
	Name   string
	Reader io.Reader
}

// tomlDecode decodes a TOML document into a table, and returns a sha256 hash of the content.
func tomlDecode(r io.Reader) (decoder.Table, []byte, error) {
	hash := sha256.New()

	table, err := decoder.ParseReader(io.TeeReader(r, hash))

	return table, hash.Sum(nil), err
}

// Merge several net config files into one, later files overlay earlier ones.
//
// Merge returns a sha256 checksum of each file merged.
func Merge(paths []string) ([]byte, map[string][]byte, error) {
	parts := make([]Part, 0, len(paths))

	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			return nil, nil, fmt.Errorf("error opening %q: %w", path, err)
		}

		defer f.Close() //nolint:errcheck

		parts = append(parts, Part{Name: path, Reader: f})
	}

	return MergeParts(parts)
}

// MergeParts merges the documents in order, later parts overlay earlier ones.
//
// Checksums are keyed by part name.
func MergeParts(parts []Part) ([]byte, map[string][]byte, error) {
	merged := decoder.Table{}
	checksums := make(map[string][]byte, len(parts))

	var header []byte

	for _, part := range parts {
		partial, hash, err := tomlDecode(part.Reader)
		if err != nil {
			return nil, nil, fmt.Errorf("error decoding %q: %w", part.Name, err)
		}

		if err := merge.Merge(merged, partial); err != nil {
			return nil, nil, fmt.Errorf("error merging %q: %w", part.Name, err)
		}

		header = fmt.Appendf(header, "## %s (sha256:%s)\n", part.Name, hex.EncodeToString(hash))
		checksums[part.Name] = hash
	}

	var out bytes.Buffer

	_, _ = out.Write(header)
	_ = out.WriteByte('\n')

	if err := toml.NewEncoder(&out).SetIndentTables(true).Encode(merged); err != nil {
		return nil, nil, fmt.Errorf("error encoding merged config: %w", err)
	}

	return out.Bytes(), checksums, nil
}
