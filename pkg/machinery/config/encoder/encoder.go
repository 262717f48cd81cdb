// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

// Package encoder renders network configuration documents as TOML or YAML.
package encoder

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/pelletier/go-toml/v2"
	yaml "gopkg.in/yaml.v3"

	"github.com/siderolabs/netconf/pkg/machinery/config/configloader"
)

// Documenter is implemented by values which have a separate wire representation.
type Documenter interface {
	Document() any
}

// Encoder implements config encoder.
type Encoder struct {
	value   any
	options *Options
}

// NewEncoder initializes and returns an `Encoder`.
func NewEncoder(value any, opts ...Option) *Encoder {
	return &Encoder{
		value:   value,
		options: newOptions(opts...),
	}
}

// Marshal converts value to a YAML node, with the header as the head comment.
func (e *Encoder) Marshal() (*yaml.Node, error) {
	node := &yaml.Node{}

	if err := node.Encode(e.document()); err != nil {
		return nil, err
	}

	if e.options.Header != "" {
		node.HeadComment = e.options.Header
	}

	return node, nil
}

// Encode converts value to the configured format.
func (e *Encoder) Encode() ([]byte, error) {
	switch e.options.Format {
	case FormatTOML:
		return e.encodeTOML()
	case FormatYAML:
		node, err := e.Marshal()
		if err != nil {
			return nil, err
		}

		return yaml.Marshal(node)
	default:
		return nil, fmt.Errorf("unsupported format %s", e.options.Format)
	}
}

func (e *Encoder) encodeTOML() ([]byte, error) {
	var buf bytes.Buffer

	if e.options.Header != "" {
		for line := range strings.SplitSeq(e.options.Header, "\n") {
			buf.WriteString(strings.TrimSpace("# " + line))
			buf.WriteByte('\n')
		}

		buf.WriteByte('\n')
	}

	enc := toml.NewEncoder(&buf)
	enc.SetIndentTables(false)
	enc.SetArraysMultiline(false)

	if err := enc.Encode(e.document()); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func (e *Encoder) document() any {
	if d, ok := e.value.(Documenter); ok {
		return d.Document()
	}

	return e.value
}

// EncodeNetConfig renders the whole net config.
func EncodeNetConfig(cfg *configloader.NetConfig, opts ...Option) ([]byte, error) {
	return NewEncoder(cfg, opts...).Encode()
}
