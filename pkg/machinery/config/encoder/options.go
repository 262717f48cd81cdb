// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package encoder

import "fmt"

// Format is the encoder output format.
type Format int

const (
	// FormatTOML renders the net config wire format.
	FormatTOML Format = iota
	// FormatYAML renders YAML, for display only.
	FormatYAML
)

func (f Format) String() string {
	switch f {
	case FormatTOML:
		return "toml"
	case FormatYAML:
		return "yaml"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// ParseFormat parses the format name as accepted on the command line.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "toml":
		return FormatTOML, nil
	case "yaml":
		return FormatYAML, nil
	default:
		return 0, fmt.Errorf("unsupported output format %q", s)
	}
}

// Options defines encoder config.
type Options struct {
	Format Format
	Header string
}

func newOptions(opts ...Option) *Options {
	res := &Options{
		Format: FormatTOML,
	}

	for _, o := range opts {
		o(res)
	}

	return res
}

// Option gives ability to alter config encoder output settings.
type Option func(*Options)

// WithFormat sets the output format.
func WithFormat(format Format) Option {
	return func(o *Options) {
		o.Format = format
	}
}

// WithHeader adds a comment at the top of the output, one comment line per line of header.
func WithHeader(header string) Option {
	return func(o *Options) {
		o.Header = header
	}
}
