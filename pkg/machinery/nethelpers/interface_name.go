// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package nethelpers

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// MaxInterfaceNameLength is IFNAMSIZ without the trailing NUL.
const MaxInterfaceNameLength = 15

// InterfaceName is a validated Linux network interface name.
type InterfaceName string

// ParseInterfaceName validates the interface name.
func ParseInterfaceName(name string) (InterfaceName, error) {
	if name == "" {
		return "", errors.New("interface name cannot be empty")
	}

	if len(name) > MaxInterfaceNameLength {
		return "", fmt.Errorf("interface name %q must be %d characters or less", name, MaxInterfaceNameLength)
	}

	if name == "." || name == ".." {
		return "", fmt.Errorf("interface name cannot be %q", name)
	}

	if strings.ContainsFunc(name, func(r rune) bool {
		return r == '/' || r == ':' || unicode.IsSpace(r)
	}) {
		return "", fmt.Errorf("interface name %q cannot contain '/', ':' or whitespace", name)
	}

	return InterfaceName(name), nil
}

func (n InterfaceName) String() string {
	return string(n)
}

// MarshalText implements encoding.TextMarshaler.
func (n InterfaceName) MarshalText() ([]byte, error) {
	return []byte(n), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (n *InterfaceName) UnmarshalText(text []byte) error {
	var err error

	*n, err = ParseInterfaceName(string(text))

	return err
}
