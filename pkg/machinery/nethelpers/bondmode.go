// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package nethelpers

import "fmt"

// BondMode is a bond mode.
//
// Only active-backup bonds can be configured; the numbering follows the kernel so that
// further modes can be added without renumbering.
type BondMode uint8

// BondMode constants.
const (
	BondModeActiveBackup BondMode = 1 // active-backup
)

// BondModeByName parses BondMode.
func BondModeByName(mode string) (BondMode, error) {
	switch mode {
	case "active-backup":
		return BondModeActiveBackup, nil
	default:
		return 0, fmt.Errorf("invalid bond mode %q", mode)
	}
}

func (m BondMode) String() string {
	switch m {
	case BondModeActiveBackup:
		return "active-backup"
	default:
		return fmt.Sprintf("BondMode(%d)", uint8(m))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (m BondMode) MarshalText() ([]byte, error) {
	if m != BondModeActiveBackup {
		return nil, fmt.Errorf("invalid bond mode %d", uint8(m))
	}

	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *BondMode) UnmarshalText(text []byte) error {
	var err error

	*m, err = BondModeByName(string(text))

	return err
}
