// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package nethelpers

import "fmt"

// ARPValidate is an ARP Validation mode.
type ARPValidate uint32

// ARPValidate constants.
//
// Values follow the kernel arp_validate numbering.
const (
	ARPValidateNone   ARPValidate = iota // none
	ARPValidateActive                    // active
	ARPValidateBackup                    // backup
	ARPValidateAll                       // all
)

var arpValidateNames = map[ARPValidate]string{
	ARPValidateNone:   "none",
	ARPValidateActive: "active",
	ARPValidateBackup: "backup",
	ARPValidateAll:    "all",
}

// ARPValidateByName parses ARPValidate.
//
// Names are case-sensitive.
func ARPValidateByName(a string) (ARPValidate, error) {
	switch a {
	case "none":
		return ARPValidateNone, nil
	case "active":
		return ARPValidateActive, nil
	case "backup":
		return ARPValidateBackup, nil
	case "all":
		return ARPValidateAll, nil
	default:
		return 0, fmt.Errorf("invalid arpmon-validate mode %q", a)
	}
}

// ARPValidateValues returns all known ARPValidate values.
func ARPValidateValues() []ARPValidate {
	return []ARPValidate{ARPValidateNone, ARPValidateActive, ARPValidateBackup, ARPValidateAll}
}

func (a ARPValidate) String() string {
	if name, ok := arpValidateNames[a]; ok {
		return name
	}

	return fmt.Sprintf("ARPValidate(%d)", uint32(a))
}

// IsAARPValidate returns true if the value is a known ARPValidate.
func (a ARPValidate) IsAARPValidate() bool {
	_, ok := arpValidateNames[a]

	return ok
}

// MarshalText implements encoding.TextMarshaler.
func (a ARPValidate) MarshalText() ([]byte, error) {
	if !a.IsAARPValidate() {
		return nil, fmt.Errorf("invalid arpmon-validate mode %d", uint32(a))
	}

	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *ARPValidate) UnmarshalText(text []byte) error {
	var err error

	*a, err = ARPValidateByName(string(text))

	return err
}
