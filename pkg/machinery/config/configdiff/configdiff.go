// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

// Package configdiff provides a way to compare two net configs.
package configdiff

import (
	"github.com/siderolabs/netconf/pkg/machinery/config/configloader"
	"github.com/siderolabs/netconf/pkg/machinery/config/encoder"
	"github.com/siderolabs/netconf/pkg/machinery/textdiff"
)

// DiffToString returns a unified diff between the canonical encodings of two net configs.
//
// A nil config is treated as an empty document.
func DiffToString(oldCfg, newCfg *configloader.NetConfig) (string, error) {
	oldText, err := encode(oldCfg)
	if err != nil {
		return "", err
	}

	newText, err := encode(newCfg)
	if err != nil {
		return "", err
	}

	return textdiff.Diff(oldText, newText)
}

func encode(cfg *configloader.NetConfig) (string, error) {
	if cfg == nil {
		return "", nil
	}

	out, err := encoder.EncodeNetConfig(cfg)
	if err != nil {
		return "", err
	}

	return string(out), nil
}
