// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

// Package merge overlays net config tables.
package merge

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/siderolabs/netconf/pkg/machinery/config/decoder"
)

// Merge overlays the right table onto the left one.
//
// Rules:
//   - tables are merged recursively, key by key.
//   - any other value (string, integer, boolean, array, array of tables) in the right replaces the left one.
//   - a table can't be replaced with a non-table value and vice versa.
//
// Arrays are replaced rather than concatenated, so that an overlay can shrink the list of bond interfaces.
func Merge(left, right decoder.Table) error {
	return merge(left, right, nil)
}

func merge(left, right decoder.Table, path []string) error {
	for _, key := range slices.Sorted(maps.Keys(right)) {
		vr := right[key]
		keyPath := append(slices.Clip(path), key)

		vl, ok := left[key]
		if !ok {
			left[key] = vr

			continue
		}

		tl, leftIsTable := vl.(decoder.Table)
		tr, rightIsTable := vr.(decoder.Table)

		switch {
		case leftIsTable && rightIsTable:
			if err := merge(tl, tr, keyPath); err != nil {
				return err
			}
		case leftIsTable != rightIsTable:
			return fmt.Errorf("merge type mismatch at %q: left %T right %T", strings.Join(keyPath, "."), vl, vr)
		default:
			left[key] = vr
		}
	}

	return nil
}
