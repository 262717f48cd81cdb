// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

// Package textdiff provides a way to compare two text blobs.
package textdiff

import (
	"fmt"
	"strings"

	"github.com/hexops/gotextdiff"
	"github.com/hexops/gotextdiff/myers"
	"github.com/hexops/gotextdiff/span"
)

// MaxLines is the maximum number of lines that the diff function will process before giving up and returning a message instead.
const MaxLines = 75_000

// Diff is a function that computes unified diff between two strings.
//
// The diff is limited to MaxLines lines, and if the diff is larger than that, a message is returned instead of the actual diff.
func Diff(a, b string) (string, error) {
	return DiffWithCustomPaths(a, b, "a", "b")
}

// DiffWithCustomPaths is almost same as Diff, but allows to specify custom paths for the diff header.
func DiffWithCustomPaths(a, b, aPath, bPath string) (string, error) {
	if a == b {
		return "", nil
	}

	prevLines := strings.Count(a, "\n")
	newLines := strings.Count(b, "\n")

	if prevLines+newLines > MaxLines {
		return fmt.Sprintf("--- %s\n+++ %s\n@@ -%d,%d +%d,%d @@ diff too large to display\n", aPath, bPath, 1, prevLines, 1, newLines), nil
	}

	edits := myers.ComputeEdits(span.URIFromPath(aPath), a, b)

	return fmt.Sprint(gotextdiff.ToUnified(aPath, bPath, a, edits)), nil
}
