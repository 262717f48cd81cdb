// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package textdiff_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siderolabs/netconf/pkg/machinery/textdiff"
)

func TestDiff(t *testing.T) {
	t.Parallel()

	for _, test := range []struct {
		name string
		a, b string

		expected []string
	}{
		{
			name: "equal",
			a:    "version = 3\n",
			b:    "version = 3\n",
		},
		{
			name: "changed line",
			a:    "version = 3\n\n[bond0]\nkind = \"bond\"\n",
			b:    "version = 3\n\n[bond0]\nkind = 'bond'\n",
			expected: []string{
				"--- a\n+++ b\n",
				"-kind = \"bond\"\n",
				"+kind = 'bond'\n",
				" [bond0]\n",
			},
		},
		{
			name: "added line",
			a:    "version = 3\n",
			b:    "version = 3\n[bond0]\n",
			expected: []string{
				"+[bond0]\n",
			},
		},
	} {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			diff, err := textdiff.Diff(test.a, test.b)
			require.NoError(t, err)

			if test.expected == nil {
				assert.Empty(t, diff)

				return
			}

			for _, fragment := range test.expected {
				assert.Contains(t, diff, fragment)
			}
		})
	}
}

func TestDiffWithCustomPaths(t *testing.T) {
	t.Parallel()

	diff, err := textdiff.DiffWithCustomPaths("a = 1\n", "a = 2\n", "net.toml", "net.toml (canonical)")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(diff, "--- net.toml\n+++ net.toml (canonical)\n"), diff)
	assert.Contains(t, diff, "-a = 1\n+a = 2\n")
}

func TestDiffTooLarge(t *testing.T) {
	t.Parallel()

	a := strings.Repeat("a\n", textdiff.MaxLines)

	diff, err := textdiff.Diff(a, a+"b\n")
	require.NoError(t, err)

	assert.Contains(t, diff, "diff too large to display")
}
