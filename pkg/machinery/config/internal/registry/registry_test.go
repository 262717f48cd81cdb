// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package registry //nolint:testpackage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siderolabs/netconf/pkg/machinery/config/config"
	"github.com/siderolabs/netconf/pkg/machinery/config/decoder"
)

type fakeDocument struct {
	kind string
}

func (d *fakeDocument) Clone() config.Document { return &fakeDocument{kind: d.kind} }
func (d *fakeDocument) Kind() string           { return d.kind }
func (d *fakeDocument) Validate() error        { return nil }

func TestRegistry(t *testing.T) {
	t.Parallel()

	r := &Registry{registered: map[string]DecodeFunc{}}

	r.register("Dummy", func(table decoder.Table) (config.DeviceDocument, error) {
		return &fakeDocument{kind: table["kind"].(string)}, nil //nolint:forcetypeassert
	})

	assert.PanicsWithValue(t, ErrExists, func() {
		r.register("dummy", nil)
	})

	doc, err := r.decode(decoder.Table{"kind": "DUMMY"})
	require.NoError(t, err)
	assert.Equal(t, "DUMMY", doc.Kind())

	_, err = r.decode(decoder.Table{"kind": "bridge"})
	require.ErrorIs(t, err, ErrNotRegistered)
	assert.EqualError(t, err, `unsupported device kind "bridge"`)

	_, err = r.decode(decoder.Table{})
	require.ErrorIs(t, err, decoder.ErrMissingField)

	_, err = r.decode(decoder.Table{"kind": int64(1)})
	assert.Error(t, err)
}
