// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

// Package decoder provides strict decoding of TOML network configuration tables.
package decoder

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"maps"
	"reflect"
	"slices"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

var (
	// ErrUnknownField is returned (wrapped) when a table contains a key the target does not declare.
	ErrUnknownField = errors.New("unknown field")
	// ErrMissingField is returned (wrapped) when a required key is absent.
	ErrMissingField = errors.New("missing field")
)

// Table is a decoded TOML table.
type Table = map[string]any

// FieldError describes a problem with a single key of a table.
type FieldError struct {
	Err error
	Key string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s %q", e.Err, e.Key)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// Parse decodes a TOML document into a generic table.
func Parse(data []byte) (Table, error) {
	return ParseReader(bytes.NewReader(data))
}

// ParseReader decodes a TOML document from r into a generic table.
func ParseReader(r io.Reader) (Table, error) {
	table := Table{}

	if err := toml.NewDecoder(r).Decode(&table); err != nil {
		return nil, describe(err)
	}

	return table, nil
}

// Strict decodes the table into dest rejecting any key dest does not declare.
//
// Values typed as any in dest receive the generic representation and are not checked.
func Strict(table Table, dest any) error {
	data, err := toml.Marshal(table)
	if err != nil {
		return fmt.Errorf("error re-encoding table: %w", err)
	}

	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	if err = dec.Decode(dest); err != nil {
		var strictErr *toml.StrictMissingError

		if errors.As(err, &strictErr) && len(strictErr.Errors) > 0 {
			return &FieldError{Err: ErrUnknownField, Key: strings.Join(strictErr.Errors[0].Key(), ".")}
		}

		var decodeErr *toml.DecodeError

		if errors.As(err, &decodeErr) {
			return describe(err)
		}

		return locate(table, dest, err)
	}

	return nil
}

// locate finds the top-level key of the table which fails to decode into dest.
//
// Type and range errors don't carry the key path, so each key is decoded on its own
// into a fresh value of the dest type, in sorted order.
func locate(table Table, dest any, err error) error {
	typ := reflect.TypeOf(dest)
	if typ == nil || typ.Kind() != reflect.Pointer {
		return err
	}

	for _, key := range slices.Sorted(maps.Keys(table)) {
		data, marshalErr := toml.Marshal(Table{key: table[key]})
		if marshalErr != nil {
			continue
		}

		if keyErr := toml.Unmarshal(data, reflect.New(typ.Elem()).Interface()); keyErr != nil {
			return fmt.Errorf("%q: %w", key, keyErr)
		}
	}

	return err
}

// RequireKeys checks that all the keys are present in the table, reporting the first absent one.
func RequireKeys(table Table, keys ...string) error {
	for _, key := range keys {
		if _, ok := table[key]; !ok {
			return &FieldError{Err: ErrMissingField, Key: key}
		}
	}

	return nil
}

// AsTable converts a generic value to a table, key names the value in error messages.
func AsTable(key string, v any) (Table, error) {
	table, ok := v.(Table)
	if !ok {
		return nil, fmt.Errorf("%q: expected a table, got %T", key, v)
	}

	return table, nil
}

func describe(err error) error {
	var decodeErr *toml.DecodeError

	if errors.As(err, &decodeErr) {
		if key := decodeErr.Key(); len(key) > 0 {
			return fmt.Errorf("%q: %w", strings.Join(key, "."), err)
		}
	}

	return err
}
