// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package network

import "errors"

// ErrInvalidNetConfig is matched by every semantic validation error.
var ErrInvalidNetConfig = errors.New("invalid network configuration")

// InvalidNetConfigError is returned by Validate when a document violates a semantic rule.
type InvalidNetConfigError struct {
	Reason string
}

func (e *InvalidNetConfigError) Error() string {
	return ErrInvalidNetConfig.Error() + ": " + e.Reason
}

// Is implements errors.Is.
func (e *InvalidNetConfigError) Is(target error) bool {
	return target == ErrInvalidNetConfig //nolint:errorlint
}

func invalidNetConfig(reason string) error {
	return &InvalidNetConfigError{Reason: reason}
}
