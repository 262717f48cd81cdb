// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

// Package config defines the interfaces to access network device configuration.
package config

// Document is a configuration document.
type Document interface {
	// Clone returns a deep copy of the document.
	Clone() Document
}

// DeviceDocument is a configuration document describing a single network device.
type DeviceDocument interface {
	Document
	Validator

	// Kind returns the device kind discriminator as written in the document.
	Kind() string
}
