// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package config

// Validator is the interface to validate configuration.
//
// Validation stops at the first violated rule, so at most one error is returned.
type Validator interface {
	Validate() error
}
