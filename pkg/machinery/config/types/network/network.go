// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

// Package network provides network device configuration documents.
//
// Documents are decoded from TOML tables with strict field checking and then validated
// with Validate, which reports the first violated rule as an *InvalidNetConfigError.
package network
