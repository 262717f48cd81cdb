// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

// Package common contains common flags and helpers of netconfctl commands.
package common

import (
	"os"

	"go.uber.org/zap"

	"github.com/siderolabs/netconf/pkg/logging"
)

// Debug enables debug logging.
var Debug bool

// Logger returns the logger of the command, writing to stderr.
func Logger() *zap.Logger {
	return logging.NewCLILogger(os.Stderr, Debug, logging.WithColoredLevels())
}
