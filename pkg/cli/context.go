// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

// Package cli contains helpers shared by command line tools.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
)

// WithContext wraps function call to provide a context cancellable with ^C.
func WithContext(ctx context.Context, f func(context.Context) error) error {
	return withSignals(ctx, os.Stderr, f, os.Interrupt, syscall.SIGTERM)
}

func withSignals(ctx context.Context, w io.Writer, f func(context.Context) error, signals ...os.Signal) error {
	wrappedCtx, wrappedCtxCancel := context.WithCancel(ctx)
	defer wrappedCtxCancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, signals...)
	defer signal.Stop(sigCh)

	exited := make(chan struct{})
	defer close(exited)

	go func() {
		select {
		case <-sigCh:
			wrappedCtxCancel()

			signal.Stop(sigCh)
			fmt.Fprintln(w, "Signal received, aborting, press Ctrl+C once again to abort immediately...")
		case <-wrappedCtx.Done():
		case <-exited:
		}
	}()

	return f(wrappedCtx)
}
