// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

//go:build linux

//nolint:testpackage
package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"sync"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.String()
}

func TestWithContextPassesError(t *testing.T) {
	errExpected := errors.New("boom")

	err := WithContext(t.Context(), func(ctx context.Context) error {
		assert.NoError(t, ctx.Err())

		return errExpected
	})
	assert.ErrorIs(t, err, errExpected)
}

func TestWithSignalsCancels(t *testing.T) {
	var out syncBuffer

	err := withSignals(t.Context(), &out, func(ctx context.Context) error {
		require.NoError(t, syscall.Kill(syscall.Getpid(), syscall.SIGUSR1))

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(10 * time.Second):
			return errors.New("context was not canceled")
		}
	}, syscall.SIGUSR1)

	require.ErrorIs(t, err, context.Canceled)

	assert.Eventually(t, func() bool {
		return out.String() != ""
	}, time.Second, 10*time.Millisecond)
	assert.Contains(t, out.String(), "Signal received, aborting")
}

// The child process returns from withSignals and then raises the signal, which must
// terminate it once the notification is stopped.
func TestWithSignalsStopsNotify(t *testing.T) {
	if os.Getenv("NETCONF_CLI_SIGNAL_CHILD") == "1" {
		_ = withSignals(context.Background(), io.Discard, func(context.Context) error { return nil }, syscall.SIGUSR1) //nolint:usetesting

		_ = syscall.Kill(syscall.Getpid(), syscall.SIGUSR1)

		time.Sleep(5 * time.Second)
		os.Exit(0)
	}

	cmd := exec.CommandContext(t.Context(), os.Args[0], "-test.run=^TestWithSignalsStopsNotify$")
	cmd.Env = append(os.Environ(), "NETCONF_CLI_SIGNAL_CHILD=1")

	err := cmd.Run()

	var exitErr *exec.ExitError

	require.ErrorAs(t, err, &exitErr)

	status, ok := exitErr.Sys().(syscall.WaitStatus)
	require.True(t, ok)

	assert.True(t, status.Signaled())
	assert.Equal(t, syscall.SIGUSR1, status.Signal())
}
