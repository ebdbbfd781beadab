//go:build unix

package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestOwnExitsWhenSpawnFails(t *testing.T) {
	// An empty backend dir has no interpreter, so the spawn fails. With
	// --own there is then no child to hold on to, and the harness must
	// return instead of blocking for an interrupt.
	backendDir := t.TempDir()

	done := make(chan error, 1)
	go func() {
		done <- newApp().Run([]string{"coachhost", "--backend-dir", backendDir, "--own"})
	}()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("harness kept waiting with no backend process to own")
	}
}
