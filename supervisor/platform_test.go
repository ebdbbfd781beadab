package supervisor

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLaunchUnsupportedPlatform(t *testing.T) {
	prev := launchSupported
	launchSupported = false
	t.Cleanup(func() { launchSupported = prev })

	backendDir := t.TempDir()
	sup, err := New(Config{BackendDir: backendDir}, WithLogger(testLog))
	require.NoError(t, err)

	// No spawn, no log or status files, and the host proceeds normally.
	require.NoError(t, sup.Launch(context.Background()))
	require.NoError(t, sup.Err())

	entries, err := os.ReadDir(backendDir)
	require.NoError(t, err)
	require.Empty(t, entries)
}
