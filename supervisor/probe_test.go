package supervisor

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/require"

	internalnet "github.com/spent646/ai-shadow-coach/internal/net"
)

// fakeBackend listens on an ephemeral loopback port and answers "/" the way
// the real backend does once uvicorn is up.
func fakeBackend(t *testing.T) int {
	t.Helper()
	router := httprouter.New()
	router.GET("/", func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		w.WriteHeader(http.StatusOK)
	})

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	server := &http.Server{Handler: router}
	go server.Serve(listener)
	t.Cleanup(func() { server.Close() })

	return listener.Addr().(*net.TCPAddr).Port
}

func TestWaitForBackend(t *testing.T) {
	port := fakeBackend(t)

	sup, err := New(Config{
		BackendDir: t.TempDir(),
		Port:       port,
	}, WithLogger(testLog), WithWaitInterval(10*time.Millisecond))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, sup.WaitForBackend(ctx))
}

func TestWaitForBackendTimesOut(t *testing.T) {
	// Acquire and release a port so nothing is listening on it.
	port, err := internalnet.GetEphemeralTCPPort()
	require.NoError(t, err)

	sup, err := New(Config{
		BackendDir: t.TempDir(),
		Port:       port,
	}, WithLogger(testLog), WithWaitInterval(10*time.Millisecond))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	err = sup.WaitForBackend(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestWaitForBackendLateStart(t *testing.T) {
	port, err := internalnet.GetEphemeralTCPPort()
	require.NoError(t, err)

	sup, err := New(Config{
		BackendDir: t.TempDir(),
		Port:       port,
	}, WithLogger(testLog), WithWaitInterval(10*time.Millisecond))
	require.NoError(t, err)

	// Start listening a little after the probe begins, like a backend
	// that is still importing its modules.
	go func() {
		time.Sleep(200 * time.Millisecond)
		listener, err := net.Listen("tcp", "127.0.0.1:"+strconv.Itoa(port))
		if err != nil {
			return
		}
		http.Serve(listener, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, sup.WaitForBackend(ctx))
}
