package supervisor

import "fmt"

// FatalResourceError indicates the supervisor could not acquire a resource
// it needs before attempting the spawn, such as the backend log files. The
// host application treats this as fatal and aborts its startup sequence.
type FatalResourceError struct {
	Op   string
	Path string
	Err  error
}

func (e *FatalResourceError) Error() string {
	return fmt.Sprintf("%s %q: %s", e.Op, e.Path, e.Err)
}

func (e *FatalResourceError) Unwrap() error { return e.Err }

// SpawnError indicates the single spawn attempt failed. It is recoverable:
// the supervisor records it to the failure status file and the host proceeds
// with its startup, with no backend running. Launch never returns it; it is
// available from Err after Launch for hosts that want to inspect the outcome.
type SpawnError struct {
	Err error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("spawn error: %s", e.Err)
}

func (e *SpawnError) Unwrap() error { return e.Err }
