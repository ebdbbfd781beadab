// Package supervisor launches the desktop shell's backend HTTP server as a
// child process during host startup. It resolves the backend working
// directory, redirects the child's stdout and stderr to append-mode log
// files inside it, spawns the process exactly once, and records the outcome
// to single-write status files. By default the child is fire-and-forget: the
// supervisor does not wait on it, monitor it, or terminate it.
package supervisor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Launcher starts the dependent backend service for the current platform.
// The Supervisor implements it; on platforms where hidden-window subprocess
// launching is unsupported, Launch is a no-op.
type Launcher interface {
	Launch(ctx context.Context) error
}

// Supervisor performs the single backend spawn attempt for one host launch.
// It is not goroutine-safe; the host invokes it once from its startup hook.
type Supervisor struct {
	cfg Config
	log *zap.SugaredLogger

	launchID string

	waitInterval time.Duration

	ownProcess bool
	procMut    sync.Mutex
	proc       *os.Process

	spawnErr *SpawnError
}

type Option func(s *Supervisor)

func WithLogger(l *zap.Logger) Option {
	return func(s *Supervisor) {
		s.log = l.Sugar()
	}
}

// WithProcessOwnership keeps the child process handle so that Stop can
// terminate the backend when the host shuts down. Without it the handle is
// released after the spawn and the child outlives the host.
func WithProcessOwnership() Option {
	return func(s *Supervisor) {
		s.ownProcess = true
	}
}

// WithWaitInterval sets the poll interval used by WaitForBackend.
func WithWaitInterval(d time.Duration) Option {
	return func(s *Supervisor) {
		s.waitInterval = d
	}
}

// New builds a Supervisor for the given config. Empty config fields are
// filled in from the package defaults; only BackendDir is required.
func New(cfg Config, opts ...Option) (*Supervisor, error) {
	if cfg.BackendDir == "" {
		return nil, errors.New("backend dir is required")
	}
	cfg.applyDefaults()

	s := &Supervisor{
		cfg:          cfg,
		launchID:     uuid.NewString(),
		waitInterval: 100 * time.Millisecond,
	}
	for _, o := range opts {
		o(s)
	}
	if s.log == nil {
		logger, err := zap.NewDevelopment()
		if err != nil {
			return nil, fmt.Errorf("building logger: %w", err)
		}
		s.log = logger.Sugar()
	}
	s.log = s.log.Named("supervisor").With("launch_id", s.launchID)
	return s, nil
}

// Supported reports whether backend launching is implemented for the
// current platform.
func Supported() bool { return launchSupported }

// Config returns the effective configuration after defaulting.
func (s *Supervisor) Config() Config { return s.cfg }

// Launch makes the single spawn attempt. It opens the two backend log
// files, builds the interpreter invocation, spawns it with the backend dir
// as working directory, and writes the outcome status file.
//
// Failure to open the log files is fatal and returned as a
// *FatalResourceError; the host aborts startup on it. A failed spawn is
// recoverable: it is written to the failure status file and Launch returns
// nil, so the host always proceeds to show its window. On unsupported
// platforms Launch does nothing and returns nil.
func (s *Supervisor) Launch(ctx context.Context) error {
	if !launchSupported {
		s.log.Debug("backend launch not implemented on this platform, skipping")
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	out, err := openAppend(s.cfg.outLogPath())
	if err != nil {
		return &FatalResourceError{Op: "opening stdout log", Path: s.cfg.outLogPath(), Err: err}
	}
	errLog, err := openAppend(s.cfg.errLogPath())
	if err != nil {
		out.Close()
		return &FatalResourceError{Op: "opening stderr log", Path: s.cfg.errLogPath(), Err: err}
	}
	// The log files are handed to the child and deliberately never closed
	// here; they are released when the host process exits.

	cmd := exec.Command(s.cfg.InterpreterPath(), s.cfg.Args()...)
	cmd.Dir = s.cfg.BackendDir
	cmd.Stdout = out
	cmd.Stderr = errLog
	setPlatformAttrs(cmd)

	s.log.Debugw("spawning backend",
		"interpreter", s.cfg.InterpreterPath(),
		"args", s.cfg.Args(),
		"dir", s.cfg.BackendDir)

	if err := cmd.Start(); err != nil {
		s.spawnErr = &SpawnError{Err: err}
		s.writeStatus(s.cfg.errStatusPath(), s.spawnErr.Error()+"\n")
		s.log.Errorw("backend spawn failed", "error", err)
		return nil
	}

	s.writeStatus(s.cfg.okStatusPath(), "spawn ok\n")
	s.log.Infow("backend spawned", "pid", cmd.Process.Pid)

	if s.ownProcess {
		s.procMut.Lock()
		s.proc = cmd.Process
		s.procMut.Unlock()
		// Reap the child when it exits so owned processes never linger as
		// zombies for the host's lifetime.
		go cmd.Wait()
	} else {
		cmd.Process.Release()
	}
	return nil
}

// Err returns the outcome of the last Launch: nil on success or when no
// spawn was attempted, or the recorded *SpawnError on a failed spawn.
func (s *Supervisor) Err() error {
	if s.spawnErr == nil {
		return nil
	}
	return s.spawnErr
}

// Stop terminates an owned backend process. It is a no-op without
// WithProcessOwnership or when no child was spawned.
func (s *Supervisor) Stop(ctx context.Context) error {
	s.procMut.Lock()
	proc := s.proc
	s.proc = nil
	s.procMut.Unlock()
	if proc == nil {
		return nil
	}
	s.log.Debugw("stopping backend", "pid", proc.Pid)
	if err := proc.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return fmt.Errorf("killing backend process: %w", err)
	}
	return nil
}

// writeStatus records the spawn outcome. Write failures are only logged;
// there is nowhere left to report them.
func (s *Supervisor) writeStatus(path, contents string) {
	if err := os.WriteFile(path, []byte(contents), 0666); err != nil {
		s.log.Debugf("error writing status file %q: %s", path, err)
	}
}

func openAppend(path string) (*os.File, error) {
	return os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0666)
}
