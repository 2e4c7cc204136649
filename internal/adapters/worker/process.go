package worker

import (
	"context"
	"io"
	"os"
	"os/exec"
	"sync"
	"time"

	"go.trai.ch/assetmap/internal/core/domain"
	"go.trai.ch/assetmap/internal/core/ports"
	"go.trai.ch/zerr"
)

// WorkerCommand is the subcommand a worker process is started with.
const WorkerCommand = "worker"

const exitTimeout = 5 * time.Second

var _ ports.WorkerSpawner = (*ProcessSpawner)(nil)

// ProcessSpawner starts workers as child processes speaking newline-delimited JSON over stdio.
type ProcessSpawner struct {
	executable string
	args       []string
	stderr     io.Writer
	logger     ports.Logger
}

// SpawnerOption configures a ProcessSpawner.
type SpawnerOption func(*ProcessSpawner)

// WithCommand replaces the executable and its arguments.
func WithCommand(executable string, args ...string) SpawnerOption {
	return func(s *ProcessSpawner) {
		s.executable = executable
		s.args = args
	}
}

// WithStderr redirects the workers' standard error.
func WithStderr(w io.Writer) SpawnerOption {
	return func(s *ProcessSpawner) {
		s.stderr = w
	}
}

// NewProcessSpawner creates a spawner that re-executes the running binary with the worker subcommand.
func NewProcessSpawner(logger ports.Logger, opts ...SpawnerOption) (*ProcessSpawner, error) {
	s := &ProcessSpawner{
		args:   []string{WorkerCommand},
		stderr: os.Stderr,
		logger: logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.executable == "" {
		exe, err := os.Executable()
		if err != nil {
			return nil, zerr.Wrap(err, "failed to determine executable path")
		}
		s.executable = exe
	}
	return s, nil
}

// Spawn starts one worker process. The process is killed when ctx is canceled.
func (s *ProcessSpawner) Spawn(ctx context.Context) (ports.WorkerConn, error) {
	//nolint:gosec // G204: executable is our own binary, args are fixed literals
	cmd := exec.CommandContext(ctx, s.executable, s.args...)
	cmd.Stderr = s.stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrWorkerFailed.Error())
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrWorkerFailed.Error())
	}
	if err := cmd.Start(); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrWorkerFailed.Error()), "executable", s.executable)
	}
	s.logger.Debug("worker started", "pid", cmd.Process.Pid)

	waitCh := make(chan error, 1)
	go func() {
		waitCh <- cmd.Wait()
	}()

	return &processConn{
		StdioConn: NewStdioConn(stdout, stdin),
		cmd:       cmd,
		waitCh:    waitCh,
		logger:    s.logger,
	}, nil
}

// processConn closes stdin and reaps the child on Close.
type processConn struct {
	*StdioConn
	cmd    *exec.Cmd
	waitCh chan error
	logger ports.Logger
	once   sync.Once
}

func (c *processConn) Close() error {
	var closeErr error
	c.once.Do(func() {
		closeErr = c.StdioConn.Close()
		c.reap()
	})
	return closeErr
}

func (c *processConn) reap() {
	select {
	case err := <-c.waitCh:
		if err != nil {
			c.logger.Debug("worker exited", "pid", c.cmd.Process.Pid, "error", err.Error())
		}
	case <-time.After(exitTimeout):
		_ = c.cmd.Process.Kill()
		<-c.waitCh
		c.logger.Warn("worker killed after exit timeout", "pid", c.cmd.Process.Pid)
	}
}
