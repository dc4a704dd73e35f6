package backend

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"time"
)

// Command is one process to run.
type Command struct {
	Path   string
	Args   []string
	Env    []string
	Dir    string
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// runner executes processes.
//
// In production, this is satisfied by execRunner.
// In tests, this is satisfied by mock implementations.
type runner interface {
	// LookPath resolves an executable name
	LookPath(file string) (string, error)

	// Run starts cmd and waits for it. A nonzero exit is reported as
	// *ExitError.
	Run(ctx context.Context, cmd Command) error
}

// execRunner runs processes with os/exec.
type execRunner struct {
	waitDelay time.Duration
}

func (execRunner) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (r execRunner) Run(ctx context.Context, c Command) error {
	cmd := exec.CommandContext(ctx, c.Path, c.Args...)
	cmd.Dir = c.Dir
	cmd.Env = append(os.Environ(), c.Env...)
	cmd.Stdin = c.Stdin
	cmd.Stdout = c.Stdout
	cmd.Stderr = c.Stderr
	cmd.WaitDelay = r.waitDelay
	gracefulCancel(cmd)

	err := cmd.Run()
	if err == nil {
		return nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && ctx.Err() == nil {
		return &ExitError{Code: exitErr.ExitCode()}
	}
	return err
}
