package backend

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"runtime"
	"time"

	"go.uber.org/zap"

	"github.com/jbweber/ecst/internal/confirm"
	"github.com/jbweber/ecst/internal/request"
	"github.com/jbweber/ecst/internal/ui"
)

// DefaultWaitDelay bounds how long a cancelled run waits for the process
// to release its output before giving up on it.
const DefaultWaitDelay = 5 * time.Second

// DefaultInterpreter is the PowerShell executable for the current platform.
func DefaultInterpreter() string {
	if runtime.GOOS == "windows" {
		return "powershell.exe"
	}
	return "pwsh"
}

// Options configures an Invoker.
type Options struct {
	Interpreter string
	BaseDir     string

	// Timeout bounds a single run. Zero means no limit.
	Timeout time.Duration

	// CancelOnInterrupt cancels the run when the process receives an
	// interrupt while the backend is running.
	CancelOnInterrupt bool

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	Console *ui.Console
	Logger  *zap.Logger
}

// Result is the outcome of a completed run.
type Result struct {
	Code     int
	Duration time.Duration
}

// Invoker runs invocation specs through the interpreter.
type Invoker struct {
	opts    Options
	runner  runner
	console *ui.Console
	logger  *zap.Logger
}

// NewInvoker creates an invoker that runs processes with os/exec.
func NewInvoker(opts Options) *Invoker {
	return newInvoker(opts, execRunner{waitDelay: DefaultWaitDelay})
}

func newInvoker(opts Options, r runner) *Invoker {
	if opts.Interpreter == "" {
		opts.Interpreter = DefaultInterpreter()
	}
	if opts.Stdin == nil {
		opts.Stdin = os.Stdin
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	console := opts.Console
	if console == nil {
		console = ui.NewConsole(opts.Stdout, false)
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Invoker{
		opts:    opts,
		runner:  r,
		console: console,
		logger:  logger.Named("backend"),
	}
}

// Interpreter returns the configured interpreter name.
func (i *Invoker) Interpreter() string {
	return i.opts.Interpreter
}

// Preflight checks that the interpreter can be resolved.
func (i *Invoker) Preflight() error {
	path, err := i.runner.LookPath(i.opts.Interpreter)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInterpreterNotFound, i.opts.Interpreter, err)
	}
	i.logger.Debug("interpreter resolved", zap.String("path", path))
	return nil
}

// Invoke runs spec and waits for it to finish. A spec whose operation
// mutates runs only when approval covers it, whatever its Mutating flag says. A nonzero exit returns the result together with
// an *ExitError.
func (i *Invoker) Invoke(ctx context.Context, spec *InvocationSpec, approval confirm.Approval) (Result, error) {
	if spec == nil {
		return Result{}, fmt.Errorf("no invocation to run")
	}
	if err := spec.Validate(); err != nil {
		return Result{}, err
	}
	kind := request.Kind(spec.Operation)
	if !kind.Known() {
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownOperation, spec.Operation)
	}
	// The operation kind decides; clearing Mutating cannot skip approval.
	if (kind.Mutating() || spec.Mutating) && !approval.Covers(spec) {
		i.logger.Warn("refusing unconfirmed invocation",
			zap.String("id", spec.ID.String()),
			zap.String("operation", spec.Operation))
		return Result{}, ErrNotConfirmed
	}

	if spec.Mode == ModeScript {
		if _, err := os.Stat(spec.Script); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return Result{}, fmt.Errorf("%w: %s", ErrScriptNotFound, spec.Script)
			}
			return Result{}, fmt.Errorf("failed to stat script %s: %w", spec.Script, err)
		}
	}

	interpreter, err := i.runner.LookPath(i.opts.Interpreter)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %s: %w", ErrInterpreterNotFound, i.opts.Interpreter, err)
	}

	if i.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, i.opts.Timeout)
		defer cancel()
	}
	if i.opts.CancelOnInterrupt {
		var stop context.CancelFunc
		ctx, stop = signal.NotifyContext(ctx, os.Interrupt)
		defer stop()
	}

	log := i.logger.With(
		zap.String("id", spec.ID.String()),
		zap.String("operation", spec.Operation),
		zap.Stringer("mode", spec.Mode),
	)
	if spec.Mode == ModeScript {
		log = log.With(zap.String("script", spec.Script))
	}
	log.Info("invocation starting", zap.Strings("params", spec.ParamNames()))

	if spec.Mode == ModeScript {
		i.console.Info("Executing: %s", spec.Script)
	} else {
		i.console.Info("Executing PowerShell command...")
	}
	i.console.Separator()

	start := time.Now()
	err = i.runner.Run(ctx, Command{
		Path:   interpreter,
		Args:   spec.Args(),
		Env:    spec.Environ(),
		Dir:    i.opts.BaseDir,
		Stdin:  i.opts.Stdin,
		Stdout: i.opts.Stdout,
		Stderr: i.opts.Stderr,
	})
	result := Result{Duration: time.Since(start)}

	i.console.Separator()

	var exitErr *ExitError
	switch {
	case err == nil:
		log.Info("invocation finished", zap.Int("code", 0), zap.Duration("duration", result.Duration))
		return result, nil
	case errors.As(err, &exitErr):
		result.Code = exitErr.Code
		log.Info("invocation finished", zap.Int("code", result.Code), zap.Duration("duration", result.Duration))
		return result, err
	case ctx.Err() != nil:
		result.Code = -1
		log.Warn("invocation cancelled", zap.Error(ctx.Err()), zap.Duration("duration", result.Duration))
		return result, fmt.Errorf("%w: %w", ErrCancelled, ctx.Err())
	default:
		result.Code = -1
		log.Error("invocation failed", zap.Error(err), zap.Duration("duration", result.Duration))
		return result, fmt.Errorf("failed to run %s: %w", interpreter, err)
	}
}
