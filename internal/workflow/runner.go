package workflow

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/jbweber/ecst/internal/backend"
	"github.com/jbweber/ecst/internal/config"
	"github.com/jbweber/ecst/internal/confirm"
	"github.com/jbweber/ecst/internal/prompt"
	"github.com/jbweber/ecst/internal/request"
	"github.com/jbweber/ecst/internal/status"
	"github.com/jbweber/ecst/internal/ui"
)

const cancelledByOperator = "Operation cancelled by user."

// Operation selects what to run.
type Operation struct {
	Kind request.Kind
	// Template is the catalog selector for template deployments.
	Template string
}

// Dependencies wires a Runner.
type Dependencies struct {
	Store    ConfigStore
	Renderer *backend.Renderer
	Invoker  Invoker
	Prompter prompt.Prompter
	Console  *ui.Console
	Logger   *zap.Logger
}

// Runner executes operations.
type Runner struct {
	store    ConfigStore
	renderer *backend.Renderer
	invoker  Invoker
	builder  *request.Builder
	gate     *confirm.Gate
	prompter prompt.Prompter
	console  *ui.Console
	logger   *zap.Logger
}

// NewRunner creates a runner.
func NewRunner(deps Dependencies) *Runner {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		store:    deps.Store,
		renderer: deps.Renderer,
		invoker:  deps.Invoker,
		builder:  request.NewBuilder(deps.Prompter, deps.Console),
		gate:     confirm.NewGate(deps.Prompter, deps.Console, logger),
		prompter: deps.Prompter,
		console:  deps.Console,
		logger:   logger.Named("workflow"),
	}
}

// Run takes op through the pipeline and waits for the operator to
// acknowledge the outcome. The returned error is the one that ended the
// operation; it has already been reported on the console.
func (r *Runner) Run(ctx context.Context, op Operation) (*status.Operation, error) {
	state := status.NewOperation(string(op.Kind))
	log := r.logger.With(zap.String("operation", state.Name))

	err := r.run(ctx, op, state, log)

	log.Info("operation finished",
		zap.String("specId", state.SpecID),
		zap.String("phase", string(state.Phase)),
		zap.Int("exitCode", state.ExitCode),
		zap.Bool("confirmed", status.IsConditionTrue(state, status.ConditionConfirmed)),
		zap.Bool("declined", status.IsConditionFalse(state, status.ConditionConfirmed)),
		zap.Duration("duration", state.Duration()),
		zap.Error(err))

	r.pause()
	return state, err
}

func (r *Runner) run(ctx context.Context, op Operation, state *status.Operation, log *zap.Logger) error {
	r.transition(state, log, status.TransitionToBuilding)
	r.console.Header(op.Kind.Title())

	doc, err := r.store.Load()
	if err != nil {
		return r.fail(state, log, "ConfigurationUnavailable", ConfigProblem(r.store.Path(), err), err)
	}

	req, err := r.build(doc, op)
	if err != nil {
		status.MarkRequestFailed(state, err)
		if isInterrupted(err) {
			return r.cancel(state, log, interruptReason(state.Phase), cancelledByOperator, err)
		}
		if errors.Is(err, config.ErrFieldMissing) || errors.Is(err, config.ErrFieldType) {
			return r.fail(state, log, "ConfigurationIncomplete", ConfigProblem(r.store.Path(), err), err)
		}
		return r.fail(state, log, "RequestInvalid", err.Error(), err)
	}
	summary := req.Summary()

	spec, err := r.renderer.Render(req)
	if err != nil {
		return r.fail(state, log, "RenderFailed", fmt.Sprintf("%s: %v", summary.Failed, err), err)
	}
	status.MarkRequestBuilt(state, spec.ID.String())
	log = log.With(zap.String("specId", state.SpecID))

	var approval confirm.Approval
	if req.Kind().Mutating() || spec.Mutating {
		r.transition(state, log, status.TransitionToAwaitingConfirmation)
		approval, err = r.gate.Confirm(summary, summary.Question, spec)
		if err != nil {
			status.MarkDeclined(state, summary.Cancelled)
			return r.cancel(state, log, "OperatorDeclined", summary.Cancelled, err)
		}
		status.MarkConfirmed(state)
	}

	r.transition(state, log, status.TransitionToRunning)
	result, err := r.invoker.Invoke(ctx, spec, approval)
	state.ExitCode = result.Code

	var exitErr *backend.ExitError
	switch {
	case err == nil:
		r.transition(state, log, status.TransitionToSucceeded)
		r.console.Success("%s", summary.Succeeded)
		return nil
	case errors.As(err, &exitErr):
		msg := fmt.Sprintf("%s with exit code: %d", summary.Failed, exitErr.Code)
		return r.fail(state, log, "BackendFailed", msg, err)
	case errors.Is(err, backend.ErrCancelled):
		if errors.Is(err, context.DeadlineExceeded) {
			return r.cancel(state, log, "TimedOut", "Operation timed out.", err)
		}
		return r.cancel(state, log, interruptReason(state.Phase), cancelledByOperator, err)
	default:
		return r.fail(state, log, "BackendUnavailable", fmt.Sprintf("%s: %v", summary.Failed, err), err)
	}
}

func (r *Runner) build(doc *config.Document, op Operation) (request.Request, error) {
	switch op.Kind {
	case request.KindDeployTemplateVM:
		return r.builder.TemplateDeployment(doc, op.Template)
	case request.KindDeployStandardVM:
		return r.builder.StandardDeployment(doc)
	case request.KindStatus:
		return r.builder.Status(doc)
	default:
		return r.builder.Infrastructure(doc, op.Kind)
	}
}

func (r *Runner) fail(state *status.Operation, log *zap.Logger, reason, message string, cause error) error {
	if err := status.TransitionToFailed(state, state.ExitCode, reason, message); err != nil {
		log.Error("invalid phase transition", zap.Error(err))
	}
	log.Warn("operation failed", zap.String("reason", reason), zap.Error(cause))
	r.console.Error("%s", message)
	return cause
}

func (r *Runner) cancel(state *status.Operation, log *zap.Logger, reason, message string, cause error) error {
	if err := status.TransitionToCancelled(state, reason, message); err != nil {
		log.Error("invalid phase transition", zap.Error(err))
	}
	log.Info("operation cancelled", zap.String("reason", reason), zap.Error(cause))
	r.console.Warning("%s", message)
	return cause
}

func (r *Runner) transition(state *status.Operation, log *zap.Logger, to func(*status.Operation) error) {
	from := state.Phase
	if err := to(state); err != nil {
		log.Error("invalid phase transition", zap.Error(err))
		return
	}
	log.Debug("phase changed", zap.String("from", string(from)), zap.String("to", string(state.Phase)))
}

func (r *Runner) pause() {
	r.console.Println()
	if err := r.prompter.Pause(); err != nil {
		r.logger.Debug("pause ended without acknowledgment", zap.Error(err))
	}
}

// ConfigProblem renders a configuration error the way the console reports it.
func ConfigProblem(path string, err error) string {
	var fieldErr *config.FieldError
	switch {
	case errors.Is(err, config.ErrConfigurationMissing):
		return "Configuration file not found: " + path
	case errors.Is(err, config.ErrConfigurationMalformed):
		return fmt.Sprintf("Invalid configuration file: %v", err)
	case errors.As(err, &fieldErr):
		return fmt.Sprintf("Configuration error: %v", fieldErr)
	default:
		return fmt.Sprintf("Failed to load configuration: %v", err)
	}
}

// interruptReason tells an interrupt at a prompt from one that stopped the
// backend.
func interruptReason(phase status.Phase) string {
	switch {
	case status.IsRunning(phase):
		return "BackendInterrupted"
	case status.IsTransitioning(phase):
		return "OperatorInterrupted"
	default:
		return "Interrupted"
	}
}

func isInterrupted(err error) bool {
	return errors.Is(err, prompt.ErrInterrupted) || errors.Is(err, prompt.ErrEOF)
}
