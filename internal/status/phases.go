package status

import (
	"fmt"
	"time"
)

// TransitionToBuilding transitions the operation phase to Building.
// This should be called before the first prompt.
func TransitionToBuilding(op *Operation) error {
	if op.Phase != PhasePending {
		return fmt.Errorf("cannot transition to Building from phase %s", op.Phase)
	}

	op.Phase = PhaseBuilding
	SetCondition(op, ConditionCompleted, ConditionFalse, "Building", "Request is being gathered")
	return nil
}

// TransitionToAwaitingConfirmation transitions the operation phase to
// AwaitingConfirmation. Only mutating operations pass through it.
func TransitionToAwaitingConfirmation(op *Operation) error {
	if op.Phase != PhaseBuilding {
		return fmt.Errorf("cannot transition to AwaitingConfirmation from phase %s", op.Phase)
	}

	op.Phase = PhaseAwaitingConfirmation
	SetCondition(op, ConditionCompleted, ConditionFalse, "AwaitingConfirmation", "Waiting for operator approval")
	return nil
}

// TransitionToRunning transitions the operation phase to Running.
// Read-only operations go straight from Building.
func TransitionToRunning(op *Operation) error {
	if op.Phase != PhaseBuilding && op.Phase != PhaseAwaitingConfirmation {
		return fmt.Errorf("cannot transition to Running from phase %s", op.Phase)
	}

	op.Phase = PhaseRunning
	SetCondition(op, ConditionCompleted, ConditionFalse, "Running", "Backend is running")
	return nil
}

// TransitionToSucceeded transitions the operation phase to Succeeded.
// This should be called when the backend exits with status zero.
func TransitionToSucceeded(op *Operation) error {
	if op.Phase != PhaseRunning {
		return fmt.Errorf("cannot transition to Succeeded from phase %s", op.Phase)
	}

	op.Phase = PhaseSucceeded
	op.ExitCode = 0
	op.FinishedAt = time.Now()
	SetCondition(op, ConditionCompleted, ConditionTrue, "Succeeded", "Backend exited with status 0")
	return nil
}

// TransitionToFailed transitions the operation phase to Failed.
// This can happen from any phase that is not terminal.
func TransitionToFailed(op *Operation, exitCode int, reason, message string) error {
	if IsTerminal(op.Phase) {
		return fmt.Errorf("cannot transition to Failed from phase %s", op.Phase)
	}

	op.Phase = PhaseFailed
	op.ExitCode = exitCode
	op.FinishedAt = time.Now()
	SetCondition(op, ConditionCompleted, ConditionTrue, reason, message)
	return nil
}

// TransitionToCancelled transitions the operation phase to Cancelled.
// This can happen from any phase that is not terminal.
func TransitionToCancelled(op *Operation, reason, message string) error {
	if IsTerminal(op.Phase) {
		return fmt.Errorf("cannot transition to Cancelled from phase %s", op.Phase)
	}

	op.Phase = PhaseCancelled
	op.FinishedAt = time.Now()
	SetCondition(op, ConditionCompleted, ConditionTrue, reason, message)
	return nil
}

// IsTerminal returns true if the phase is terminal.
func IsTerminal(phase Phase) bool {
	return phase == PhaseSucceeded || phase == PhaseFailed || phase == PhaseCancelled
}

// IsRunning returns true if the backend is executing.
func IsRunning(phase Phase) bool {
	return phase == PhaseRunning
}

// IsTransitioning returns true if the operation is still collecting input.
func IsTransitioning(phase Phase) bool {
	return phase == PhaseBuilding || phase == PhaseAwaitingConfirmation
}
