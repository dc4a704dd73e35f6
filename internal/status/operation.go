// Package status tracks the lifecycle of a console operation, including
// conditions and phase transitions.
package status

import (
	"time"
)

// Phase represents the lifecycle phase of an operation.
type Phase string

const (
	// PhasePending means the operator selected the operation.
	PhasePending Phase = "Pending"

	// PhaseBuilding means the request is being gathered and resolved.
	PhaseBuilding Phase = "Building"

	// PhaseAwaitingConfirmation means the summary is shown and the operator
	// has not answered yet.
	PhaseAwaitingConfirmation Phase = "AwaitingConfirmation"

	// PhaseRunning means the backend is executing.
	PhaseRunning Phase = "Running"

	// PhaseSucceeded means the backend exited with status zero.
	PhaseSucceeded Phase = "Succeeded"

	// PhaseFailed means building or running the operation failed.
	PhaseFailed Phase = "Failed"

	// PhaseCancelled means the operator declined, interrupted or timed out.
	PhaseCancelled Phase = "Cancelled"
)

// Condition types.
const (
	// ConditionRequestBuilt indicates that every field of the request resolved.
	ConditionRequestBuilt = "RequestBuilt"

	// ConditionConfirmed indicates that the operator approved the invocation.
	ConditionConfirmed = "Confirmed"

	// ConditionCompleted indicates that the operation reached a final outcome.
	ConditionCompleted = "Completed"
)

// ConditionStatus represents the status of a condition.
type ConditionStatus string

const (
	ConditionTrue    ConditionStatus = "True"
	ConditionFalse   ConditionStatus = "False"
	ConditionUnknown ConditionStatus = "Unknown"
)

// Condition contains details for one observation about an operation.
type Condition struct {
	Type               string          `json:"type" yaml:"type"`
	Status             ConditionStatus `json:"status" yaml:"status"`
	LastTransitionTime time.Time       `json:"lastTransitionTime" yaml:"lastTransitionTime"`
	Reason             string          `json:"reason,omitempty" yaml:"reason,omitempty"`
	Message            string          `json:"message,omitempty" yaml:"message,omitempty"`
}

// Operation is one run of a menu action.
type Operation struct {
	Name       string      `json:"name" yaml:"name"`
	SpecID     string      `json:"specId,omitempty" yaml:"specId,omitempty"`
	Phase      Phase       `json:"phase" yaml:"phase"`
	Conditions []Condition `json:"conditions,omitempty" yaml:"conditions,omitempty"`
	ExitCode   int         `json:"exitCode" yaml:"exitCode"`
	StartedAt  time.Time   `json:"startedAt" yaml:"startedAt"`
	FinishedAt time.Time   `json:"finishedAt,omitempty" yaml:"finishedAt,omitempty"`
}

// NewOperation creates an operation in the Pending phase.
func NewOperation(name string) *Operation {
	return &Operation{
		Name:      name,
		Phase:     PhasePending,
		StartedAt: time.Now(),
	}
}

// Duration returns how long the operation ran. It is zero until the
// operation finishes.
func (op *Operation) Duration() time.Duration {
	if op.FinishedAt.IsZero() {
		return 0
	}
	return op.FinishedAt.Sub(op.StartedAt)
}
