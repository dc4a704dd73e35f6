package status

import (
	"time"
)

// SetCondition adds or updates a condition on the operation.
// If a condition with the same type already exists, it updates it.
// The LastTransitionTime is only updated if the status changes.
func SetCondition(op *Operation, condType string, status ConditionStatus, reason, message string) {
	now := time.Now()

	for i := range op.Conditions {
		if op.Conditions[i].Type == condType {
			existing := &op.Conditions[i]

			if existing.Status != status {
				existing.LastTransitionTime = now
			}

			existing.Status = status
			existing.Reason = reason
			existing.Message = message
			return
		}
	}

	op.Conditions = append(op.Conditions, Condition{
		Type:               condType,
		Status:             status,
		LastTransitionTime: now,
		Reason:             reason,
		Message:            message,
	})
}

// GetCondition returns a condition by type, or nil if not found.
func GetCondition(op *Operation, condType string) *Condition {
	for i := range op.Conditions {
		if op.Conditions[i].Type == condType {
			return &op.Conditions[i]
		}
	}
	return nil
}

// IsConditionTrue returns true if the condition exists and has status True.
func IsConditionTrue(op *Operation, condType string) bool {
	cond := GetCondition(op, condType)
	return cond != nil && cond.Status == ConditionTrue
}

// IsConditionFalse returns true if the condition exists and has status False.
func IsConditionFalse(op *Operation, condType string) bool {
	cond := GetCondition(op, condType)
	return cond != nil && cond.Status == ConditionFalse
}

// MarkRequestBuilt records that the request resolved and which invocation
// was rendered for it.
func MarkRequestBuilt(op *Operation, specID string) {
	op.SpecID = specID
	SetCondition(op, ConditionRequestBuilt, ConditionTrue, "RequestResolved", "All request fields resolved")
}

// MarkRequestFailed records why the request could not be built.
func MarkRequestFailed(op *Operation, err error) {
	SetCondition(op, ConditionRequestBuilt, ConditionFalse, "RequestInvalid", err.Error())
}

// MarkConfirmed records the operator's approval.
func MarkConfirmed(op *Operation) {
	SetCondition(op, ConditionConfirmed, ConditionTrue, "OperatorApproved", "Operator approved the invocation")
}

// MarkDeclined records that the operator did not approve.
func MarkDeclined(op *Operation, message string) {
	SetCondition(op, ConditionConfirmed, ConditionFalse, "OperatorDeclined", message)
}
