package service

import "errors"

// Common service errors
var (
	// ErrNotFound is returned when a resource is not found
	ErrNotFound = errors.New("resource not found")

	// ErrForbidden is returned when a user doesn't have permission for an action
	ErrForbidden = errors.New("permission denied")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrRecordDeleted is returned when a mutating operation targets a
	// soft-deleted record
	ErrRecordDeleted = errors.New("record is deleted")

	// ErrInvalidStageMove is returned when a board drag violates the
	// stage transition rules
	ErrInvalidStageMove = errors.New("invalid stage move")

	// ErrAlreadyCompleted is returned when a lifecycle operation targets
	// a negotiation that already settled
	ErrAlreadyCompleted = errors.New("negotiation already completed")

	// ErrContractAlreadyGenerated is returned when contract generation
	// runs twice on the same negotiation
	ErrContractAlreadyGenerated = errors.New("contract already generated")

	// ErrRequestNotPending is returned when the financing bridge is given
	// a request that already left the pending state
	ErrRequestNotPending = errors.New("service request is not pending")

	// ErrNoMatchingNegotiation is returned when the financing bridge
	// cannot match the request snippets to any negotiation
	ErrNoMatchingNegotiation = errors.New("no matching negotiation found")
)
