package batch

import (
	"errors"
	"fmt"
)

// Common errors returned by the controller. Every failure is terminal for
// the job; retrying the whole operation is the caller's decision.
var (
	// ErrSubmissionRejected is returned when the batch endpoint answers the
	// initial submission with neither a redirect nor success.
	ErrSubmissionRejected = errors.New("batch submission rejected")

	// ErrEmptyExport is returned when a terminal 200 response lacks the
	// expected export content type: the service reports no matching records
	// without an explicit error status.
	ErrEmptyExport = errors.New("no matching export produced")

	// ErrRetryBudgetExceeded is returned when too many still-processing
	// responses were observed at a single polling target without a redirect.
	ErrRetryBudgetExceeded = errors.New("poll retry budget exceeded")
)

// RetrievalError indicates a definitive non-success, non-retry status from a
// polling step.
type RetrievalError struct {
	StatusCode int
}

// Error implements the error interface.
func (e *RetrievalError) Error() string {
	return fmt.Sprintf("batch retrieval failed with status %d", e.StatusCode)
}
