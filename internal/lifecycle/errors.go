package lifecycle

import (
	"errors"
	"fmt"
	"strings"

	"github.com/casfod/stafff-portal-backend-sub001/internal/db/models"
)

// AuthorizationError covers every failed ownership or role check. Callers at
// the HTTP boundary collapse all variants into one generic forbidden
// response so a failed request does not reveal which check tripped.
type AuthorizationError struct {
	Reason string
}

func (e *AuthorizationError) Error() string {
	return "not authorized: " + e.Reason
}

var (
	ErrCreatorMismatch  = &AuthorizationError{Reason: "acting principal is not the document creator"}
	ErrPreparerMissing  = &AuthorizationError{Reason: "document has no preparer recorded"}
	ErrPreparerMismatch = &AuthorizationError{Reason: "acting principal is not the recorded preparer"}
	ErrInsufficientRole = &AuthorizationError{Reason: "role does not permit this transition"}
)

// ErrNotFound is returned when a document id resolves to nothing the acting
// principal is allowed to see.
var ErrNotFound = errors.New("document not found")

// ErrConflict signals a concurrent writer won the race for this record. The
// whole operation should be retried from the top, not resubmitted blindly.
var ErrConflict = errors.New("concurrent modification, retry the operation")

// InvalidTransitionError reports a status change outside the transition
// table, carrying the states that would have been legal from From.
type InvalidTransitionError struct {
	From    models.DocumentStatus
	To      models.DocumentStatus
	Allowed []models.DocumentStatus
}

func (e *InvalidTransitionError) Error() string {
	allowed := make([]string, len(e.Allowed))
	for i, s := range e.Allowed {
		allowed[i] = string(s)
	}
	next := "none"
	if len(allowed) > 0 {
		next = strings.Join(allowed, ", ")
	}
	return fmt.Sprintf("invalid transition %s -> %s (allowed next: %s)", e.From, e.To, next)
}

// ValidationError is a field-level input failure, surfaced verbatim.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}
