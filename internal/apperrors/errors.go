package apperrors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrAccessDenied indicates a reference to a resource owned by another tenant.
var ErrAccessDenied = errors.New("access denied")

// ErrInvalidState indicates a transition attempted from the wrong status.
var ErrInvalidState = errors.New("invalid state")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation failed")

// ErrPeriodLocked indicates a write against a closed or locked financial period.
var ErrPeriodLocked = errors.New("financial period is closed or locked")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrDuplicateNumber indicates two writers raced for the same entry number.
var ErrDuplicateNumber = errors.New("duplicate entry number")

// ErrTransient indicates a retryable failure that persisted after the internal retry.
var ErrTransient = errors.New("transient failure")

// Issue is a single violated rule inside a ValidationError.
// LineOrder is zero for entry-level issues.
type Issue struct {
	Rule      string
	LineOrder int
	Message   string
}

func (i Issue) String() string {
	if i.LineOrder > 0 {
		return fmt.Sprintf("line %d: %s", i.LineOrder, i.Message)
	}
	return i.Message
}

// ValidationError carries the itemized list of everything that failed.
type ValidationError struct {
	Subject string
	Issues  []Issue
}

// NewValidationError builds a ValidationError for subject, e.g. "journal entry".
func NewValidationError(subject string, issues ...Issue) *ValidationError {
	return &ValidationError{Subject: subject, Issues: issues}
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		msgs = append(msgs, issue.String())
	}
	if e.Subject == "" {
		return fmt.Sprintf("%s: %s", ErrValidation, strings.Join(msgs, "; "))
	}
	return fmt.Sprintf("%s: %s: %s", ErrValidation, e.Subject, strings.Join(msgs, "; "))
}

// Unwrap lets errors.Is(err, ErrValidation) match.
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// HasIssues reports whether anything was collected.
func (e *ValidationError) HasIssues() bool {
	return e != nil && len(e.Issues) > 0
}

// Add appends an issue.
func (e *ValidationError) Add(rule string, lineOrder int, format string, args ...any) {
	e.Issues = append(e.Issues, Issue{Rule: rule, LineOrder: lineOrder, Message: fmt.Sprintf(format, args...)})
}

// AsValidation extracts the itemized issues from err, if any.
func AsValidation(err error) (*ValidationError, bool) {
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return vErr, true
	}
	return nil, false
}
