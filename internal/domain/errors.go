package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrRequestFailed         = errors.New("generation request failed")
	ErrMalformedResponse     = errors.New("malformed generation response")
	ErrRegenerationIntegrity = errors.New("regeneration integrity violation")
	ErrBusy                  = errors.New("a generation is already in progress")
	ErrNoDocument            = errors.New("board has no plan document")
	ErrSubGoalNotFound       = errors.New("sub-goal not found")
	ErrBoardNotFound         = errors.New("board not found")
)

// ValidationError lists every structural problem found in a document.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid plan document: " + strings.Join(e.Problems, "; ")
}

// RequestError wraps a failure of the generation collaborator itself
// (transport, quota, empty answer).
type RequestError struct {
	Op  string
	Err error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *RequestError) Unwrap() []error {
	return []error{ErrRequestFailed, e.Err}
}

// MalformedResponseError is returned when the collaborator's text does not
// decode into a valid PlanDocument.
type MalformedResponseError struct {
	Reason string
	Err    error
}

func (e *MalformedResponseError) Error() string {
	if e.Err == nil {
		return "malformed response: " + e.Reason
	}
	return fmt.Sprintf("malformed response: %s: %v", e.Reason, e.Err)
}

func (e *MalformedResponseError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrMalformedResponse}
	}
	return []error{ErrMalformedResponse, e.Err}
}

// IntegrityError is returned when a regenerated document changed more than
// the target sub-goal.
type IntegrityError struct {
	TargetID   string
	Violations []string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("regeneration of %q violated integrity: %s", e.TargetID, strings.Join(e.Violations, "; "))
}

func (e *IntegrityError) Unwrap() error {
	return ErrRegenerationIntegrity
}
