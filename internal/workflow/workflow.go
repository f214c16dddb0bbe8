package workflow

import (
	"errors"
	"fmt"
)

var (
	// ErrAlreadyInProgress rejects a submission while the previous one of
	// the same kind is still in flight. No network call is issued.
	ErrAlreadyInProgress = errors.New("a submission is already in progress")

	// ErrMissingCapture rejects a verification submitted without an active
	// camera session to snapshot from.
	ErrMissingCapture = errors.New("no captured image available")

	// ErrCancelled is returned when the operator declines a confirmation.
	ErrCancelled = errors.New("cancelled by operator")
)

type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Outcome is the user-facing result of a successful submission. Advisory
// carries a secondary signal (e.g. duplicates flagged during registration)
// that accompanies success rather than replacing it.
type Outcome struct {
	Message  string
	Advisory string
}

// Recorder receives one entry per completed submission attempt. The audit
// journal implements it; recording failures are logged, never propagated.
type Recorder interface {
	Record(kind, outcome, detail string) error
}

const (
	KindRegistration    = "registration"
	KindVerification    = "verification"
	KindAlertResolution = "alert_resolution"
	KindSampleData      = "sample_data"
)

// Confirmer gates destructive submissions on explicit operator approval.
type Confirmer interface {
	Confirm(prompt string) bool
}

type ConfirmFunc func(prompt string) bool

func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }
