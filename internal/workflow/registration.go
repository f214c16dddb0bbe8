package workflow

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mkanzari/bioconsole/internal/gateway"
	"github.com/mkanzari/bioconsole/internal/models"
)

type registrar interface {
	RegisterEmployee(ctx context.Context, p gateway.RegistrationPayload) (*gateway.RegistrationResult, error)
}

type RegistrationForm struct {
	Name       string
	NationalID string
	Department string
	Position   string
	Phone      string
	Email      string
}

// Registration enrolls a new employee. The photo is optional and may come
// from a camera snapshot or a local file; the fingerprint payload is a
// locally synthesized placeholder token, not real biometric data.
type Registration struct {
	client           registrar
	refreshDashboard func(ctx context.Context) error
	journal          Recorder
	logger           *zap.SugaredLogger

	inFlight atomic.Bool

	mu      sync.Mutex
	pending models.CapturedImage
}

func NewRegistration(client registrar, refreshDashboard func(ctx context.Context) error, journal Recorder, logger *zap.SugaredLogger) *Registration {
	return &Registration{
		client:           client,
		refreshDashboard: refreshDashboard,
		journal:          journal,
		logger:           logger,
	}
}

// AttachCapture stages a photo for the next submission, replacing any
// previously staged one.
func (r *Registration) AttachCapture(img models.CapturedImage) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pending = img
}

func (r *Registration) PendingCapture() models.CapturedImage {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pending
}

func (r *Registration) Submit(ctx context.Context, form RegistrationForm) (*Outcome, error) {
	if !r.inFlight.CompareAndSwap(false, true) {
		return nil, ErrAlreadyInProgress
	}
	defer r.inFlight.Store(false)

	if form.Name == "" {
		r.record("rejected", "name is required")
		return nil, &ValidationError{Field: "name", Reason: "required"}
	}

	r.mu.Lock()
	photo := r.pending
	r.mu.Unlock()

	payload := gateway.RegistrationPayload{
		Name:            form.Name,
		NationalID:      form.NationalID,
		Department:      form.Department,
		Position:        form.Position,
		Phone:           form.Phone,
		Email:           form.Email,
		PhotoData:       photo.Data,
		FingerprintData: "fp-" + uuid.New().String(),
		CreatedBy:       "console",
	}

	result, err := r.client.RegisterEmployee(ctx, payload)
	if err != nil {
		// The staged photo and form survive a failure so the operator can
		// retry without re-entering anything.
		r.record("failure", userMessage(err))
		return nil, err
	}

	r.mu.Lock()
	r.pending = models.CapturedImage{}
	r.mu.Unlock()

	outcome := &Outcome{
		Message: fmt.Sprintf("Registered %s (digital ID %s)", result.Employee.Name, result.Employee.DigitalID),
	}
	if result.DuplicatesFound > 0 {
		outcome.Advisory = fmt.Sprintf("%d possible duplicate(s) flagged for review", result.DuplicatesFound)
	}
	r.record("success", outcome.Message)

	if err := r.refreshDashboard(ctx); err != nil {
		r.logger.Warnw("dashboard refresh after registration failed", "error", err)
	}

	return outcome, nil
}

func (r *Registration) record(outcome, detail string) {
	if r.journal == nil {
		return
	}
	if err := r.journal.Record(KindRegistration, outcome, detail); err != nil {
		r.logger.Warnw("journal write failed", "kind", KindRegistration, "error", err)
	}
}
