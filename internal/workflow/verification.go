package workflow

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/mkanzari/bioconsole/internal/capture"
	"github.com/mkanzari/bioconsole/internal/gateway"
	"github.com/mkanzari/bioconsole/internal/models"
	"github.com/mkanzari/bioconsole/internal/view"
)

type verifier interface {
	VerifyIdentity(ctx context.Context, p gateway.VerificationPayload) (*gateway.VerificationResult, error)
	CheckIn(ctx context.Context, p gateway.CheckInPayload) error
}

type snapshotter interface {
	Snapshot() (models.CapturedImage, error)
}

type activeViewer interface {
	Active() view.View
}

type panelStore interface {
	SetVerificationPanel(p *view.VerificationPanel)
}

// Verification captures a live frame at submission time and asks the remote
// service to match it. The camera session stays active after either outcome
// so the operator can retry without re-granting hardware access; only
// leaving the view releases it.
type Verification struct {
	client  verifier
	camera  snapshotter
	router  activeViewer
	store   panelStore
	journal Recorder
	logger  *zap.SugaredLogger

	inFlight atomic.Bool
}

func NewVerification(client verifier, camera snapshotter, router activeViewer, store panelStore, journal Recorder, logger *zap.SugaredLogger) *Verification {
	return &Verification{
		client:  client,
		camera:  camera,
		router:  router,
		store:   store,
		journal: journal,
		logger:  logger,
	}
}

func (v *Verification) Submit(ctx context.Context, employeeID int) (*Outcome, error) {
	if !v.inFlight.CompareAndSwap(false, true) {
		return nil, ErrAlreadyInProgress
	}
	defer v.inFlight.Store(false)

	if employeeID <= 0 {
		v.record("rejected", "employee id is required")
		return nil, &ValidationError{Field: "employee_id", Reason: "required"}
	}

	img, err := v.camera.Snapshot()
	if err != nil {
		var capErr *capture.CaptureError
		if errors.As(err, &capErr) && capErr.Kind == capture.InvalidState {
			v.record("rejected", "camera not active")
			return nil, ErrMissingCapture
		}
		v.record("failure", err.Error())
		return nil, err
	}

	result, err := v.client.VerifyIdentity(ctx, gateway.VerificationPayload{
		EmployeeID:    employeeID,
		BiometricData: img.Data,
	})
	if err != nil {
		v.record("failure", userMessage(err))
		return nil, err
	}

	outcome := &Outcome{}
	if result.Verified {
		outcome.Message = fmt.Sprintf("Verified %s (%.0f%% confidence)", result.Employee.Name, result.Confidence)
		if err := v.client.CheckIn(ctx, gateway.CheckInPayload{
			EmployeeID:         employeeID,
			VerificationMethod: "facial",
			DeviceID:           "console",
		}); err != nil {
			// The verification stands; only the attendance record is missing.
			v.logger.Warnw("check-in after verification failed", "employee_id", employeeID, "error", err)
			outcome.Advisory = "attendance check-in could not be recorded"
		}
	} else {
		outcome.Message = fmt.Sprintf("No match for employee %d (%.0f%% confidence)", employeeID, result.Confidence)
	}
	v.record("success", outcome.Message)

	// The submission may outlive the view; only touch the result panel if
	// the verification view is still the active one.
	if v.router.Active() == view.Verification {
		v.store.SetVerificationPanel(&view.VerificationPanel{
			EmployeeName: result.Employee.Name,
			Verified:     result.Verified,
			Confidence:   result.Confidence,
			Message:      outcome.Message,
		})
	}

	return outcome, nil
}

func (v *Verification) record(outcome, detail string) {
	if v.journal == nil {
		return
	}
	if err := v.journal.Record(KindVerification, outcome, detail); err != nil {
		v.logger.Warnw("journal write failed", "kind", KindVerification, "error", err)
	}
}
