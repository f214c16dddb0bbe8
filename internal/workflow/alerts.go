package workflow

import (
	"context"
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"
)

type alertResolver interface {
	ResolveDuplicate(ctx context.Context, alertID int, notes string) error
}

// AlertResolution marks one fraud alert resolved. There is no capture step;
// the operator must confirm before anything is submitted, and success
// refreshes both the fraud view and the dashboard aggregates.
type AlertResolution struct {
	client           alertResolver
	refreshFraud     func(ctx context.Context) error
	refreshDashboard func(ctx context.Context) error
	journal          Recorder
	logger           *zap.SugaredLogger

	inFlight atomic.Bool
}

func NewAlertResolution(client alertResolver, refreshFraud, refreshDashboard func(ctx context.Context) error, journal Recorder, logger *zap.SugaredLogger) *AlertResolution {
	return &AlertResolution{
		client:           client,
		refreshFraud:     refreshFraud,
		refreshDashboard: refreshDashboard,
		journal:          journal,
		logger:           logger,
	}
}

// Submit asks confirm before anything else; a declined confirmation issues
// no network call and leaves all state untouched.
func (a *AlertResolution) Submit(ctx context.Context, alertID int, notes string, confirm Confirmer) (*Outcome, error) {
	if confirm == nil || !confirm.Confirm(fmt.Sprintf("Resolve duplicate alert %d?", alertID)) {
		return nil, ErrCancelled
	}

	if !a.inFlight.CompareAndSwap(false, true) {
		return nil, ErrAlreadyInProgress
	}
	defer a.inFlight.Store(false)

	if err := a.client.ResolveDuplicate(ctx, alertID, notes); err != nil {
		a.record("failure", userMessage(err))
		return nil, err
	}

	outcome := &Outcome{Message: fmt.Sprintf("Alert %d resolved", alertID)}
	a.record("success", outcome.Message)

	if err := a.refreshFraud(ctx); err != nil {
		a.logger.Warnw("fraud refresh after resolution failed", "error", err)
	}
	if err := a.refreshDashboard(ctx); err != nil {
		a.logger.Warnw("dashboard refresh after resolution failed", "error", err)
	}

	return outcome, nil
}

func (a *AlertResolution) record(outcome, detail string) {
	if a.journal == nil {
		return
	}
	if err := a.journal.Record(KindAlertResolution, outcome, detail); err != nil {
		a.logger.Warnw("journal write failed", "kind", KindAlertResolution, "error", err)
	}
}
