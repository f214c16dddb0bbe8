package workflow

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/mkanzari/bioconsole/internal/gateway"
	"github.com/mkanzari/bioconsole/internal/models"
	"github.com/mkanzari/bioconsole/internal/view"
)

const (
	employeesPerPage    = 200
	ghostWorkerDaysBack = 30
)

type readAPI interface {
	DashboardStats(ctx context.Context) (*models.DashboardStats, error)
	ListEmployees(ctx context.Context, page, perPage int) (*gateway.EmployeePage, error)
	ListDuplicates(ctx context.Context, status string) ([]models.DuplicateAlert, error)
	GhostWorkers(ctx context.Context, daysThreshold int) ([]models.GhostWorker, error)
	SuspiciousClaims(ctx context.Context) ([]models.SuspiciousClaim, error)
}

// Loader issues the read-only fetches behind the data-bearing views and
// commits the results to the store. View setup hooks and workflow success
// refreshes share these methods.
type Loader struct {
	client readAPI
	store  *view.Store
	logger *zap.SugaredLogger
}

func NewLoader(client readAPI, store *view.Store, logger *zap.SugaredLogger) *Loader {
	return &Loader{client: client, store: store, logger: logger}
}

func (l *Loader) LoadDashboard(ctx context.Context) error {
	stats, err := l.client.DashboardStats(ctx)
	if err != nil {
		l.logger.Warnw("dashboard reload failed", "error", err)
		l.store.SetErr(view.Dashboard, userMessage(err))
		return err
	}
	l.store.SetDashboard(stats)
	return nil
}

func (l *Loader) LoadEmployees(ctx context.Context) error {
	page, err := l.client.ListEmployees(ctx, 1, employeesPerPage)
	if err != nil {
		l.logger.Warnw("employee reload failed", "error", err)
		l.store.SetErr(view.Employees, userMessage(err))
		return err
	}
	l.store.SetEmployees(page.Employees, page.Total)
	return nil
}

func (l *Loader) LoadFraud(ctx context.Context) error {
	alerts, err := l.client.ListDuplicates(ctx, "pending")
	if err != nil {
		l.logger.Warnw("duplicate alerts reload failed", "error", err)
		l.store.SetErr(view.Fraud, userMessage(err))
		return err
	}

	ghosts, err := l.client.GhostWorkers(ctx, ghostWorkerDaysBack)
	if err != nil {
		l.logger.Warnw("ghost worker reload failed", "error", err)
		l.store.SetErr(view.Fraud, userMessage(err))
		return err
	}

	claims, err := l.client.SuspiciousClaims(ctx)
	if err != nil {
		l.logger.Warnw("suspicious claims reload failed", "error", err)
		l.store.SetErr(view.Fraud, userMessage(err))
		return err
	}

	l.store.SetFraud(view.FraudData{
		Alerts:           alerts,
		GhostWorkers:     ghosts,
		SuspiciousClaims: claims,
	})
	return nil
}

// userMessage flattens an error into the text shown to the operator,
// preferring the server-provided message when one exists.
func userMessage(err error) string {
	var apiErr *gateway.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Error()
	}
	return err.Error()
}
