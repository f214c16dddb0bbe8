package workflow

import (
	"context"
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/mkanzari/bioconsole/internal/gateway"
)

type sampleSeeder interface {
	GenerateSampleData(ctx context.Context, numEmployees int) (*gateway.SampleDataResult, error)
}

// SampleData asks the remote service to seed demo records.
type SampleData struct {
	client           sampleSeeder
	refreshDashboard func(ctx context.Context) error
	journal          Recorder
	logger           *zap.SugaredLogger

	inFlight atomic.Bool
}

func NewSampleData(client sampleSeeder, refreshDashboard func(ctx context.Context) error, journal Recorder, logger *zap.SugaredLogger) *SampleData {
	return &SampleData{
		client:           client,
		refreshDashboard: refreshDashboard,
		journal:          journal,
		logger:           logger,
	}
}

func (s *SampleData) Submit(ctx context.Context, numEmployees int) (*Outcome, error) {
	if !s.inFlight.CompareAndSwap(false, true) {
		return nil, ErrAlreadyInProgress
	}
	defer s.inFlight.Store(false)

	if numEmployees <= 0 {
		numEmployees = 10
	}

	result, err := s.client.GenerateSampleData(ctx, numEmployees)
	if err != nil {
		s.record("failure", userMessage(err))
		return nil, err
	}

	outcome := &Outcome{Message: fmt.Sprintf("Created %d sample employees", result.EmployeesCreated)}
	s.record("success", outcome.Message)

	if err := s.refreshDashboard(ctx); err != nil {
		s.logger.Warnw("dashboard refresh after seeding failed", "error", err)
	}

	return outcome, nil
}

func (s *SampleData) record(outcome, detail string) {
	if s.journal == nil {
		return
	}
	if err := s.journal.Record(KindSampleData, outcome, detail); err != nil {
		s.logger.Warnw("journal write failed", "kind", KindSampleData, "error", err)
	}
}
