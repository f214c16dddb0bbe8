package view

import (
	"sync"

	"github.com/mkanzari/bioconsole/internal/models"
)

// FraudData groups everything the fraud view renders in one snapshot.
type FraudData struct {
	Alerts           []models.DuplicateAlert
	GhostWorkers     []models.GhostWorker
	SuspiciousClaims []models.SuspiciousClaim
}

// VerificationPanel is the result panel of the verification view.
type VerificationPanel struct {
	EmployeeName string
	Verified     bool
	Confidence   float64
	Message      string
}

// Store holds per-view snapshots with replace-on-reload semantics. Each
// writer owns a disjoint slice; readers get copies of the top-level value
// under the lock. Every commit signals subscribers with the affected view.
type Store struct {
	mu        sync.RWMutex
	dashboard *models.DashboardStats
	employees []models.Employee
	total     int
	fraud     FraudData
	panel     *VerificationPanel
	errs      map[View]string

	subs []chan View
}

func NewStore() *Store {
	return &Store{errs: make(map[View]string)}
}

// Subscribe returns a channel that receives the view id of every commit.
// Slow subscribers drop signals rather than blocking writers.
func (s *Store) Subscribe() <-chan View {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch := make(chan View, 16)
	s.subs = append(s.subs, ch)
	return ch
}

func (s *Store) notify(v View) {
	s.mu.RLock()
	subs := s.subs
	s.mu.RUnlock()
	for _, ch := range subs {
		select {
		case ch <- v:
		default:
		}
	}
}

func (s *Store) SetDashboard(stats *models.DashboardStats) {
	s.mu.Lock()
	s.dashboard = stats
	delete(s.errs, Dashboard)
	s.mu.Unlock()
	s.notify(Dashboard)
}

func (s *Store) Dashboard() *models.DashboardStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dashboard
}

func (s *Store) SetEmployees(employees []models.Employee, total int) {
	s.mu.Lock()
	s.employees = employees
	s.total = total
	delete(s.errs, Employees)
	s.mu.Unlock()
	s.notify(Employees)
}

func (s *Store) Employees() ([]models.Employee, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.employees, s.total
}

func (s *Store) SetFraud(data FraudData) {
	s.mu.Lock()
	s.fraud = data
	delete(s.errs, Fraud)
	s.mu.Unlock()
	s.notify(Fraud)
}

func (s *Store) Fraud() FraudData {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fraud
}

func (s *Store) SetVerificationPanel(p *VerificationPanel) {
	s.mu.Lock()
	s.panel = p
	s.mu.Unlock()
	s.notify(Verification)
}

func (s *Store) VerificationPanel() *VerificationPanel {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.panel
}

// SetErr records a fetch failure for a view without clearing the previous
// snapshot, so the operator keeps stale data plus the error.
func (s *Store) SetErr(v View, msg string) {
	s.mu.Lock()
	s.errs[v] = msg
	s.mu.Unlock()
	s.notify(v)
}

func (s *Store) Err(v View) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.errs[v]
}
