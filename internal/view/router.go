package view

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

type View string

const (
	Dashboard    View = "dashboard"
	Registration View = "registration"
	Verification View = "verification"
	Employees    View = "employees"
	Fraud        View = "fraud"
)

func ParseView(s string) (View, error) {
	switch View(s) {
	case Dashboard, Registration, Verification, Employees, Fraud:
		return View(s), nil
	}
	return "", fmt.Errorf("unknown view %q", s)
}

// Hooks run when a view is entered or left. Teardown of the outgoing view
// always runs before setup of the incoming one, so a setup hook never
// observes state (in particular the camera) still held by a prior view.
type Hooks struct {
	Setup    func(ctx context.Context) error
	Teardown func(ctx context.Context) error
}

type Router struct {
	logger *zap.SugaredLogger
	store  *Store

	mu     sync.Mutex
	active View
	hooks  map[View]Hooks
}

func NewRouter(store *Store, logger *zap.SugaredLogger) *Router {
	// No view is active until the first Activate, so the initial view's
	// setup hook runs like any other.
	return &Router{
		logger: logger,
		store:  store,
		hooks:  make(map[View]Hooks),
	}
}

func (r *Router) Register(v View, h Hooks) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hooks[v] = h
}

func (r *Router) Active() View {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active
}

// Activate switches the active view. Re-activating the current view is a
// no-op. A failing teardown is logged and swallowed; a failing setup is
// returned but the view switch itself stands.
func (r *Router) Activate(ctx context.Context, v View) error {
	r.mu.Lock()
	if v == r.active {
		r.mu.Unlock()
		return nil
	}
	old := r.active
	teardown := r.hooks[old].Teardown
	setup := r.hooks[v].Setup
	r.mu.Unlock()

	if teardown != nil {
		if err := teardown(ctx); err != nil {
			r.logger.Warnw("view teardown failed", "view", old, "error", err)
		}
	}

	r.mu.Lock()
	r.active = v
	r.mu.Unlock()

	r.logger.Infow("view activated", "view", v)

	if setup != nil {
		if err := setup(ctx); err != nil {
			return fmt.Errorf("setting up view %s: %w", v, err)
		}
	}

	r.store.notify(v)
	return nil
}
