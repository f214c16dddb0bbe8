package ui

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewRouter(app *App) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/", app.IndexHandler)
	r.Get("/views/{view}", app.ViewHandler)

	r.Post("/actions/register", app.RegisterHandler)
	r.Post("/actions/verify", app.VerifyHandler)
	r.Post("/actions/alerts/{alertID}/resolve", app.ResolveAlertHandler)
	r.Post("/actions/sample-data", app.SampleDataHandler)

	r.Post("/camera/start", app.CameraStartHandler)
	r.Post("/camera/stop", app.CameraStopHandler)
	r.Get("/camera/status", app.CameraStatusHandler)

	r.Get("/audit", app.AuditHandler)

	return r
}
