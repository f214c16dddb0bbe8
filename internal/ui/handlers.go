package ui

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/mkanzari/bioconsole/internal/audit"
	"github.com/mkanzari/bioconsole/internal/capture"
	"github.com/mkanzari/bioconsole/internal/gateway"
	"github.com/mkanzari/bioconsole/internal/view"
	"github.com/mkanzari/bioconsole/internal/workflow"
)

// App is the input-adapter layer: it translates HTTP requests from the
// console front-end into router activations and workflow submissions. All
// state lives in the core packages; handlers stay stateless.
type App struct {
	Router          *view.Router
	Store           *view.Store
	Pipeline        *capture.Pipeline
	Registration    *workflow.Registration
	Verification    *workflow.Verification
	AlertResolution *workflow.AlertResolution
	SampleData      *workflow.SampleData
	Journal         *audit.Journal
	Logger          *zap.SugaredLogger
}

func (app *App) IndexHandler(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/views/dashboard", http.StatusFound)
}

func (app *App) ViewHandler(w http.ResponseWriter, r *http.Request) {
	v, err := view.ParseView(chi.URLParam(r, "view"))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	if err := app.Router.Activate(r.Context(), v); err != nil {
		// The view switched; its data just failed to load. Render what the
		// store has plus the recorded error.
		app.Logger.Warnw("view setup failed", "view", v, "error", err)
	}

	payload := map[string]any{
		"view": v,
	}
	if msg := app.Store.Err(v); msg != "" {
		payload["error"] = msg
	}

	switch v {
	case view.Dashboard:
		payload["stats"] = app.Store.Dashboard()
	case view.Employees:
		employees, total := app.Store.Employees()
		payload["employees"] = employees
		payload["total"] = total
	case view.Fraud:
		data := app.Store.Fraud()
		payload["alerts"] = data.Alerts
		payload["ghost_workers"] = data.GhostWorkers
		payload["suspicious_claims"] = data.SuspiciousClaims
	case view.Verification:
		payload["camera"] = app.Pipeline.State().String()
		payload["result"] = app.Store.VerificationPanel()
	case view.Registration:
		payload["pending_photo"] = !app.Registration.PendingCapture().Empty()
	}

	writeJSON(w, http.StatusOK, payload)
}

func (app *App) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(r); err != nil {
		app.renderError(w, http.StatusBadRequest, "invalid form data")
		return
	}

	if file, _, err := r.FormFile("photo"); err == nil {
		data, readErr := io.ReadAll(file)
		file.Close()
		if readErr != nil {
			app.renderError(w, http.StatusBadRequest, "could not read photo")
			return
		}
		app.Registration.AttachCapture(capture.FromBytes(data, http.DetectContentType(data)))
	} else if r.FormValue("use_camera") == "1" {
		img, snapErr := app.Pipeline.Snapshot()
		if snapErr != nil {
			app.writeWorkflowError(w, snapErr)
			return
		}
		app.Registration.AttachCapture(img)
	}

	outcome, err := app.Registration.Submit(r.Context(), workflow.RegistrationForm{
		Name:       r.FormValue("name"),
		NationalID: r.FormValue("national_id"),
		Department: r.FormValue("department"),
		Position:   r.FormValue("position"),
		Phone:      r.FormValue("phone"),
		Email:      r.FormValue("email"),
	})
	if err != nil {
		app.writeWorkflowError(w, err)
		return
	}
	app.renderOutcome(w, outcome)
}

func (app *App) VerifyHandler(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(r); err != nil {
		app.renderError(w, http.StatusBadRequest, "invalid form data")
		return
	}

	employeeID, _ := strconv.Atoi(r.FormValue("employee_id"))
	outcome, err := app.Verification.Submit(r.Context(), employeeID)
	if err != nil {
		app.writeWorkflowError(w, err)
		return
	}
	app.renderOutcome(w, outcome)
}

func (app *App) ResolveAlertHandler(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(r); err != nil {
		app.renderError(w, http.StatusBadRequest, "invalid form data")
		return
	}

	alertID, err := strconv.Atoi(chi.URLParam(r, "alertID"))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	// The browser's confirm dialog answer rides in with the form.
	confirmed := r.FormValue("confirm") == "yes"
	outcome, err := app.AlertResolution.Submit(r.Context(), alertID, r.FormValue("notes"),
		workflow.ConfirmFunc(func(string) bool { return confirmed }))
	if err != nil {
		app.writeWorkflowError(w, err)
		return
	}
	app.renderOutcome(w, outcome)
}

func (app *App) SampleDataHandler(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(r); err != nil {
		app.renderError(w, http.StatusBadRequest, "invalid form data")
		return
	}

	num, _ := strconv.Atoi(r.FormValue("num_employees"))
	outcome, err := app.SampleData.Submit(r.Context(), num)
	if err != nil {
		app.writeWorkflowError(w, err)
		return
	}
	app.renderOutcome(w, outcome)
}

func (app *App) CameraStartHandler(w http.ResponseWriter, r *http.Request) {
	if err := app.Pipeline.Start(r.Context()); err != nil {
		app.writeWorkflowError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"camera": app.Pipeline.State().String()})
}

func (app *App) CameraStopHandler(w http.ResponseWriter, r *http.Request) {
	if err := app.Pipeline.Stop(); err != nil {
		app.Logger.Warnw("camera stop reported error", "error", err)
	}
	writeJSON(w, http.StatusOK, map[string]any{"camera": app.Pipeline.State().String()})
}

func (app *App) CameraStatusHandler(w http.ResponseWriter, r *http.Request) {
	payload := map[string]any{"camera": app.Pipeline.State().String()}
	if err := app.Pipeline.LastError(); err != nil {
		payload["error"] = err.Error()
	}
	writeJSON(w, http.StatusOK, payload)
}

func (app *App) AuditHandler(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	entries, err := app.Journal.Recent(limit)
	if err != nil {
		app.renderError(w, http.StatusInternalServerError, "could not read journal")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"entries": entries})
}

func (app *App) renderOutcome(w http.ResponseWriter, outcome *workflow.Outcome) {
	payload := map[string]any{
		"success": true,
		"message": outcome.Message,
	}
	if outcome.Advisory != "" {
		payload["advisory"] = outcome.Advisory
	}
	writeJSON(w, http.StatusOK, payload)
}

func (app *App) renderError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": message})
}

// writeWorkflowError maps the error taxonomy onto HTTP statuses for the
// front-end: busy submissions are conflicts, precondition failures are
// unprocessable, upstream failures carry the upstream status.
func (app *App) writeWorkflowError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, workflow.ErrAlreadyInProgress):
		app.renderError(w, http.StatusConflict, err.Error())
		return
	case errors.Is(err, workflow.ErrMissingCapture):
		app.renderError(w, http.StatusUnprocessableEntity, err.Error())
		return
	case errors.Is(err, workflow.ErrCancelled):
		writeJSON(w, http.StatusOK, map[string]any{"cancelled": true})
		return
	}

	var valErr *workflow.ValidationError
	if errors.As(err, &valErr) {
		app.renderError(w, http.StatusUnprocessableEntity, valErr.Error())
		return
	}

	var capErr *capture.CaptureError
	if errors.As(err, &capErr) {
		app.renderError(w, http.StatusServiceUnavailable, capErr.Error())
		return
	}

	var apiErr *gateway.APIError
	if errors.As(err, &apiErr) {
		status := apiErr.Status
		if apiErr.IsTransport() {
			status = http.StatusBadGateway
		}
		app.renderError(w, status, apiErr.Error())
		return
	}

	app.renderError(w, http.StatusInternalServerError, err.Error())
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func parseForm(r *http.Request) error {
	const maxPhotoForm = 16 << 20
	if err := r.ParseMultipartForm(maxPhotoForm); err != nil && err != http.ErrNotMultipart {
		return err
	}
	return nil
}
