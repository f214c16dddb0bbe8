package gateway

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRegisterEmployeeSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/register" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("unexpected content type %s", ct)
		}
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{
			"success": true,
			"employee": {"id": 7, "name": "Ama Mensah", "digital_id": "abc-123"},
			"duplicates_found": 2,
			"duplicate_alerts": [
				{"existing_employee": "A. Mensah", "similarity_score": 91.5, "matching_factors": ["name", "photo"]}
			]
		}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	result, err := client.RegisterEmployee(context.Background(), RegistrationPayload{Name: "Ama Mensah"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Employee.ID != 7 || result.Employee.DigitalID != "abc-123" {
		t.Errorf("unexpected employee: %+v", result.Employee)
	}
	if result.DuplicatesFound != 2 {
		t.Errorf("expected 2 duplicates, got %d", result.DuplicatesFound)
	}
	if len(result.DuplicateAlerts) != 1 || result.DuplicateAlerts[0].SimilarityScore != 91.5 {
		t.Errorf("unexpected alerts: %+v", result.DuplicateAlerts)
	}
}

func TestServerErrorMessagePassedThrough(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": "duplicate email"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.RegisterEmployee(context.Background(), RegistrationPayload{Name: "X"})

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Status != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", apiErr.Status)
	}
	if apiErr.Message != "duplicate email" {
		t.Errorf("expected message %q, got %q", "duplicate email", apiErr.Message)
	}
	if apiErr.Error() != "duplicate email" {
		t.Errorf("displayed message must be exactly the server message, got %q", apiErr.Error())
	}
}

func TestServerErrorWithoutErrorField(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "empty body", body: ""},
		{name: "unrelated json", body: `{"detail": "boom"}`},
		{name: "not json", body: "<html>Internal Server Error</html>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := NewClient(server.URL)
			_, err := client.DashboardStats(context.Background())

			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected APIError, got %v", err)
			}
			if apiErr.Message != "request failed with status 500" {
				t.Errorf("expected generic message, got %q", apiErr.Message)
			}
		})
	}
}

func TestTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := NewClient(server.URL)
	_, err := client.DashboardStats(context.Background())

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if !apiErr.IsTransport() {
		t.Error("expected transport error")
	}
	if apiErr.Unwrap() == nil {
		t.Error("expected wrapped cause")
	}
}

func TestListEmployeesPagination(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("page"); got != "2" {
			t.Errorf("expected page=2, got %s", got)
		}
		if got := r.URL.Query().Get("per_page"); got != "50" {
			t.Errorf("expected per_page=50, got %s", got)
		}
		w.Write([]byte(`{"employees": [{"id": 1, "name": "Kofi"}], "total": 120, "pages": 3, "current_page": 2}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	page, err := client.ListEmployees(context.Background(), 2, 50)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Total != 120 || len(page.Employees) != 1 {
		t.Errorf("unexpected page: %+v", page)
	}
}

func TestResolveDuplicatePayload(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`{"success": true}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	if err := client.ResolveDuplicate(context.Background(), 42, "confirmed same person"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPath != "/api/duplicates/42/resolve" {
		t.Errorf("unexpected path %s", gotPath)
	}
}

func TestGhostWorkersDecoding(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("days"); got != "30" {
			t.Errorf("expected days=30, got %s", got)
		}
		w.Write([]byte(`{"ghost_workers": [
			{"employee": {"id": 3, "name": "Ghost"}, "reason": "no attendance", "days_since_registration": 45, "days_since_attendance": null}
		]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	ghosts, err := client.GhostWorkers(context.Background(), 30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ghosts) != 1 || ghosts[0].Employee.Name != "Ghost" {
		t.Errorf("unexpected ghosts: %+v", ghosts)
	}
	if ghosts[0].DaysSinceRegistration == nil || *ghosts[0].DaysSinceRegistration != 45 {
		t.Error("expected days_since_registration 45")
	}
	if ghosts[0].DaysSinceAttendance != nil {
		t.Error("expected null days_since_attendance")
	}
}
