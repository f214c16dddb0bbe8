package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/mkanzari/bioconsole/internal/models"
)

// Client is a thin typed wrapper over the remote attendance service. It does
// not retry and does not cache; callers own error presentation.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// APIError carries either an HTTP failure (Status > 0, server message) or a
// transport failure (Status == 0, wrapped cause).
type APIError struct {
	Status  int
	Message string
	Err     error
}

func (e *APIError) Error() string {
	if e.IsTransport() {
		return fmt.Sprintf("request failed: %v", e.Err)
	}
	return e.Message
}

func (e *APIError) Unwrap() error { return e.Err }

func (e *APIError) IsTransport() bool { return e.Status == 0 }

type errorBody struct {
	Error string `json:"error"`
}

func (c *Client) call(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &APIError{Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &APIError{Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var eb errorBody
		// The error field is best effort; a body that does not parse must
		// not take the caller down.
		_ = json.Unmarshal(data, &eb)
		msg := eb.Error
		if msg == "" {
			msg = fmt.Sprintf("request failed with status %d", resp.StatusCode)
		}
		return &APIError{Status: resp.StatusCode, Message: msg}
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}

type RegistrationPayload struct {
	Name            string `json:"name"`
	NationalID      string `json:"national_id,omitempty"`
	Department      string `json:"department,omitempty"`
	Position        string `json:"position,omitempty"`
	Phone           string `json:"phone,omitempty"`
	Email           string `json:"email,omitempty"`
	PhotoData       string `json:"photo_data,omitempty"`
	FingerprintData string `json:"fingerprint_data,omitempty"`
	CreatedBy       string `json:"created_by,omitempty"`
}

type DuplicateMatch struct {
	ExistingEmployee string   `json:"existing_employee"`
	SimilarityScore  float64  `json:"similarity_score"`
	MatchingFactors  []string `json:"matching_factors"`
}

type RegistrationResult struct {
	Success         bool             `json:"success"`
	Employee        models.Employee  `json:"employee"`
	DuplicatesFound int              `json:"duplicates_found"`
	DuplicateAlerts []DuplicateMatch `json:"duplicate_alerts"`
}

func (c *Client) RegisterEmployee(ctx context.Context, p RegistrationPayload) (*RegistrationResult, error) {
	var result RegistrationResult
	if err := c.call(ctx, http.MethodPost, "/api/register", p, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

type VerificationPayload struct {
	EmployeeID    int    `json:"employee_id"`
	BiometricData string `json:"biometric_data"`
}

type VerificationResult struct {
	Employee   models.Employee `json:"employee"`
	Verified   bool            `json:"verified"`
	Confidence float64         `json:"confidence"`
}

func (c *Client) VerifyIdentity(ctx context.Context, p VerificationPayload) (*VerificationResult, error) {
	var result VerificationResult
	if err := c.call(ctx, http.MethodPost, "/api/verify", p, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

type CheckInPayload struct {
	EmployeeID         int    `json:"employee_id"`
	VerificationMethod string `json:"verification_method"`
	Location           string `json:"location,omitempty"`
	DeviceID           string `json:"device_id,omitempty"`
}

func (c *Client) CheckIn(ctx context.Context, p CheckInPayload) error {
	return c.call(ctx, http.MethodPost, "/api/check-in", p, nil)
}

func (c *Client) DashboardStats(ctx context.Context) (*models.DashboardStats, error) {
	var stats models.DashboardStats
	if err := c.call(ctx, http.MethodGet, "/api/analytics/dashboard", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

type EmployeePage struct {
	Employees   []models.Employee `json:"employees"`
	Total       int               `json:"total"`
	Pages       int               `json:"pages"`
	CurrentPage int               `json:"current_page"`
}

func (c *Client) ListEmployees(ctx context.Context, page, perPage int) (*EmployeePage, error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("per_page", strconv.Itoa(perPage))

	var result EmployeePage
	if err := c.call(ctx, http.MethodGet, "/api/employees?"+params.Encode(), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) ListDuplicates(ctx context.Context, status string) ([]models.DuplicateAlert, error) {
	path := "/api/duplicates"
	if status != "" {
		path += "?status=" + url.QueryEscape(status)
	}

	var result struct {
		Alerts []models.DuplicateAlert `json:"alerts"`
	}
	if err := c.call(ctx, http.MethodGet, path, nil, &result); err != nil {
		return nil, err
	}
	return result.Alerts, nil
}

type resolvePayload struct {
	Status     string `json:"status"`
	Notes      string `json:"notes,omitempty"`
	ResolvedBy string `json:"resolved_by,omitempty"`
}

func (c *Client) ResolveDuplicate(ctx context.Context, alertID int, notes string) error {
	path := fmt.Sprintf("/api/duplicates/%d/resolve", alertID)
	return c.call(ctx, http.MethodPost, path, resolvePayload{Status: "resolved", Notes: notes}, nil)
}

func (c *Client) GhostWorkers(ctx context.Context, daysThreshold int) ([]models.GhostWorker, error) {
	path := fmt.Sprintf("/api/fraud/ghost-workers?days=%d", daysThreshold)

	var result struct {
		GhostWorkers []models.GhostWorker `json:"ghost_workers"`
	}
	if err := c.call(ctx, http.MethodGet, path, nil, &result); err != nil {
		return nil, err
	}
	return result.GhostWorkers, nil
}

func (c *Client) SuspiciousClaims(ctx context.Context) ([]models.SuspiciousClaim, error) {
	var result struct {
		SuspiciousClaims []models.SuspiciousClaim `json:"suspicious_claims"`
	}
	if err := c.call(ctx, http.MethodGet, "/api/fraud/suspicious-claims", nil, &result); err != nil {
		return nil, err
	}
	return result.SuspiciousClaims, nil
}

type sampleDataPayload struct {
	NumEmployees int `json:"num_employees"`
}

type SampleDataResult struct {
	Success          bool `json:"success"`
	EmployeesCreated int  `json:"employees_created"`
}

func (c *Client) GenerateSampleData(ctx context.Context, numEmployees int) (*SampleDataResult, error) {
	var result SampleDataResult
	if err := c.call(ctx, http.MethodPost, "/api/generate-sample-data", sampleDataPayload{NumEmployees: numEmployees}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
