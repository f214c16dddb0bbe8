package models

import "time"

// Employee mirrors the record shape returned by the attendance service.
type Employee struct {
	ID               int    `json:"id"`
	DigitalID        string `json:"digital_id"`
	Name             string `json:"name"`
	NationalID       string `json:"national_id"`
	Department       string `json:"department"`
	Position         string `json:"position"`
	Phone            string `json:"phone"`
	Email            string `json:"email"`
	PhotoPath        string `json:"photo_path"`
	RegistrationDate string `json:"registration_date"`
	Status           string `json:"status"`
}

type AttendanceEntry struct {
	ID                 int     `json:"id"`
	EmployeeID         int     `json:"employee_id"`
	EmployeeName       string  `json:"employee_name"`
	CheckInTime        string  `json:"check_in_time"`
	VerificationMethod string  `json:"verification_method"`
	ConfidenceScore    float64 `json:"confidence_score"`
	Location           string  `json:"location"`
}

// DashboardStats is the aggregate payload behind the dashboard view.
type DashboardStats struct {
	TotalEmployees      int               `json:"total_employees"`
	TotalAttendance     int               `json:"total_attendance"`
	PendingDuplicates   int               `json:"pending_duplicates"`
	TotalClaims         int               `json:"total_claims"`
	GhostWorkersCount   int               `json:"ghost_workers_count"`
	RecentAttendance    []AttendanceEntry `json:"recent_attendance"`
	RecentRegistrations []Employee        `json:"recent_registrations"`
}

type DuplicateAlert struct {
	ID                 int     `json:"id"`
	EmployeeID1        int     `json:"employee_id_1"`
	EmployeeID2        int     `json:"employee_id_2"`
	Employee1Name      string  `json:"employee_1_name"`
	Employee2Name      string  `json:"employee_2_name"`
	SimilarityScore    float64 `json:"similarity_score"`
	MatchingFactors    string  `json:"matching_factors"`
	AlertDate          string  `json:"alert_date"`
	Status             string  `json:"status"`
	InvestigationNotes string  `json:"investigation_notes"`
}

// GhostWorker is a fraud-detection result category owned by the remote
// service; the console only displays it.
type GhostWorker struct {
	Employee              Employee `json:"employee"`
	Reason                string   `json:"reason"`
	DaysSinceRegistration *int     `json:"days_since_registration"`
	DaysSinceAttendance   *int     `json:"days_since_attendance"`
}

type BenefitClaim struct {
	ID                  int     `json:"id"`
	EmployeeID          int     `json:"employee_id"`
	EmployeeName        string  `json:"employee_name"`
	BenefitType         string  `json:"benefit_type"`
	Amount              float64 `json:"amount"`
	ClaimDate           string  `json:"claim_date"`
	Status              string  `json:"status"`
	VerifiedByBiometric bool    `json:"verified_by_biometric"`
}

type SuspiciousClaim struct {
	EmployeeID          int            `json:"employee_id"`
	Claims              []BenefitClaim `json:"claims"`
	TimeDifferenceHours float64        `json:"time_difference_hours"`
	Reason              string         `json:"reason"`
}

// CapturedImage is an encoded still frame held in memory until the owning
// submission succeeds or is abandoned.
type CapturedImage struct {
	// Data is a base64 data URL, e.g. "data:image/jpeg;base64,...".
	Data    string
	TakenAt time.Time
}

func (c CapturedImage) Empty() bool {
	return c.Data == ""
}
