// Package api contains shared JSON request/response structs.
// This package is shared between the CLI and Controller.
package api

import "time"

// Error codes carried in ErrorResponse.Code besides the numeric HTTP status.
const (
	CodeConfirmationRequired = "confirmation_required"
	CodeVersionConflict      = "version_conflict"
	CodeValidation           = "validation_failed"
)

// CreateTenantRequest is the request body for creating a new tenant.
// Zero rate limits fall back to the controller defaults.
type CreateTenantRequest struct {
	Name           string `json:"name" validate:"required,notblank,max=120"`
	RateLimit      int    `json:"rate_limit,omitempty" validate:"min=0"`
	RateLimitBurst int    `json:"rate_limit_burst,omitempty" validate:"min=0"`
}

// CreateTenantResponse is the response body after creating a tenant.
type CreateTenantResponse struct {
	ID     string `json:"tenant_id"`
	Name   string `json:"name"`
	ApiKey string `json:"api_key"`
}

// CreateTechnicianRequest is the request body for adding a technician.
type CreateTechnicianRequest struct {
	Name         string `json:"name" validate:"required,notblank,max=120"`
	Status       string `json:"status,omitempty" validate:"omitempty,oneof=active inactive on_leave"`
	Color        string `json:"color,omitempty" validate:"omitempty,hexcolor"`
	Role         string `json:"role,omitempty" validate:"max=60"`
	BusinessUnit string `json:"business_unit,omitempty" validate:"max=60"`
}

// TechnicianResponse represents a technician in API responses.
type TechnicianResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Status       string    `json:"status"`
	Color        string    `json:"color,omitempty"`
	Role         string    `json:"role,omitempty"`
	BusinessUnit string    `json:"business_unit,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// ListTechniciansResponse is the response body of GET /technicians.
type ListTechniciansResponse struct {
	Technicians []TechnicianResponse `json:"technicians"`
}

// CreateShiftsRequest expands a recurring schedule into one shift per staff member and day.
// An empty Weekdays list selects every day of the range.
type CreateShiftsRequest struct {
	StaffIDs  []string `json:"staff_ids" validate:"required,min=1,dive,uuid"`
	StartDate string   `json:"start_date" validate:"required,date"`
	EndDate   string   `json:"end_date" validate:"required,date"`
	Weekdays  []string `json:"weekdays,omitempty" validate:"dive,weekday"`
	StartTime string   `json:"start_time" validate:"required,clock"`
	EndTime   string   `json:"end_time" validate:"required,clock"`
	Type      string   `json:"type,omitempty" validate:"omitempty,oneof=regular time_off"`
}

// ShiftResponse represents one materialised shift.
type ShiftResponse struct {
	ID        string `json:"id"`
	StaffID   string `json:"staff_id"`
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Type      string `json:"type"`
}

// ShiftsResponse is returned by both GET and POST /shifts.
type ShiftsResponse struct {
	Shifts []ShiftResponse `json:"shifts"`
}

// Appointment is one technician's slot on a job.
type Appointment struct {
	TechnicianID string `json:"technician_id" validate:"required,uuid"`
	StartTime    string `json:"start_time" validate:"required,clock"`
	EndTime      string `json:"end_time" validate:"required,clock"`
}

// CreateJobRequest is the request body for creating a job.
// A job without appointments lands in the unassigned list.
type CreateJobRequest struct {
	Title        string        `json:"title" validate:"required,notblank,max=200"`
	Date         string        `json:"date" validate:"required,date"`
	Priority     string        `json:"priority,omitempty" validate:"omitempty,oneof=low normal high emergency"`
	Status       string        `json:"status,omitempty" validate:"omitempty,oneof=scheduled in_progress completed cancelled on_hold"`
	Appointments []Appointment `json:"appointments,omitempty" validate:"dive"`
}

// JobResponse represents a job in API responses.
type JobResponse struct {
	ID           string        `json:"id"`
	Number       string        `json:"number"`
	Title        string        `json:"title"`
	Date         string        `json:"date"`
	Status       string        `json:"status"`
	Priority     string        `json:"priority"`
	TechnicianID *string       `json:"technician_id,omitempty"`
	StartTime    string        `json:"start_time,omitempty"`
	EndTime      string        `json:"end_time,omitempty"`
	Appointments []Appointment `json:"appointments"`
	Version      int64         `json:"version"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// ListJobsResponse is the response body of GET /jobs.
type ListJobsResponse struct {
	Jobs []JobResponse `json:"jobs"`
}

// PlacementRequest replaces a job's appointments after a move or resize.
// Version is the job version the client last read.
type PlacementRequest struct {
	Appointments []Appointment `json:"appointments" validate:"required,min=1,dive"`
	Status       string        `json:"status,omitempty" validate:"omitempty,oneof=scheduled in_progress completed cancelled on_hold"`
	Version      int64         `json:"version" validate:"min=1"`
	AssignAnyway bool          `json:"assign_anyway,omitempty"`
}

// BoardCard is one job instance drawn in a technician row.
type BoardCard struct {
	JobID     string `json:"job_id"`
	Index     int    `json:"index"`
	Number    string `json:"number"`
	Title     string `json:"title"`
	Status    string `json:"status"`
	Priority  string `json:"priority"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Level     int    `json:"level"`
}

// BoardRow is one technician's lane.
// Bands holds one entry per hour of the day, true where the technician is on shift.
type BoardRow struct {
	Technician TechnicianResponse `json:"technician"`
	Shift      *ShiftResponse     `json:"shift,omitempty"`
	Levels     int                `json:"levels"`
	Bands      []bool             `json:"bands"`
	Cards      []BoardCard        `json:"cards"`
}

// BoardResponse is the response body of GET /board.
type BoardResponse struct {
	Date       string        `json:"date"`
	Rows       []BoardRow    `json:"rows"`
	Unassigned []JobResponse `json:"unassigned"`
}

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`

	// OutsideShift lists the appointments that need an explicit assign_anyway.
	OutsideShift []Appointment `json:"outside_shift,omitempty"`
}
