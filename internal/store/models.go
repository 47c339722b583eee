// Package store contains the domain models and the database layer for dispatchboard.
package store

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when a row does not exist for the tenant.
	ErrNotFound = errors.New("not found")

	// ErrVersionConflict is returned when a placement write carries a stale job version.
	ErrVersionConflict = errors.New("job was modified by another session")

	// ErrDuplicateShift is returned when a technician already has a shift on a date.
	ErrDuplicateShift = errors.New("technician already has a shift on this date")
)

// Tenant represents a tenant in the multi-tenant system.
// All operations must be scoped by TenantID.
type Tenant struct {
	ID             uuid.UUID
	Name           string
	RateLimit      int
	RateLimitBurst int
	CreatedAt      time.Time
}

// TechnicianStatus is the duty status of a technician.
type TechnicianStatus string

const (
	TechnicianStatusActive   TechnicianStatus = "active"
	TechnicianStatusInactive TechnicianStatus = "inactive"
	TechnicianStatusOnLeave  TechnicianStatus = "on_leave"
)

// Technician is a field worker that jobs get dispatched to.
// The board only reads technicians.
type Technician struct {
	ID           uuid.UUID
	TenantID     uuid.UUID
	Name         string
	Status       TechnicianStatus
	Color        string
	Role         string
	BusinessUnit string
	CreatedAt    time.Time
}

// ShiftType distinguishes working shifts from booked time off.
type ShiftType string

const (
	ShiftTypeRegular ShiftType = "regular"
	ShiftTypeTimeOff ShiftType = "time_off"
)

// Shift is a technician's on-duty window for one calendar date.
// Recurring schedules are materialised into one Shift per day.
type Shift struct {
	ID        uuid.UUID
	TenantID  uuid.UUID
	StaffID   uuid.UUID
	Date      string // YYYY-MM-DD
	StartTime string // HH:MM
	EndTime   string // HH:MM
	Type      ShiftType
	CreatedAt time.Time
}

// JobStatus represents the state of a job.
type JobStatus string

const (
	JobStatusScheduled  JobStatus = "scheduled"
	JobStatusInProgress JobStatus = "in_progress"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusCancelled  JobStatus = "cancelled"
	JobStatusOnHold     JobStatus = "on_hold"
)

// Valid reports whether s is a known job status.
func (s JobStatus) Valid() bool {
	switch s {
	case JobStatusScheduled, JobStatusInProgress, JobStatusCompleted, JobStatusCancelled, JobStatusOnHold:
		return true
	}
	return false
}

// JobPriority is the urgency tier of a job.
type JobPriority string

const (
	JobPriorityLow       JobPriority = "low"
	JobPriorityNormal    JobPriority = "normal"
	JobPriorityHigh      JobPriority = "high"
	JobPriorityEmergency JobPriority = "emergency"
)

// Appointment is one technician's slot on a job.
type Appointment struct {
	TechnicianID uuid.UUID `json:"technician_id"`
	StartTime    string    `json:"start_time"`
	EndTime      string    `json:"end_time"`
}

// Job is an appointment instance on the dispatch board.
// A job staffed by several technicians owns one Appointment per technician;
// TechnicianID, StartTime and EndTime mirror the first appointment.
type Job struct {
	ID           uuid.UUID
	TenantID     uuid.UUID
	Number       string
	Title        string
	Date         string // YYYY-MM-DD
	Status       JobStatus
	Priority     JobPriority
	TechnicianID *uuid.UUID
	StartTime    string
	EndTime      string
	Appointments []Appointment
	Version      int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Clone returns a deep copy, safe to keep as a rollback snapshot.
func (j Job) Clone() Job {
	c := j
	if j.TechnicianID != nil {
		id := *j.TechnicianID
		c.TechnicianID = &id
	}
	if j.Appointments != nil {
		c.Appointments = make([]Appointment, len(j.Appointments))
		copy(c.Appointments, j.Appointments)
	}
	return c
}

// Slots returns the job's appointments. A job without an appointments list
// yields one slot built from its primary fields, or none if it is unassigned.
func (j Job) Slots() []Appointment {
	if len(j.Appointments) > 0 {
		return j.Appointments
	}
	if j.TechnicianID == nil {
		return nil
	}
	return []Appointment{{
		TechnicianID: *j.TechnicianID,
		StartTime:    j.StartTime,
		EndTime:      j.EndTime,
	}}
}

// WithAppointments returns a copy of j carrying appts, with the primary
// fields mirrored from the first appointment.
func (j Job) WithAppointments(appts []Appointment) Job {
	c := j.Clone()
	c.Appointments = make([]Appointment, len(appts))
	copy(c.Appointments, appts)
	if len(appts) > 0 {
		id := appts[0].TechnicianID
		c.TechnicianID = &id
		c.StartTime = appts[0].StartTime
		c.EndTime = appts[0].EndTime
	}
	return c
}

// PlacementUpdate is the partial document written when a job is moved or resized.
type PlacementUpdate struct {
	JobID           uuid.UUID
	TenantID        uuid.UUID
	TechnicianID    *uuid.UUID
	StartTime       string
	EndTime         string
	Status          JobStatus
	Appointments    []Appointment
	ExpectedVersion int64
	UpdatedAt       time.Time
}

// PlacementFor builds the placement write for an updated job.
// The expected version is the version the job was read at.
func PlacementFor(j Job) PlacementUpdate {
	return PlacementUpdate{
		JobID:           j.ID,
		TenantID:        j.TenantID,
		TechnicianID:    j.TechnicianID,
		StartTime:       j.StartTime,
		EndTime:         j.EndTime,
		Status:          j.Status,
		Appointments:    j.Appointments,
		ExpectedVersion: j.Version,
		UpdatedAt:       time.Now().UTC(),
	}
}
