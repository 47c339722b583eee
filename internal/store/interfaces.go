package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
)

// DBTransaction defines the methods shared by *sql.DB and *sql.Tx
// This allows us to pass either a connection pool or an active transaction to the repository methods.
type DBTransaction interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

type Tx interface {
	DBTransaction
	Commit() error
	Rollback() error
}

// TenantStore handles retrieving tenant information for authentication.
type TenantStore interface {
	// CreateTenant inserts a new tenant to the database
	CreateTenant(ctx context.Context, tenant *Tenant, hashedKey string) error

	// GetTenantByAPIKeyHash returns a tenant by its API key hash.
	GetTenantByAPIKeyHash(ctx context.Context, hash string) (*Tenant, error)
}

// TechnicianStore reads and creates technicians.
type TechnicianStore interface {
	CreateTechnician(ctx context.Context, tech *Technician) error

	// ListTechnicians returns the tenant's technicians, optionally filtered by status.
	ListTechnicians(ctx context.Context, tenantID uuid.UUID, status TechnicianStatus) ([]Technician, error)

	// CountTechnicians returns how many of ids belong to the tenant.
	// Duplicates in ids must be removed by the caller.
	CountTechnicians(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) (int, error)
}

// ShiftStore persists materialised per-day shifts.
type ShiftStore interface {
	// CreateShifts inserts every shift inside tx.
	CreateShifts(ctx context.Context, tx DBTransaction, shifts []Shift) error

	// ListShiftsByDate returns the shifts of one calendar date.
	ListShiftsByDate(ctx context.Context, tenantID uuid.UUID, date string) ([]Shift, error)
}

// JobStore handles the persistence of jobs and their placements.
type JobStore interface {
	CreateJob(ctx context.Context, tx DBTransaction, job *Job) error

	// GetJobByID returns ErrNotFound when the job does not belong to the tenant.
	GetJobByID(ctx context.Context, tenantID, id uuid.UUID) (*Job, error)

	// ListJobsByDate returns every job of one date, cancelled ones included.
	ListJobsByDate(ctx context.Context, tenantID uuid.UUID, date string) ([]Job, error)

	// UpdatePlacement writes technician, times, status and appointments and bumps the version.
	// It returns ErrVersionConflict if the stored version differs from the expected one,
	// and the new version otherwise.
	UpdatePlacement(ctx context.Context, update PlacementUpdate) (int64, error)
}
