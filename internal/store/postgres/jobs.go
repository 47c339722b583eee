package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"dispatchboard/internal/store"

	"github.com/google/uuid"
)

const jobColumns = `id, tenant_id, number, title, date::text, status, priority,
	technician_id, start_time, end_time, appointments, version, created_at, updated_at`

// CreateJob inserts a new job row.
// The appointments are stored as a JSON array.
func (s *Store) CreateJob(ctx context.Context, tx store.DBTransaction, job *store.Job) error {
	query := `
		INSERT INTO jobs (id, tenant_id, number, title, date, status, priority,
			technician_id, start_time, end_time, appointments, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	appts, err := marshalAppointments(job.Appointments)
	if err != nil {
		return err
	}

	_, err = s.getExecutor(tx).ExecContext(ctx, query,
		job.ID,
		job.TenantID,
		job.Number,
		job.Title,
		job.Date,
		job.Status,
		job.Priority,
		nullUUID(job.TechnicianID),
		job.StartTime,
		job.EndTime,
		appts,
		job.Version,
		job.CreatedAt,
		job.UpdatedAt,
	)
	return err
}

// GetJobByID returns a job by its ID within the tenant.
func (s *Store) GetJobByID(ctx context.Context, tenantID, id uuid.UUID) (*store.Job, error) {
	query := "SELECT " + jobColumns + " FROM jobs WHERE id = $1 AND tenant_id = $2"

	job, err := scanJob(s.db.QueryRowContext(ctx, query, id, tenantID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return job, nil
}

// ListJobsByDate returns the jobs of one date ordered by start time.
func (s *Store) ListJobsByDate(ctx context.Context, tenantID uuid.UUID, date string) ([]store.Job, error) {
	query := "SELECT " + jobColumns + ` FROM jobs
		WHERE tenant_id = $1 AND date = $2
		ORDER BY start_time ASC, created_at ASC`

	rows, err := s.db.QueryContext(ctx, query, tenantID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []store.Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, *job)
	}

	return jobs, rows.Err()
}

// UpdatePlacement writes the placement fields if the stored version still matches.
func (s *Store) UpdatePlacement(ctx context.Context, u store.PlacementUpdate) (int64, error) {
	appts, err := marshalAppointments(u.Appointments)
	if err != nil {
		return 0, err
	}

	query := `
		UPDATE jobs
		SET technician_id = $1, start_time = $2, end_time = $3, status = $4,
			appointments = $5, updated_at = $6, version = version + 1
		WHERE id = $7 AND tenant_id = $8 AND version = $9
		RETURNING version
	`

	var version int64
	err = s.db.QueryRowContext(ctx, query,
		nullUUID(u.TechnicianID),
		u.StartTime,
		u.EndTime,
		u.Status,
		appts,
		u.UpdatedAt,
		u.JobID,
		u.TenantID,
		u.ExpectedVersion,
	).Scan(&version)
	if err == nil {
		return version, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("failed to update placement of job %s: %w", u.JobID, err)
	}

	// Nothing matched: either the job is gone or someone else wrote first.
	var exists bool
	err = s.db.QueryRowContext(ctx,
		"SELECT EXISTS (SELECT 1 FROM jobs WHERE id = $1 AND tenant_id = $2)",
		u.JobID, u.TenantID,
	).Scan(&exists)
	if err != nil {
		return 0, err
	}
	if exists {
		return 0, store.ErrVersionConflict
	}
	return 0, store.ErrNotFound
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (*store.Job, error) {
	var (
		job   store.Job
		tech  uuid.NullUUID
		appts []byte
	)

	err := row.Scan(
		&job.ID, &job.TenantID, &job.Number, &job.Title, &job.Date,
		&job.Status, &job.Priority, &tech, &job.StartTime, &job.EndTime,
		&appts, &job.Version, &job.CreatedAt, &job.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if tech.Valid {
		id := tech.UUID
		job.TechnicianID = &id
	}
	if len(appts) > 0 {
		if err := json.Unmarshal(appts, &job.Appointments); err != nil {
			return nil, fmt.Errorf("invalid appointments on job %s: %w", job.ID, err)
		}
	}
	if len(job.Appointments) == 0 {
		job.Appointments = nil
	}

	return &job, nil
}

func marshalAppointments(appts []store.Appointment) ([]byte, error) {
	if appts == nil {
		appts = []store.Appointment{}
	}
	return json.Marshal(appts)
}

func nullUUID(id *uuid.UUID) uuid.NullUUID {
	if id == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: *id, Valid: true}
}
