package postgres

import (
	"context"
	"fmt"

	"dispatchboard/internal/store"

	"github.com/google/uuid"
)

// CreateShifts inserts materialised shifts one row per (staff, date).
// A clash with an existing shift fails the whole batch with store.ErrDuplicateShift.
func (s *Store) CreateShifts(ctx context.Context, tx store.DBTransaction, shifts []store.Shift) error {
	executor := s.getExecutor(tx)

	query := `
		INSERT INTO shifts (id, tenant_id, staff_id, date, start_time, end_time, type, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	for _, sh := range shifts {
		_, err := executor.ExecContext(ctx, query,
			sh.ID, sh.TenantID, sh.StaffID, sh.Date,
			sh.StartTime, sh.EndTime, sh.Type, sh.CreatedAt,
		)
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: staff %s on %s", store.ErrDuplicateShift, sh.StaffID, sh.Date)
		}
		if err != nil {
			return fmt.Errorf("failed to insert shift for %s on %s: %w", sh.StaffID, sh.Date, err)
		}
	}

	return nil
}

// ListShiftsByDate returns the shifts of a single date.
func (s *Store) ListShiftsByDate(ctx context.Context, tenantID uuid.UUID, date string) ([]store.Shift, error) {
	query := `
		SELECT id, tenant_id, staff_id, date::text, start_time, end_time, type, created_at
		FROM shifts
		WHERE tenant_id = $1 AND date = $2
		ORDER BY start_time ASC
	`

	rows, err := s.db.QueryContext(ctx, query, tenantID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var shifts []store.Shift
	for rows.Next() {
		var sh store.Shift
		if err := rows.Scan(
			&sh.ID, &sh.TenantID, &sh.StaffID, &sh.Date,
			&sh.StartTime, &sh.EndTime, &sh.Type, &sh.CreatedAt,
		); err != nil {
			return nil, err
		}
		shifts = append(shifts, sh)
	}

	return shifts, rows.Err()
}
