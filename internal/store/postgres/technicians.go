package postgres

import (
	"context"
	"database/sql"

	"dispatchboard/internal/store"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// CreateTechnician inserts a technician row.
func (s *Store) CreateTechnician(ctx context.Context, tech *store.Technician) error {
	query := `
		INSERT INTO technicians (id, tenant_id, name, status, color, role, business_unit, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := s.db.ExecContext(ctx, query,
		tech.ID,
		tech.TenantID,
		tech.Name,
		tech.Status,
		tech.Color,
		tech.Role,
		tech.BusinessUnit,
		tech.CreatedAt,
	)
	return err
}

// ListTechnicians returns technicians ordered by name. An empty status returns all of them.
func (s *Store) ListTechnicians(ctx context.Context, tenantID uuid.UUID, status store.TechnicianStatus) ([]store.Technician, error) {
	query := `
		SELECT id, tenant_id, name, status, color, role, business_unit, created_at
		FROM technicians
		WHERE tenant_id = $1 AND ($2 = '' OR status = $2)
		ORDER BY name ASC, id ASC
	`

	rows, err := s.db.QueryContext(ctx, query, tenantID, string(status))
	if err != nil {
		return nil, err
	}
	return scanTechnicians(rows)
}

// CountTechnicians returns how many of ids are technicians of the tenant.
func (s *Store) CountTechnicians(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = id.String()
	}

	var n int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM technicians WHERE tenant_id = $1 AND id::text = ANY($2)",
		tenantID, pq.Array(keys),
	).Scan(&n)
	return n, err
}

func scanTechnicians(rows *sql.Rows) ([]store.Technician, error) {
	defer rows.Close()

	var techs []store.Technician
	for rows.Next() {
		var t store.Technician
		if err := rows.Scan(
			&t.ID, &t.TenantID, &t.Name, &t.Status,
			&t.Color, &t.Role, &t.BusinessUnit, &t.CreatedAt,
		); err != nil {
			return nil, err
		}
		techs = append(techs, t)
	}

	return techs, rows.Err()
}
