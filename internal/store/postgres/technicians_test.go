package postgres

import (
	"context"
	"testing"
	"time"

	"dispatchboard/internal/store"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
)

func TestCreateTechnician(t *testing.T) {
	s, mock := newMockStore(t)
	defer s.db.Close()

	tech := &store.Technician{
		ID:           uuid.New(),
		TenantID:     uuid.New(),
		Name:         "Alice",
		Status:       store.TechnicianStatusActive,
		Color:        "#4CAF50",
		Role:         "plumber",
		BusinessUnit: "residential",
		CreatedAt:    time.Now().UTC(),
	}

	mock.ExpectExec(`INSERT INTO technicians`).
		WithArgs(tech.ID, tech.TenantID, "Alice", "active", "#4CAF50", "plumber", "residential", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := s.CreateTechnician(context.Background(), tech); err != nil {
		t.Fatalf("CreateTechnician failed: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestListTechnicians_FilteredByStatus(t *testing.T) {
	s, mock := newMockStore(t)
	defer s.db.Close()

	tenantID := uuid.New()
	a, b := uuid.New(), uuid.New()
	now := time.Now()

	mock.ExpectQuery(`FROM technicians\s+WHERE tenant_id = \$1 AND \(\$2 = '' OR status = \$2\)`).
		WithArgs(tenantID, "active").
		WillReturnRows(sqlmock.NewRows([]string{"id", "tenant_id", "name", "status", "color", "role", "business_unit", "created_at"}).
			AddRow(a.String(), tenantID.String(), "Alice", "active", "#111111", "plumber", "res", now).
			AddRow(b.String(), tenantID.String(), "Bob", "active", "#222222", "electrician", "com", now))

	techs, err := s.ListTechnicians(context.Background(), tenantID, store.TechnicianStatusActive)
	if err != nil {
		t.Fatalf("ListTechnicians failed: %v", err)
	}
	if len(techs) != 2 {
		t.Fatalf("got %d technicians, want 2", len(techs))
	}
	if techs[0].ID != a || techs[1].Name != "Bob" || techs[1].Role != "electrician" {
		t.Errorf("unexpected technicians: %+v", techs)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestCountTechnicians(t *testing.T) {
	s, mock := newMockStore(t)
	defer s.db.Close()

	tenantID := uuid.New()
	a, b := uuid.New(), uuid.New()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM technicians WHERE tenant_id = \$1 AND id::text = ANY\(\$2\)`).
		WithArgs(tenantID, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	n, err := s.CountTechnicians(context.Background(), tenantID, []uuid.UUID{a, b})
	if err != nil {
		t.Fatalf("CountTechnicians failed: %v", err)
	}
	if n != 1 {
		t.Errorf("got %d, want 1", n)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestCountTechnicians_EmptySkipsQuery(t *testing.T) {
	s, mock := newMockStore(t)
	defer s.db.Close()

	n, err := s.CountTechnicians(context.Background(), uuid.New(), nil)
	if err != nil || n != 0 {
		t.Errorf("got (%d, %v), want (0, nil)", n, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unexpected queries: %v", err)
	}
}
