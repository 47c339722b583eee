package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"dispatchboard/internal/store"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
)

func TestCreateTenant_Success(t *testing.T) {
	s, mock := newMockStore(t)
	defer s.db.Close()

	tenant := &store.Tenant{
		ID:             uuid.New(),
		Name:           "Acme Plumbing",
		RateLimit:      10,
		RateLimitBurst: 20,
		CreatedAt:      time.Now().UTC(),
	}

	mock.ExpectExec(`INSERT INTO tenants`).
		WithArgs(tenant.ID, tenant.Name, "hash", 10, 20, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := s.CreateTenant(context.Background(), tenant, "hash"); err != nil {
		t.Fatalf("CreateTenant failed: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestGetTenantByAPIKeyHash_Success(t *testing.T) {
	s, mock := newMockStore(t)
	defer s.db.Close()

	ctx := context.Background()
	tenantID := uuid.New()
	createdAt := time.Now().Truncate(time.Second)

	mock.ExpectQuery(`SELECT id, name, rate_limit, rate_limit_burst, created_at FROM tenants WHERE api_key_hash = \$1`).
		WithArgs("abc123hash").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "rate_limit", "rate_limit_burst", "created_at"}).
			AddRow(tenantID.String(), "Test Tenant", 5, 10, createdAt))

	tenant, err := s.GetTenantByAPIKeyHash(ctx, "abc123hash")
	if err != nil {
		t.Fatalf("GetTenantByAPIKeyHash failed: %v", err)
	}
	if tenant.ID != tenantID {
		t.Errorf("got ID %v, want %v", tenant.ID, tenantID)
	}
	if tenant.Name != "Test Tenant" {
		t.Errorf("got Name %s, want Test Tenant", tenant.Name)
	}
	if tenant.RateLimit != 5 || tenant.RateLimitBurst != 10 {
		t.Errorf("got rate limit %d/%d, want 5/10", tenant.RateLimit, tenant.RateLimitBurst)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestGetTenantByAPIKeyHash_NotFound(t *testing.T) {
	s, mock := newMockStore(t)
	defer s.db.Close()

	mock.ExpectQuery(`FROM tenants WHERE api_key_hash = \$1`).
		WithArgs("invalid-hash").
		WillReturnError(sql.ErrNoRows)

	tenant, err := s.GetTenantByAPIKeyHash(context.Background(), "invalid-hash")
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected store.ErrNotFound, got %v", err)
	}
	if tenant != nil {
		t.Error("expected nil tenant")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}
