package handlers

import (
	"context"
	"database/sql"
	"io"
	"net/http"
	"net/http/httptest"

	"dispatchboard/internal/controller/middleware"
	"dispatchboard/internal/store"

	"github.com/google/uuid"
)

// Mock transaction
type mockTx struct {
	committed bool
}

func (m *mockTx) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return nil, nil
}
func (m *mockTx) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	return nil, nil
}
func (m *mockTx) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	return nil
}

func (m *mockTx) Commit() error {
	m.committed = true
	return nil
}

func (m *mockTx) Rollback() error { return nil }

// Mock Store
type mockStore struct {
	beginTxErr error
	pingErr    error
	tx         *mockTx

	// Tenant Hooks
	createTenantErr error

	// Technician Hooks
	createTechnicianErr  error
	listTechniciansResp  []store.Technician
	listTechniciansErr   error
	countTechniciansResp *int
	countTechniciansErr  error

	// Shift Hooks
	createShiftsErr error
	listShiftsResp  []store.Shift
	listShiftsErr   error

	// Job Hooks
	createJobErr       error
	getJobByIDResp     *store.Job
	getJobByIDErr      error
	listJobsResp       []store.Job
	listJobsErr        error
	updatePlacementErr error

	// Spies (to verify arguments passed by handlers)
	capturedTenant        *store.Tenant
	capturedTechnician    *store.Technician
	capturedStatus        store.TechnicianStatus
	capturedShifts        []store.Shift
	capturedJob           *store.Job
	capturedPlacement     *store.PlacementUpdate
	capturedListShiftDate string
}

func (m *mockStore) BeginTx(ctx context.Context) (store.Tx, error) {
	if m.beginTxErr != nil {
		return nil, m.beginTxErr
	}
	m.tx = &mockTx{}
	return m.tx, nil
}

func (m *mockStore) Ping(ctx context.Context) error {
	return m.pingErr
}

func (m *mockStore) CreateTenant(ctx context.Context, tenant *store.Tenant, hashedKey string) error {
	m.capturedTenant = tenant
	return m.createTenantErr
}

func (m *mockStore) GetTenantByAPIKeyHash(ctx context.Context, hash string) (*store.Tenant, error) {
	return nil, nil // Handled by Auth Middleware, not Handlers
}

func (m *mockStore) CreateTechnician(ctx context.Context, tech *store.Technician) error {
	m.capturedTechnician = tech
	return m.createTechnicianErr
}

func (m *mockStore) ListTechnicians(ctx context.Context, tenantID uuid.UUID, status store.TechnicianStatus) ([]store.Technician, error) {
	m.capturedStatus = status
	return m.listTechniciansResp, m.listTechniciansErr
}

// CountTechnicians reports every id as known unless a count is configured.
func (m *mockStore) CountTechnicians(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) (int, error) {
	if m.countTechniciansResp != nil {
		return *m.countTechniciansResp, m.countTechniciansErr
	}
	return len(ids), m.countTechniciansErr
}

func (m *mockStore) CreateShifts(ctx context.Context, tx store.DBTransaction, shifts []store.Shift) error {
	m.capturedShifts = shifts
	return m.createShiftsErr
}

func (m *mockStore) ListShiftsByDate(ctx context.Context, tenantID uuid.UUID, date string) ([]store.Shift, error) {
	m.capturedListShiftDate = date
	return m.listShiftsResp, m.listShiftsErr
}

func (m *mockStore) CreateJob(ctx context.Context, tx store.DBTransaction, job *store.Job) error {
	m.capturedJob = job
	return m.createJobErr
}

func (m *mockStore) GetJobByID(ctx context.Context, tenantID, id uuid.UUID) (*store.Job, error) {
	if m.getJobByIDResp == nil && m.getJobByIDErr == nil {
		return nil, store.ErrNotFound
	}
	return m.getJobByIDResp, m.getJobByIDErr
}

func (m *mockStore) ListJobsByDate(ctx context.Context, tenantID uuid.UUID, date string) ([]store.Job, error) {
	return m.listJobsResp, m.listJobsErr
}

func (m *mockStore) UpdatePlacement(ctx context.Context, update store.PlacementUpdate) (int64, error) {
	m.capturedPlacement = &update
	if m.updatePlacementErr != nil {
		return 0, m.updatePlacementErr
	}
	return update.ExpectedVersion + 1, nil
}

// tenantRequest builds a request already authenticated as tenantID.
func tenantRequest(method, target string, body io.Reader, tenantID uuid.UUID) *http.Request {
	req := httptest.NewRequest(method, target, body)
	return req.WithContext(middleware.NewContextWithTenantID(req.Context(), tenantID))
}

func intPtr(n int) *int { return &n }
