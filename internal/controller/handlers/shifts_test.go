package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"dispatchboard/internal/store"
	"dispatchboard/pkg/api"

	"github.com/google/uuid"
)

func TestCreateShifts(t *testing.T) {
	tenantID := uuid.New()
	staff := uuid.New()

	// 2025-06-09 is a Monday.
	validBody := fmt.Sprintf(`{
		"staff_ids": [%q, %q],
		"start_date": "2025-06-09",
		"end_date": "2025-06-15",
		"weekdays": ["mon", "wednesday"],
		"start_time": "08:00",
		"end_time": "16:00"
	}`, staff, staff)

	tests := []struct {
		name           string
		body           string
		mockSetup      func(*mockStore)
		expectedStatus int
		expectedInBody string
	}{
		{
			name:           "Success",
			body:           validBody,
			expectedStatus: http.StatusCreated,
			expectedInBody: `"date":"2025-06-11"`,
		},
		{
			name:           "Bad Clock",
			body:           `{"staff_ids": ["` + staff.String() + `"], "start_date": "2025-06-09", "end_date": "2025-06-09", "start_time": "8am", "end_time": "16:00"}`,
			expectedStatus: http.StatusBadRequest,
			expectedInBody: "start_time must be a time of day",
		},
		{
			name:           "Bad Weekday",
			body:           `{"staff_ids": ["` + staff.String() + `"], "start_date": "2025-06-09", "end_date": "2025-06-09", "weekdays": ["someday"], "start_time": "08:00", "end_time": "16:00"}`,
			expectedStatus: http.StatusBadRequest,
			expectedInBody: "must be a weekday name",
		},
		{
			name:           "End Before Start",
			body:           `{"staff_ids": ["` + staff.String() + `"], "start_date": "2025-06-10", "end_date": "2025-06-09", "start_time": "08:00", "end_time": "16:00"}`,
			expectedStatus: http.StatusBadRequest,
			expectedInBody: "end date is before start date",
		},
		{
			name: "Unknown Technician",
			body: validBody,
			mockSetup: func(m *mockStore) {
				m.countTechniciansResp = intPtr(0)
			},
			expectedStatus: http.StatusBadRequest,
			expectedInBody: "Unknown technician in staff_ids",
		},
		{
			name: "Duplicate Day",
			body: validBody,
			mockSetup: func(m *mockStore) {
				m.createShiftsErr = fmt.Errorf("%w: staff on 2025-06-09", store.ErrDuplicateShift)
			},
			expectedStatus: http.StatusConflict,
			expectedInBody: "already has a shift",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockStore{}
			if tt.mockSetup != nil {
				tt.mockSetup(mock)
			}
			h := New(mock)

			req := tenantRequest(http.MethodPost, "/shifts", strings.NewReader(tt.body), tenantID)
			rr := httptest.NewRecorder()
			h.CreateShifts(rr, req)

			if rr.Code != tt.expectedStatus {
				t.Errorf("handler returned wrong status code: got %v want %v (%s)", rr.Code, tt.expectedStatus, rr.Body.String())
			}
			if !strings.Contains(rr.Body.String(), tt.expectedInBody) {
				t.Errorf("handler returned unexpected body: got %v want substring %v", rr.Body.String(), tt.expectedInBody)
			}
		})
	}
}

func TestCreateShifts_OneRecordPerStaffAndDay(t *testing.T) {
	tenantID := uuid.New()
	a, b := uuid.New(), uuid.New()
	mock := &mockStore{}
	h := New(mock)

	body := fmt.Sprintf(`{"staff_ids": [%q, %q, %q], "start_date": "2025-06-09", "end_date": "2025-06-15",
		"weekdays": ["mon", "wed", "fri"], "start_time": "09:00", "end_time": "17:00", "type": "time_off"}`, a, b, a)

	rr := httptest.NewRecorder()
	h.CreateShifts(rr, tenantRequest(http.MethodPost, "/shifts", strings.NewReader(body), tenantID))

	if rr.Code != http.StatusCreated {
		t.Fatalf("got status %d: %s", rr.Code, rr.Body.String())
	}
	// 3 days x 2 distinct technicians
	if len(mock.capturedShifts) != 6 {
		t.Fatalf("stored %d shifts, want 6", len(mock.capturedShifts))
	}
	for _, s := range mock.capturedShifts {
		if s.TenantID != tenantID || s.Type != store.ShiftTypeTimeOff {
			t.Errorf("unexpected shift: %+v", s)
		}
	}
	if mock.tx == nil || !mock.tx.committed {
		t.Error("expected the batch to be committed")
	}

	var resp api.ShiftsResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Shifts) != 6 {
		t.Errorf("response has %d shifts, want 6", len(resp.Shifts))
	}
}

func TestListShifts(t *testing.T) {
	tenantID := uuid.New()

	t.Run("Requires Date", func(t *testing.T) {
		h := New(&mockStore{})

		rr := httptest.NewRecorder()
		h.ListShifts(rr, tenantRequest(http.MethodGet, "/shifts", nil, tenantID))

		if rr.Code != http.StatusBadRequest {
			t.Errorf("got status %d, want %d", rr.Code, http.StatusBadRequest)
		}
	})

	t.Run("Rejects Malformed Date", func(t *testing.T) {
		h := New(&mockStore{})

		rr := httptest.NewRecorder()
		h.ListShifts(rr, tenantRequest(http.MethodGet, "/shifts?date=10/06/2025", nil, tenantID))

		if rr.Code != http.StatusBadRequest {
			t.Errorf("got status %d, want %d", rr.Code, http.StatusBadRequest)
		}
	})

	t.Run("Success", func(t *testing.T) {
		staff := uuid.New()
		mock := &mockStore{listShiftsResp: []store.Shift{
			{ID: uuid.New(), StaffID: staff, Date: "2025-06-10", StartTime: "08:00", EndTime: "16:00", Type: store.ShiftTypeRegular},
		}}
		h := New(mock)

		rr := httptest.NewRecorder()
		h.ListShifts(rr, tenantRequest(http.MethodGet, "/shifts?date=2025-06-10", nil, tenantID))

		if rr.Code != http.StatusOK {
			t.Fatalf("got status %d: %s", rr.Code, rr.Body.String())
		}
		if mock.capturedListShiftDate != "2025-06-10" {
			t.Errorf("queried date %q", mock.capturedListShiftDate)
		}
		if !strings.Contains(rr.Body.String(), staff.String()) {
			t.Errorf("body does not contain the shift: %s", rr.Body.String())
		}
	})
}
