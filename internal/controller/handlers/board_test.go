package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"dispatchboard/internal/store"
	"dispatchboard/pkg/api"

	"github.com/google/uuid"
)

func TestGetBoard(t *testing.T) {
	tenantID := uuid.New()
	alice := store.Technician{ID: uuid.New(), Name: "Alice", Status: store.TechnicianStatusActive}
	bob := store.Technician{ID: uuid.New(), Name: "Bob", Status: store.TechnicianStatusActive}
	ghost := uuid.New() // not in the technician feed

	job := func(title string, appts ...store.Appointment) store.Job {
		j := store.Job{ID: uuid.New(), Title: title, Date: "2025-06-10", Status: store.JobStatusScheduled, Version: 1}
		return j.WithAppointments(appts)
	}
	overlapA := job("A", store.Appointment{TechnicianID: alice.ID, StartTime: "09:00", EndTime: "11:00"})
	overlapB := job("B", store.Appointment{TechnicianID: alice.ID, StartTime: "10:00", EndTime: "12:00"})
	cancelled := job("C", store.Appointment{TechnicianID: bob.ID, StartTime: "09:00", EndTime: "10:00"})
	cancelled.Status = store.JobStatusCancelled
	orphan := job("D", store.Appointment{TechnicianID: ghost, StartTime: "09:00", EndTime: "10:00"})
	unassigned := store.Job{ID: uuid.New(), Title: "E", Date: "2025-06-10", Status: store.JobStatusOnHold}

	mock := &mockStore{
		listTechniciansResp: []store.Technician{alice, bob},
		listShiftsResp: []store.Shift{
			{StaffID: alice.ID, Date: "2025-06-10", StartTime: "08:00", EndTime: "12:00", Type: store.ShiftTypeRegular},
		},
		listJobsResp: []store.Job{overlapA, overlapB, cancelled, orphan, unassigned},
	}
	h := New(mock)

	rr := httptest.NewRecorder()
	h.GetBoard(rr, tenantRequest(http.MethodGet, "/board?date=2025-06-10", nil, tenantID))

	if rr.Code != http.StatusOK {
		t.Fatalf("got status %d: %s", rr.Code, rr.Body.String())
	}
	if mock.capturedStatus != store.TechnicianStatusActive {
		t.Errorf("board should only load active technicians, got %q", mock.capturedStatus)
	}

	var resp api.BoardResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(resp.Rows))
	}

	aliceRow := resp.Rows[0]
	if aliceRow.Levels != 2 || len(aliceRow.Cards) != 2 {
		t.Fatalf("alice row: levels=%d cards=%d, want 2/2", aliceRow.Levels, len(aliceRow.Cards))
	}
	if aliceRow.Cards[0].Level == aliceRow.Cards[1].Level {
		t.Error("overlapping cards share a level")
	}
	if aliceRow.Shift == nil || aliceRow.Shift.StartTime != "08:00" {
		t.Errorf("alice shift = %+v", aliceRow.Shift)
	}
	if len(aliceRow.Bands) != 24 || !aliceRow.Bands[8] || !aliceRow.Bands[11] || aliceRow.Bands[12] || aliceRow.Bands[7] {
		t.Errorf("unexpected bands %v", aliceRow.Bands)
	}

	bobRow := resp.Rows[1]
	if len(bobRow.Cards) != 0 || bobRow.Shift != nil {
		t.Errorf("bob row should be empty, got %+v", bobRow)
	}

	if len(resp.Unassigned) != 1 || resp.Unassigned[0].Title != "E" {
		t.Errorf("unexpected unassigned list: %+v", resp.Unassigned)
	}
}

func TestGetBoard_FeedError(t *testing.T) {
	h := New(&mockStore{listShiftsErr: errors.New("db down")})

	rr := httptest.NewRecorder()
	h.GetBoard(rr, tenantRequest(http.MethodGet, "/board?date=2025-06-10", nil, uuid.New()))

	if rr.Code != http.StatusInternalServerError {
		t.Errorf("got status %d, want %d", rr.Code, http.StatusInternalServerError)
	}
}
