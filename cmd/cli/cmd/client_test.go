package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"dispatchboard/internal/store"
	"dispatchboard/pkg/api"

	"github.com/google/uuid"
)

func TestDispatchClient_APIErrorDecoding(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(api.ErrorResponse{
			Error:        "Technician is not scheduled to work at this time",
			Code:         api.CodeConfirmationRequired,
			OutsideShift: []api.Appointment{{TechnicianID: "tech-1", StartTime: "18:00", EndTime: "19:00"}},
		})
	}))
	defer server.Close()

	client := NewDispatchClient(server.URL, "test-token")
	_, err := client.UpdatePlacement(context.Background(), "job-1", api.PlacementRequest{Version: 1})

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T: %v", err, err)
	}
	if apiErr.StatusCode != http.StatusConflict || apiErr.Code != api.CodeConfirmationRequired {
		t.Errorf("unexpected error: %+v", apiErr)
	}
	if len(apiErr.OutsideShift) != 1 || apiErr.OutsideShift[0].StartTime != "18:00" {
		t.Errorf("unexpected outside shift: %+v", apiErr.OutsideShift)
	}
}

func TestBoardFeed_UpdatePlacement(t *testing.T) {
	jobID := uuid.New()
	techID := uuid.New()

	var captured api.PlacementRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/jobs/"+jobID.String()+"/placement" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&captured)
		json.NewEncoder(w).Encode(api.JobResponse{ID: jobID.String(), Version: 8})
	}))
	defer server.Close()

	feed := boardFeed{client: NewDispatchClient(server.URL, "test-token")}
	version, err := feed.UpdatePlacement(context.Background(), store.PlacementUpdate{
		JobID:           jobID,
		Status:          store.JobStatusScheduled,
		ExpectedVersion: 7,
		Appointments:    []store.Appointment{{TechnicianID: techID, StartTime: "13:00", EndTime: "14:00"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if version != 8 {
		t.Errorf("expected version 8, got %d", version)
	}
	if !captured.AssignAnyway {
		t.Error("expected the board writer to skip the server-side shift gate")
	}
	if captured.Version != 7 {
		t.Errorf("expected expected-version 7 to be sent, got %d", captured.Version)
	}
	if len(captured.Appointments) != 1 || captured.Appointments[0].TechnicianID != techID.String() {
		t.Errorf("unexpected appointments: %+v", captured.Appointments)
	}
}

func TestBoardFeed_UpdatePlacementErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    api.ErrorResponse
		wantErr error
	}{
		{
			name:    "version conflict",
			status:  http.StatusConflict,
			body:    api.ErrorResponse{Error: "stale", Code: api.CodeVersionConflict},
			wantErr: store.ErrVersionConflict,
		},
		{
			name:    "not found",
			status:  http.StatusNotFound,
			body:    api.ErrorResponse{Error: "Job not found"},
			wantErr: store.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				json.NewEncoder(w).Encode(tt.body)
			}))
			defer server.Close()

			feed := boardFeed{client: NewDispatchClient(server.URL, "test-token")}
			_, err := feed.UpdatePlacement(context.Background(), store.PlacementUpdate{JobID: uuid.New(), ExpectedVersion: 1})
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestBoardFeed_Jobs(t *testing.T) {
	jobID := uuid.New()
	techID := uuid.New()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tech := techID.String()
		json.NewEncoder(w).Encode(api.ListJobsResponse{Jobs: []api.JobResponse{{
			ID:           jobID.String(),
			Number:       "JOB-1",
			Date:         "2025-06-09",
			Status:       "scheduled",
			Priority:     "normal",
			TechnicianID: &tech,
			StartTime:    "09:00",
			EndTime:      "10:00",
			Appointments: []api.Appointment{{TechnicianID: tech, StartTime: "09:00", EndTime: "10:00"}},
			Version:      2,
		}}})
	}))
	defer server.Close()

	feed := boardFeed{client: NewDispatchClient(server.URL, "test-token")}
	jobs, err := feed.Jobs(context.Background(), "2025-06-09")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(jobs) != 1 {
		t.Fatalf("expected 1 job, got %d", len(jobs))
	}
	j := jobs[0]
	if j.ID != jobID || j.Version != 2 || j.Status != store.JobStatusScheduled {
		t.Errorf("unexpected job: %+v", j)
	}
	if j.TechnicianID == nil || *j.TechnicianID != techID {
		t.Errorf("expected technician %s, got %v", techID, j.TechnicianID)
	}
	if len(j.Appointments) != 1 || j.Appointments[0].TechnicianID != techID {
		t.Errorf("unexpected appointments: %+v", j.Appointments)
	}
}

func TestBoardFeed_RejectsBadIDs(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(api.ShiftsResponse{Shifts: []api.ShiftResponse{{ID: "not-a-uuid"}}})
	}))
	defer server.Close()

	feed := boardFeed{client: NewDispatchClient(server.URL, "test-token")}
	if _, err := feed.Shifts(context.Background(), "2025-06-09"); err == nil {
		t.Error("expected an error for a malformed shift id")
	}
}
