package cmd

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"dispatchboard/pkg/api"

	"github.com/spf13/viper"
)

func TestJobsCreate_SingleTechnician(t *testing.T) {
	resetViper()

	var captured api.CreateJobRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/jobs" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("failed to decode request body: %v", err)
		}

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(api.JobResponse{ID: "job-123", Number: "JOB-1718000000000-AB12", Version: 1})
	}))
	defer server.Close()

	viper.Set("url", server.URL)
	viper.Set("token", "test-token")

	output := runCLI(t, "jobs", "create",
		"--title", "Boiler service", "--date", "2025-06-09",
		"--tech", "tech-1", "--start", "09:00", "--end", "11:00")

	if !strings.Contains(output, "Job created") || !strings.Contains(output, "JOB-1718000000000-AB12") {
		t.Errorf("expected success message with number, got: %s", output)
	}
	if captured.Title != "Boiler service" || captured.Date != "2025-06-09" {
		t.Errorf("unexpected job: %+v", captured)
	}
	if len(captured.Appointments) != 1 {
		t.Fatalf("expected 1 appointment, got %d", len(captured.Appointments))
	}
	want := api.Appointment{TechnicianID: "tech-1", StartTime: "09:00", EndTime: "11:00"}
	if captured.Appointments[0] != want {
		t.Errorf("expected %+v, got %+v", want, captured.Appointments[0])
	}
}

func TestJobsCreate_MultipleAppointments(t *testing.T) {
	resetViper()

	var captured api.CreateJobRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&captured)
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(api.JobResponse{ID: "job-123", Number: "JOB-1"})
	}))
	defer server.Close()

	viper.Set("url", server.URL)
	viper.Set("token", "test-token")

	runCLI(t, "jobs", "create", "--title", "Roof repair", "--date", "2025-06-09",
		"--appointment", "tech-a,08:00,12:00",
		"--appointment", "tech-b, 10:00, 12:00")

	if len(captured.Appointments) != 2 {
		t.Fatalf("expected 2 appointments, got %d", len(captured.Appointments))
	}
	if captured.Appointments[1].TechnicianID != "tech-b" || captured.Appointments[1].StartTime != "10:00" {
		t.Errorf("unexpected second appointment: %+v", captured.Appointments[1])
	}
}

func TestJobsCreate_Unassigned(t *testing.T) {
	resetViper()

	var raw map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&raw)
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(api.JobResponse{ID: "job-123", Number: "JOB-1"})
	}))
	defer server.Close()

	viper.Set("url", server.URL)
	viper.Set("token", "test-token")

	runCLI(t, "jobs", "create", "--title", "Leak", "--date", "2025-06-09")

	if _, ok := raw["appointments"]; ok {
		t.Errorf("expected no appointments in body, got %v", raw["appointments"])
	}
}

func TestJobsCreate_InvalidAppointments(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "malformed appointment",
			args: []string{"--appointment", "tech-a,08:00"},
			want: "expected TECH_ID,START,END",
		},
		{
			name: "tech without times",
			args: []string{"--tech", "tech-a", "--start", "08:00"},
			want: "--start and --end are required",
		},
		{
			name: "both forms",
			args: []string{"--tech", "tech-a", "--start", "08:00", "--end", "09:00", "--appointment", "tech-b,08:00,09:00"},
			want: "either --appointment or --tech",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetViper()
			viper.Set("token", "test-token")

			args := append([]string{"jobs", "create", "--title", "Leak", "--date", "2025-06-09"}, tt.args...)
			output := runCLI(t, args...)

			if !strings.Contains(output, tt.want) {
				t.Errorf("expected %q, got: %s", tt.want, output)
			}
		})
	}
}

func TestJobsList_Table(t *testing.T) {
	resetViper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("date"); got != "2025-06-09" {
			t.Errorf("expected date=2025-06-09, got %q", got)
		}
		json.NewEncoder(w).Encode(api.ListJobsResponse{Jobs: []api.JobResponse{
			{
				ID: "job-1", Number: "JOB-1", Title: "Boiler service", Status: "scheduled", Priority: "normal", Version: 2,
				Appointments: []api.Appointment{{TechnicianID: "11111111-aaaa", StartTime: "09:00", EndTime: "10:00"}},
			},
			{ID: "job-2", Number: "JOB-2", Title: "Leak", Status: "scheduled", Priority: "high", Appointments: []api.Appointment{}},
		}})
	}))
	defer server.Close()

	viper.Set("url", server.URL)
	viper.Set("token", "test-token")

	output := runCLI(t, "jobs", "list", "--date", "2025-06-09")

	for _, want := range []string{"NUMBER", "JOB-1", "11111111 09:00-10:00", "JOB-2", "unassigned"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output, got: %s", want, output)
		}
	}
}

func TestJobsGet_NotFound(t *testing.T) {
	resetViper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/jobs/missing" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(api.ErrorResponse{Error: "Job not found"})
	}))
	defer server.Close()

	viper.Set("url", server.URL)
	viper.Set("token", "test-token")

	output := runCLI(t, "jobs", "get", "missing")

	if !strings.Contains(output, "Error (404): Job not found") {
		t.Errorf("expected not found error, got: %s", output)
	}
}

func TestJobsGet_PrintsAppointments(t *testing.T) {
	resetViper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(api.JobResponse{
			ID: "job-1", Number: "JOB-1", Title: "Boiler service", Date: "2025-06-09",
			Status: "scheduled", Priority: "normal", Version: 5,
			Appointments: []api.Appointment{{TechnicianID: "tech-1", StartTime: "09:00", EndTime: "10:00"}},
		})
	}))
	defer server.Close()

	viper.Set("url", server.URL)
	viper.Set("token", "test-token")

	output := runCLI(t, "jobs", "get", "job-1")

	for _, want := range []string{"JOB-1", "Boiler service", "tech-1  09:00-10:00", "5"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output, got: %s", want, output)
		}
	}
}
