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

func TestShow_PrintsRowsAndUnassigned(t *testing.T) {
	resetViper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/board" || r.URL.Query().Get("date") != "2025-06-09" {
			t.Errorf("unexpected request: %s", r.URL.String())
		}
		json.NewEncoder(w).Encode(api.BoardResponse{
			Date: "2025-06-09",
			Rows: []api.BoardRow{
				{
					Technician: api.TechnicianResponse{ID: "tech-1", Name: "Ada"},
					Shift:      &api.ShiftResponse{StartTime: "08:00", EndTime: "17:00"},
					Levels:     2,
					Cards: []api.BoardCard{
						{JobID: "job-1", Number: "JOB-1", Title: "Boiler service", Status: "scheduled", StartTime: "09:00", EndTime: "11:00"},
						{JobID: "job-2", Number: "JOB-2", Title: "Inspection", Status: "scheduled", StartTime: "10:00", EndTime: "11:00", Level: 1},
					},
				},
				{Technician: api.TechnicianResponse{ID: "tech-2", Name: "Grace"}},
			},
			Unassigned: []api.JobResponse{{ID: "job-3", Number: "JOB-3", Title: "Leak", Priority: "high"}},
		})
	}))
	defer server.Close()

	viper.Set("url", server.URL)
	viper.Set("token", "test-token")

	output := runCLI(t, "show", "--date", "2025-06-09")

	for _, want := range []string{
		"Board for 2025-06-09",
		"Ada", "08:00-17:00", "JOB-1", "09:00-11:00",
		"JOB-2", "Grace", "off",
		"Unassigned", "JOB-3  Leak (high)",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output, got: %s", want, output)
		}
	}
}

func TestShow_ServerError(t *testing.T) {
	resetViper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("upstream unavailable"))
	}))
	defer server.Close()

	viper.Set("url", server.URL)
	viper.Set("token", "test-token")

	output := runCLI(t, "show", "--date", "2025-06-09")

	if !strings.Contains(output, "Error (500): upstream unavailable") {
		t.Errorf("expected raw body as error message, got: %s", output)
	}
}
