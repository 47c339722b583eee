package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"dispatchboard/internal/store"
	"dispatchboard/pkg/api"

	"github.com/google/uuid"
)

// DispatchClient is an HTTP client for the dispatchboard controller API.
type DispatchClient struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
}

// NewDispatchClient creates a new DispatchClient.
func NewDispatchClient(baseURL, token string) *DispatchClient {
	return &DispatchClient{
		BaseURL: baseURL,
		Token:   token,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// APIError represents an error response from the API.
type APIError struct {
	StatusCode   int
	Code         string
	Message      string
	OutsideShift []api.Appointment
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("API error (%d, %s): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("API error (%d): %s", e.StatusCode, e.Message)
}

func (c *DispatchClient) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.Token)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: string(raw)}
		var errResp api.ErrorResponse
		if json.Unmarshal(raw, &errResp) == nil && errResp.Error != "" {
			apiErr.Code = errResp.Code
			apiErr.Message = errResp.Error
			apiErr.OutsideShift = errResp.OutsideShift
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// CreateTechnician registers a technician.
func (c *DispatchClient) CreateTechnician(ctx context.Context, req api.CreateTechnicianRequest) (*api.TechnicianResponse, error) {
	var out api.TechnicianResponse
	if err := c.do(ctx, http.MethodPost, "/technicians", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListTechnicians lists technicians, optionally filtered by status.
func (c *DispatchClient) ListTechnicians(ctx context.Context, status string) (*api.ListTechniciansResponse, error) {
	path := "/technicians"
	if status != "" {
		path += "?status=" + url.QueryEscape(status)
	}
	var out api.ListTechniciansResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateShifts expands a recurring schedule into daily shifts.
func (c *DispatchClient) CreateShifts(ctx context.Context, req api.CreateShiftsRequest) (*api.ShiftsResponse, error) {
	var out api.ShiftsResponse
	if err := c.do(ctx, http.MethodPost, "/shifts", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListShifts returns the shifts of a date.
func (c *DispatchClient) ListShifts(ctx context.Context, date string) (*api.ShiftsResponse, error) {
	var out api.ShiftsResponse
	if err := c.do(ctx, http.MethodGet, "/shifts?date="+url.QueryEscape(date), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateJob books a job.
func (c *DispatchClient) CreateJob(ctx context.Context, req api.CreateJobRequest) (*api.JobResponse, error) {
	var out api.JobResponse
	if err := c.do(ctx, http.MethodPost, "/jobs", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListJobs returns the jobs of a date.
func (c *DispatchClient) ListJobs(ctx context.Context, date string) (*api.ListJobsResponse, error) {
	var out api.ListJobsResponse
	if err := c.do(ctx, http.MethodGet, "/jobs?date="+url.QueryEscape(date), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetJob fetches a single job.
func (c *DispatchClient) GetJob(ctx context.Context, jobID string) (*api.JobResponse, error) {
	var out api.JobResponse
	if err := c.do(ctx, http.MethodGet, "/jobs/"+url.PathEscape(jobID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdatePlacement moves or resizes a job's appointments.
func (c *DispatchClient) UpdatePlacement(ctx context.Context, jobID string, req api.PlacementRequest) (*api.JobResponse, error) {
	var out api.JobResponse
	if err := c.do(ctx, http.MethodPut, "/jobs/"+url.PathEscape(jobID)+"/placement", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetBoard returns the server-side layout of a date.
func (c *DispatchClient) GetBoard(ctx context.Context, date string) (*api.BoardResponse, error) {
	var out api.BoardResponse
	if err := c.do(ctx, http.MethodGet, "/board?date="+url.QueryEscape(date), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// boardFeed adapts the client to the interactive board: it reads the three
// feeds as domain models and writes placements back.
type boardFeed struct {
	client *DispatchClient
}

func (f boardFeed) Technicians(ctx context.Context) ([]store.Technician, error) {
	resp, err := f.client.ListTechnicians(ctx, string(store.TechnicianStatusActive))
	if err != nil {
		return nil, err
	}
	techs := make([]store.Technician, 0, len(resp.Technicians))
	for _, t := range resp.Technicians {
		id, err := uuid.Parse(t.ID)
		if err != nil {
			return nil, fmt.Errorf("technician %q: %w", t.ID, err)
		}
		techs = append(techs, store.Technician{
			ID:           id,
			Name:         t.Name,
			Status:       store.TechnicianStatus(t.Status),
			Color:        t.Color,
			Role:         t.Role,
			BusinessUnit: t.BusinessUnit,
			CreatedAt:    t.CreatedAt,
		})
	}
	return techs, nil
}

func (f boardFeed) Shifts(ctx context.Context, date string) ([]store.Shift, error) {
	resp, err := f.client.ListShifts(ctx, date)
	if err != nil {
		return nil, err
	}
	shifts := make([]store.Shift, 0, len(resp.Shifts))
	for _, s := range resp.Shifts {
		id, err := uuid.Parse(s.ID)
		if err != nil {
			return nil, fmt.Errorf("shift %q: %w", s.ID, err)
		}
		staff, err := uuid.Parse(s.StaffID)
		if err != nil {
			return nil, fmt.Errorf("shift %q staff: %w", s.ID, err)
		}
		shifts = append(shifts, store.Shift{
			ID:        id,
			StaffID:   staff,
			Date:      s.Date,
			StartTime: s.StartTime,
			EndTime:   s.EndTime,
			Type:      store.ShiftType(s.Type),
		})
	}
	return shifts, nil
}

func (f boardFeed) Jobs(ctx context.Context, date string) ([]store.Job, error) {
	resp, err := f.client.ListJobs(ctx, date)
	if err != nil {
		return nil, err
	}
	jobs := make([]store.Job, 0, len(resp.Jobs))
	for _, j := range resp.Jobs {
		job, err := jobFromResponse(j)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}

// UpdatePlacement writes a placement the board has already gated on the shift
// window, so the server-side gate is skipped.
func (f boardFeed) UpdatePlacement(ctx context.Context, update store.PlacementUpdate) (int64, error) {
	req := api.PlacementRequest{
		Status:       string(update.Status),
		Version:      update.ExpectedVersion,
		AssignAnyway: true,
	}
	for _, a := range update.Appointments {
		req.Appointments = append(req.Appointments, api.Appointment{
			TechnicianID: a.TechnicianID.String(),
			StartTime:    a.StartTime,
			EndTime:      a.EndTime,
		})
	}

	resp, err := f.client.UpdatePlacement(ctx, update.JobID.String(), req)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			switch {
			case apiErr.Code == api.CodeVersionConflict:
				return 0, fmt.Errorf("%w: %s", store.ErrVersionConflict, apiErr.Message)
			case apiErr.StatusCode == http.StatusNotFound:
				return 0, fmt.Errorf("%w: %s", store.ErrNotFound, apiErr.Message)
			}
		}
		return 0, err
	}
	return resp.Version, nil
}

func jobFromResponse(j api.JobResponse) (store.Job, error) {
	id, err := uuid.Parse(j.ID)
	if err != nil {
		return store.Job{}, fmt.Errorf("job %q: %w", j.ID, err)
	}
	job := store.Job{
		ID:        id,
		Number:    j.Number,
		Title:     j.Title,
		Date:      j.Date,
		Status:    store.JobStatus(j.Status),
		Priority:  store.JobPriority(j.Priority),
		StartTime: j.StartTime,
		EndTime:   j.EndTime,
		Version:   j.Version,
		CreatedAt: j.CreatedAt,
		UpdatedAt: j.UpdatedAt,
	}
	if j.TechnicianID != nil {
		tech, err := uuid.Parse(*j.TechnicianID)
		if err != nil {
			return store.Job{}, fmt.Errorf("job %q technician: %w", j.ID, err)
		}
		job.TechnicianID = &tech
	}
	for _, a := range j.Appointments {
		tech, err := uuid.Parse(a.TechnicianID)
		if err != nil {
			return store.Job{}, fmt.Errorf("job %q appointment: %w", j.ID, err)
		}
		job.Appointments = append(job.Appointments, store.Appointment{
			TechnicianID: tech,
			StartTime:    a.StartTime,
			EndTime:      a.EndTime,
		})
	}
	return job, nil
}
