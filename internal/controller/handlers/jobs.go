package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"dispatchboard/internal/store"
	"dispatchboard/pkg/api"

	"github.com/google/uuid"
)

// newJobNumber returns a human readable job number, unique enough per tenant.
// The unique index on (tenant_id, number) catches the rare clash.
func newJobNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:4])
	return fmt.Sprintf("JOB-%d-%s", now.UnixMilli(), suffix)
}

// CreateJob handles POST /jobs.
// A job created without appointments is unassigned and shows up in the board's unassigned list.
func (h *Handlers) CreateJob(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	tenantID, ok := h.tenantID(w, r)
	if !ok {
		return
	}

	var req api.CreateJobRequest
	if !h.decode(w, r, &req) {
		return
	}

	appts, techs, err := fromAPIAppointments(req.Appointments)
	if err != nil {
		h.httpError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if !h.checkTechnicians(w, r, tenantID, techs, "appointments") {
		return
	}

	now := time.Now().UTC()
	job := store.Job{
		ID:        uuid.New(),
		TenantID:  tenantID,
		Number:    newJobNumber(now),
		Title:     strings.TrimSpace(req.Title),
		Date:      req.Date,
		Status:    store.JobStatus(req.Status),
		Priority:  store.JobPriority(req.Priority),
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if job.Status == "" {
		job.Status = store.JobStatusScheduled
	}
	if job.Priority == "" {
		job.Priority = store.JobPriorityNormal
	}
	if len(appts) > 0 {
		job = job.WithAppointments(appts)
	}

	tx, err := h.store.BeginTx(ctx)
	if err != nil {
		h.httpError(w, "Internal database error", http.StatusInternalServerError)
		return
	}
	defer tx.Rollback()

	if err := h.store.CreateJob(ctx, tx, &job); err != nil {
		h.log(ctx).Error("failed to create job", "error", err)
		h.httpError(w, "Failed to create job", http.StatusInternalServerError)
		return
	}

	if err := tx.Commit(); err != nil {
		h.httpError(w, "Failed to commit transaction", http.StatusInternalServerError)
		return
	}

	h.metrics.JobCreated(ctx)
	h.log(ctx).Info("job created", "job_id", job.ID, "number", job.Number)

	h.respondJson(w, http.StatusCreated, toJobResponse(job))
}

// GetJob handles GET /jobs/{id}.
func (h *Handlers) GetJob(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	tenantID, ok := h.tenantID(w, r)
	if !ok {
		return
	}

	jobID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		h.httpError(w, "Invalid Job ID", http.StatusBadRequest)
		return
	}

	job, err := h.store.GetJobByID(ctx, tenantID, jobID)
	if errors.Is(err, store.ErrNotFound) {
		h.httpError(w, "Job not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.log(ctx).Error("failed to get job", "job_id", jobID, "error", err)
		h.httpError(w, "Internal database error", http.StatusInternalServerError)
		return
	}

	h.respondJson(w, http.StatusOK, toJobResponse(*job))
}

// ListJobs handles GET /jobs?date=.
func (h *Handlers) ListJobs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	tenantID, ok := h.tenantID(w, r)
	if !ok {
		return
	}
	date, ok := h.dateParam(w, r)
	if !ok {
		return
	}

	jobs, err := h.store.ListJobsByDate(ctx, tenantID, date)
	if err != nil {
		h.log(ctx).Error("failed to list jobs", "error", err)
		h.httpError(w, "Failed to list jobs", http.StatusInternalServerError)
		return
	}

	resp := api.ListJobsResponse{Jobs: make([]api.JobResponse, 0, len(jobs))}
	for _, j := range jobs {
		resp.Jobs = append(resp.Jobs, toJobResponse(j))
	}
	h.respondJson(w, http.StatusOK, resp)
}

// checkTechnicians rejects technician ids that are not the tenant's.
// ids must be distinct; field names the request field they came from.
func (h *Handlers) checkTechnicians(w http.ResponseWriter, r *http.Request, tenantID uuid.UUID, ids []uuid.UUID, field string) bool {
	if len(ids) == 0 {
		return true
	}
	n, err := h.store.CountTechnicians(r.Context(), tenantID, ids)
	if err != nil {
		h.log(r.Context()).Error("failed to look up technicians", "error", err)
		h.httpError(w, "Internal database error", http.StatusInternalServerError)
		return false
	}
	if n != len(ids) {
		h.httpError(w, "Unknown technician in "+field, http.StatusBadRequest)
		return false
	}
	return true
}
