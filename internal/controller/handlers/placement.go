package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"dispatchboard/internal/dispatch"
	"dispatchboard/internal/observability"
	"dispatchboard/internal/shift"
	"dispatchboard/internal/store"
	"dispatchboard/pkg/api"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// UpdatePlacement handles PUT /jobs/{id}/placement.
//
// The request carries the full appointment list after a move or resize. Changed
// appointments that fall outside their technician's shift are refused with 409
// confirmation_required unless assign_anyway is set. A stale version is refused
// with 409 version_conflict. On success the job is returned with its new version.
func (h *Handlers) UpdatePlacement(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("dispatchboard/controller").Start(r.Context(), "controller.update_placement")
	defer span.End()

	tenantID, ok := h.tenantID(w, r)
	if !ok {
		return
	}

	jobID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		h.httpError(w, "Invalid Job ID", http.StatusBadRequest)
		return
	}
	span.SetAttributes(attribute.String("job.id", jobID.String()))

	var req api.PlacementRequest
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

	current, err := h.store.GetJobByID(ctx, tenantID, jobID)
	if errors.Is(err, store.ErrNotFound) {
		h.httpError(w, "Job not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.log(ctx).Error("failed to get job", "job_id", jobID, "error", err)
		h.httpError(w, "Internal database error", http.StatusInternalServerError)
		return
	}
	if current.Version != req.Version {
		h.versionConflict(w, r, current.Version)
		return
	}

	proposed := current.WithAppointments(appts)
	if req.Status != "" {
		proposed.Status = store.JobStatus(req.Status)
	}

	if !req.AssignAnyway {
		shifts, err := h.store.ListShiftsByDate(ctx, tenantID, current.Date)
		if err != nil {
			h.log(ctx).Error("failed to list shifts", "date", current.Date, "error", err)
			h.httpError(w, "Internal database error", http.StatusInternalServerError)
			return
		}
		if outside := dispatch.OutsideShift(shift.NewIndex(shifts), *current, proposed); len(outside) > 0 {
			h.metrics.Placement(ctx, observability.OutcomeConfirmationRequired)
			h.respondJson(w, http.StatusConflict, api.ErrorResponse{
				Error:        "Technician is not scheduled to work at this time",
				Code:         api.CodeConfirmationRequired,
				OutsideShift: toAPIAppointments(outside),
			})
			return
		}
	}

	version, err := h.store.UpdatePlacement(ctx, store.PlacementFor(proposed))
	switch {
	case errors.Is(err, store.ErrVersionConflict):
		h.versionConflict(w, r, 0)
		return
	case errors.Is(err, store.ErrNotFound):
		h.httpError(w, "Job not found", http.StatusNotFound)
		return
	case err != nil:
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		h.metrics.Placement(ctx, observability.OutcomeFailed)
		h.log(ctx).Error("failed to update placement", "job_id", jobID, "error", err)
		h.httpError(w, "Failed to update placement", http.StatusInternalServerError)
		return
	}

	proposed.Version = version
	h.metrics.Placement(ctx, observability.OutcomeCommitted)
	h.log(ctx).Info("placement committed",
		"job_id", jobID,
		"version", version,
		"assign_anyway", req.AssignAnyway,
	)

	h.respondJson(w, http.StatusOK, toJobResponse(proposed))
}

// versionConflict reports a stale write. current is the stored version when known.
func (h *Handlers) versionConflict(w http.ResponseWriter, r *http.Request, current int64) {
	h.metrics.Placement(r.Context(), observability.OutcomeConflict)
	resp := api.ErrorResponse{
		Error: store.ErrVersionConflict.Error(),
		Code:  api.CodeVersionConflict,
	}
	if current > 0 {
		resp.Details = "current version is " + strconv.FormatInt(current, 10)
	}
	h.respondJson(w, http.StatusConflict, resp)
}
