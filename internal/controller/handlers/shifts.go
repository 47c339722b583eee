package handlers

import (
	"errors"
	"net/http"
	"time"

	"dispatchboard/internal/shift"
	"dispatchboard/internal/store"
	"dispatchboard/pkg/api"

	"github.com/google/uuid"
)

// CreateShifts handles POST /shifts.
// The schedule is expanded into one shift per staff member and selected day and
// stored in a single transaction; one clash rejects the whole batch.
func (h *Handlers) CreateShifts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	tenantID, ok := h.tenantID(w, r)
	if !ok {
		return
	}

	var req api.CreateShiftsRequest
	if !h.decode(w, r, &req) {
		return
	}

	expand := shift.ExpandRequest{
		TenantID:  tenantID,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Type:      store.ShiftType(req.Type),
	}

	seen := make(map[uuid.UUID]bool, len(req.StaffIDs))
	for _, s := range req.StaffIDs {
		id := uuid.MustParse(s) // validated as uuid
		if !seen[id] {
			seen[id] = true
			expand.StaffIDs = append(expand.StaffIDs, id)
		}
	}
	for _, d := range req.Weekdays {
		day, _ := shift.ParseWeekday(d) // validated as weekday
		expand.Weekdays = append(expand.Weekdays, day)
	}

	shifts, err := shift.Expand(expand, time.Now().UTC())
	if err != nil {
		h.httpError(w, err.Error(), http.StatusBadRequest)
		return
	}

	if !h.checkTechnicians(w, r, tenantID, expand.StaffIDs, "staff_ids") {
		return
	}

	tx, err := h.store.BeginTx(ctx)
	if err != nil {
		h.httpError(w, "Internal database error", http.StatusInternalServerError)
		return
	}
	defer tx.Rollback()

	if err := h.store.CreateShifts(ctx, tx, shifts); err != nil {
		if errors.Is(err, store.ErrDuplicateShift) {
			h.httpError(w, err.Error(), http.StatusConflict)
			return
		}
		h.log(ctx).Error("failed to create shifts", "error", err)
		h.httpError(w, "Failed to create shifts", http.StatusInternalServerError)
		return
	}

	if err := tx.Commit(); err != nil {
		h.httpError(w, "Failed to commit transaction", http.StatusInternalServerError)
		return
	}

	h.metrics.ShiftsCreated(ctx, len(shifts))
	h.log(ctx).Info("shifts created", "count", len(shifts), "from", req.StartDate, "to", req.EndDate)

	h.respondJson(w, http.StatusCreated, toShiftsResponse(shifts))
}

// ListShifts handles GET /shifts?date=.
func (h *Handlers) ListShifts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	tenantID, ok := h.tenantID(w, r)
	if !ok {
		return
	}
	date, ok := h.dateParam(w, r)
	if !ok {
		return
	}

	shifts, err := h.store.ListShiftsByDate(ctx, tenantID, date)
	if err != nil {
		h.log(ctx).Error("failed to list shifts", "error", err)
		h.httpError(w, "Failed to list shifts", http.StatusInternalServerError)
		return
	}

	h.respondJson(w, http.StatusOK, toShiftsResponse(shifts))
}

func toShiftsResponse(shifts []store.Shift) api.ShiftsResponse {
	resp := api.ShiftsResponse{Shifts: make([]api.ShiftResponse, 0, len(shifts))}
	for _, s := range shifts {
		resp.Shifts = append(resp.Shifts, toShiftResponse(s))
	}
	return resp
}
