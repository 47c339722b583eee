package handlers

import (
	"net/http"
	"strings"
	"time"

	"dispatchboard/internal/store"
	"dispatchboard/pkg/api"

	"github.com/google/uuid"
)

// CreateTechnician handles POST /technicians.
func (h *Handlers) CreateTechnician(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	tenantID, ok := h.tenantID(w, r)
	if !ok {
		return
	}

	var req api.CreateTechnicianRequest
	if !h.decode(w, r, &req) {
		return
	}

	tech := &store.Technician{
		ID:           uuid.New(),
		TenantID:     tenantID,
		Name:         strings.TrimSpace(req.Name),
		Status:       store.TechnicianStatus(req.Status),
		Color:        req.Color,
		Role:         req.Role,
		BusinessUnit: req.BusinessUnit,
		CreatedAt:    time.Now().UTC(),
	}
	if tech.Status == "" {
		tech.Status = store.TechnicianStatusActive
	}

	if err := h.store.CreateTechnician(ctx, tech); err != nil {
		h.log(ctx).Error("failed to create technician", "error", err)
		h.httpError(w, "Failed to create technician", http.StatusInternalServerError)
		return
	}

	h.respondJson(w, http.StatusCreated, toTechnicianResponse(*tech))
}

// ListTechnicians handles GET /technicians?status=.
func (h *Handlers) ListTechnicians(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	tenantID, ok := h.tenantID(w, r)
	if !ok {
		return
	}

	status := r.URL.Query().Get("status")
	if details, ok := h.validator.Var(status, "omitempty,oneof=active inactive on_leave"); !ok {
		h.httpError(w, "Invalid status: status"+details, http.StatusBadRequest)
		return
	}

	techs, err := h.store.ListTechnicians(ctx, tenantID, store.TechnicianStatus(status))
	if err != nil {
		h.log(ctx).Error("failed to list technicians", "error", err)
		h.httpError(w, "Failed to list technicians", http.StatusInternalServerError)
		return
	}

	resp := api.ListTechniciansResponse{Technicians: make([]api.TechnicianResponse, 0, len(techs))}
	for _, t := range techs {
		resp.Technicians = append(resp.Technicians, toTechnicianResponse(t))
	}
	h.respondJson(w, http.StatusOK, resp)
}
