package handlers

import (
	"net/http"
	"strings"
	"time"

	"dispatchboard/internal/auth"
	"dispatchboard/internal/store"
	"dispatchboard/pkg/api"

	"github.com/google/uuid"
)

// CreateTenant handles POST /tenants (operator only).
// It generates a new API key, stores its hash, and returns the raw key once.
func (h *Handlers) CreateTenant(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.CreateTenantRequest
	if !h.decode(w, r, &req) {
		return
	}

	apiKey, err := auth.GenerateKey()
	if err != nil {
		h.httpError(w, "Entropy failure", http.StatusInternalServerError)
		return
	}

	tenant := &store.Tenant{
		ID:             uuid.New(),
		Name:           strings.TrimSpace(req.Name),
		RateLimit:      req.RateLimit,
		RateLimitBurst: req.RateLimitBurst,
		CreatedAt:      time.Now().UTC(),
	}
	if tenant.RateLimit == 0 {
		tenant.RateLimit = h.defaultRateLimit
	}
	if tenant.RateLimitBurst < tenant.RateLimit {
		tenant.RateLimitBurst = max(h.defaultRateLimitBurst, tenant.RateLimit)
	}

	if err := h.store.CreateTenant(ctx, tenant, auth.HashKey(apiKey)); err != nil {
		h.log(ctx).Error("failed to create tenant", "error", err)
		h.httpError(w, "Failed to create tenant", http.StatusInternalServerError)
		return
	}

	h.log(ctx).Info("tenant created", "tenant_id", tenant.ID)

	// Return the raw key. This is the only time the caller sees it.
	h.respondJson(w, http.StatusCreated, api.CreateTenantResponse{
		ID:     tenant.ID.String(),
		Name:   tenant.Name,
		ApiKey: apiKey,
	})
}
