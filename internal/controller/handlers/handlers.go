// Package handlers contains HTTP handlers for the controller API.
package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"dispatchboard/internal/controller/middleware"
	"dispatchboard/internal/logger"
	"dispatchboard/internal/observability"
	"dispatchboard/internal/store"
	"dispatchboard/pkg/api"

	"github.com/google/uuid"
)

// StoreFactory combines the interfaces needed for the controller to function.
type StoreFactory interface {
	BeginTx(ctx context.Context) (store.Tx, error)
	Ping(ctx context.Context) error
	store.TenantStore
	store.TechnicianStore
	store.ShiftStore
	store.JobStore
}

// Handlers holds all HTTP handlers and their dependencies.
type Handlers struct {
	store     StoreFactory
	validator *requestValidator
	metrics   *observability.DispatchMetrics
	logger    *slog.Logger

	defaultRateLimit      int
	defaultRateLimitBurst int
}

// Option configures Handlers.
type Option func(*Handlers)

// WithLogger sets the base logger; request ids are attached per request.
func WithLogger(l *slog.Logger) Option {
	return func(h *Handlers) { h.logger = l }
}

// WithMetrics records placement and creation counters.
func WithMetrics(m *observability.DispatchMetrics) Option {
	return func(h *Handlers) { h.metrics = m }
}

// WithTenantDefaults sets the rate limit given to tenants created without one.
func WithTenantDefaults(rateLimit, burst int) Option {
	return func(h *Handlers) {
		h.defaultRateLimit = rateLimit
		h.defaultRateLimitBurst = burst
	}
}

// New creates a new Handlers instance with the given store dependency.
func New(s StoreFactory, opts ...Option) *Handlers {
	h := &Handlers{
		store:                 s,
		validator:             newRequestValidator(),
		logger:                slog.Default(),
		defaultRateLimit:      20,
		defaultRateLimitBurst: 40,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Handlers) log(ctx context.Context) *slog.Logger {
	return logger.FromContext(ctx, h.logger)
}

// A helper function to write standard JSON responses.
func (h *Handlers) respondJson(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		json.NewEncoder(w).Encode(payload)
	}
}

// A helper function to return consistent error messages.
func (h *Handlers) httpError(w http.ResponseWriter, message string, code int) {
	h.respondJson(w, code, api.ErrorResponse{
		Error: message,
		Code:  strconv.Itoa(code),
	})
}

// decode reads a JSON body into req and validates it.
// It writes the error response itself and reports whether the handler may continue.
func (h *Handlers) decode(w http.ResponseWriter, r *http.Request, req any) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		h.httpError(w, "Invalid request body", http.StatusBadRequest)
		return false
	}
	if details, ok := h.validator.Struct(req); !ok {
		h.respondJson(w, http.StatusBadRequest, api.ErrorResponse{
			Error:   "Validation failed",
			Code:    api.CodeValidation,
			Details: details,
		})
		return false
	}
	return true
}

func (h *Handlers) tenantID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, ok := middleware.TenantIDFromContext(r.Context())
	if !ok {
		h.httpError(w, "Unauthorized", http.StatusUnauthorized)
	}
	return id, ok
}

// dateParam reads the required ?date=YYYY-MM-DD query parameter.
func (h *Handlers) dateParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	date := r.URL.Query().Get("date")
	if details, ok := h.validator.Var(date, "required,date"); !ok {
		h.respondJson(w, http.StatusBadRequest, api.ErrorResponse{
			Error:   "Invalid date",
			Code:    api.CodeValidation,
			Details: "date " + details,
		})
		return "", false
	}
	return date, true
}
