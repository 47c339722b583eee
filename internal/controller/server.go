// Package controller contains the controller-specific logic for the HTTP API.
package controller

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"dispatchboard/internal/controller/handlers"
	"dispatchboard/internal/controller/middleware"
)

// Options configures the controller server.
type Options struct {
	Addr string

	// SystemSecret guards POST /tenants. Empty disables provisioning.
	SystemSecret string

	// RequestTimeout bounds the context of each API request. Zero means no bound.
	RequestTimeout time.Duration

	// Metrics serves /metrics when set.
	Metrics http.Handler

	Logger   *slog.Logger
	Handlers []handlers.Option
}

// Server is the HTTP server for the controller API.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

// New creates a new controller server.
func New(store handlers.StoreFactory, opts Options) *Server {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	h := handlers.New(store, append([]handlers.Option{handlers.WithLogger(log)}, opts.Handlers...)...)
	authMW := middleware.AuthMiddleware(store)
	rateMW := middleware.NewRateLimiter().Middleware()
	tenantAPI := func(fn http.HandlerFunc) http.Handler {
		return authMW(rateMW(fn))
	}

	mux := http.NewServeMux()

	// Probes
	mux.HandleFunc("GET /healthz", h.Healthz)
	mux.HandleFunc("GET /readyz", h.Readyz)
	if opts.Metrics != nil {
		mux.Handle("GET /metrics", opts.Metrics)
	}

	// Operator endpoints
	mux.Handle("POST /tenants", middleware.RequireInternalAuth(opts.SystemSecret)(http.HandlerFunc(h.CreateTenant)))

	// Public authenticated apis
	mux.Handle("GET /technicians", tenantAPI(h.ListTechnicians))
	mux.Handle("POST /technicians", tenantAPI(h.CreateTechnician))
	mux.Handle("GET /shifts", tenantAPI(h.ListShifts))
	mux.Handle("POST /shifts", tenantAPI(h.CreateShifts))
	mux.Handle("GET /jobs", tenantAPI(h.ListJobs))
	mux.Handle("POST /jobs", tenantAPI(h.CreateJob))
	mux.Handle("GET /jobs/{id}", tenantAPI(h.GetJob))
	mux.Handle("PUT /jobs/{id}/placement", tenantAPI(h.UpdatePlacement))
	mux.Handle("GET /board", tenantAPI(h.GetBoard))

	var handler http.Handler = mux
	if opts.RequestTimeout > 0 {
		handler = withTimeout(handler, opts.RequestTimeout)
	}
	handler = middleware.RequestID(middleware.AccessLog(log)(handler))

	return &Server{
		httpServer: &http.Server{
			Addr:         opts.Addr,
			Handler:      handler,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10*time.Second + opts.RequestTimeout,
		},
		logger: log,
	}
}

// Handler returns the fully wrapped router.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Run starts the HTTP server. It blocks until the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	serverErr := make(chan error, 1)

	go func() {
		s.logger.Info("controller listening", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
		shutDownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		return s.Shutdown(shutDownCtx)
	}
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func withTimeout(next http.Handler, d time.Duration) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), d)
		defer cancel()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
