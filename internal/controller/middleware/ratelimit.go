package middleware

import (
	"net/http"
	"sync"
	"time"

	"dispatchboard/internal/store"

	"golang.org/x/time/rate"
)

// RateLimiter keeps one token bucket per tenant. Buckets are rebuilt after the
// TTL so changed tenant limits take effect without a restart.
type RateLimiter struct {
	limiters sync.Map // tenantID -> *cachedLimiter
	ttl      time.Duration
	now      func() time.Time
}

// RateLimiterOption configures a RateLimiter.
type RateLimiterOption func(*RateLimiter)

// WithTTL sets how long a tenant's bucket is reused.
func WithTTL(ttl time.Duration) RateLimiterOption {
	return func(rl *RateLimiter) { rl.ttl = ttl }
}

// NewRateLimiter creates a limiter with a five minute TTL unless overridden.
func NewRateLimiter(opts ...RateLimiterOption) *RateLimiter {
	rl := &RateLimiter{ttl: 5 * time.Minute, now: time.Now}
	for _, opt := range opts {
		opt(rl)
	}
	return rl
}

// Middleware rejects requests over the tenant's rate with 429.
// It must run after AuthMiddleware.
func (rl *RateLimiter) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tenant, ok := TenantFromContext(r.Context())
			if !ok {
				writeError(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			// RateLimit=0 means unlimited
			if tenant.RateLimit > 0 && !rl.limiter(tenant).Allow() {
				w.Header().Set("Retry-After", "1")
				writeError(w, "Too Many Requests", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

type cachedLimiter struct {
	limiter   *rate.Limiter
	expiresAt time.Time
}

func (rl *RateLimiter) limiter(tenant *store.Tenant) *rate.Limiter {
	now := rl.now()
	if v, ok := rl.limiters.Load(tenant.ID); ok {
		cached := v.(*cachedLimiter)
		if now.Before(cached.expiresAt) {
			return cached.limiter
		}
	}

	burst := tenant.RateLimitBurst
	if burst < 1 {
		burst = 1
	}
	limiter := rate.NewLimiter(rate.Limit(tenant.RateLimit), burst)
	rl.limiters.Store(tenant.ID, &cachedLimiter{
		limiter:   limiter,
		expiresAt: now.Add(rl.ttl),
	})
	return limiter
}
