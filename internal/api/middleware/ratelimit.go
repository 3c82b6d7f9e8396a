package middleware

import (
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/aaravmahajanofficial/product-catalog-service/internal/config"
	"github.com/aaravmahajanofficial/product-catalog-service/internal/errors"
	repository "github.com/aaravmahajanofficial/product-catalog-service/internal/repositories"
	"github.com/aaravmahajanofficial/product-catalog-service/internal/utils/response"
	"golang.org/x/time/rate"
)

// RateLimiter limits mutating requests per client. With a Redis repository the
// window is shared by every instance; the in-process token bucket is used when
// Redis is disabled or failing.
type RateLimiter struct {
	repo  repository.RateLimitRepository
	local *rate.Limiter
	cfg   *config.RateConfig
}

func NewRateLimiter(repo repository.RateLimitRepository, cfg *config.RateConfig) *RateLimiter {
	return &RateLimiter{
		repo:  repo,
		local: rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst),
		cfg:   cfg,
	}
}

func (l *RateLimiter) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		logger := LoggerFromContext(r.Context())
		client := clientIP(r)

		allowed, remaining, retryAfter := l.check(r, client)

		if !allowed {
			logger.Warn("Rate limit exceeded", slog.String("client", client), slog.Int("retryAfter", retryAfter))
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			response.Error(w, errors.TooManyRequestsError("Rate limit exceeded, try again later"))
			return
		}

		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))

		next.ServeHTTP(w, r)
	})
}

func (l *RateLimiter) check(r *http.Request, client string) (bool, int, int) {
	if l.repo != nil {
		allowed, remaining, retryAfter, err := l.repo.CheckRateLimit(r.Context(), client)
		if err == nil {
			return allowed, remaining, retryAfter
		}

		// A denial with a retry hint was decided by the shared window.
		if !allowed && retryAfter > 0 {
			return false, 0, retryAfter
		}

		LoggerFromContext(r.Context()).Warn("Shared rate limiter unavailable, using local limiter", slog.Any("error", err))
	}

	if !l.local.Allow() {
		return false, 0, 1
	}

	return true, int(math.Floor(l.local.Tokens())), 0
}

// clientIP prefers the first X-Forwarded-For hop over the socket address.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		return strings.TrimSpace(first)
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}

	return host
}
