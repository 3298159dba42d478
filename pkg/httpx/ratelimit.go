package httpx

import (
	"math"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/aussiebroadwan/agentboard/pkg/slogx"
	"golang.org/x/time/rate"
)

// RateLimitConfig is a token-bucket profile.
type RateLimitConfig struct {
	// Name labels the profile in logs and metrics.
	Name string
	// RequestsPerWindow is the sustained number of requests per Window.
	RequestsPerWindow int
	Window            time.Duration
	// Burst is the bucket size.
	Burst int
}

// Profiles. Each can be overridden with RATELIMIT_{NAME}_REQUESTS,
// RATELIMIT_{NAME}_WINDOW_SEC and RATELIMIT_{NAME}_BURST.
var (
	// StrictLimit guards agent registration.
	StrictLimit = RateLimitConfig{Name: "strict", RequestsPerWindow: 10, Window: time.Minute, Burst: 10}

	// ModerateLimit covers authenticated API calls.
	ModerateLimit = RateLimitConfig{Name: "moderate", RequestsPerWindow: 120, Window: time.Minute, Burst: 60}

	// PublicLimit covers health checks, JWKS and docs.
	PublicLimit = RateLimitConfig{Name: "public", RequestsPerWindow: 1000, Window: time.Minute, Burst: 1000}
)

func init() {
	StrictLimit = ParseRateLimitFromEnv("STRICT", StrictLimit)
	ModerateLimit = ParseRateLimitFromEnv("MODERATE", ModerateLimit)
	PublicLimit = ParseRateLimitFromEnv("PUBLIC", PublicLimit)
}

// ParseRateLimitFromEnv overlays RATELIMIT_{prefix}_* variables onto def.
// Non-positive or unparsable values are ignored.
func ParseRateLimitFromEnv(prefix string, def RateLimitConfig) RateLimitConfig {
	config := def

	if n, ok := positiveEnvInt("RATELIMIT_" + prefix + "_REQUESTS"); ok {
		config.RequestsPerWindow = n
	}
	if n, ok := positiveEnvInt("RATELIMIT_" + prefix + "_WINDOW_SEC"); ok {
		config.Window = time.Duration(n) * time.Second
	}
	if n, ok := positiveEnvInt("RATELIMIT_" + prefix + "_BURST"); ok {
		config.Burst = n
	}

	return config
}

func positiveEnvInt(key string) (int, bool) {
	n, err := strconv.Atoi(os.Getenv(key))
	return n, err == nil && n > 0
}

// KeyExtractor groups requests into buckets. An empty key skips limiting.
type KeyExtractor func(*http.Request) string

// IPKeyExtractor returns the client IP, honoring X-Forwarded-For and X-Real-IP.
func IPKeyExtractor(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// PrincipalKeyExtractor returns "agent:<id>" or "operator:<sub>" for
// authenticated requests and "" otherwise.
func PrincipalKeyExtractor(r *http.Request) string {
	if p, ok := PrincipalFromContext(r.Context()); ok {
		return string(p.Kind) + ":" + p.Subject
	}
	return ""
}

// CompositeKeyExtractor joins the non-empty keys of extractors with sep.
func CompositeKeyExtractor(sep string, extractors ...KeyExtractor) KeyExtractor {
	return func(r *http.Request) string {
		var parts []string
		for _, extractor := range extractors {
			if key := extractor(r); key != "" {
				parts = append(parts, key)
			}
		}
		return strings.Join(parts, sep)
	}
}

// RejectFunc observes rejected requests, e.g. to count them.
type RejectFunc func(profile string, r *http.Request)

type rateLimiter struct {
	limiters sync.Map // map[string]*rate.Limiter
	rate     rate.Limit
	burst    int

	mu          sync.Mutex
	lastCleanup time.Time
}

func (rl *rateLimiter) getLimiter(key string) *rate.Limiter {
	if limiter, ok := rl.limiters.Load(key); ok {
		return limiter.(*rate.Limiter)
	}

	actual, _ := rl.limiters.LoadOrStore(key, rate.NewLimiter(rl.rate, rl.burst))
	rl.maybeCleanup()
	return actual.(*rate.Limiter)
}

// maybeCleanup drops buckets that have refilled, at most every 5 minutes. A
// full bucket is indistinguishable from a new one so nothing is lost.
func (rl *rateLimiter) maybeCleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if time.Since(rl.lastCleanup) < 5*time.Minute {
		return
	}
	rl.lastCleanup = time.Now()

	rl.limiters.Range(func(key, value any) bool {
		if value.(*rate.Limiter).Tokens() >= float64(rl.burst) {
			rl.limiters.Delete(key)
		}
		return true
	})
}

// RateLimitMiddleware limits requests per key with a token bucket. Rejections
// get a 429 RATE_LIMITED envelope and a Retry-After header. onReject may be nil.
func RateLimitMiddleware(config RateLimitConfig, keyExtractor KeyExtractor, onReject RejectFunc) Middleware {
	rl := &rateLimiter{
		rate:        rate.Limit(float64(config.RequestsPerWindow) / config.Window.Seconds()),
		burst:       config.Burst,
		lastCleanup: time.Now(),
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log := slogx.FromContext(r.Context())

			key := keyExtractor(r)
			if key == "" {
				log.Warn("rate limit: unable to extract key, allowing request", "profile", config.Name)
				next.ServeHTTP(w, r)
				return
			}

			limiter := rl.getLimiter(key)
			if limiter.Allow() {
				next.ServeHTTP(w, r)
				return
			}

			// Peek at when the next token lands without consuming it.
			reservation := limiter.Reserve()
			delay := reservation.Delay()
			reservation.Cancel()

			retryAfter := max(int(math.Ceil(delay.Seconds())), 1)

			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(config.RequestsPerWindow))
			w.Header().Set("X-RateLimit-Window", config.Window.String())

			log.Warn("rate limit exceeded",
				"profile", config.Name,
				"key", key,
				"retry_after", retryAfter,
			)
			if onReject != nil {
				onReject(config.Name, r)
			}

			WriteError(w, http.StatusTooManyRequests, CodeRateLimited,
				"Too many requests. Please try again later.",
				map[string]any{"retryAfterSeconds": retryAfter},
			)
		})
	}
}

// RateLimitByIP limits by client IP only.
func RateLimitByIP(config RateLimitConfig, onReject RejectFunc) Middleware {
	return RateLimitMiddleware(config, IPKeyExtractor, onReject)
}

// RateLimitByPrincipal limits by authenticated caller, falling back to IP.
// It must run after AuthnMiddleware.
func RateLimitByPrincipal(config RateLimitConfig, onReject RejectFunc) Middleware {
	return RateLimitMiddleware(config, func(r *http.Request) string {
		if key := PrincipalKeyExtractor(r); key != "" {
			return key
		}
		return IPKeyExtractor(r)
	}, onReject)
}
