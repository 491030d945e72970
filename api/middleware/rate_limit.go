package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/greenmandi/greenmandi-backend/api/responses"
	"github.com/greenmandi/greenmandi-backend/pkg/errors"
	"github.com/greenmandi/greenmandi-backend/pkg/logger"
)

const throttleBodyLimit = 1 << 20

// Limiter is the fixed-window rate limit surface backed by Redis.
type Limiter interface {
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

// AuthThrottle rate-limits credential endpoints per client IP and, when
// the body carries an email field, per email. The email scope keeps one
// address from being hammered across a botnet of IPs.
func AuthThrottle(limiter Limiter, scope string, window time.Duration, ipLimit, emailLimit int, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			allowed, _, err := limiter.FixedWindowAllow(ctx,
				scope+":ip:"+clientIP(r), int64(ipLimit), window)
			if err != nil {
				// Fail open: throttling must not take auth down with it.
				logg.Warn(ctx, "rate limiter unavailable")
				next.ServeHTTP(w, r)
				return
			}
			if !allowed {
				tooMany(ctx, logg, w)
				return
			}

			if email := peekEmail(r); email != "" && emailLimit > 0 {
				allowed, _, err := limiter.FixedWindowAllow(ctx,
					scope+":email:"+email, int64(emailLimit), window)
				if err != nil {
					logg.Warn(ctx, "rate limiter unavailable")
				} else if !allowed {
					tooMany(ctx, logg, w)
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

func tooMany(ctx context.Context, logg *logger.Logger, w http.ResponseWriter) {
	responses.Error(ctx, logg, w,
		errors.New(errors.CodeRateLimit, "too many attempts, try again later"))
}

// peekEmail reads the email field out of the body and puts the bytes
// back for the handler.
func peekEmail(r *http.Request) string {
	if r.Body == nil {
		return ""
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, throttleBodyLimit))
	_ = r.Body.Close()
	r.Body = io.NopCloser(bytes.NewReader(body))
	if err != nil {
		return ""
	}

	var probe struct {
		Email string `json:"email"`
	}
	if json.Unmarshal(body, &probe) != nil {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(probe.Email))
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if first, _, ok := strings.Cut(fwd, ","); ok {
			return strings.TrimSpace(first)
		}
		return strings.TrimSpace(fwd)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
