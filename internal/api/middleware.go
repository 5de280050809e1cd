// Driftmap - Privacy-Preserving Location Aggregation and Map Visualization
// Copyright 2026 M. Keller
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/driftmap/driftmap

package api

import (
	"math"
	"net/http"
	"strconv"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/driftmap/driftmap/internal/metrics"
	"github.com/driftmap/driftmap/internal/ratelimit"
)

// Admission applies the fixed-window rate limiter to every request and
// fires the security audit signals derived from the check result.
//
// Every response carries X-RateLimit-Limit/Remaining/Reset. A denied
// request is answered with 429 and Retry-After; the wrapped handler is
// never invoked for it. Audit logging is best-effort and never changes
// the response.
func (h *Handler) Admission(next http.Handler) http.Handler {
	if h.cfg.Security.RateLimitDisabled {
		return next
	}

	windowSeconds := int(h.cfg.Security.RateLimitWindow.Seconds())

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := ratelimit.ClientKey(r)
		res := h.limiter.Check(key)
		metrics.RecordRateLimitCheck(res.Allowed)

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(res.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(res.ResetAt.Unix(), 10))

		userAgent := r.UserAgent()
		requestID := chimiddleware.GetReqID(r.Context())

		if res.Suspicious {
			h.auditLog.LogSuspiciousPattern(key, userAgent, requestID,
				res.Count, windowSeconds, res.Limit)
		}
		if res.RepeatedViolator {
			h.auditLog.LogRepeatedViolator(key, userAgent, requestID,
				windowSeconds, res.Violations)
		}

		if !res.Allowed {
			h.auditLog.LogRateLimitExceeded(key, userAgent, requestID,
				res.Count, windowSeconds, res.Violations, res.RetryAfter)

			retryAfter := int(math.Ceil(res.RetryAfter.Seconds()))
			if retryAfter < 1 {
				retryAfter = 1
			}
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			respondError(w, http.StatusTooManyRequests, "Rate limit exceeded. Try again later.", nil)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// APISecurityHeaders adds security headers to API responses.
//
// Content-Security-Policy is omitted: it is designed for HTML, not JSON.
// HSTS is added only when the request arrived over TLS or through a
// TLS-terminating proxy.
func APISecurityHeaders() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("X-Frame-Options", "DENY")
			w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

			if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
				w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
			}

			next.ServeHTTP(w, r)
		})
	}
}
