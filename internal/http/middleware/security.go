package middleware

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// SecurityOptions tunes the optional parts of SecurityHeaders. EnableHSTS
// must only be set when traffic is HTTPS end to end, proxy hop included;
// the header is never emitted on plain-HTTP requests regardless. HSTSMaxAge
// defaults to 180 days when unset. NoStore marks responses uncacheable,
// which this API wants everywhere except the ETag'd listing. EnablePolicy
// adds browser feature policies, inert for non-browser clients.
type SecurityOptions struct {
	EnableHSTS   bool
	HSTSMaxAge   time.Duration
	NoStore      bool
	EnablePolicy bool
}

// SecurityHeaders attaches hardening headers to every response. The baseline
// set (nosniff, frame denial, no referrer) is unconditional; the rest follows
// SecurityOptions. No CSP here: this server only speaks JSON.
func SecurityHeaders(opt SecurityOptions) gin.HandlerFunc {
	maxAge := int(opt.HSTSMaxAge.Seconds())
	if maxAge <= 0 {
		maxAge = int((180 * 24 * time.Hour).Seconds())
	}
	hsts := fmt.Sprintf("max-age=%d; includeSubDomains; preload", maxAge)

	return func(c *gin.Context) {
		h := c.Writer.Header()

		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "no-referrer")

		if opt.EnablePolicy {
			h.Set("Permissions-Policy", "geolocation=(), microphone=(), camera=(), payment=()")
			h.Set("X-Permitted-Cross-Domain-Policies", "none")
		}

		if opt.NoStore {
			h.Set("Cache-Control", "no-store")
			h.Set("Pragma", "no-cache")
			h.Set("Expires", "0")
		}

		if opt.EnableHSTS && viaHTTPS(c.Request) {
			h.Set("Strict-Transport-Security", hsts)
		}

		// Let browser clients read the request id for support tickets.
		if rid := h.Get("X-Request-ID"); rid != "" {
			const expose = "Access-Control-Expose-Headers"
			switch cur := h.Get(expose); {
			case cur == "":
				h.Set(expose, "X-Request-ID")
			case !strings.Contains(cur, "X-Request-ID"):
				h.Set(expose, cur+", X-Request-ID")
			}
		}

		c.Next()
	}
}

// viaHTTPS is true for direct TLS connections and for proxied requests
// carrying X-Forwarded-Proto: https.
func viaHTTPS(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}
	return strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}
