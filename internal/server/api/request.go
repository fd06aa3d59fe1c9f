package api

import (
	"net/http"
	"strings"
)

// userAgentFrom returns the device fingerprint string used to key refresh
// sessions. Clients without a User-Agent header share one "unknown" slot.
func userAgentFrom(r *http.Request) string {
	if ua := r.Header.Get("User-Agent"); ua != "" {
		return ua
	}
	return "unknown"
}

// clientIP extracts the caller's address, honoring the proxy headers set by
// load balancers (X-Forwarded-For holds a comma-separated chain, first hop
// is the client; X-Real-IP is set by nginx).
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if first, _, found := strings.Cut(xff, ","); found || first != "" {
			return strings.TrimSpace(first)
		}
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	ip := r.RemoteAddr
	if idx := strings.LastIndex(ip, ":"); idx != -1 {
		ip = ip[:idx]
	}
	return ip
}
