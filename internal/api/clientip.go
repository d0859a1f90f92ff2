package api

import (
	"net"
	"net/http"
	"strings"
)

const fallbackClientIP = "127.0.0.1"

// clientIP picks the caller's address. Proxy headers are only consulted when
// trustProxy is set; the deployment must then sit behind a proxy that overwrites them.
func clientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		if v := r.Header.Get("X-Forwarded-For"); v != "" {
			first, _, _ := strings.Cut(v, ",")
			if ip := strings.TrimSpace(first); ip != "" {
				return ip
			}
		}
		if v := strings.TrimSpace(r.Header.Get("X-Real-IP")); v != "" {
			return v
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil || host == "" {
		return fallbackClientIP
	}
	return host
}
