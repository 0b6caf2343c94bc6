package httpapi

import (
	"net/http"
	"net/netip"
	"strings"
)

// forwardedHeaders are consulted before the socket address, most specific first.
var forwardedHeaders = []string{"Fly-Client-IP", "X-Forwarded-For", "X-Real-IP"}

func clientIP(r *http.Request) string {
	for _, header := range forwardedHeaders {
		// Only the first hop of a comma separated chain is the client.
		first, _, _ := strings.Cut(r.Header.Get(header), ",")
		if addr, ok := parseAddr(first); ok {
			return addr.String()
		}
	}
	if addr, ok := parseAddr(r.RemoteAddr); ok {
		return addr.String()
	}
	return ""
}

func parseAddr(raw string) (netip.Addr, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return netip.Addr{}, false
	}
	if ap, err := netip.ParseAddrPort(raw); err == nil {
		return ap.Addr().Unmap(), true
	}
	addr, err := netip.ParseAddr(strings.Trim(raw, "[]"))
	if err != nil {
		return netip.Addr{}, false
	}
	return addr.Unmap(), true
}
