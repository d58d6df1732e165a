// Package server decides which browser pages may open a room connection.
package server

import (
	"log"
	"net/http"
	"net/url"
	"strings"
)

// normalizeOrigins canonicalizes the configured origins. A "*" entry is
// reported through allowAll instead of being kept in the list; blank and
// unparsable entries are dropped.
func normalizeOrigins(origins []string) (canonical []string, allowAll bool) {
	for _, raw := range origins {
		entry := strings.TrimSpace(raw)
		switch {
		case entry == "":
		case entry == "*":
			allowAll = true
		default:
			origin, ok := normalizeOrigin(entry)
			if !ok {
				log.Printf("Skipping allowed origin %q: want http(s)://host[:port]", raw)
				continue
			}
			canonical = append(canonical, origin)
		}
	}
	return canonical, allowAll
}

// normalizeOrigin reduces an origin to lower-cased scheme://host. Only http
// and https origins are accepted.
func normalizeOrigin(origin string) (string, bool) {
	u, err := url.Parse(origin)
	if err != nil || u.Host == "" {
		return "", false
	}
	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return "", false
	}
	return scheme + "://" + strings.ToLower(u.Host), true
}

// isOriginAllowed lets through requests without an Origin header, which
// browsers always send and non-browser clients usually omit. A header that
// is present but empty is refused.
func isOriginAllowed(r *http.Request) bool {
	values, present := r.Header["Origin"]
	if !present {
		return true
	}
	if len(values) == 0 {
		return false
	}
	origin, ok := normalizeOrigin(values[0])
	if !ok {
		return false
	}

	configMu.RLock()
	defer configMu.RUnlock()
	if allowAllOrigins {
		return true
	}
	_, ok = allowedOrigins[origin]
	return ok
}

// checkOrigin is the upgrader's CheckOrigin hook.
func checkOrigin(r *http.Request) bool {
	if isOriginAllowed(r) {
		return true
	}
	log.Printf("Refusing %s: origin %q is not allowed", r.URL.Path, r.Header.Get("Origin"))
	return false
}
