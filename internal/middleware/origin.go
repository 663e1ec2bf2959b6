// Package middleware provides HTTP middlewares for the coordinator bridge:
// origin checks, request ids and request logging.
package middleware

import (
	"net/http"
	"strings"
)

// AllowedOrigins restricts the bridge to the extension's own origins.
//
// A request carrying an Origin header that is not in origins is rejected
// with 403 before it reaches the router. Requests without Origin (the shell,
// curl) pass. An empty origins list admits any browser-extension origin
// (chrome-extension:// or moz-extension://) and no web page. Allowed origins
// get CORS headers, and preflight OPTIONS requests are answered with 204.
func AllowedOrigins(origins []string) func(http.Handler) http.Handler {
	anyExtension := len(origins) == 0
	allowed := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		allowed[strings.TrimRight(strings.TrimSpace(o), "/")] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin != "" {
				if _, ok := allowed[origin]; !ok && !(anyExtension && isExtensionOrigin(origin)) {
					http.Error(w, "origin not allowed", http.StatusForbidden)
					return
				}
				h := w.Header()
				h.Set("Access-Control-Allow-Origin", origin)
				h.Set("Access-Control-Allow-Headers", "Content-Type")
				h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
				h.Add("Vary", "Origin")
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

var extensionSchemes = []string{"chrome-extension://", "moz-extension://"}

func isExtensionOrigin(origin string) bool {
	for _, scheme := range extensionSchemes {
		if strings.HasPrefix(origin, scheme) && len(origin) > len(scheme) {
			return true
		}
	}
	return false
}
