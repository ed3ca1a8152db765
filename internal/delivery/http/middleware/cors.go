package middleware

import (
	"net/http"
	"strings"
)

var corsPreflightHeaders = map[string]string{
	"Access-Control-Allow-Methods": "GET, POST, PUT, DELETE, OPTIONS",
	"Access-Control-Allow-Headers": "Authorization, Content-Type, Accept",
	"Access-Control-Max-Age":       "86400",
}

// CORS lets the admin frontend call the API with its auth cookie. Only origins in
// allowedOrigins are echoed back; OPTIONS preflights always end here with 204.
func CORS(allowedOrigins []string, next http.Handler) http.Handler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		if o = strings.TrimSuffix(strings.TrimSpace(o), "/"); o != "" {
			allowed[o] = true
		}
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		w.Header().Add("Vary", "Origin")
		if allowed[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
		}

		if r.Method != http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}
		if allowed[origin] {
			for k, v := range corsPreflightHeaders {
				w.Header().Set(k, v)
			}
		}
		w.WriteHeader(http.StatusNoContent)
	})
}
