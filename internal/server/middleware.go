package server

import (
	"fmt"
	"net/http"

	"github.com/gabrielmiguelok/livesite/pkg/logging"
)

// hstsMaxAge is one year, in seconds.
const hstsMaxAge = "31536000"

// recoverer turns a handler panic into a 500 and logs it with the request
// logger.
func recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				logging.L(r.Context()).Error("handler panicked", logging.String("panic", fmt.Sprint(rec)))
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// secureHeaders sets the response headers every page and asset carries.
// HSTS is only sent when the request arrived over TLS.
func secureHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Frame-Options", "DENY")
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		h.Set("Permissions-Policy", "geolocation=(), microphone=(), camera=()")
		if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
			h.Set("Strict-Transport-Security", "max-age="+hstsMaxAge+"; includeSubDomains")
		}
		next.ServeHTTP(w, r)
	})
}
