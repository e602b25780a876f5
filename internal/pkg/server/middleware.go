package server

import (
	"net/http"
	"strings"

	"go.uber.org/zap"
)

func LoggingMiddleware(next http.Handler) http.Handler {
	logger := zap.L()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Info(r.RequestURI, zap.String("method", r.Method), zap.String("remote", r.RemoteAddr))
		next.ServeHTTP(w, r)
	})
}

// authMiddleware requires a valid bearer token when auth is configured;
// deployments without a JWT secret run open (LAN-only installs).
func (s *server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.cfg.JWTSecret == "" {
			next.ServeHTTP(w, r)
			return
		}

		raw := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if raw == "" {
			// Websocket clients cannot set headers from a browser.
			raw = r.URL.Query().Get("token")
		}
		if raw == "" || !s.validToken(raw) {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte("unauthorized"))
			return
		}
		next.ServeHTTP(w, r)
	})
}
