package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/anicoll/onvif-integration/pkg/hasher"
)

const tokenTTL = 24 * time.Hour

type tokenRequest struct {
	Password string `json:"password"`
}

type tokenResponse struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expires_at"`
}

// postAuthToken exchanges the configured API password for a signed bearer
// token.
func (s *server) postAuthToken(w http.ResponseWriter, r *http.Request) {
	if s.cfg.APIPasswordHash == "" || s.cfg.JWTSecret == "" {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("auth not configured"))
		return
	}

	req := tokenRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte("malformed request"))
		return
	}

	if !hasher.PasswordCorrect(req.Password, s.cfg.APIPasswordHash) {
		s.logger.Warn("rejected token request", zap.String("remote", r.RemoteAddr))
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte("invalid credentials"))
		return
	}

	expiry := time.Now().Add(tokenTTL)
	claims := jwt.RegisteredClaims{
		Subject:   "api",
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(expiry),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		handleError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(tokenResponse{
		Token:     signed,
		ExpiresAt: expiry.Format(time.RFC3339),
	})
}

func (s *server) validToken(raw string) bool {
	token, err := jwt.ParseWithClaims(raw, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil {
		return false
	}
	return token.Valid
}
