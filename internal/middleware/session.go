package middleware

import (
	"fmt"
	"net/http"

	"foodeck-backend/internal/session"

	"github.com/golang-jwt/jwt/v5"
)

// SessionCookie carries the signed admin session token.
const SessionCookie = "admin_session"

// AdminAuth guards admin-only routes. The cookie must hold a JWT with a
// valid signature and an unexpired "sid" claim that is still registered
// in the session store, so logout actually revokes access.
func AdminAuth(jwtSecret string, sessions session.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookie)
			if err != nil || cookie.Value == "" {
				unauthorized(w)
				return
			}

			sid, err := SessionID(cookie.Value, jwtSecret)
			if err != nil || !sessions.Valid(sid) {
				unauthorized(w)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// SessionID extracts the session id from a signed session token.
func SessionID(tokenString, jwtSecret string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return "", fmt.Errorf("invalid session token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("invalid session claims")
	}
	sid, _ := claims["sid"].(string)
	if sid == "" {
		return "", fmt.Errorf("missing session id claim")
	}
	return sid, nil
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"error":"authentication required"}`))
}
