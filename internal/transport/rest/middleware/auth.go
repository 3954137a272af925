package middleware

import (
	"context"
	"net/http"
	"strings"

	"callpulse/internal/service"
)

type contextKey string

const OpsIDKey contextKey = "opsId"

// AuthMiddleware provides JWT authentication for the ops read surface.
type AuthMiddleware struct {
	authSvc *service.AuthService
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(authSvc *service.AuthService) *AuthMiddleware {
	return &AuthMiddleware{authSvc: authSvc}
}

// RequireOps validates the ops JWT from the Authorization header, or a token
// query param for WebSocket upgrades.
func (m *AuthMiddleware) RequireOps(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractBearerToken(r)
		if token == "" {
			token = r.URL.Query().Get("token")
		}
		if token == "" {
			http.Error(w, `{"error":"missing authorization"}`, http.StatusUnauthorized)
			return
		}

		claims, err := m.authSvc.ValidateToken(token)
		if err != nil {
			http.Error(w, `{"error":"invalid or expired token"}`, http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), OpsIDKey, claims.OpsID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetOpsID extracts the ops identity from context
func GetOpsID(ctx context.Context) string {
	if v := ctx.Value(OpsIDKey); v != nil {
		return v.(string)
	}
	return ""
}

func extractBearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return ""
	}
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}
