package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/render"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/trailpost/campground-service/internal/campground/domain"
	"github.com/trailpost/campground-service/internal/platform/logger"
)

// principalKeyType is a private context key type to avoid collisions.
type principalKeyType string

const principalKey principalKeyType = "authenticatedPrincipal"

// Claims is the JWT claim set issued by the auth subsystem.
type Claims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	jwt.RegisteredClaims
}

// GetPrincipal extracts the authenticated principal from the context.
func GetPrincipal(ctx context.Context) (domain.Principal, bool) {
	principal, ok := ctx.Value(principalKey).(domain.Principal)
	return principal, ok
}

// RequireAuth validates the Bearer token and stores the resulting
// principal in the request context. The handlers then pass it to the core
// operations explicitly; no ambient identity beyond this middleware.
func RequireAuth(jwtSecret string, log *logger.Logger) func(http.Handler) http.Handler {
	authLog := log.Named("AuthMiddleware")
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, err := principalFromRequest(r, jwtSecret)
			if err != "" {
				authLog.Warn("Authentication failed", zap.String("reason", err), zap.String("path", r.URL.Path))
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, map[string]string{"error": err})
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), principalKey, principal)))
		})
	}
}

func principalFromRequest(r *http.Request, jwtSecret string) (domain.Principal, string) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return domain.Principal{}, "authorization token is not provided"
	}

	parts := strings.Fields(authHeader)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return domain.Principal{}, "authorization token format is invalid, expected 'Bearer <token>'"
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return domain.Principal{}, "token is invalid"
	}
	if claims.UserID == "" {
		return domain.Principal{}, "user_id not found in token claims"
	}

	return domain.Principal{
		ID:       claims.UserID,
		Username: claims.Username,
		Email:    claims.Email,
	}, ""
}
