package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v4"

	"github.com/sanjayy-s/asl-backend/utils"
)

type contextKey string

const userIDContextKey contextKey = "userID"

const jwtClaimUserID = "user_id"

// Authenticate verifies the Bearer token on every request and stores the
// authenticated user id in the request context. The token is the opaque
// credential issued at registration/login; nothing beyond the signed user
// id is trusted from it.
func Authenticate(jwtSecret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				unauthorized(w, "not authorized, no token")
				return
			}
			tokenString := strings.TrimPrefix(header, "Bearer ")

			token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
				}
				return jwtSecret, nil
			})
			if err != nil || !token.Valid {
				unauthorized(w, "not authorized, token failed")
				return
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				unauthorized(w, "not authorized, token failed")
				return
			}
			userID, err := userIDFromClaims(claims)
			if err != nil {
				unauthorized(w, "not authorized, token failed")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}

// WithUserID returns a context carrying the authenticated user id.
func WithUserID(ctx context.Context, userID int) context.Context {
	return context.WithValue(ctx, userIDContextKey, userID)
}

// GetUserIDFromContext returns the authenticated user id placed in the
// context by Authenticate.
func GetUserIDFromContext(ctx context.Context) (int, error) {
	userID, ok := ctx.Value(userIDContextKey).(int)
	if !ok {
		return 0, errors.New("user id not found in context")
	}
	return userID, nil
}

func userIDFromClaims(claims jwt.MapClaims) (int, error) {
	raw, ok := claims[jwtClaimUserID]
	if !ok {
		return 0, fmt.Errorf("missing %q claim in token", jwtClaimUserID)
	}
	// encoding/json decodes JWT numbers as float64.
	idFloat, ok := raw.(float64)
	if !ok || idFloat != float64(int(idFloat)) {
		return 0, fmt.Errorf("invalid %q claim in token", jwtClaimUserID)
	}
	userID := int(idFloat)
	if userID <= 0 {
		return 0, fmt.Errorf("invalid user id in %q claim: %d", jwtClaimUserID, userID)
	}
	return userID, nil
}

func unauthorized(w http.ResponseWriter, message string) {
	utils.WriteJSONError(w, http.StatusUnauthorized, message)
}
