package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/OsGift/focusflow-api/internal/models"
	"github.com/OsGift/focusflow-api/internal/services"
	"github.com/OsGift/focusflow-api/internal/utils"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	ContextKeyAuthContext ContextKey = "authContext"
)

// AuthMiddleware handles JWT authentication and sets user context
type AuthMiddleware struct {
	jwtSecret   []byte
	authService *services.AuthService
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(secret []byte, as *services.AuthService) *AuthMiddleware {
	return &AuthMiddleware{
		jwtSecret:   secret,
		authService: as,
	}
}

// JWTAuth verifies the Bearer token and populates AuthContext in the
// request context. Every protected route goes through it; all ownership
// scoping downstream derives from the user id set here.
func (m *AuthMiddleware) JWTAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			utils.RespondWithError(w, http.StatusUnauthorized, "Missing authorization header")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			utils.RespondWithError(w, http.StatusUnauthorized, "Invalid authorization header format")
			return
		}

		token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return m.jwtSecret, nil
		})
		if err != nil || !token.Valid {
			utils.RespondWithError(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			utils.RespondWithError(w, http.StatusUnauthorized, "Invalid token claims")
			return
		}

		userIDHex, ok := claims["user_id"].(string)
		if !ok {
			utils.RespondWithError(w, http.StatusUnauthorized, "User ID claim missing or invalid")
			return
		}
		userID, err := primitive.ObjectIDFromHex(userIDHex)
		if err != nil {
			utils.RespondWithError(w, http.StatusUnauthorized, "Invalid user ID format in token")
			return
		}

		user, err := m.authService.UserByID(r.Context(), userID)
		if err != nil {
			utils.RespondWithError(w, http.StatusUnauthorized, "User no longer exists")
			return
		}

		authContext := &models.AuthContext{UserID: user.ID, Email: user.Email}
		ctx := context.WithValue(r.Context(), ContextKeyAuthContext, authContext)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// GetAuthContext retrieves the AuthContext from the request's context
func GetAuthContext(r *http.Request) (*models.AuthContext, error) {
	val := r.Context().Value(ContextKeyAuthContext)
	authContext, ok := val.(*models.AuthContext)
	if !ok || authContext == nil {
		return nil, fmt.Errorf("authentication context not found or invalid in request")
	}
	return authContext, nil
}
