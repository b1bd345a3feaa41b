// File: internal/middleware/auth.go
package middleware

import (
	"strings"

	"giventake_backend/internal/common"
	"giventake_backend/internal/shared"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// AuthorizationHeader is the header name for authorization token
	AuthorizationHeader = "Authorization"
	// AuthorizationTypeBearer is the prefix for Bearer tokens
	AuthorizationTypeBearer = "Bearer"
	// UserIDKey is the context key for storing the authenticated user's profile ID
	UserIDKey = "userID"
	// FirebaseUIDKey is the context key for storing the Firebase UID
	FirebaseUIDKey = "firebaseUID"
)

// AuthMiddleware creates a Gin middleware that verifies Firebase ID tokens
// and resolves the local profile, creating it on first sight.
func AuthMiddleware(verifier shared.TokenVerifier, profiles shared.Service, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader(AuthorizationHeader)
		if authHeader == "" {
			logger.Debug("Authorization header missing")
			common.RespondWithError(c, common.ErrUnauthorized.WithDetails("Authorization header is required."))
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || !strings.EqualFold(parts[0], AuthorizationTypeBearer) {
			logger.Debug("Authorization header format invalid", zap.String("header", authHeader))
			common.RespondWithError(c, common.ErrUnauthorized.WithDetails("Authorization header format must be 'Bearer <token>'."))
			return
		}

		token, err := verifier.VerifyIDToken(c.Request.Context(), parts[1])
		if err != nil {
			logger.Warn("Token verification failed", zap.Error(err))
			common.RespondWithError(c, common.ErrUnauthorized.WithDetails("The provided token is invalid or expired."))
			return
		}

		profile, wasCreated, err := profiles.GetOrCreateProfileFromFirebaseClaims(c.Request.Context(), token)
		if err != nil {
			logger.Error("Failed to resolve profile for authenticated user",
				zap.String("firebase_uid", token.UID),
				zap.Error(err),
			)
			common.RespondWithError(c, err)
			return
		}
		if wasCreated {
			logger.Info("Created profile on first authenticated request",
				zap.String("profile_id", profile.ID.String()),
				zap.String("firebase_uid", token.UID),
			)
		}

		c.Set(UserIDKey, profile.ID)
		c.Set(FirebaseUIDKey, token.UID)

		c.Next()
	}
}

// GetUserIDFromContext retrieves the authenticated profile ID from the Gin context.
// Returns uuid.Nil if not found or not a UUID.
func GetUserIDFromContext(c *gin.Context) uuid.UUID {
	val, exists := c.Get(UserIDKey)
	if !exists {
		return uuid.Nil
	}
	userID, ok := val.(uuid.UUID)
	if !ok {
		return uuid.Nil
	}
	return userID
}
