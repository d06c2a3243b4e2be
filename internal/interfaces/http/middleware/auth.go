package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"harvestcycle/internal/infrastructure/auth"
	"harvestcycle/internal/shared/authorization"
	"harvestcycle/internal/shared/constants"
	"harvestcycle/internal/shared/errors"
	"harvestcycle/internal/shared/logger"
	"harvestcycle/internal/shared/utils"
)

// TokenVerifier resolves a bearer token to its claims.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

type AuthMiddleware struct {
	verifier TokenVerifier
	logger   logger.Interface
}

func NewAuthMiddleware(verifier TokenVerifier, logger logger.Interface) *AuthMiddleware {
	return &AuthMiddleware{
		verifier: verifier,
		logger:   logger,
	}
}

// RequireAuth rejects requests without a valid bearer token and stores the
// subject and role on the context.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader(constants.HeaderAuthorization)
		if authHeader == "" {
			abortWithError(c, errors.NewUnauthorizedError("missing authorization token"))
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			abortWithError(c, errors.NewUnauthorizedError("invalid authorization header format"))
			return
		}

		claims, err := m.verifier.Verify(parts[1])
		if err != nil {
			m.logger.Warnw("failed to verify token", "error", err)
			abortWithError(c, errors.NewUnauthorizedError("invalid or expired token"))
			return
		}

		c.Set(constants.ContextKeySubjectID, claims.Subject)
		c.Set(constants.ContextKeyUserRole, string(claims.Role))

		c.Next()
	}
}

// GetSubjectID returns the authenticated subject, or "" when absent.
func GetSubjectID(c *gin.Context) string {
	return c.GetString(constants.ContextKeySubjectID)
}

// GetUserRole returns the role carried by the token.
func GetUserRole(c *gin.Context) authorization.UserRole {
	return authorization.ParseUserRole(c.GetString(constants.ContextKeyUserRole))
}

func abortWithError(c *gin.Context, err error) {
	utils.ErrorResponseWithError(c, err)
	c.Abort()
}
