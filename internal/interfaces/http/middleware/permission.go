package middleware

import (
	"github.com/gin-gonic/gin"

	"harvestcycle/internal/shared/authorization"
	"harvestcycle/internal/shared/constants"
	"harvestcycle/internal/shared/errors"
	"harvestcycle/internal/shared/logger"
)

// PolicyEnforcer answers capability checks.
type PolicyEnforcer interface {
	Enforce(subject string, resource string, action string) (bool, error)
}

type PermissionMiddleware struct {
	enforcer PolicyEnforcer
	logger   logger.Interface
}

func NewPermissionMiddleware(enforcer PolicyEnforcer, logger logger.Interface) *PermissionMiddleware {
	return &PermissionMiddleware{
		enforcer: enforcer,
		logger:   logger,
	}
}

// RequireAdmin checks the administrative capability and stores an
// authorization.AdminPrincipal on the context. The subject is checked first
// (explicit grants), then the role from the token.
func (m *PermissionMiddleware) RequireAdmin() gin.HandlerFunc {
	return m.RequirePermission(authorization.ResourceReplacementRequests, authorization.ActionManage)
}

func (m *PermissionMiddleware) RequirePermission(resource, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		subject := GetSubjectID(c)
		if subject == "" {
			abortWithError(c, errors.NewUnauthorizedError("user not authenticated"))
			return
		}

		allowed, err := m.allowed(subject, GetUserRole(c), resource, action)
		if err != nil {
			m.logger.Errorw("permission check failed", "error", err, "subject", subject, "resource", resource, "action", action)
			abortWithError(c, errors.NewInternalError("permission check failed"))
			return
		}

		if !allowed {
			m.logger.Warnw("permission denied", "subject", subject, "resource", resource, "action", action)
			abortWithError(c, errors.NewForbiddenError("insufficient permissions"))
			return
		}

		c.Set(constants.ContextKeyAdminPrincipal, authorization.NewAdminPrincipal(subject))
		c.Next()
	}
}

func (m *PermissionMiddleware) allowed(subject string, role authorization.UserRole, resource, action string) (bool, error) {
	ok, err := m.enforcer.Enforce(subject, resource, action)
	if err != nil || ok {
		return ok, err
	}
	return m.enforcer.Enforce(role.String(), resource, action)
}

// GetAdminPrincipal returns the principal granted by RequireAdmin. The zero
// value is returned when the check did not run.
func GetAdminPrincipal(c *gin.Context) authorization.AdminPrincipal {
	v, ok := c.Get(constants.ContextKeyAdminPrincipal)
	if !ok {
		return authorization.AdminPrincipal{}
	}
	principal, _ := v.(authorization.AdminPrincipal)
	return principal
}
