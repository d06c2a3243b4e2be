package routes

import (
	"github.com/gin-gonic/gin"

	replacementhandlers "harvestcycle/internal/interfaces/http/handlers/replacement"
	"harvestcycle/internal/interfaces/http/middleware"
)

type ReplacementRouteConfig struct {
	Handler              *replacementhandlers.Handler
	AuthMiddleware       *middleware.AuthMiddleware
	PermissionMiddleware *middleware.PermissionMiddleware
	// RateLimitMiddleware is optional.
	RateLimitMiddleware *middleware.RateLimitMiddleware
}

func SetupReplacementRoutes(engine *gin.Engine, config *ReplacementRouteConfig) {
	requests := engine.Group("/replacement-requests")
	requests.Use(config.AuthMiddleware.RequireAuth())
	if config.RateLimitMiddleware != nil {
		requests.Use(config.RateLimitMiddleware.LimitBySubject())
	}
	{
		requests.POST("", config.Handler.CreateRequest)
		requests.GET("/mine", config.Handler.ListMyRequests)
	}

	admin := engine.Group("/admin/replacement-requests")
	admin.Use(config.AuthMiddleware.RequireAuth(), config.PermissionMiddleware.RequireAdmin())
	{
		admin.GET("", config.Handler.AdminListRequests)
		// Action endpoints before the bare /:id route
		admin.POST("/:id/apply", config.Handler.AdminApplyRequest)
		admin.PATCH("/:id", config.Handler.AdminUpdateRequest)
	}
}
