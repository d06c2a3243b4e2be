package http

import (
	"harvestcycle/internal/interfaces/http/middleware"
	"harvestcycle/internal/interfaces/http/routes"

	_ "harvestcycle/docs"
)

// SetupRoutes configures all HTTP routes
func (c *Container) SetupRoutes() {
	c.engine.Use(middleware.RequestLogger(c.log.Named("http")))
	c.engine.Use(middleware.Recovery(c.log))
	c.engine.Use(middleware.CORS(c.cfg.Server.AllowedOrigins))
	c.engine.Use(middleware.SecurityHeaders())
	c.engine.Use(middleware.Metrics(c.metrics))

	routes.SetupSystemRoutes(c.engine, &routes.SystemRouteConfig{
		HealthHandler:  c.hdlrs.healthHandler,
		CycleHandler:   c.hdlrs.cycleHandler,
		MetricsHandler: c.metrics.Handler(),
		EnableSwagger:  c.cfg.Server.Mode != "release",
	})

	routes.SetupReplacementRoutes(c.engine, &routes.ReplacementRouteConfig{
		Handler:              c.hdlrs.replacementHandler,
		AuthMiddleware:       c.authMiddleware,
		PermissionMiddleware: c.permissionMiddleware,
		RateLimitMiddleware:  c.rateLimitMiddleware,
	})
}
