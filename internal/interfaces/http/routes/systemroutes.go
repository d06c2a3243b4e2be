package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"harvestcycle/internal/interfaces/http/handlers"
)

type SystemRouteConfig struct {
	HealthHandler  *handlers.HealthHandler
	CycleHandler   *handlers.CycleHandler
	MetricsHandler http.Handler
	EnableSwagger  bool
}

func SetupSystemRoutes(engine *gin.Engine, config *SystemRouteConfig) {
	engine.GET("/health", config.HealthHandler.HealthCheck)
	engine.GET("/cycle", config.CycleHandler.GetCycle)

	if config.MetricsHandler != nil {
		engine.GET("/metrics", gin.WrapH(config.MetricsHandler))
	}
	if config.EnableSwagger {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}
}
