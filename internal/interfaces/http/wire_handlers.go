package http

import (
	"fmt"

	"harvestcycle/internal/interfaces/http/handlers"
	replacementhandlers "harvestcycle/internal/interfaces/http/handlers/replacement"
)

type allHandlers struct {
	replacementHandler *replacementhandlers.Handler
	cycleHandler       *handlers.CycleHandler
	healthHandler      *handlers.HealthHandler
}

func (c *Container) newHandlers() (*allHandlers, error) {
	sqlDB, err := c.db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	return &allHandlers{
		replacementHandler: replacementhandlers.NewHandler(
			c.ucs.createRequestUC,
			c.ucs.listMyUC,
			c.ucs.listRequestsUC,
			c.ucs.updateRequestUC,
			c.ucs.applyRequestUC,
			c.log.Named("handler.replacement"),
		),
		cycleHandler:  handlers.NewCycleHandler(c.ucs.getCycleUC),
		healthHandler: handlers.NewHealthHandler(sqlDB, c.log.Named("handler.health")),
	}, nil
}
