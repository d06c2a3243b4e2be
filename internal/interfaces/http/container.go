package http

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"harvestcycle/internal/domain/cycle"
	"harvestcycle/internal/domain/shared/events"
	"harvestcycle/internal/infrastructure/config"
	"harvestcycle/internal/infrastructure/metrics"
	"harvestcycle/internal/infrastructure/permission"
	"harvestcycle/internal/interfaces/http/middleware"
	"harvestcycle/internal/shared/logger"
)

// Container holds all infrastructure components, repositories, use cases and
// handlers. It wires everything together and owns Start/Shutdown of the
// background pieces.
type Container struct {
	// Core infrastructure
	engine *gin.Engine
	db     *gorm.DB
	cfg    *config.Config
	log    logger.Interface
	redis  *redis.Client

	clock      *cycle.Clock
	dispatcher *events.InMemoryEventDispatcher
	metrics    *metrics.Metrics
	enforcer   *permission.Enforcer

	repos *repositories
	ucs   *allUseCases
	hdlrs *allHandlers

	// now is the wall clock handed to every use case; nil means real time.
	now func() time.Time

	// Middlewares
	authMiddleware       *middleware.AuthMiddleware
	permissionMiddleware *middleware.PermissionMiddleware
	rateLimitMiddleware  *middleware.RateLimitMiddleware
}

// Option customizes a Container before wiring.
type Option func(*Container)

// WithNow replaces the wall clock used by the use cases.
func WithNow(now func() time.Time) Option {
	return func(c *Container) {
		c.now = now
	}
}

// NewContainer wires the application. The database must already be migrated.
func NewContainer(db *gorm.DB, cfg *config.Config, log logger.Interface, opts ...Option) (*Container, error) {
	c := &Container{
		engine: gin.New(),
		db:     db,
		cfg:    cfg,
		log:    log,
	}
	for _, opt := range opts {
		opt(c)
	}

	// Section 1: Infrastructure - clock, redis, events, metrics, permissions
	if err := c.initInfrastructure(); err != nil {
		return nil, err
	}

	// Section 2: Repositories and use cases
	c.repos = newRepositories(db, log)
	c.ucs = c.newUseCases()

	// Section 3: Event subscribers
	if err := c.initSubscribers(); err != nil {
		return nil, err
	}

	// Section 4: Handlers and middlewares
	hdlrs, err := c.newHandlers()
	if err != nil {
		return nil, err
	}
	c.hdlrs = hdlrs
	c.authMiddleware = middleware.NewAuthMiddleware(c.jwtService(), log)
	c.permissionMiddleware = middleware.NewPermissionMiddleware(c.enforcer, log)
	if limiter := c.rateLimiter(); limiter != nil {
		c.rateLimitMiddleware = middleware.NewRateLimitMiddleware(limiter, log.Named("ratelimit"))
	}

	return c, nil
}

// Start launches background workers.
func (c *Container) Start() error {
	if err := c.dispatcher.Start(); err != nil {
		return fmt.Errorf("failed to start event dispatcher: %w", err)
	}
	c.log.Infow("event dispatcher started")
	return nil
}

// Shutdown drains pending events and closes owned clients.
func (c *Container) Shutdown() {
	if err := c.dispatcher.Stop(); err != nil {
		c.log.Errorw("failed to stop event dispatcher", "error", err)
	}
	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			c.log.Warnw("failed to close redis client", "error", err)
		}
	}
}

// Engine returns the Gin engine
func (c *Container) Engine() *gin.Engine {
	return c.engine
}
