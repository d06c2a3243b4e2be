package http

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"harvestcycle/internal/application/replacement/usecases"
	"harvestcycle/internal/domain/cycle"
	"harvestcycle/internal/domain/replacement"
	"harvestcycle/internal/domain/shared/events"
	"harvestcycle/internal/infrastructure/auth"
	"harvestcycle/internal/infrastructure/email"
	"harvestcycle/internal/infrastructure/lock"
	"harvestcycle/internal/infrastructure/metrics"
	"harvestcycle/internal/infrastructure/permission"
	"harvestcycle/internal/infrastructure/ratelimit"
	"harvestcycle/internal/shared/biztime"
	"harvestcycle/internal/shared/config"
	"harvestcycle/internal/shared/services/markdown"
)

const eventBufferSize = 256

func (c *Container) initInfrastructure() error {
	clock, err := NewClockFromConfig(&c.cfg.Server, &c.cfg.Replacement, &c.cfg.Cycle)
	if err != nil {
		return err
	}
	c.clock = clock

	if c.cfg.Redis.Enabled {
		c.redis = redis.NewClient(&redis.Options{
			Addr:     c.cfg.Redis.GetAddr(),
			Password: c.cfg.Redis.Password,
			DB:       c.cfg.Redis.DB,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := c.redis.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("failed to connect to redis at %s: %w", c.cfg.Redis.GetAddr(), err)
		}
		c.log.Infow("redis connected", "addr", c.cfg.Redis.GetAddr())
	}

	c.dispatcher = events.NewInMemoryEventDispatcher(eventBufferSize, c.log.Named("events"))
	c.metrics = metrics.New()

	enforcer, err := permission.NewEnforcer(c.db, c.log.Named("permission"))
	if err != nil {
		return err
	}
	if err := enforcer.InitDefaultPolicies(); err != nil {
		return err
	}
	c.enforcer = enforcer

	return nil
}

// NewClockFromConfig builds the business calendar from loaded configuration.
func NewClockFromConfig(server *config.ServerConfig, rc *config.ReplacementConfig, cc *config.CycleConfig) (*cycle.Clock, error) {
	loc, err := biztime.LoadLocation(server.Timezone)
	if err != nil {
		return nil, err
	}

	clock, err := cycle.NewClock(cycle.Config{
		Location: loc,
		Window: cycle.WindowConfig{
			StartDay:  rc.Window.StartDay,
			EndDay:    rc.Window.EndDay,
			EndHour:   rc.Window.EndHour,
			EndMinute: rc.Window.EndMinute,
		},
		OrderCutoff: cycle.CutoffConfig{
			Day:    cc.OrderCutoff.Day,
			Hour:   cc.OrderCutoff.Hour,
			Minute: cc.OrderCutoff.Minute,
		},
		HarvestDay:  cc.HarvestDay,
		DeliveryDay: cc.DeliveryDay,
	})
	if err != nil {
		return nil, fmt.Errorf("invalid cycle configuration: %w", err)
	}
	return clock, nil
}

func (c *Container) subscriberLocker() usecases.SubscriberLocker {
	if c.redis != nil {
		ttl := time.Duration(c.cfg.Redis.LockTTLSeconds) * time.Second
		return lock.NewRedisSubscriberLocker(c.redis, ttl, c.log.Named("lock"))
	}
	c.log.Warnw("redis disabled, request creation is serialized in-process only")
	return lock.NewInMemorySubscriberLocker()
}

// rateLimiter returns nil when rate limiting is disabled.
func (c *Container) rateLimiter() ratelimit.RateLimiter {
	if !c.cfg.RateLimit.Enabled {
		return nil
	}
	policy := ratelimit.Policy{
		RequestsPerMinute: c.cfg.RateLimit.RequestsPerMinute,
		RequestsPerHour:   c.cfg.RateLimit.RequestsPerHour,
	}
	if c.redis != nil {
		return ratelimit.NewRedisRateLimiter(c.redis, policy)
	}
	return ratelimit.NewInMemoryRateLimiter(policy)
}

func (c *Container) jwtService() *auth.JWTService {
	return auth.NewJWTService(c.cfg.Auth.JWT.Secret, 0)
}

func (c *Container) initSubscribers() error {
	if err := c.dispatcher.Subscribe(replacement.EventTypeCreated, c.metrics); err != nil {
		return err
	}
	if err := c.dispatcher.Subscribe(replacement.EventTypeStatusChanged, c.metrics); err != nil {
		return err
	}

	if !c.cfg.Email.Enabled {
		return nil
	}
	sender := email.NewSMTPEmailService(email.SMTPConfig{
		Host:        c.cfg.Email.SMTPHost,
		Port:        c.cfg.Email.SMTPPort,
		Username:    c.cfg.Email.SMTPUser,
		Password:    c.cfg.Email.SMTPPassword,
		FromAddress: c.cfg.Email.FromAddress,
		FromName:    c.cfg.Email.FromName,
	})
	notifier := email.NewAdminNotifier(sender, markdown.NewMarkdownService(), c.cfg.Email.AdminAddress, c.clock.Location(), c.log.Named("email"))
	return c.dispatcher.Subscribe(replacement.EventTypeCreated, notifier)
}
