package middleware

import (
	"context"
	"math"
	"strconv"

	"github.com/gin-gonic/gin"

	"harvestcycle/internal/infrastructure/ratelimit"
	"harvestcycle/internal/shared/errors"
	"harvestcycle/internal/shared/logger"
)

// RateLimiter decides whether another request for key fits the budget.
type RateLimiter interface {
	Allow(ctx context.Context, key string) (ratelimit.Decision, error)
}

type RateLimitMiddleware struct {
	limiter RateLimiter
	logger  logger.Interface
}

func NewRateLimitMiddleware(limiter RateLimiter, logger logger.Interface) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		limiter: limiter,
		logger:  logger,
	}
}

// LimitBySubject budgets requests per authenticated subject. It must run
// after RequireAuth. Limiter failures let the request through.
func (m *RateLimitMiddleware) LimitBySubject() gin.HandlerFunc {
	return func(c *gin.Context) {
		subjectID := GetSubjectID(c)
		if subjectID == "" {
			abortWithError(c, errors.NewUnauthorizedError("authentication required"))
			return
		}

		decision, err := m.limiter.Allow(c.Request.Context(), "subject:"+subjectID)
		if err != nil {
			m.logger.Errorw("rate limit check failed",
				"error", err,
				"subject_id", subjectID,
			)
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(decision.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))

		if !decision.Allowed {
			m.logger.Warnw("rate limit exceeded",
				"subject_id", subjectID,
				"limit", decision.Limit,
			)
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(decision.RetryAfter.Seconds()))))
			abortWithError(c, errors.NewRateLimitError("Too many requests, retry later").WithKind("RateLimited"))
			return
		}

		c.Next()
	}
}
