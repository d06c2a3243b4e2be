package usecases

import (
	"context"
	"strings"
	"time"

	"github.com/samber/lo"

	"harvestcycle/internal/application/replacement/dto"
	"harvestcycle/internal/domain/cycle"
	"harvestcycle/internal/domain/replacement"
	"harvestcycle/internal/shared/biztime"
	"harvestcycle/internal/shared/constants"
	"harvestcycle/internal/shared/logger"
)

type ListMyReplacementRequestsQuery struct {
	SubscriberID string
}

type ListMyReplacementRequestsResult struct {
	Items []dto.ReplacementRequestDTO `json:"items"`
	Quota dto.QuotaUsageDTO           `json:"quota"`
}

// ListMyReplacementRequestsUseCase shows a subscriber their own requests and
// how much of this month's quota is left.
type ListMyReplacementRequestsUseCase struct {
	repo   replacement.Repository
	quota  *replacement.QuotaTracker
	clock  *cycle.Clock
	now    func() time.Time
	logger logger.Interface
}

func NewListMyReplacementRequestsUseCase(
	repo replacement.Repository,
	quota *replacement.QuotaTracker,
	clock *cycle.Clock,
	now func() time.Time,
	logger logger.Interface,
) *ListMyReplacementRequestsUseCase {
	if now == nil {
		now = biztime.NowUTC
	}
	return &ListMyReplacementRequestsUseCase{
		repo:   repo,
		quota:  quota,
		clock:  clock,
		now:    now,
		logger: logger,
	}
}

func (uc *ListMyReplacementRequestsUseCase) Execute(ctx context.Context, query ListMyReplacementRequestsQuery) (*ListMyReplacementRequestsResult, error) {
	subscriberID := strings.TrimSpace(query.SubscriberID)
	if subscriberID == "" {
		return nil, validationError("subscriber ID is required")
	}

	requests, err := uc.repo.List(ctx, replacement.ListFilter{
		SubscriberID: &subscriberID,
		Limit:        constants.DefaultListLimit,
	})
	if err != nil {
		uc.logger.Errorw("failed to list subscriber replacement requests", "subscriber_id", subscriberID, "error", err)
		return nil, toAppError(err)
	}

	usage, err := uc.quota.Usage(ctx, subscriberID, uc.now())
	if err != nil {
		uc.logger.Errorw("failed to load replacement quota", "subscriber_id", subscriberID, "error", err)
		return nil, toAppError(err)
	}

	loc := uc.clock.Location()
	return &ListMyReplacementRequestsResult{
		Items: lo.Map(requests, func(r *replacement.ReplacementRequest, _ int) dto.ReplacementRequestDTO {
			return dto.ToReplacementRequestDTO(r, loc)
		}),
		Quota: dto.ToQuotaUsageDTO(usage, loc),
	}, nil
}
