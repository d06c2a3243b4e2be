package usecases

import (
	"context"
	"time"

	"github.com/samber/lo"

	"harvestcycle/internal/application/replacement/dto"
	"harvestcycle/internal/domain/cycle"
	"harvestcycle/internal/domain/replacement"
	vo "harvestcycle/internal/domain/replacement/valueobjects"
	"harvestcycle/internal/shared/authorization"
	"harvestcycle/internal/shared/biztime"
	"harvestcycle/internal/shared/constants"
	"harvestcycle/internal/shared/logger"
)

type ListReplacementRequestsQuery struct {
	Principal    authorization.AdminPrincipal
	Status       *string
	SubscriberID *string
	Limit        int
}

type ListReplacementRequestsResult struct {
	Items      []dto.AdminReplacementRequestDTO `json:"items"`
	MonthlyCap int                              `json:"monthly_cap"`
}

type ListReplacementRequestsUseCase struct {
	repo       replacement.Repository
	clock      *cycle.Clock
	monthlyCap int
	now        func() time.Time
	logger     logger.Interface
}

func NewListReplacementRequestsUseCase(
	repo replacement.Repository,
	clock *cycle.Clock,
	monthlyCap int,
	now func() time.Time,
	logger logger.Interface,
) *ListReplacementRequestsUseCase {
	if now == nil {
		now = biztime.NowUTC
	}
	return &ListReplacementRequestsUseCase{
		repo:       repo,
		clock:      clock,
		monthlyCap: monthlyCap,
		now:        now,
		logger:     logger,
	}
}

func (uc *ListReplacementRequestsUseCase) Execute(ctx context.Context, query ListReplacementRequestsQuery) (*ListReplacementRequestsResult, error) {
	if err := requireAdmin(query.Principal); err != nil {
		return nil, err
	}

	filter := replacement.ListFilter{
		SubscriberID: query.SubscriberID,
		Limit:        clampLimit(query.Limit),
	}
	if query.Status != nil && *query.Status != "" {
		s, ok := vo.ParseRequestStatus(*query.Status)
		if !ok {
			return nil, toAppError(replacement.ErrInvalidStatus)
		}
		filter.Status = &s
	}
	if filter.SubscriberID != nil && *filter.SubscriberID == "" {
		filter.SubscriberID = nil
	}

	requests, err := uc.repo.List(ctx, filter)
	if err != nil {
		uc.logger.Errorw("failed to list replacement requests", "error", err)
		return nil, toAppError(err)
	}

	subscriberIDs := lo.Uniq(lo.Map(requests, func(r *replacement.ReplacementRequest, _ int) string {
		return r.SubscriberID()
	}))

	counts := map[string]int64{}
	if len(subscriberIDs) > 0 {
		start, end := uc.clock.CurrentCalendarMonthRange(uc.now())
		counts, err = uc.repo.CountCreatedBetweenBySubscriber(ctx, subscriberIDs, start, end)
		if err != nil {
			uc.logger.Errorw("failed to count monthly replacement requests", "error", err)
			return nil, toAppError(err)
		}
	}

	loc := uc.clock.Location()
	items := lo.Map(requests, func(r *replacement.ReplacementRequest, _ int) dto.AdminReplacementRequestDTO {
		return dto.AdminReplacementRequestDTO{
			ReplacementRequestDTO: dto.ToReplacementRequestDTO(r, loc),
			CurrentMonthCount:     counts[r.SubscriberID()],
		}
	})

	uc.logger.Infow("listed replacement requests",
		"count", len(items),
		"admin", query.Principal.Subject(),
	)

	return &ListReplacementRequestsResult{Items: items, MonthlyCap: uc.monthlyCap}, nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return constants.DefaultListLimit
	}
	return min(limit, constants.MaxListLimit)
}
