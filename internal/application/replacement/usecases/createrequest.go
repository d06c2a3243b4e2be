package usecases

import (
	"context"
	"strings"
	"time"

	"harvestcycle/internal/application/replacement/dto"
	"harvestcycle/internal/domain/cycle"
	"harvestcycle/internal/domain/replacement"
	"harvestcycle/internal/domain/shared/events"
	"harvestcycle/internal/shared/biztime"
	"harvestcycle/internal/shared/db"
	"harvestcycle/internal/shared/errors"
	"harvestcycle/internal/shared/logger"
)

type CreateReplacementRequestCommand struct {
	SubscriberID  string
	WeekStartDate string
	Reason        string
}

type CreateReplacementRequestUseCase struct {
	repo      replacement.Repository
	quota     *replacement.QuotaTracker
	clock     *cycle.Clock
	txManager db.Transactor
	locker    SubscriberLocker
	sanitizer TextSanitizer
	publisher events.EventPublisher
	now       func() time.Time
	logger    logger.Interface
}

func NewCreateReplacementRequestUseCase(
	repo replacement.Repository,
	quota *replacement.QuotaTracker,
	clock *cycle.Clock,
	txManager db.Transactor,
	locker SubscriberLocker,
	sanitizer TextSanitizer,
	publisher events.EventPublisher,
	now func() time.Time,
	logger logger.Interface,
) *CreateReplacementRequestUseCase {
	if now == nil {
		now = biztime.NowUTC
	}
	return &CreateReplacementRequestUseCase{
		repo:      repo,
		quota:     quota,
		clock:     clock,
		txManager: txManager,
		locker:    locker,
		sanitizer: sanitizer,
		publisher: publisher,
		now:       now,
		logger:    logger,
	}
}

func (uc *CreateReplacementRequestUseCase) Execute(ctx context.Context, cmd CreateReplacementRequestCommand) (*dto.ReplacementRequestDTO, error) {
	uc.logger.Infow("executing create replacement request use case",
		"subscriber_id", cmd.SubscriberID,
		"week_start_date", cmd.WeekStartDate,
	)

	if strings.TrimSpace(cmd.SubscriberID) == "" {
		return nil, validationError("subscriber ID is required")
	}
	if strings.TrimSpace(cmd.WeekStartDate) == "" {
		return nil, validationError("week_start_date is required")
	}
	parsed, err := biztime.ParseDate(strings.TrimSpace(cmd.WeekStartDate), uc.clock.Location())
	if err != nil {
		return nil, validationError("week_start_date must be a YYYY-MM-DD date")
	}
	weekStart, _ := uc.clock.WeekRange(parsed)

	now := uc.now()
	if !uc.clock.IsWithinRequestWindow(now) {
		uc.logger.Warnw("replacement request outside request window",
			"subscriber_id", cmd.SubscriberID,
			"now", now,
		)
		return nil, toAppError(replacement.ErrOutsideRequestWindow)
	}

	reason := uc.sanitizer.PlainText(cmd.Reason)

	release, err := uc.locker.Acquire(ctx, cmd.SubscriberID)
	if err != nil {
		uc.logger.Warnw("failed to acquire subscriber lock", "subscriber_id", cmd.SubscriberID, "error", err)
		return nil, errors.NewConflictError("Another request for this subscriber is in progress, retry shortly").
			WithKind(KindRequestInProgress)
	}
	defer release()

	var created *replacement.ReplacementRequest
	err = uc.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		// The in-process or Redis lock above only covers callers sharing it.
		// The row lock covers every instance on the same database.
		if err := uc.repo.LockSubscriber(txCtx, cmd.SubscriberID); err != nil {
			return err
		}
		if err := uc.quota.CheckEligibility(txCtx, cmd.SubscriberID, weekStart, now); err != nil {
			return err
		}

		request, err := replacement.NewReplacementRequest(cmd.SubscriberID, weekStart, reason, now)
		if err != nil {
			return validationError(err.Error())
		}
		if err := uc.repo.Create(txCtx, request); err != nil {
			return err
		}
		created = request
		return nil
	})
	if err != nil {
		appErr := toAppError(err)
		if isInternal(appErr) {
			uc.logger.Errorw("failed to create replacement request",
				"subscriber_id", cmd.SubscriberID,
				"error", err,
			)
		} else {
			uc.logger.Warnw("replacement request rejected",
				"subscriber_id", cmd.SubscriberID,
				"week_start", weekStart,
				"error", err,
			)
		}
		return nil, appErr
	}

	if err := uc.publisher.Publish(replacement.NewRequestCreatedEvent(created)); err != nil {
		uc.logger.Warnw("failed to publish replacement created event", "request_id", created.ID(), "error", err)
	}

	uc.logger.Infow("replacement request created",
		"request_id", created.ID(),
		"subscriber_id", created.SubscriberID(),
	)

	result := dto.ToReplacementRequestDTO(created, uc.clock.Location())
	return &result, nil
}

func isInternal(err error) bool {
	appErr := errors.GetAppError(err)
	return appErr == nil || appErr.Type == errors.ErrorTypeInternal
}
