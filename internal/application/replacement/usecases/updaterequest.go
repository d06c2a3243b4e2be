package usecases

import (
	"context"
	"strings"
	"time"

	"harvestcycle/internal/application/replacement/dto"
	"harvestcycle/internal/domain/replacement"
	vo "harvestcycle/internal/domain/replacement/valueobjects"
	"harvestcycle/internal/domain/shared/events"
	"harvestcycle/internal/shared/authorization"
	"harvestcycle/internal/shared/biztime"
	"harvestcycle/internal/shared/logger"
)

// UpdateReplacementRequestCommand carries an administrator's changes. Nil
// fields are left untouched. Setting AppliedToOrderID implies status applied.
type UpdateReplacementRequestCommand struct {
	Principal        authorization.AdminPrincipal
	RequestID        string
	Status           *string
	AdminNotes       *string
	AppliedToOrderID *string
}

type UpdateReplacementRequestUseCase struct {
	repo      replacement.Repository
	sanitizer TextSanitizer
	publisher events.EventPublisher
	loc       *time.Location
	now       func() time.Time
	logger    logger.Interface
}

func NewUpdateReplacementRequestUseCase(
	repo replacement.Repository,
	sanitizer TextSanitizer,
	publisher events.EventPublisher,
	loc *time.Location,
	now func() time.Time,
	logger logger.Interface,
) *UpdateReplacementRequestUseCase {
	if now == nil {
		now = biztime.NowUTC
	}
	return &UpdateReplacementRequestUseCase{
		repo:      repo,
		sanitizer: sanitizer,
		publisher: publisher,
		loc:       loc,
		now:       now,
		logger:    logger,
	}
}

func (uc *UpdateReplacementRequestUseCase) Execute(ctx context.Context, cmd UpdateReplacementRequestCommand) (*dto.ReplacementRequestDTO, error) {
	uc.logger.Infow("executing update replacement request use case",
		"request_id", cmd.RequestID,
		"admin", cmd.Principal.Subject(),
	)

	if err := requireAdmin(cmd.Principal); err != nil {
		return nil, err
	}
	if strings.TrimSpace(cmd.RequestID) == "" {
		return nil, validationError("request ID is required")
	}
	if cmd.Status == nil && cmd.AdminNotes == nil && cmd.AppliedToOrderID == nil {
		return nil, validationError("at least one of status, admin_notes or applied_to_order_id is required")
	}

	var target *vo.RequestStatus
	if cmd.Status != nil {
		s, ok := vo.ParseRequestStatus(*cmd.Status)
		if !ok {
			return nil, toAppError(replacement.ErrInvalidStatus)
		}
		target = &s
	}
	if cmd.AppliedToOrderID != nil {
		if target != nil && *target != vo.StatusApplied {
			return nil, validationError("applied_to_order_id can only be set together with status applied")
		}
		applied := vo.StatusApplied
		target = &applied
	}

	request, err := uc.repo.GetByID(ctx, cmd.RequestID)
	if err != nil {
		uc.logger.Warnw("failed to load replacement request", "request_id", cmd.RequestID, "error", err)
		return nil, toAppError(err)
	}

	from := request.Status()
	now := uc.now()
	dirty := false

	if target != nil {
		changed, err := transition(request, *target, cmd.AppliedToOrderID, now)
		if err != nil {
			uc.logger.Warnw("replacement status change rejected",
				"request_id", cmd.RequestID,
				"from", from,
				"to", *target,
				"error", err,
			)
			return nil, toAppError(err)
		}
		dirty = changed
	}

	if cmd.AdminNotes != nil {
		notes := uc.sanitizer.PlainText(*cmd.AdminNotes)
		if notes != request.AdminNotes() {
			if err := request.SetAdminNotes(notes, now); err != nil {
				return nil, validationError(err.Error())
			}
			dirty = true
		}
	}

	if dirty {
		if err := uc.repo.Update(ctx, request); err != nil {
			uc.logger.Warnw("failed to update replacement request", "request_id", cmd.RequestID, "error", err)
			return nil, toAppError(err)
		}
	}

	if request.Status() != from {
		if err := uc.publisher.Publish(replacement.NewRequestStatusChangedEvent(request, from)); err != nil {
			uc.logger.Warnw("failed to publish status changed event", "request_id", request.ID(), "error", err)
		}
		uc.logger.Infow("replacement request status changed",
			"request_id", request.ID(),
			"from", from,
			"to", request.Status(),
			"admin", cmd.Principal.Subject(),
		)
	}

	result := dto.ToReplacementRequestDTO(request, uc.loc)
	return &result, nil
}

// transition applies target to request. Moving to applied binds orderID;
// repeating the request's current binding reports no change.
func transition(request *replacement.ReplacementRequest, target vo.RequestStatus, orderID *string, now time.Time) (bool, error) {
	if target == vo.StatusApplied {
		if orderID == nil {
			return false, request.ChangeStatus(target, now)
		}
		return request.ApplyToOrder(*orderID, now)
	}
	if err := request.ChangeStatus(target, now); err != nil {
		return false, err
	}
	return true, nil
}
