package usecases

import (
	"context"

	"harvestcycle/internal/application/replacement/dto"
)

type CreateReplacementRequestExecutor interface {
	Execute(ctx context.Context, cmd CreateReplacementRequestCommand) (*dto.ReplacementRequestDTO, error)
}

type ListReplacementRequestsExecutor interface {
	Execute(ctx context.Context, query ListReplacementRequestsQuery) (*ListReplacementRequestsResult, error)
}

type ListMyReplacementRequestsExecutor interface {
	Execute(ctx context.Context, query ListMyReplacementRequestsQuery) (*ListMyReplacementRequestsResult, error)
}

type UpdateReplacementRequestExecutor interface {
	Execute(ctx context.Context, cmd UpdateReplacementRequestCommand) (*dto.ReplacementRequestDTO, error)
}

type ApplyReplacementRequestExecutor interface {
	Execute(ctx context.Context, cmd ApplyReplacementRequestCommand) (*dto.ReplacementRequestDTO, error)
}

type GetCycleExecutor interface {
	Execute(ctx context.Context) (*dto.CycleDTO, error)
}

// SubscriberLocker serializes request creation per subscriber.
type SubscriberLocker interface {
	Acquire(ctx context.Context, subscriberID string) (release func(), err error)
}

// TextSanitizer strips markup from customer and admin free text.
type TextSanitizer interface {
	PlainText(input string) string
}
