package usecases

import (
	"context"
	"time"

	"harvestcycle/internal/application/replacement/dto"
	"harvestcycle/internal/domain/cycle"
	"harvestcycle/internal/shared/biztime"
)

type GetCycleUseCase struct {
	clock *cycle.Clock
	now   func() time.Time
}

func NewGetCycleUseCase(clock *cycle.Clock, now func() time.Time) *GetCycleUseCase {
	if now == nil {
		now = biztime.NowUTC
	}
	return &GetCycleUseCase{clock: clock, now: now}
}

func (uc *GetCycleUseCase) Execute(_ context.Context) (*dto.CycleDTO, error) {
	result := dto.ToCycleDTO(uc.clock.CurrentCycle(uc.now()), uc.clock.Location())
	return &result, nil
}
