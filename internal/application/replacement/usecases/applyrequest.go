package usecases

import (
	"context"
	"strings"

	"harvestcycle/internal/application/replacement/dto"
	"harvestcycle/internal/shared/authorization"
)

// ApplyReplacementRequestCommand binds an approved request to an order.
type ApplyReplacementRequestCommand struct {
	Principal authorization.AdminPrincipal
	RequestID string
	OrderID   string
}

// ApplyReplacementRequestUseCase is the entitlement applier. It sets status
// applied and the order binding in a single conditional write, and succeeds
// without writing when the request is already bound to the same order.
type ApplyReplacementRequestUseCase struct {
	update *UpdateReplacementRequestUseCase
}

func NewApplyReplacementRequestUseCase(update *UpdateReplacementRequestUseCase) *ApplyReplacementRequestUseCase {
	return &ApplyReplacementRequestUseCase{update: update}
}

func (uc *ApplyReplacementRequestUseCase) Execute(ctx context.Context, cmd ApplyReplacementRequestCommand) (*dto.ReplacementRequestDTO, error) {
	if err := requireAdmin(cmd.Principal); err != nil {
		return nil, err
	}
	orderID := strings.TrimSpace(cmd.OrderID)
	if orderID == "" {
		return nil, validationError("order_id is required")
	}
	return uc.update.Execute(ctx, UpdateReplacementRequestCommand{
		Principal:        cmd.Principal,
		RequestID:        cmd.RequestID,
		AppliedToOrderID: &orderID,
	})
}
