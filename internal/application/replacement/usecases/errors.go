package usecases

import (
	stderrors "errors"
	"fmt"

	"harvestcycle/internal/domain/replacement"
	"harvestcycle/internal/shared/authorization"
	"harvestcycle/internal/shared/errors"
)

// Error kinds returned to clients inside the error envelope.
const (
	KindValidation             = "ValidationError"
	KindOutsideRequestWindow   = "OutsideRequestWindow"
	KindMonthlyLimitExceeded   = "MonthlyLimitExceeded"
	KindDuplicateWeekRequest   = "DuplicateWeekRequest"
	KindInvalidTransition      = "InvalidTransition"
	KindInvalidStatus          = "InvalidStatus"
	KindAlreadyApplied         = "AlreadyApplied"
	KindNotApproved            = "NotApproved"
	KindNotFound               = "NotFound"
	KindConcurrentModification = "ConcurrentModification"
	KindRequestInProgress      = "RequestInProgress"
)

// toAppError translates domain errors into AppErrors. Errors that are already
// AppErrors pass through; anything unrecognized becomes an internal error.
func toAppError(err error) error {
	if err == nil {
		return nil
	}
	if errors.IsAppError(err) {
		return err
	}

	var limitErr *replacement.MonthlyLimitError
	switch {
	case stderrors.As(err, &limitErr):
		return errors.NewQuotaError(
			"Monthly replacement limit reached",
			fmt.Sprintf("at most %d replacement requests per calendar month", limitErr.Cap),
		).WithKind(KindMonthlyLimitExceeded).WithMeta("cap", limitErr.Cap)
	case stderrors.Is(err, replacement.ErrDuplicateWeekRequest):
		return errors.NewQuotaError("A replacement was already requested for this week").
			WithKind(KindDuplicateWeekRequest)
	case stderrors.Is(err, replacement.ErrOutsideRequestWindow):
		return errors.NewValidationError(replacement.ErrOutsideRequestWindow.Error()).
			WithKind(KindOutsideRequestWindow)
	case stderrors.Is(err, replacement.ErrInvalidTransition):
		return errors.NewStateError("Invalid status transition", err.Error()).
			WithKind(KindInvalidTransition)
	case stderrors.Is(err, replacement.ErrInvalidStatus):
		return errors.NewStateError("Invalid status", err.Error()).
			WithKind(KindInvalidStatus)
	case stderrors.Is(err, replacement.ErrAlreadyApplied):
		return errors.NewStateError("Replacement already applied to another order", err.Error()).
			WithKind(KindAlreadyApplied)
	case stderrors.Is(err, replacement.ErrNotApproved):
		return errors.NewStateError("Replacement must be approved before it is applied", err.Error()).
			WithKind(KindNotApproved)
	case stderrors.Is(err, replacement.ErrNotFound):
		return errors.NewNotFoundError("Replacement request not found").
			WithKind(KindNotFound)
	case stderrors.Is(err, replacement.ErrConcurrentModification):
		return errors.NewConflictError("Replacement request was modified concurrently, retry the operation").
			WithKind(KindConcurrentModification)
	case stderrors.Is(err, replacement.ErrOrderIDRequired):
		return errors.NewValidationError(replacement.ErrOrderIDRequired.Error()).
			WithKind(KindValidation)
	default:
		return errors.NewInternalError("Failed to process replacement request")
	}
}

func validationError(message string) error {
	return errors.NewValidationError(message).WithKind(KindValidation)
}

func requireAdmin(principal authorization.AdminPrincipal) error {
	if principal.IsZero() {
		return errors.NewForbiddenError("Administrator access required")
	}
	return nil
}
