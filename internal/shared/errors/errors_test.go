package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstructors_StatusCodes(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		wantType ErrorType
		wantCode int
	}{
		{"validation", NewValidationError("bad"), ErrorTypeValidation, http.StatusBadRequest},
		{"quota", NewQuotaError("too many"), ErrorTypeQuota, http.StatusBadRequest},
		{"state", NewStateError("illegal"), ErrorTypeState, http.StatusConflict},
		{"not found", NewNotFoundError("missing"), ErrorTypeNotFound, http.StatusNotFound},
		{"conflict", NewConflictError("race"), ErrorTypeConflict, http.StatusConflict},
		{"forbidden", NewForbiddenError("no"), ErrorTypeForbidden, http.StatusForbidden},
		{"rate limit", NewRateLimitError("slow down"), ErrorTypeRateLimit, http.StatusTooManyRequests},
		{"internal", NewInternalError("boom"), ErrorTypeInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantType, tt.err.Type)
			assert.Equal(t, tt.wantCode, tt.err.Code)
		})
	}
}

func TestAppError_KindAndMeta(t *testing.T) {
	err := NewQuotaError("monthly limit reached").
		WithKind("MonthlyLimitExceeded").
		WithMeta("cap", 2)

	wrapped := fmt.Errorf("create: %w", err)

	assert.True(t, IsAppError(wrapped))
	assert.True(t, HasKind(wrapped, "MonthlyLimitExceeded"))
	assert.False(t, HasKind(wrapped, "DuplicateWeekRequest"))
	assert.Equal(t, 2, GetAppError(wrapped).Meta["cap"])
	assert.Equal(t, "quota_error: monthly limit reached", err.Error())
}

func TestIsDuplicateError(t *testing.T) {
	assert.False(t, IsDuplicateError(nil))
	assert.True(t, IsDuplicateError(fmt.Errorf("Error 1062: Duplicate entry 'x' for key 'uk'")))
	assert.True(t, IsDuplicateError(fmt.Errorf("UNIQUE constraint failed: replacement_requests.subscriber_id")))
	assert.False(t, IsDuplicateError(fmt.Errorf("connection refused")))
}
