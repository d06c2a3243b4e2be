package replacement

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"harvestcycle/internal/application/replacement/usecases"
	"harvestcycle/internal/shared/authorization"
	"harvestcycle/internal/shared/errors"
)

type CreateReplacementRequestRequest struct {
	WeekStartDate string `json:"week_start_date" binding:"required" example:"2026-10-19"`
	Reason        string `json:"reason" binding:"max=1000"`
}

func (r *CreateReplacementRequestRequest) ToCommand(subscriberID string) usecases.CreateReplacementRequestCommand {
	return usecases.CreateReplacementRequestCommand{
		SubscriberID:  subscriberID,
		WeekStartDate: r.WeekStartDate,
		Reason:        r.Reason,
	}
}

// UpdateReplacementRequestRequest is a partial update; omitted fields are left unchanged.
type UpdateReplacementRequestRequest struct {
	Status           *string `json:"status" example:"approved"`
	AdminNotes       *string `json:"admin_notes" binding:"omitempty,max=2000"`
	AppliedToOrderID *string `json:"applied_to_order_id"`
}

func (r *UpdateReplacementRequestRequest) ToCommand(principal authorization.AdminPrincipal, requestID string) usecases.UpdateReplacementRequestCommand {
	return usecases.UpdateReplacementRequestCommand{
		Principal:        principal,
		RequestID:        requestID,
		Status:           r.Status,
		AdminNotes:       r.AdminNotes,
		AppliedToOrderID: r.AppliedToOrderID,
	}
}

type ApplyReplacementRequestRequest struct {
	OrderID string `json:"order_id" binding:"required"`
}

type listReplacementRequestsRequest struct {
	Status       *string
	SubscriberID *string
	Limit        int
}

func parseListRequest(c *gin.Context) (*listReplacementRequestsRequest, error) {
	req := &listReplacementRequestsRequest{}

	if status, ok := c.GetQuery("status"); ok && status != "" {
		req.Status = &status
	}
	if subscriberID, ok := c.GetQuery("subscriber_id"); ok && subscriberID != "" {
		req.SubscriberID = &subscriberID
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return nil, errors.NewValidationError("limit must be a non-negative integer").WithKind(usecases.KindValidation)
		}
		req.Limit = limit
	}

	return req, nil
}

func (r *listReplacementRequestsRequest) ToQuery(principal authorization.AdminPrincipal) usecases.ListReplacementRequestsQuery {
	return usecases.ListReplacementRequestsQuery{
		Principal:    principal,
		Status:       r.Status,
		SubscriberID: r.SubscriberID,
		Limit:        r.Limit,
	}
}

func parseRequestID(c *gin.Context) (string, error) {
	id := c.Param("id")
	if id == "" {
		return "", errors.NewValidationError("request id is required").WithKind(usecases.KindValidation)
	}
	return id, nil
}
