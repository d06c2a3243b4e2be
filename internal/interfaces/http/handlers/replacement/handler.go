package replacement

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"harvestcycle/internal/application/replacement/usecases"
	"harvestcycle/internal/interfaces/http/middleware"
	"harvestcycle/internal/shared/errors"
	"harvestcycle/internal/shared/logger"
	"harvestcycle/internal/shared/utils"
)

type Handler struct {
	createUC usecases.CreateReplacementRequestExecutor
	listMyUC usecases.ListMyReplacementRequestsExecutor
	listUC   usecases.ListReplacementRequestsExecutor
	updateUC usecases.UpdateReplacementRequestExecutor
	applyUC  usecases.ApplyReplacementRequestExecutor
	logger   logger.Interface
}

func NewHandler(
	createUC usecases.CreateReplacementRequestExecutor,
	listMyUC usecases.ListMyReplacementRequestsExecutor,
	listUC usecases.ListReplacementRequestsExecutor,
	updateUC usecases.UpdateReplacementRequestExecutor,
	applyUC usecases.ApplyReplacementRequestExecutor,
	logger logger.Interface,
) *Handler {
	return &Handler{
		createUC: createUC,
		listMyUC: listMyUC,
		listUC:   listUC,
		updateUC: updateUC,
		applyUC:  applyUC,
		logger:   logger,
	}
}

// CreateRequest handles POST /replacement-requests
// @Summary Request a fresh swap
// @Description Request a replacement for the delivery week starting on week_start_date
// @Tags Replacement Requests
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body CreateReplacementRequestRequest true "Week and optional reason"
// @Success 201 {object} utils.APIResponse{data=dto.ReplacementRequestDTO}
// @Failure 400 {object} utils.APIResponse
// @Failure 401 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Router /replacement-requests [post]
func (h *Handler) CreateRequest(c *gin.Context) {
	subscriberID := middleware.GetSubjectID(c)
	if subscriberID == "" {
		utils.ErrorResponseWithError(c, errors.NewUnauthorizedError("user not authenticated"))
		return
	}

	var req CreateReplacementRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for create replacement request", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.createUC.Execute(c.Request.Context(), req.ToCommand(subscriberID))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "Replacement request created successfully")
}

// ListMyRequests handles GET /replacement-requests/mine
// @Summary List my fresh-swap requests
// @Description Own requests, newest first, with this month's quota usage
// @Tags Replacement Requests
// @Produce json
// @Security Bearer
// @Success 200 {object} utils.APIResponse{data=usecases.ListMyReplacementRequestsResult}
// @Failure 401 {object} utils.APIResponse
// @Router /replacement-requests/mine [get]
func (h *Handler) ListMyRequests(c *gin.Context) {
	subscriberID := middleware.GetSubjectID(c)
	if subscriberID == "" {
		utils.ErrorResponseWithError(c, errors.NewUnauthorizedError("user not authenticated"))
		return
	}

	result, err := h.listMyUC.Execute(c.Request.Context(), usecases.ListMyReplacementRequestsQuery{SubscriberID: subscriberID})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// AdminListRequests handles GET /admin/replacement-requests
// @Summary List fresh-swap requests
// @Description Newest first, annotated with each subscriber's current-month request count
// @Tags Admin Replacement Requests
// @Produce json
// @Security Bearer
// @Param status query string false "pending, approved, applied or rejected"
// @Param subscriber_id query string false "Subscriber filter"
// @Param limit query int false "Maximum rows (default 50, max 200)"
// @Success 200 {object} utils.APIResponse{data=usecases.ListReplacementRequestsResult}
// @Failure 400 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Router /admin/replacement-requests [get]
func (h *Handler) AdminListRequests(c *gin.Context) {
	req, err := parseListRequest(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.listUC.Execute(c.Request.Context(), req.ToQuery(middleware.GetAdminPrincipal(c)))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// AdminUpdateRequest handles PATCH /admin/replacement-requests/:id
// @Summary Update a fresh-swap request
// @Description Change status, admin notes or the applied order. Setting applied_to_order_id applies the request.
// @Tags Admin Replacement Requests
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "Request ID"
// @Param request body UpdateReplacementRequestRequest true "Fields to change"
// @Success 200 {object} utils.APIResponse{data=dto.ReplacementRequestDTO}
// @Failure 400 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Router /admin/replacement-requests/{id} [patch]
func (h *Handler) AdminUpdateRequest(c *gin.Context) {
	requestID, err := parseRequestID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req UpdateReplacementRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for update replacement request",
			"request_id", requestID,
			"error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.updateUC.Execute(c.Request.Context(), req.ToCommand(middleware.GetAdminPrincipal(c), requestID))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Replacement request updated successfully", result)
}

// AdminApplyRequest handles POST /admin/replacement-requests/:id/apply
// @Summary Apply a fresh-swap request to an order
// @Description Binds an approved request to an order. Repeating with the same order is a no-op.
// @Tags Admin Replacement Requests
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "Request ID"
// @Param request body ApplyReplacementRequestRequest true "Target order"
// @Success 200 {object} utils.APIResponse{data=dto.ReplacementRequestDTO}
// @Failure 400 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Router /admin/replacement-requests/{id}/apply [post]
func (h *Handler) AdminApplyRequest(c *gin.Context) {
	requestID, err := parseRequestID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req ApplyReplacementRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.applyUC.Execute(c.Request.Context(), usecases.ApplyReplacementRequestCommand{
		Principal: middleware.GetAdminPrincipal(c),
		RequestID: requestID,
		OrderID:   req.OrderID,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Replacement request applied", result)
}
