package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"harvestcycle/internal/application/replacement/usecases"
	"harvestcycle/internal/shared/utils"
)

type CycleHandler struct {
	getCycleUC usecases.GetCycleExecutor
}

func NewCycleHandler(getCycleUC usecases.GetCycleExecutor) *CycleHandler {
	return &CycleHandler{getCycleUC: getCycleUC}
}

// GetCycle handles GET /cycle
// @Summary Current delivery cycle
// @Description Next order cutoff, harvest and delivery days, and whether fresh-swap requests are open
// @Tags Cycle
// @Produce json
// @Success 200 {object} utils.APIResponse{data=dto.CycleDTO}
// @Router /cycle [get]
func (h *CycleHandler) GetCycle(c *gin.Context) {
	result, err := h.getCycleUC.Execute(c.Request.Context())
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}
