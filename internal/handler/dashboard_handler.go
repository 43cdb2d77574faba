package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/paularynty/climaxlog/internal/dto"
	"github.com/paularynty/climaxlog/internal/service"
)

type DashboardHandler struct {
	S *service.DashboardService
}

// GetChartsHandler godoc
// @Summary Dashboard charts
// @Description Charts in display order; every chart when none were picked
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.DashboardChartsResponse
// @Router /dashboard/ [get]
func (h *DashboardHandler) GetChartsHandler(c *gin.Context) {
	charts, err := h.S.GetCharts(c.Request.Context(), currentUserID(c))
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.DashboardChartsResponse{Charts: charts})
}

// SetChartsHandler godoc
// @Summary Pick dashboard charts
// @Tags dashboard
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.DashboardChartsRequest true "Charts in order"
// @Success 200 {object} dto.DashboardChartsResponse
// @Router /dashboard/ [put]
func (h *DashboardHandler) SetChartsHandler(c *gin.Context) {
	body := validatedBody[dto.DashboardChartsRequest](c)

	charts, err := h.S.SetCharts(c.Request.Context(), currentUserID(c), body.Charts)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.DashboardChartsResponse{Charts: charts})
}
