package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/paularynty/climaxlog/internal/dto"
	"github.com/paularynty/climaxlog/internal/service"
)

type FeedHandler struct {
	S *service.FeedService
}

// GetFeedHandler godoc
// @Summary Activity feed
// @Description Newest shared entries and session changes of followed users
// @Tags social
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Maximum items, 1-200"
// @Success 200 {object} dto.FeedResponse
// @Router /feed/ [get]
func (h *FeedHandler) GetFeedHandler(c *gin.Context) {
	query := validatedQuery[dto.FeedQuery](c)

	items, err := h.S.GetFeed(c.Request.Context(), currentUserID(c), query.Limit)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.FeedResponse{Items: items})
}
