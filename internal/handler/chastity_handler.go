package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/paularynty/climaxlog/internal/apperror"
	"github.com/paularynty/climaxlog/internal/dto"
	"github.com/paularynty/climaxlog/internal/service"
)

type ChastityHandler struct {
	S *service.ChastityService
}

// ListSessionsHandler godoc
// @Summary List chastity sessions
// @Tags chastity
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.ChastitySessionsResponse
// @Router /chastity/ [get]
func (h *ChastityHandler) ListSessionsHandler(c *gin.Context) {
	sessions, err := h.S.List(c.Request.Context(), currentUserID(c))
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.ChastitySessionsResponse{Sessions: sessions})
}

// GetActiveSessionHandler godoc
// @Summary Active session
// @Description The open session, or null
// @Tags chastity
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.ActiveChastityResponse
// @Router /chastity/active [get]
func (h *ChastityHandler) GetActiveSessionHandler(c *gin.Context) {
	session, err := h.S.GetActive(c.Request.Context(), currentUserID(c))
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.ActiveChastityResponse{Session: session})
}

// GetSessionHandler godoc
// @Summary Get session
// @Tags chastity
// @Produce json
// @Security BearerAuth
// @Param id path int true "Session ID"
// @Success 200 {object} dto.ChastityResponse
// @Router /chastity/{id} [get]
func (h *ChastityHandler) GetSessionHandler(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}

	session, err := h.S.Get(c.Request.Context(), currentUserID(c), id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, session)
}

// CreateSessionHandler godoc
// @Summary Start or record a session
// @Description Without endTime the session starts as active; only one may be active
// @Tags chastity
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.ChastityRequest true "Session payload"
// @Success 201 {object} dto.ChastityResponse
// @Failure 409 {object} map[string]string
// @Router /chastity/ [post]
func (h *ChastityHandler) CreateSessionHandler(c *gin.Context) {
	body := validatedBody[dto.ChastityRequest](c)

	session, err := h.S.Create(c.Request.Context(), currentUserID(c), &body)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, session)
}

// EndSessionHandler godoc
// @Summary End active session
// @Description Ends the active session at endTime, or now when the body is empty
// @Tags chastity
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.EndChastityRequest false "End payload"
// @Success 200 {object} dto.ChastityResponse
// @Failure 404 {object} map[string]string
// @Router /chastity/active/end [post]
func (h *ChastityHandler) EndSessionHandler(c *gin.Context) {
	var body dto.EndChastityRequest
	if err := c.ShouldBindJSON(&body); err != nil && !errors.Is(err, io.EOF) {
		_ = c.Error(apperror.BadRequest(err.Error()))
		return
	}

	session, err := h.S.EndActive(c.Request.Context(), currentUserID(c), &body)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, session)
}

// UpdateSessionHandler godoc
// @Summary Edit session
// @Tags chastity
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Session ID"
// @Param body body dto.ChastityRequest true "Session payload"
// @Success 200 {object} dto.ChastityResponse
// @Router /chastity/{id} [put]
func (h *ChastityHandler) UpdateSessionHandler(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}
	body := validatedBody[dto.ChastityRequest](c)

	session, err := h.S.Update(c.Request.Context(), currentUserID(c), id, &body)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, session)
}

// DeleteSessionHandler godoc
// @Summary Delete session
// @Tags chastity
// @Security BearerAuth
// @Param id path int true "Session ID"
// @Success 204
// @Router /chastity/{id} [delete]
func (h *ChastityHandler) DeleteSessionHandler(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}

	if err := h.S.Delete(c.Request.Context(), currentUserID(c), id); err != nil {
		_ = c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}
