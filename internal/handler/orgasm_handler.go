package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/paularynty/climaxlog/internal/dto"
	"github.com/paularynty/climaxlog/internal/service"
)

type OrgasmHandler struct {
	S *service.OrgasmService
}

// ListOrgasmsHandler godoc
// @Summary List entries
// @Description Entries of the authenticated user ordered by timestamp, optionally within [from, to)
// @Tags orgasms
// @Produce json
// @Security BearerAuth
// @Param from query string false "RFC3339 lower bound"
// @Param to query string false "RFC3339 upper bound"
// @Success 200 {object} dto.OrgasmsResponse
// @Router /orgasms/ [get]
func (h *OrgasmHandler) ListOrgasmsHandler(c *gin.Context) {
	query := validatedQuery[dto.ListOrgasmsQuery](c)

	orgasms, err := h.S.List(c.Request.Context(), currentUserID(c), query.From, query.To)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.OrgasmsResponse{Orgasms: orgasms})
}

// GetOrgasmHandler godoc
// @Summary Get entry
// @Tags orgasms
// @Produce json
// @Security BearerAuth
// @Param id path int true "Entry ID"
// @Success 200 {object} dto.OrgasmResponse
// @Router /orgasms/{id} [get]
func (h *OrgasmHandler) GetOrgasmHandler(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}

	orgasm, err := h.S.Get(c.Request.Context(), currentUserID(c), id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, orgasm)
}

// CreateOrgasmHandler godoc
// @Summary Log entry
// @Tags orgasms
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.OrgasmRequest true "Entry payload"
// @Success 201 {object} dto.OrgasmResponse
// @Router /orgasms/ [post]
func (h *OrgasmHandler) CreateOrgasmHandler(c *gin.Context) {
	body := validatedBody[dto.OrgasmRequest](c)

	orgasm, err := h.S.Create(c.Request.Context(), currentUserID(c), &body)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, orgasm)
}

// UpdateOrgasmHandler godoc
// @Summary Edit entry
// @Tags orgasms
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Entry ID"
// @Param body body dto.OrgasmRequest true "Entry payload"
// @Success 200 {object} dto.OrgasmResponse
// @Router /orgasms/{id} [put]
func (h *OrgasmHandler) UpdateOrgasmHandler(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}
	body := validatedBody[dto.OrgasmRequest](c)

	orgasm, err := h.S.Update(c.Request.Context(), currentUserID(c), id, &body)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, orgasm)
}

// DeleteOrgasmHandler godoc
// @Summary Delete entry
// @Tags orgasms
// @Security BearerAuth
// @Param id path int true "Entry ID"
// @Success 204
// @Router /orgasms/{id} [delete]
func (h *OrgasmHandler) DeleteOrgasmHandler(c *gin.Context) {
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
