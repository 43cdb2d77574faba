package handler

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/paularynty/climaxlog/internal/dto"
	"github.com/paularynty/climaxlog/internal/service"
)

// StatsHandler serves derived statistics. Every endpoint takes an optional tz
// query; without it the user's timezone preference applies.
type StatsHandler struct {
	S *service.StatsService
}

// SummaryHandler godoc
// @Summary Summary
// @Description Totals, streaks and gaps in calendar days
// @Tags stats
// @Produce json
// @Security BearerAuth
// @Param tz query string false "IANA timezone"
// @Success 200 {object} stats.Summary
// @Router /stats/summary [get]
func (h *StatsHandler) SummaryHandler(c *gin.Context) {
	query := validatedQuery[dto.StatsQuery](c)

	summary, err := h.S.Summary(c.Request.Context(), currentUserID(c), query.Tz)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// PeriodsHandler godoc
// @Summary Period comparison
// @Description Current period against the previous one and the average of full periods
// @Tags stats
// @Produce json
// @Security BearerAuth
// @Param tz query string false "IANA timezone"
// @Param granularity query string false "year, month or week"
// @Success 200 {object} stats.PeriodComparison
// @Router /stats/periods [get]
func (h *StatsHandler) PeriodsHandler(c *gin.Context) {
	query := validatedQuery[dto.PeriodsQuery](c)

	comparison, err := h.S.Periods(c.Request.Context(), currentUserID(c), query.Tz, query.Granularity)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, comparison)
}

// HeatmapHandler godoc
// @Summary Daily heatmap
// @Tags stats
// @Produce json
// @Security BearerAuth
// @Param tz query string false "IANA timezone"
// @Param year query int false "Year, defaults to the current one"
// @Success 200 {object} stats.Heatmap
// @Router /stats/heatmap [get]
func (h *StatsHandler) HeatmapHandler(c *gin.Context) {
	query := validatedQuery[dto.YearQuery](c)

	heatmap, err := h.S.Heatmap(c.Request.Context(), currentUserID(c), query.Tz, query.Year)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, heatmap)
}

// HeatmapChartHandler godoc
// @Summary Daily heatmap page
// @Description The heatmap rendered as a standalone HTML chart
// @Tags stats
// @Produce html
// @Security BearerAuth
// @Param tz query string false "IANA timezone"
// @Param year query int false "Year, defaults to the current one"
// @Success 200 {string} string
// @Router /stats/heatmap/chart [get]
func (h *StatsHandler) HeatmapChartHandler(c *gin.Context) {
	query := validatedQuery[dto.YearQuery](c)

	var page bytes.Buffer
	if err := h.S.HeatmapChart(c.Request.Context(), currentUserID(c), query.Tz, query.Year, &page); err != nil {
		_ = c.Error(err)
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", page.Bytes())
}

// MonthHandler godoc
// @Summary Month calendar
// @Description 6x7 grid with counts and days spent locked
// @Tags stats
// @Produce json
// @Security BearerAuth
// @Param tz query string false "IANA timezone"
// @Param year query int false "Year"
// @Param month query int false "Month 1-12"
// @Success 200 {object} stats.MonthCalendar
// @Router /stats/month [get]
func (h *StatsHandler) MonthHandler(c *gin.Context) {
	query := validatedQuery[dto.MonthQuery](c)

	calendar, err := h.S.Month(c.Request.Context(), currentUserID(c), query.Tz, query.Year, query.Month)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, calendar)
}

// WeeklyHandler godoc
// @Summary Weekly blocks
// @Description One block per ISO week
// @Tags stats
// @Produce json
// @Security BearerAuth
// @Param tz query string false "IANA timezone"
// @Param year query int false "ISO year"
// @Success 200 {array} stats.WeekBlock
// @Router /stats/weekly [get]
func (h *StatsHandler) WeeklyHandler(c *gin.Context) {
	query := validatedQuery[dto.YearQuery](c)

	weeks, err := h.S.Weekly(c.Request.Context(), currentUserID(c), query.Tz, query.Year)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, weeks)
}

// DayHourHandler godoc
// @Summary Weekday by hour
// @Tags stats
// @Produce json
// @Security BearerAuth
// @Param tz query string false "IANA timezone"
// @Param bin query int false "Hours per column, 1 or 3"
// @Success 200 {object} stats.HourGrid
// @Router /stats/dayhour [get]
func (h *StatsHandler) DayHourHandler(c *gin.Context) {
	query := validatedQuery[dto.DayHourQuery](c)

	grid, err := h.S.DayHour(c.Request.Context(), currentUserID(c), query.Tz, query.Bin)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, grid)
}

// RadialHandler godoc
// @Summary Time of day
// @Description 96 quarter-hour slots
// @Tags stats
// @Produce json
// @Security BearerAuth
// @Param tz query string false "IANA timezone"
// @Success 200 {array} stats.RadialSlot
// @Router /stats/radial [get]
func (h *StatsHandler) RadialHandler(c *gin.Context) {
	query := validatedQuery[dto.StatsQuery](c)

	slots, err := h.S.Radial(c.Request.Context(), currentUserID(c), query.Tz)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, slots)
}

// ReviewHandler godoc
// @Summary Year in review
// @Tags stats
// @Produce json
// @Security BearerAuth
// @Param tz query string false "IANA timezone"
// @Param year query int false "Year"
// @Success 200 {object} stats.YearReview
// @Router /stats/review [get]
func (h *StatsHandler) ReviewHandler(c *gin.Context) {
	query := validatedQuery[dto.YearQuery](c)

	review, err := h.S.Review(c.Request.Context(), currentUserID(c), query.Tz, query.Year)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, review)
}

// ReviewChartHandler godoc
// @Summary Year in review page
// @Description The review rendered as a standalone HTML page of charts
// @Tags stats
// @Produce html
// @Security BearerAuth
// @Param tz query string false "IANA timezone"
// @Param year query int false "Year"
// @Success 200 {string} string
// @Router /stats/review/chart [get]
func (h *StatsHandler) ReviewChartHandler(c *gin.Context) {
	query := validatedQuery[dto.YearQuery](c)

	var page bytes.Buffer
	if err := h.S.ReviewChart(c.Request.Context(), currentUserID(c), query.Tz, query.Year, &page); err != nil {
		_ = c.Error(err)
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", page.Bytes())
}
