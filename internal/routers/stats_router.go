package routers

import (
	"github.com/gin-gonic/gin"

	"github.com/paularynty/climaxlog/internal/dependency"
	"github.com/paularynty/climaxlog/internal/dto"
	"github.com/paularynty/climaxlog/internal/handler"
	"github.com/paularynty/climaxlog/internal/middleware"
	"github.com/paularynty/climaxlog/internal/service"
)

func StatsRouter(r *gin.RouterGroup, dep *dependency.Dependency) {
	h := &handler.StatsHandler{S: service.NewStatsService(dep)}

	auth := authenticated(r, dep)

	auth.GET("/summary", middleware.ValidateQuery[dto.StatsQuery](), h.SummaryHandler)
	auth.GET("/periods", middleware.ValidateQuery[dto.PeriodsQuery](), h.PeriodsHandler)
	auth.GET("/heatmap", middleware.ValidateQuery[dto.YearQuery](), h.HeatmapHandler)
	auth.GET("/heatmap/chart", middleware.ValidateQuery[dto.YearQuery](), h.HeatmapChartHandler)
	auth.GET("/month", middleware.ValidateQuery[dto.MonthQuery](), h.MonthHandler)
	auth.GET("/weekly", middleware.ValidateQuery[dto.YearQuery](), h.WeeklyHandler)
	auth.GET("/dayhour", middleware.ValidateQuery[dto.DayHourQuery](), h.DayHourHandler)
	auth.GET("/radial", middleware.ValidateQuery[dto.StatsQuery](), h.RadialHandler)
	auth.GET("/review", middleware.ValidateQuery[dto.YearQuery](), h.ReviewHandler)
	auth.GET("/review/chart", middleware.ValidateQuery[dto.YearQuery](), h.ReviewChartHandler)
}
