package routers

import (
	"github.com/gin-gonic/gin"

	"github.com/paularynty/climaxlog/internal/dependency"
	"github.com/paularynty/climaxlog/internal/dto"
	"github.com/paularynty/climaxlog/internal/handler"
	"github.com/paularynty/climaxlog/internal/middleware"
	"github.com/paularynty/climaxlog/internal/service"
)

func FeedRouter(r *gin.RouterGroup, dep *dependency.Dependency) {
	h := &handler.FeedHandler{S: service.NewFeedService(dep)}

	auth := authenticated(r, dep)

	auth.GET("/", middleware.ValidateQuery[dto.FeedQuery](), h.GetFeedHandler)
}

func DashboardRouter(r *gin.RouterGroup, dep *dependency.Dependency) {
	h := &handler.DashboardHandler{S: service.NewDashboardService(dep)}

	auth := authenticated(r, dep)

	auth.GET("/", h.GetChartsHandler)
	auth.PUT("/", middleware.ValidateBody[dto.DashboardChartsRequest](), h.SetChartsHandler)
}
