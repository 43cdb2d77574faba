package routers

import (
	"github.com/gin-gonic/gin"

	"github.com/paularynty/climaxlog/internal/dependency"
	"github.com/paularynty/climaxlog/internal/dto"
	"github.com/paularynty/climaxlog/internal/handler"
	"github.com/paularynty/climaxlog/internal/middleware"
	"github.com/paularynty/climaxlog/internal/service"
)

func OrgasmsRouter(r *gin.RouterGroup, dep *dependency.Dependency) {
	h := &handler.OrgasmHandler{S: service.NewOrgasmService(dep)}

	auth := authenticated(r, dep)

	auth.GET("/", middleware.ValidateQuery[dto.ListOrgasmsQuery](), h.ListOrgasmsHandler)
	auth.POST("/", middleware.ValidateBody[dto.OrgasmRequest](), h.CreateOrgasmHandler)
	auth.GET("/:id", h.GetOrgasmHandler)
	auth.PUT("/:id", middleware.ValidateBody[dto.OrgasmRequest](), h.UpdateOrgasmHandler)
	auth.DELETE("/:id", h.DeleteOrgasmHandler)
}

func ChastityRouter(r *gin.RouterGroup, dep *dependency.Dependency) {
	h := &handler.ChastityHandler{S: service.NewChastityService(dep)}

	auth := authenticated(r, dep)

	auth.GET("/", h.ListSessionsHandler)
	auth.POST("/", middleware.ValidateBody[dto.ChastityRequest](), h.CreateSessionHandler)
	auth.GET("/active", h.GetActiveSessionHandler)
	auth.POST("/active/end", h.EndSessionHandler)
	auth.GET("/:id", h.GetSessionHandler)
	auth.PUT("/:id", middleware.ValidateBody[dto.ChastityRequest](), h.UpdateSessionHandler)
	auth.DELETE("/:id", h.DeleteSessionHandler)
}
