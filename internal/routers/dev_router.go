package routers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/paularynty/climaxlog/internal/db"
	"github.com/paularynty/climaxlog/internal/dependency"
)

func DevRouter(r *gin.RouterGroup, dep *dependency.Dependency) {
	if dep.Cfg.GinMode != "debug" {
		return
	}

	r.GET("/reset", func(c *gin.Context) {
		if err := db.ResetDB(c.Request.Context(), dep.DB, dep.Logger); err != nil {
			_ = c.Error(err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})
}
