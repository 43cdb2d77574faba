package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/paularynty/climaxlog/docs"
	"github.com/paularynty/climaxlog/internal/dependency"
	"github.com/paularynty/climaxlog/internal/dto"
	"github.com/paularynty/climaxlog/internal/routers"
	"github.com/paularynty/climaxlog/internal/util"
)

// @title Climaxlog API
// @version 1.0
// @description Personal logging, statistics and social sharing
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// config
	_ = godotenv.Load()

	logger := util.GetLogger(slog.LevelInfo)

	// init dependency
	dep, err := dependency.InitDependency(logger)
	if err != nil {
		logger.Error("failed to init dependency", "err", err)
		os.Exit(1)
	}
	defer dependency.CloseDependency(dep)

	gin.SetMode(dep.Cfg.GinMode)

	// validator
	dto.InitValidator()

	// router
	r := routers.SetupRouter(dep)

	// Swagger
	r.GET("/api/docs/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))

	if err := r.Run(fmt.Sprintf(":%d", dep.Cfg.Port)); err != nil {
		logger.Error("failed to start server", "err", err)
		dependency.CloseDependency(dep)
		os.Exit(1)
	}
}
