package routers

import (
	"github.com/gin-gonic/gin"

	"github.com/paularynty/climaxlog/internal/dependency"
	"github.com/paularynty/climaxlog/internal/dto"
	"github.com/paularynty/climaxlog/internal/handler"
	"github.com/paularynty/climaxlog/internal/middleware"
	"github.com/paularynty/climaxlog/internal/service"
)

func UsersRouter(r *gin.RouterGroup, dep *dependency.Dependency) {
	h := &handler.UserHandler{S: service.NewUserService(dep)}

	// Public endpoints
	r.POST("/", middleware.ValidateBody[dto.CreateUserRequest](), h.CreateUserHandler)
	r.POST("/login", middleware.ValidateBody[dto.LoginUserRequest](), h.LoginUserHandler)

	// Authenticated endpoints
	auth := authenticated(r, dep)

	auth.GET("/me", h.GetLoggedUserProfileHandler)
	auth.PUT("/me", middleware.ValidateBody[dto.UpdateProfileRequest](), h.UpdateLoggedUserProfileHandler)
	auth.PATCH("/me/settings", middleware.ValidateBody[dto.UpdateSettingsRequest](), h.UpdateSettingsHandler)
	auth.PUT("/password", middleware.ValidateBody[dto.UpdateUserPasswordRequest](), h.UpdateLoggedUserPasswordHandler)
	auth.DELETE("/logout", h.LogoutUserHandler)
	auth.DELETE("/me", h.DeleteLoggedUserHandler)
	auth.POST("/validate", h.ValidateUserHandler)

	auth.GET("/search", middleware.ValidateQuery[dto.SearchUsersQuery](), h.SearchUsersHandler)
	auth.GET("/profile/:username", middleware.ValidateQuery[dto.StatsQuery](), h.GetPublicProfileHandler)

	auth.GET("/following", h.GetFollowingHandler)
	auth.GET("/followers", h.GetFollowersHandler)
	auth.POST("/follows/:id", h.FollowHandler)
	auth.DELETE("/follows/:id", h.UnfollowHandler)
}
