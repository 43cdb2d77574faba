package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/paularynty/climaxlog/internal/dto"
	"github.com/paularynty/climaxlog/internal/service"
)

type UserHandler struct {
	S *service.UserService
}

// CreateUserHandler godoc
// @Summary Create user
// @Description Register a new account
// @Tags users
// @Accept json
// @Produce json
// @Param body body dto.CreateUserRequest true "Create user payload"
// @Success 201 {object} dto.UserResponse
// @Failure 409 {object} map[string]string
// @Router /users/ [post]
func (h *UserHandler) CreateUserHandler(c *gin.Context) {
	body := validatedBody[dto.CreateUserRequest](c)

	user, err := h.S.CreateUser(c.Request.Context(), &body)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, user)
}

// LoginUserHandler godoc
// @Summary Login user
// @Description Authenticate with username and password
// @Tags users
// @Accept json
// @Produce json
// @Param body body dto.LoginUserRequest true "Login payload"
// @Success 200 {object} dto.UserWithTokenResponse
// @Failure 401 {object} map[string]string
// @Router /users/login [post]
func (h *UserHandler) LoginUserHandler(c *gin.Context) {
	body := validatedBody[dto.LoginUserRequest](c)

	user, err := h.S.LoginUser(c.Request.Context(), &body)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// GetLoggedUserProfileHandler godoc
// @Summary Get current user
// @Description Returns the authenticated user's profile and settings
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.UserResponse
// @Router /users/me [get]
func (h *UserHandler) GetLoggedUserProfileHandler(c *gin.Context) {
	user, err := h.S.GetUserByID(c.Request.Context(), currentUserID(c))
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// UpdateLoggedUserPasswordHandler godoc
// @Summary Update password
// @Description Change password; every other session is signed out
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.UpdateUserPasswordRequest true "Update password payload"
// @Success 200 {object} dto.UserWithTokenResponse
// @Router /users/password [put]
func (h *UserHandler) UpdateLoggedUserPasswordHandler(c *gin.Context) {
	body := validatedBody[dto.UpdateUserPasswordRequest](c)

	user, err := h.S.UpdateUserPassword(c.Request.Context(), currentUserID(c), &body)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// UpdateLoggedUserProfileHandler godoc
// @Summary Update profile
// @Description Update username and bio
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.UpdateProfileRequest true "Update profile payload"
// @Success 200 {object} dto.UserResponse
// @Router /users/me [put]
func (h *UserHandler) UpdateLoggedUserProfileHandler(c *gin.Context) {
	body := validatedBody[dto.UpdateProfileRequest](c)

	user, err := h.S.UpdateProfile(c.Request.Context(), currentUserID(c), &body)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// UpdateSettingsHandler godoc
// @Summary Update settings
// @Description Update privacy and display settings; absent fields are unchanged
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.UpdateSettingsRequest true "Settings payload"
// @Success 200 {object} dto.UserResponse
// @Router /users/me/settings [patch]
func (h *UserHandler) UpdateSettingsHandler(c *gin.Context) {
	body := validatedBody[dto.UpdateSettingsRequest](c)

	user, err := h.S.UpdateSettings(c.Request.Context(), currentUserID(c), &body)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// DeleteLoggedUserHandler godoc
// @Summary Delete account
// @Description Delete the account with all entries, sessions and follows
// @Tags users
// @Security BearerAuth
// @Success 204
// @Router /users/me [delete]
func (h *UserHandler) DeleteLoggedUserHandler(c *gin.Context) {
	if err := h.S.DeleteUser(c.Request.Context(), currentUserID(c)); err != nil {
		_ = c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}

// LogoutUserHandler godoc
// @Summary Logout
// @Description Revoke every token of the authenticated user
// @Tags users
// @Security BearerAuth
// @Success 204
// @Router /users/logout [delete]
func (h *UserHandler) LogoutUserHandler(c *gin.Context) {
	if err := h.S.LogoutUser(c.Request.Context(), currentUserID(c)); err != nil {
		_ = c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ValidateUserHandler godoc
// @Summary Validate token
// @Description Returns the user id behind a live token
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.UserValidationResponse
// @Router /users/validate [post]
func (h *UserHandler) ValidateUserHandler(c *gin.Context) {
	c.JSON(http.StatusOK, dto.UserValidationResponse{UserID: currentUserID(c)})
}

// SearchUsersHandler godoc
// @Summary Search users
// @Description Public users whose username starts with q
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param q query string true "Username prefix"
// @Success 200 {object} dto.UsersResponse
// @Router /users/search [get]
func (h *UserHandler) SearchUsersHandler(c *gin.Context) {
	query := validatedQuery[dto.SearchUsersQuery](c)

	users, err := h.S.SearchUsers(c.Request.Context(), currentUserID(c), query.Q)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.UsersResponse{Users: users})
}

// GetPublicProfileHandler godoc
// @Summary Public profile
// @Description Profile of a public user, with shared stats
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param username path string true "Username"
// @Param tz query string false "IANA timezone"
// @Success 200 {object} dto.PublicProfileResponse
// @Failure 404 {object} map[string]string
// @Router /users/profile/{username} [get]
func (h *UserHandler) GetPublicProfileHandler(c *gin.Context) {
	query := validatedQuery[dto.StatsQuery](c)

	profile, err := h.S.GetPublicProfile(c.Request.Context(), currentUserID(c), c.Param("username"), query.Tz)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// FollowHandler godoc
// @Summary Follow user
// @Tags social
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 204
// @Failure 409 {object} map[string]string
// @Router /users/{id}/follow [post]
func (h *UserHandler) FollowHandler(c *gin.Context) {
	targetID, err := pathID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}

	if err := h.S.Follow(c.Request.Context(), currentUserID(c), targetID); err != nil {
		_ = c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}

// UnfollowHandler godoc
// @Summary Unfollow user
// @Tags social
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 204
// @Router /users/{id}/follow [delete]
func (h *UserHandler) UnfollowHandler(c *gin.Context) {
	targetID, err := pathID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}

	if err := h.S.Unfollow(c.Request.Context(), currentUserID(c), targetID); err != nil {
		_ = c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}

// GetFollowingHandler godoc
// @Summary Following
// @Description Users the authenticated user follows, with online status
// @Tags social
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.FollowsResponse
// @Router /users/following [get]
func (h *UserHandler) GetFollowingHandler(c *gin.Context) {
	users, err := h.S.GetFollowing(c.Request.Context(), currentUserID(c))
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.FollowsResponse{Users: users})
}

// GetFollowersHandler godoc
// @Summary Followers
// @Tags social
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.FollowsResponse
// @Router /users/followers [get]
func (h *UserHandler) GetFollowersHandler(c *gin.Context) {
	users, err := h.S.GetFollowers(c.Request.Context(), currentUserID(c))
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.FollowsResponse{Users: users})
}
