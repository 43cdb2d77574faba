package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/paularynty/climaxlog/internal/apperror"
)

// currentUserID is set by middleware.Auth.
func currentUserID(c *gin.Context) uint {
	return c.MustGet("userID").(uint)
}

func validatedBody[T any](c *gin.Context) T {
	return c.MustGet("validatedBody").(T)
}

func validatedQuery[T any](c *gin.Context) T {
	return c.MustGet("validatedQuery").(T)
}

func pathID(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, apperror.BadRequest("invalid " + name)
	}
	return uint(id), nil
}
