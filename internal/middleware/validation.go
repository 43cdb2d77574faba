package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/paularynty/climaxlog/internal/apperror"
	"github.com/paularynty/climaxlog/internal/dto"
)

func ValidateBody[T any]() gin.HandlerFunc {
	return func(c *gin.Context) {
		var body T
		if err := c.ShouldBindJSON(&body); err != nil {
			_ = c.AbortWithError(400, apperror.BadRequest(err.Error()))
			return
		}

		if err := dto.Validate.Struct(&body); err != nil {
			_ = c.AbortWithError(400, err)
			return
		}

		c.Set("validatedBody", body)

		c.Next()
	}
}

func ValidateQuery[T any]() gin.HandlerFunc {
	return func(c *gin.Context) {
		var query T
		if err := c.ShouldBindQuery(&query); err != nil {
			_ = c.AbortWithError(400, apperror.BadRequest(err.Error()))
			return
		}

		if err := dto.Validate.Struct(&query); err != nil {
			_ = c.AbortWithError(400, err)
			return
		}

		c.Set("validatedQuery", query)

		c.Next()
	}
}
