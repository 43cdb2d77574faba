package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/paularynty/climaxlog/internal/apperror"
	"github.com/paularynty/climaxlog/internal/dto"
)

func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err

		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			c.AbortWithStatusJSON(appErr.Status, gin.H{
				"error": appErr.Message,
			})
			return
		}

		var validationErr validator.ValidationErrors
		if errors.As(err, &validationErr) {
			messages := make([]string, 0, len(validationErr))
			for _, fe := range validationErr {
				if dto.Trans != nil {
					messages = append(messages, fe.Translate(dto.Trans))
				} else {
					messages = append(messages, fe.Error())
				}
			}
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error": messages,
			})
			return
		}

		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error": "Internal Server Error",
		})
	}
}

func PanicHandler() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error": "Internal Server Error",
		})
	})
}
