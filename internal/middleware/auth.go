package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/paularynty/climaxlog/internal/apperror"
	"github.com/paularynty/climaxlog/internal/dependency"
	"github.com/paularynty/climaxlog/internal/util/jwt"
)

const PrefixBearer = "Bearer "

// TokenValidator checks that a signed token is still live in the token store.
type TokenValidator interface {
	ValidateUserToken(ctx context.Context, token string, userID uint) error
}

func Auth(dep *dependency.Dependency, validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")

		if authHeader == "" || !strings.HasPrefix(authHeader, PrefixBearer) {
			_ = c.AbortWithError(401, apperror.Unauthorized("Invalid or expired token"))
			return
		}

		tokenString := authHeader[len(PrefixBearer):]

		userJwtPayload, err := jwt.ValidateUserTokenGeneric(dep, tokenString)
		if err != nil {
			_ = c.AbortWithError(401, apperror.Unauthorized("Invalid or expired token"))
			return
		}

		if err := validator.ValidateUserToken(c.Request.Context(), tokenString, userJwtPayload.UserID); err != nil {
			_ = c.AbortWithError(401, err)
			return
		}

		c.Set("userID", userJwtPayload.UserID)
		c.Set("token", tokenString)

		c.Next()
	}
}
