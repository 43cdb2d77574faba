package jwt

import (
	"time"

	libjwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/paularynty/climaxlog/internal/dependency"
	"github.com/paularynty/climaxlog/internal/dto"
)

const UserTokenType = "USER"

func generateRegisteredClaims(expiration int) libjwt.RegisteredClaims {
	now := time.Now()
	return libjwt.RegisteredClaims{
		ExpiresAt: libjwt.NewNumericDate(now.Add(time.Duration(expiration) * time.Second)),
		IssuedAt:  libjwt.NewNumericDate(now),
		ID:        uuid.New().String(),
	}
}

func SignUserToken(dep *dependency.Dependency, userID uint) (string, error) {
	claims := dto.UserJwtPayload{
		UserID:           userID,
		Type:             UserTokenType,
		RegisteredClaims: generateRegisteredClaims(dep.Cfg.UserTokenAbsoluteExpiry),
	}

	token := libjwt.NewWithClaims(libjwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(dep.Cfg.JwtSecret))
}

func validateToken[T libjwt.Claims](dep *dependency.Dependency, signedToken string, claims T) (T, error) {
	token, err := libjwt.ParseWithClaims(
		signedToken,
		claims,
		func(token *libjwt.Token) (any, error) {
			return []byte(dep.Cfg.JwtSecret), nil
		},
		libjwt.WithValidMethods([]string{libjwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		return claims, err
	}

	if !token.Valid {
		return claims, libjwt.ErrTokenInvalidClaims
	}

	return claims, nil
}

func ValidateUserTokenGeneric(dep *dependency.Dependency, signedToken string) (*dto.UserJwtPayload, error) {
	claims := &dto.UserJwtPayload{}
	parsedClaims, err := validateToken(dep, signedToken, claims)
	if err != nil {
		return nil, err
	}

	if parsedClaims.Type != UserTokenType {
		return nil, libjwt.ErrTokenInvalidClaims
	}

	return parsedClaims, nil
}
