package middleware

import (
	"errors"
	"time"

	"financeirox/config"

	"github.com/golang-jwt/jwt/v5"
)

const defaultJWTSecret = "financeirox-jwt-secret"

var jwtSecret = []byte(defaultJWTSecret)

// Claims payload do token Bearer
type Claims struct {
	UserID uint   `json:"userId"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// InitJWT define o segredo de assinatura a partir da configuração
func InitJWT(cfg *config.Config) {
	if cfg != nil && cfg.JWT.Secret != "" {
		jwtSecret = []byte(cfg.JWT.Secret)
		return
	}
	jwtSecret = []byte(defaultJWTSecret)
}

// GenerateToken emite um token HS256 válido por ttl
func GenerateToken(userID uint, email string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			Issuer:    "financeirox",
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(jwtSecret)
}

// ParseToken valida assinatura, algoritmo e expiração
func ParseToken(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, errors.New("token vazio")
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("token inválido")
	}
	return claims, nil
}
