package auth

import (
	"errors"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AccessTokenTTL bounds how long a bearer token stays valid. Session cookies
// outlive it; clients re-read /auth/session to pick up a fresh token.
const AccessTokenTTL = time.Hour

var ErrMissingSessionSecret = errors.New("SESSION_SECRET environment variable is required")

type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

func sessionSecret() (string, error) {
	secret := os.Getenv("SESSION_SECRET")
	if secret == "" {
		return "", ErrMissingSessionSecret
	}
	return secret, nil
}

// NewAccessToken mints a signed HS256 token for the given user.
func NewAccessToken(userID, email string, ttl time.Duration) (string, error) {
	secret, err := sessionSecret()
	if err != nil {
		return "", err
	}

	now := time.Now().UTC()
	claims := Claims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    "visuaforge",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseAccessToken validates a signed token and returns its claims.
func ParseAccessToken(tokenString string) (*Claims, error) {
	secret, err := sessionSecret()
	if err != nil {
		return nil, err
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}
