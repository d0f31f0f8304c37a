package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims identifies the verified admin on a short-lived session token
// issued by the verify-password endpoint.
type Claims struct {
	AdminID string `json:"adminId"`
	jwt.RegisteredClaims
}

// GenerateAdminToken creates a session token for a verified admin, valid
// for one hour.
func GenerateAdminToken(secret, adminID string) (string, error) {
	if secret == "" {
		return "", errors.New("JWT_SECRET is not configured")
	}
	claims := &Claims{
		AdminID: adminID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ValidateAdminToken validates a session token string.
func ValidateAdminToken(secret, tokenStr string) (*Claims, error) {
	if secret == "" {
		return nil, errors.New("JWT_SECRET is not configured")
	}
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
