package utils

import (
	"time"

	"github.com/SscSPs/bizledger_app/internal/core/domain"
	"github.com/golang-jwt/jwt/v5"
)

// AccessClaims are the claims the API expects in a bearer token.
type AccessClaims struct {
	CompanyID   string   `json:"company_id"`
	Permissions []string `json:"permissions"`
	jwt.RegisteredClaims
}

// ActingUser converts the claims into the caller handed to core services.
func (c *AccessClaims) ActingUser() domain.ActingUser {
	perms := make([]domain.Permission, len(c.Permissions))
	for i, p := range c.Permissions {
		perms[i] = domain.Permission(p)
	}
	return domain.ActingUser{UserID: c.Subject, CompanyID: c.CompanyID, Permissions: perms}
}

// GenerateJWT generates a signed access token for the given acting user.
func GenerateJWT(actor domain.ActingUser, secret string, expiryDuration time.Duration, issuer string) (string, error) {
	now := time.Now()
	perms := make([]string, len(actor.Permissions))
	for i, p := range actor.Permissions {
		perms[i] = string(p)
	}
	claims := AccessClaims{
		CompanyID:   actor.CompanyID,
		Permissions: perms,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   actor.UserID,
			ExpiresAt: jwt.NewNumericDate(now.Add(expiryDuration)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseAndValidateJWT parses a token string, validates its signature and standard claims.
func ParseAndValidateJWT(tokenString string, secretKey string) (*AccessClaims, error) {
	claims := &AccessClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secretKey), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrTokenSignatureInvalid
	}

	return claims, nil
}
