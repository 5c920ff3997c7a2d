package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/listinghub/listinghub/internal/identity"
)

const (
	useAccess  = "access"
	useRefresh = "refresh"
	issuer     = "listinghub"
)

var (
	// ErrInvalidToken covers malformed, expired or wrongly signed tokens.
	ErrInvalidToken = errors.New("invalid token")
	// ErrTokenRevoked is returned once the user logged out since issuance.
	ErrTokenRevoked = errors.New("token version invalidated")
)

// Claims represents the JWT claims carried by access and refresh tokens.
type Claims struct {
	UserID  string        `json:"user_id"`
	Role    identity.Role `json:"role"`
	Version int           `json:"ver"`
	Use     string        `json:"use"`
	jwt.RegisteredClaims
}

func sign(user identity.User, use string, secret []byte, now time.Time, ttl time.Duration) (string, time.Time, error) {
	exp := now.Add(ttl)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID:  user.ID,
		Role:    user.Role,
		Version: user.TokenVersion,
		Use:     use,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
			ID:        uuid.NewString(),
		},
	})
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

func parse(tokenString, use string, secret []byte, now time.Time) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return secret, nil
	}, jwt.WithIssuer(issuer), jwt.WithTimeFunc(func() time.Time { return now }))
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || claims.Use != use || claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
