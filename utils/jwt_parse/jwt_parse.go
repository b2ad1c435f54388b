package jwt_parse

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/joy095/fixitnow/models/user_models"
)

var (
	ErrMissingToken  = errors.New("no authorization token")
	ErrInvalidFormat = errors.New("invalid authorization format")
	ErrInvalidClaims = errors.New("invalid token claims")
)

// Claims carried by an access token issued by the identity provider.
type Claims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" header.
func BearerToken(authHeader string) (string, error) {
	if authHeader == "" {
		return "", ErrMissingToken
	}
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "bearer ") {
		if token := strings.TrimSpace(authHeader[7:]); token != "" {
			return token, nil
		}
	}
	return "", ErrInvalidFormat
}

// ParseToken validates an HS256 token and returns the principal it names.
// Tokens without an expiry are rejected.
func ParseToken(secret []byte, tokenString string) (user_models.Principal, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return user_models.Principal{}, fmt.Errorf("invalid token: %w", err)
	}
	if !token.Valid {
		return user_models.Principal{}, ErrInvalidClaims
	}

	subject := claims.UserID
	if subject == "" {
		subject = claims.Subject
	}
	userID, err := uuid.Parse(subject)
	if err != nil {
		return user_models.Principal{}, fmt.Errorf("%w: user_id", ErrInvalidClaims)
	}
	role, err := user_models.ParseRole(claims.Role)
	if err != nil {
		return user_models.Principal{}, fmt.Errorf("%w: role", ErrInvalidClaims)
	}
	return user_models.Principal{UserID: userID, Role: role}, nil
}

// GenerateToken signs an access token for p. Used by tests and the dev
// token tool; production tokens come from the identity provider.
func GenerateToken(secret []byte, p user_models.Principal, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: p.UserID.String(),
		Role:   string(p.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.UserID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}
