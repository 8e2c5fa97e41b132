package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/ClaudioDevv/e-commerce/models"
	"github.com/golang-jwt/jwt/v5"
)

// RoleGuest marks tokens handed to visitors without an account.
const RoleGuest = "guest"

type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email,omitempty"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Actor maps the claims to the caller of a service operation. Guest tokens
// carry no account.
func (c *Claims) Actor() models.Actor {
	if c.Role == RoleGuest {
		return models.Actor{}
	}
	role := c.Role
	if role == "" {
		role = models.RoleCustomer
	}
	return models.Actor{UserID: c.UserID, Role: role}
}

// IssueToken signs an HS256 token for userID that expires after ttl.
func IssueToken(secret, userID, email, role string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		Email:  email,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// ParseToken validates an HS256 token and returns its claims.
func ParseToken(secret, tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.UserID == "" && claims.Role != RoleGuest {
		return nil, errors.New("token has no user_id")
	}
	return claims, nil
}
