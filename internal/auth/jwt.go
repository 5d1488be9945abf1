package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/nekogravitycat/shareit-backend/internal/pkg/clock"
)

const tokenIssuer = "shareit"

// Claims carries the caller identity. The user id travels as the subject.
type Claims struct {
	UserID string `json:"sub"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// JWTManager issues and verifies HS256 access tokens.
type JWTManager struct {
	secret []byte
	ttl    time.Duration
	clock  clock.Clock
}

func NewJWTManager(secret string, ttl time.Duration) *JWTManager {
	return &JWTManager{secret: []byte(secret), ttl: ttl, clock: clock.System{}}
}

// WithClock makes issuing and expiry checks use clk.
func (m *JWTManager) WithClock(clk clock.Clock) *JWTManager {
	if clk != nil {
		m.clock = clk
	}
	return m
}

func (m *JWTManager) GenerateAccessToken(userID, email string) (string, error) {
	now := m.clock.Now()
	claims := &Claims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign access token failed: %w", err)
	}
	return signed, nil
}

func (m *JWTManager) ParseAndValidate(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenStr, claims,
		func(*jwt.Token) (any, error) { return m.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.clock.Now),
	)
	if err != nil {
		return nil, fmt.Errorf("parse access token failed: %w", err)
	}
	if claims.UserID == "" {
		return nil, errors.New("access token has no subject")
	}
	return claims, nil
}
