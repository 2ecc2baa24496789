package service

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/fitmeal/mealplan-backend/internal/types"
)

const (
	tokenIssuer = "mealplan-backend"
	tokenTTL    = 24 * time.Hour
)

// TokenService signs and validates HS256 access tokens.
type TokenService struct {
	jwtSecret []byte
	now       func() time.Time
}

func NewTokenService(jwtSecret string) *TokenService {
	return &TokenService{jwtSecret: []byte(jwtSecret), now: time.Now}
}

// GenerateToken signs claims, filling issuer and validity window when unset.
func (s *TokenService) GenerateToken(claims *types.TokenClaims) (string, error) {
	now := s.now()
	if claims.Issuer == "" {
		claims.Issuer = tokenIssuer
	}
	if claims.Subject == "" {
		claims.Subject = claims.UserID.String()
	}
	if claims.IssuedAt == nil {
		claims.IssuedAt = jwt.NewNumericDate(now)
	}
	if claims.ExpiresAt == nil {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(tokenTTL))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken parses tokenString and returns its claims.
func (s *TokenService) ValidateToken(tokenString string) (*types.TokenClaims, error) {
	claims := &types.TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.UserID == uuid.Nil {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
