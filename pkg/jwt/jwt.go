package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenType represents the type of JWT token
type TokenType string

const AccessToken TokenType = "access"

// Claims represents the JWT claims structure
type Claims struct {
	UserID    uuid.UUID `json:"user_id"`
	Roles     []string  `json:"roles"`
	TokenType TokenType `json:"token_type"`
	jwt.RegisteredClaims
}

// HasRole reports whether the claims carry the given role
func (c *Claims) HasRole(role string) bool {
	for _, r := range c.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Service signs and validates HS256 access tokens
type Service struct {
	secret            string
	issuer            string
	accessTokenExpiry time.Duration
}

// NewService creates a new JWT service
func NewService(secret, issuer string, accessExpiry time.Duration) *Service {
	return &Service{
		secret:            secret,
		issuer:            issuer,
		accessTokenExpiry: accessExpiry,
	}
}

// GenerateAccessToken generates a new access token
func (s *Service) GenerateAccessToken(userID uuid.UUID, roles []string) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:    userID,
		Roles:     roles,
		TokenType: AccessToken,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    s.issuer,
			Subject:   userID.String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}

	return tokenString, nil
}

// ValidateAccessToken validates and parses an access token
func (s *Service) ValidateAccessToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.secret), nil
	}, jwt.WithIssuer(s.issuer))

	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}

	if claims.TokenType != AccessToken {
		return nil, fmt.Errorf("invalid token type: expected %s, got %s", AccessToken, claims.TokenType)
	}

	return claims, nil
}

// ExtractClaims extracts claims from a token without validation (for debugging)
func (s *Service) ExtractClaims(tokenString string) (*Claims, error) {
	token, _, err := jwt.NewParser().ParseUnverified(tokenString, &Claims{})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}

	return claims, nil
}

// IsTokenExpired checks if a token is expired
func (s *Service) IsTokenExpired(tokenString string) bool {
	expiry, err := s.GetTokenExpiry(tokenString)
	if err != nil {
		return true
	}
	return expiry.Before(time.Now())
}

// GetTokenExpiry returns the expiry time of a token
func (s *Service) GetTokenExpiry(tokenString string) (time.Time, error) {
	claims, err := s.ExtractClaims(tokenString)
	if err != nil {
		return time.Time{}, err
	}

	if claims.ExpiresAt == nil {
		return time.Time{}, fmt.Errorf("token has no expiry time")
	}

	return claims.ExpiresAt.Time, nil
}
