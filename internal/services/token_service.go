package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront/internal/models"
	"storefront/internal/repositories"

	"github.com/dgrijalva/jwt-go"
)

// TokenClaims is the payload carried by both access and refresh tokens.
type TokenClaims struct {
	ID    uint   `json:"id"`
	Email string `json:"email"`
	jwt.StandardClaims
}

// TokenService signs and verifies access and refresh tokens. It keeps no
// server-side token state.
type TokenService struct {
	userRepo      repositories.UserRepository
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

// NewTokenService creates a new TokenService.
func NewTokenService(userRepo repositories.UserRepository, accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *TokenService {
	return &TokenService{
		userRepo:      userRepo,
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

// RefreshTTL is the lifetime of refresh tokens, used for the cookie expiry.
func (s *TokenService) RefreshTTL() time.Duration {
	return s.refreshTTL
}

// IssueAccess signs a short-lived access token for user.
func (s *TokenService) IssueAccess(user *models.User) (string, error) {
	return s.sign(user, s.accessSecret, s.accessTTL)
}

// IssueRefresh signs a refresh token for user.
func (s *TokenService) IssueRefresh(user *models.User) (string, error) {
	return s.sign(user, s.refreshSecret, s.refreshTTL)
}

// VerifyAccess checks signature and expiry of an access token.
func (s *TokenService) VerifyAccess(tokenString string) (*TokenClaims, error) {
	return s.parse(tokenString, s.accessSecret)
}

// VerifyRefresh checks a refresh token and that its user still exists.
func (s *TokenService) VerifyRefresh(ctx context.Context, tokenString string) (*TokenClaims, error) {
	claims, err := s.parse(tokenString, s.refreshSecret)
	if err != nil {
		return nil, err
	}
	if _, err := s.userRepo.GetByID(ctx, claims.ID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("user %d no longer exists: %w", claims.ID, ErrInvalidToken)
		}
		return nil, fmt.Errorf("failed to resolve token user: %w", err)
	}
	return claims, nil
}

func (s *TokenService) sign(user *models.User, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, TokenClaims{
		ID:    user.ID,
		Email: user.Email,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: now.Add(ttl).Unix(),
			IssuedAt:  now.Unix(),
		},
	})

	tokenString, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, nil
}

func (s *TokenService) parse(tokenString string, secret []byte) (*TokenClaims, error) {
	claims := &TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		// Validate the alg is what we expect:
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, ErrInvalidToken)
	}
	if !token.Valid || claims.ID == 0 {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
