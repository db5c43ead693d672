package service

import (
	"github.com/shimssung/moimlog-backend/internal/model"
	"github.com/shimssung/moimlog-backend/pkg/jwt"
)

// TokenService issues and validates access tokens
type TokenService struct {
	jwtService *jwt.Service
}

// NewTokenService creates a new token service
func NewTokenService(jwtService *jwt.Service) *TokenService {
	return &TokenService{jwtService: jwtService}
}

// GenerateAccessToken signs a short-lived access token for a user.
// Returns the token and its lifetime in seconds.
func (s *TokenService) GenerateAccessToken(user *model.User) (string, int, error) {
	token, err := s.jwtService.Sign(jwt.Claims{
		Subject: user.ID,
		UserID:  user.ID,
		Email:   user.Email,
		Name:    user.Name,
	})
	if err != nil {
		return "", 0, err
	}

	return token, int(s.jwtService.GetExpiration().Seconds()), nil
}

// ValidateAccessToken validates an access token and returns its claims
func (s *TokenService) ValidateAccessToken(token string) (*jwt.Claims, error) {
	return s.jwtService.Validate(token)
}
