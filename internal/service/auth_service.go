package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"callpulse/internal/model"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

// AuthService issues and validates ops dashboard tokens. The webhook path
// never touches this; it authenticates via the provider signature instead.
type AuthService struct {
	opsUsername string
	opsPassword string
	jwtSecret   []byte
}

// NewAuthService creates a new auth service.
func NewAuthService(username, password, jwtSecret string) *AuthService {
	return &AuthService{
		opsUsername: username,
		opsPassword: password,
		jwtSecret:   []byte(jwtSecret),
	}
}

// Login validates ops credentials and returns a token.
func (s *AuthService) Login(username, password string) (*model.LoginResponse, error) {
	if username != s.opsUsername || password != s.opsPassword {
		return nil, ErrInvalidCredentials
	}

	opsID := "ops_" + uuid.New().String()[:8]

	claims := &model.OpsClaims{
		OpsID: opsID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, err
	}

	return &model.LoginResponse{
		Token: tokenString,
		OpsID: opsID,
	}, nil
}

// ValidateToken validates an ops JWT and returns its claims.
func (s *AuthService) ValidateToken(tokenString string) (*model.OpsClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &model.OpsClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*model.OpsClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
