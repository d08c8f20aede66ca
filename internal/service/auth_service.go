package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/hoyyChoi/yeonseubpun/internal/model"
)

// ErrInvalidToken rejects a missing, malformed, or expired session token.
var ErrInvalidToken = errors.New("invalid or expired token")

// sessionTokenTTL is generous on purpose: the token only scopes anonymous
// drafts and attempts, it gates nothing sensitive.
const sessionTokenTTL = 30 * 24 * time.Hour

// AuthService issues and validates anonymous practice-session tokens so
// drafts and attempts stay scoped to one browser.
type AuthService struct {
	jwtSecret []byte
}

// NewAuthService creates a new auth service.
func NewAuthService(secret string) *AuthService {
	return &AuthService{jwtSecret: []byte(secret)}
}

// CreateSession mints a fresh anonymous identity and its token.
func (s *AuthService) CreateSession() (*model.SessionTokenResponse, error) {
	userID := "user_" + uuid.New().String()[:8]

	claims := &model.UserClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(sessionTokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, err
	}

	return &model.SessionTokenResponse{
		Token:  tokenString,
		UserID: userID,
	}, nil
}

// ValidateToken validates a session JWT and returns its claims.
func (s *AuthService) ValidateToken(tokenString string) (*model.UserClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &model.UserClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*model.UserClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
