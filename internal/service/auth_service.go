package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"schedule-service/internal/model"
	"schedule-service/internal/repository"
)

var ErrInvalidCredentials = errors.New("invalid username or password")

// Claims is the JWT payload. Subject carries the user id.
type Claims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

func (c *Claims) UserID() (uuid.UUID, error) {
	return uuid.Parse(c.Subject)
}

type AuthService struct {
	users  *repository.UserRepository
	secret []byte
	ttl    time.Duration
	logger *zap.Logger
}

func NewAuthService(users *repository.UserRepository, secret string, ttl time.Duration, logger *zap.Logger) *AuthService {
	return &AuthService{
		users:  users,
		secret: []byte(secret),
		ttl:    ttl,
		logger: logger,
	}
}

// Login checks the password and issues a signed token. The same
// ErrInvalidCredentials covers unknown user and wrong password.
func (s *AuthService) Login(username, password string) (string, model.User, error) {
	user, err := s.users.FindByUsername(username)
	if err != nil {
		return "", model.User{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", model.User{}, ErrInvalidCredentials
	}

	token, err := s.CreateToken(user)
	if err != nil {
		return "", model.User{}, err
	}

	s.logger.Info("user logged in", zap.String("username", username))
	return token, user, nil
}

func (s *AuthService) CreateToken(user model.User) (string, error) {
	now := time.Now()
	claims := &Claims{
		Username: user.Username,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// ValidateToken verifies signature and expiry before any state is
// touched; callers reject the request or connection on error.
func (s *AuthService) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}
