package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/NWU-Kano/library-service/internal/models"
	"github.com/NWU-Kano/library-service/internal/repositories"
	"github.com/NWU-Kano/library-service/internal/validator"
)

// ===== REQUEST/RESPONSE DTOs =====

type LoginRequest = validator.LoginRequest

type TokenResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresIn   int64        `json:"expires_in"`
	User        *models.User `json:"user"`
}

// AccessClaims is the JWT payload issued on login.
type AccessClaims struct {
	UserID      uint   `json:"uid"`
	Email       string `json:"email"`
	IsStaff     bool   `json:"is_staff"`
	IsSuperuser bool   `json:"is_superuser"`
	jwt.RegisteredClaims
}

// ===== SERVICE INTERFACE =====

type AuthService interface {
	// Login exchanges an email-or-username plus password for a signed token.
	// Inactive accounts cannot log in.
	Login(ctx context.Context, req *LoginRequest) (*TokenResponse, error)

	// ParseToken verifies a token and returns its claims.
	ParseToken(tokenString string) (*AccessClaims, error)
}

// ===== SERVICE IMPLEMENTATION =====

type authService struct {
	repo      repositories.Repository
	validator *validator.Validator
	secret    []byte
	tokenTTL  time.Duration
	logger    *slog.Logger
}

func NewAuthService(repo repositories.Repository, v *validator.Validator, secret string, tokenTTL time.Duration, logger *slog.Logger) AuthService {
	return &authService{
		repo:      repo,
		validator: v,
		secret:    []byte(secret),
		tokenTTL:  tokenTTL,
		logger:    logger,
	}
}

func (s *authService) Login(ctx context.Context, req *LoginRequest) (*TokenResponse, error) {
	if errs := s.validator.Validate(req); len(errs) > 0 {
		return nil, errs
	}

	user, err := s.repo.User().GetByIdentifier(ctx, req.Identifier)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, ErrAccountInactive
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("User logged in", "user_id", user.ID)

	return &TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.tokenTTL.Seconds()),
		User:        user,
	}, nil
}

func (s *authService) issueToken(user *models.User) (string, error) {
	now := time.Now().UTC()
	claims := AccessClaims{
		UserID:      user.ID,
		Email:       user.Email,
		IsStaff:     user.IsStaff,
		IsSuperuser: user.IsSuperuser,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", user.ID),
			Issuer:    "library-service",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (s *authService) ParseToken(tokenString string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, ErrUnauthorized
	}
	return claims, nil
}
