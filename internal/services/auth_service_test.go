package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/NWU-Kano/library-service/internal/models"
	"github.com/NWU-Kano/library-service/internal/repositories"
	"github.com/NWU-Kano/library-service/internal/validator"
)

const testPassword = "correct-horse-battery"

func seedAccount(t *testing.T, repo repositories.Repository, active bool) *models.User {
	t.Helper()

	hash, err := hashPassword(testPassword)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}

	user := &models.User{
		Email:        "musa.ibrahim@nwu-kano.edu.ng",
		Username:     "musa.ibrahim",
		FirstName:    "Musa",
		LastName:     "Ibrahim",
		PasswordHash: hash,
		IsActive:     active,
	}
	if err := repo.User().Create(context.Background(), user); err != nil {
		t.Fatalf("Failed to seed account: %v", err)
	}
	return user
}

func newAuthServiceForTest(t *testing.T, repo repositories.Repository, secret string) AuthService {
	t.Helper()
	return NewAuthService(repo, validator.New(), secret, time.Hour, testLogger())
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("ByEmail", func(t *testing.T) {
		repo := newTestRepository(t)
		user := seedAccount(t, repo, true)
		service := newAuthServiceForTest(t, repo, "test-secret")

		resp, err := service.Login(ctx, &LoginRequest{Identifier: user.Email, Password: testPassword})
		if err != nil {
			t.Fatalf("Login failed: %v", err)
		}
		if resp.AccessToken == "" {
			t.Error("Expected a non-empty access token")
		}
		if resp.TokenType != "Bearer" {
			t.Errorf("Token type = %q, want Bearer", resp.TokenType)
		}
		if resp.User == nil || resp.User.ID != user.ID {
			t.Error("Response should carry the authenticated user")
		}

		claims, err := service.ParseToken(resp.AccessToken)
		if err != nil {
			t.Fatalf("ParseToken failed: %v", err)
		}
		if claims.UserID != user.ID {
			t.Errorf("Claims user id = %d, want %d", claims.UserID, user.ID)
		}
		if claims.Email != user.Email {
			t.Errorf("Claims email = %q, want %q", claims.Email, user.Email)
		}
	})

	t.Run("ByUsername", func(t *testing.T) {
		repo := newTestRepository(t)
		user := seedAccount(t, repo, true)
		service := newAuthServiceForTest(t, repo, "test-secret")

		if _, err := service.Login(ctx, &LoginRequest{Identifier: user.Username, Password: testPassword}); err != nil {
			t.Fatalf("Login by username failed: %v", err)
		}
	})

	t.Run("WrongPassword", func(t *testing.T) {
		repo := newTestRepository(t)
		user := seedAccount(t, repo, true)
		service := newAuthServiceForTest(t, repo, "test-secret")

		_, err := service.Login(ctx, &LoginRequest{Identifier: user.Email, Password: "not-the-password"})
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("Expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("UnknownIdentifier", func(t *testing.T) {
		repo := newTestRepository(t)
		service := newAuthServiceForTest(t, repo, "test-secret")

		_, err := service.Login(ctx, &LoginRequest{Identifier: "nobody@nwu-kano.edu.ng", Password: testPassword})
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("Expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("InactiveAccount", func(t *testing.T) {
		repo := newTestRepository(t)
		user := seedAccount(t, repo, false)
		service := newAuthServiceForTest(t, repo, "test-secret")

		_, err := service.Login(ctx, &LoginRequest{Identifier: user.Email, Password: testPassword})
		if !errors.Is(err, ErrAccountInactive) {
			t.Fatalf("Expected ErrAccountInactive, got %v", err)
		}
	})
}

func TestAuthService_ParseToken_RejectsForeignSignature(t *testing.T) {
	repo := newTestRepository(t)
	user := seedAccount(t, repo, true)

	issuer := newAuthServiceForTest(t, repo, "secret-one")
	verifier := newAuthServiceForTest(t, repo, "secret-two")

	resp, err := issuer.Login(context.Background(), &LoginRequest{Identifier: user.Email, Password: testPassword})
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	if _, err := verifier.ParseToken(resp.AccessToken); err == nil {
		t.Fatal("Expected token signed with another secret to be rejected")
	}
}
