package postgres

import (
	"context"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/NWU-Kano/library-service/internal/cache"
	"github.com/NWU-Kano/library-service/internal/models"
	"github.com/NWU-Kano/library-service/internal/repositories"
	"github.com/NWU-Kano/library-service/pkg"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get database handle: %v", err)
	}
	// The in-memory database lives per connection.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := pkg.Migrate(db); err != nil {
		t.Fatalf("Failed to migrate test schema: %v", err)
	}

	return db
}

func TestUserPostgreSQL_List(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewUserPostgreSQL(db, cache.NewCacheManager(nil))

	seed := []*models.User{
		{Email: "amina.bello@nwu-kano.edu.ng", Username: "amina.bello", FirstName: "Amina", LastName: "Bello", PasswordHash: "x", IsActive: true},
		{Email: "musa.ibrahim@nwu-kano.edu.ng", Username: "musa.ibrahim", FirstName: "Musa", LastName: "Ibrahim", PasswordHash: "x"},
		{Email: "librarian@nwu-kano.edu.ng", Username: "librarian", FirstName: "Hadiza", LastName: "Sani", PasswordHash: "x", IsActive: true, IsStaff: true},
	}
	for _, u := range seed {
		if err := repo.Create(ctx, u); err != nil {
			t.Fatalf("Failed to seed user %s: %v", u.Email, err)
		}
	}

	t.Run("QueryMatchesCaseInsensitively", func(t *testing.T) {
		users, total, err := repo.List(ctx, repositories.UserFilters{Query: "AMINA"})
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if total != 1 || len(users) != 1 {
			t.Fatalf("Expected 1 match, got total=%d len=%d", total, len(users))
		}
		if users[0].Username != "amina.bello" {
			t.Errorf("Expected amina.bello, got %s", users[0].Username)
		}
	})

	t.Run("QueryMatchesLastName", func(t *testing.T) {
		users, total, err := repo.List(ctx, repositories.UserFilters{Query: "sani"})
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if total != 1 || len(users) != 1 || users[0].Username != "librarian" {
			t.Fatalf("Expected the librarian, got total=%d users=%v", total, users)
		}
	})

	t.Run("QueryCombinesWithFlagFilters", func(t *testing.T) {
		active := true
		users, total, err := repo.List(ctx, repositories.UserFilters{Query: "nwu-kano", IsActive: &active})
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if total != 2 || len(users) != 2 {
			t.Fatalf("Expected 2 active matches, got total=%d len=%d", total, len(users))
		}
	})

	t.Run("NoMatch", func(t *testing.T) {
		users, total, err := repo.List(ctx, repositories.UserFilters{Query: "zainab"})
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if total != 0 || len(users) != 0 {
			t.Errorf("Expected no matches, got total=%d len=%d", total, len(users))
		}
	})
}
