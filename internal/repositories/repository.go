package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/NWU-Kano/library-service/internal/models"
)

// Repository aggregates all repository interfaces.
type Repository interface {
	// Identity domain
	User() UserRepository
	Group() GroupRepository
	Permission() PermissionRepository
	IDCard() IDCardRepository

	// Circulation domain
	Borrow() BorrowRepository

	// Catalog domain
	EBook() CatalogRepository[models.EBook]
	EJournal() CatalogRepository[models.EJournal]
	Resource() CatalogRepository[models.Resource]
	Newspaper() CatalogRepository[models.Newspaper]
	Subject() LookupRepository[models.Subject]
	Category() LookupRepository[models.Category]

	// WithTransaction runs fn against a transaction-bound Repository;
	// returning an error rolls everything back.
	WithTransaction(ctx context.Context, fn func(Repository) error) error

	Ping(ctx context.Context) error
	Close() error
}

// RepositoryManager manages repository lifecycle.
type RepositoryManager interface {
	Initialize() error
	GetRepository() Repository
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}

// IsNotFoundError reports whether err is a missing-record error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// IsDuplicateError reports whether err is a uniqueness violation.
func IsDuplicateError(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
