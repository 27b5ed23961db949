package repositories

import (
	"context"

	"github.com/NWU-Kano/library-service/internal/models"
)

// ===== SHARED FILTER STRUCTS =====

type UserFilters struct {
	Query    string `json:"query"` // matches email, username or name
	IsActive *bool  `json:"is_active"`
	IsStaff  *bool  `json:"is_staff"`
	Limit    int    `json:"limit"`
	Offset   int    `json:"offset"`
}

type BorrowFilters struct {
	// UserID scopes the listing to one owner; nil means all records
	// (staff-only path).
	UserID *uint `json:"user_id"`
	Limit  int   `json:"limit"`
	Offset int   `json:"offset"`
}

// ===== REPOSITORY INTERFACES =====

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	// GetByID loads the user with groups and permissions preloaded.
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByIdentifier(ctx context.Context, emailOrUsername string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	// UpdateFields applies a partial column update without touching relations.
	UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) error
	List(ctx context.Context, filters UserFilters) ([]*models.User, int64, error)

	// Entitlement sync primitives; both are idempotent.
	ReplaceGroups(ctx context.Context, user *models.User, groups []models.Group) error
	ReplacePermissions(ctx context.Context, user *models.User, permissions []models.Permission) error
}

type GroupRepository interface {
	Create(ctx context.Context, group *models.Group) error
	GetByID(ctx context.Context, id uint) (*models.Group, error)
	GetAll(ctx context.Context) ([]models.Group, error)
	Update(ctx context.Context, group *models.Group) error
	Delete(ctx context.Context, id uint) error
	ReplacePermissions(ctx context.Context, group *models.Group, permissions []models.Permission) error
}

type PermissionRepository interface {
	Create(ctx context.Context, permission *models.Permission) error
	GetByID(ctx context.Context, id uint) (*models.Permission, error)
	GetByIDs(ctx context.Context, ids []uint) ([]models.Permission, error)
	GetAll(ctx context.Context) ([]models.Permission, error)
	Update(ctx context.Context, permission *models.Permission) error
	Delete(ctx context.Context, id uint) error
}

type IDCardRepository interface {
	Create(ctx context.Context, card *models.IDCard) error
	GetByID(ctx context.Context, id uint) (*models.IDCard, error)
	GetByUserID(ctx context.Context, userID uint) (*models.IDCard, error)
	Update(ctx context.Context, card *models.IDCard) error
	Delete(ctx context.Context, id uint) error
	// List returns every card, or only the given user's when userID != nil.
	List(ctx context.Context, userID *uint) ([]*models.IDCard, error)
}

type BorrowRepository interface {
	Create(ctx context.Context, record *models.BorrowBook) error
	GetByID(ctx context.Context, id uint) (*models.BorrowBook, error)
	Update(ctx context.Context, record *models.BorrowBook) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, filters BorrowFilters) ([]*models.BorrowBook, int64, error)
}

// CatalogRepository is implemented once, generically, for all four
// approval-gated content types.
type CatalogRepository[T models.CatalogItem] interface {
	Create(ctx context.Context, item *T) error
	GetByID(ctx context.Context, id uint) (*T, error)
	// List returns items newest-first, restricted to approved ones when
	// approvedOnly is set.
	List(ctx context.Context, approvedOnly bool) ([]*T, error)
	Update(ctx context.Context, item *T) error
	Delete(ctx context.Context, id uint) error
	// Approve flips the approved flag; applying it twice is a no-op.
	Approve(ctx context.Context, id uint) error
}

// LookupRepository serves the small name/display-name tables (subjects,
// categories).
type LookupRepository[T any] interface {
	Create(ctx context.Context, item *T) error
	GetByID(ctx context.Context, id uint) (*T, error)
	GetAll(ctx context.Context) ([]*T, error)
	Update(ctx context.Context, item *T) error
	Delete(ctx context.Context, id uint) error
}
