package postgres

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/NWU-Kano/library-service/internal/cache"
	"github.com/NWU-Kano/library-service/internal/models"
	"github.com/NWU-Kano/library-service/internal/repositories"
)

type UserPostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewUserPostgreSQL(db *gorm.DB, cacheManager *cache.CacheManager) repositories.UserRepository {
	return &UserPostgreSQL{
		db:           db,
		cacheManager: cacheManager,
	}
}

func (u *UserPostgreSQL) Create(ctx context.Context, user *models.User) error {
	if err := u.db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (u *UserPostgreSQL) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := u.db.WithContext(ctx).
		Preload("Groups.Permissions").
		Preload("Permissions").
		First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (u *UserPostgreSQL) GetByIdentifier(ctx context.Context, emailOrUsername string) (*models.User, error) {
	var user models.User
	err := u.db.WithContext(ctx).
		Preload("Groups.Permissions").
		Preload("Permissions").
		Where("email = ? OR username = ?", emailOrUsername, emailOrUsername).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (u *UserPostgreSQL) Update(ctx context.Context, user *models.User) error {
	// Save without touching m2m association rows; those are managed
	// explicitly through ReplaceGroups/ReplacePermissions.
	err := u.db.WithContext(ctx).
		Omit("Groups", "Permissions").
		Save(user).Error
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	cache.InvalidateUserCache(ctx, u.cacheManager, user.ID)
	return nil
}

func (u *UserPostgreSQL) UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) error {
	err := u.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Updates(fields).Error
	if err != nil {
		return fmt.Errorf("failed to update user fields: %w", err)
	}

	cache.InvalidateUserCache(ctx, u.cacheManager, id)
	return nil
}

func (u *UserPostgreSQL) List(ctx context.Context, filters repositories.UserFilters) ([]*models.User, int64, error) {
	query := u.db.WithContext(ctx).Model(&models.User{})

	if filters.Query != "" {
		pattern := "%" + strings.ToLower(filters.Query) + "%"
		query = query.Where(
			"LOWER(email) LIKE ? OR LOWER(username) LIKE ? OR LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ?",
			pattern, pattern, pattern, pattern,
		)
	}
	if filters.IsActive != nil {
		query = query.Where("is_active = ?", *filters.IsActive)
	}
	if filters.IsStaff != nil {
		query = query.Where("is_staff = ?", *filters.IsStaff)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filters.Limit > 0 {
		query = query.Limit(filters.Limit).Offset(filters.Offset)
	}

	var users []*models.User
	err := query.
		Preload("Groups").
		Preload("Permissions").
		Order("created_at DESC").
		Find(&users).Error
	if err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

func (u *UserPostgreSQL) ReplaceGroups(ctx context.Context, user *models.User, groups []models.Group) error {
	err := u.db.WithContext(ctx).
		Model(user).
		Association("Groups").
		Replace(groupPointers(groups)...)
	if err != nil {
		return fmt.Errorf("failed to replace user groups: %w", err)
	}

	user.Groups = groups
	cache.InvalidateUserCache(ctx, u.cacheManager, user.ID)
	return nil
}

func (u *UserPostgreSQL) ReplacePermissions(ctx context.Context, user *models.User, permissions []models.Permission) error {
	err := u.db.WithContext(ctx).
		Model(user).
		Association("Permissions").
		Replace(permissionPointers(permissions)...)
	if err != nil {
		return fmt.Errorf("failed to replace user permissions: %w", err)
	}

	user.Permissions = permissions
	cache.InvalidateUserCache(ctx, u.cacheManager, user.ID)
	return nil
}

func groupPointers(groups []models.Group) []interface{} {
	out := make([]interface{}, len(groups))
	for i := range groups {
		out[i] = &groups[i]
	}
	return out
}

func permissionPointers(permissions []models.Permission) []interface{} {
	out := make([]interface{}, len(permissions))
	for i := range permissions {
		out[i] = &permissions[i]
	}
	return out
}
