package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/NWU-Kano/library-service/internal/models"
	"github.com/NWU-Kano/library-service/internal/repositories"
)

type GroupPostgreSQL struct {
	db *gorm.DB
}

func NewGroupPostgreSQL(db *gorm.DB) repositories.GroupRepository {
	return &GroupPostgreSQL{db: db}
}

func (g *GroupPostgreSQL) Create(ctx context.Context, group *models.Group) error {
	if err := g.db.WithContext(ctx).Create(group).Error; err != nil {
		return fmt.Errorf("failed to create group: %w", err)
	}
	return nil
}

func (g *GroupPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Group, error) {
	var group models.Group
	err := g.db.WithContext(ctx).
		Preload("Permissions").
		First(&group, id).Error
	if err != nil {
		return nil, err
	}
	return &group, nil
}

func (g *GroupPostgreSQL) GetAll(ctx context.Context) ([]models.Group, error) {
	var groups []models.Group
	err := g.db.WithContext(ctx).
		Preload("Permissions").
		Order("name ASC").
		Find(&groups).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	return groups, nil
}

func (g *GroupPostgreSQL) Update(ctx context.Context, group *models.Group) error {
	err := g.db.WithContext(ctx).
		Omit("Permissions").
		Save(group).Error
	if err != nil {
		return fmt.Errorf("failed to update group: %w", err)
	}
	return nil
}

func (g *GroupPostgreSQL) Delete(ctx context.Context, id uint) error {
	result := g.db.WithContext(ctx).Delete(&models.Group{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete group: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (g *GroupPostgreSQL) ReplacePermissions(ctx context.Context, group *models.Group, permissions []models.Permission) error {
	err := g.db.WithContext(ctx).
		Model(group).
		Association("Permissions").
		Replace(permissionPointers(permissions)...)
	if err != nil {
		return fmt.Errorf("failed to replace group permissions: %w", err)
	}

	group.Permissions = permissions
	return nil
}

type PermissionPostgreSQL struct {
	db *gorm.DB
}

func NewPermissionPostgreSQL(db *gorm.DB) repositories.PermissionRepository {
	return &PermissionPostgreSQL{db: db}
}

func (p *PermissionPostgreSQL) Create(ctx context.Context, permission *models.Permission) error {
	if err := p.db.WithContext(ctx).Create(permission).Error; err != nil {
		return fmt.Errorf("failed to create permission: %w", err)
	}
	return nil
}

func (p *PermissionPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Permission, error) {
	var permission models.Permission
	if err := p.db.WithContext(ctx).First(&permission, id).Error; err != nil {
		return nil, err
	}
	return &permission, nil
}

func (p *PermissionPostgreSQL) GetByIDs(ctx context.Context, ids []uint) ([]models.Permission, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var permissions []models.Permission
	err := p.db.WithContext(ctx).Where("id IN ?", ids).Find(&permissions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get permissions: %w", err)
	}
	if len(permissions) != len(ids) {
		return nil, gorm.ErrRecordNotFound
	}
	return permissions, nil
}

func (p *PermissionPostgreSQL) GetAll(ctx context.Context) ([]models.Permission, error) {
	var permissions []models.Permission
	err := p.db.WithContext(ctx).Order("codename ASC").Find(&permissions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list permissions: %w", err)
	}
	return permissions, nil
}

func (p *PermissionPostgreSQL) Update(ctx context.Context, permission *models.Permission) error {
	if err := p.db.WithContext(ctx).Save(permission).Error; err != nil {
		return fmt.Errorf("failed to update permission: %w", err)
	}
	return nil
}

func (p *PermissionPostgreSQL) Delete(ctx context.Context, id uint) error {
	result := p.db.WithContext(ctx).Delete(&models.Permission{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete permission: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
