package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/NWU-Kano/library-service/internal/cache"
	"github.com/NWU-Kano/library-service/internal/models"
	"github.com/NWU-Kano/library-service/internal/repositories"
)

// CatalogPostgreSQL is the single repository implementation behind all four
// approval-gated content types. The resource name scopes cache keys and the
// preload list pulls in per-type lookup relations.
type CatalogPostgreSQL[T models.CatalogItem] struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
	resource     string
	preloads     []string
}

func NewCatalogPostgreSQL[T models.CatalogItem](db *gorm.DB, cacheManager *cache.CacheManager, resource string, preloads ...string) repositories.CatalogRepository[T] {
	return &CatalogPostgreSQL[T]{
		db:           db,
		cacheManager: cacheManager,
		resource:     resource,
		preloads:     preloads,
	}
}

func (r *CatalogPostgreSQL[T]) withPreloads(db *gorm.DB) *gorm.DB {
	for _, preload := range r.preloads {
		db = db.Preload(preload)
	}
	return db
}

func (r *CatalogPostgreSQL[T]) Create(ctx context.Context, item *T) error {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return fmt.Errorf("failed to create %s: %w", r.resource, err)
	}

	cache.InvalidateCatalogCache(ctx, r.cacheManager, r.resource, (*item).GetID())
	return nil
}

func (r *CatalogPostgreSQL[T]) GetByID(ctx context.Context, id uint) (*T, error) {
	cacheKey := fmt.Sprintf("%s:id:%d", r.resource, id)
	var item T

	err := r.cacheManager.Catalog.CacheOrExecute(ctx, cacheKey, &item, cache.CatalogCacheConfig.TTL, func() (interface{}, error) {
		var dbItem T
		err := r.withPreloads(r.db.WithContext(ctx)).First(&dbItem, id).Error
		if err != nil {
			return nil, err
		}
		return &dbItem, nil
	})
	if err != nil {
		return nil, err
	}

	return &item, nil
}

func (r *CatalogPostgreSQL[T]) List(ctx context.Context, approvedOnly bool) ([]*T, error) {
	query := r.withPreloads(r.db.WithContext(ctx)).Model(new(T))
	if approvedOnly {
		query = query.Where("approved = ?", true)
	}

	var items []*T
	if err := query.Order("created_at DESC").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", r.resource, err)
	}
	return items, nil
}

func (r *CatalogPostgreSQL[T]) Update(ctx context.Context, item *T) error {
	if err := r.db.WithContext(ctx).Save(item).Error; err != nil {
		return fmt.Errorf("failed to update %s: %w", r.resource, err)
	}

	cache.InvalidateCatalogCache(ctx, r.cacheManager, r.resource, (*item).GetID())
	return nil
}

func (r *CatalogPostgreSQL[T]) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(new(T), id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete %s: %w", r.resource, result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	cache.InvalidateCatalogCache(ctx, r.cacheManager, r.resource, id)
	return nil
}

func (r *CatalogPostgreSQL[T]) Approve(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).
		Model(new(T)).
		Where("id = ?", id).
		Update("approved", true)
	if result.Error != nil {
		return fmt.Errorf("failed to approve %s: %w", r.resource, result.Error)
	}
	if result.RowsAffected == 0 {
		// Zero rows can mean either a missing record or an already
		// approved one. Approving twice is a no-op, not an error.
		var item T
		if err := r.db.WithContext(ctx).First(&item, id).Error; err != nil {
			return err
		}
	}

	cache.InvalidateCatalogCache(ctx, r.cacheManager, r.resource, id)
	return nil
}

// LookupPostgreSQL serves the subject and category lookup tables.
type LookupPostgreSQL[T any] struct {
	db       *gorm.DB
	resource string
}

func NewLookupPostgreSQL[T any](db *gorm.DB, resource string) repositories.LookupRepository[T] {
	return &LookupPostgreSQL[T]{db: db, resource: resource}
}

func (r *LookupPostgreSQL[T]) Create(ctx context.Context, item *T) error {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return fmt.Errorf("failed to create %s: %w", r.resource, err)
	}
	return nil
}

func (r *LookupPostgreSQL[T]) GetByID(ctx context.Context, id uint) (*T, error) {
	var item T
	if err := r.db.WithContext(ctx).First(&item, id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *LookupPostgreSQL[T]) GetAll(ctx context.Context) ([]*T, error) {
	var items []*T
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", r.resource, err)
	}
	return items, nil
}

func (r *LookupPostgreSQL[T]) Update(ctx context.Context, item *T) error {
	if err := r.db.WithContext(ctx).Save(item).Error; err != nil {
		return fmt.Errorf("failed to update %s: %w", r.resource, err)
	}
	return nil
}

func (r *LookupPostgreSQL[T]) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(new(T), id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete %s: %w", r.resource, result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
