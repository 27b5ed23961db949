package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/NWU-Kano/library-service/internal/models"
	"github.com/NWU-Kano/library-service/internal/repositories"
)

type BorrowPostgreSQL struct {
	db *gorm.DB
}

func NewBorrowPostgreSQL(db *gorm.DB) repositories.BorrowRepository {
	return &BorrowPostgreSQL{db: db}
}

func (r *BorrowPostgreSQL) Create(ctx context.Context, record *models.BorrowBook) error {
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return fmt.Errorf("failed to create borrow record: %w", err)
	}
	return nil
}

func (r *BorrowPostgreSQL) GetByID(ctx context.Context, id uint) (*models.BorrowBook, error) {
	var record models.BorrowBook
	if err := r.db.WithContext(ctx).First(&record, id).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *BorrowPostgreSQL) Update(ctx context.Context, record *models.BorrowBook) error {
	err := r.db.WithContext(ctx).
		Omit("User").
		Save(record).Error
	if err != nil {
		return fmt.Errorf("failed to update borrow record: %w", err)
	}
	return nil
}

func (r *BorrowPostgreSQL) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.BorrowBook{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete borrow record: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *BorrowPostgreSQL) List(ctx context.Context, filters repositories.BorrowFilters) ([]*models.BorrowBook, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.BorrowBook{})

	if filters.UserID != nil {
		query = query.Where("user_id = ?", *filters.UserID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filters.Limit > 0 {
		query = query.Limit(filters.Limit).Offset(filters.Offset)
	}

	var records []*models.BorrowBook
	if err := query.Order("borrow_date DESC").Find(&records).Error; err != nil {
		return nil, 0, err
	}

	return records, total, nil
}
