package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/NWU-Kano/library-service/internal/models"
	"github.com/NWU-Kano/library-service/internal/repositories"
)

type IDCardPostgreSQL struct {
	db *gorm.DB
}

func NewIDCardPostgreSQL(db *gorm.DB) repositories.IDCardRepository {
	return &IDCardPostgreSQL{db: db}
}

func (r *IDCardPostgreSQL) Create(ctx context.Context, card *models.IDCard) error {
	if err := r.db.WithContext(ctx).Create(card).Error; err != nil {
		return fmt.Errorf("failed to create id card: %w", err)
	}
	return nil
}

func (r *IDCardPostgreSQL) GetByID(ctx context.Context, id uint) (*models.IDCard, error) {
	var card models.IDCard
	err := r.db.WithContext(ctx).
		Preload("User").
		First(&card, id).Error
	if err != nil {
		return nil, err
	}
	return &card, nil
}

func (r *IDCardPostgreSQL) GetByUserID(ctx context.Context, userID uint) (*models.IDCard, error) {
	var card models.IDCard
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("user_id = ?", userID).
		First(&card).Error
	if err != nil {
		return nil, err
	}
	return &card, nil
}

func (r *IDCardPostgreSQL) Update(ctx context.Context, card *models.IDCard) error {
	err := r.db.WithContext(ctx).
		Omit("User").
		Save(card).Error
	if err != nil {
		return fmt.Errorf("failed to update id card: %w", err)
	}
	return nil
}

func (r *IDCardPostgreSQL) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.IDCard{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete id card: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *IDCardPostgreSQL) List(ctx context.Context, userID *uint) ([]*models.IDCard, error) {
	query := r.db.WithContext(ctx).Preload("User")
	if userID != nil {
		query = query.Where("user_id = ?", *userID)
	}

	var cards []*models.IDCard
	if err := query.Order("issued_date DESC").Find(&cards).Error; err != nil {
		return nil, fmt.Errorf("failed to list id cards: %w", err)
	}
	return cards, nil
}
