package services

import (
	"context"
	"log/slog"

	"github.com/NWU-Kano/library-service/internal/models"
	"github.com/NWU-Kano/library-service/internal/repositories"
)

// IDCardService exposes the derived card records. Cards are issued and
// synced by the user lifecycle, so only reads and a staff-only delete are
// offered here.
type IDCardService interface {
	Get(ctx context.Context, actor *models.User, id uint) (*models.IDCard, error)
	GetOwn(ctx context.Context, actor *models.User) (*models.IDCard, error)
	List(ctx context.Context, actor *models.User) ([]*models.IDCard, error)
	Delete(ctx context.Context, actor *models.User, id uint) error
}

type idCardService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewIDCardService(repo repositories.Repository, logger *slog.Logger) IDCardService {
	return &idCardService{repo: repo, logger: logger}
}

func (s *idCardService) Get(ctx context.Context, actor *models.User, id uint) (*models.IDCard, error) {
	if actor == nil {
		return nil, ErrUnauthorized
	}

	card, err := s.repo.IDCard().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrIDCardNotFound
		}
		return nil, err
	}

	if card.UserID != actor.ID && !actor.IsAdmin() {
		return nil, ErrIDCardNotFound
	}

	return card, nil
}

func (s *idCardService) GetOwn(ctx context.Context, actor *models.User) (*models.IDCard, error) {
	if actor == nil {
		return nil, ErrUnauthorized
	}

	card, err := s.repo.IDCard().GetByUserID(ctx, actor.ID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrIDCardNotFound
		}
		return nil, err
	}
	return card, nil
}

func (s *idCardService) List(ctx context.Context, actor *models.User) ([]*models.IDCard, error) {
	if actor == nil {
		return nil, ErrUnauthorized
	}

	var userID *uint
	if !actor.IsAdmin() {
		userID = &actor.ID
	}

	return s.repo.IDCard().List(ctx, userID)
}

func (s *idCardService) Delete(ctx context.Context, actor *models.User, id uint) error {
	if actor == nil {
		return ErrUnauthorized
	}
	if !actor.IsAdmin() {
		return NewPermissionError(actor.ID, id, "idcard", ActionDelete, "requires staff privilege")
	}

	if err := s.repo.IDCard().Delete(ctx, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrIDCardNotFound
		}
		return err
	}

	s.logger.Info("ID card deleted", "card_id", id, "actor_id", actor.ID)
	return nil
}
