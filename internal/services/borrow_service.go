package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/NWU-Kano/library-service/internal/models"
	"github.com/NWU-Kano/library-service/internal/repositories"
	"github.com/NWU-Kano/library-service/internal/validator"
)

// ===== REQUEST/RESPONSE DTOs =====

type CreateBorrowRequest = validator.BorrowCreateRequest
type UpdateBorrowRequest = validator.BorrowUpdateRequest

type BorrowListResponse struct {
	Records []*models.BorrowBook `json:"records"`
	Total   int64                `json:"total"`
	Page    int                  `json:"page"`
	Size    int                  `json:"size"`
}

// ===== SERVICE INTERFACE =====

// BorrowService manages manually recorded borrow entries. Visibility is
// scoped: staff see every record, everyone else only their own.
type BorrowService interface {
	Create(ctx context.Context, actor *models.User, req *CreateBorrowRequest) (*models.BorrowBook, error)
	Get(ctx context.Context, actor *models.User, id uint) (*models.BorrowBook, error)
	List(ctx context.Context, actor *models.User, limit, offset int) ([]*models.BorrowBook, int64, error)
	Update(ctx context.Context, actor *models.User, id uint, req *UpdateBorrowRequest) (*models.BorrowBook, error)
	Delete(ctx context.Context, actor *models.User, id uint) error
}

// ===== SERVICE IMPLEMENTATION =====

type borrowService struct {
	repo      repositories.Repository
	validator *validator.Validator
	logger    *slog.Logger
}

func NewBorrowService(repo repositories.Repository, v *validator.Validator, logger *slog.Logger) BorrowService {
	return &borrowService{
		repo:      repo,
		validator: v,
		logger:    logger,
	}
}

func (s *borrowService) Create(ctx context.Context, actor *models.User, req *CreateBorrowRequest) (*models.BorrowBook, error) {
	if actor == nil {
		return nil, ErrUnauthorized
	}

	if errs := s.validator.Validate(req); len(errs) > 0 {
		return nil, errs
	}

	// Only staff may record a borrow against another user.
	ownerID := actor.ID
	if req.UserID != nil && *req.UserID != actor.ID {
		if !actor.IsAdmin() {
			return nil, NewPermissionError(actor.ID, *req.UserID, "borrow", ActionCreate,
				"only staff may record borrows for other users")
		}
		if _, err := s.repo.User().GetByID(ctx, *req.UserID); err != nil {
			if repositories.IsNotFoundError(err) {
				return nil, ErrUserNotFound
			}
			return nil, err
		}
		ownerID = *req.UserID
	}

	record := &models.BorrowBook{
		UserID:     ownerID,
		BookTitle:  req.BookTitle,
		BorrowDate: time.Now().UTC(),
		ReturnDate: req.ReturnDate,
	}

	if err := s.repo.Borrow().Create(ctx, record); err != nil {
		return nil, err
	}

	s.logger.Info("Borrow recorded", "borrow_id", record.ID, "user_id", ownerID, "actor_id", actor.ID)
	return record, nil
}

func (s *borrowService) Get(ctx context.Context, actor *models.User, id uint) (*models.BorrowBook, error) {
	if actor == nil {
		return nil, ErrUnauthorized
	}

	record, err := s.repo.Borrow().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrBorrowNotFound
		}
		return nil, err
	}

	// Out-of-scope records read as missing, not forbidden.
	if record.UserID != actor.ID && !actor.IsAdmin() {
		return nil, ErrBorrowNotFound
	}

	return record, nil
}

func (s *borrowService) List(ctx context.Context, actor *models.User, limit, offset int) ([]*models.BorrowBook, int64, error) {
	if actor == nil {
		return nil, 0, ErrUnauthorized
	}

	filters := repositories.BorrowFilters{Limit: limit, Offset: offset}
	if !actor.IsAdmin() {
		filters.UserID = &actor.ID
	}

	return s.repo.Borrow().List(ctx, filters)
}

func (s *borrowService) Update(ctx context.Context, actor *models.User, id uint, req *UpdateBorrowRequest) (*models.BorrowBook, error) {
	record, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if errs := s.validator.Validate(req); len(errs) > 0 {
		return nil, errs
	}

	if req.BookTitle != nil {
		record.BookTitle = *req.BookTitle
	}
	if req.ReturnDate != nil {
		record.ReturnDate = req.ReturnDate
	}

	if err := s.repo.Borrow().Update(ctx, record); err != nil {
		return nil, err
	}

	s.logger.Info("Borrow updated", "borrow_id", id, "actor_id", actor.ID)
	return record, nil
}

func (s *borrowService) Delete(ctx context.Context, actor *models.User, id uint) error {
	if _, err := s.Get(ctx, actor, id); err != nil {
		return err
	}

	if err := s.repo.Borrow().Delete(ctx, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrBorrowNotFound
		}
		return err
	}

	s.logger.Info("Borrow deleted", "borrow_id", id, "actor_id", actor.ID)
	return nil
}
