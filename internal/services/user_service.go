package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/NWU-Kano/library-service/internal/models"
	"github.com/NWU-Kano/library-service/internal/repositories"
	"github.com/NWU-Kano/library-service/internal/validator"
)

// ===== REQUEST/RESPONSE DTOs =====

// Use business validator types
type RegisterRequest = validator.RegisterRequest
type CreateUserRequest = validator.UserCreateRequest
type UpdateUserRequest = validator.UserUpdateRequest

type UserListResponse struct {
	Users []*models.User `json:"users"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Size  int            `json:"size"`
}

// ===== SERVICE INTERFACE =====

type UserService interface {
	// Register stores a self-registered account pending staff approval.
	Register(ctx context.Context, req *RegisterRequest) (*models.User, error)

	// Admin-facing CRUD.
	Create(ctx context.Context, req *CreateUserRequest) (*models.User, error)
	Update(ctx context.Context, id uint, req *UpdateUserRequest) (*models.User, error)
	GetByID(ctx context.Context, id uint) (*models.User, error)
	List(ctx context.Context, filters repositories.UserFilters) ([]*models.User, int64, error)
}

// ===== SERVICE IMPLEMENTATION =====

type userService struct {
	repo          repositories.Repository
	validator     *validator.Validator
	notifications NotificationService
	logger        *slog.Logger
}

func NewUserService(repo repositories.Repository, v *validator.Validator, notifications NotificationService, logger *slog.Logger) UserService {
	return &userService{
		repo:          repo,
		validator:     v,
		notifications: notifications,
		logger:        logger,
	}
}

func (s *userService) Register(ctx context.Context, req *RegisterRequest) (*models.User, error) {
	s.logger.Info("Registering user", "email", req.Email)

	if errs := s.validator.GetBusinessValidator().ValidateRegistration(req); len(errs) > 0 {
		return nil, errs
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:           req.Email,
		Username:        req.Username,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Phone:           req.Phone,
		StudentID:       req.StudentID,
		Faculty:         req.Faculty,
		Department:      req.Department,
		StudentCategory: req.StudentCategory,
		PasswordHash:    hash,
		IsActive:        false,
	}

	err = s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		if err := tx.User().Create(ctx, user); err != nil {
			return translateUserWriteError(err)
		}
		return s.syncEntitlements(ctx, tx, user)
	})
	if err != nil {
		return nil, err
	}

	s.notifications.NotifyRegistrationReceived(ctx, user)

	return user, nil
}

func (s *userService) Create(ctx context.Context, req *CreateUserRequest) (*models.User, error) {
	s.logger.Info("Creating user", "email", req.Email, "is_staff", req.IsStaff, "is_superuser", req.IsSuperuser)

	if errs := s.validator.GetBusinessValidator().ValidateUserCreate(req); len(errs) > 0 {
		return nil, errs
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:           req.Email,
		Username:        req.Username,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Phone:           req.Phone,
		StudentID:       req.StudentID,
		Faculty:         req.Faculty,
		Department:      req.Department,
		StudentCategory: req.StudentCategory,
		PasswordHash:    hash,
		IsStaff:         req.IsStaff,
		IsSuperuser:     req.IsSuperuser,
	}

	// Only superusers start active; everyone else waits for approval no
	// matter what the request says.
	if req.IsSuperuser {
		user.IsActive = true
	}

	err = s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		if err := tx.User().Create(ctx, user); err != nil {
			return translateUserWriteError(err)
		}

		if len(req.PermissionIDs) > 0 {
			perms, err := tx.Permission().GetByIDs(ctx, req.PermissionIDs)
			if err != nil {
				if repositories.IsNotFoundError(err) {
					return ErrPermissionNotFound
				}
				return err
			}
			if err := tx.User().ReplacePermissions(ctx, user, perms); err != nil {
				return err
			}
		}

		// Requested group memberships must exist, but the staff sync below
		// owns the final group set.
		for _, groupID := range req.GroupIDs {
			if _, err := tx.Group().GetByID(ctx, groupID); err != nil {
				if repositories.IsNotFoundError(err) {
					return ErrGroupNotFound
				}
				return err
			}
		}

		return s.syncEntitlements(ctx, tx, user)
	})
	if err != nil {
		return nil, err
	}

	if !user.IsSuperuser {
		s.notifications.NotifyRegistrationReceived(ctx, user)
	}

	return user, nil
}

func (s *userService) Update(ctx context.Context, id uint, req *UpdateUserRequest) (*models.User, error) {
	s.logger.Info("Updating user", "user_id", id)

	if errs := s.validator.GetBusinessValidator().ValidateUserUpdate(req); len(errs) > 0 {
		return nil, errs
	}

	stored, err := s.repo.User().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	wasActive := stored.IsActive

	if err := applyUserUpdate(stored, req); err != nil {
		return nil, err
	}

	err = s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		if err := tx.User().Update(ctx, stored); err != nil {
			return translateUserWriteError(err)
		}

		if req.PermissionIDs != nil {
			perms, err := tx.Permission().GetByIDs(ctx, req.PermissionIDs)
			if err != nil {
				if repositories.IsNotFoundError(err) {
					return ErrPermissionNotFound
				}
				return err
			}
			if err := tx.User().ReplacePermissions(ctx, stored, perms); err != nil {
				return err
			}
		}

		return s.syncEntitlements(ctx, tx, stored)
	})
	if err != nil {
		return nil, err
	}

	if !wasActive && stored.IsActive {
		s.notifications.NotifyAccountApproved(ctx, stored)
	}

	return stored, nil
}

func (s *userService) GetByID(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.repo.User().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) List(ctx context.Context, filters repositories.UserFilters) ([]*models.User, int64, error) {
	return s.repo.User().List(ctx, filters)
}

// ===== SIDE EFFECTS =====

// syncEntitlements applies the two derived-state rules that run on every user
// save, inside the caller's transaction:
//   - staff users belong to every group that currently exists; non-staff
//     users belong to none.
//   - an active user with a student ID has an IDCard mirroring their profile;
//     the card is created or updated, never deleted here.
func (s *userService) syncEntitlements(ctx context.Context, tx repositories.Repository, user *models.User) error {
	if user.IsStaff {
		groups, err := tx.Group().GetAll(ctx)
		if err != nil {
			return fmt.Errorf("failed to load groups for staff sync: %w", err)
		}
		if err := tx.User().ReplaceGroups(ctx, user, groups); err != nil {
			return fmt.Errorf("failed to sync staff groups: %w", err)
		}
	} else {
		if err := tx.User().ReplaceGroups(ctx, user, nil); err != nil {
			return fmt.Errorf("failed to clear group memberships: %w", err)
		}
	}

	if !user.IsActive || user.StudentID == "" {
		return nil
	}

	card, err := tx.IDCard().GetByUserID(ctx, user.ID)
	if err != nil {
		if !repositories.IsNotFoundError(err) {
			return fmt.Errorf("failed to look up id card: %w", err)
		}
		card = &models.IDCard{
			UserID:     user.ID,
			IssuedDate: time.Now().UTC(),
		}
		mirrorCardFields(card, user)
		if err := tx.IDCard().Create(ctx, card); err != nil {
			return fmt.Errorf("failed to issue id card: %w", err)
		}
		return nil
	}

	mirrorCardFields(card, user)
	if err := tx.IDCard().Update(ctx, card); err != nil {
		return fmt.Errorf("failed to sync id card: %w", err)
	}
	return nil
}

func mirrorCardFields(card *models.IDCard, user *models.User) {
	card.IDNumber = user.StudentID
	card.Faculty = user.Faculty
	card.Department = user.Department
	card.StudentCategory = user.StudentCategory
}

// ===== HELPERS =====

func hashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

func applyUserUpdate(user *models.User, req *UpdateUserRequest) error {
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.Username != nil {
		user.Username = *req.Username
	}
	if req.Password != nil {
		hash, err := hashPassword(*req.Password)
		if err != nil {
			return err
		}
		user.PasswordHash = hash
	}
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if req.StudentID != nil {
		user.StudentID = *req.StudentID
	}
	if req.Faculty != nil {
		user.Faculty = *req.Faculty
	}
	if req.Department != nil {
		user.Department = *req.Department
	}
	if req.StudentCategory != nil {
		user.StudentCategory = *req.StudentCategory
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
	if req.IsStaff != nil {
		user.IsStaff = *req.IsStaff
	}
	if req.IsSuperuser != nil {
		user.IsSuperuser = *req.IsSuperuser
	}
	return nil
}

func translateUserWriteError(err error) error {
	if repositories.IsDuplicateError(err) {
		return ErrDuplicateEmail
	}
	return err
}
