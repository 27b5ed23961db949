package services

import (
	"context"
	"log/slog"

	"github.com/NWU-Kano/library-service/internal/models"
	"github.com/NWU-Kano/library-service/internal/repositories"
	"github.com/NWU-Kano/library-service/internal/validator"
)

// ===== REQUEST DTOs =====

type GroupRequest = validator.GroupRequest
type PermissionRequest = validator.PermissionRequest

// ===== SERVICE INTERFACES =====

// GroupService is the admin CRUD surface for groups. Changing the group set
// reaches staff users on their next save, when the staff sync replaces their
// memberships with the then-current full set.
type GroupService interface {
	Create(ctx context.Context, req *GroupRequest) (*models.Group, error)
	Get(ctx context.Context, id uint) (*models.Group, error)
	List(ctx context.Context) ([]models.Group, error)
	Update(ctx context.Context, id uint, req *GroupRequest) (*models.Group, error)
	Delete(ctx context.Context, id uint) error
}

type PermissionService interface {
	Create(ctx context.Context, req *PermissionRequest) (*models.Permission, error)
	Get(ctx context.Context, id uint) (*models.Permission, error)
	List(ctx context.Context) ([]models.Permission, error)
	Update(ctx context.Context, id uint, req *PermissionRequest) (*models.Permission, error)
	Delete(ctx context.Context, id uint) error
}

// ===== GROUP SERVICE =====

type groupService struct {
	repo      repositories.Repository
	validator *validator.Validator
	logger    *slog.Logger
}

func NewGroupService(repo repositories.Repository, v *validator.Validator, logger *slog.Logger) GroupService {
	return &groupService{repo: repo, validator: v, logger: logger}
}

func (s *groupService) Create(ctx context.Context, req *GroupRequest) (*models.Group, error) {
	if errs := s.validator.Validate(req); len(errs) > 0 {
		return nil, errs
	}

	group := &models.Group{Name: req.Name}

	err := s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		if err := tx.Group().Create(ctx, group); err != nil {
			return err
		}
		return s.assignPermissions(ctx, tx, group, req.PermissionIDs)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Group created", "group_id", group.ID, "name", group.Name)
	return group, nil
}

func (s *groupService) Get(ctx context.Context, id uint) (*models.Group, error) {
	group, err := s.repo.Group().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrGroupNotFound
		}
		return nil, err
	}
	return group, nil
}

func (s *groupService) List(ctx context.Context) ([]models.Group, error) {
	return s.repo.Group().GetAll(ctx)
}

func (s *groupService) Update(ctx context.Context, id uint, req *GroupRequest) (*models.Group, error) {
	if errs := s.validator.Validate(req); len(errs) > 0 {
		return nil, errs
	}

	group, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	group.Name = req.Name

	err = s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		if err := tx.Group().Update(ctx, group); err != nil {
			return err
		}
		return s.assignPermissions(ctx, tx, group, req.PermissionIDs)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Group updated", "group_id", id)
	return group, nil
}

func (s *groupService) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Group().Delete(ctx, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrGroupNotFound
		}
		return err
	}

	s.logger.Info("Group deleted", "group_id", id)
	return nil
}

func (s *groupService) assignPermissions(ctx context.Context, tx repositories.Repository, group *models.Group, permissionIDs []uint) error {
	if permissionIDs == nil {
		return nil
	}

	perms, err := tx.Permission().GetByIDs(ctx, permissionIDs)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrPermissionNotFound
		}
		return err
	}
	return tx.Group().ReplacePermissions(ctx, group, perms)
}

// ===== PERMISSION SERVICE =====

type permissionService struct {
	repo      repositories.Repository
	validator *validator.Validator
	logger    *slog.Logger
}

func NewPermissionService(repo repositories.Repository, v *validator.Validator, logger *slog.Logger) PermissionService {
	return &permissionService{repo: repo, validator: v, logger: logger}
}

func (s *permissionService) Create(ctx context.Context, req *PermissionRequest) (*models.Permission, error) {
	if errs := s.validator.Validate(req); len(errs) > 0 {
		return nil, errs
	}

	perm := &models.Permission{Name: req.Name, Codename: req.Codename}
	if err := s.repo.Permission().Create(ctx, perm); err != nil {
		return nil, err
	}

	s.logger.Info("Permission created", "permission_id", perm.ID, "codename", perm.Codename)
	return perm, nil
}

func (s *permissionService) Get(ctx context.Context, id uint) (*models.Permission, error) {
	perm, err := s.repo.Permission().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrPermissionNotFound
		}
		return nil, err
	}
	return perm, nil
}

func (s *permissionService) List(ctx context.Context) ([]models.Permission, error) {
	return s.repo.Permission().GetAll(ctx)
}

func (s *permissionService) Update(ctx context.Context, id uint, req *PermissionRequest) (*models.Permission, error) {
	if errs := s.validator.Validate(req); len(errs) > 0 {
		return nil, errs
	}

	perm, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	perm.Name = req.Name
	perm.Codename = req.Codename

	if err := s.repo.Permission().Update(ctx, perm); err != nil {
		return nil, err
	}

	s.logger.Info("Permission updated", "permission_id", id)
	return perm, nil
}

func (s *permissionService) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Permission().Delete(ctx, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrPermissionNotFound
		}
		return err
	}

	s.logger.Info("Permission deleted", "permission_id", id)
	return nil
}
