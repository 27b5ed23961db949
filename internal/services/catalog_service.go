package services

import (
	"context"
	"log/slog"

	"github.com/NWU-Kano/library-service/internal/models"
	"github.com/NWU-Kano/library-service/internal/repositories"
	"github.com/NWU-Kano/library-service/internal/validator"
)

// ===== DESCRIPTOR =====

// CatalogDescriptor parameterizes the one catalog service implementation per
// content type: the resource name (cache keys, error context), the capability
// that grants non-staff create access, and the two field accessors the
// generic code cannot express on its own.
type CatalogDescriptor[T models.CatalogItem] struct {
	Resource         string
	CreateCapability string
	SetID            func(*T, uint)
	SetApproved      func(*T, bool)
}

// ===== SERVICE INTERFACE =====

// CatalogService serves one approval-gated content type. Reads are open:
// staff and superusers see everything, everyone else only approved items.
type CatalogService[T models.CatalogItem] interface {
	List(ctx context.Context, viewer *models.User) ([]*T, error)
	Get(ctx context.Context, viewer *models.User, id uint) (*T, error)
	Create(ctx context.Context, actor *models.User, item *T) (*T, error)
	Update(ctx context.Context, actor *models.User, id uint, item *T) (*T, error)
	Delete(ctx context.Context, actor *models.User, id uint) error
	Approve(ctx context.Context, actor *models.User, id uint) error
}

// ===== SERVICE IMPLEMENTATION =====

type catalogService[T models.CatalogItem] struct {
	repo       repositories.CatalogRepository[T]
	descriptor CatalogDescriptor[T]
	validator  *validator.Validator
	logger     *slog.Logger
}

func NewCatalogService[T models.CatalogItem](repo repositories.CatalogRepository[T], descriptor CatalogDescriptor[T], v *validator.Validator, logger *slog.Logger) CatalogService[T] {
	return &catalogService[T]{
		repo:       repo,
		descriptor: descriptor,
		validator:  v,
		logger:     logger,
	}
}

func (s *catalogService[T]) List(ctx context.Context, viewer *models.User) ([]*T, error) {
	approvedOnly := !viewer.IsAdmin()
	return s.repo.List(ctx, approvedOnly)
}

func (s *catalogService[T]) Get(ctx context.Context, viewer *models.User, id uint) (*T, error) {
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCatalogItemNotFound
		}
		return nil, err
	}

	// Unapproved items are invisible to non-staff, indistinguishable from
	// missing ones.
	if !(*item).IsApproved() && !viewer.IsAdmin() {
		return nil, ErrCatalogItemNotFound
	}

	return item, nil
}

func (s *catalogService[T]) Create(ctx context.Context, actor *models.User, item *T) (*T, error) {
	if !CanPerform(actor, ActionCreate, s.descriptor.CreateCapability) {
		return nil, NewPermissionError(userID(actor), 0, s.descriptor.Resource, ActionCreate,
			"requires staff privilege or the "+s.descriptor.CreateCapability+" capability")
	}

	if errs := s.validator.Validate(item); len(errs) > 0 {
		return nil, errs
	}

	// New items always enter the moderation queue.
	s.descriptor.SetID(item, 0)
	s.descriptor.SetApproved(item, false)

	if err := s.repo.Create(ctx, item); err != nil {
		return nil, err
	}

	s.logger.Info("Catalog item created", "resource", s.descriptor.Resource, "id", (*item).GetID(), "user_id", userID(actor))
	return item, nil
}

func (s *catalogService[T]) Update(ctx context.Context, actor *models.User, id uint, item *T) (*T, error) {
	// Route middleware already requires staff; the superuser rule is
	// enforced again here so a handler wiring mistake cannot widen it.
	if actor == nil || !actor.IsSuperuser {
		return nil, ValidationErrors{{
			Field:   "",
			Message: "only superusers may update " + s.descriptor.Resource + " entries",
			Rule:    "permission",
		}}
	}

	stored, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCatalogItemNotFound
		}
		return nil, err
	}

	if errs := s.validator.Validate(item); len(errs) > 0 {
		return nil, errs
	}

	// Approval state only changes through Approve.
	s.descriptor.SetID(item, id)
	s.descriptor.SetApproved(item, (*stored).IsApproved())

	if err := s.repo.Update(ctx, item); err != nil {
		return nil, err
	}

	s.logger.Info("Catalog item updated", "resource", s.descriptor.Resource, "id", id, "user_id", actor.ID)
	return item, nil
}

func (s *catalogService[T]) Delete(ctx context.Context, actor *models.User, id uint) error {
	if !CanPerform(actor, ActionDelete, s.descriptor.CreateCapability) {
		return NewPermissionError(userID(actor), id, s.descriptor.Resource, ActionDelete, "requires staff privilege")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrCatalogItemNotFound
		}
		return err
	}

	s.logger.Info("Catalog item deleted", "resource", s.descriptor.Resource, "id", id, "user_id", userID(actor))
	return nil
}

func (s *catalogService[T]) Approve(ctx context.Context, actor *models.User, id uint) error {
	if !CanPerform(actor, ActionApprove, "") {
		return NewPermissionError(userID(actor), id, s.descriptor.Resource, ActionApprove, "requires staff privilege")
	}

	if err := s.repo.Approve(ctx, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrCatalogItemNotFound
		}
		return err
	}

	s.logger.Info("Catalog item approved", "resource", s.descriptor.Resource, "id", id, "user_id", userID(actor))
	return nil
}

func userID(user *models.User) uint {
	if user == nil {
		return 0
	}
	return user.ID
}

// ===== LOOKUP SERVICE =====

// LookupService is the plain CRUD surface for the subject and category
// tables. Write access is staff gated at the route layer.
type LookupService[T any] interface {
	List(ctx context.Context) ([]*T, error)
	Get(ctx context.Context, id uint) (*T, error)
	Create(ctx context.Context, item *T) (*T, error)
	Update(ctx context.Context, id uint, item *T) (*T, error)
	Delete(ctx context.Context, id uint) error
}

type lookupService[T any] struct {
	repo     repositories.LookupRepository[T]
	notFound error
	setID    func(*T, uint)
	v        *validator.Validator
}

func NewLookupService[T any](repo repositories.LookupRepository[T], notFound error, setID func(*T, uint), v *validator.Validator) LookupService[T] {
	return &lookupService[T]{repo: repo, notFound: notFound, setID: setID, v: v}
}

func (s *lookupService[T]) List(ctx context.Context) ([]*T, error) {
	return s.repo.GetAll(ctx)
}

func (s *lookupService[T]) Get(ctx context.Context, id uint) (*T, error) {
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, s.notFound
		}
		return nil, err
	}
	return item, nil
}

func (s *lookupService[T]) Create(ctx context.Context, item *T) (*T, error) {
	if errs := s.v.Validate(item); len(errs) > 0 {
		return nil, errs
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *lookupService[T]) Update(ctx context.Context, id uint, item *T) (*T, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	if errs := s.v.Validate(item); len(errs) > 0 {
		return nil, errs
	}
	s.setID(item, id)
	if err := s.repo.Update(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *lookupService[T]) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return s.notFound
		}
		return err
	}
	return nil
}
