package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/NWU-Kano/library-service/internal/events"
	"github.com/NWU-Kano/library-service/internal/models"
	"github.com/NWU-Kano/library-service/internal/repositories"
	"github.com/NWU-Kano/library-service/internal/validator"
)

// Capability codenames granting non-staff create access per content type.
const (
	CapCreateEBook     = "can_create_ebook"
	CapCreateEJournal  = "can_create_ejournal"
	CapCreateResource  = "can_create_resource"
	CapCreateNewspaper = "can_create_newspaper"
)

// ServiceManagerConfig holds configuration for the service manager.
type ServiceManagerConfig struct {
	JWTSecret      string
	TokenTTL       time.Duration
	DefaultTimeout time.Duration
}

// serviceManager implements ServiceManager.
type serviceManager struct {
	repo           repositories.Repository
	validator      *validator.Validator
	eventPublisher events.EventPublisher
	logger         *slog.Logger
	config         ServiceManagerConfig

	authService         AuthService
	userService         UserService
	groupService        GroupService
	permissionService   PermissionService
	idCardService       IDCardService
	borrowService       BorrowService
	reportService       ReportService
	notificationService NotificationService

	ebookService     CatalogService[models.EBook]
	ejournalService  CatalogService[models.EJournal]
	resourceService  CatalogService[models.Resource]
	newspaperService CatalogService[models.Newspaper]
	subjectService   LookupService[models.Subject]
	categoryService  LookupService[models.Category]

	initialized bool
	shutdown    bool
	mu          sync.RWMutex
}

// NewServiceManager creates a service manager with all dependencies.
func NewServiceManager(repo repositories.Repository, v *validator.Validator, eventPublisher events.EventPublisher, logger *slog.Logger, config ServiceManagerConfig) ServiceManager {
	if config.DefaultTimeout == 0 {
		config.DefaultTimeout = 30 * time.Second
	}
	if config.TokenTTL == 0 {
		config.TokenTTL = time.Hour
	}

	return &serviceManager{
		repo:           repo,
		validator:      v,
		eventPublisher: eventPublisher,
		logger:         logger,
		config:         config,
	}
}

// Initialize sets up all services and their dependencies.
func (sm *serviceManager) Initialize(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}

	sm.logger.Info("Initializing service manager")

	sm.notificationService = NewNotificationService(sm.eventPublisher, sm.logger)
	sm.authService = NewAuthService(sm.repo, sm.validator, sm.config.JWTSecret, sm.config.TokenTTL, sm.logger)
	sm.userService = NewUserService(sm.repo, sm.validator, sm.notificationService, sm.logger)
	sm.groupService = NewGroupService(sm.repo, sm.validator, sm.logger)
	sm.permissionService = NewPermissionService(sm.repo, sm.validator, sm.logger)
	sm.idCardService = NewIDCardService(sm.repo, sm.logger)
	sm.borrowService = NewBorrowService(sm.repo, sm.validator, sm.logger)
	sm.reportService = NewReportService(sm.repo, sm.logger)

	sm.ebookService = NewCatalogService(sm.repo.EBook(), CatalogDescriptor[models.EBook]{
		Resource:         "ebook",
		CreateCapability: CapCreateEBook,
		SetID:            func(b *models.EBook, id uint) { b.ID = id },
		SetApproved:      func(b *models.EBook, v bool) { b.Approved = v },
	}, sm.validator, sm.logger)

	sm.ejournalService = NewCatalogService(sm.repo.EJournal(), CatalogDescriptor[models.EJournal]{
		Resource:         "ejournal",
		CreateCapability: CapCreateEJournal,
		SetID:            func(j *models.EJournal, id uint) { j.ID = id },
		SetApproved:      func(j *models.EJournal, v bool) { j.Approved = v },
	}, sm.validator, sm.logger)

	sm.resourceService = NewCatalogService(sm.repo.Resource(), CatalogDescriptor[models.Resource]{
		Resource:         "resource",
		CreateCapability: CapCreateResource,
		SetID:            func(r *models.Resource, id uint) { r.ID = id },
		SetApproved:      func(r *models.Resource, v bool) { r.Approved = v },
	}, sm.validator, sm.logger)

	sm.newspaperService = NewCatalogService(sm.repo.Newspaper(), CatalogDescriptor[models.Newspaper]{
		Resource:         "newspaper",
		CreateCapability: CapCreateNewspaper,
		SetID:            func(n *models.Newspaper, id uint) { n.ID = id },
		SetApproved:      func(n *models.Newspaper, v bool) { n.Approved = v },
	}, sm.validator, sm.logger)

	sm.subjectService = NewLookupService(sm.repo.Subject(), ErrSubjectNotFound,
		func(s *models.Subject, id uint) { s.ID = id }, sm.validator)
	sm.categoryService = NewLookupService(sm.repo.Category(), ErrCategoryNotFound,
		func(c *models.Category, id uint) { c.ID = id }, sm.validator)

	sm.initialized = true
	sm.logger.Info("Service manager initialized successfully")

	return nil
}

// ===== SERVICE GETTERS =====

func (sm *serviceManager) get() {
	if !sm.initialized {
		panic("service manager not initialized")
	}
}

func (sm *serviceManager) Auth() AuthService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.get()
	return sm.authService
}

func (sm *serviceManager) User() UserService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.get()
	return sm.userService
}

func (sm *serviceManager) Group() GroupService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.get()
	return sm.groupService
}

func (sm *serviceManager) Permission() PermissionService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.get()
	return sm.permissionService
}

func (sm *serviceManager) IDCard() IDCardService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.get()
	return sm.idCardService
}

func (sm *serviceManager) EBook() CatalogService[models.EBook] {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.get()
	return sm.ebookService
}

func (sm *serviceManager) EJournal() CatalogService[models.EJournal] {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.get()
	return sm.ejournalService
}

func (sm *serviceManager) Resource() CatalogService[models.Resource] {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.get()
	return sm.resourceService
}

func (sm *serviceManager) Newspaper() CatalogService[models.Newspaper] {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.get()
	return sm.newspaperService
}

func (sm *serviceManager) Subject() LookupService[models.Subject] {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.get()
	return sm.subjectService
}

func (sm *serviceManager) Category() LookupService[models.Category] {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.get()
	return sm.categoryService
}

func (sm *serviceManager) Borrow() BorrowService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.get()
	return sm.borrowService
}

func (sm *serviceManager) Report() ReportService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.get()
	return sm.reportService
}

func (sm *serviceManager) Notification() NotificationService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.get()
	return sm.notificationService
}

// ===== HEALTH AND LIFECYCLE =====

func (sm *serviceManager) HealthCheck(ctx context.Context) error {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		return fmt.Errorf("service manager not initialized")
	}
	if sm.shutdown {
		return fmt.Errorf("service manager is shut down")
	}

	if err := sm.repo.Ping(ctx); err != nil {
		return fmt.Errorf("repository health check failed: %w", err)
	}

	return nil
}

func (sm *serviceManager) Shutdown(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.shutdown {
		return nil
	}

	sm.logger.Info("Shutting down service manager")

	if err := sm.eventPublisher.Close(); err != nil {
		sm.logger.Error("Failed to close event publisher", "error", err)
	}

	sm.shutdown = true
	sm.logger.Info("Service manager shut down completed")

	return nil
}

// WithTimeout creates a context with the default timeout.
func (sm *serviceManager) WithTimeout(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, sm.config.DefaultTimeout)
}
