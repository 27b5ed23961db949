package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/NWU-Kano/library-service/internal/cache"
	"github.com/NWU-Kano/library-service/internal/models"
	"github.com/NWU-Kano/library-service/internal/repositories"
)

// RepositoryConfig carries the external dependencies of the repository layer.
// RedisClient may be nil, in which case caching is disabled.
type RepositoryConfig struct {
	DB          *gorm.DB
	RedisClient *redis.Client
}

// PostgreSQLRepository is the production Repository implementation backed by
// gorm and redis.
type PostgreSQLRepository struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager

	userRepo       repositories.UserRepository
	groupRepo      repositories.GroupRepository
	permissionRepo repositories.PermissionRepository
	idCardRepo     repositories.IDCardRepository
	borrowRepo     repositories.BorrowRepository

	ebookRepo     repositories.CatalogRepository[models.EBook]
	ejournalRepo  repositories.CatalogRepository[models.EJournal]
	resourceRepo  repositories.CatalogRepository[models.Resource]
	newspaperRepo repositories.CatalogRepository[models.Newspaper]
	subjectRepo   repositories.LookupRepository[models.Subject]
	categoryRepo  repositories.LookupRepository[models.Category]
}

func NewPostgreSQLRepository(config RepositoryConfig) *PostgreSQLRepository {
	return newPostgreSQLRepository(config.DB, cache.NewCacheManager(config.RedisClient))
}

func newPostgreSQLRepository(db *gorm.DB, cacheManager *cache.CacheManager) *PostgreSQLRepository {
	return &PostgreSQLRepository{
		db:           db,
		cacheManager: cacheManager,

		userRepo:       NewUserPostgreSQL(db, cacheManager),
		groupRepo:      NewGroupPostgreSQL(db),
		permissionRepo: NewPermissionPostgreSQL(db),
		idCardRepo:     NewIDCardPostgreSQL(db),
		borrowRepo:     NewBorrowPostgreSQL(db),

		ebookRepo:     NewCatalogPostgreSQL[models.EBook](db, cacheManager, "ebook", "Subject"),
		ejournalRepo:  NewCatalogPostgreSQL[models.EJournal](db, cacheManager, "ejournal", "Subject"),
		resourceRepo:  NewCatalogPostgreSQL[models.Resource](db, cacheManager, "resource", "Category"),
		newspaperRepo: NewCatalogPostgreSQL[models.Newspaper](db, cacheManager, "newspaper"),
		subjectRepo:   NewLookupPostgreSQL[models.Subject](db, "subject"),
		categoryRepo:  NewLookupPostgreSQL[models.Category](db, "category"),
	}
}

func (r *PostgreSQLRepository) User() repositories.UserRepository             { return r.userRepo }
func (r *PostgreSQLRepository) Group() repositories.GroupRepository           { return r.groupRepo }
func (r *PostgreSQLRepository) Permission() repositories.PermissionRepository { return r.permissionRepo }
func (r *PostgreSQLRepository) IDCard() repositories.IDCardRepository         { return r.idCardRepo }
func (r *PostgreSQLRepository) Borrow() repositories.BorrowRepository         { return r.borrowRepo }

func (r *PostgreSQLRepository) EBook() repositories.CatalogRepository[models.EBook] {
	return r.ebookRepo
}

func (r *PostgreSQLRepository) EJournal() repositories.CatalogRepository[models.EJournal] {
	return r.ejournalRepo
}

func (r *PostgreSQLRepository) Resource() repositories.CatalogRepository[models.Resource] {
	return r.resourceRepo
}

func (r *PostgreSQLRepository) Newspaper() repositories.CatalogRepository[models.Newspaper] {
	return r.newspaperRepo
}

func (r *PostgreSQLRepository) Subject() repositories.LookupRepository[models.Subject] {
	return r.subjectRepo
}

func (r *PostgreSQLRepository) Category() repositories.LookupRepository[models.Category] {
	return r.categoryRepo
}

// WithTransaction runs fn against a Repository bound to a single database
// transaction. Sub-repositories inside the transaction share the caller's
// cache manager so invalidations still fire after commit.
func (r *PostgreSQLRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(newPostgreSQLRepository(tx, r.cacheManager))
	})
}

func (r *PostgreSQLRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database handle: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

func (r *PostgreSQLRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database handle: %w", err)
	}
	return sqlDB.Close()
}

// Manager implements RepositoryManager over the PostgreSQL repository.
type Manager struct {
	repository *PostgreSQLRepository
}

func NewRepositoryManager(config RepositoryConfig) *Manager {
	return &Manager{repository: NewPostgreSQLRepository(config)}
}

func (m *Manager) Initialize() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := m.repository.Ping(ctx); err != nil {
		return fmt.Errorf("repository initialization failed: %w", err)
	}
	return nil
}

func (m *Manager) GetRepository() repositories.Repository {
	return m.repository
}

func (m *Manager) HealthCheck(ctx context.Context) error {
	return m.repository.Ping(ctx)
}

func (m *Manager) Shutdown(ctx context.Context) error {
	return m.repository.Close()
}
