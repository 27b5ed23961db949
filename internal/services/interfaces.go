package services

import (
	"context"

	"github.com/NWU-Kano/library-service/internal/models"
)

// ServiceManager wires and owns every service instance.
type ServiceManager interface {
	Initialize(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error

	// Identity & entitlement
	Auth() AuthService
	User() UserService
	Group() GroupService
	Permission() PermissionService
	IDCard() IDCardService

	// Catalog
	EBook() CatalogService[models.EBook]
	EJournal() CatalogService[models.EJournal]
	Resource() CatalogService[models.Resource]
	Newspaper() CatalogService[models.Newspaper]
	Subject() LookupService[models.Subject]
	Category() LookupService[models.Category]

	// Circulation & reporting
	Borrow() BorrowService
	Report() ReportService

	// Notifications
	Notification() NotificationService
}
