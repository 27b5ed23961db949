package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/NWU-Kano/library-service/internal/models"
	"github.com/NWU-Kano/library-service/internal/repositories"
	"github.com/NWU-Kano/library-service/internal/services"
	"github.com/NWU-Kano/library-service/internal/utils"
)

type HandlerManager struct {
	authHandler       *AuthHandler
	userHandler       *UserHandler
	borrowHandler     *BorrowHandler
	idCardHandler     *IDCardHandler
	groupHandler      *GroupHandler
	permissionHandler *PermissionHandler
	reportHandler     *ReportHandler

	ebookHandler     *CatalogHandler[models.EBook]
	ejournalHandler  *CatalogHandler[models.EJournal]
	resourceHandler  *CatalogHandler[models.Resource]
	newspaperHandler *CatalogHandler[models.Newspaper]
	subjectHandler   *LookupHandler[models.Subject]
	categoryHandler  *LookupHandler[models.Category]

	authMiddleware *JWTAuthMiddleware
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	userRepo repositories.UserRepository,
	logger utils.Logger,
) *HandlerManager {
	authMiddleware := NewJWTAuthMiddleware(serviceManager.Auth(), userRepo, logger)

	return &HandlerManager{
		authHandler:       NewAuthHandler(serviceManager.Auth(), serviceManager.User(), logger),
		userHandler:       NewUserHandler(serviceManager.User(), logger),
		borrowHandler:     NewBorrowHandler(serviceManager.Borrow(), logger),
		idCardHandler:     NewIDCardHandler(serviceManager.IDCard(), logger),
		groupHandler:      NewGroupHandler(serviceManager.Group(), logger),
		permissionHandler: NewPermissionHandler(serviceManager.Permission(), logger),
		reportHandler:     NewReportHandler(serviceManager.Report(), logger),

		ebookHandler:     NewCatalogHandler(serviceManager.EBook(), "ebook", logger),
		ejournalHandler:  NewCatalogHandler(serviceManager.EJournal(), "ejournal", logger),
		resourceHandler:  NewCatalogHandler(serviceManager.Resource(), "resource", logger),
		newspaperHandler: NewCatalogHandler(serviceManager.Newspaper(), "newspaper", logger),
		subjectHandler:   NewLookupHandler(serviceManager.Subject(), logger),
		categoryHandler:  NewLookupHandler(serviceManager.Category(), logger),

		authMiddleware: authMiddleware,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	v1 := router.Group("/api/v1")
	v1.Use(hm.authMiddleware.AuthMiddleware()) // Resolve user (or anonymous) for all API routes
	{
		// Auth routes
		auth := v1.Group("/auth")
		{
			auth.POST("/register", hm.authHandler.Register)
			auth.POST("/login", hm.authHandler.Login)
			auth.GET("/me", hm.authMiddleware.RequireAuthenticated(), hm.authHandler.Me)
		}

		// User administration - staff only
		users := v1.Group("/users")
		users.Use(hm.authMiddleware.RequireStaff())
		{
			users.GET("", hm.userHandler.ListUsers)
			users.GET("/:id", hm.userHandler.GetUser)
			users.POST("", hm.userHandler.CreateUser)
			users.PUT("/:id", hm.userHandler.UpdateUser)
		}

		// Catalog routes - one generic registration per content type
		registerCatalogRoutes(v1.Group("/ebooks"), hm.ebookHandler, hm.authMiddleware, services.CapCreateEBook)
		registerCatalogRoutes(v1.Group("/ejournals"), hm.ejournalHandler, hm.authMiddleware, services.CapCreateEJournal)
		registerCatalogRoutes(v1.Group("/resources"), hm.resourceHandler, hm.authMiddleware, services.CapCreateResource)
		registerCatalogRoutes(v1.Group("/newspapers"), hm.newspaperHandler, hm.authMiddleware, services.CapCreateNewspaper)

		registerLookupRoutes(v1.Group("/subjects"), hm.subjectHandler, hm.authMiddleware)
		registerLookupRoutes(v1.Group("/categories"), hm.categoryHandler, hm.authMiddleware)

		// Borrow records - authenticated, scoped inside the service
		borrows := v1.Group("/borrows")
		borrows.Use(hm.authMiddleware.RequireAuthenticated())
		{
			borrows.GET("", hm.borrowHandler.ListBorrows)
			borrows.GET("/:id", hm.borrowHandler.GetBorrow)
			borrows.POST("", hm.borrowHandler.CreateBorrow)
			borrows.PUT("/:id", hm.borrowHandler.UpdateBorrow)
			borrows.DELETE("/:id", hm.borrowHandler.DeleteBorrow)
		}

		// ID cards - derived records, read-mostly
		idcards := v1.Group("/idcards")
		idcards.Use(hm.authMiddleware.RequireAuthenticated())
		{
			idcards.GET("", hm.idCardHandler.ListCards)
			idcards.GET("/me", hm.idCardHandler.GetOwnCard)
			idcards.GET("/:id", hm.idCardHandler.GetCard)
			idcards.DELETE("/:id", hm.authMiddleware.RequireStaff(), hm.idCardHandler.DeleteCard)
		}

		// Entitlement administration - staff only
		groups := v1.Group("/groups")
		groups.Use(hm.authMiddleware.RequireStaff())
		{
			groups.GET("", hm.groupHandler.ListGroups)
			groups.GET("/:id", hm.groupHandler.GetGroup)
			groups.POST("", hm.groupHandler.CreateGroup)
			groups.PUT("/:id", hm.groupHandler.UpdateGroup)
			groups.DELETE("/:id", hm.groupHandler.DeleteGroup)
		}

		permissions := v1.Group("/permissions")
		permissions.Use(hm.authMiddleware.RequireStaff())
		{
			permissions.GET("", hm.permissionHandler.ListPermissions)
			permissions.GET("/:id", hm.permissionHandler.GetPermission)
			permissions.POST("", hm.permissionHandler.CreatePermission)
			permissions.PUT("/:id", hm.permissionHandler.UpdatePermission)
			permissions.DELETE("/:id", hm.permissionHandler.DeletePermission)
		}

		// Reports - staff only
		reports := v1.Group("/reports")
		reports.Use(hm.authMiddleware.RequireStaff())
		{
			reports.GET("/users.xlsx", hm.reportHandler.ExportUsers)
			reports.GET("/borrows.xlsx", hm.reportHandler.ExportBorrows)
		}
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "library-service",
		})
	})
}

// registerCatalogRoutes wires the shared route shape of the four content
// types: open reads, capability-gated create, staff writes.
func registerCatalogRoutes[T models.CatalogItem](rg *gin.RouterGroup, h *CatalogHandler[T], auth *JWTAuthMiddleware, createCapability string) {
	rg.GET("", h.List)
	rg.GET("/:id", h.Get)
	rg.POST("", auth.RequireCapability(createCapability), h.Create)
	rg.PUT("/:id", auth.RequireStaff(), h.Update)
	rg.DELETE("/:id", auth.RequireStaff(), h.Delete)
	rg.POST("/:id/approve", auth.RequireStaff(), h.Approve)
}

func registerLookupRoutes[T any](rg *gin.RouterGroup, h *LookupHandler[T], auth *JWTAuthMiddleware) {
	rg.GET("", h.List)
	rg.GET("/:id", h.Get)
	rg.POST("", auth.RequireStaff(), h.Create)
	rg.PUT("/:id", auth.RequireStaff(), h.Update)
	rg.DELETE("/:id", auth.RequireStaff(), h.Delete)
}
