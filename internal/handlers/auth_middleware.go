package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/NWU-Kano/library-service/internal/models"
	"github.com/NWU-Kano/library-service/internal/repositories"
	"github.com/NWU-Kano/library-service/internal/services"
	"github.com/NWU-Kano/library-service/internal/utils"
)

// JWTAuthMiddleware resolves the requesting user from a bearer token.
type JWTAuthMiddleware struct {
	auth     services.AuthService
	userRepo repositories.UserRepository
	logger   utils.Logger
}

func NewJWTAuthMiddleware(auth services.AuthService, userRepo repositories.UserRepository, logger utils.Logger) *JWTAuthMiddleware {
	return &JWTAuthMiddleware{
		auth:     auth,
		userRepo: userRepo,
		logger:   logger,
	}
}

// AuthMiddleware resolves the user for every request. A missing, malformed
// or invalid token leaves the request anonymous rather than rejecting it;
// role checks happen per route.
func (m *JWTAuthMiddleware) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || strings.ToLower(tokenParts[0]) != "bearer" {
			c.Next()
			return
		}

		claims, err := m.auth.ParseToken(tokenParts[1])
		if err != nil {
			m.logger.Debug("Ignoring invalid bearer token", "error", err)
			c.Next()
			return
		}

		user, err := m.userRepo.GetByID(c.Request.Context(), claims.UserID)
		if err != nil {
			m.logger.Debug("Token references unknown user", "user_id", claims.UserID)
			c.Next()
			return
		}

		c.Set("user", user)
		c.Set("user_id", user.ID)
		c.Next()
	}
}

// RequireAuthenticated rejects anonymous requests.
func (m *JWTAuthMiddleware) RequireAuthenticated() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) == nil {
			c.JSON(http.StatusUnauthorized, ErrorResponse{
				Message: "Authentication required",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireStaff rejects requests from anyone without staff or superuser
// privilege.
func (m *JWTAuthMiddleware) RequireStaff() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			c.JSON(http.StatusUnauthorized, ErrorResponse{
				Message: "Authentication required",
			})
			c.Abort()
			return
		}
		if !user.IsAdmin() {
			c.JSON(http.StatusForbidden, ErrorResponse{
				Message: "Staff access required",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireSuperuser rejects everyone but superusers.
func (m *JWTAuthMiddleware) RequireSuperuser() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			c.JSON(http.StatusUnauthorized, ErrorResponse{
				Message: "Authentication required",
			})
			c.Abort()
			return
		}
		if !user.IsSuperuser {
			c.JSON(http.StatusForbidden, ErrorResponse{
				Message: "Superuser access required",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireCapability admits staff, superusers, and holders of the named
// capability.
func (m *JWTAuthMiddleware) RequireCapability(capability string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			c.JSON(http.StatusUnauthorized, ErrorResponse{
				Message: "Authentication required",
			})
			c.Abort()
			return
		}
		if !services.CanPerform(user, services.ActionCreate, capability) {
			c.JSON(http.StatusForbidden, ErrorResponse{
				Message: "Insufficient permissions",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentUser returns the resolved user, or nil for anonymous requests.
func CurrentUser(c *gin.Context) *models.User {
	v, exists := c.Get("user")
	if !exists {
		return nil
	}
	user, ok := v.(*models.User)
	if !ok {
		return nil
	}
	return user
}
