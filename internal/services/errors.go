package services

import (
	"errors"
	"fmt"

	"github.com/NWU-Kano/library-service/internal/validator"
)

// ===== SENTINEL ERRORS =====

var (
	// Generic
	ErrValidationFailed        = errors.New("validation failed")
	ErrUnauthorized            = errors.New("authentication required")
	ErrForbidden               = errors.New("access forbidden")
	ErrInsufficientPermissions = errors.New("insufficient permissions")

	// Identity
	ErrUserNotFound       = errors.New("user not found")
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrDuplicateUsername  = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountInactive    = errors.New("account is pending approval")

	// Entitlement
	ErrGroupNotFound      = errors.New("group not found")
	ErrPermissionNotFound = errors.New("permission not found")

	// Catalog
	ErrCatalogItemNotFound = errors.New("catalog item not found")
	ErrSubjectNotFound     = errors.New("subject not found")
	ErrCategoryNotFound    = errors.New("category not found")

	// Circulation
	ErrBorrowNotFound = errors.New("borrow record not found")
	ErrIDCardNotFound = errors.New("id card not found")
)

// ValidationErrors re-exported so handlers can errors.As against the
// services package alone.
type ValidationErrors = validator.ValidationErrors

// PermissionError carries the denied action's context for logging and the
// 403 response body.
type PermissionError struct {
	UserID     uint
	ResourceID uint
	Resource   string
	Action     string
	Reason     string
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("user %d cannot %s %s %d: %s", e.UserID, e.Action, e.Resource, e.ResourceID, e.Reason)
}

func (e *PermissionError) Is(target error) bool {
	return target == ErrForbidden || target == ErrInsufficientPermissions
}

func NewPermissionError(userID, resourceID uint, resource, action, reason string) *PermissionError {
	return &PermissionError{
		UserID:     userID,
		ResourceID: resourceID,
		Resource:   resource,
		Action:     action,
		Reason:     reason,
	}
}
