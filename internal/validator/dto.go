package validator

import (
	"time"

	"github.com/NWU-Kano/library-service/internal/models"
)

// RegisterRequest is the public self-registration payload.
type RegisterRequest struct {
	Email           string                 `json:"email" validate:"required,email"`
	Username        string                 `json:"username" validate:"required,max=255"`
	Password        string                 `json:"password" validate:"required,min=8,max=128"`
	FirstName       string                 `json:"first_name" validate:"omitempty,max=255"`
	LastName        string                 `json:"last_name" validate:"omitempty,max=255"`
	Phone           string                 `json:"phone" validate:"omitempty,max=20"`
	StudentID       string                 `json:"student_id" validate:"omitempty,max=255"`
	Faculty         string                 `json:"faculty" validate:"omitempty,max=255"`
	Department      string                 `json:"department" validate:"omitempty,max=255"`
	StudentCategory models.StudentCategory `json:"student_category" validate:"omitempty,oneof=undergraduate postgraduate masters phd"`
}

// UserCreateRequest is the admin-facing creation payload; unlike
// registration it can set entitlement flags and memberships directly.
type UserCreateRequest struct {
	RegisterRequest

	IsActive      bool   `json:"is_active"`
	IsStaff       bool   `json:"is_staff"`
	IsSuperuser   bool   `json:"is_superuser"`
	GroupIDs      []uint `json:"group_ids"`
	PermissionIDs []uint `json:"permission_ids"`
}

type UserUpdateRequest struct {
	Email           *string                 `json:"email" validate:"omitempty,email"`
	Username        *string                 `json:"username" validate:"omitempty,max=255"`
	Password        *string                 `json:"password" validate:"omitempty,min=8,max=128"`
	FirstName       *string                 `json:"first_name" validate:"omitempty,max=255"`
	LastName        *string                 `json:"last_name" validate:"omitempty,max=255"`
	Phone           *string                 `json:"phone" validate:"omitempty,max=20"`
	StudentID       *string                 `json:"student_id" validate:"omitempty,max=255"`
	Faculty         *string                 `json:"faculty" validate:"omitempty,max=255"`
	Department      *string                 `json:"department" validate:"omitempty,max=255"`
	StudentCategory *models.StudentCategory `json:"student_category" validate:"omitempty,oneof=undergraduate postgraduate masters phd"`
	IsActive        *bool                   `json:"is_active"`
	IsStaff         *bool                   `json:"is_staff"`
	IsSuperuser     *bool                   `json:"is_superuser"`
	PermissionIDs   []uint                  `json:"permission_ids"`
}

type LoginRequest struct {
	Identifier string `json:"identifier" validate:"required"` // email or username
	Password   string `json:"password" validate:"required"`
}

type BorrowCreateRequest struct {
	// UserID may only be set by staff; everyone else borrows for themselves.
	UserID     *uint      `json:"user_id"`
	BookTitle  string     `json:"book_title" validate:"required,max=255"`
	ReturnDate *time.Time `json:"return_date"`
}

type BorrowUpdateRequest struct {
	BookTitle  *string    `json:"book_title" validate:"omitempty,max=255"`
	ReturnDate *time.Time `json:"return_date"`
}

type GroupRequest struct {
	Name          string `json:"name" validate:"required,max=150"`
	PermissionIDs []uint `json:"permission_ids"`
}

type PermissionRequest struct {
	Name     string `json:"name" validate:"required,max=255"`
	Codename string `json:"codename" validate:"required,max=100"`
}
