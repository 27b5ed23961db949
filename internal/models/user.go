package models

import (
	"time"
)

type StudentCategory string

const (
	CategoryUndergraduate StudentCategory = "undergraduate"
	CategoryPostgraduate  StudentCategory = "postgraduate"
	CategoryMasters       StudentCategory = "masters"
	CategoryPhD           StudentCategory = "phd"
)

type User struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	Email     string `json:"email" gorm:"uniqueIndex;not null;size:255" validate:"required,email"`
	Username  string `json:"username" gorm:"uniqueIndex;size:255" validate:"required,max=255"`
	FirstName string `json:"first_name" gorm:"size:255"`
	LastName  string `json:"last_name" gorm:"size:255"`
	Phone     string `json:"phone" gorm:"size:20"`

	// Student profile
	StudentID       string          `json:"student_id" gorm:"size:255"`
	Faculty         string          `json:"faculty" gorm:"size:255"`
	Department      string          `json:"department" gorm:"size:255"`
	StudentCategory StudentCategory `json:"student_category" gorm:"size:50" validate:"omitempty,oneof=undergraduate postgraduate masters phd"`

	// Credentials
	PasswordHash string `json:"-" gorm:"size:255"`

	// Entitlement flags
	IsActive    bool `json:"is_active" gorm:"default:false"`
	IsStaff     bool `json:"is_staff" gorm:"default:false"`
	IsSuperuser bool `json:"is_superuser" gorm:"default:false"`

	// Entitlement relations
	Groups      []Group      `json:"groups" gorm:"many2many:user_groups"`
	Permissions []Permission `json:"permissions" gorm:"many2many:user_permissions"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// IsAdmin reports whether the user carries staff or superuser privilege.
func (u *User) IsAdmin() bool {
	return u != nil && (u.IsStaff || u.IsSuperuser)
}

// FullName returns "First Last", falling back to the username.
func (u *User) FullName() string {
	name := u.FirstName
	if u.LastName != "" {
		if name != "" {
			name += " "
		}
		name += u.LastName
	}
	if name == "" {
		return u.Username
	}
	return name
}

// HasPerm reports whether the user holds the named capability, either
// directly or through any of their groups. Groups and Permissions must be
// preloaded by the caller.
func (u *User) HasPerm(codename string) bool {
	if u == nil {
		return false
	}
	for _, p := range u.Permissions {
		if p.Codename == codename {
			return true
		}
	}
	for _, g := range u.Groups {
		for _, p := range g.Permissions {
			if p.Codename == codename {
				return true
			}
		}
	}
	return false
}

type Group struct {
	ID          uint         `json:"id" gorm:"primaryKey"`
	Name        string       `json:"name" gorm:"uniqueIndex;not null;size:150" validate:"required,max=150"`
	Permissions []Permission `json:"permissions" gorm:"many2many:group_permissions"`
}

func (Group) TableName() string {
	return "groups"
}

type Permission struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	Name     string `json:"name" gorm:"not null;size:255" validate:"required,max=255"`
	Codename string `json:"codename" gorm:"uniqueIndex;not null;size:100" validate:"required,max=100"`
}

func (Permission) TableName() string {
	return "permissions"
}
