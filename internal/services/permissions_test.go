package services

import (
	"testing"

	"github.com/NWU-Kano/library-service/internal/models"
)

func TestCanPerform(t *testing.T) {
	staff := &models.User{ID: 1, IsStaff: true}
	superuser := &models.User{ID: 2, IsSuperuser: true}
	plain := &models.User{ID: 3}
	holder := &models.User{ID: 4, Permissions: []models.Permission{{Codename: CapCreateEBook}}}
	groupHolder := &models.User{ID: 5, Groups: []models.Group{{
		Name:        "contributors",
		Permissions: []models.Permission{{Codename: CapCreateEBook}},
	}}}

	tests := []struct {
		name       string
		user       *models.User
		action     string
		capability string
		want       bool
	}{
		{"AnonymousList", nil, ActionList, CapCreateEBook, true},
		{"AnonymousRetrieve", nil, ActionRetrieve, "", true},
		{"AnonymousCreate", nil, ActionCreate, CapCreateEBook, false},
		{"StaffCreate", staff, ActionCreate, CapCreateEBook, true},
		{"StaffApprove", staff, ActionApprove, "", true},
		{"StaffDelete", staff, ActionDelete, "", true},
		{"SuperuserUpdate", superuser, ActionUpdate, "", true},
		{"PlainUserCreate", plain, ActionCreate, CapCreateEBook, false},
		{"PlainUserDelete", plain, ActionDelete, "", false},
		{"HolderCreate", holder, ActionCreate, CapCreateEBook, true},
		{"HolderWrongCapability", holder, ActionCreate, CapCreateNewspaper, false},
		{"HolderUpdate", holder, ActionUpdate, CapCreateEBook, false},
		{"HolderApprove", holder, ActionApprove, "", false},
		{"GroupHolderCreate", groupHolder, ActionCreate, CapCreateEBook, true},
		{"CreateWithoutCapability", plain, ActionCreate, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanPerform(tt.user, tt.action, tt.capability); got != tt.want {
				t.Errorf("CanPerform(%s, %s) = %v, want %v", tt.action, tt.capability, got, tt.want)
			}
		})
	}
}
