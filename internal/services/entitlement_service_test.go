package services

import (
	"context"
	"errors"
	"testing"

	"github.com/NWU-Kano/library-service/internal/validator"
)

func TestGroupService_CRUD(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)
	v := validator.New()
	groups := NewGroupService(repo, v, testLogger())
	permissions := NewPermissionService(repo, v, testLogger())

	perm, err := permissions.Create(ctx, &PermissionRequest{Name: "Can create ebook", Codename: CapCreateEBook})
	if err != nil {
		t.Fatalf("Permission create failed: %v", err)
	}

	t.Run("CreateWithPermissions", func(t *testing.T) {
		group, err := groups.Create(ctx, &GroupRequest{Name: "contributors", PermissionIDs: []uint{perm.ID}})
		if err != nil {
			t.Fatalf("Group create failed: %v", err)
		}

		stored, err := groups.Get(ctx, group.ID)
		if err != nil {
			t.Fatalf("Group get failed: %v", err)
		}
		if len(stored.Permissions) != 1 || stored.Permissions[0].Codename != CapCreateEBook {
			t.Errorf("Group permissions = %v", stored.Permissions)
		}
	})

	t.Run("CreateWithUnknownPermission", func(t *testing.T) {
		_, err := groups.Create(ctx, &GroupRequest{Name: "broken", PermissionIDs: []uint{9999}})
		if !errors.Is(err, ErrPermissionNotFound) {
			t.Fatalf("Expected ErrPermissionNotFound, got %v", err)
		}

		// The transaction must not leave a half-created group behind.
		all, err := groups.List(ctx)
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		for _, g := range all {
			if g.Name == "broken" {
				t.Error("Group row should have been rolled back")
			}
		}
	})

	t.Run("UpdateRename", func(t *testing.T) {
		group, err := groups.Create(ctx, &GroupRequest{Name: "temp"})
		if err != nil {
			t.Fatalf("Group create failed: %v", err)
		}

		updated, err := groups.Update(ctx, group.ID, &GroupRequest{Name: "renamed", PermissionIDs: []uint{perm.ID}})
		if err != nil {
			t.Fatalf("Group update failed: %v", err)
		}
		if updated.Name != "renamed" {
			t.Errorf("Name = %q", updated.Name)
		}
	})

	t.Run("DeleteMissing", func(t *testing.T) {
		if err := groups.Delete(ctx, 9999); !errors.Is(err, ErrGroupNotFound) {
			t.Fatalf("Expected ErrGroupNotFound, got %v", err)
		}
	})

	t.Run("NameRequired", func(t *testing.T) {
		_, err := groups.Create(ctx, &GroupRequest{})
		var verrs ValidationErrors
		if !errors.As(err, &verrs) {
			t.Fatalf("Expected ValidationErrors, got %v", err)
		}
	})
}

func TestPermissionService_CRUD(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)
	service := NewPermissionService(repo, validator.New(), testLogger())

	perm, err := service.Create(ctx, &PermissionRequest{Name: "Can create resource", Codename: CapCreateResource})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	updated, err := service.Update(ctx, perm.ID, &PermissionRequest{Name: "Can create any resource", Codename: CapCreateResource})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Name != "Can create any resource" {
		t.Errorf("Name = %q", updated.Name)
	}

	if err := service.Delete(ctx, perm.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := service.Get(ctx, perm.ID); !errors.Is(err, ErrPermissionNotFound) {
		t.Errorf("Expected ErrPermissionNotFound after delete, got %v", err)
	}
}
