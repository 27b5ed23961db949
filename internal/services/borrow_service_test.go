package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/NWU-Kano/library-service/internal/models"
	"github.com/NWU-Kano/library-service/internal/repositories"
	"github.com/NWU-Kano/library-service/internal/validator"
)

type borrowFixture struct {
	repo    repositories.Repository
	service BorrowService
	student *models.User
	other   *models.User
	staff   *models.User
}

func newBorrowFixture(t *testing.T) *borrowFixture {
	t.Helper()

	repo := newTestRepository(t)
	f := &borrowFixture{
		repo:    repo,
		service: NewBorrowService(repo, validator.New(), testLogger()),
	}

	for i, u := range []**models.User{&f.student, &f.other, &f.staff} {
		user := &models.User{
			Email:    fmt.Sprintf("reader%d@nwu-kano.edu.ng", i),
			Username: fmt.Sprintf("reader%d", i),
			IsActive: true,
		}
		if err := repo.User().Create(context.Background(), user); err != nil {
			t.Fatalf("Failed to seed user: %v", err)
		}
		*u = user
	}
	f.staff.IsStaff = true
	if err := repo.User().Update(context.Background(), f.staff); err != nil {
		t.Fatalf("Failed to promote staff user: %v", err)
	}

	return f
}

func TestBorrowService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("ForSelf", func(t *testing.T) {
		f := newBorrowFixture(t)

		record, err := f.service.Create(ctx, f.student, &CreateBorrowRequest{BookTitle: "Introduction to Algorithms"})
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if record.UserID != f.student.ID {
			t.Errorf("Record owner = %d, want %d", record.UserID, f.student.ID)
		}
		if record.BorrowDate.IsZero() {
			t.Error("Borrow date should be stamped")
		}
	})

	t.Run("Anonymous", func(t *testing.T) {
		f := newBorrowFixture(t)

		if _, err := f.service.Create(ctx, nil, &CreateBorrowRequest{BookTitle: "X"}); !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("Expected ErrUnauthorized, got %v", err)
		}
	})

	t.Run("ForOtherRequiresStaff", func(t *testing.T) {
		f := newBorrowFixture(t)

		_, err := f.service.Create(ctx, f.student, &CreateBorrowRequest{
			UserID:    &f.other.ID,
			BookTitle: "Operating Systems",
		})
		var perr *PermissionError
		if !errors.As(err, &perr) {
			t.Fatalf("Expected PermissionError, got %v", err)
		}
	})

	t.Run("StaffCreatesForOther", func(t *testing.T) {
		f := newBorrowFixture(t)

		record, err := f.service.Create(ctx, f.staff, &CreateBorrowRequest{
			UserID:    &f.other.ID,
			BookTitle: "Operating Systems",
		})
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if record.UserID != f.other.ID {
			t.Errorf("Record owner = %d, want %d", record.UserID, f.other.ID)
		}
	})

	t.Run("StaffCreateForUnknownUser", func(t *testing.T) {
		f := newBorrowFixture(t)

		missing := uint(9999)
		_, err := f.service.Create(ctx, f.staff, &CreateBorrowRequest{UserID: &missing, BookTitle: "X"})
		if !errors.Is(err, ErrUserNotFound) {
			t.Fatalf("Expected ErrUserNotFound, got %v", err)
		}
	})
}

func TestBorrowService_Scoping(t *testing.T) {
	ctx := context.Background()
	f := newBorrowFixture(t)

	mine, err := f.service.Create(ctx, f.student, &CreateBorrowRequest{BookTitle: "Mine"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	theirs, err := f.service.Create(ctx, f.other, &CreateBorrowRequest{BookTitle: "Theirs"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	t.Run("GetOwn", func(t *testing.T) {
		if _, err := f.service.Get(ctx, f.student, mine.ID); err != nil {
			t.Fatalf("Get failed: %v", err)
		}
	})

	t.Run("GetForeignReadsAsMissing", func(t *testing.T) {
		if _, err := f.service.Get(ctx, f.student, theirs.ID); !errors.Is(err, ErrBorrowNotFound) {
			t.Fatalf("Expected ErrBorrowNotFound, got %v", err)
		}
	})

	t.Run("StaffSeesAll", func(t *testing.T) {
		if _, err := f.service.Get(ctx, f.staff, theirs.ID); err != nil {
			t.Fatalf("Staff get failed: %v", err)
		}

		records, total, err := f.service.List(ctx, f.staff, 50, 0)
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if total != 2 || len(records) != 2 {
			t.Errorf("Staff list = %d records (total %d), want 2", len(records), total)
		}
	})

	t.Run("ListScopedToOwner", func(t *testing.T) {
		records, total, err := f.service.List(ctx, f.student, 50, 0)
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if total != 1 || len(records) != 1 {
			t.Fatalf("Student list = %d records (total %d), want 1", len(records), total)
		}
		if records[0].ID != mine.ID {
			t.Errorf("Student list returned record %d, want %d", records[0].ID, mine.ID)
		}
	})

	t.Run("UpdateForeignReadsAsMissing", func(t *testing.T) {
		title := "Renamed"
		_, err := f.service.Update(ctx, f.student, theirs.ID, &UpdateBorrowRequest{BookTitle: &title})
		if !errors.Is(err, ErrBorrowNotFound) {
			t.Fatalf("Expected ErrBorrowNotFound, got %v", err)
		}
	})

	t.Run("UpdateOwn", func(t *testing.T) {
		title := "Mine, renewed"
		record, err := f.service.Update(ctx, f.student, mine.ID, &UpdateBorrowRequest{BookTitle: &title})
		if err != nil {
			t.Fatalf("Update failed: %v", err)
		}
		if record.BookTitle != title {
			t.Errorf("Title = %q, want %q", record.BookTitle, title)
		}
	})

	t.Run("DeleteForeignReadsAsMissing", func(t *testing.T) {
		if err := f.service.Delete(ctx, f.student, theirs.ID); !errors.Is(err, ErrBorrowNotFound) {
			t.Fatalf("Expected ErrBorrowNotFound, got %v", err)
		}
	})

	t.Run("DeleteOwn", func(t *testing.T) {
		if err := f.service.Delete(ctx, f.student, mine.ID); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
		if _, err := f.service.Get(ctx, f.student, mine.ID); !errors.Is(err, ErrBorrowNotFound) {
			t.Errorf("Expected ErrBorrowNotFound after delete, got %v", err)
		}
	})
}
