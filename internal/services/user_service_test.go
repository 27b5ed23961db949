package services

import (
	"context"
	"errors"
	"testing"

	"github.com/NWU-Kano/library-service/internal/events"
	"github.com/NWU-Kano/library-service/internal/models"
	"github.com/NWU-Kano/library-service/internal/repositories"
	"github.com/NWU-Kano/library-service/internal/validator"
)

type userServiceFixture struct {
	repo      repositories.Repository
	publisher *events.MockEventPublisher
	service   UserService
}

func newUserServiceFixture(t *testing.T) *userServiceFixture {
	t.Helper()

	logger := testLogger()
	repo := newTestRepository(t)
	publisher := events.NewMockEventPublisher(logger)
	notifications := NewNotificationService(publisher, logger)

	return &userServiceFixture{
		repo:      repo,
		publisher: publisher,
		service:   NewUserService(repo, validator.New(), notifications, logger),
	}
}

func registrationRequest() *RegisterRequest {
	return &RegisterRequest{
		Email:           "amina.bello@nwu-kano.edu.ng",
		Username:        "amina.bello",
		Password:        "correct-horse-battery",
		FirstName:       "Amina",
		LastName:        "Bello",
		StudentID:       "NWU/CS/20/1234",
		Faculty:         "Natural Sciences",
		Department:      "Computer Science",
		StudentCategory: models.CategoryUndergraduate,
	}
}

func TestUserService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("NewAccountIsPending", func(t *testing.T) {
		f := newUserServiceFixture(t)

		user, err := f.service.Register(ctx, registrationRequest())
		if err != nil {
			t.Fatalf("Register failed: %v", err)
		}
		if user.IsActive {
			t.Error("Registered account should be pending, got active")
		}
		if user.ID == 0 {
			t.Error("Registered account should have an ID")
		}

		// No card until the account is activated.
		if _, err := f.repo.IDCard().GetByUserID(ctx, user.ID); !repositories.IsNotFoundError(err) {
			t.Errorf("Expected no id card for pending account, got err=%v", err)
		}

		published := f.publisher.GetPublishedEvents()
		if len(published) != 1 {
			t.Fatalf("Expected 1 published event, got %d", len(published))
		}
		if published[0].Type != EventRegistrationReceived {
			t.Errorf("Expected event type %q, got %q", EventRegistrationReceived, published[0].Type)
		}
	})

	t.Run("EmailRequired", func(t *testing.T) {
		f := newUserServiceFixture(t)

		req := registrationRequest()
		req.Email = "   "

		_, err := f.service.Register(ctx, req)
		if err == nil {
			t.Fatal("Expected validation error for missing email")
		}

		var verrs ValidationErrors
		if !errors.As(err, &verrs) {
			t.Fatalf("Expected ValidationErrors, got %T", err)
		}

		found := false
		for _, ve := range verrs {
			if ve.Field == "email" && ve.Message == "users must have an email address" {
				found = true
			}
		}
		if !found {
			t.Errorf("Expected email requirement message, got %v", verrs)
		}

		if len(f.publisher.GetPublishedEvents()) != 0 {
			t.Error("No event should be published for a rejected registration")
		}
	})

	t.Run("PasswordTooShort", func(t *testing.T) {
		f := newUserServiceFixture(t)

		req := registrationRequest()
		req.Password = "short"

		if _, err := f.service.Register(ctx, req); err == nil {
			t.Fatal("Expected validation error for short password")
		}
	})

	t.Run("DuplicateEmailRejected", func(t *testing.T) {
		f := newUserServiceFixture(t)

		if _, err := f.service.Register(ctx, registrationRequest()); err != nil {
			t.Fatalf("First registration failed: %v", err)
		}

		req := registrationRequest()
		req.Username = "amina.b"
		req.StudentID = "NWU/CS/20/5678"

		_, err := f.service.Register(ctx, req)
		if !errors.Is(err, ErrDuplicateEmail) {
			t.Fatalf("Expected ErrDuplicateEmail for reused email, got %v", err)
		}

		if got := len(f.publisher.GetPublishedEvents()); got != 1 {
			t.Errorf("Expected only the first registration event, got %d", got)
		}
	})
}

func TestUserService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("SuperuserStartsActiveWithCard", func(t *testing.T) {
		f := newUserServiceFixture(t)

		req := &CreateUserRequest{RegisterRequest: *registrationRequest(), IsSuperuser: true}
		user, err := f.service.Create(ctx, req)
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if !user.IsActive {
			t.Error("Superuser account should start active")
		}

		card, err := f.repo.IDCard().GetByUserID(ctx, user.ID)
		if err != nil {
			t.Fatalf("Expected id card for active account with student ID: %v", err)
		}
		if card.IDNumber != req.StudentID {
			t.Errorf("Card number = %q, want %q", card.IDNumber, req.StudentID)
		}
		if card.Faculty != req.Faculty || card.Department != req.Department {
			t.Error("Card should mirror the user's faculty and department")
		}

		if len(f.publisher.GetPublishedEvents()) != 0 {
			t.Error("No registration event is expected for a superuser account")
		}
	})

	t.Run("RegularAccountForcedPending", func(t *testing.T) {
		f := newUserServiceFixture(t)

		req := &CreateUserRequest{RegisterRequest: *registrationRequest(), IsActive: true}
		user, err := f.service.Create(ctx, req)
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if user.IsActive {
			t.Error("Non-superuser account should be created pending even when the request asks for active")
		}

		published := f.publisher.GetPublishedEvents()
		if len(published) != 1 || published[0].Type != EventRegistrationReceived {
			t.Errorf("Expected a single registration event, got %v", published)
		}
	})

	t.Run("UnknownPermissionRollsBack", func(t *testing.T) {
		f := newUserServiceFixture(t)

		req := &CreateUserRequest{RegisterRequest: *registrationRequest(), PermissionIDs: []uint{999}}
		if _, err := f.service.Create(ctx, req); !errors.Is(err, ErrPermissionNotFound) {
			t.Fatalf("Expected ErrPermissionNotFound, got %v", err)
		}

		if _, err := f.repo.User().GetByIdentifier(ctx, req.Email); !repositories.IsNotFoundError(err) {
			t.Errorf("User row should have been rolled back, got err=%v", err)
		}
	})

	t.Run("UnknownGroupRejected", func(t *testing.T) {
		f := newUserServiceFixture(t)

		req := &CreateUserRequest{RegisterRequest: *registrationRequest(), GroupIDs: []uint{42}}
		if _, err := f.service.Create(ctx, req); !errors.Is(err, ErrGroupNotFound) {
			t.Fatalf("Expected ErrGroupNotFound, got %v", err)
		}
	})

	t.Run("DirectPermissionsAssigned", func(t *testing.T) {
		f := newUserServiceFixture(t)

		perm := &models.Permission{Name: "Can create ebook", Codename: CapCreateEBook}
		if err := f.repo.Permission().Create(ctx, perm); err != nil {
			t.Fatalf("Failed to seed permission: %v", err)
		}

		req := &CreateUserRequest{RegisterRequest: *registrationRequest(), PermissionIDs: []uint{perm.ID}}
		user, err := f.service.Create(ctx, req)
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}

		stored, err := f.repo.User().GetByID(ctx, user.ID)
		if err != nil {
			t.Fatalf("Failed to reload user: %v", err)
		}
		if !stored.HasPerm(CapCreateEBook) {
			t.Error("Expected user to hold the assigned capability")
		}
	})
}

func TestUserService_ApprovalFlow(t *testing.T) {
	ctx := context.Background()
	f := newUserServiceFixture(t)

	user, err := f.service.Register(ctx, registrationRequest())
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	f.publisher.ClearEvents()

	active := true
	approved, err := f.service.Update(ctx, user.ID, &UpdateUserRequest{IsActive: &active})
	if err != nil {
		t.Fatalf("Approval update failed: %v", err)
	}
	if !approved.IsActive {
		t.Fatal("User should be active after approval")
	}

	card, err := f.repo.IDCard().GetByUserID(ctx, user.ID)
	if err != nil {
		t.Fatalf("Expected id card after activation: %v", err)
	}
	if card.IDNumber != user.StudentID {
		t.Errorf("Card number = %q, want %q", card.IDNumber, user.StudentID)
	}

	published := f.publisher.GetPublishedEvents()
	if len(published) != 1 || published[0].Type != EventAccountApproved {
		t.Fatalf("Expected a single approval event, got %v", published)
	}

	// Saving an already active account must not notify again.
	if _, err := f.service.Update(ctx, user.ID, &UpdateUserRequest{IsActive: &active}); err != nil {
		t.Fatalf("Resave failed: %v", err)
	}
	if got := len(f.publisher.GetPublishedEvents()); got != 1 {
		t.Errorf("Expected approval event exactly once, got %d events", got)
	}

	// Profile changes flow through to the card on every save.
	faculty := "Engineering"
	if _, err := f.service.Update(ctx, user.ID, &UpdateUserRequest{Faculty: &faculty}); err != nil {
		t.Fatalf("Profile update failed: %v", err)
	}
	card, err = f.repo.IDCard().GetByUserID(ctx, user.ID)
	if err != nil {
		t.Fatalf("Failed to reload card: %v", err)
	}
	if card.Faculty != faculty {
		t.Errorf("Card faculty = %q, want %q", card.Faculty, faculty)
	}
}

func TestUserService_CardRequiresStudentID(t *testing.T) {
	ctx := context.Background()
	f := newUserServiceFixture(t)

	req := &CreateUserRequest{RegisterRequest: *registrationRequest(), IsSuperuser: true}
	req.StudentID = ""

	user, err := f.service.Create(ctx, req)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if _, err := f.repo.IDCard().GetByUserID(ctx, user.ID); !repositories.IsNotFoundError(err) {
		t.Fatalf("Active account without student ID should have no card, got err=%v", err)
	}

	studentID := "NWU/LAW/21/0042"
	if _, err := f.service.Update(ctx, user.ID, &UpdateUserRequest{StudentID: &studentID}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	card, err := f.repo.IDCard().GetByUserID(ctx, user.ID)
	if err != nil {
		t.Fatalf("Expected card once a student ID is set: %v", err)
	}
	if card.IDNumber != studentID {
		t.Errorf("Card number = %q, want %q", card.IDNumber, studentID)
	}
}

func TestUserService_StaffGroupSync(t *testing.T) {
	ctx := context.Background()
	f := newUserServiceFixture(t)

	for _, name := range []string{"librarians", "catalogers"} {
		if err := f.repo.Group().Create(ctx, &models.Group{Name: name}); err != nil {
			t.Fatalf("Failed to seed group %s: %v", name, err)
		}
	}

	req := &CreateUserRequest{RegisterRequest: *registrationRequest(), IsStaff: true}
	user, err := f.service.Create(ctx, req)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	stored, err := f.repo.User().GetByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("Failed to reload user: %v", err)
	}
	if len(stored.Groups) != 2 {
		t.Fatalf("Staff user should belong to all 2 groups, got %d", len(stored.Groups))
	}

	// A new group reaches existing staff on their next save.
	if err := f.repo.Group().Create(ctx, &models.Group{Name: "archivists"}); err != nil {
		t.Fatalf("Failed to seed group: %v", err)
	}
	if _, err := f.service.Update(ctx, user.ID, &UpdateUserRequest{}); err != nil {
		t.Fatalf("Resave failed: %v", err)
	}
	stored, err = f.repo.User().GetByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("Failed to reload user: %v", err)
	}
	if len(stored.Groups) != 3 {
		t.Fatalf("Staff user should belong to all 3 groups after resave, got %d", len(stored.Groups))
	}

	// Revoking staff clears every membership.
	notStaff := false
	if _, err := f.service.Update(ctx, user.ID, &UpdateUserRequest{IsStaff: &notStaff}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	stored, err = f.repo.User().GetByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("Failed to reload user: %v", err)
	}
	if len(stored.Groups) != 0 {
		t.Fatalf("Non-staff user should belong to no groups, got %d", len(stored.Groups))
	}
}
