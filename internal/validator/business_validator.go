package validator

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// BusinessValidator layers domain rules on top of struct-tag validation.
type BusinessValidator struct {
	validate *validator.Validate
}

func NewBusinessValidator() *BusinessValidator {
	return &BusinessValidator{validate: validator.New()}
}

// Validate validates business rules for any struct.
func (bv *BusinessValidator) Validate(s interface{}) ValidationErrors {
	if err := bv.validate.Struct(s); err != nil {
		return ToValidationErrors(err)
	}
	return nil
}

// ValidateRegistration validates self-registration. The email rule is the
// one hard requirement of the user lifecycle: no account without an address
// to notify.
func (bv *BusinessValidator) ValidateRegistration(req *RegisterRequest) ValidationErrors {
	var errors ValidationErrors

	if strings.TrimSpace(req.Email) == "" {
		errors = append(errors, ValidationError{
			Field:   "email",
			Message: "users must have an email address",
			Rule:    "required",
		})
		// Struct validation would report the same field again.
		rest := *req
		rest.Email = "placeholder@placeholder.invalid"
		errors = append(errors, bv.Validate(&rest)...)
		return errors
	}

	errors = append(errors, bv.Validate(req)...)
	return errors
}

// ValidateUserCreate validates admin user creation.
func (bv *BusinessValidator) ValidateUserCreate(req *UserCreateRequest) ValidationErrors {
	return bv.ValidateRegistration(&req.RegisterRequest)
}

// ValidateUserUpdate validates a partial user update.
func (bv *BusinessValidator) ValidateUserUpdate(req *UserUpdateRequest) ValidationErrors {
	var errors ValidationErrors

	if req.Email != nil && strings.TrimSpace(*req.Email) == "" {
		errors = append(errors, ValidationError{
			Field:   "email",
			Message: "users must have an email address",
			Rule:    "required",
		})
		return errors
	}

	errors = append(errors, bv.Validate(req)...)
	return errors
}
