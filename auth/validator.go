package auth

import (
	"dm-lab/errors"
	"fmt"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// RegisterRequest is checked before any account is created.
// Usernames are lower-case alphanumeric so that they never contain the
// conversation group separator.
type RegisterRequest struct {
	Username string `validate:"required,min=3,max=32,alphanum,lowercase"`
	KnownAs  string `validate:"max=64"`
	Password string `validate:"required,min=12,max=72"`
}

func ValidateRegister(req RegisterRequest) error {
	if err := validate.Struct(req); err != nil {
		var fieldErrors validator.ValidationErrors
		if !asValidationErrors(err, &fieldErrors) {
			return err
		}
		for _, fieldErr := range fieldErrors {
			switch fieldErr.Field() {
			case "Username":
				return fmt.Errorf("%w: %s", errors.ErrInvalidUsername, fieldErr.Tag())
			case "Password":
				return fmt.Errorf("%w: %s", errors.ErrInvalidPassword, fieldErr.Tag())
			}
		}
		return fmt.Errorf("%w: %v", errors.ErrInvalidRequest, err)
	}

	if !isPasswordComplex(req.Password) {
		return errors.ErrInvalidPassword
	}
	return nil
}

// ValidateUsername applies the registration rules to a single username.
func ValidateUsername(username string) error {
	if err := validate.Var(username, "required,min=3,max=32,alphanum,lowercase"); err != nil {
		return fmt.Errorf("%w: %q", errors.ErrInvalidUsername, username)
	}
	return nil
}

func asValidationErrors(err error, target *validator.ValidationErrors) bool {
	fieldErrors, ok := err.(validator.ValidationErrors)
	if ok {
		*target = fieldErrors
	}
	return ok
}

func isPasswordComplex(s string) bool {
	var (
		hasUpper   = false
		hasLower   = false
		hasNumber  = false
		hasSpecial = false
	)
	for _, char := range s {
		switch {
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsLower(char):
			hasLower = true
		case unicode.IsNumber(char):
			hasNumber = true
		case unicode.IsPunct(char) || unicode.IsSymbol(char):
			hasSpecial = true
		}
	}
	return hasUpper && hasLower && hasNumber && hasSpecial
}
