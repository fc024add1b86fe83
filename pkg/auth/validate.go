package auth

import (
	"strings"

	"github.com/wisharea/storefront/pkg/models"
)

const MinPasswordLength = 6

type LoginForm struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (f LoginForm) Validate() error {
	if strings.TrimSpace(f.Email) == "" || f.Password == "" {
		return models.NewValidationError("email", "Please fill in all fields")
	}
	return nil
}

type SignupForm struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	AcceptTerms     bool   `json:"acceptTerms"`
}

// Validate runs the checks in the order the signup page reports them and
// returns the first failure.
func (f SignupForm) Validate() error {
	if strings.TrimSpace(f.Name) == "" || strings.TrimSpace(f.Email) == "" ||
		f.Password == "" || f.ConfirmPassword == "" {
		return models.NewValidationError("name", "Please fill in all fields")
	}
	if f.Password != f.ConfirmPassword {
		return models.NewValidationError("confirmPassword", "Passwords do not match")
	}
	if len(f.Password) < MinPasswordLength {
		return models.NewValidationError("password", "Password must be at least 6 characters")
	}
	if !f.AcceptTerms {
		return models.NewValidationError("acceptTerms", "Please accept the terms and conditions")
	}
	return nil
}

func validateProfile(update models.ProfileUpdate) error {
	if update.Name != nil && strings.TrimSpace(*update.Name) == "" {
		return models.NewValidationError("name", "Name is required")
	}
	if update.Email != nil && !models.ValidEmail(*update.Email) {
		return models.NewValidationError("email", "Please enter a valid email")
	}
	return nil
}
