package cli

import (
	"regexp"
	"sort"
	"strings"

	"visionlink/internal/types"
)

var emailPattern = regexp.MustCompile(`\S+@\S+\.\S+`)

const minPasswordLen = 8

// FieldErrors maps a form field to the message shown next to it.
type FieldErrors map[string]string

func (f FieldErrors) Error() string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, k+": "+f[k])
	}
	return strings.Join(lines, "\n")
}

func validateEmail(errs FieldErrors, email string) {
	switch {
	case strings.TrimSpace(email) == "":
		errs["email"] = "email is required"
	case !emailPattern.MatchString(email):
		errs["email"] = "email is invalid"
	}
}

// ValidateLogin checks the login form before any request is made.
func ValidateLogin(c types.Credentials) error {
	errs := FieldErrors{}
	validateEmail(errs, c.Email)
	if c.Password == "" {
		errs["password"] = "password is required"
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ValidateRegistration checks the registration form before any request is made.
func ValidateRegistration(r types.RegistrationRequest) error {
	errs := FieldErrors{}
	validateEmail(errs, r.Email)
	switch {
	case r.Password == "":
		errs["password"] = "password is required"
	case len(r.Password) < minPasswordLen:
		errs["password"] = "password must be at least 8 characters"
	}
	switch {
	case r.PasswordConfirm == "":
		errs["password_confirm"] = "password confirmation is required"
	case r.Password != r.PasswordConfirm:
		errs["password_confirm"] = "passwords do not match"
	}
	if strings.TrimSpace(r.FirstName) == "" {
		errs["first_name"] = "first name is required"
	}
	if strings.TrimSpace(r.LastName) == "" {
		errs["last_name"] = "last name is required"
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}
