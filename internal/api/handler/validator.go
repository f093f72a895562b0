package handler

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/spectrosystems/student-management-api/internal/core/domain"
)

// labels maps wire field names to the wording used in messages.
var labels = map[string]string{
	"firstName":       "First name",
	"lastName":        "Last name",
	"username":        "Username",
	"usernameOrEmail": "Username or email",
	"email":           "Email",
	"password":        "Password",
	"role":            "Role",
	"dateOfBirth":     "Date of birth",
}

// echoValidator wraps go-playground/validator so Echo can call c.Validate(req).
type echoValidator struct {
	v *validator.Validate
}

// NewValidator returns an echoValidator ready to be assigned to echo.Echo.Validator.
// Failures are reported as *domain.ValidationError keyed by json field name.
func NewValidator() *echoValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("pastdate", pastDate)
	return &echoValidator{v: v}
}

// Validate satisfies the echo.Validator interface.
func (ev *echoValidator) Validate(i any) error {
	if err := ev.v.Struct(i); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			out := &domain.ValidationError{}
			for _, fe := range ve {
				out.Add(fe.Field(), fieldError(fe))
			}
			return out
		}
		return err
	}
	return nil
}

// pastDate accepts a DateLayout string strictly before today (UTC).
func pastDate(fl validator.FieldLevel) bool {
	t, err := time.Parse(domain.DateLayout, fl.Field().String())
	if err != nil {
		return false
	}
	y, m, d := time.Now().UTC().Date()
	return t.Before(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}

// fieldError converts a single FieldError into a human-readable message.
func fieldError(fe validator.FieldError) string {
	label, ok := labels[fe.Field()]
	if !ok {
		label = fe.Field()
	}
	switch fe.Tag() {
	case "required":
		if fe.Field() == "role" {
			return "Role should not be empty"
		}
		return label + " is required"
	case "email":
		return "Invalid Email address"
	case "alpha":
		return label + " must contain only letters"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", label, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", label, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", label, fe.Param())
	case "datetime":
		return label + " must be a date formatted as YYYY-MM-DD"
	case "pastdate":
		return "The " + strings.ToLower(label) + " must be in the past"
	default:
		return fmt.Sprintf("%s failed validation (%s)", label, fe.Tag())
	}
}
