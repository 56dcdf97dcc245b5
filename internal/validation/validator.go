package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	apperrors "angelina/internal/errors"

	"github.com/go-playground/validator/v10"
)

const MessageMissingFields = "Missing required fields"

var phonePattern = regexp.MustCompile(`^[\d\s+\-()]+$`)

type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their JSON names so details match the request body.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})

	return &Validator{validate: v}
}

// Struct validates s and converts failures into a *apperrors.ValidationError.
func (v *Validator) Struct(s interface{}) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apperrors.NewInternalError("validating request", err)
	}

	message := "Invalid field values"
	details := make([]apperrors.ValidationDetail, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		if fe.Tag() == "required" {
			message = MessageMissingFields
		}
		details = append(details, apperrors.ValidationDetail{
			Field:   fe.Field(),
			Message: describe(fe),
		})
	}

	return apperrors.NewValidationError(message, details...)
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return "must be a valid email address"
	case "phone":
		return "must contain only digits, spaces and + - ( )"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
