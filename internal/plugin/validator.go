package plugin

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate
)

// validatorInstance configures and returns the shared validator used to check
// calculator parameter structs. Field names are reported by their json tag so
// messages match the keys callers sent.
func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())

		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return field.Name
			}
			return name
		})

		_ = v.RegisterValidation("yesno", func(fl validator.FieldLevel) bool {
			switch fl.Field().String() {
			case "yes", "no":
				return true
			default:
				return false
			}
		})

		validateInst = v
	})

	return validateInst
}

// convertValidationError turns the first validator failure into a ValueError
// carrying a human-readable message.
func convertValidationError(err error) error {
	if err == nil {
		return nil
	}

	var ves validator.ValidationErrors
	if errors.As(err, &ves) && len(ves) > 0 {
		fe := ves[0]
		return NewValueError(fe.Field(), describeFieldError(fe))
	}

	var invalid *validator.InvalidValidationError
	if errors.As(err, &invalid) {
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}
	return NewValueError("", err.Error())
}

func describeFieldError(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min", "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s (got %v)", field, fe.Param(), fe.Value())
	case "max", "lte":
		return fmt.Sprintf("%s must be less than or equal to %s (got %v)", field, fe.Param(), fe.Value())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s (got %v)", field, fe.Param(), fe.Value())
	case "lt":
		return fmt.Sprintf("%s must be less than %s (got %v)", field, fe.Param(), fe.Value())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s (got %q)", field, strings.Join(strings.Fields(fe.Param()), ", "), fmt.Sprint(fe.Value()))
	case "yesno":
		return fmt.Sprintf("%s must be 'yes' or 'no' (got %q)", field, fmt.Sprint(fe.Value()))
	default:
		return fmt.Sprintf("%s failed validation for tag '%s'", field, fe.Tag())
	}
}
