package config

import (
	"errors"
	"fmt"
	"net"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	nobraerrors "github.com/alexisbeaulieu97/nobra/pkg/errors"
)

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate

	byteSizePattern = regexp.MustCompile(`^[0-9]+[BKMGTP]?$`)
)

// validatorInstance configures and returns the shared validator instance used across the config package.
func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()

		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			name := strings.SplitN(field.Tag.Get("mapstructure"), ",", 2)[0]
			if name == "" {
				return strings.ToLower(field.Name)
			}
			return name
		})

		_ = v.RegisterValidation("listen_addr", func(fl validator.FieldLevel) bool {
			_, port, err := net.SplitHostPort(fl.Field().String())
			if err != nil {
				return false
			}
			n, err := strconv.Atoi(port)
			return err == nil && n >= 0 && n <= 65535
		})

		// Same notation the echo body limit middleware accepts, e.g. 512K or 1M.
		_ = v.RegisterValidation("byte_size", func(fl validator.FieldLevel) bool {
			return byteSizePattern.MatchString(strings.ToUpper(fl.Field().String()))
		})

		_ = v.RegisterValidation("log_level", func(fl validator.FieldLevel) bool {
			_, err := zerolog.ParseLevel(strings.ToLower(fl.Field().String()))
			return err == nil
		})

		validateInst = v
	})

	return validateInst
}

// convertValidationError normalizes validator errors into nobra validation errors.
func convertValidationError(err error) error {
	if err == nil {
		return nil
	}

	var ves validator.ValidationErrors
	if errors.As(err, &ves) && len(ves) > 0 {
		fe := ves[0]
		field := yamlishFieldName(fe)
		return nobraerrors.NewValueValidationError(field, fe.Value(), describe(fe))
	}

	return nobraerrors.NewValidationError("config", err.Error(), err)
}

// yamlishFieldName turns Config.server.addr into server.addr.
func yamlishFieldName(fe validator.FieldError) string {
	parts := strings.Split(fe.Namespace(), ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	return strings.Join(parts, ".")
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "listen_addr":
		return fmt.Sprintf("%q is not a valid listen address (expected host:port or :port)", fe.Value())
	case "byte_size":
		return fmt.Sprintf("%q is not a valid size (expected e.g. 512K, 1M)", fe.Value())
	case "log_level":
		return fmt.Sprintf("%q is not a log level (trace, debug, info, warn, error)", fe.Value())
	case "oneof":
		return fmt.Sprintf("%v must be one of: %s", fe.Value(), strings.Join(strings.Fields(fe.Param()), ", "))
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	default:
		return fmt.Sprintf("failed validation for tag '%s'", fe.Tag())
	}
}
