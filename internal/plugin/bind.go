package plugin

import (
	"fmt"
	"math"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/mitchellh/mapstructure"

	"github.com/alexisbeaulieu97/nobra/internal/domain/score"
)

var requiredFieldCache sync.Map // reflect.Type -> []string

// Bind adapts a parameter mapping onto the calculator's declared parameter
// struct. Keys are matched against the struct's json tags. Fields tagged
// omitempty or declared as pointers are optional; every other field must be
// present. Unknown keys are rejected. After decoding, the struct's validate
// tags are checked.
//
// Mapping problems are reported as *BindingError; declared value constraints
// that fail are reported as *ValueError.
func Bind(params score.Parameters, target any) error {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Ptr || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("%w: bind target must be a non-nil pointer to a struct, got %T", ErrInternal, target)
	}

	var md mapstructure.Metadata
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Metadata:         &md,
		Result:           target,
		DecodeHook:       mapstructure.DecodeHookFuncType(rejectFractionalIntegers),
	})
	if err != nil {
		return fmt.Errorf("%w: build decoder: %v", ErrInternal, err)
	}

	input := map[string]any(params)
	if input == nil {
		input = map[string]any{}
	}

	decodeErr := decoder.Decode(input)
	missing := missingRequired(rv.Elem().Type(), md.Unset)
	unexpected := append([]string(nil), md.Unused...)
	sort.Strings(unexpected)

	if decodeErr != nil || len(missing) > 0 || len(unexpected) > 0 {
		return &BindingError{
			Missing:    missing,
			Unexpected: unexpected,
			Err:        decodeErr,
		}
	}

	if err := validatorInstance().Struct(target); err != nil {
		return convertValidationError(err)
	}
	return nil
}

func missingRequired(t reflect.Type, unset []string) []string {
	if len(unset) == 0 {
		return nil
	}
	required := requiredFields(t)
	isRequired := make(map[string]struct{}, len(required))
	for _, name := range required {
		isRequired[name] = struct{}{}
	}

	var missing []string
	for _, name := range unset {
		if _, ok := isRequired[name]; ok {
			missing = append(missing, name)
		}
	}
	sort.Strings(missing)
	return missing
}

func requiredFields(t reflect.Type) []string {
	if cached, ok := requiredFieldCache.Load(t); ok {
		return cached.([]string)
	}

	var names []string
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		tag := field.Tag.Get("json")
		if tag == "-" {
			continue
		}
		parts := strings.Split(tag, ",")
		name := parts[0]
		if name == "" {
			name = field.Name
		}
		optional := field.Type.Kind() == reflect.Ptr
		for _, opt := range parts[1:] {
			if opt == "omitempty" {
				optional = true
			}
		}
		if !optional {
			names = append(names, name)
		}
	}

	requiredFieldCache.Store(t, names)
	return names
}

// rejectFractionalIntegers refuses to truncate 5.5 into an int field; JSON
// numbers arrive as float64 and mapstructure would otherwise drop the
// fraction silently.
func rejectFractionalIntegers(_ reflect.Type, to reflect.Type, data any) (any, error) {
	switch to.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
	default:
		return data, nil
	}

	switch v := data.(type) {
	case float64:
		if v != math.Trunc(v) || math.IsInf(v, 0) || math.IsNaN(v) {
			return nil, fmt.Errorf("expected an integer, got %v", v)
		}
	case float32:
		f := float64(v)
		if f != math.Trunc(f) || math.IsInf(f, 0) || math.IsNaN(f) {
			return nil, fmt.Errorf("expected an integer, got %v", v)
		}
	}
	return data, nil
}
