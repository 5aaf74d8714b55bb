package score

import (
	"fmt"
	"regexp"
	"strings"
)

var idPattern = regexp.MustCompile(`^[a-z][a-z0-9]*(?:_[a-z0-9]+)*$`)

// ID is the stable snake_case key naming one clinical calculator. An ID is
// never reused for a different formula once published.
type ID string

// String returns the identifier as a plain string.
func (id ID) String() string {
	return string(id)
}

// Validate ensures the identifier follows the snake_case convention.
func (id ID) Validate() error {
	if strings.TrimSpace(string(id)) == "" {
		return fmt.Errorf("score id is required")
	}
	if !idPattern.MatchString(string(id)) {
		return fmt.Errorf("score id %q must be snake_case (lowercase letters, digits and underscores)", string(id))
	}
	return nil
}

// ParseID trims and validates raw input, returning a typed identifier.
func ParseID(raw string) (ID, error) {
	id := ID(strings.TrimSpace(raw))
	if err := id.Validate(); err != nil {
		return "", err
	}
	return id, nil
}
