package score

import (
	"fmt"
	"strings"
)

// ParameterType names the JSON shape of a calculator parameter.
type ParameterType string

const (
	TypeInteger ParameterType = "integer"
	TypeNumber  ParameterType = "number"
	TypeString  ParameterType = "string"
	TypeBoolean ParameterType = "boolean"
)

// ParameterSpec documents one named input a calculator accepts.
type ParameterSpec struct {
	Name        string        `json:"name" yaml:"name"`
	Type        ParameterType `json:"type" yaml:"type"`
	Required    bool          `json:"required" yaml:"required"`
	Description string        `json:"description" yaml:"description"`
	Options     []string      `json:"options,omitempty" yaml:"options,omitempty"`
	Unit        string        `json:"unit,omitempty" yaml:"unit,omitempty"`
	Min         *float64      `json:"min,omitempty" yaml:"min,omitempty"`
	Max         *float64      `json:"max,omitempty" yaml:"max,omitempty"`
}

// Metadata describes a calculator for catalog listings and documentation.
type Metadata struct {
	ID          ID              `json:"id" yaml:"id"`
	Title       string          `json:"title" yaml:"title"`
	Description string          `json:"description" yaml:"description"`
	Category    string          `json:"category" yaml:"category"`
	Version     string          `json:"version,omitempty" yaml:"version,omitempty"`
	Parameters  []ParameterSpec `json:"parameters" yaml:"parameters"`
	ResultUnit  string          `json:"result_unit" yaml:"result_unit"`
	Formula     string          `json:"formula,omitempty" yaml:"formula,omitempty"`
	References  []string        `json:"references,omitempty" yaml:"references,omitempty"`
	Notes       []string        `json:"notes,omitempty" yaml:"notes,omitempty"`
	Example     Parameters      `json:"example" yaml:"example"`
}

// Info is the short form of Metadata used in listings.
type Info struct {
	ID          ID     `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	Category    string `json:"category" yaml:"category"`
	Version     string `json:"version,omitempty" yaml:"version,omitempty"`
}

// Info returns the listing view of the metadata.
func (m Metadata) Info() Info {
	return Info{
		ID:          m.ID,
		Title:       m.Title,
		Description: m.Description,
		Category:    m.Category,
		Version:     m.Version,
	}
}

// Validate ensures metadata values satisfy invariants.
func (m Metadata) Validate() error {
	if err := m.ID.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(m.Title) == "" {
		return fmt.Errorf("score '%s' metadata requires a Title", m.ID)
	}
	if strings.TrimSpace(m.Category) == "" {
		return fmt.Errorf("score '%s' metadata requires a Category", m.ID)
	}
	if strings.TrimSpace(m.ResultUnit) == "" {
		return fmt.Errorf("score '%s' metadata requires a ResultUnit", m.ID)
	}

	seen := make(map[string]struct{}, len(m.Parameters))
	for _, p := range m.Parameters {
		if strings.TrimSpace(p.Name) == "" {
			return fmt.Errorf("score '%s' declares a parameter with empty name", m.ID)
		}
		if _, dup := seen[p.Name]; dup {
			return fmt.Errorf("score '%s' lists parameter '%s' more than once", m.ID, p.Name)
		}
		seen[p.Name] = struct{}{}
		if p.Min != nil && p.Max != nil && *p.Min > *p.Max {
			return fmt.Errorf("score '%s' parameter '%s' has min greater than max", m.ID, p.Name)
		}
	}
	return nil
}

// Clone returns a deep copy so callers cannot mutate a calculator's metadata.
func (m Metadata) Clone() Metadata {
	out := m
	if m.Parameters != nil {
		out.Parameters = make([]ParameterSpec, len(m.Parameters))
		for i, p := range m.Parameters {
			cp := p
			if p.Options != nil {
				cp.Options = append([]string(nil), p.Options...)
			}
			out.Parameters[i] = cp
		}
	}
	if m.References != nil {
		out.References = append([]string(nil), m.References...)
	}
	if m.Notes != nil {
		out.Notes = append([]string(nil), m.Notes...)
	}
	out.Example = m.Example.Clone()
	return out
}

// Matches reports whether term appears in the id, title, description or
// category, ignoring case.
func (m Metadata) Matches(term string) bool {
	needle := strings.ToLower(strings.TrimSpace(term))
	if needle == "" {
		return true
	}
	haystacks := []string{string(m.ID), m.Title, m.Description, m.Category}
	for _, h := range haystacks {
		if strings.Contains(strings.ToLower(h), needle) {
			return true
		}
	}
	return false
}

// Float returns a pointer to v, for populating ParameterSpec bounds.
func Float(v float64) *float64 {
	return &v
}
