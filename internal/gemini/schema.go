package gemini

import "fmt"

// Schema declares the shape the caller expects the model's JSON output to
// conform to, in the generation endpoint's own schema dialect. It is both
// sent with the request (so the model targets the shape) and enforced
// locally after parsing (so a drifting response fails fast instead of
// decaying into zero values).
type Schema struct {
	Type       string             `json:"type"`
	Properties map[string]*Schema `json:"properties,omitempty"`
	Items      *Schema            `json:"items,omitempty"`
	Required   []string           `json:"required,omitempty"`
	Enum       []string           `json:"enum,omitempty"`
}

const (
	TypeString  = "STRING"
	TypeInteger = "INTEGER"
	TypeNumber  = "NUMBER"
	TypeBoolean = "BOOLEAN"
	TypeObject  = "OBJECT"
	TypeArray   = "ARRAY"
)

// String returns a STRING schema.
func String() *Schema { return &Schema{Type: TypeString} }

// Integer returns an INTEGER schema.
func Integer() *Schema { return &Schema{Type: TypeInteger} }

// Number returns a NUMBER schema.
func Number() *Schema { return &Schema{Type: TypeNumber} }

// Boolean returns a BOOLEAN schema.
func Boolean() *Schema { return &Schema{Type: TypeBoolean} }

// Array returns an ARRAY schema with the given item shape.
func Array(items *Schema) *Schema { return &Schema{Type: TypeArray, Items: items} }

// Object returns an OBJECT schema with the given properties and required
// field names.
func Object(props map[string]*Schema, required ...string) *Schema {
	return &Schema{Type: TypeObject, Properties: props, Required: required}
}

// Validate walks a decoded JSON value (the output of json.Unmarshal into
// any) and checks it against the declared shape. Unknown extra fields are
// tolerated; missing required fields and type mismatches are not.
func (s *Schema) Validate(v any) error {
	return s.validate(v, "$")
}

func (s *Schema) validate(v any, path string) error {
	switch s.Type {
	case TypeString:
		if _, ok := v.(string); !ok {
			return fmt.Errorf("%s: expected string, got %T", path, v)
		}
	case TypeInteger, TypeNumber:
		// encoding/json decodes every JSON number as float64
		if _, ok := v.(float64); !ok {
			return fmt.Errorf("%s: expected number, got %T", path, v)
		}
	case TypeBoolean:
		if _, ok := v.(bool); !ok {
			return fmt.Errorf("%s: expected boolean, got %T", path, v)
		}
	case TypeArray:
		arr, ok := v.([]any)
		if !ok {
			return fmt.Errorf("%s: expected array, got %T", path, v)
		}
		if s.Items != nil {
			for i, item := range arr {
				if err := s.Items.validate(item, fmt.Sprintf("%s[%d]", path, i)); err != nil {
					return err
				}
			}
		}
	case TypeObject:
		obj, ok := v.(map[string]any)
		if !ok {
			return fmt.Errorf("%s: expected object, got %T", path, v)
		}
		for _, name := range s.Required {
			if _, present := obj[name]; !present {
				return fmt.Errorf("%s: missing required field %q", path, name)
			}
		}
		for name, prop := range s.Properties {
			val, present := obj[name]
			if !present {
				continue
			}
			if val == nil {
				// null is only acceptable for optional fields
				if contains(s.Required, name) {
					return fmt.Errorf("%s.%s: required field is null", path, name)
				}
				continue
			}
			if err := prop.validate(val, path+"."+name); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("%s: unknown schema type %q", path, s.Type)
	}
	return nil
}

func contains(ss []string, s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}
