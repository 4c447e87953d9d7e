package config

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/hashicorp/go-multierror"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// FieldType is the declared type of a schema field.
type FieldType int

const (
	String FieldType = iota
	Int
	Float
	Bool
	List
	Table
)

func (t FieldType) String() string {
	switch t {
	case String:
		return "string"
	case Int:
		return "int"
	case Float:
		return "float"
	case Bool:
		return "bool"
	case List:
		return "list"
	case Table:
		return "table"
	}
	return "unknown"
}

// Field describes one key of a schema section.
type Field struct {
	Type     FieldType
	Default  any
	Required bool
	// OneOf restricts string values (compared case-insensitively).
	OneOf []string
	// NonNegative rejects numbers below zero.
	NonNegative bool
}

// Schema declares the fields and nested sections of a configuration tree.
type Schema struct {
	Fields   map[string]Field
	Sections map[string]*Schema
}

// NewSchema returns an empty schema.
func NewSchema() *Schema {
	return &Schema{Fields: map[string]Field{}, Sections: map[string]*Schema{}}
}

// Add declares a field and returns the schema for chaining.
func (s *Schema) Add(name string, f Field) *Schema {
	s.Fields[name] = f
	return s
}

// Section declares a nested section and returns the schema for chaining.
func (s *Schema) Section(name string, sub *Schema) *Schema {
	s.Sections[name] = sub
	return s
}

// Lookup finds the field declared at a dot-notation key.
func (s *Schema) Lookup(key string) (Field, bool) {
	parts := strings.Split(key, ".")
	cur := s
	for _, section := range parts[:len(parts)-1] {
		next, ok := cur.Sections[section]
		if !ok {
			return Field{}, false
		}
		cur = next
	}
	f, ok := cur.Fields[parts[len(parts)-1]]
	return f, ok
}

// Defaults returns the flattened default values ("icons.icon_set" -> "auto").
// Fields whose default is nil are left out.
func (s *Schema) Defaults() map[string]any {
	out := map[string]any{}
	s.collectDefaults("", out)
	return out
}

func (s *Schema) collectDefaults(prefix string, out map[string]any) {
	for name, f := range s.Fields {
		if f.Default != nil {
			out[prefix+name] = f.Default
		}
	}
	for name, sub := range s.Sections {
		sub.collectDefaults(prefix+name+".", out)
	}
}

// Validate coerces every declared field of cfg to its type and checks
// required fields and constraints. Keys the schema does not know are copied
// through untouched. All failures are reported together.
func (s *Schema) Validate(cfg map[string]any) (map[string]any, error) {
	var errs *multierror.Error
	out := s.validate("", cfg, &errs)
	if err := errs.ErrorOrNil(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return out, nil
}

func (s *Schema) validate(prefix string, cfg map[string]any, errs **multierror.Error) map[string]any {
	out := make(map[string]any, len(cfg))

	for _, name := range sortedKeys(s.Fields) {
		f := s.Fields[name]
		v, ok := cfg[name]
		if !ok {
			if f.Required {
				*errs = multierror.Append(*errs, fmt.Errorf("required field missing: %s", prefix+name))
			}
			continue
		}
		cv, err := Coerce(v, f.Type)
		if err != nil {
			*errs = multierror.Append(*errs, fmt.Errorf("invalid value for %q: %w", prefix+name, err))
			continue
		}
		if err := f.check(cv); err != nil {
			*errs = multierror.Append(*errs, fmt.Errorf("invalid value for %q: %w", prefix+name, err))
			continue
		}
		out[name] = cv
	}

	for _, name := range sortedKeys(s.Sections) {
		v, ok := cfg[name]
		if !ok {
			continue
		}
		m, ok := v.(map[string]any)
		if !ok {
			*errs = multierror.Append(*errs, fmt.Errorf("section %q must be a table, got %T", prefix+name, v))
			continue
		}
		out[name] = s.Sections[name].validate(prefix+name+".", m, errs)
	}

	for k, v := range cfg {
		if _, done := out[k]; done {
			continue
		}
		if _, declared := s.Fields[k]; declared {
			continue
		}
		if _, declared := s.Sections[k]; declared {
			continue
		}
		out[k] = v
	}
	return out
}

func (f Field) check(v any) error {
	if len(f.OneOf) > 0 {
		sv, _ := v.(string)
		ok := false
		for _, allowed := range f.OneOf {
			if strings.EqualFold(sv, allowed) {
				ok = true
				break
			}
		}
		if !ok {
			return fmt.Errorf("%q is not one of %s", sv, strings.Join(f.OneOf, ", "))
		}
	}
	if f.NonNegative {
		switch n := v.(type) {
		case int:
			if n < 0 {
				return fmt.Errorf("%d is negative", n)
			}
		case float64:
			if n < 0 {
				return fmt.Errorf("%g is negative", n)
			}
		}
	}
	return nil
}

// Coerce converts v to the Go representation of t: string, int, float64,
// bool, []any or map[string]any.
func Coerce(v any, t FieldType) (any, error) {
	switch t {
	case String:
		switch x := v.(type) {
		case string:
			return x, nil
		case []any:
			parts := make([]string, len(x))
			for i, p := range x {
				parts[i] = fmt.Sprint(p)
			}
			return strings.Join(parts, ","), nil
		case map[string]any:
			return nil, fmt.Errorf("cannot convert %T to string", v)
		}
		return fmt.Sprint(v), nil

	case Int:
		switch x := v.(type) {
		case int:
			return x, nil
		case int64:
			return int(x), nil
		case int32:
			return int(x), nil
		case uint64:
			return int(x), nil
		case float64:
			return int(x), nil
		case bool:
			if x {
				return 1, nil
			}
			return 0, nil
		case string:
			n, err := strconv.Atoi(strings.TrimSpace(x))
			if err != nil {
				return nil, fmt.Errorf("cannot convert %q to int", x)
			}
			return n, nil
		}

	case Float:
		switch x := v.(type) {
		case float64:
			return x, nil
		case float32:
			return float64(x), nil
		case int:
			return float64(x), nil
		case int64:
			return float64(x), nil
		case string:
			n, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
			if err != nil {
				return nil, fmt.Errorf("cannot convert %q to float", x)
			}
			return n, nil
		}

	case Bool:
		switch x := v.(type) {
		case bool:
			return x, nil
		case string:
			return truthy(x), nil
		case int:
			return x != 0, nil
		case int64:
			return x != 0, nil
		case float64:
			return x != 0, nil
		}

	case List:
		switch x := v.(type) {
		case []any:
			return x, nil
		case []string:
			out := make([]any, len(x))
			for i, s := range x {
				out[i] = s
			}
			return out, nil
		case string:
			return splitList(x), nil
		case map[string]any:
			return nil, fmt.Errorf("cannot convert table to list")
		}
		return []any{v}, nil

	case Table:
		if m, ok := v.(map[string]any); ok {
			return m, nil
		}
	}
	return nil, fmt.Errorf("cannot convert %v (type %T) to %s", v, v, t)
}

// CoerceEnv turns an environment string into the most specific scalar it
// looks like: bool, int, float, comma-separated list, then plain string.
func CoerceEnv(s string) any {
	switch strings.ToLower(s) {
	case "true", "1", "yes", "on":
		return true
	case "false", "0", "no", "off":
		return false
	}
	if strings.Contains(s, ".") {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	} else if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	if strings.Contains(s, ",") {
		return splitList(s)
	}
	return s
}

func truthy(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes", "on":
		return true
	}
	return false
}

func splitList(s string) []any {
	parts := strings.Split(s, ",")
	out := make([]any, 0, len(parts))
	for _, p := range parts {
		out = append(out, strings.TrimSpace(p))
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
