package schema

import (
	"fmt"

	"github.com/aretw0/hfsm/pkg/domain"
)

// Type checks that a loosely typed document value fits a blackboard type.
type Type interface {
	// Name returns the document spelling of the type.
	Name() string
	// Coerce converts value into the Go type held by the blackboard.
	Coerce(value any) (any, error)
}

type boolType struct{}

func (boolType) Name() string { return "bool" }

func (boolType) Coerce(value any) (any, error) {
	b, ok := value.(bool)
	if !ok {
		return nil, fmt.Errorf("expected bool, got %T", value)
	}
	return b, nil
}

type intType struct{}

func (intType) Name() string { return "int" }

func (intType) Coerce(value any) (any, error) {
	switch v := value.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case uint64:
		return int(v), nil
	case float64:
		// JSON numbers decode as float64
		if v == float64(int64(v)) {
			return int(v), nil
		}
		return nil, fmt.Errorf("expected int, got float %v", v)
	default:
		return nil, fmt.Errorf("expected int, got %T", value)
	}
}

type floatType struct{}

func (floatType) Name() string { return "float" }

func (floatType) Coerce(value any) (any, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	default:
		return nil, fmt.Errorf("expected float, got %T", value)
	}
}

type stringType struct{ name string }

func (t stringType) Name() string { return t.name }

func (stringType) Coerce(value any) (any, error) {
	s, ok := value.(string)
	if !ok {
		return nil, fmt.Errorf("expected string, got %T", value)
	}
	return s, nil
}

// TypeOf returns the checker of a blackboard type. Triggers hold bools.
func TypeOf(t domain.ValueType) Type {
	switch t {
	case domain.ValueBool:
		return boolType{}
	case domain.ValueTrigger:
		return boolType{}
	case domain.ValueInteger:
		return intType{}
	case domain.ValueFloat:
		return floatType{}
	case domain.ValueOther:
		return stringType{name: "other"}
	default:
		return stringType{name: "string"}
	}
}

// assign stores a coerced constant into the typed slot of a value def or condition.
func assign(t domain.ValueType, v any, b *bool, i *int, f *float64, s *string) {
	switch t {
	case domain.ValueBool, domain.ValueTrigger:
		*b = v.(bool)
	case domain.ValueInteger:
		*i = v.(int)
	case domain.ValueFloat:
		*f = v.(float64)
	default:
		*s = v.(string)
	}
}

// constant reads the typed slot back as a document value.
func constant(t domain.ValueType, b bool, i int, f float64, s string) any {
	switch t {
	case domain.ValueBool, domain.ValueTrigger:
		return b
	case domain.ValueInteger:
		return i
	case domain.ValueFloat:
		return f
	default:
		return s
	}
}
