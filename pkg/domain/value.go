package domain

import "fmt"

// ValueType is the type of a named blackboard entry.
type ValueType int

const (
	ValueBool ValueType = iota
	ValueInteger
	ValueFloat
	ValueString
	ValueOther
	// ValueTrigger is a bool that clears itself after being read once.
	ValueTrigger
)

var valueTypeNames = [...]string{"bool", "int", "float", "string", "other", "trigger"}

func (t ValueType) String() string {
	if t < 0 || int(t) >= len(valueTypeNames) {
		return fmt.Sprintf("type(%d)", int(t))
	}
	return valueTypeNames[t]
}

// WritesTo reports whether a write of type t lands on a value declared as
// declared. Bool writes reach triggers, string writes reach other values.
func (t ValueType) WritesTo(declared ValueType) bool {
	switch t {
	case ValueBool:
		return declared == ValueBool || declared == ValueTrigger
	case ValueString, ValueOther:
		return declared == ValueString || declared == ValueOther
	default:
		return t == declared
	}
}

// ParseValueType maps "bool", "int", "float", "string", "other" or "trigger".
func ParseValueType(s string) (ValueType, error) {
	for i, name := range valueTypeNames {
		if name == s {
			return ValueType(i), nil
		}
	}
	switch s {
	case "integer":
		return ValueInteger, nil
	case "boolean":
		return ValueBool, nil
	}
	return 0, fmt.Errorf("unknown value type %q", s)
}

// ValueDef declares a blackboard entry of a layer with its initial value.
// Only the default matching Type is read.
type ValueDef struct {
	Name   string
	Type   ValueType
	Bool   bool
	Int    int
	Float  float64
	String string
}

func (t ValueType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *ValueType) UnmarshalText(b []byte) error {
	v, err := ParseValueType(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}
