package values

import (
	"fmt"

	"github.com/aretw0/hfsm/pkg/domain"
)

// Value is a typed handle into a Store. Conditions bind to handles at compile
// time so evaluation never looks names up.
type Value struct {
	name string
	typ  domain.ValueType

	b bool
	i int
	f float64
	s string
}

// Name returns the declared name.
func (v *Value) Name() string { return v.name }

// Type returns the declared type.
func (v *Value) Type() domain.ValueType { return v.typ }

// Compare applies the condition's operation between the current value and the
// condition constant of the matching type. Reading a set trigger clears it.
func (v *Value) Compare(c domain.Condition) bool {
	switch v.typ {
	case domain.ValueBool:
		return compareBool(c.Operation, v.b, c.Bool)
	case domain.ValueTrigger:
		current := v.b
		v.b = false
		return compareBool(c.Operation, current, c.Bool)
	case domain.ValueInteger:
		return compareOrdered(c.Operation, v.i, c.Int)
	case domain.ValueFloat:
		return compareOrdered(c.Operation, v.f, c.Float)
	default:
		return compareOrdered(c.Operation, v.s, c.String)
	}
}

// Any returns the current value boxed in its natural Go type.
func (v *Value) Any() any {
	switch v.typ {
	case domain.ValueBool, domain.ValueTrigger:
		return v.b
	case domain.ValueInteger:
		return v.i
	case domain.ValueFloat:
		return v.f
	default:
		return v.s
	}
}

func (v *Value) String() string {
	return fmt.Sprintf("%s(%s)=%v", v.name, v.typ, v.Any())
}

func compareBool(op domain.Operation, a, b bool) bool {
	switch op {
	case domain.OpNotEqual:
		return a != b
	default:
		return a == b
	}
}

type ordered interface {
	~int | ~float64 | ~string
}

func compareOrdered[T ordered](op domain.Operation, a, b T) bool {
	switch op {
	case domain.OpEqual:
		return a == b
	case domain.OpNotEqual:
		return a != b
	case domain.OpGreater:
		return a > b
	case domain.OpGreaterOrEqual:
		return a >= b
	case domain.OpLess:
		return a < b
	case domain.OpLessOrEqual:
		return a <= b
	}
	return false
}
