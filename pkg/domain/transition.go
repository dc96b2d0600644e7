package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Transition is a guarded edge to a sibling node, addressed by its index in
// the parent composite's node list.
type Transition struct {
	Name   string
	Target int
	// Weight breaks ties among satisfied transitions; the strictly greatest wins.
	Weight float64
	// ExitTime is the completion ratio gate; 1 means "wait for the state to finish".
	ExitTime    float64
	HasExitTime bool
	Conditions  []Condition
}

// NewTransition returns a transition with the authoring defaults:
// weight 1, gated on the full exit time.
func NewTransition(target int) Transition {
	return Transition{
		Target:      target,
		Weight:      1,
		ExitTime:    1,
		HasExitTime: true,
	}
}

// Operation is the comparison a condition applies between a value and its constant.
type Operation int

const (
	OpEqual Operation = iota
	OpNotEqual
	OpGreater
	OpGreaterOrEqual
	OpLess
	OpLessOrEqual
)

var operationSymbols = [...]string{"==", "!=", ">", ">=", "<", "<="}

func (o Operation) String() string {
	if o < 0 || int(o) >= len(operationSymbols) {
		return fmt.Sprintf("op(%d)", int(o))
	}
	return operationSymbols[o]
}

// ParseOperation maps a symbol such as ">=" back to its Operation.
func ParseOperation(s string) (Operation, error) {
	for i, sym := range operationSymbols {
		if sym == s {
			return Operation(i), nil
		}
	}
	switch s {
	case "eq":
		return OpEqual, nil
	case "ne":
		return OpNotEqual, nil
	case "gt":
		return OpGreater, nil
	case "ge":
		return OpGreaterOrEqual, nil
	case "lt":
		return OpLess, nil
	case "le":
		return OpLessOrEqual, nil
	}
	return 0, fmt.Errorf("unknown operation %q", s)
}

// Operand tells how a condition folds into the result accumulated so far.
type Operand int

const (
	And Operand = iota
	Or
)

func (o Operand) String() string {
	if o == Or {
		return "or"
	}
	return "and"
}

// ParseOperand accepts "and"/"&&" and "or"/"||". Empty means And.
func ParseOperand(s string) (Operand, error) {
	switch s {
	case "", "and", "&&", "AND":
		return And, nil
	case "or", "||", "OR":
		return Or, nil
	}
	return And, fmt.Errorf("unknown operand %q", s)
}

// Condition is one term of a transition guard. Only the constant matching the
// type of the referenced value is meaningful.
type Condition struct {
	Value     string
	Operation Operation
	Next      Operand

	Bool   bool
	Int    int
	Float  float64
	String string
}

// Format renders the condition as "value op constant", reading the constant
// that matches t.
func (c Condition) Format(t ValueType) string {
	var constant string
	switch t {
	case ValueBool, ValueTrigger:
		constant = strconv.FormatBool(c.Bool)
	case ValueInteger:
		constant = strconv.Itoa(c.Int)
	case ValueFloat:
		constant = strconv.FormatFloat(c.Float, 'g', -1, 64)
	default:
		constant = strconv.Quote(c.String)
	}
	return c.Value + " " + c.Operation.String() + " " + constant
}

// Guard renders the whole condition chain of t. Types are taken from
// layer; unknown values fall back to the string constant.
func (t Transition) Guard(layer *Layer) string {
	var sb strings.Builder
	for i, c := range t.Conditions {
		if i > 0 {
			sb.WriteString(" " + c.Next.String() + " ")
		}
		vt := ValueString
		if layer != nil {
			if def, ok := layer.FindValue(c.Value); ok {
				vt = def.Type
			}
		}
		sb.WriteString(c.Format(vt))
	}
	return sb.String()
}
