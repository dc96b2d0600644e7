package runtime

import (
	"github.com/aretw0/hfsm/pkg/domain"
	"github.com/aretw0/hfsm/pkg/values"
)

// Condition is a compiled condition bound to its value handle.
type Condition struct {
	value *values.Value
	def   domain.Condition
}

// NewCondition binds c to the live value v.
func NewCondition(v *values.Value, c domain.Condition) Condition {
	return Condition{value: v, def: c}
}

// Transition is a compiled transition. Target indexes the owning group's
// children.
type Transition struct {
	Name        string
	Target      int
	Weight      float64
	ExitTime    float64
	HasExitTime bool
	conditions  []Condition
}

// NewTransition copies the authored parameters of def and attaches the bound
// conditions.
func NewTransition(def domain.Transition, conds []Condition) Transition {
	return Transition{
		Name:        def.Name,
		Target:      def.Target,
		Weight:      def.Weight,
		ExitTime:    def.ExitTime,
		HasExitTime: def.HasExitTime,
		conditions:  conds,
	}
}

// Conditions returns the number of bound conditions.
func (t *Transition) Conditions() int {
	return len(t.conditions)
}

// holds folds the condition chain left to right. The first condition seeds
// the result; an And condition short-circuits to false, an Or condition is
// folded in without short-circuit. An empty chain holds.
func (t *Transition) holds() bool {
	result := true
	for i := range t.conditions {
		c := &t.conditions[i]
		v := c.value.Compare(c.def)
		if i == 0 {
			result = v
			continue
		}
		if c.def.Next == domain.And {
			result = result && v
			if !result {
				return false
			}
		} else {
			result = result || v
		}
	}
	return result
}

// gated reports whether the transition waits for the state to finish, given
// the current completion ratio. A gate below 1 opens once ratio reaches it.
func (t *Transition) gated(ratio float64) bool {
	if t.HasExitTime && t.ExitTime < 1 && ratio >= t.ExitTime {
		return false
	}
	return t.HasExitTime
}

// evaluate returns the index of the selected transition of n whose effective
// exit time gate equals exitTime, or -1. Among transitions whose chain holds
// the strictly greatest weight wins; ties keep the earliest. Weights at or
// below zero never fire.
func (n *Node) evaluate(exitTime bool) int {
	best, maxW := -1, 0.0
	for i := range n.transitions {
		t := &n.transitions[i]
		if t.gated(n.data.Ratio) != exitTime {
			continue
		}
		if !t.holds() {
			continue
		}
		if maxW < t.Weight {
			best, maxW = i, t.Weight
		}
	}
	return best
}
