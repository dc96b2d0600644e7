package validator

import (
	"errors"
	"testing"

	"github.com/aretw0/hfsm/pkg/domain"
	"github.com/aretw0/hfsm/pkg/dsl"
	"github.com/aretw0/hfsm/pkg/services"
	"github.com/aretw0/hfsm/pkg/states"
	"github.com/aretw0/hfsm/pkg/values"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_CleanLayer(t *testing.T) {
	b := dsl.New("clean").Float("speed", 0).Trigger("hit")
	root := b.Root("Root").Default("Idle").Any("Any").Exit("Done")
	root.Empty("Any").Go("Hurt").Immediate().When("hit", "==", true)
	root.Leaf("Idle", &states.Base{}).Go("Move").Immediate().When("speed", ">", 0.1)
	move := root.Group("Move").Default("Walk")
	move.Leaf("Walk", &states.Timed{Duration: 1})
	move.Go("Done")
	root.Leaf("Hurt", &states.Timed{Duration: 0.3}).Go("Idle")
	root.Empty("Done")

	layer, err := b.Build()
	require.NoError(t, err)

	r := Validate(layer)
	assert.Empty(t, r.Issues, r.String())
	assert.NoError(t, r.Err())
	assert.Equal(t, "ok", r.String())
}

func TestValidate_Warnings(t *testing.T) {
	b := dsl.New("dead")
	root := b.Root("Root").Default("A").Exit("X")
	root.Leaf("A", &states.Base{}).Go("X").Weight(0)
	root.Leaf("Orphan", &states.Base{})
	root.Empty("X").Go("A")
	root.Group("Idle")

	layer, err := b.Build()
	require.NoError(t, err)

	r := Validate(layer)
	assert.Empty(t, r.Errors())
	assert.NoError(t, r.Err())

	var paths []string
	for _, w := range r.Warnings() {
		paths = append(paths, w.Path)
	}
	assert.ElementsMatch(t, []string{"A", "X", "Orphan", "Idle"}, paths)

	first := r.Warnings()[0]
	assert.ErrorIs(t, first, ErrNeverFires)
	assert.Equal(t, 0, first.Transition)
}

func TestValidate_Errors(t *testing.T) {
	b := dsl.New("broken").Int("n", 0)
	root := b.Root("Root").Default("A")
	root.Leaf("A", &states.Base{}).Go("B").When("n", ">", 1)
	root.Leaf("B", &states.Base{})

	layer, err := b.Build()
	require.NoError(t, err)
	layer.Values = nil
	layer.Root.State.Composite.ExitIndex = 7
	layer.FindNode("B").Transitions = []domain.Transition{domain.NewTransition(5)}

	r := Validate(layer)
	errs := r.Errors()
	require.Len(t, errs, 3)
	assert.ErrorIs(t, errs[0], ErrBadIndex)
	assert.ErrorIs(t, errs[1], domain.ErrUnknownValue)
	assert.ErrorIs(t, errs[2], domain.ErrTargetNotFound)

	err = r.Err()
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnknownValue)
	assert.Contains(t, r.String(), "error: A transition 0")

	var issue Issue
	require.True(t, errors.As(err, &issue))
	assert.Equal(t, Error, issue.Severity)
}

func TestValidate_WrittenValues(t *testing.T) {
	b := dsl.New("writes").Float("speed", 0).Int("hits", 0)
	root := b.Root("Root").Default("Stop")
	root.Service(&services.Counter{Value: "ticks"})
	root.Leaf("Stop", &states.SetValue{Value: "spede", Type: domain.ValueFloat}).Go("Count")
	root.Leaf("Count", &states.Base{}).Service(&services.Counter{Value: "speed"}, &services.Counter{Value: "hits"})

	layer, err := b.Build()
	require.NoError(t, err)

	errs := Validate(layer).Errors()
	require.Len(t, errs, 3)
	assert.Equal(t, "", errs[0].Path)
	assert.ErrorIs(t, errs[0], domain.ErrUnknownValue)
	assert.Equal(t, "Stop", errs[1].Path)
	assert.ErrorIs(t, errs[1], domain.ErrUnknownValue)
	assert.Equal(t, "Count", errs[2].Path)
	assert.ErrorIs(t, errs[2], values.ErrTypeMismatch)
}

func TestValidate_RootChecks(t *testing.T) {
	r := Validate(&domain.Layer{Root: &domain.Node{Title: "leaf"}})
	require.Len(t, r.Issues, 1)
	assert.ErrorIs(t, r.Err(), domain.ErrRootNotComposite)

	b := dsl.New("roots")
	root := b.Root("Root").Default("A")
	root.Leaf("A", &states.Base{})
	layer, err := b.Build()
	require.NoError(t, err)
	layer.Root.Transitions = []domain.Transition{domain.NewTransition(0)}

	r = Validate(layer)
	require.Len(t, r.Issues, 1)
	assert.Equal(t, Warning, r.Issues[0].Severity)
	assert.Equal(t, "", r.Issues[0].Path)
	assert.Contains(t, r.Issues[0].Error(), "<root>")
}

func TestValidate_AnyNodeReachability(t *testing.T) {
	b := dsl.New("any").Trigger("t")
	root := b.Root("Root").Default("A").Any("Any")
	root.Empty("Any").Go("B").Immediate().When("t", "==", true).Go("C")
	root.Leaf("A", &states.Base{})
	root.Leaf("B", &states.Base{})
	root.Leaf("C", &states.Base{})

	layer, err := b.Build()
	require.NoError(t, err)

	r := Validate(layer)
	require.Len(t, r.Issues, 1, r.String())
	assert.Equal(t, "Any", r.Issues[0].Path)
	assert.Equal(t, 1, r.Issues[0].Transition)
	assert.ErrorIs(t, r.Issues[0], ErrNeverFires)
}
