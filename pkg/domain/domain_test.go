package domain_test

import (
	"testing"

	"github.com/aretw0/hfsm/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOperation(t *testing.T) {
	tests := []struct {
		in   string
		want domain.Operation
	}{
		{"==", domain.OpEqual},
		{"ne", domain.OpNotEqual},
		{">", domain.OpGreater},
		{"ge", domain.OpGreaterOrEqual},
		{"<", domain.OpLess},
		{"<=", domain.OpLessOrEqual},
	}
	for _, tt := range tests {
		got, err := domain.ParseOperation(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := domain.ParseOperation("~")
	assert.Error(t, err)
	assert.Equal(t, "op(9)", domain.Operation(9).String())
}

func TestParseOperand(t *testing.T) {
	op, err := domain.ParseOperand("")
	require.NoError(t, err)
	assert.Equal(t, domain.And, op)

	op, err = domain.ParseOperand("||")
	require.NoError(t, err)
	assert.Equal(t, domain.Or, op)

	_, err = domain.ParseOperand("xor")
	assert.Error(t, err)
}

func TestValueType_Text(t *testing.T) {
	var vt domain.ValueType
	require.NoError(t, vt.UnmarshalText([]byte("integer")))
	assert.Equal(t, domain.ValueInteger, vt)

	text, err := domain.ValueTrigger.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "trigger", string(text))

	assert.Error(t, vt.UnmarshalText([]byte("decimal")))
}

func TestTransition_Guard(t *testing.T) {
	layer := &domain.Layer{Values: []domain.ValueDef{
		{Name: "speed", Type: domain.ValueFloat},
		{Name: "jump", Type: domain.ValueTrigger},
		{Name: "hits", Type: domain.ValueInteger},
	}}

	tr := domain.NewTransition(1)
	tr.Conditions = []domain.Condition{
		{Value: "speed", Operation: domain.OpGreater, Float: 0.5},
		{Value: "jump", Operation: domain.OpEqual, Next: domain.Or, Bool: true},
		{Value: "hits", Operation: domain.OpLess, Int: 3},
		{Value: "mode", Operation: domain.OpNotEqual, String: "idle"},
	}

	assert.Equal(t, `speed > 0.5 or jump == true and hits < 3 and mode != "idle"`, tr.Guard(layer))
	assert.Empty(t, domain.NewTransition(0).Guard(layer))
}

func TestLayer_FindNodeAndWalk(t *testing.T) {
	walk := &domain.Node{Title: "Walk"}
	moveGroup := domain.NewComposite("Move")
	moveGroup.Nodes = []*domain.Node{walk}
	moveGroup.DefaultIndex = 0
	move := &domain.Node{Title: "Move", State: domain.CompositeOf(moveGroup)}

	idle := &domain.Node{Title: "Idle"}
	rootGroup := domain.NewComposite("Root")
	rootGroup.Nodes = []*domain.Node{idle, move}
	rootGroup.DefaultIndex = 0
	layer := &domain.Layer{Root: &domain.Node{Title: "Root", State: domain.CompositeOf(rootGroup)}}

	assert.Same(t, walk, layer.FindNode("Move/Walk"))
	assert.Nil(t, layer.FindNode("Idle/Walk"), "leaves have no children")
	assert.Nil(t, layer.FindNode("Move/Run"))

	var titles []string
	layer.Walk(func(n *domain.Node, depth int) { titles = append(titles, n.Title) })
	assert.Equal(t, []string{"Root", "Idle", "Move", "Walk"}, titles)
}
