package graph_test

import (
	"strings"
	"testing"

	"github.com/aretw0/hfsm/internal/presentation/graph"
	"github.com/aretw0/hfsm/pkg/domain"
	"github.com/aretw0/hfsm/pkg/dsl"
	"github.com/aretw0/hfsm/pkg/states"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func locomotion(t *testing.T) *domain.Layer {
	t.Helper()
	b := dsl.New("locomotion").Float("speed", 0).Trigger("hit")
	root := b.Root("Root").Default("Idle").Any("Any").Exit("end")
	root.Empty("Any").Go("Hurt").Immediate().When("hit", "==", true)
	root.Leaf("Idle", &states.Base{}).Go("Move").Immediate().Weight(2).When("speed", ">", 0.1)
	move := root.Group("Move").Default("Walk")
	move.Leaf("Walk", &states.Timed{Duration: 1}).Go("Run").ExitTime(0.5)
	move.Leaf("Run", &states.Timed{Duration: 1})
	move.Go("end")
	root.Leaf("Hurt", &states.Timed{Duration: 0.3}).Go("Idle")
	root.Empty("end")

	l, err := b.Build()
	require.NoError(t, err)
	return l
}

func TestGenerateMermaid(t *testing.T) {
	out := graph.GenerateMermaid(locomotion(t), nil)

	tests := []struct {
		name     string
		contains []string
	}{
		{"Header", []string{"graph TD\n"}},
		{"Default Shape", []string{`n_Idle(["Idle"])`, `n_Move__Walk(["Walk"])`}},
		{"Exit Shape", []string{`n_end((("end")))`}},
		{"Any Shape", []string{`n_Any{{"Any"}}`}},
		{"Leaf Shape", []string{`n_Move__Run["Run"]`, `n_Hurt["Hurt"]`}},
		{"Subgraph", []string{`subgraph n_Move["Move"]`, "    end\n"}},
		{"Guarded Edge", []string{`n_Idle -- "speed > 0.1 w=2" --> n_Move`}},
		{"Any Edge Dotted", []string{`n_Any -. "hit == true" .-> n_Hurt`}},
		{"Exit Time Edge", []string{`n_Move__Walk -- "@0.5" --> n_Move__Run`}},
		{"Plain Edges", []string{"n_Hurt --> n_Idle", "n_Move --> n_end"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, want := range tt.contains {
				assert.Contains(t, out, want)
			}
		})
	}
	assert.NotContains(t, out, "classDef")
}

func TestGenerateMermaid_Overlay(t *testing.T) {
	out := graph.GenerateMermaid(locomotion(t), &graph.Overlay{
		Active:  []string{"Move", "Move/Walk"},
		Current: "Move/Walk",
	})

	assert.Contains(t, out, "classDef active")
	assert.Contains(t, out, "class n_Move active;")
	assert.Contains(t, out, "class n_Move__Walk current;")
	assert.Equal(t, 1, strings.Count(out, "n_Move__Walk current"))
	assert.NotContains(t, out, "class n_Move__Walk active;")
}

func TestGenerateMermaid_SkipsNilChildren(t *testing.T) {
	l := locomotion(t)
	l.Composite().Nodes[3] = nil

	out := graph.GenerateMermaid(l, nil)
	assert.NotContains(t, out, "n_Hurt")
	assert.Contains(t, out, "n_Idle")
}

func TestLabel(t *testing.T) {
	tr := domain.NewTransition(0)
	assert.Equal(t, "", graph.Label(nil, tr))

	tr.ExitTime = 0.25
	tr.Weight = 3
	tr.Conditions = []domain.Condition{
		{Value: "n", Operation: domain.OpGreaterOrEqual, Int: 2},
		{Value: "s", Operation: domain.OpEqual, Next: domain.Or, String: "go"},
	}
	l := &domain.Layer{Values: []domain.ValueDef{{Name: "n", Type: domain.ValueInteger}}}
	assert.Equal(t, `n >= 2 or s == "go" @0.25 w=3`, graph.Label(l, tr))
}
