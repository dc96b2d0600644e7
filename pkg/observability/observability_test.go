package observability

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/hfsm/internal/compiler"
	"github.com/aretw0/hfsm/internal/logging"
	"github.com/aretw0/hfsm/internal/runtime"
	"github.com/aretw0/hfsm/pkg/dsl"
	"github.com/aretw0/hfsm/pkg/services"
	"github.com/aretw0/hfsm/pkg/states"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tree(t *testing.T, l ...runtime.Option) *runtime.Tree {
	t.Helper()
	b := dsl.New("obs").Trigger("go")
	root := b.Root("Root").Default("Idle")
	root.Leaf("Idle", &states.Timed{Duration: 10}).
		Service(&services.Timeout{Min: 0.5, Max: 0.5, Rate: 2}).
		Go("Move").Immediate().When("go", "==", true)
	move := root.Group("Move").Default("Walk")
	move.Leaf("Walk", &states.Timed{Duration: 10})

	layer, err := b.Build()
	require.NoError(t, err)
	tr, err := compiler.Compile(layer, nil, l...)
	require.NoError(t, err)
	return tr
}

func TestMetrics_RecordsLifecycle(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewMetrics("obs", reg)
	require.NoError(t, err)

	tr := tree(t, runtime.WithListeners(m))
	tr.Start()
	tr.Update(0.5)
	require.NoError(t, tr.Values().SetTrigger("go"))
	tr.Update(0.1)
	m.ObserveTick(2 * time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.visits.WithLabelValues("Idle")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.visits.WithLabelValues("Move")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.visits.WithLabelValues("Move/Walk")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.transitions.WithLabelValues("Idle", "Move")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.active.WithLabelValues("Idle")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.active.WithLabelValues("Move/Walk")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.serviceTicks.WithLabelValues("Idle", "finished")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.tick))

	tr.End()
	assert.Equal(t, 0.0, testutil.ToFloat64(m.active.WithLabelValues("Move")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.active.WithLabelValues("Move/Walk")))
}

func TestMetrics_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewMetrics("a", reg)
	require.NoError(t, err)
	_, err = NewMetrics("a", reg)
	assert.Error(t, err)
}

func TestLogListener(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewWriter(&buf, slog.LevelDebug)

	tr := tree(t, runtime.WithListeners(NewLogListener(logger)))
	tr.Start()
	require.NoError(t, tr.Values().SetTrigger("go"))
	tr.Update(0.1)

	out := buf.String()
	assert.Contains(t, out, "msg=node_started path=Idle state=TimedState")
	assert.Contains(t, out, "msg=transition path=Move from=Idle")
	assert.NotContains(t, out, "response=running")
	assert.Equal(t, 1, strings.Count(out, "msg=node_changed path=Move/Walk"))
}

func TestLogListener_InfoLevelIsQuiet(t *testing.T) {
	var buf bytes.Buffer
	tr := tree(t, runtime.WithListeners(NewLogListener(logging.NewWriter(&buf, slog.LevelInfo))))
	tr.Start()
	tr.End()
	assert.Empty(t, buf.String())
}
