package states_test

import (
	"testing"

	"github.com/aretw0/hfsm/pkg/domain"
	"github.com/aretw0/hfsm/pkg/states"
	"github.com/aretw0/hfsm/pkg/values"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dataFor(s domain.LeafState) *domain.StateData {
	return &domain.StateData{Payload: s.NewData()}
}

func TestBase_FinishesImmediately(t *testing.T) {
	s := &states.Base{Name: "idle"}
	d := dataFor(s)

	s.Start(d)
	assert.Equal(t, 1.0, d.Ratio)
	assert.Equal(t, domain.Finished, s.Update(d, 0.1))
}

func TestTimed_RatioAndFinish(t *testing.T) {
	s := &states.Timed{Duration: 1}
	d := dataFor(s)
	s.Start(d)
	assert.Equal(t, 0.0, d.Ratio)

	assert.Equal(t, domain.Running, s.Update(d, 0.25))
	assert.InDelta(t, 0.25, d.Ratio, 1e-9)

	assert.Equal(t, domain.Running, s.Update(d, 0.5))
	assert.InDelta(t, 0.75, d.Ratio, 1e-9)

	assert.Equal(t, domain.Finished, s.Update(d, 0.5))
	assert.Equal(t, 1.0, d.Ratio)
}

func TestTimed_LoopRestarts(t *testing.T) {
	s := &states.Timed{Duration: 0.5, Loop: true}
	d := dataFor(s)
	s.Start(d)

	assert.Equal(t, domain.Running, s.Update(d, 0.6))
	assert.Equal(t, 0.0, d.Ratio)
	assert.Equal(t, domain.Running, s.Update(d, 0.25))
	assert.InDelta(t, 0.5, d.Ratio, 1e-9)
}

func TestTimed_ZeroDurationFinishes(t *testing.T) {
	s := &states.Timed{}
	d := dataFor(s)
	s.Start(d)
	assert.Equal(t, domain.Finished, s.Update(d, 0))
}

func TestAnimation_Capability(t *testing.T) {
	var leaf domain.LeafState = &states.Animation{
		Timed: states.Timed{Duration: 2},
		Clip:  "run",
		Track: 1,
	}
	a, ok := states.AnimationOf(leaf)
	require.True(t, ok)
	assert.Equal(t, "run", a.AnimationName())
	assert.Equal(t, 1, a.AnimationTrack())
	assert.Equal(t, 1.0, a.AnimationSpeed())
	assert.Equal(t, 2.0, a.AnimationDuration())

	_, ok = states.AnimationOf(&states.Base{})
	assert.False(t, ok)
}

func TestSetValue_WritesOnStart(t *testing.T) {
	store := values.NewStore()
	require.NoError(t, store.Declare(domain.ValueDef{Name: "hp", Type: domain.ValueInteger}))
	require.NoError(t, store.Declare(domain.ValueDef{Name: "hit", Type: domain.ValueTrigger}))

	set := &states.SetValue{Value: "hp", Type: domain.ValueInteger, Int: 7}
	d := dataFor(set)
	d.Values = store
	set.Start(d)

	hp, err := store.GetInt("hp")
	require.NoError(t, err)
	assert.Equal(t, 7, hp)
	assert.NoError(t, d.Payload.(*states.SetValueData).Err)

	trig := &states.SetValue{Value: "hit", Type: domain.ValueTrigger, Bool: true}
	d = dataFor(trig)
	d.Values = store
	trig.Start(d)
	v, _ := store.Lookup("hit")
	assert.True(t, v.Compare(domain.Condition{Value: "hit", Operation: domain.OpEqual, Bool: true}))
}

func TestSetValue_RecordsError(t *testing.T) {
	set := &states.SetValue{Value: "missing", Type: domain.ValueFloat}
	d := dataFor(set)
	d.Values = values.NewStore()
	set.Start(d)

	sd := d.Payload.(*states.SetValueData)
	assert.ErrorIs(t, sd.Err, domain.ErrUnknownValue)
	assert.ErrorIs(t, sd.TakeFailure(), domain.ErrUnknownValue)
	assert.NoError(t, sd.TakeFailure())
	assert.Equal(t, []domain.ValueRef{{Name: "missing", Type: domain.ValueFloat}}, set.ValueRefs())
}

func TestFunc_Defaults(t *testing.T) {
	f := &states.Func{}
	d := dataFor(f)
	f.Start(d)
	assert.Equal(t, domain.Finished, f.Update(d, 1))

	assert.Equal(t, domain.Running, states.Running().Update(d, 1))
}

func TestDefaults_Tags(t *testing.T) {
	assert.Equal(t, []string{
		states.TagAnimation, states.TagSetValue, states.TagBase, states.TagTimed,
	}, states.Defaults().Tags())
}
