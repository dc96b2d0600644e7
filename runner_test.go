package hfsm_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aretw0/hfsm"
	"github.com/aretw0/hfsm/pkg/adapters/memory"
	"github.com/aretw0/hfsm/pkg/domain"
	"github.com/aretw0/hfsm/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type tickCounter struct{ n atomic.Int64 }

func (c *tickCounter) ObserveTick(time.Duration) { c.n.Add(1) }

func TestLoop_Tick(t *testing.T) {
	a, err := hfsm.New(locomotion(t))
	require.NoError(t, err)
	a.Start()

	obs := &tickCounter{}
	var last domain.Response = -1
	loop := hfsm.NewLoop(a, hfsm.WithTickObserver(obs), hfsm.WithOnTick(func(_ *hfsm.Animator, r domain.Response) {
		last = r
	}))

	loop.Do(func(a *hfsm.Animator) { require.NoError(t, a.SetFloat("speed", 1)) })
	assert.Equal(t, domain.Running, loop.Tick(0.1))
	assert.Equal(t, domain.Running, last)
	assert.EqualValues(t, 1, obs.n.Load())
	assert.Equal(t, []string{"Move", "Walk"}, a.ActivePath())
}

func TestLoop_RunAutosaves(t *testing.T) {
	a, err := hfsm.New(locomotion(t))
	require.NoError(t, err)
	store := memory.NewStore()
	obs := &tickCounter{}

	loop := hfsm.NewLoop(a,
		hfsm.WithTickRate(200),
		hfsm.WithTickObserver(obs),
		hfsm.WithAutosave(store, "hero", time.Hour),
	)
	loop.Do(func(a *hfsm.Animator) { require.NoError(t, a.SetFloat("speed", 1)) })

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	err = loop.Run(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Positive(t, obs.n.Load())

	snap, err := store.Load(context.Background(), "hero")
	require.NoError(t, err)
	assert.Equal(t, []string{"Move", "Walk"}, snap.Path)
	assert.Equal(t, 1.0, snap.Values["speed"])
}

type mockStore struct {
	mock.Mock
}

func (m *mockStore) Save(ctx context.Context, key string, snap *ports.Snapshot) error {
	return m.Called(ctx, key, snap).Error(0)
}

func (m *mockStore) Load(ctx context.Context, key string) (*ports.Snapshot, error) {
	args := m.Called(ctx, key)
	snap, _ := args.Get(0).(*ports.Snapshot)
	return snap, args.Error(1)
}

func (m *mockStore) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *mockStore) List(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	keys, _ := args.Get(0).([]string)
	return keys, args.Error(1)
}

func TestLoop_AutosaveFailureKeepsRunning(t *testing.T) {
	a, err := hfsm.New(locomotion(t))
	require.NoError(t, err)

	store := &mockStore{}
	store.On("Save", mock.Anything, "hero", mock.AnythingOfType("*ports.Snapshot")).
		Return(errors.New("disk full"))

	obs := &tickCounter{}
	loop := hfsm.NewLoop(a,
		hfsm.WithTickRate(200),
		hfsm.WithTickObserver(obs),
		hfsm.WithAutosave(store, "hero", 20*time.Millisecond),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, loop.Run(ctx), context.DeadlineExceeded)

	assert.Positive(t, obs.n.Load())
	store.AssertCalled(t, "Save", mock.Anything, "hero", mock.AnythingOfType("*ports.Snapshot"))
	assert.GreaterOrEqual(t, len(store.Calls), 2, "periodic saves plus the final one")
}
