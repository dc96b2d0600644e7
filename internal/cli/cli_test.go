package cli

import (
	"bytes"
	"context"
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/hfsm"
	"github.com/aretw0/hfsm/internal/logging"
	"github.com/aretw0/hfsm/pkg/adapters/memory"
	"github.com/aretw0/hfsm/pkg/adapters/redis"
	"github.com/aretw0/hfsm/pkg/domain"
	"github.com/aretw0/hfsm/pkg/dsl"
	"github.com/aretw0/hfsm/pkg/ports"
	"github.com/aretw0/hfsm/pkg/states"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeDoor(t *testing.T) string {
	t.Helper()
	b := dsl.New("door").Bool("open", false).Int("knocks", 0).Float("speed", 0).Trigger("slam")
	root := b.Root("Root").Default("Closed")
	root.Leaf("Closed", &states.Base{}).Go("Opened").Immediate().When("open", "==", true)
	root.Leaf("Opened", &states.Base{}).Go("Closed").Immediate().When("open", "==", false).Or("slam", "==", true)
	layer, err := b.Build()
	require.NoError(t, err)

	data, err := hfsm.Encode(layer, hfsm.FormatYAML)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "door.yaml")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		cfg, err := LoadConfig()
		require.NoError(t, err)
		assert.Equal(t, "info", cfg.LogLevel)
		assert.Equal(t, 60, cfg.TickRate)
		assert.Equal(t, ":8080", cfg.Addr)
		assert.Equal(t, "default", cfg.SnapshotKey)
		assert.Equal(t, 10*time.Second, cfg.Autosave)
		assert.Empty(t, cfg.RedisAddr)
	})

	t.Run("Environment", func(t *testing.T) {
		t.Setenv("HFSM_LOG_LEVEL", "debug")
		t.Setenv("HFSM_TICK_RATE", "30")
		t.Setenv("HFSM_REDIS_ADDR", "localhost:6379")
		t.Setenv("HFSM_SNAPSHOT_TTL", "1h")

		cfg, err := LoadConfig()
		require.NoError(t, err)
		assert.Equal(t, "debug", cfg.LogLevel)
		assert.Equal(t, 30, cfg.TickRate)
		assert.Equal(t, "localhost:6379", cfg.RedisAddr)
		assert.Equal(t, time.Hour, cfg.SnapshotTTL)
	})

	t.Run("Invalid", func(t *testing.T) {
		t.Setenv("HFSM_TICK_RATE", "fast")
		_, err := LoadConfig()
		assert.Error(t, err)
	})
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(&buf, "warn")
	require.NoError(t, err)
	logger.Info("hidden")
	logger.Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")

	_, err = NewLogger(&buf, "loud")
	assert.Error(t, err)
}

func TestApplyAssignments(t *testing.T) {
	a, err := OpenAnimator(writeDoor(t), logging.NewNop())
	require.NoError(t, err)

	require.NoError(t, ApplyAssignments(a, []string{"open=true", "knocks = 3", "speed=0.5"}))
	open, _ := a.GetBool("open")
	knocks, _ := a.GetInt("knocks")
	speed, _ := a.GetFloat("speed")
	assert.True(t, open)
	assert.Equal(t, 3, knocks)
	assert.Equal(t, 0.5, speed)

	require.NoError(t, ApplyAssignments(a, []string{"slam"}))
	slam, _ := a.GetBool("slam")
	assert.True(t, slam)

	err = ApplyAssignments(a, []string{"missing=1"})
	assert.ErrorIs(t, err, domain.ErrUnknownValue)

	err = ApplyAssignments(a, []string{"knocks=many"})
	assert.ErrorContains(t, err, "set knocks")
}

func TestOpenAnimator_Missing(t *testing.T) {
	_, err := OpenAnimator(filepath.Join(t.TempDir(), "none.yaml"), logging.NewNop())
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestOpenStore(t *testing.T) {
	ctx := context.Background()

	t.Run("Memory", func(t *testing.T) {
		store, closeFn, err := OpenStore(ctx, Config{}, logging.NewNop())
		require.NoError(t, err)
		assert.IsType(t, &memory.Store{}, store)
		assert.NoError(t, closeFn())
	})

	t.Run("Redis", func(t *testing.T) {
		mr := miniredis.RunT(t)
		store, closeFn, err := OpenStore(ctx, Config{RedisAddr: mr.Addr(), SnapshotTTL: time.Minute}, logging.NewNop())
		require.NoError(t, err)
		assert.IsType(t, &redis.Store{}, store)
		assert.NoError(t, closeFn())
	})

	t.Run("Middlewares", func(t *testing.T) {
		key := base64.StdEncoding.EncodeToString(bytes.Repeat([]byte{7}, 32))
		store, _, err := OpenStore(ctx, Config{EncryptionKey: key, ExcludeValues: []string{"^tmp"}}, logging.NewNop())
		require.NoError(t, err)

		snap := &ports.Snapshot{Layer: "door", Path: []string{"Opened"}, Values: map[string]any{"open": true, "tmp": 1.0}}
		require.NoError(t, store.Save(ctx, "k", snap))
		loaded, err := store.Load(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, []string{"Opened"}, loaded.Path)
		assert.Equal(t, map[string]any{"open": true}, map[string]any(loaded.Values))
	})

	t.Run("BadKey", func(t *testing.T) {
		_, _, err := OpenStore(ctx, Config{EncryptionKey: base64.StdEncoding.EncodeToString([]byte("short"))}, logging.NewNop())
		assert.ErrorContains(t, err, "HFSM_ENCRYPTION_KEY")
	})

	t.Run("RedisDown", func(t *testing.T) {
		mr := miniredis.RunT(t)
		addr := mr.Addr()
		mr.Close()
		_, _, err := OpenStore(ctx, Config{RedisAddr: addr}, logging.NewNop())
		assert.ErrorContains(t, err, "connect redis")
	})
}

func TestRun_Steps(t *testing.T) {
	path := writeDoor(t)

	t.Run("Default", func(t *testing.T) {
		var out bytes.Buffer
		err := Run(context.Background(), RunOptions{
			Path: path, Steps: 3, Out: &out, Profile: termenv.Ascii,
		}, logging.NewNop())
		require.NoError(t, err)
		assert.Equal(t, "Closed\n", out.String())
	})

	t.Run("WithValues", func(t *testing.T) {
		var out bytes.Buffer
		err := Run(context.Background(), RunOptions{
			Path: path, Steps: 3, Sets: []string{"open=true"}, Out: &out, Profile: termenv.Ascii,
		}, logging.NewNop())
		require.NoError(t, err)
		assert.Equal(t, "Opened\n", out.String())
	})

	t.Run("BadValue", func(t *testing.T) {
		err := Run(context.Background(), RunOptions{
			Path: path, Steps: 1, Sets: []string{"open=maybe"}, Out: &bytes.Buffer{},
		}, logging.NewNop())
		assert.Error(t, err)
	})
}

func TestRun_Clock(t *testing.T) {
	var out bytes.Buffer
	err := Run(context.Background(), RunOptions{
		Path:     writeDoor(t),
		TickRate: 100,
		Duration: 50 * time.Millisecond,
		Out:      &out,
		Profile:  termenv.Ascii,
	}, logging.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "Closed\n", out.String())
}

func TestSignalContext(t *testing.T) {
	sc := NewSignalContext(context.Background())
	sc.Cancel()
	<-sc.Done()
	assert.Nil(t, sc.Signal())

	parent, cancel := context.WithCancel(context.Background())
	sc = NewSignalContext(parent)
	cancel()
	<-sc.Done()
	assert.Nil(t, sc.Signal())

	sc = NewSignalContext(context.Background())
	defer sc.Cancel()
	p, err := os.FindProcess(os.Getpid())
	require.NoError(t, err)
	if err := p.Signal(os.Interrupt); err != nil {
		t.Skipf("interrupt not deliverable: %v", err)
	}
	select {
	case <-sc.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("context not cancelled by interrupt")
	}
	assert.Equal(t, os.Interrupt, sc.Signal())
}
