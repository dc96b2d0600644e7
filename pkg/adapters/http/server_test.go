package http

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/hfsm"
	"github.com/aretw0/hfsm/pkg/domain"
	"github.com/aretw0/hfsm/pkg/dsl"
	"github.com/aretw0/hfsm/pkg/observability"
	"github.com/aretw0/hfsm/pkg/states"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func animator(t *testing.T, opts ...hfsm.Option) *hfsm.Animator {
	t.Helper()
	b := dsl.New("door").Bool("open", false).Trigger("knock").Int("visits", 0)
	root := b.Root("Root").Default("Closed")
	root.Leaf("Closed", &states.Base{}).
		Go("Opened").Immediate().When("open", "==", true).
		Go("Answer").Immediate().When("knock", "==", true)
	root.Leaf("Opened", &states.Base{}).Go("Closed").Immediate().When("open", "==", false)
	root.Leaf("Answer", &states.Base{})
	layer, err := b.Build()
	require.NoError(t, err)

	a, err := hfsm.New(layer, opts...)
	require.NoError(t, err)
	a.Start()
	return a
}

func do(t *testing.T, h http.Handler, method, path, body string) (*httptest.ResponseRecorder, State) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	var st State
	if w.Code == http.StatusOK && strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		_ = json.Unmarshal(w.Body.Bytes(), &st)
	}
	return w, st
}

func TestServer_State(t *testing.T) {
	a := animator(t)
	h := NewHandler(a)

	w, st := do(t, h, "GET", "/state", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "door", st.Layer)
	assert.True(t, st.Running)
	assert.Equal(t, []string{"Closed"}, st.Path)
	assert.Equal(t, "Closed", st.Current)
	assert.Equal(t, false, st.Values["open"])
}

func TestServer_PutValueDrivesTransitions(t *testing.T) {
	a := animator(t)
	h := NewHandler(a)

	w, st := do(t, h, "PUT", "/values/open", "true")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, st.Values["open"])

	a.Update(0.1)
	assert.Equal(t, []string{"Opened"}, a.ActivePath())

	w, _ = do(t, h, "PUT", "/values/visits", "2")
	require.Equal(t, http.StatusOK, w.Code)
	n, err := a.GetInt("visits")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestServer_Errors(t *testing.T) {
	h := NewHandler(animator(t))

	w, _ := do(t, h, "PUT", "/values/missing", "1")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = do(t, h, "PUT", "/values/open", `"yes"`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "expects bool")

	w, _ = do(t, h, "PUT", "/values/open", "{")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = do(t, h, "POST", "/play", `{"path":"Nowhere"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestServer_TriggerPlayRestartPause(t *testing.T) {
	a := animator(t)
	h := NewHandler(a)

	w, _ := do(t, h, "POST", "/triggers/knock", "")
	require.Equal(t, http.StatusOK, w.Code)
	a.Update(0.1)
	assert.Equal(t, []string{"Answer"}, a.ActivePath())

	w, st := do(t, h, "POST", "/play", `{"path":"Opened"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"Opened"}, st.Path)

	_, st = do(t, h, "POST", "/restart", "")
	assert.Equal(t, []string{"Closed"}, st.Path)

	_, st = do(t, h, "POST", "/pause", "")
	assert.True(t, st.Paused)
	_, st = do(t, h, "POST", "/resume", "")
	assert.False(t, st.Paused)
}

func TestServer_Graph(t *testing.T) {
	h := NewHandler(animator(t))

	w, _ := do(t, h, "GET", "/graph", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "graph TD")
	assert.Contains(t, w.Body.String(), "class n_Closed current;")

	w, _ = do(t, h, "GET", "/graph?format=yaml", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "name: door")

	w, _ = do(t, h, "GET", "/graph?format=json", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), `"door"`)
}

func TestServer_HealthInfoMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := observability.NewMetrics("door", reg)
	require.NoError(t, err)
	a := animator(t, hfsm.WithListeners(m))
	h := NewHandler(a, WithMetrics(reg))

	w, _ := do(t, h, "GET", "/health", "")
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w, _ = do(t, h, "GET", "/info", "")
	assert.Contains(t, w.Body.String(), `"layer":"door"`)

	w, _ = do(t, h, "GET", "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `hfsm_node_visits_total{layer="door",path="Closed"} 1`)

	w, _ = do(t, NewHandler(animator(t)), "GET", "/metrics", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStreamManager_Filter(t *testing.T) {
	sm := NewStreamManager()
	all, cancelAll := sm.Subscribe()
	only, cancelOnly := sm.Subscribe(domain.EventTransition)
	assert.Equal(t, 2, sm.Subscribers())

	sm.OnEvent(domain.Event{Type: domain.EventServiceTick, Path: "A"})
	sm.OnEvent(domain.Event{Type: domain.EventTransition, Path: "B", From: "A"})

	msg := <-all
	assert.JSONEq(t, `{"type":"transition","path":"B","from":"A"}`, string(msg))
	msg = <-only
	assert.JSONEq(t, `{"type":"transition","path":"B","from":"A"}`, string(msg))
	assert.Empty(t, all)

	cancelAll()
	cancelOnly()
	cancelOnly()
	assert.Equal(t, 0, sm.Subscribers())
}

func TestServer_SubscribeEvents(t *testing.T) {
	a := animator(t)
	s := NewServer(a)
	srv := httptest.NewServer(s.Routes())
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, "GET", srv.URL+"/events?types=node_changed", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	lines := bufio.NewScanner(resp.Body)
	require.True(t, lines.Scan())
	assert.Equal(t, "event: ping", lines.Text())

	// The subscription is registered before the ping is written.
	require.Equal(t, 1, s.Streams.Subscribers())
	do(t, s.Routes(), "POST", "/play", `{"path":"Answer"}`)

	for lines.Scan() {
		if strings.HasPrefix(lines.Text(), "data: {") {
			assert.JSONEq(t, `{"type":"node_changed","path":"Answer"}`, strings.TrimPrefix(lines.Text(), "data: "))
			return
		}
	}
	t.Fatal("no event received")
}
