package inspect

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/vango-dev/weft/pkg/dom"
	"github.com/vango-dev/weft/pkg/metrics"
	"github.com/vango-dev/weft/pkg/node"
	"github.com/vango-dev/weft/pkg/snapshot"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fixture struct {
	b      *node.Builder
	hub    *Hub
	server *httptest.Server
	reg    *prometheus.Registry
	para   *node.Node
}

func newFixture(t *testing.T, origins ...string) *fixture {
	t.Helper()
	reg := prometheus.NewRegistry()
	hub := NewHub(origins, quietLogger())
	b := node.NewBuilder(dom.New("body"),
		node.WithLogger(quietLogger()),
		node.WithObserver(hub, metrics.New(metrics.WithRegistry(reg))),
	)

	var para *node.Node
	if err := b.Scope(b.Create("main"), func(*node.Node) error {
		para = b.Create("p")
		para.Element().SetProperty("text", "hello")
		return nil
	}); err != nil {
		t.Fatal(err)
	}

	srv := New(b, WithHub(hub), WithGatherer(reg), WithLogger(quietLogger()))
	ts := httptest.NewServer(srv)
	t.Cleanup(func() {
		ts.Close()
		hub.Close()
	})
	return &fixture{b: b, hub: hub, server: ts, reg: reg, para: para}
}

func (f *fixture) get(t *testing.T, path string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(f.server.URL + path)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return resp, string(body)
}

func TestHealthz(t *testing.T) {
	f := newFixture(t)
	resp, body := f.get(t, "/healthz")
	if resp.StatusCode != http.StatusOK || body != "ok" {
		t.Errorf("healthz = %d %q", resp.StatusCode, body)
	}
}

func TestTree(t *testing.T) {
	f := newFixture(t)
	resp, body := f.get(t, "/tree")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}

	var doc snapshot.Document
	if err := json.Unmarshal([]byte(body), &doc); err != nil {
		t.Fatal(err)
	}
	if doc.Root.Tag != "body" {
		t.Errorf("root tag = %q", doc.Root.Tag)
	}
	e, ok := doc.Root.Find(f.para.ID())
	if !ok {
		t.Fatal("paragraph missing from tree")
	}
	if !e.Started {
		t.Error("paragraph should be started after the scope drained")
	}
}

func TestTreeHTML(t *testing.T) {
	f := newFixture(t)
	resp, body := f.get(t, "/tree.html")
	if !strings.HasPrefix(resp.Header.Get("Content-Type"), "text/html") {
		t.Errorf("Content-Type = %q", resp.Header.Get("Content-Type"))
	}
	if !strings.Contains(body, "<p>hello</p>") {
		t.Errorf("body = %q", body)
	}
}

func TestNode(t *testing.T) {
	f := newFixture(t)

	resp, body := f.get(t, "/nodes/"+strconv.FormatUint(f.para.ID(), 10))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var e snapshot.Entry
	if err := json.Unmarshal([]byte(body), &e); err != nil {
		t.Fatal(err)
	}
	if e.Tag != "p" || e.NodeID != f.para.ID() {
		t.Errorf("entry = %s/%d", e.Tag, e.NodeID)
	}

	tests := []struct {
		path   string
		status int
	}{
		{"/nodes/abc", http.StatusBadRequest},
		{"/nodes/999999999", http.StatusNotFound},
	}
	for _, tt := range tests {
		if resp, _ := f.get(t, tt.path); resp.StatusCode != tt.status {
			t.Errorf("GET %s = %d, want %d", tt.path, resp.StatusCode, tt.status)
		}
	}
}

func TestMetrics(t *testing.T) {
	f := newFixture(t)
	_, body := f.get(t, "/metrics")
	if !strings.Contains(body, "weft_nodes_created_total") {
		t.Errorf("metrics output missing node counter:\n%s", body)
	}
}

func dial(t *testing.T, f *fixture, header http.Header) (*websocket.Conn, error) {
	t.Helper()
	url := "ws" + strings.TrimPrefix(f.server.URL, "http") + "/events"
	conn, _, err := websocket.DefaultDialer.Dial(url, header)
	return conn, err
}

func waitClients(t *testing.T, h *Hub, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for h.ClientCount() != n {
		if time.Now().After(deadline) {
			t.Fatalf("ClientCount = %d, want %d", h.ClientCount(), n)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestEvents(t *testing.T) {
	f := newFixture(t)
	conn, err := dial(t, f, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()
	waitClients(t, f.hub, 1)

	div := f.b.Create("div")
	f.b.Flush()

	// Events from building the fixture may still be in flight.
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var got []Event
	for len(got) < 2 {
		var ev Event
		if err := conn.ReadJSON(&ev); err != nil {
			t.Fatalf("read: %v (got %v)", err, got)
		}
		if ev.NodeID == div.ID() {
			got = append(got, ev)
		}
	}
	if got[0].Type != EventCreated || got[0].NodeID != div.ID() || got[0].Tag != "div" {
		t.Errorf("first event = %+v", got[0])
	}
	if got[1].Type != EventStarted || got[1].NodeID != div.ID() {
		t.Errorf("second event = %+v", got[1])
	}

	conn.Close()
	waitClients(t, f.hub, 0)
}

func TestEventsOrigin(t *testing.T) {
	f := newFixture(t, "http://allowed.test")

	if _, err := dial(t, f, http.Header{"Origin": {"http://evil.test"}}); err != websocket.ErrBadHandshake {
		t.Errorf("foreign origin: err = %v, want ErrBadHandshake", err)
	}

	conn, err := dial(t, f, http.Header{"Origin": {"http://allowed.test"}})
	if err != nil {
		t.Fatalf("allowed origin: %v", err)
	}
	conn.Close()
}

func TestHubDropsWhenFull(t *testing.T) {
	h := &Hub{
		clients: make(map[*websocket.Conn]bool),
		logger:  quietLogger(),
		events:  make(chan Event, 1),
		done:    make(chan struct{}),
	}
	h.Publish(Event{Type: EventCreated})
	h.Publish(Event{Type: EventCreated})
	if h.Dropped() != 1 {
		t.Errorf("Dropped = %d, want 1", h.Dropped())
	}

	h.Close()
	h.Close()
	h.Publish(Event{Type: EventCreated})
}

func TestWithLock(t *testing.T) {
	var mu sync.Mutex
	f := newFixture(t)
	srv := New(f.b, WithLock(&mu), WithGatherer(f.reg), WithLogger(quietLogger()))
	defer srv.Hub().Close()

	mu.Lock()
	done := make(chan struct{})
	go func() {
		req := httptest.NewRequest(http.MethodGet, "/tree", nil)
		srv.ServeHTTP(httptest.NewRecorder(), req)
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("request should wait for the lock")
	case <-time.After(50 * time.Millisecond):
	}
	mu.Unlock()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("request did not finish after unlock")
	}
}
