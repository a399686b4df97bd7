package metrics

import (
	stderrors "errors"
	"io"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/vango-dev/weft/pkg/dom"
	"github.com/vango-dev/weft/pkg/node"
	"github.com/vango-dev/weft/pkg/observable"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("counter Write() error: %v", err)
	}
	return m.GetCounter().GetValue()
}

func gaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()
	var m dto.Metric
	if err := g.Write(&m); err != nil {
		t.Fatalf("gauge Write() error: %v", err)
	}
	return m.GetGauge().GetValue()
}

func histogramCount(t *testing.T, o prometheus.Observer) uint64 {
	t.Helper()
	metric, ok := o.(prometheus.Metric)
	if !ok {
		t.Fatalf("observer %T does not implement prometheus.Metric", o)
	}
	var m dto.Metric
	if err := metric.Write(&m); err != nil {
		t.Fatalf("histogram Write() error: %v", err)
	}
	return m.GetHistogram().GetSampleCount()
}

func TestObserverRecordsLifecycle(t *testing.T) {
	reg := prometheus.NewRegistry()
	obs := New(WithRegistry(reg), WithNamespace("test"))

	b := node.NewBuilder(dom.New("body"),
		node.WithObserver(obs),
		node.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))

	count := observable.New(0)
	b.Scope(nil, func(*node.Node) error {
		b.Create("p").Format(count)
		b.Create("p")
		b.Create("span")
		return nil
	})
	count.Set(1)

	if got := counterValue(t, obs.created.WithLabelValues("p")); got != 2 {
		t.Errorf("created{p} = %v, want 2", got)
	}
	if got := counterValue(t, obs.started.WithLabelValues("span")); got != 1 {
		t.Errorf("started{span} = %v, want 1", got)
	}
	if got := histogramCount(t, obs.activation.WithLabelValues("p")); got != 2 {
		t.Errorf("activation{p} count = %d, want 2", got)
	}
	if got := counterValue(t, obs.replays.WithLabelValues("true")); got != 1 {
		t.Errorf("replays{true} = %v, want 1", got)
	}
	// Nodes without a component cannot be scoped.
	if got := counterValue(t, obs.swallowed.WithLabelValues("attribute")); got != 3 {
		t.Errorf("swallowed{attribute} = %v, want 3", got)
	}
	if got := gaugeValue(t, obs.pending); got != 0 {
		t.Errorf("pending = %v, want 0", got)
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}
	found := false
	for _, f := range families {
		if f.GetName() == "test_nodes_created_total" {
			found = true
		}
	}
	if !found {
		t.Error("test_nodes_created_total not registered")
	}
}

func TestCategorize(t *testing.T) {
	if got := categorize(stderrors.New("plain")); got != "other" {
		t.Errorf("categorize(plain) = %q, want other", got)
	}
}
