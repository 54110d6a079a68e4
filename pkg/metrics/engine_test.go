package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func gatherValue(t *testing.T, reg *prometheus.Registry, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gathering metrics: %v", err)
	}
	for _, family := range families {
		if family.GetName() != name {
			continue
		}
		for _, metric := range family.GetMetric() {
			if !labelsMatch(metric, labels) {
				continue
			}
			return metric.GetCounter().GetValue()
		}
	}
	t.Fatalf("metric %s with labels %v not found", name, labels)
	return 0
}

func labelsMatch(metric *dto.Metric, labels map[string]string) bool {
	seen := map[string]string{}
	for _, pair := range metric.GetLabel() {
		seen[pair.GetName()] = pair.GetValue()
	}
	for k, v := range labels {
		if seen[k] != v {
			return false
		}
	}
	return true
}

func TestEngineMetricsCounters(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m := NewEngineMetrics(reg)

	m.IncSnapshot("Catalog")
	m.IncSnapshot("catalog")
	m.IncMirrorError("orders")
	m.IncCartOp("add")
	m.IncCartOp("add")
	m.IncCartOp("remove")
	m.IncOrderPlaced()
	m.IncOrderFailure()

	if got := gatherValue(t, reg, "snapshots_applied_total", map[string]string{"mirror": "catalog"}); got != 2 {
		t.Fatalf("expected 2 catalog snapshots, got %v", got)
	}
	if got := gatherValue(t, reg, "mirror_errors_total", map[string]string{"mirror": "orders"}); got != 1 {
		t.Fatalf("expected 1 mirror error, got %v", got)
	}
	if got := gatherValue(t, reg, "cart_mutations_total", map[string]string{"op": "add"}); got != 2 {
		t.Fatalf("expected 2 add mutations, got %v", got)
	}
	if got := gatherValue(t, reg, "orders_placed_total", nil); got != 1 {
		t.Fatalf("expected 1 placed order, got %v", got)
	}
	if got := gatherValue(t, reg, "order_failures_total", nil); got != 1 {
		t.Fatalf("expected 1 failed order, got %v", got)
	}
}

func TestNilMetricsAreSafe(t *testing.T) {
	t.Parallel()

	var m *EngineMetrics
	m.IncSnapshot("catalog")
	m.IncMirrorError("orders")
	m.IncCartOp("add")
	m.IncOrderPlaced()
	m.IncOrderFailure()

	unregistered := NewEngineMetrics(nil)
	unregistered.IncSnapshot("catalog")
	unregistered.IncOrderPlaced()
}
