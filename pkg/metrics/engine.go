package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

// EngineMetrics records storefront engine activity.
type EngineMetrics struct {
	snapshots  *prometheus.CounterVec
	mirrorErrs *prometheus.CounterVec
	cartOps    *prometheus.CounterVec
	orders     prometheus.Counter
	orderFails prometheus.Counter
}

// NewEngineMetrics registers the engine metrics on the provided registerer.
func NewEngineMetrics(reg prometheus.Registerer) *EngineMetrics {
	if reg == nil {
		return &EngineMetrics{}
	}
	snapshots := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "snapshots_applied_total",
		Help: "Full snapshots applied per mirror.",
	}, []string{"mirror"})
	mirrorErrs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "mirror_errors_total",
		Help: "Subscription errors surfaced per mirror.",
	}, []string{"mirror"})
	cartOps := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_mutations_total",
		Help: "Cart mutations by operation.",
	}, []string{"op"})
	orders := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orders_placed_total",
		Help: "Successfully submitted orders.",
	})
	orderFails := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "order_failures_total",
		Help: "Order submissions that failed at the store.",
	})
	reg.MustRegister(snapshots, mirrorErrs, cartOps, orders, orderFails)
	return &EngineMetrics{
		snapshots:  snapshots,
		mirrorErrs: mirrorErrs,
		cartOps:    cartOps,
		orders:     orders,
		orderFails: orderFails,
	}
}

// IncSnapshot counts one applied snapshot for the named mirror.
func (e *EngineMetrics) IncSnapshot(mirror string) {
	if e == nil || e.snapshots == nil {
		return
	}
	e.snapshots.WithLabelValues(normalizeLabel(mirror)).Inc()
}

// IncMirrorError counts one surfaced subscription error.
func (e *EngineMetrics) IncMirrorError(mirror string) {
	if e == nil || e.mirrorErrs == nil {
		return
	}
	e.mirrorErrs.WithLabelValues(normalizeLabel(mirror)).Inc()
}

// IncCartOp counts one cart mutation.
func (e *EngineMetrics) IncCartOp(op string) {
	if e == nil || e.cartOps == nil {
		return
	}
	e.cartOps.WithLabelValues(normalizeLabel(op)).Inc()
}

// IncOrderPlaced counts one successful order submission.
func (e *EngineMetrics) IncOrderPlaced() {
	if e == nil || e.orders == nil {
		return
	}
	e.orders.Inc()
}

// IncOrderFailure counts one failed order submission.
func (e *EngineMetrics) IncOrderFailure() {
	if e == nil || e.orderFails == nil {
		return
	}
	e.orderFails.Inc()
}

func normalizeLabel(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
