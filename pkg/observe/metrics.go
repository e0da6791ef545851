// Package observe exports tick activity as Prometheus metrics. Attach
// a MetricsVisitor to a tree and serve the registry over /metrics.
package observe

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/aretw0/arbor/pkg/behaviour"
	"github.com/aretw0/arbor/pkg/tree"
)

// MetricsVisitor counts node visits by name and status, plus whole-tree
// ticks. It implements tree.Visitor.
type MetricsVisitor struct {
	ticks      prometheus.Counter
	nodeVisits *prometheus.CounterVec
}

var _ tree.Visitor = (*MetricsVisitor)(nil)

// NewMetricsVisitor creates the visitor and registers its collectors on
// reg. Pass prometheus.DefaultRegisterer to use the process-global
// registry.
func NewMetricsVisitor(reg prometheus.Registerer) *MetricsVisitor {
	v := &MetricsVisitor{
		ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "arbor_ticks_total",
			Help: "Total number of tree ticks",
		}),
		nodeVisits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "arbor_node_visits_total",
				Help: "Total number of node visits",
			},
			[]string{"node", "status"},
		),
	}
	reg.MustRegister(v.ticks, v.nodeVisits)
	return v
}

// Initialise counts the start of a tick.
func (v *MetricsVisitor) Initialise() {
	v.ticks.Inc()
}

// Visit counts one node visit under its name and resulting status.
func (v *MetricsVisitor) Visit(n behaviour.Node) {
	v.nodeVisits.WithLabelValues(n.Name(), string(n.Status())).Inc()
}
