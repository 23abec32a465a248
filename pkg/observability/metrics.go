package observability

import (
	"context"

	"github.com/aretw0/hpgraph/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the builder's Prometheus collectors.
type Metrics struct {
	builds        *prometheus.CounterVec
	buildDuration prometheus.Histogram
	nodes         *prometheus.CounterVec
	nodeFailures  *prometheus.CounterVec
	nodeDuration  *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		builds: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hpgraph_builds_total",
				Help: "Total number of resolution passes, by result",
			},
			[]string{"result"},
		),
		buildDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "hpgraph_build_duration_seconds",
				Help:    "Duration of resolution passes",
				Buckets: prometheus.ExponentialBuckets(0.0005, 4, 8),
			},
		),
		nodes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hpgraph_nodes_built_total",
				Help: "Total number of nodes constructed, by spec and value kind",
			},
			[]string{"spec", "kind"},
		),
		nodeFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hpgraph_node_failures_total",
				Help: "Total number of node failures, by error kind",
			},
			[]string{"error"},
		),
		nodeDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "hpgraph_factory_duration_seconds",
				Help:    "Duration of factory-backed node construction",
				Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
			},
			[]string{"target"},
		),
	}
	reg.MustRegister(m.builds, m.buildDuration, m.nodes, m.nodeFailures, m.nodeDuration)
	return m
}

// Hooks returns builder hooks that record into m.
func (m *Metrics) Hooks() domain.Hooks {
	return domain.Hooks{
		OnBuildDone: func(_ context.Context, e *domain.BuildEvent) {
			result := "ok"
			if e.Err != nil {
				result = "error"
			}
			m.builds.WithLabelValues(result).Inc()
			m.buildDuration.Observe(e.Duration.Seconds())
		},
		OnNodeBuilt: func(_ context.Context, e *domain.NodeEvent) {
			m.nodes.WithLabelValues(e.Spec.String(), e.Kind.String()).Inc()
			if e.Target != "" {
				m.nodeDuration.WithLabelValues(e.Target).Observe(e.Duration.Seconds())
			}
		},
		OnNodeFailed: func(_ context.Context, e *domain.NodeEvent) {
			m.nodeFailures.WithLabelValues(domain.KindName(e.Err)).Inc()
		},
	}
}
