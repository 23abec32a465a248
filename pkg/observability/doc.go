/*
Package observability turns builder events into Prometheus metrics and
structured log lines.

Both are delivered as domain.Hooks, so they can be combined:

	metrics := observability.NewMetrics(prometheus.DefaultRegisterer)
	hooks := metrics.Hooks().Merge(observability.LogHooks(logger))
	b := hpgraph.New(hpgraph.WithHooks(hooks))
*/
package observability
