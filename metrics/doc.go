// Package metrics exposes pool activity as Prometheus metrics.
//
// NewPoolCollector wraps any pool stats source (normally a pool.Manager)
// in a prometheus.Collector that reports idle and active instance gauges
// plus lifetime construction, reuse and exhaustion counters per pool.
//
//	reg := prometheus.NewRegistry()
//	reg.MustRegister(metrics.NewPoolCollector(manager))
package metrics
