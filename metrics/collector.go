package metrics

import (
	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/playforge/gamecore/pool"
)

const namespace = "gamecore"

// PoolCollector reports per-pool statistics on scrape. Stats are read fresh
// from the source each collection, so the collector itself holds no state.
type PoolCollector struct {
	source pool.StatsSource

	idle        *prom.Desc
	active      *prom.Desc
	constructed *prom.Desc
	reused      *prom.Desc
	exhausted   *prom.Desc
}

var _ prom.Collector = (*PoolCollector)(nil)

// NewPoolCollector creates a collector over the given stats source. Panics
// if source is nil.
func NewPoolCollector(source pool.StatsSource) *PoolCollector {
	if source == nil {
		panic("gamecore: pool collector requires a stats source")
	}
	labels := []string{"pool"}
	return &PoolCollector{
		source: source,
		idle: prom.NewDesc(
			prom.BuildFQName(namespace, "pool", "idle_instances"),
			"Instances currently available for reuse.",
			labels, nil,
		),
		active: prom.NewDesc(
			prom.BuildFQName(namespace, "pool", "active_instances"),
			"Instances currently checked out.",
			labels, nil,
		),
		constructed: prom.NewDesc(
			prom.BuildFQName(namespace, "pool", "constructed_total"),
			"Instances constructed by the factory, including warm-up.",
			labels, nil,
		),
		reused: prom.NewDesc(
			prom.BuildFQName(namespace, "pool", "reused_total"),
			"Spawns served from the idle stack.",
			labels, nil,
		),
		exhausted: prom.NewDesc(
			prom.BuildFQName(namespace, "pool", "exhausted_total"),
			"Spawns rejected because the pool was at capacity.",
			labels, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *PoolCollector) Describe(ch chan<- *prom.Desc) {
	ch <- c.idle
	ch <- c.active
	ch <- c.constructed
	ch <- c.reused
	ch <- c.exhausted
}

// Collect implements prometheus.Collector.
func (c *PoolCollector) Collect(ch chan<- prom.Metric) {
	for name, s := range c.source.PoolStats() {
		ch <- prom.MustNewConstMetric(c.idle, prom.GaugeValue, float64(s.Idle), name)
		ch <- prom.MustNewConstMetric(c.active, prom.GaugeValue, float64(s.Active), name)
		ch <- prom.MustNewConstMetric(c.constructed, prom.CounterValue, float64(s.Constructed), name)
		ch <- prom.MustNewConstMetric(c.reused, prom.CounterValue, float64(s.Reused), name)
		ch <- prom.MustNewConstMetric(c.exhausted, prom.CounterValue, float64(s.Exhausted), name)
	}
}
