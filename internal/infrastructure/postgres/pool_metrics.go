package postgres

import "github.com/prometheus/client_golang/prometheus"

// PoolCollector exports connection pool statistics to Prometheus.
type PoolCollector struct {
	stats func() Stats

	acquired     *prometheus.Desc
	idle         *prometheus.Desc
	total        *prometheus.Desc
	max          *prometheus.Desc
	acquires     *prometheus.Desc
	emptyAcquire *prometheus.Desc
}

var _ prometheus.Collector = (*PoolCollector)(nil)

// NewPoolCollector creates a collector reading from stats on every scrape.
func NewPoolCollector(stats func() Stats) *PoolCollector {
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName("mediamind", "db_pool", name), help, nil, nil)
	}
	return &PoolCollector{
		stats:        stats,
		acquired:     desc("acquired_conns", "Connections currently in use"),
		idle:         desc("idle_conns", "Idle connections"),
		total:        desc("total_conns", "Open connections"),
		max:          desc("max_conns", "Maximum pool size"),
		acquires:     desc("acquires_total", "Connections acquired from the pool"),
		emptyAcquire: desc("empty_acquires_total", "Acquires that waited because the pool was empty"),
	}
}

func (c *PoolCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.acquired
	ch <- c.idle
	ch <- c.total
	ch <- c.max
	ch <- c.acquires
	ch <- c.emptyAcquire
}

func (c *PoolCollector) Collect(ch chan<- prometheus.Metric) {
	s := c.stats()
	ch <- prometheus.MustNewConstMetric(c.acquired, prometheus.GaugeValue, float64(s.AcquiredConns))
	ch <- prometheus.MustNewConstMetric(c.idle, prometheus.GaugeValue, float64(s.IdleConns))
	ch <- prometheus.MustNewConstMetric(c.total, prometheus.GaugeValue, float64(s.TotalConns))
	ch <- prometheus.MustNewConstMetric(c.max, prometheus.GaugeValue, float64(s.MaxConns))
	ch <- prometheus.MustNewConstMetric(c.acquires, prometheus.CounterValue, float64(s.AcquireCount))
	ch <- prometheus.MustNewConstMetric(c.emptyAcquire, prometheus.CounterValue, float64(s.EmptyAcquireCount))
}
