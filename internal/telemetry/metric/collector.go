package metric

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// StoreStats is what StoreCollector needs from a region store.
type StoreStats struct {
	Engine  string
	Regions uint64
	Bytes   uint64
}

// StatsFunc reads the current store statistics.
type StatsFunc func(ctx context.Context) (StoreStats, error)

// StoreCollector exports region store gauges, reading them at scrape time.
type StoreCollector struct {
	stats   StatsFunc
	timeout time.Duration

	regions *prometheus.Desc
	bytes   *prometheus.Desc
	up      *prometheus.Desc
}

// NewStoreCollector creates a collector backed by fn.
func NewStoreCollector(fn StatsFunc) *StoreCollector {
	return &StoreCollector{
		stats:   fn,
		timeout: 5 * time.Second,
		regions: prometheus.NewDesc(namespace+"_store_regions",
			"Regions held by the store.", []string{"engine"}, nil),
		bytes: prometheus.NewDesc(namespace+"_store_bytes",
			"Storage footprint reported by the store.", []string{"engine"}, nil),
		up: prometheus.NewDesc(namespace+"_store_up",
			"Whether the last stats read succeeded.", nil, nil),
	}
}

// Describe implements prometheus.Collector.
func (c *StoreCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.regions
	ch <- c.bytes
	ch <- c.up
}

// Collect implements prometheus.Collector.
func (c *StoreCollector) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	s, err := c.stats(ctx)
	if err != nil {
		ch <- prometheus.MustNewConstMetric(c.up, prometheus.GaugeValue, 0)
		return
	}
	ch <- prometheus.MustNewConstMetric(c.up, prometheus.GaugeValue, 1)
	ch <- prometheus.MustNewConstMetric(c.regions, prometheus.GaugeValue, float64(s.Regions), s.Engine)
	ch <- prometheus.MustNewConstMetric(c.bytes, prometheus.GaugeValue, float64(s.Bytes), s.Engine)
}

// RegisterStore attaches a StoreCollector to the registry.
func (r *Registry) RegisterStore(fn StatsFunc) {
	r.reg.MustRegister(NewStoreCollector(fn))
}
