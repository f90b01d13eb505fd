package metrics

import (
	"strings"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector bridges a Registry to Prometheus. Every registry metric is
// exported as an untyped gauge named hollowdeep_<key> with dots replaced
// by underscores. Descriptors are created on the fly because the
// registry grows lazily.
type Collector struct {
	reg    *Registry
	prefix string
}

// NewCollector wraps reg for Prometheus scraping.
func NewCollector(reg *Registry) *Collector {
	return &Collector{reg: reg, prefix: "hollowdeep_"}
}

// Describe implements prometheus.Collector. Sending no descriptors
// marks the collector as unchecked, which is what we want for a
// dynamically growing registry.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.reg.Ints.Range(func(key string, ptr *atomic.Int64) {
		ch <- c.metric(key, float64(ptr.Load()))
	})
	c.reg.Floats.Range(func(key string, ptr *AtomicFloat) {
		ch <- c.metric(key, ptr.Get())
	})
}

func (c *Collector) metric(key string, val float64) prometheus.Metric {
	name := c.prefix + strings.NewReplacer(".", "_", "-", "_").Replace(key)
	desc := prometheus.NewDesc(name, "hollowdeep engine metric "+key, nil, nil)
	return prometheus.MustNewConstMetric(desc, prometheus.GaugeValue, val)
}
