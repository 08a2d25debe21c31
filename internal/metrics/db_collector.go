package metrics

import "github.com/prometheus/client_golang/prometheus"

// DBPoolStatFunc returns audit database pool statistics without importing
// pgxpool here.
type DBPoolStatFunc func() (total, idle, acquired int32)

// dbPoolCollector exposes one gauge family, split by connection state and
// tagged with the pool's role. The portal owns a single pool (the audit
// log), but the constant label keeps the series unambiguous if that
// changes.
type dbPoolCollector struct {
	statFunc DBPoolStatFunc
	desc     *prometheus.Desc
}

// NewDBPoolCollector creates a collector exposing DB pool gauges.
func NewDBPoolCollector(statFunc DBPoolStatFunc) prometheus.Collector {
	return &dbPoolCollector{
		statFunc: statFunc,
		desc: prometheus.NewDesc(
			"condy_db_pool_conns",
			"Connections in the database pool, by state.",
			[]string{"state"},
			prometheus.Labels{"pool": "audit"},
		),
	}
}

func (c *dbPoolCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.desc
}

func (c *dbPoolCollector) Collect(ch chan<- prometheus.Metric) {
	total, idle, acquired := c.statFunc()
	ch <- prometheus.MustNewConstMetric(c.desc, prometheus.GaugeValue, float64(total), "total")
	ch <- prometheus.MustNewConstMetric(c.desc, prometheus.GaugeValue, float64(idle), "idle")
	ch <- prometheus.MustNewConstMetric(c.desc, prometheus.GaugeValue, float64(acquired), "acquired")
}
