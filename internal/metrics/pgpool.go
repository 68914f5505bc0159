package metrics

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
)

// poolCollector expone gauges del pool del directorio.
type poolCollector struct {
	pool func() *pgxpool.Pool

	acquiredDesc *prometheus.Desc
	idleDesc     *prometheus.Desc
	totalDesc    *prometheus.Desc
}

// RegisterPGPool agrega gauges del pool de Postgres del directorio.
func RegisterPGPool(reg prometheus.Registerer, pool func() *pgxpool.Pool) error {
	return registerCollector(reg, &poolCollector{
		pool:         pool,
		acquiredDesc: prometheus.NewDesc("directory_pgxpool_acquired", "Conexiones adquiridas", nil, nil),
		idleDesc:     prometheus.NewDesc("directory_pgxpool_idle", "Conexiones inactivas", nil, nil),
		totalDesc:    prometheus.NewDesc("directory_pgxpool_total", "Conexiones totales", nil, nil),
	})
}

func (c *poolCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.acquiredDesc
	ch <- c.idleDesc
	ch <- c.totalDesc
}

func (c *poolCollector) Collect(ch chan<- prometheus.Metric) {
	if c.pool == nil {
		return
	}
	pool := c.pool()
	if pool == nil {
		return
	}
	stat := pool.Stat()
	ch <- prometheus.MustNewConstMetric(c.acquiredDesc, prometheus.GaugeValue, float64(stat.AcquiredConns()))
	ch <- prometheus.MustNewConstMetric(c.idleDesc, prometheus.GaugeValue, float64(stat.IdleConns()))
	ch <- prometheus.MustNewConstMetric(c.totalDesc, prometheus.GaugeValue, float64(stat.TotalConns()))
}
