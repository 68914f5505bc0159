package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dropDatabas3/authzserver/internal/cache"
)

const cacheStatsTimeout = 2 * time.Second

// cacheCollector expone cache.Stats del backend de sesiones en cada scrape.
type cacheCollector struct {
	c cache.Client

	keysDesc   *prometheus.Desc
	hitsDesc   *prometheus.Desc
	missesDesc *prometheus.Desc
}

// RegisterSessionCache agrega gauges/counters del backend de sesiones de interacción.
func RegisterSessionCache(reg prometheus.Registerer, c cache.Client) error {
	labels := []string{"driver"}
	return registerCollector(reg, &cacheCollector{
		c:          c,
		keysDesc:   prometheus.NewDesc("session_cache_keys", "Keys en el backend de sesiones", labels, nil),
		hitsDesc:   prometheus.NewDesc("session_cache_hits_total", "Lecturas con hit", labels, nil),
		missesDesc: prometheus.NewDesc("session_cache_misses_total", "Lecturas sin hit", labels, nil),
	})
}

func (c *cacheCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.keysDesc
	ch <- c.hitsDesc
	ch <- c.missesDesc
}

func (c *cacheCollector) Collect(ch chan<- prometheus.Metric) {
	if c.c == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), cacheStatsTimeout)
	defer cancel()
	st, err := c.c.Stats(ctx)
	if err != nil {
		// backend caído: el scrape sigue, /readyz lo reporta
		return
	}
	ch <- prometheus.MustNewConstMetric(c.keysDesc, prometheus.GaugeValue, float64(st.Keys), st.Driver)
	ch <- prometheus.MustNewConstMetric(c.hitsDesc, prometheus.CounterValue, float64(st.Hits), st.Driver)
	ch <- prometheus.MustNewConstMetric(c.missesDesc, prometheus.CounterValue, float64(st.Misses), st.Driver)
}
