package middleware

import (
	"strconv"
	"time"

	"github.com/ariebrainware/appointment-manager/util"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// HTTPMetrics exposes request counters and latency histograms for the store.
type HTTPMetrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec

	geoipHits    prometheus.CounterFunc
	geoipMisses  prometheus.CounterFunc
	geoipEntries prometheus.GaugeFunc
}

// NewHTTPMetrics registers the store's HTTP metrics with reg, or with the
// default registerer when reg is nil.
func NewHTTPMetrics(reg prometheus.Registerer) *HTTPMetrics {
	m := &HTTPMetrics{
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "appointments",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests handled by the appointment store",
		}, []string{"method", "route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "appointments",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Latency of HTTP requests handled by the appointment store",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.requestsTotal, m.requestDuration)
	m.registerGeoIPCache(reg)
	return m
}

// registerGeoIPCache reports the audit location cache on every scrape.
func (m *HTTPMetrics) registerGeoIPCache(reg prometheus.Registerer) {
	m.geoipHits = prometheus.NewCounterFunc(prometheus.CounterOpts{
		Namespace: "appointments",
		Subsystem: "geoip",
		Name:      "cache_hits_total",
		Help:      "GeoIP lookups answered from the location cache",
	}, func() float64 {
		hits, _, _ := util.GetGeoIPCacheMetrics()
		return float64(hits)
	})
	m.geoipMisses = prometheus.NewCounterFunc(prometheus.CounterOpts{
		Namespace: "appointments",
		Subsystem: "geoip",
		Name:      "cache_misses_total",
		Help:      "GeoIP lookups that went to the database",
	}, func() float64 {
		_, misses, _ := util.GetGeoIPCacheMetrics()
		return float64(misses)
	})
	m.geoipEntries = prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: "appointments",
		Subsystem: "geoip",
		Name:      "cache_entries",
		Help:      "Addresses currently held in the location cache",
	}, func() float64 {
		_, _, size := util.GetGeoIPCacheMetrics()
		return float64(size)
	})
	reg.MustRegister(m.geoipHits, m.geoipMisses, m.geoipEntries)
}

// Middleware observes every request passing through the router.
func (m *HTTPMetrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.requestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.requestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}
