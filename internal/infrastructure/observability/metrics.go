package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	registry            *prometheus.Registry
	CapturesTotal       prometheus.Counter
	ActiveCaptures      prometheus.Gauge
	HopsTotal           prometheus.Counter
	CaptureErrorsTotal  *prometheus.CounterVec
	ResponseBytesTotal  prometheus.Counter
	StoreEvictionsTotal prometheus.Counter
}

func NewMetrics() *Metrics {
	r := prometheus.NewRegistry()
	m := &Metrics{
		registry: r,
		CapturesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "har_capture",
			Name:      "captures_total",
			Help:      "Total capture chains started",
		}),
		ActiveCaptures: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "har_capture",
			Name:      "active_captures",
			Help:      "Number of capture chains in flight",
		}),
		HopsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "har_capture",
			Name:      "hops_total",
			Help:      "Total HTTP exchanges performed across all chains",
		}),
		CaptureErrorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "har_capture",
			Name:      "capture_errors_total",
			Help:      "Total capture errors by code",
		}, []string{"code"}),
		ResponseBytesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "har_capture",
			Name:      "response_bytes_total",
			Help:      "Total response body bytes captured",
		}),
		StoreEvictionsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "har_capture",
			Name:      "store_evictions_total",
			Help:      "Total capture records evicted from the store",
		}),
	}
	r.MustRegister(m.CapturesTotal, m.ActiveCaptures, m.HopsTotal, m.CaptureErrorsTotal, m.ResponseBytesTotal, m.StoreEvictionsTotal)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry { return m.registry }
