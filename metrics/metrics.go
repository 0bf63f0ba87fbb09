package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sloka", Name: "http_requests_total", Help: "Handled HTTP requests",
	}, []string{"method", "route", "status"})
	HTTPLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "sloka", Name: "http_request_seconds", Help: "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})
	LoginAttempts = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sloka", Name: "login_attempts_total", Help: "Login attempts by principal kind and outcome",
	}, []string{"kind", "outcome"})
	BlobUploads = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sloka", Name: "blob_uploads_total", Help: "Blob storage uploads by outcome",
	}, []string{"outcome"})
	DBPing = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "sloka", Name: "db_ping_seconds", Help: "DB ping latency",
		Buckets: prometheus.DefBuckets,
	})
)

func init() {
	prometheus.MustRegister(HTTPRequests, HTTPLatency, LoginAttempts, BlobUploads, DBPing)
}

// RegisterSessionGauge exports the live session registry size. Call once at startup.
func RegisterSessionGauge(size func() int) {
	prometheus.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: "sloka", Name: "active_sessions", Help: "Sessions currently tracked by the registry",
	}, func() float64 { return float64(size()) }))
}

func Handler() http.Handler { return promhttp.Handler() }

func ObserveRequest(method, route string, status int, d time.Duration) {
	HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPLatency.WithLabelValues(method, route).Observe(d.Seconds())
}

func ObserveLogin(kind, outcome string) { LoginAttempts.WithLabelValues(kind, outcome).Inc() }

func ObserveBlobUpload(ok bool) {
	if ok {
		BlobUploads.WithLabelValues("ok").Inc()
		return
	}
	BlobUploads.WithLabelValues("failed").Inc()
}

func ObserveDBPing(d time.Duration) { DBPing.Observe(d.Seconds()) }
