package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	attachSteps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "kissctl",
			Subsystem: "attach",
			Name:      "steps_total",
			Help:      "Attach state transitions by step and result.",
		},
		[]string{"step", "result"},
	)
	attachDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "kissctl",
			Subsystem: "attach",
			Name:      "duration_seconds",
			Help:      "Attach sequence duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"result"},
	)
	bridgeBytes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "kissctl",
			Subsystem: "bridge",
			Name:      "bytes_total",
			Help:      "Bytes pumped between the pty and the modem connection.",
		},
		[]string{"direction"},
	)
	bridgeFrames = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "kissctl",
			Subsystem: "bridge",
			Name:      "frames_total",
			Help:      "Complete KISS frames seen between the pty and the modem connection.",
		},
		[]string{"direction"},
	)
	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "kissctl",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests.",
		},
		[]string{"node", "method", "path", "status"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "kissctl",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"node", "method", "path", "status"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(attachSteps, attachDuration, bridgeBytes, bridgeFrames, httpRequests, httpDuration)
	})
}

func resultLabel(ok bool) string {
	if ok {
		return "ok"
	}
	return "error"
}

func RecordAttachStep(step string, ok bool) {
	RegisterMetrics()
	attachSteps.WithLabelValues(step, resultLabel(ok)).Inc()
}

func RecordAttach(ok bool, duration time.Duration) {
	RegisterMetrics()
	attachDuration.WithLabelValues(resultLabel(ok)).Observe(duration.Seconds())
}

func RecordBridgeBytes(direction string, n int) {
	if n <= 0 {
		return
	}
	RegisterMetrics()
	bridgeBytes.WithLabelValues(direction).Add(float64(n))
}

func RecordBridgeFrames(direction string, n int) {
	if n <= 0 {
		return
	}
	RegisterMetrics()
	bridgeFrames.WithLabelValues(direction).Add(float64(n))
}

func RecordHTTPRequest(node, method, path string, status int, duration time.Duration) {
	RegisterMetrics()
	statusLabel := strconv.Itoa(status)
	httpRequests.WithLabelValues(node, method, path, statusLabel).Inc()
	httpDuration.WithLabelValues(node, method, path, statusLabel).Observe(duration.Seconds())
}
