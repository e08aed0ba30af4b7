package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "multicall",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests.",
		},
		[]string{"node", "method", "path", "status"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "multicall",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"node", "method", "path", "status"},
	)
	invocations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "multicall",
			Subsystem: "contract",
			Name:      "invocations_total",
			Help:      "Entry point invocations by outcome.",
		},
		[]string{"node", "entry", "outcome"},
	)
	invocationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "multicall",
			Subsystem: "contract",
			Name:      "invocation_duration_seconds",
			Help:      "Entry point invocation duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"node", "entry", "outcome"},
	)
	subCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "multicall",
			Subsystem: "contract",
			Name:      "sub_calls_total",
			Help:      "Sub-calls completed inside invocations.",
		},
		[]string{"node", "entry"},
	)
	responseBytes = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "multicall",
			Subsystem: "contract",
			Name:      "response_bytes",
			Help:      "Encoded response size of successful invocations.",
			Buckets:   prometheus.ExponentialBuckets(16, 4, 10),
		},
		[]string{"node", "entry"},
	)
	gasUsed = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "multicall",
			Subsystem: "host",
			Name:      "gas_used",
			Help:      "Gas consumed per invocation.",
			Buckets:   prometheus.ExponentialBuckets(1000, 4, 10),
		},
		[]string{"node", "entry", "outcome"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			httpRequests, httpDuration,
			invocations, invocationDuration, subCalls, responseBytes, gasUsed,
		)
	})
}

func RecordHTTPRequest(node, method, path string, status int, duration time.Duration) {
	RegisterMetrics()
	statusLabel := strconv.Itoa(status)
	httpRequests.WithLabelValues(node, method, path, statusLabel).Inc()
	httpDuration.WithLabelValues(node, method, path, statusLabel).Observe(duration.Seconds())
}

// Invocation summarizes one entry point run for metrics.
type Invocation struct {
	Entry         string
	Outcome       string
	Calls         int
	ResponseBytes int
	GasUsed       uint64
	Duration      time.Duration
}

func RecordInvocation(node string, inv Invocation) {
	RegisterMetrics()
	invocations.WithLabelValues(node, inv.Entry, inv.Outcome).Inc()
	invocationDuration.WithLabelValues(node, inv.Entry, inv.Outcome).Observe(inv.Duration.Seconds())
	gasUsed.WithLabelValues(node, inv.Entry, inv.Outcome).Observe(float64(inv.GasUsed))
	subCalls.WithLabelValues(node, inv.Entry).Add(float64(inv.Calls))
	if inv.Outcome == OutcomeOK {
		responseBytes.WithLabelValues(node, inv.Entry).Observe(float64(inv.ResponseBytes))
	}
}

// OutcomeOK labels a successful invocation; failures use the error kind.
const OutcomeOK = "ok"
