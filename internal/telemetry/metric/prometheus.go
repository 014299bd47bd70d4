package metric

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const namespace = "solbox"

// Result label values.
const (
	ResultOK       = "ok"
	ResultRejected = "rejected"
	ResultFailed   = "failed"
)

// Registry holds all application metrics.
type Registry struct {
	reg         *prometheus.Registry
	processOnce sync.Once
	process     bool

	// Executions by instruction kind and result.
	Instructions *prometheus.CounterVec
	// Rejections by error code.
	Errors *prometheus.CounterVec
	// Payload size of written messages.
	MessageBytes prometheus.Histogram
	// Slots in use after each successful write or delete.
	SlotsInUse prometheus.Histogram
	// Wall time of Execute, commit included.
	ExecuteDuration *prometheus.HistogramVec
}

// NewRegistry creates the metric set on a fresh registry.
func NewRegistry() *Registry {
	r := &Registry{
		reg: prometheus.NewRegistry(),
		Instructions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "instructions_total",
			Help:      "Executed instructions by kind and result.",
		}, []string{"kind", "result"}),
		Errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "Rejected instructions by error code.",
		}, []string{"code", "name"}),
		MessageBytes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "message_bytes",
			Help:      "Payload size of written messages.",
			Buckets:   prometheus.ExponentialBuckets(16, 4, 6),
		}),
		SlotsInUse: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "mailbox_slots_in_use",
			Help:      "Occupied slots of a mailbox after a write or delete.",
			Buckets:   prometheus.LinearBuckets(0, 5, 5),
		}),
		ExecuteDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "execute_duration_seconds",
			Help:      "Execution latency by instruction kind.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"kind"}),
	}

	r.reg.MustRegister(
		r.Instructions,
		r.Errors,
		r.MessageBytes,
		r.SlotsInUse,
		r.ExecuteDuration,
	)
	return r
}

// WithProcessMetrics adds the Go runtime and process collectors. Later
// calls are no-ops.
func (r *Registry) WithProcessMetrics() *Registry {
	r.processOnce.Do(func() {
		r.reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		r.process = true
	})
	return r
}

// Registerer exposes the underlying registry for components that add
// their own collectors (e.g. the badger store).
func (r *Registry) Registerer() prometheus.Registerer {
	return r.reg
}

// Gatherer exposes the underlying registry for reading.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.reg
}

// ObserveExecution records one Execute call. code is ignored unless
// result is ResultRejected.
func (r *Registry) ObserveExecution(kind, result string, code uint32, errName string, elapsed time.Duration) {
	r.Instructions.WithLabelValues(kind, result).Inc()
	r.ExecuteDuration.WithLabelValues(kind).Observe(elapsed.Seconds())
	if result == ResultRejected {
		r.Errors.WithLabelValues(strconv.FormatUint(uint64(code), 10), errName).Inc()
	}
}
