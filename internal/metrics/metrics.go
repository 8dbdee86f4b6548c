// Package metrics implements the Prometheus side of the generator and
// storage metric hooks and owns the process registry served at /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Registry holds every collector the server exposes.
type Registry struct {
	reg *prometheus.Registry

	idsIssued        prometheus.Counter
	clockRegressions prometheus.Counter
	sequenceWaits    prometheus.Counter
	sequenceWaitSecs prometheus.Histogram
	nodeID           prometheus.Gauge

	storeReads   prometheus.Histogram
	storeWrites  prometheus.Histogram
	storeCommits prometheus.Histogram
}

// NewRegistry builds the registry with Go runtime/process collectors plus
// the application series.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	r := &Registry{
		reg: reg,
		idsIssued: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "kw_ids_issued_total",
			Help: "IDs issued by this replica's generator",
		}),
		clockRegressions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "kw_id_clock_regressions_total",
			Help: "ID generations refused because the clock moved backwards",
		}),
		sequenceWaits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "kw_id_sequence_waits_total",
			Help: "Times the per-millisecond sequence space was exhausted",
		}),
		sequenceWaitSecs: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "kw_id_sequence_wait_seconds",
			Help:    "Time spent waiting for the next millisecond window",
			Buckets: prometheus.ExponentialBuckets(1e-5, 4, 8),
		}),
		nodeID: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "kw_id_node_id",
			Help: "Generator node ID fixed at startup",
		}),
		storeReads: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "kw_store_read_seconds",
			Help:    "Pebble point-read latency",
			Buckets: prometheus.ExponentialBuckets(1e-5, 4, 8),
		}),
		storeWrites: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "kw_store_write_seconds",
			Help:    "Pebble point-write latency",
			Buckets: prometheus.ExponentialBuckets(1e-5, 4, 8),
		}),
		storeCommits: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "kw_store_batch_commit_seconds",
			Help:    "Pebble batch commit latency",
			Buckets: prometheus.ExponentialBuckets(1e-5, 4, 8),
		}),
	}
	reg.MustRegister(
		r.idsIssued, r.clockRegressions, r.sequenceWaits, r.sequenceWaitSecs,
		r.nodeID, r.storeReads, r.storeWrites, r.storeCommits,
	)
	return r
}

// Prometheus exposes the underlying registry for the HTTP handler.
func (r *Registry) Prometheus() *prometheus.Registry { return r.reg }

// SetNodeID records the replica's node ID.
func (r *Registry) SetNodeID(id int64) { r.nodeID.Set(float64(id)) }

// GeneratorHook returns the snowflake.MetricsHook implementation.
func (r *Registry) GeneratorHook() *GeneratorHook { return &GeneratorHook{r: r} }

// StorageHook returns the pebblestore.MetricsHook implementation.
func (r *Registry) StorageHook() *StorageHook { return &StorageHook{r: r} }

// GeneratorHook feeds generator observations into Prometheus.
type GeneratorHook struct{ r *Registry }

func (h *GeneratorHook) ObserveIssue() { h.r.idsIssued.Inc() }

func (h *GeneratorHook) ObserveSequenceWait(waited time.Duration) {
	h.r.sequenceWaits.Inc()
	h.r.sequenceWaitSecs.Observe(waited.Seconds())
}

func (h *GeneratorHook) ObserveClockRegression(time.Duration) {
	h.r.clockRegressions.Inc()
}

// StorageHook feeds store observations into Prometheus.
type StorageHook struct{ r *Registry }

func (h *StorageHook) ObserveWrite(elapsed time.Duration, _ int) {
	h.r.storeWrites.Observe(elapsed.Seconds())
}

func (h *StorageHook) ObserveRead(elapsed time.Duration, _ int) {
	h.r.storeReads.Observe(elapsed.Seconds())
}

func (h *StorageHook) ObserveBatchCommit(elapsed time.Duration, _ int, _ int) {
	h.r.storeCommits.Observe(elapsed.Seconds())
}
