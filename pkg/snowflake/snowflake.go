package snowflake

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"
)

const (
	// Epoch is 2024-01-01T00:00:00Z in Unix milliseconds. Timestamps are
	// stored relative to it, giving the 41-bit field ~69 years of headroom.
	Epoch int64 = 1704067200000

	nodeIDBits   = 10
	sequenceBits = 12

	// MaxNodeID is the largest valid node ID (1023).
	MaxNodeID = -1 ^ (-1 << nodeIDBits)
	// MaxSequence is the largest per-millisecond sequence value (4095).
	MaxSequence = -1 ^ (-1 << sequenceBits)

	timestampShift = nodeIDBits + sequenceBits
	nodeIDShift    = sequenceBits
)

// ConfigError reports an invalid generator configuration. It is returned
// from New and is fatal to generator construction.
type ConfigError struct {
	msg string
}

func (e *ConfigError) Error() string { return e.msg }

// ErrNodeIDRange is the ConfigError returned when the node ID is outside
// [0, MaxNodeID].
var ErrNodeIDRange = &ConfigError{msg: fmt.Sprintf("snowflake: node id must be in [0, %d]", MaxNodeID)}

// ClockRegressionError reports that the wall clock moved backward past the
// last serviced millisecond. The generator refuses to issue an ID because a
// reused timestamp could collide with one already handed out.
type ClockRegressionError struct {
	// Behind is how far the observed clock lags the last serviced window.
	Behind time.Duration
}

func (e *ClockRegressionError) Error() string {
	return fmt.Sprintf("snowflake: clock moved backwards by %v", e.Behind)
}

// IsClockRegression reports whether err is (or wraps) a ClockRegressionError.
func IsClockRegression(err error) bool {
	var cre *ClockRegressionError
	return errors.As(err, &cre)
}

// Clock supplies wall-clock milliseconds since the Unix epoch. It is an
// injected capability so regression and rollover behavior can be tested
// without real-time waits.
type Clock interface {
	NowMillis() int64
}

// ClockFunc adapts a function to the Clock interface.
type ClockFunc func() int64

func (f ClockFunc) NowMillis() int64 { return f() }

// wallClock is the production clock.
type wallClock struct{}

func (wallClock) NowMillis() int64 { return time.Now().UnixMilli() }

// MetricsHook observes generator activity. Implementations must be cheap;
// calls happen inside or adjacent to the issue path.
type MetricsHook interface {
	// ObserveIssue is called once per successfully issued ID.
	ObserveIssue()
	// ObserveSequenceWait is called when a millisecond's sequence space was
	// exhausted and the generator had to wait for the next window.
	ObserveSequenceWait(waited time.Duration)
	// ObserveClockRegression is called when Next fails due to a backward
	// clock jump.
	ObserveClockRegression(behind time.Duration)
}

// NoopMetrics is used when no metrics hook is provided.
type NoopMetrics struct{}

func (NoopMetrics) ObserveIssue()                        {}
func (NoopMetrics) ObserveSequenceWait(time.Duration)    {}
func (NoopMetrics) ObserveClockRegression(time.Duration) {}

// Option configures a Generator.
type Option func(*Generator)

// WithClock replaces the wall clock. Intended for tests.
func WithClock(c Clock) Option {
	return func(g *Generator) { g.clock = c }
}

// WithMetrics attaches a metrics hook.
func WithMetrics(m MetricsHook) Option {
	return func(g *Generator) { g.metrics = m }
}

// Generator issues unique, time-sortable 64-bit IDs. One instance is shared
// by arbitrarily many goroutines; construct it once and pass it explicitly.
type Generator struct {
	nodeID  int64
	clock   Clock
	metrics MetricsHook

	mu       sync.Mutex
	lastMs   int64
	sequence int64
}

// New returns a Generator for the given node ID. The node ID must be unique
// among concurrently running instances sharing the identifier space; that
// uniqueness is the deployment's responsibility.
func New(nodeID int64, opts ...Option) (*Generator, error) {
	if nodeID < 0 || nodeID > MaxNodeID {
		return nil, ErrNodeIDRange
	}
	g := &Generator{
		nodeID:  nodeID,
		clock:   wallClock{},
		metrics: NoopMetrics{},
		lastMs:  -1,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// NodeID returns the node ID fixed at construction.
func (g *Generator) NodeID() int64 { return g.nodeID }

// Next returns a new ID. It fails with *ClockRegressionError when the clock
// reports a millisecond earlier than the last one serviced; generator state
// is left untouched in that case so a later call can succeed once the clock
// catches up.
func (g *Generator) Next() (int64, error) {
	g.mu.Lock()

	ms := g.clock.NowMillis() - Epoch
	switch {
	case ms < 0:
		// The clock reads before the custom epoch; packing a negative
		// timestamp would sign-flip the ID.
		behind := time.Duration(-ms) * time.Millisecond
		g.mu.Unlock()
		g.metrics.ObserveClockRegression(behind)
		return 0, &ClockRegressionError{Behind: behind}
	case ms < g.lastMs:
		behind := time.Duration(g.lastMs-ms) * time.Millisecond
		g.mu.Unlock()
		g.metrics.ObserveClockRegression(behind)
		return 0, &ClockRegressionError{Behind: behind}
	case ms == g.lastMs:
		g.sequence++
		if g.sequence > MaxSequence {
			// Sequence space for this millisecond is spent. Spin until the
			// clock advances; the wait is bounded by clock granularity.
			start := time.Now()
			for ms <= g.lastMs {
				runtime.Gosched()
				ms = g.clock.NowMillis() - Epoch
			}
			g.metrics.ObserveSequenceWait(time.Since(start))
			g.sequence = 0
		}
	default:
		g.sequence = 0
	}
	g.lastMs = ms

	id := ms<<timestampShift | g.nodeID<<nodeIDShift | g.sequence
	g.mu.Unlock()

	g.metrics.ObserveIssue()
	return id, nil
}
