package snowflake

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// fakeClock returns Epoch+at.Load() milliseconds.
func fakeClock(at *atomic.Int64) Clock {
	return ClockFunc(func() int64 { return Epoch + at.Load() })
}

func TestNodeIDBounds(t *testing.T) {
	for _, bad := range []int64{-1, MaxNodeID + 1} {
		if _, err := New(bad); err != ErrNodeIDRange {
			t.Fatalf("New(%d): expected ErrNodeIDRange, got %v", bad, err)
		}
	}
	for _, ok := range []int64{0, MaxNodeID} {
		g, err := New(ok)
		if err != nil {
			t.Fatalf("New(%d): %v", ok, err)
		}
		if g.NodeID() != ok {
			t.Fatalf("NodeID: expected %d, got %d", ok, g.NodeID())
		}
	}
}

func TestUniqueAndMonotonic(t *testing.T) {
	g, err := New(7)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	const n = 10000
	seen := make(map[int64]struct{}, n)
	last := int64(-1)
	for i := 0; i < n; i++ {
		id, err := g.Next()
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if id <= last {
			t.Fatalf("id %d not greater than previous %d", id, last)
		}
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate id %d", id)
		}
		seen[id] = struct{}{}
		last = id
	}
}

func TestBitFieldRoundTrip(t *testing.T) {
	var at atomic.Int64
	at.Store(123456)
	g, err := New(321, WithClock(fakeClock(&at)))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for i := 0; i < 5; i++ {
		id, err := g.Next()
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if id < 0 {
			t.Fatalf("id must be non-negative, got %d", id)
		}
		p := Decompose(id)
		if p.TimestampMs != 123456 {
			t.Fatalf("timestamp: expected 123456, got %d", p.TimestampMs)
		}
		if p.NodeID != 321 {
			t.Fatalf("node: expected 321, got %d", p.NodeID)
		}
		if p.Sequence != int64(i) {
			t.Fatalf("sequence: expected %d, got %d", i, p.Sequence)
		}
		if got := p.Time().UnixMilli(); got != Epoch+123456 {
			t.Fatalf("Time: expected %d, got %d", Epoch+123456, got)
		}
	}
}

func TestCrossInstanceDisjoint(t *testing.T) {
	var at atomic.Int64
	at.Store(500)
	a, _ := New(1, WithClock(fakeClock(&at)))
	b, _ := New(2, WithClock(fakeClock(&at)))

	seen := make(map[int64]string)
	for i := 0; i < 1000; i++ {
		ida, err := a.Next()
		if err != nil {
			t.Fatalf("a.Next: %v", err)
		}
		idb, err := b.Next()
		if err != nil {
			t.Fatalf("b.Next: %v", err)
		}
		if who, dup := seen[ida]; dup {
			t.Fatalf("id %d already issued by %s", ida, who)
		}
		seen[ida] = "a"
		if who, dup := seen[idb]; dup {
			t.Fatalf("id %d already issued by %s", idb, who)
		}
		seen[idb] = "b"
	}
}

func TestSequenceRollover(t *testing.T) {
	var at atomic.Int64
	at.Store(1000)
	g, err := New(3, WithClock(fakeClock(&at)))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	first, err := g.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	seqs := map[int64]struct{}{Decompose(first).Sequence: {}}
	for i := 1; i < MaxSequence+1; i++ {
		id, err := g.Next()
		if err != nil {
			t.Fatalf("Next #%d: %v", i, err)
		}
		p := Decompose(id)
		if p.TimestampMs != 1000 {
			t.Fatalf("call %d left the millisecond early (ts %d)", i, p.TimestampMs)
		}
		seqs[p.Sequence] = struct{}{}
	}
	if len(seqs) != MaxSequence+1 {
		t.Fatalf("expected %d distinct sequences, got %d", MaxSequence+1, len(seqs))
	}

	// The window is spent; the next call must wait for the clock to advance.
	done := make(chan int64, 1)
	go func() {
		id, err := g.Next()
		if err != nil {
			t.Errorf("rollover Next: %v", err)
		}
		done <- id
	}()
	time.AfterFunc(10*time.Millisecond, func() { at.Store(1001) })

	select {
	case id := <-done:
		p := Decompose(id)
		if p.TimestampMs <= 1000 {
			t.Fatalf("expected advanced timestamp, got %d", p.TimestampMs)
		}
		if p.Sequence != 0 {
			t.Fatalf("expected sequence reset, got %d", p.Sequence)
		}
		if id <= first {
			t.Fatalf("rollover id %d not greater than first %d", id, first)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timeout waiting for next millisecond window")
	}
}

func TestClockRegression(t *testing.T) {
	var at atomic.Int64
	at.Store(2000)
	g, err := New(9, WithClock(fakeClock(&at)))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := g.Next(); err != nil {
		t.Fatalf("Next: %v", err)
	}
	if _, err := g.Next(); err != nil {
		t.Fatalf("Next: %v", err)
	}

	at.Store(1950)
	_, err = g.Next()
	if !IsClockRegression(err) {
		t.Fatalf("expected ClockRegressionError, got %v", err)
	}
	cre := err.(*ClockRegressionError)
	if cre.Behind != 50*time.Millisecond {
		t.Fatalf("expected 50ms regression, got %v", cre.Behind)
	}

	// State must be untouched: once the clock catches up, generation
	// resumes within the same window at the next sequence slot.
	at.Store(2000)
	id, err := g.Next()
	if err != nil {
		t.Fatalf("Next after recovery: %v", err)
	}
	p := Decompose(id)
	if p.TimestampMs != 2000 || p.Sequence != 2 {
		t.Fatalf("expected (2000, 2) after recovery, got (%d, %d)", p.TimestampMs, p.Sequence)
	}
}

func TestClockBeforeEpoch(t *testing.T) {
	// A clock reading before the custom epoch must never pack a negative
	// timestamp into an ID.
	var at atomic.Int64
	at.Store(-1)
	g, err := New(1, WithClock(fakeClock(&at)))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	id, err := g.Next()
	if !IsClockRegression(err) {
		t.Fatalf("expected ClockRegressionError, got id=%d err=%v", id, err)
	}
	cre := err.(*ClockRegressionError)
	if cre.Behind != time.Millisecond {
		t.Fatalf("expected 1ms behind epoch, got %v", cre.Behind)
	}

	// Once the clock reaches the epoch, issuance proceeds and every ID is
	// non-negative.
	at.Store(0)
	id, err = g.Next()
	if err != nil {
		t.Fatalf("Next at epoch: %v", err)
	}
	if id < 0 {
		t.Fatalf("negative id %d", id)
	}
	p := Decompose(id)
	if p.TimestampMs != 0 || p.Sequence != 0 {
		t.Fatalf("expected (0, 0) at epoch, got (%d, %d)", p.TimestampMs, p.Sequence)
	}
}

func TestConcurrentCallers(t *testing.T) {
	g, err := New(42)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	const (
		workers   = 16
		perWorker = 2000
	)
	results := make([][]int64, workers)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			ids := make([]int64, 0, perWorker)
			for i := 0; i < perWorker; i++ {
				id, err := g.Next()
				if err != nil {
					t.Errorf("Next: %v", err)
					return
				}
				ids = append(ids, id)
			}
			results[w] = ids
		}(w)
	}
	wg.Wait()

	seen := make(map[int64]struct{}, workers*perWorker)
	for w, ids := range results {
		last := int64(-1)
		for _, id := range ids {
			// Per-caller issuance order must be strictly increasing.
			if id <= last {
				t.Fatalf("worker %d: id %d not greater than previous %d", w, id, last)
			}
			last = id
			if _, dup := seen[id]; dup {
				t.Fatalf("duplicate id %d", id)
			}
			seen[id] = struct{}{}
		}
	}
	if len(seen) != workers*perWorker {
		t.Fatalf("expected %d ids, got %d", workers*perWorker, len(seen))
	}
}
