// Package snowflake provides the 64-bit primary-key generator used for every
// persisted entity.
//
// # Format
//
// An ID packs three fields most-significant-first:
//
//	| 41 bits timestamp (ms since 2024-01-01 UTC) | 10 bits node | 12 bits sequence |
//
// IDs from one generator are strictly increasing in issuance order. Across
// generators with distinct node IDs, the disjoint node field guarantees
// uniqueness even when clocks disagree; cross-node ordering is only as good
// as clock skew.
//
// # Clock behavior
//
// The generator never reuses a millisecond it has already serviced. If the
// wall clock moves backward, Next fails with *ClockRegressionError rather
// than fabricating a timestamp; remediation (clock resync) is external. If
// the 4096-value sequence space of one millisecond is exhausted, Next spins
// until the clock advances. The clock is an injected capability so both
// cases are deterministically testable.
//
// Usage
//
//	g, err := snowflake.New(nodeID)
//	if err != nil { ... }
//	id, err := g.Next()
package snowflake
