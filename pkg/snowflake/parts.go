package snowflake

import "time"

// Parts is the decomposed view of an ID.
type Parts struct {
	// TimestampMs is milliseconds since Epoch.
	TimestampMs int64
	NodeID      int64
	Sequence    int64
}

// Decompose splits an ID into its timestamp, node, and sequence fields.
func Decompose(id int64) Parts {
	return Parts{
		TimestampMs: id >> timestampShift,
		NodeID:      (id >> nodeIDShift) & MaxNodeID,
		Sequence:    id & MaxSequence,
	}
}

// Time returns the ID's timestamp as wall-clock time.
func (p Parts) Time() time.Time {
	return time.UnixMilli(Epoch + p.TimestampMs).UTC()
}
