package config

import (
	"fmt"
	"os"
	"strconv"
)

// hostname is swappable for tests.
var hostname = os.Hostname

// ResolveNodeID determines this replica's generator node ID. Precedence:
// explicit config value, then the hostname's trailing ordinal when
// NodeIDFromHostname is set. Range validation happens in the generator's
// constructor; this only answers "which value was configured".
func ResolveNodeID(cfg Config) (int64, error) {
	if cfg.NodeID >= 0 {
		return cfg.NodeID, nil
	}
	if cfg.NodeIDFromHostname {
		host, err := hostname()
		if err != nil {
			return 0, fmt.Errorf("config: node id from hostname: %w", err)
		}
		ord, ok := trailingOrdinal(host)
		if !ok {
			return 0, fmt.Errorf("config: hostname %q has no trailing ordinal", host)
		}
		return ord, nil
	}
	return 0, fmt.Errorf("config: node id not configured; set nodeId, KW_NODE_ID, or nodeIdFromHostname")
}

// trailingOrdinal extracts the decimal suffix of a StatefulSet-style
// hostname ("kuenyawz-api-12" -> 12).
func trailingOrdinal(host string) (int64, bool) {
	end := len(host)
	start := end
	for start > 0 && host[start-1] >= '0' && host[start-1] <= '9' {
		start--
	}
	if start == end {
		return 0, false
	}
	n, err := strconv.ParseInt(host[start:end], 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
