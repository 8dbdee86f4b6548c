// Package clock provides the startup clock sanity check. The ID generator
// assumes the wall clock is roughly NTP-disciplined; a replica whose clock
// is far off would mint IDs that sort badly against the rest of the fleet,
// so the server can refuse to start until the clock is fixed.
package clock

import (
	"fmt"
	"time"

	"github.com/beevik/ntp"

	logpkg "github.com/ZeroFairy/kuenyawz-api/pkg/log"
)

// queryNTP is swappable for tests.
var queryNTP = func(server string) (time.Duration, error) {
	resp, err := ntp.Query(server)
	if err != nil {
		return 0, err
	}
	if err := resp.Validate(); err != nil {
		return 0, err
	}
	return resp.ClockOffset, nil
}

// CheckOffset queries the NTP server once and returns the measured local
// clock offset. An unreachable server is an error; deciding whether that is
// fatal is the caller's policy.
func CheckOffset(server string) (time.Duration, error) {
	if server == "" {
		return 0, fmt.Errorf("clock: ntp server not configured")
	}
	return queryNTP(server)
}

// VerifyStartup runs the configured check and fails when the offset exceeds
// maxOffset. This runs once at process start, never on the ID issue path.
func VerifyStartup(server string, maxOffset time.Duration, logger logpkg.Logger) error {
	offset, err := CheckOffset(server)
	if err != nil {
		return fmt.Errorf("clock: ntp query %s: %w", server, err)
	}
	logger.Info("clock offset measured",
		logpkg.Str("ntp_server", server),
		logpkg.Dur("offset", offset),
		logpkg.Dur("max_offset", maxOffset),
	)
	if offset < 0 {
		offset = -offset
	}
	if maxOffset > 0 && offset > maxOffset {
		return fmt.Errorf("clock: offset %v exceeds allowed %v; refusing to generate ids on a skewed clock", offset, maxOffset)
	}
	return nil
}
