package clock

import (
	"errors"
	"testing"
	"time"

	logpkg "github.com/ZeroFairy/kuenyawz-api/pkg/log"
)

func testLogger() logpkg.Logger {
	return logpkg.NewLogger(logpkg.WithOutput(logpkg.NullOutput{}))
}

func TestVerifyStartupWithinBound(t *testing.T) {
	orig := queryNTP
	t.Cleanup(func() { queryNTP = orig })
	queryNTP = func(string) (time.Duration, error) { return 120 * time.Millisecond, nil }

	if err := VerifyStartup("pool.ntp.org", 500*time.Millisecond, testLogger()); err != nil {
		t.Fatalf("VerifyStartup: %v", err)
	}
}

func TestVerifyStartupExceedsBound(t *testing.T) {
	orig := queryNTP
	t.Cleanup(func() { queryNTP = orig })
	// Negative offsets count by magnitude.
	queryNTP = func(string) (time.Duration, error) { return -800 * time.Millisecond, nil }

	if err := VerifyStartup("pool.ntp.org", 500*time.Millisecond, testLogger()); err == nil {
		t.Fatalf("expected error for excessive offset")
	}
}

func TestVerifyStartupQueryError(t *testing.T) {
	orig := queryNTP
	t.Cleanup(func() { queryNTP = orig })
	queryNTP = func(string) (time.Duration, error) { return 0, errors.New("unreachable") }

	if err := VerifyStartup("pool.ntp.org", 500*time.Millisecond, testLogger()); err == nil {
		t.Fatalf("expected error when server unreachable")
	}
}

func TestCheckOffsetRequiresServer(t *testing.T) {
	if _, err := CheckOffset(""); err == nil {
		t.Fatalf("expected error for empty server")
	}
}
