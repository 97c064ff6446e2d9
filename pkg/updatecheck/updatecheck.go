// Package updatecheck throttles background update checks with a
// timestamp file under the cache directory. The notifier it backs is
// fire-and-forget: nothing here may fail a caller.
package updatecheck

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/arthur-debert/homelink/pkg/clock"
	"github.com/arthur-debert/homelink/pkg/filesystem"
	"github.com/arthur-debert/homelink/pkg/gitx"
	"github.com/arthur-debert/homelink/pkg/logging"
	"github.com/rs/zerolog"
)

// DefaultInterval is how often the background notifier is allowed to
// actually hit the network.
const DefaultInterval = 24 * time.Hour

// Throttle gates checks on a persisted last-check timestamp.
type Throttle struct {
	fs        filesystem.FS
	clock     clock.Clock
	stampPath string
	interval  time.Duration
	logger    zerolog.Logger
}

// NewThrottle creates a Throttle persisting to stampPath. A zero
// interval means DefaultInterval.
func NewThrottle(fs filesystem.FS, clk clock.Clock, stampPath string, interval time.Duration) *Throttle {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Throttle{
		fs:        fs,
		clock:     clk,
		stampPath: stampPath,
		interval:  interval,
		logger:    logging.GetLogger("updatecheck"),
	}
}

// ShouldCheck reports whether enough time has passed since the last
// recorded check. A missing or unreadable stamp file means yes.
func (t *Throttle) ShouldCheck() bool {
	content, err := t.fs.ReadFile(t.stampPath)
	if err != nil {
		return true
	}
	last, err := time.Parse(time.RFC3339, strings.TrimSpace(string(content)))
	if err != nil {
		t.logger.Debug().Err(err).Str("path", t.stampPath).Msg("unreadable stamp file, checking anyway")
		return true
	}
	return t.clock.Now().Sub(last) >= t.interval
}

// Touch records now as the last check time, creating the cache
// directory when needed.
func (t *Throttle) Touch() error {
	if err := t.fs.MkdirAll(filepath.Dir(t.stampPath), 0755); err != nil {
		return err
	}
	stamp := t.clock.Now().Format(time.RFC3339) + "\n"
	return t.fs.WriteFile(t.stampPath, []byte(stamp), 0644)
}

// Check performs a throttled update check against the repo. It returns
// true when the upstream has commits the working copy lacks. Every
// failure path returns false with no error: the notifier's outcome must
// never affect the calling shell.
func (t *Throttle) Check(repo *gitx.Repo) bool {
	if !t.ShouldCheck() {
		t.logger.Debug().Msg("throttled, skipping update check")
		return false
	}
	if !repo.Available() {
		return false
	}

	// Record the attempt before the network call so a failing remote
	// does not turn into a check on every shell startup.
	if err := t.Touch(); err != nil {
		t.logger.Debug().Err(err).Msg("could not write stamp file")
	}

	if err := repo.Fetch(); err != nil {
		t.logger.Debug().Err(err).Msg("background fetch failed")
		return false
	}
	behind, err := repo.Behind()
	if err != nil {
		t.logger.Debug().Err(err).Msg("revision comparison failed")
		return false
	}
	return behind
}
