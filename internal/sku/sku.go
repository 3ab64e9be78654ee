// Package sku assigns and recognizes sequential stock-keeping identifiers.
//
// A SKU has the form PREFIX-00042. The allocator persists only the last
// issued integer in a small JSON tracker file; identifiers are monotonically
// assigned and never reused, even after an artwork is deleted.
package sku

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"dreamart/internal/fileutil"
	"dreamart/internal/logging"
)

// lockRetryDelay is how often a blocked Next call re-attempts the tracker lock.
const lockRetryDelay = 50 * time.Millisecond

// tracker is the persisted shape of the tracker file.
type tracker struct {
	Last int64 `json:"last"`
}

// Allocator issues sequential SKUs backed by a tracker file.
//
// Each Next call takes a lock file beside the tracker for the duration of
// the read-modify-write cycle, which makes the single-writer assumption
// explicit across processes. Within a process the mutex serializes callers.
// A reissued SKU is still possible if the tracker file itself is deleted
// between calls; that is an accepted limitation of the design, not a bug.
type Allocator struct {
	path   string
	prefix string
	digits int
	logger *slog.Logger

	mu sync.Mutex
}

// NewAllocator creates an allocator for the given tracker path, prefix, and
// digit width. A nil logger is replaced with a no-op logger.
func NewAllocator(path, prefix string, digits int, logger *slog.Logger) *Allocator {
	return &Allocator{
		path:   path,
		prefix: prefix,
		digits: digits,
		logger: logging.NewComponentLogger(logger, "sku"),
	}
}

// Next returns the next sequential SKU and updates the tracker. An absent or
// unreadable tracker is treated as zero and logged, never surfaced as an
// error: the sequence restarts upward from whatever state survives.
func (a *Allocator) Next(ctx context.Context) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	lock := flock.New(a.path + ".lock")
	locked, err := lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return "", fmt.Errorf("lock sku tracker: %w", err)
	}
	if !locked {
		return "", fmt.Errorf("lock sku tracker: lock not acquired")
	}
	defer func() {
		_ = lock.Unlock()
	}()

	last := a.readLast()
	next := last + 1
	if err := fileutil.WriteJSONAtomic(a.path, tracker{Last: next}); err != nil {
		return "", fmt.Errorf("write sku tracker: %w", err)
	}

	id := a.Format(next)
	a.logger.Info("assigned new SKU",
		logging.String(logging.FieldSKU, id),
	)
	return id, nil
}

// Format renders a sequence number in this allocator's SKU form.
func (a *Allocator) Format(n int64) string {
	return fmt.Sprintf("%s-%0*d", a.prefix, a.digits, n)
}

func (a *Allocator) readLast() int64 {
	data, err := os.ReadFile(a.path)
	if err != nil {
		if !os.IsNotExist(err) {
			a.logger.Warn("failed reading SKU tracker, treating as zero",
				logging.String("path", a.path),
				logging.Error(err),
				logging.String(logging.FieldEventType, "sku_tracker_unreadable"),
				logging.String(logging.FieldErrorHint, "inspect the tracker file; the sequence continues from zero"),
			)
		}
		return 0
	}
	var state tracker
	if err := json.Unmarshal(data, &state); err != nil || state.Last < 0 {
		a.logger.Warn("corrupt SKU tracker, treating as zero",
			logging.String("path", a.path),
			logging.Error(err),
			logging.String(logging.FieldEventType, "sku_tracker_corrupt"),
			logging.String(logging.FieldErrorHint, "a previously issued SKU may be reassigned"),
		)
		return 0
	}
	return state.Last
}

// Pattern compiles the SKU recognition pattern for a prefix. The digit run
// is open-ended so identifiers survive a later widening of the counter.
func Pattern(prefix string) *regexp.Regexp {
	return regexp.MustCompile(regexp.QuoteMeta(prefix) + `-\d{3,}`)
}

// Extract finds the first SKU-shaped substring in name. It is how the
// validator and repair tooling recover a SKU from a filename or folder name
// without consulting the registry.
func Extract(pattern *regexp.Regexp, name string) (string, bool) {
	match := pattern.FindString(name)
	return match, match != ""
}
