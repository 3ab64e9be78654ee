package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"dreamart/internal/fileutil"
	"dreamart/internal/logging"
)

// lockRetryDelay is how often a blocked mutation re-attempts the registry lock.
const lockRetryDelay = 50 * time.Millisecond

// Record holds the artifact paths and listing metadata for one slug. Paths
// are absolute so downstream consumers are independent of the working
// directory. Zero-valued fields are omitted from the JSON document.
type Record struct {
	Image           string   `json:"image,omitempty"`
	Analysis        string   `json:"analysis,omitempty"`
	Auxiliary       string   `json:"auxiliary,omitempty"`
	Preview         string   `json:"preview,omitempty"`
	Mockups         []string `json:"mockups,omitempty"`
	Title           string   `json:"title,omitempty"`
	Description     string   `json:"description,omitempty"`
	PrimaryColour   string   `json:"primary_colour,omitempty"`
	SecondaryColour string   `json:"secondary_colour,omitempty"`
	Status          string   `json:"status,omitempty"`
}

// Registry is the durable slug -> artifact-path index, persisted as a single
// JSON object. Every mutation is a flock-guarded read-modify-write with an
// atomic temp-then-rename save, so the file is never observed partially
// written and concurrent processes cannot interleave updates.
type Registry struct {
	path   string
	logger *slog.Logger

	mu sync.Mutex
}

// New binds a registry to its backing file. A nil logger is replaced with a
// no-op logger.
func New(path string, logger *slog.Logger) *Registry {
	return &Registry{
		path:   path,
		logger: logging.NewComponentLogger(logger, "registry"),
	}
}

// Path returns the backing file location.
func (r *Registry) Path() string {
	return r.path
}

// Load reads the full index. A missing file is an empty index; an unreadable
// one is logged as a warning and also treated as empty, never fatal.
func (r *Registry) Load() map[string]Record {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if !os.IsNotExist(err) {
			r.logger.Warn("failed reading registry, treating as empty",
				logging.String("path", r.path),
				logging.Error(err),
				logging.String(logging.FieldEventType, "registry_unreadable"),
				logging.String(logging.FieldErrorHint, "inspect the registry file before the next write replaces it"),
			)
		}
		return map[string]Record{}
	}
	var index map[string]Record
	if err := json.Unmarshal(data, &index); err != nil {
		r.logger.Warn("corrupt registry, treating as empty",
			logging.String("path", r.path),
			logging.Error(err),
			logging.String(logging.FieldEventType, "registry_corrupt"),
			logging.String(logging.FieldErrorHint, "recover the file from backup; the next write starts a fresh index"),
		)
		return map[string]Record{}
	}
	if index == nil {
		index = map[string]Record{}
	}
	return index
}

// Get returns the record for slug, if present.
func (r *Registry) Get(slug string) (Record, bool) {
	record, ok := r.Load()[slug]
	return record, ok
}

// Slugs returns all registered slugs in sorted order.
func (r *Registry) Slugs() []string {
	index := r.Load()
	slugs := make([]string, 0, len(index))
	for slug := range index {
		slugs = append(slugs, slug)
	}
	sort.Strings(slugs)
	return slugs
}

// Upsert merges the record for slug into the index without discarding other
// slugs' records. Mutate applies on top of any existing record so a
// transition can update only the fields it owns.
func (r *Registry) Upsert(ctx context.Context, slug string, mutate func(*Record)) error {
	return r.update(ctx, func(index map[string]Record) {
		record := index[slug]
		mutate(&record)
		index[slug] = record
	})
}

// Remove purges the slug's entry. Removing an absent slug is a no-op.
func (r *Registry) Remove(ctx context.Context, slug string) error {
	return r.update(ctx, func(index map[string]Record) {
		delete(index, slug)
	})
}

func (r *Registry) update(ctx context.Context, apply func(map[string]Record)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	lock := flock.New(r.path + ".lock")
	locked, err := lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return fmt.Errorf("lock registry: %w", err)
	}
	if !locked {
		return fmt.Errorf("lock registry: lock not acquired")
	}
	defer func() {
		_ = lock.Unlock()
	}()

	index := r.Load()
	apply(index)
	if err := fileutil.WriteJSONAtomic(r.path, index); err != nil {
		return fmt.Errorf("save registry: %w", err)
	}
	return nil
}
