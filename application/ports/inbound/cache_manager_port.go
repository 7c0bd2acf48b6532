package inbound

import (
	"context"
	"time"

	"github.com/PranavReddyGaddam/GitBridge/application/ports/outbound"
	"github.com/PranavReddyGaddam/GitBridge/domain"
)

// CacheManagerPort owns the lifecycle of cache records and their artifacts.
type CacheManagerPort interface {
	// Lookup returns the record for key or domain.ErrCacheMiss. Corrupt
	// records are reported as misses.
	Lookup(ctx context.Context, key domain.CacheKey) (*domain.CacheEntry, error)

	// Exists is true only when the record is present and all three artifact
	// refs independently resolve on the backend.
	Exists(ctx context.Context, key domain.CacheKey) (bool, error)

	// Create persists a new record. A differing existing record for the same
	// key is replaced last-writer-wins, with a warning.
	Create(ctx context.Context, entry *domain.CacheEntry) error

	// RecordAccess bumps access_count and last_accessed. Read-modify-write,
	// last writer wins; the fields are informational only.
	RecordAccess(ctx context.Context, key domain.CacheKey) error

	// List returns up to limit entries, most recently accessed first.
	List(ctx context.Context, limit int) ([]domain.CacheEntry, error)

	// Evict removes every entry created before the cutoff together with its
	// artifacts and segment files. One entry failing does not stop the sweep.
	// Returns the number of entries removed.
	Evict(ctx context.Context, olderThan time.Time) (int, error)

	// Migrate copies every record and its artifacts to target, preserving
	// cache keys and rewriting refs. Source data is left untouched. Returns
	// the number of entries copied.
	Migrate(ctx context.Context, target outbound.StorageBackendPort) (int, error)

	// Stats summarizes the record store.
	Stats(ctx context.Context) (*CacheStats, error)
}

type CacheStats struct {
	CachedPodcasts int    `json:"cached_podcasts"`
	StorageType    string `json:"storage_type"`
}
