package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/PranavReddyGaddam/GitBridge/application/ports/inbound"
	"github.com/PranavReddyGaddam/GitBridge/application/ports/outbound"
	"github.com/PranavReddyGaddam/GitBridge/domain"
)

const cachePrefix = "cache/"
const segmentsPrefix = "segments/"

type cacheEntryManager struct {
	logger      outbound.LoggerPort
	backend     outbound.StorageBackendPort
	storageType string
}

// NewCacheEntryManager owns the cache records stored next to the artifacts
// they describe. backend is the process-wide storage variant.
func NewCacheEntryManager(logger outbound.LoggerPort, backend outbound.StorageBackendPort, storageType string) inbound.CacheManagerPort {
	return &cacheEntryManager{
		logger:      logger,
		backend:     backend,
		storageType: storageType,
	}
}

func (m *cacheEntryManager) recordRef(key domain.CacheKey) string {
	return m.backend.BuildRef("cache", string(key)+".json")
}

func (m *cacheEntryManager) Lookup(ctx context.Context, key domain.CacheKey) (*domain.CacheEntry, error) {
	data, err := m.backend.Get(ctx, m.recordRef(key))
	if errors.Is(err, domain.ErrRefNotFound) {
		return nil, domain.ErrCacheMiss
	}
	if err != nil {
		return nil, err
	}

	var entry domain.CacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		// An unparseable record is a miss, not a hard failure.
		m.logger.WarnWithFields("Cache record corrupt, treating as miss", map[string]interface{}{
			"cache_key": string(key),
			"error":     err.Error(),
		})
		return nil, fmt.Errorf("%w: %w", domain.ErrCacheMiss, domain.ErrCacheRecordCorrupt)
	}
	return &entry, nil
}

func (m *cacheEntryManager) Exists(ctx context.Context, key domain.CacheKey) (bool, error) {
	entry, err := m.Lookup(ctx, key)
	if errors.Is(err, domain.ErrCacheMiss) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	// A record whose artifacts were deleted behind its back is stale and
	// counts as a miss.
	for _, ref := range []string{entry.Files.AudioRef, entry.Files.ScriptRef, entry.Files.MetadataRef} {
		ok, err := m.backend.Exists(ctx, ref)
		if err != nil {
			return false, err
		}
		if !ok {
			m.logger.WarnWithFields("Cache record references missing artifact", map[string]interface{}{
				"cache_key": string(key),
				"ref":       ref,
			})
			return false, nil
		}
	}
	return true, nil
}

func (m *cacheEntryManager) Create(ctx context.Context, entry *domain.CacheEntry) error {
	if existing, err := m.Lookup(ctx, entry.CacheKey); err == nil && existing.CreatedAt != entry.CreatedAt {
		m.logger.WarnWithFields("Replacing existing cache record", map[string]interface{}{
			"cache_key":  string(entry.CacheKey),
			"created_at": existing.CreatedAt,
		})
	}
	return m.save(ctx, entry, m.backend)
}

func (m *cacheEntryManager) save(ctx context.Context, entry *domain.CacheEntry, backend outbound.StorageBackendPort) error {
	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return err
	}
	ref := backend.BuildRef("cache", string(entry.CacheKey)+".json")
	return backend.Put(ctx, ref, data, "application/json")
}

func (m *cacheEntryManager) RecordAccess(ctx context.Context, key domain.CacheKey) error {
	entry, err := m.Lookup(ctx, key)
	if err != nil {
		return err
	}
	entry.LastAccessed = time.Now().UTC()
	entry.AccessCount++
	return m.save(ctx, entry, m.backend)
}

func (m *cacheEntryManager) List(ctx context.Context, limit int) ([]domain.CacheEntry, error) {
	entries, err := m.loadAll(ctx)
	if err != nil {
		return nil, err
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].LastAccessed.After(entries[j].LastAccessed)
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

func (m *cacheEntryManager) loadAll(ctx context.Context) ([]domain.CacheEntry, error) {
	refs, err := m.backend.ListByPrefix(ctx, cachePrefix)
	if err != nil {
		return nil, err
	}

	entries := make([]domain.CacheEntry, 0, len(refs))
	for _, ref := range refs {
		key := keyFromRecordRef(ref)
		if key == "" {
			continue
		}
		entry, err := m.Lookup(ctx, key)
		if err != nil {
			m.logger.WarnWithFields("Skipping unreadable cache record", map[string]interface{}{
				"ref":   ref,
				"error": err.Error(),
			})
			continue
		}
		entries = append(entries, *entry)
	}
	return entries, nil
}

func (m *cacheEntryManager) Evict(ctx context.Context, olderThan time.Time) (int, error) {
	entries, err := m.loadAll(ctx)
	if err != nil {
		return 0, err
	}

	evicted := 0
	for _, entry := range entries {
		if !entry.CreatedAt.Before(olderThan) {
			continue
		}
		if err := m.evictOne(ctx, &entry); err != nil {
			// One broken entry must not stop the sweep.
			m.logger.ErrorWithFields(err, "Failed to evict cache entry", map[string]interface{}{
				"cache_key": string(entry.CacheKey),
			})
			continue
		}
		evicted++
	}
	return evicted, nil
}

func (m *cacheEntryManager) evictOne(ctx context.Context, entry *domain.CacheEntry) error {
	for _, ref := range []string{entry.Files.AudioRef, entry.Files.ScriptRef, entry.Files.MetadataRef} {
		if err := m.backend.Delete(ctx, ref); err != nil {
			m.logger.ErrorWithFields(err, "Failed to delete artifact during eviction", map[string]interface{}{
				"ref": ref,
			})
		}
	}

	// Per-segment artifacts, including orphans from aborted runs.
	segmentRefs, err := m.backend.ListByPrefix(ctx, segmentsPrefix+string(entry.CacheKey)+"/")
	if err == nil {
		for _, ref := range segmentRefs {
			if err := m.backend.Delete(ctx, ref); err != nil {
				m.logger.ErrorWithFields(err, "Failed to delete segment during eviction", map[string]interface{}{
					"ref": ref,
				})
			}
		}
	}

	return m.backend.Delete(ctx, m.recordRef(entry.CacheKey))
}

func (m *cacheEntryManager) Migrate(ctx context.Context, target outbound.StorageBackendPort) (int, error) {
	entries, err := m.loadAll(ctx)
	if err != nil {
		return 0, err
	}

	migrated := 0
	for _, entry := range entries {
		if err := m.migrateOne(ctx, &entry, target); err != nil {
			m.logger.ErrorWithFields(err, "Failed to migrate cache entry", map[string]interface{}{
				"cache_key": string(entry.CacheKey),
			})
			continue
		}
		migrated++
	}
	return migrated, nil
}

// migrateOne copies the three artifacts and any per-segment files to target,
// then writes a record with rewritten refs. The source copy is left for the
// caller to remove.
func (m *cacheEntryManager) migrateOne(ctx context.Context, entry *domain.CacheEntry, target outbound.StorageBackendPort) error {
	copied := *entry

	refs := []*string{&copied.Files.AudioRef, &copied.Files.ScriptRef, &copied.Files.MetadataRef}
	for _, ref := range refs {
		targetRef, err := m.copyObject(ctx, *ref, target)
		if err != nil {
			return err
		}
		*ref = targetRef
	}

	segmentRefs, err := m.backend.ListByPrefix(ctx, segmentsPrefix+string(entry.CacheKey)+"/")
	if err != nil {
		return err
	}
	for _, ref := range segmentRefs {
		if _, err := m.copyObject(ctx, ref, target); err != nil {
			return err
		}
	}

	return m.save(ctx, &copied, target)
}

func (m *cacheEntryManager) copyObject(ctx context.Context, ref string, target outbound.StorageBackendPort) (string, error) {
	data, err := m.backend.Get(ctx, ref)
	if err != nil {
		return "", err
	}
	rel, err := m.backend.RelativeKey(ref)
	if err != nil {
		return "", err
	}
	targetRef := target.BuildRef(rel)
	if err := target.Put(ctx, targetRef, data, contentTypeFor(rel)); err != nil {
		return "", err
	}
	return targetRef, nil
}

func (m *cacheEntryManager) Stats(ctx context.Context) (*inbound.CacheStats, error) {
	refs, err := m.backend.ListByPrefix(ctx, cachePrefix)
	if err != nil {
		return nil, err
	}
	return &inbound.CacheStats{
		CachedPodcasts: len(refs),
		StorageType:    m.storageType,
	}, nil
}

func keyFromRecordRef(ref string) domain.CacheKey {
	base := path.Base(strings.ReplaceAll(ref, "\\", "/"))
	if !strings.HasSuffix(base, ".json") {
		return ""
	}
	return domain.CacheKey(strings.TrimSuffix(base, ".json"))
}

func contentTypeFor(key string) string {
	switch path.Ext(key) {
	case ".wav":
		return "audio/wav"
	case ".json":
		return "application/json"
	default:
		return "application/octet-stream"
	}
}
