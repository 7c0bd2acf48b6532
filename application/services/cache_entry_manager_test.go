package services

import (
	"context"
	"testing"
	"time"

	"github.com/PranavReddyGaddam/GitBridge/application/ports/outbound"
	"github.com/PranavReddyGaddam/GitBridge/domain"
	"github.com/PranavReddyGaddam/GitBridge/infrastructure/adapters"
	"github.com/stretchr/testify/require"
)

func newTestLocalBackend(t *testing.T) outbound.StorageBackendPort {
	t.Helper()
	backend, err := adapters.NewLocalStorageBackend(t.TempDir(), adapters.NewZerologWrapper())
	require.NoError(t, err)
	return backend
}

func newTestCacheManager(t *testing.T) (*cacheEntryManager, outbound.StorageBackendPort) {
	t.Helper()
	backend := newTestLocalBackend(t)
	manager := NewCacheEntryManager(adapters.NewZerologWrapper(), backend, "local").(*cacheEntryManager)
	return manager, backend
}

// seedEntry writes a cache record together with its three artifacts and one
// segment file, the way a completed generation leaves them behind.
func seedEntry(t *testing.T, backend outbound.StorageBackendPort, manager *cacheEntryManager, key domain.CacheKey, createdAt time.Time) *domain.CacheEntry {
	t.Helper()
	ctx := context.Background()

	files := domain.ArtifactRefs{
		AudioRef:    backend.BuildRef("audio", "podcast_"+string(key)+".wav"),
		ScriptRef:   backend.BuildRef("scripts", "script_"+string(key)+".json"),
		MetadataRef: backend.BuildRef("metadata", "metadata_"+string(key)+".json"),
	}
	require.NoError(t, backend.Put(ctx, files.AudioRef, []byte("wav"), "audio/wav"))
	require.NoError(t, backend.Put(ctx, files.ScriptRef, []byte("[]"), "application/json"))
	require.NoError(t, backend.Put(ctx, files.MetadataRef, []byte("{}"), "application/json"))
	require.NoError(t, backend.Put(ctx, backend.BuildRef("segments", string(key), "segment_000.wav"), []byte("seg"), "audio/wav"))

	entry := &domain.CacheEntry{
		CacheKey:      key,
		RepoURL:       "https://github.com/gin-gonic/gin",
		Duration:      300,
		VoiceSettings: domain.DefaultVoiceSettings(),
		Files:         files,
		Metadata: domain.PodcastMetadata{
			RepoName:     "gin",
			EpisodeTitle: "Inside gin",
			ScriptLength: 1,
			GeneratedAt:  createdAt,
		},
		CreatedAt:       createdAt,
		LastAccessed:    createdAt,
		AccessCount:     1,
		RepoContentHash: "abc123",
		EstimatedCost:   0.05,
	}
	require.NoError(t, manager.Create(ctx, entry))
	return entry
}

func TestCacheEntryManager_CreateAndLookup(t *testing.T) {
	t.Parallel()

	manager, backend := newTestCacheManager(t)
	created := seedEntry(t, backend, manager, "aaaa1111", time.Now().UTC().Truncate(time.Second))

	got, err := manager.Lookup(context.Background(), "aaaa1111")
	require.NoError(t, err)
	require.Equal(t, created.CacheKey, got.CacheKey)
	require.Equal(t, created.RepoURL, got.RepoURL)
	require.Equal(t, created.Files, got.Files)
	require.Equal(t, created.VoiceSettings, got.VoiceSettings)
	require.Equal(t, 1, got.AccessCount)
	require.True(t, created.CreatedAt.Equal(got.CreatedAt))
}

func TestCacheEntryManager_LookupMiss(t *testing.T) {
	t.Parallel()

	manager, _ := newTestCacheManager(t)
	_, err := manager.Lookup(context.Background(), "missing")
	require.ErrorIs(t, err, domain.ErrCacheMiss)
}

func TestCacheEntryManager_CorruptRecordIsMiss(t *testing.T) {
	t.Parallel()

	manager, backend := newTestCacheManager(t)
	ctx := context.Background()
	require.NoError(t, backend.Put(ctx, backend.BuildRef("cache", "bad.json"), []byte("{broken"), "application/json"))

	_, err := manager.Lookup(ctx, "bad")
	require.ErrorIs(t, err, domain.ErrCacheMiss)
	require.ErrorIs(t, err, domain.ErrCacheRecordCorrupt)
}

func TestCacheEntryManager_ExistsRequiresArtifacts(t *testing.T) {
	t.Parallel()

	manager, backend := newTestCacheManager(t)
	ctx := context.Background()
	entry := seedEntry(t, backend, manager, "bbbb2222", time.Now().UTC())

	ok, err := manager.Exists(ctx, "bbbb2222")
	require.NoError(t, err)
	require.True(t, ok)

	// An entry whose audio vanished behind its back is stale.
	require.NoError(t, backend.Delete(ctx, entry.Files.AudioRef))
	ok, err = manager.Exists(ctx, "bbbb2222")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestCacheEntryManager_RecordAccess(t *testing.T) {
	t.Parallel()

	manager, backend := newTestCacheManager(t)
	ctx := context.Background()
	created := seedEntry(t, backend, manager, "cccc3333", time.Now().UTC().Add(-time.Hour))

	require.NoError(t, manager.RecordAccess(ctx, "cccc3333"))
	require.NoError(t, manager.RecordAccess(ctx, "cccc3333"))

	got, err := manager.Lookup(ctx, "cccc3333")
	require.NoError(t, err)
	require.Equal(t, 3, got.AccessCount)
	require.True(t, got.LastAccessed.After(created.LastAccessed))
}

func TestCacheEntryManager_ListOrdersByRecency(t *testing.T) {
	t.Parallel()

	manager, backend := newTestCacheManager(t)
	ctx := context.Background()
	now := time.Now().UTC()

	seedEntry(t, backend, manager, "old00000", now.Add(-48*time.Hour))
	seedEntry(t, backend, manager, "new00000", now)
	seedEntry(t, backend, manager, "mid00000", now.Add(-24*time.Hour))

	entries, err := manager.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	require.Equal(t, domain.CacheKey("new00000"), entries[0].CacheKey)
	require.Equal(t, domain.CacheKey("mid00000"), entries[1].CacheKey)
	require.Equal(t, domain.CacheKey("old00000"), entries[2].CacheKey)

	limited, err := manager.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, limited, 2)
}

func TestCacheEntryManager_EvictSweepsArtifactsAndSegments(t *testing.T) {
	t.Parallel()

	manager, backend := newTestCacheManager(t)
	ctx := context.Background()
	now := time.Now().UTC()

	stale := seedEntry(t, backend, manager, "stale000", now.Add(-40*24*time.Hour))
	fresh := seedEntry(t, backend, manager, "fresh000", now)

	evicted, err := manager.Evict(ctx, now.Add(-30*24*time.Hour))
	require.NoError(t, err)
	require.Equal(t, 1, evicted)

	_, err = manager.Lookup(ctx, "stale000")
	require.ErrorIs(t, err, domain.ErrCacheMiss)

	for _, ref := range []string{stale.Files.AudioRef, stale.Files.ScriptRef, stale.Files.MetadataRef} {
		ok, err := backend.Exists(ctx, ref)
		require.NoError(t, err)
		require.False(t, ok)
	}
	segments, err := backend.ListByPrefix(ctx, "segments/stale000/")
	require.NoError(t, err)
	require.Empty(t, segments)

	ok, err := manager.Exists(ctx, "fresh000")
	require.NoError(t, err)
	require.True(t, ok)
	ok, err = backend.Exists(ctx, fresh.Files.AudioRef)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestCacheEntryManager_MigrateCopiesEverything(t *testing.T) {
	t.Parallel()

	manager, source := newTestCacheManager(t)
	target := newTestLocalBackend(t)
	ctx := context.Background()

	created := seedEntry(t, source, manager, "dddd4444", time.Now().UTC().Truncate(time.Second))

	migrated, err := manager.Migrate(ctx, target)
	require.NoError(t, err)
	require.Equal(t, 1, migrated)

	targetManager := NewCacheEntryManager(adapters.NewZerologWrapper(), target, "local")
	got, err := targetManager.Lookup(ctx, "dddd4444")
	require.NoError(t, err)
	require.Equal(t, created.CacheKey, got.CacheKey)

	// Refs in the migrated record point into the target backend.
	require.NotEqual(t, created.Files.AudioRef, got.Files.AudioRef)
	data, err := target.Get(ctx, got.Files.AudioRef)
	require.NoError(t, err)
	require.Equal(t, []byte("wav"), data)

	segments, err := target.ListByPrefix(ctx, "segments/dddd4444/")
	require.NoError(t, err)
	require.Len(t, segments, 1)

	// The source copy is untouched.
	ok, err := source.Exists(ctx, created.Files.AudioRef)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestCacheEntryManager_Stats(t *testing.T) {
	t.Parallel()

	manager, backend := newTestCacheManager(t)
	seedEntry(t, backend, manager, "eeee5555", time.Now().UTC())
	seedEntry(t, backend, manager, "ffff6666", time.Now().UTC())

	stats, err := manager.Stats(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, stats.CachedPodcasts)
	require.Equal(t, "local", stats.StorageType)
}
