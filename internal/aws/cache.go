package aws

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/tapcraft-io/ecsexec/pkg/types"
)

// Source is anything that can list the ECS hierarchy
type Source interface {
	ListProfiles(ctx context.Context) ([]string, error)
	ListRegions(ctx context.Context, path types.ResourcePath) ([]string, error)
	ListClusters(ctx context.Context, path types.ResourcePath) ([]string, error)
	ListServices(ctx context.Context, path types.ResourcePath) ([]string, error)
	ListTasks(ctx context.Context, path types.ResourcePath) ([]string, error)
	ListContainers(ctx context.Context, path types.ResourcePath) ([]string, error)
}

type cacheEntry struct {
	items   []string
	fetched time.Time
}

// ResourceCache memoizes listings per level and parent prefix so repeated
// lookups of the same prefix return the same candidates within the TTL.
// Errors are never cached.
type ResourceCache struct {
	source Source
	ttl    time.Duration
	now    func() time.Time

	entries map[string]cacheEntry
	mu      sync.RWMutex
}

// NewResourceCache wraps source. A ttl of zero or less caches for the life
// of the process.
func NewResourceCache(source Source, ttl time.Duration) *ResourceCache {
	return &ResourceCache{
		source:  source,
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]cacheEntry),
	}
}

// ListProfiles returns cached profiles
func (rc *ResourceCache) ListProfiles(ctx context.Context) ([]string, error) {
	return rc.get(types.LevelProfile, types.ResourcePath{}, func() ([]string, error) {
		return rc.source.ListProfiles(ctx)
	})
}

// ListRegions returns cached regions
func (rc *ResourceCache) ListRegions(ctx context.Context, path types.ResourcePath) ([]string, error) {
	return rc.get(types.LevelRegion, path, func() ([]string, error) {
		return rc.source.ListRegions(ctx, path)
	})
}

// ListClusters returns cached clusters
func (rc *ResourceCache) ListClusters(ctx context.Context, path types.ResourcePath) ([]string, error) {
	return rc.get(types.LevelCluster, path, func() ([]string, error) {
		return rc.source.ListClusters(ctx, path)
	})
}

// ListServices returns cached services
func (rc *ResourceCache) ListServices(ctx context.Context, path types.ResourcePath) ([]string, error) {
	return rc.get(types.LevelService, path, func() ([]string, error) {
		return rc.source.ListServices(ctx, path)
	})
}

// ListTasks returns cached tasks
func (rc *ResourceCache) ListTasks(ctx context.Context, path types.ResourcePath) ([]string, error) {
	return rc.get(types.LevelTask, path, func() ([]string, error) {
		return rc.source.ListTasks(ctx, path)
	})
}

// ListContainers returns cached containers
func (rc *ResourceCache) ListContainers(ctx context.Context, path types.ResourcePath) ([]string, error) {
	return rc.get(types.LevelContainer, path, func() ([]string, error) {
		return rc.source.ListContainers(ctx, path)
	})
}

func (rc *ResourceCache) get(level types.Level, path types.ResourcePath, fetch func() ([]string, error)) ([]string, error) {
	key := cacheKey(level, path)

	rc.mu.RLock()
	entry, ok := rc.entries[key]
	rc.mu.RUnlock()

	if ok && (rc.ttl <= 0 || rc.now().Sub(entry.fetched) < rc.ttl) {
		return cloneItems(entry.items), nil
	}

	items, err := fetch()
	if err != nil {
		return nil, err
	}

	rc.mu.Lock()
	rc.entries[key] = cacheEntry{items: cloneItems(items), fetched: rc.now()}
	rc.mu.Unlock()

	return items, nil
}

// cacheKey is built only from the levels above level
func cacheKey(level types.Level, path types.ResourcePath) string {
	parts := []string{level.String()}
	for _, l := range types.Levels() {
		if l >= level {
			break
		}
		parts = append(parts, path.Get(l))
	}
	return strings.Join(parts, "\x00")
}

func cloneItems(items []string) []string {
	if items == nil {
		return nil
	}
	out := make([]string, len(items))
	copy(out, items)
	return out
}
