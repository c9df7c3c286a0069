package history

import (
	"context"
	"sort"
	"sync"

	"github.com/2beens/workoutlog/internal/telemetry/metrics"

	log "github.com/sirupsen/logrus"
)

// Registry hands out one Cache per user, so that all requests of a user
// serialize on the same cache.
type Registry struct {
	mutex    sync.Mutex
	caches   map[string]*Cache
	store    kvStore
	remote   remoteStore
	settings Settings
	metrics  *metrics.Manager
}

func NewRegistry(
	store kvStore,
	remote remoteStore,
	settings Settings,
	metricsManager *metrics.Manager,
) *Registry {
	return &Registry{
		caches:   make(map[string]*Cache),
		store:    store,
		remote:   remote,
		settings: settings,
		metrics:  metricsManager,
	}
}

func (r *Registry) For(userID string) *Cache {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if c, ok := r.caches[userID]; ok {
		return c
	}

	c := NewCache(StorageKey(userID), r.store, r.remote, r.settings, r.metrics)
	r.caches[userID] = c
	return c
}

// Users returns the ids of all users a cache was handed out for, sorted.
func (r *Registry) Users() []string {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	users := make([]string, 0, len(r.caches))
	for userID := range r.caches {
		users = append(users, userID)
	}
	sort.Strings(users)
	return users
}

// CleanAll runs through all known caches and evicts entries older than the retention.
func (r *Registry) CleanAll(ctx context.Context) (removed int) {
	users := r.Users()
	if len(users) == 0 {
		log.Debugln("=> exercise cache registry, clean all abort, no users")
		return 0
	}

	for _, userID := range users {
		if ctx.Err() != nil {
			log.Warnf("=> exercise cache registry, clean all interrupted: %s", ctx.Err())
			break
		}
		removed += r.For(userID).CleanOldEntries(ctx)
	}

	log.Debugf("=> exercise cache registry, clean all [%d users]: %d entries removed", len(users), removed)
	return removed
}
