// Package memory provides in-memory cache repository implementation
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/alchemorsel/recipeshare/internal/ports/outbound"
)

const defaultTTL = 24 * time.Hour

type cacheItem struct {
	value     []byte
	expiresAt time.Time
}

// CacheRepository implements in-memory cache repository
type CacheRepository struct {
	mu   sync.RWMutex
	data map[string]cacheItem
	now  func() time.Time
	stop chan struct{}
	once sync.Once
}

// NewCacheRepository creates a cache that sweeps expired keys every interval.
// A non-positive interval disables the sweeper.
func NewCacheRepository(interval time.Duration) *CacheRepository {
	r := &CacheRepository{
		data: make(map[string]cacheItem),
		now:  time.Now,
		stop: make(chan struct{}),
	}
	if interval > 0 {
		go r.sweep(interval)
	}
	return r
}

// Get retrieves a value from cache
func (r *CacheRepository) Get(_ context.Context, key string) ([]byte, error) {
	r.mu.RLock()
	item, ok := r.data[key]
	r.mu.RUnlock()

	if !ok || !r.now().Before(item.expiresAt) {
		return nil, outbound.ErrCacheMiss
	}
	return append([]byte(nil), item.value...), nil
}

// Set stores a value in cache with TTL; zero means one day
func (r *CacheRepository) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = defaultTTL
	}

	r.mu.Lock()
	r.data[key] = cacheItem{
		value:     append([]byte(nil), value...),
		expiresAt: r.now().Add(ttl),
	}
	r.mu.Unlock()
	return nil
}

// Delete removes a key from cache
func (r *CacheRepository) Delete(_ context.Context, key string) error {
	r.mu.Lock()
	delete(r.data, key)
	r.mu.Unlock()
	return nil
}

// Exists reports whether key holds an unexpired value
func (r *CacheRepository) Exists(ctx context.Context, key string) (bool, error) {
	_, err := r.Get(ctx, key)
	return err == nil, nil
}

// Len returns the number of stored entries, expired ones included.
func (r *CacheRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.data)
}

// Close stops the sweeper.
func (r *CacheRepository) Close() error {
	r.once.Do(func() { close(r.stop) })
	return nil
}

func (r *CacheRepository) sweep(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.evictExpired()
		case <-r.stop:
			return
		}
	}
}

func (r *CacheRepository) evictExpired() {
	now := r.now()
	r.mu.Lock()
	defer r.mu.Unlock()
	for key, item := range r.data {
		if !now.Before(item.expiresAt) {
			delete(r.data, key)
		}
	}
}

var _ outbound.CacheRepository = (*CacheRepository)(nil)
