package upstream

import (
	"container/list"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dafibh/fortuna/insights-api/internal/domain"
	"github.com/dafibh/fortuna/insights-api/internal/metrics"
	"github.com/rs/zerolog/log"
)

const (
	// DefaultCacheSize bounds the number of cached responses
	DefaultCacheSize = 1024
	// CacheCleanupInterval is the interval for sweeping expired entries
	CacheCleanupInterval = time.Minute
)

// lruCache is an LRU cache with TTL and size-based eviction
type lruCache struct {
	mu      sync.Mutex
	maxSize int
	ttl     time.Duration
	items   map[string]*list.Element
	lru     *list.List
	now     func() time.Time
}

type cacheItem struct {
	key       string
	data      any
	expiresAt time.Time
}

func newLRUCache(maxSize int, ttl time.Duration) *lruCache {
	return &lruCache{
		maxSize: maxSize,
		ttl:     ttl,
		items:   make(map[string]*list.Element),
		lru:     list.New(),
		now:     time.Now,
	}
}

func (c *lruCache) get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, exists := c.items[key]
	if !exists {
		return nil, false
	}

	item := elem.Value.(*cacheItem)
	if c.now().After(item.expiresAt) {
		c.removeElement(elem)
		return nil, false
	}

	c.lru.MoveToFront(elem)
	return item.data, true
}

func (c *lruCache) set(key string, data any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	item := &cacheItem{
		key:       key,
		data:      data,
		expiresAt: c.now().Add(c.ttl),
	}

	if elem, exists := c.items[key]; exists {
		elem.Value = item
		c.lru.MoveToFront(elem)
		return
	}

	c.items[key] = c.lru.PushFront(item)

	if c.lru.Len() > c.maxSize {
		if oldest := c.lru.Back(); oldest != nil {
			c.removeElement(oldest)
		}
	}
}

// deletePrefix removes every key starting with prefix and returns how many were removed
func (c *lruCache) deletePrefix(prefix string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for key, elem := range c.items {
		if strings.HasPrefix(key, prefix) {
			c.removeElement(elem)
			removed++
		}
	}
	return removed
}

func (c *lruCache) removeElement(elem *list.Element) {
	item := elem.Value.(*cacheItem)
	delete(c.items, item.key)
	c.lru.Remove(elem)
}

func (c *lruCache) cleanExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	var toRemove []*list.Element
	for elem := c.lru.Front(); elem != nil; elem = elem.Next() {
		if now.After(elem.Value.(*cacheItem).expiresAt) {
			toRemove = append(toRemove, elem)
		}
	}
	for _, elem := range toRemove {
		c.removeElement(elem)
	}
	return len(toRemove)
}

func (c *lruCache) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// CachedSource wraps a DataSource with a per-user TTL cache.
// Entries are keyed by user, token fingerprint and call so a cached read is
// never served to a caller holding a different token.
type CachedSource struct {
	source domain.DataSource
	cache  *lruCache
	stopCh chan struct{}
	once   sync.Once
}

// NewCachedSource creates a new CachedSource and starts its cleanup goroutine
func NewCachedSource(source domain.DataSource, ttl time.Duration, maxSize int) *CachedSource {
	if maxSize <= 0 {
		maxSize = DefaultCacheSize
	}
	cs := &CachedSource{
		source: source,
		cache:  newLRUCache(maxSize, ttl),
		stopCh: make(chan struct{}),
	}

	go cs.cleanup()

	return cs
}

// GetSixMonthsExpenses implements domain.ExpenseSource
func (s *CachedSource) GetSixMonthsExpenses(ctx context.Context, session domain.Session) ([]domain.Expense, error) {
	return cached(s, session, "six", func() ([]domain.Expense, error) {
		return s.source.GetSixMonthsExpenses(ctx, session)
	})
}

// GetCustomExpenses implements domain.ExpenseSource
func (s *CachedSource) GetCustomExpenses(ctx context.Context, session domain.Session, months int) ([]domain.Expense, error) {
	return cached(s, session, "custom:"+strconv.Itoa(months), func() ([]domain.Expense, error) {
		return s.source.GetCustomExpenses(ctx, session, months)
	})
}

// GetCurrentExpenses implements domain.ExpenseSource
func (s *CachedSource) GetCurrentExpenses(ctx context.Context, session domain.Session) ([]domain.Expense, error) {
	return cached(s, session, "current", func() ([]domain.Expense, error) {
		return s.source.GetCurrentExpenses(ctx, session)
	})
}

// GetCategories implements domain.CategorySource
func (s *CachedSource) GetCategories(ctx context.Context, session domain.Session) ([]domain.Category, error) {
	return cached(s, session, "categories", func() ([]domain.Category, error) {
		return s.source.GetCategories(ctx, session)
	})
}

// GetBudgets implements domain.BudgetSource
func (s *CachedSource) GetBudgets(ctx context.Context, session domain.Session) ([]domain.Budget, error) {
	return cached(s, session, "budgets", func() ([]domain.Budget, error) {
		return s.source.GetBudgets(ctx, session)
	})
}

// Invalidate drops every cached read for userID
func (s *CachedSource) Invalidate(userID string) {
	removed := s.cache.deletePrefix(userPrefix(userID))
	log.Debug().Str("user_id", userID).Int("entries", removed).Msg("Invalidated cached reads")
}

// Len returns the number of cached entries
func (s *CachedSource) Len() int {
	return s.cache.size()
}

// Stop stops the cleanup goroutine
func (s *CachedSource) Stop() {
	s.once.Do(func() {
		close(s.stopCh)
	})
}

func (s *CachedSource) cleanup() {
	ticker := time.NewTicker(CacheCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if n := s.cache.cleanExpired(); n > 0 {
				log.Debug().Int("entries", n).Msg("Cleaned up expired cache entries")
			}
		case <-s.stopCh:
			return
		}
	}
}

// cached serves fetch from the cache. Errors are never cached.
func cached[T any](s *CachedSource, session domain.Session, call string, fetch func() ([]T, error)) ([]T, error) {
	key := cacheKey(session, call)
	if v, ok := s.cache.get(key); ok {
		metrics.ObserveCache(true)
		return v.([]T), nil
	}
	metrics.ObserveCache(false)

	data, err := fetch()
	if err != nil {
		return nil, err
	}
	s.cache.set(key, data)
	return data, nil
}

func userPrefix(userID string) string {
	return strconv.Itoa(len(userID)) + ":" + userID + "|"
}

func cacheKey(session domain.Session, call string) string {
	sum := sha256.Sum256([]byte(session.Token))
	return userPrefix(session.UserID) + hex.EncodeToString(sum[:8]) + "|" + call
}
