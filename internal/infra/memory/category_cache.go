package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/kitikazis/ELAC-Lectura/internal/app"
	"github.com/kitikazis/ELAC-Lectura/internal/domain"
	"golang.org/x/sync/singleflight"
)

// CategoryCache is a read-through TTL cache in front of a slower category
// store. Reads on the student join path collapse concurrent misses through
// singleflight; admin writes go straight through and invalidate the entry,
// keeping the same-actor read-after-write guarantee.
type CategoryCache struct {
	inner app.CategoryStore
	ttl   time.Duration
	clock func() time.Time
	sf    singleflight.Group
	rnd   *rand.Rand

	mu    sync.RWMutex
	cache map[string]cachedCategory
}

type cachedCategory struct {
	category  domain.Category
	expiresAt time.Time
}

var _ app.CategoryStore = (*CategoryCache)(nil)

func NewCategoryCache(inner app.CategoryStore, ttl time.Duration) *CategoryCache {
	return &CategoryCache{
		inner: inner,
		ttl:   ttl,
		clock: time.Now,
		rnd:   rand.New(rand.NewSource(time.Now().UnixNano())),
		cache: make(map[string]cachedCategory),
	}
}

func (c *CategoryCache) Get(ctx context.Context, key string) (domain.Category, error) {
	now := c.clock()

	c.mu.RLock()
	if entry, ok := c.cache[key]; ok && entry.expiresAt.After(now) {
		c.mu.RUnlock()
		return entry.category.Clone(), nil
	}
	c.mu.RUnlock()

	result, err, _ := c.sf.Do(key, func() (interface{}, error) {
		now := c.clock()
		c.mu.RLock()
		if entry, ok := c.cache[key]; ok && entry.expiresAt.After(now) {
			c.mu.RUnlock()
			return entry.category, nil
		}
		c.mu.RUnlock()

		category, err := c.inner.Get(ctx, key)
		if err != nil {
			return domain.Category{}, err
		}

		c.mu.Lock()
		c.cache[key] = cachedCategory{
			category:  category,
			expiresAt: now.Add(c.ttlWithJitter()),
		}
		c.mu.Unlock()
		return category, nil
	})
	if err != nil {
		return domain.Category{}, err
	}
	return result.(domain.Category).Clone(), nil
}

// List always hits the inner store; the admin list screen must not lag writes.
func (c *CategoryCache) List(ctx context.Context) ([]domain.Category, error) {
	return c.inner.List(ctx)
}

func (c *CategoryCache) Create(ctx context.Context, category domain.Category) error {
	if err := c.inner.Create(ctx, category); err != nil {
		return err
	}
	c.invalidate(category.Key)
	return nil
}

func (c *CategoryCache) Update(ctx context.Context, key, readingText string, questions []domain.Question) error {
	if err := c.inner.Update(ctx, key, readingText, questions); err != nil {
		return err
	}
	c.invalidate(key)
	return nil
}

func (c *CategoryCache) Delete(ctx context.Context, key string) error {
	if err := c.inner.Delete(ctx, key); err != nil {
		return err
	}
	c.invalidate(key)
	return nil
}

func (c *CategoryCache) invalidate(key string) {
	c.mu.Lock()
	delete(c.cache, key)
	c.mu.Unlock()
}

func (c *CategoryCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	// up to 10% jitter to spread expirations
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
