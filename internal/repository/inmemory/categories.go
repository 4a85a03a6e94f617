package inmemory

import (
	"sync"
	"time"

	"github.com/malprimis/petanchiki/internal/domain/category"
)

// CategoryCache keeps per-group category lists until their ttl elapses.
// Values are copied on the way in and out.
type CategoryCache struct {
	mu    sync.RWMutex
	items map[string]categoryEntry
	now   func() time.Time
}

type categoryEntry struct {
	categories []category.Category
	expiresAt  time.Time
}

func NewCategoryCache() *CategoryCache {
	return &CategoryCache{
		items: make(map[string]categoryEntry),
		now:   time.Now,
	}
}

func (c *CategoryCache) GetByGroupID(groupID string) ([]category.Category, bool) {
	now := c.now()

	c.mu.RLock()
	entry, ok := c.items[groupID]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}

	if !entry.expiresAt.After(now) {
		c.mu.Lock()
		if current, ok := c.items[groupID]; ok && !current.expiresAt.After(now) {
			delete(c.items, groupID)
		}
		c.mu.Unlock()
		return nil, false
	}

	return copyCategories(entry.categories), true
}

func (c *CategoryCache) SetByGroupID(groupID string, categories []category.Category, ttl time.Duration) {
	if ttl <= 0 {
		c.DeleteByGroupID(groupID)
		return
	}

	c.mu.Lock()
	c.items[groupID] = categoryEntry{
		categories: copyCategories(categories),
		expiresAt:  c.now().Add(ttl),
	}
	c.mu.Unlock()
}

func (c *CategoryCache) DeleteByGroupID(groupID string) {
	c.mu.Lock()
	delete(c.items, groupID)
	c.mu.Unlock()
}

func copyCategories(categories []category.Category) []category.Category {
	if categories == nil {
		return []category.Category{}
	}
	out := make([]category.Category, len(categories))
	for i, c := range categories {
		out[i] = c
		if c.Icon != nil {
			icon := *c.Icon
			out[i].Icon = &icon
		}
	}
	return out
}
