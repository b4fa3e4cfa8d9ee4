package grader

import (
	"sync"
	"time"

	"github.com/gnolang/pmatch/pmatch"
)

type cacheKey struct {
	question   string
	expression string
}

type CacheEntry struct {
	Expression   *pmatch.Expression
	CreatedAt    time.Time
	LastAccessed time.Time
}

// Cache keeps parsed expressions so that every response of a batch reuses
// the same tree. Entries are dropped when the config is reloaded.
type Cache struct {
	entries map[cacheKey]*CacheEntry
	mutex   sync.RWMutex

	hits, misses int
}

func NewCache() *Cache {
	return &Cache{entries: make(map[cacheKey]*CacheEntry)}
}

// Get returns the parsed expression for a question's answer, parsing it
// with opts on first use.
func (c *Cache) Get(questionID, expression string, opts *pmatch.Options) *pmatch.Expression {
	key := cacheKey{question: questionID, expression: expression}

	c.mutex.RLock()
	entry, exists := c.entries[key]
	c.mutex.RUnlock()
	if exists {
		c.mutex.Lock()
		entry.LastAccessed = time.Now()
		c.hits++
		c.mutex.Unlock()
		return entry.Expression
	}

	expr := pmatch.ParseExpression(expression, opts)

	c.mutex.Lock()
	defer c.mutex.Unlock()
	// another goroutine may have parsed it meanwhile
	if entry, exists := c.entries[key]; exists {
		c.hits++
		return entry.Expression
	}
	now := time.Now()
	c.entries[key] = &CacheEntry{Expression: expr, CreatedAt: now, LastAccessed: now}
	c.misses++
	return expr
}

// Len returns the number of cached expressions.
func (c *Cache) Len() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.entries)
}

// Stats returns how often Get found a parsed expression and how often it parsed one.
func (c *Cache) Stats() (hits, misses int) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.hits, c.misses
}

func (c *Cache) InvalidateAll() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.entries = make(map[cacheKey]*CacheEntry)
}
