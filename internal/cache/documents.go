// Package cache memoizes values derived from text documents, keyed by
// document URI and invalidated by version.
package cache

import (
	"fmt"
	"time"

	"github.com/leijiancd/vetur/internal/textdoc"

	lru "github.com/hashicorp/golang-lru/v2"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

type entry[T any] struct {
	version    protocol.Integer
	languageID string
	value      T
	lastUsed   time.Time
}

// DocumentCache holds at most capacity derived values. Least recently used
// entries are evicted first, and entries not used for maxAge are dropped on
// the next access.
type DocumentCache[T any] struct {
	entries *lru.Cache[protocol.DocumentUri, *entry[T]]
	maxAge  time.Duration
	derive  func(*textdoc.Document) T
	now     func() time.Time
}

// NewDocumentCache creates a cache that computes values with derive. A
// non-positive maxAge disables age based eviction.
func NewDocumentCache[T any](
	capacity int,
	maxAge time.Duration,
	derive func(*textdoc.Document) T,
	onEvict func(uri protocol.DocumentUri, value T),
) (*DocumentCache[T], error) {
	var evict func(protocol.DocumentUri, *entry[T])
	if onEvict != nil {
		evict = func(uri protocol.DocumentUri, e *entry[T]) { onEvict(uri, e.value) }
	}
	entries, err := lru.NewWithEvict[protocol.DocumentUri, *entry[T]](capacity, evict)
	if err != nil {
		return nil, fmt.Errorf("failed to create document cache: %w", err)
	}
	return &DocumentCache[T]{
		entries: entries,
		maxAge:  maxAge,
		derive:  derive,
		now:     time.Now,
	}, nil
}

// Get returns the value for doc, deriving it again when the cached one was
// computed for another version or language.
func (c *DocumentCache[T]) Get(doc *textdoc.Document) T {
	now := c.now()
	c.sweep(now)

	if e, ok := c.entries.Get(doc.URI); ok && e.version == doc.Version && e.languageID == doc.LanguageID {
		e.lastUsed = now
		return e.value
	}

	value := c.derive(doc)
	c.entries.Add(doc.URI, &entry[T]{
		version:    doc.Version,
		languageID: doc.LanguageID,
		value:      value,
		lastUsed:   now,
	})
	return value
}

// Peek returns the cached value for uri without deriving or touching recency.
func (c *DocumentCache[T]) Peek(uri protocol.DocumentUri) (T, bool) {
	e, ok := c.entries.Peek(uri)
	if !ok {
		var zero T
		return zero, false
	}
	return e.value, true
}

// Remove drops the entry for uri.
func (c *DocumentCache[T]) Remove(uri protocol.DocumentUri) {
	c.entries.Remove(uri)
}

func (c *DocumentCache[T]) Len() int {
	return c.entries.Len()
}

// Dispose drops every entry.
func (c *DocumentCache[T]) Dispose() {
	c.entries.Purge()
}

func (c *DocumentCache[T]) sweep(now time.Time) {
	if c.maxAge <= 0 {
		return
	}
	for _, uri := range c.entries.Keys() {
		if e, ok := c.entries.Peek(uri); ok && now.Sub(e.lastUsed) > c.maxAge {
			c.entries.Remove(uri)
		}
	}
}
