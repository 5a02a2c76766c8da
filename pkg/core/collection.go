package core

import (
	"sort"
	"sync"
	"time"
)

// Collection is the in-memory ordered list of known articles.
// It is owned by whoever creates it; nothing in this package keeps a global one.
type Collection struct {
	mu       sync.RWMutex
	articles []*Article
}

// NewCollection returns an empty collection.
func NewCollection() *Collection {
	return &Collection{}
}

// Populate sorts rows by publication time, newest first, builds one Article per row
// and appends them. Rows with equal timestamps keep their input order; drafts and
// unparseable timestamps go last. rows itself is not reordered.
func (c *Collection) Populate(rows []Metadata) []*Article {
	sorted := make([]*Article, len(rows))
	for i, row := range rows {
		sorted[i] = NewArticle(row)
	}
	SortByPublished(sorted)

	c.Append(sorted...)
	return sorted
}

// Append adds articles at the end, without reordering.
func (c *Collection) Append(articles ...*Article) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.articles = append(c.articles, articles...)
}

// Clear empties the collection.
func (c *Collection) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.articles = nil
}

// All returns a copy of the current list.
func (c *Collection) All() []*Article {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*Article, len(c.articles))
	copy(out, c.articles)
	return out
}

// Len returns the number of articles in the collection.
func (c *Collection) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.articles)
}

// Filter returns the articles keep accepts, in collection order.
func (c *Collection) Filter(keep func(*Article) bool) []*Article {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []*Article
	for _, a := range c.articles {
		if keep(a) {
			out = append(out, a)
		}
	}
	return out
}

// SortByPublished orders articles newest first. The sort is stable and drafts sort last.
func SortByPublished(articles []*Article) {
	type key struct {
		t  time.Time
		ok bool
	}
	keys := make(map[*Article]key, len(articles))
	for _, a := range articles {
		t, ok := a.Published()
		keys[a] = key{t: t, ok: ok}
	}
	sort.SliceStable(articles, func(i, j int) bool {
		ki, kj := keys[articles[i]], keys[articles[j]]
		if ki.ok != kj.ok {
			return ki.ok
		}
		return ki.ok && ki.t.After(kj.t)
	})
}
