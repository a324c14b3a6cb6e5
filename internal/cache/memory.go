package cache

import (
	"context"
	"sync"
	"time"

	"portfolio/api/internal/portfolio"
)

// MemoryCache is the in-process fallback used when no Redis URL is
// configured. Same contract, process-local only.
type MemoryCache struct {
	mu         sync.RWMutex
	doc        *portfolio.Document
	lastUpdate int64
	nextSub    int
	subs       map[int]chan int64
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{subs: make(map[int]chan int64)}
}

func (c *MemoryCache) Load(_ context.Context) portfolio.Document {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.doc == nil {
		return portfolio.Default()
	}
	// Deep copy: callers may mutate list elements of the returned
	// document without corrupting the stored one.
	return cloneDocument(*c.doc)
}

func (c *MemoryCache) Save(_ context.Context, doc portfolio.Document) error {
	c.mu.Lock()
	copied := cloneDocument(doc)
	c.doc = &copied
	c.lastUpdate = time.Now().UnixMilli()
	now := c.lastUpdate
	subs := make([]chan int64, 0, len(c.subs))
	for _, ch := range c.subs {
		subs = append(subs, ch)
	}
	c.mu.Unlock()

	for _, ch := range subs {
		select {
		case ch <- now:
		default:
		}
	}
	return nil
}

func (c *MemoryCache) LastUpdate(_ context.Context) int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastUpdate
}

func (c *MemoryCache) Subscribe(ctx context.Context) (<-chan int64, func()) {
	c.mu.Lock()
	id := c.nextSub
	c.nextSub++
	ch := make(chan int64, 1)
	c.subs[id] = ch
	c.mu.Unlock()

	cancel := func() {
		c.mu.Lock()
		if _, ok := c.subs[id]; ok {
			delete(c.subs, id)
			close(ch)
		}
		c.mu.Unlock()
	}

	go func() {
		<-ctx.Done()
		cancel()
	}()

	return ch, cancel
}

func (c *MemoryCache) Ping(_ context.Context) error { return nil }

func (c *MemoryCache) Close() error { return nil }

// cloneDocument copies every slice of the document, preserving the
// nil-vs-empty distinction Normalize establishes.
func cloneDocument(doc portfolio.Document) portfolio.Document {
	out := doc
	out.Projects = cloneSlice(doc.Projects)
	for i := range out.Projects {
		out.Projects[i].Screenshots = cloneSlice(out.Projects[i].Screenshots)
	}
	out.Internships = cloneSlice(doc.Internships)
	out.Achievements = cloneSlice(doc.Achievements)
	out.Skills.Technical = cloneSlice(doc.Skills.Technical)
	out.Skills.Soft = cloneSlice(doc.Skills.Soft)
	out.Testimonials = cloneSlice(doc.Testimonials)
	out.Timeline = cloneSlice(doc.Timeline)
	out.Blog = cloneSlice(doc.Blog)
	return out
}

func cloneSlice[T any](s []T) []T {
	if s == nil {
		return nil
	}
	out := make([]T, len(s))
	copy(out, s)
	return out
}
