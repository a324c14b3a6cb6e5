package cache

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"portfolio/api/internal/portfolio"
)

func setupTestCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	s := miniredis.RunT(t)
	c, err := NewRedisCache("redis://" + s.Addr())
	if err != nil {
		t.Fatalf("failed to create redis cache: %v", err)
	}
	return c, s
}

func TestLoadEmptyReturnsDefaults(t *testing.T) {
	c, s := setupTestCache(t)
	defer c.Close()
	defer s.Close()

	doc := c.Load(context.Background())
	if doc.Name != portfolio.Default().Name {
		t.Errorf("empty cache must yield the default dataset, got name %q", doc.Name)
	}
	if len(doc.Projects) != 5 {
		t.Errorf("expected 5 default projects, got %d", len(doc.Projects))
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	c, s := setupTestCache(t)
	defer c.Close()
	defer s.Close()

	ctx := context.Background()
	doc := portfolio.Default()
	doc.Name = "Round Trip"
	doc.Projects = []portfolio.Project{{Title: "Solo", Desc: "d"}}
	doc = portfolio.Normalize(doc)

	if err := c.Save(ctx, doc); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded := c.Load(ctx)
	if !reflect.DeepEqual(loaded, doc) {
		t.Fatalf("load(save(D)) != D:\n got %+v\nwant %+v", loaded, doc)
	}
}

func TestCorruptBlobFallsBackToDefaults(t *testing.T) {
	c, s := setupTestCache(t)
	defer c.Close()
	defer s.Close()

	s.Set(DataKey, "{not json")

	doc := c.Load(context.Background())
	if doc.Name != portfolio.Default().Name {
		t.Errorf("corrupt blob must yield defaults, got %q", doc.Name)
	}
}

func TestSaveRecordsLastUpdateMarker(t *testing.T) {
	c, s := setupTestCache(t)
	defer c.Close()
	defer s.Close()

	ctx := context.Background()
	before := time.Now().UnixMilli()
	if err := c.Save(ctx, portfolio.Default()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	marker := c.LastUpdate(ctx)
	if marker < before {
		t.Errorf("last-update marker %d predates the save at %d", marker, before)
	}
}

func TestSubscribeSeesSaves(t *testing.T) {
	c, s := setupTestCache(t)
	defer c.Close()
	defer s.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	updates, stop := c.Subscribe(ctx)
	defer stop()

	// Give the subscriber a moment to register before publishing.
	time.Sleep(50 * time.Millisecond)

	if err := c.Save(ctx, portfolio.Default()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	select {
	case ts := <-updates:
		if ts <= 0 {
			t.Errorf("expected a positive timestamp, got %d", ts)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no update signal received")
	}
}

func TestMemoryCacheRoundTrip(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	if got := c.Load(ctx); got.Name != portfolio.Default().Name {
		t.Errorf("empty memory cache must yield defaults, got %q", got.Name)
	}

	doc := portfolio.Default()
	doc.Name = "Memory"
	if err := c.Save(ctx, doc); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if got := c.Load(ctx); got.Name != "Memory" {
		t.Errorf("expected saved doc, got %q", got.Name)
	}
	if c.LastUpdate(ctx) == 0 {
		t.Error("memory cache must record a last-update marker")
	}
}

func TestMemoryCacheLoadDoesNotAliasStore(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	doc := portfolio.Normalize(portfolio.Default())
	if err := c.Save(ctx, doc); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	first := c.Load(ctx)
	first.Projects[0].Title = "Mutated"
	first.Skills.Technical[0].Name = "Mutated"
	first.Achievements[0] = "Mutated"

	second := c.Load(ctx)
	if second.Projects[0].Title == "Mutated" ||
		second.Skills.Technical[0].Name == "Mutated" ||
		second.Achievements[0] == "Mutated" {
		t.Error("mutating a loaded document must not change the cached copy")
	}

	// Mutating the caller's document after Save must not leak in either.
	doc.Projects[0].Title = "Mutated After Save"
	if c.Load(ctx).Projects[0].Title == "Mutated After Save" {
		t.Error("cache must copy the document on save")
	}
}
