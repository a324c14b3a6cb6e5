// Package cache provides the local cache: one serialized portfolio blob
// under a single key plus a lightweight last-update marker, with a change
// signal for other listeners. Reads never fail; any miss or parse error
// resolves to the default dataset.
package cache

import (
	"context"

	"portfolio/api/internal/portfolio"
)

// Keys and channel mirror the names the previous implementations used in
// browser localStorage, so a migration script can copy blobs verbatim.
const (
	DataKey       = "portfolio:data:v1"
	LastUpdateKey = "portfolio:lastUpdate"
	UpdateChannel = "portfolio:updates"
)

// Cache is the local-cache contract. Load never returns an error: absence,
// a dead backend and a corrupt blob all degrade to the default dataset.
type Cache interface {
	Load(ctx context.Context) portfolio.Document
	Save(ctx context.Context, doc portfolio.Document) error
	LastUpdate(ctx context.Context) int64
	// Subscribe delivers last-update timestamps for every observed save.
	// Delivery is at-least-once and best-effort, not a guaranteed channel.
	// The returned cancel func releases the subscription.
	Subscribe(ctx context.Context) (<-chan int64, func())
	Ping(ctx context.Context) error
	Close() error
}
