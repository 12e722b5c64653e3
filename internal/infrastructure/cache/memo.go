package cache

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/singleflight"

	"JournalFeed/internal/domain"
	"JournalFeed/internal/ports"
)

// Memo implements compute-once lookups on top of an ArticleStore.
// Concurrent misses for the same key share a single produce call, and
// failed productions are not stored.
type Memo struct {
	store   ports.ArticleStore
	group   singleflight.Group
	metrics *Metrics
	logger  *slog.Logger
}

var _ ports.ArticleCache = (*Memo)(nil)

// NewMemo wraps store; metrics and logger may be nil.
func NewMemo(store ports.ArticleStore, metrics *Metrics, logger *slog.Logger) *Memo {
	if store == nil {
		store = NewMemoryStore()
	}
	return &Memo{store: store, metrics: metrics, logger: logger}
}

// TryGet returns the stored article for key, running produce on a miss.
func (m *Memo) TryGet(ctx context.Context, key string, produce func(ctx context.Context) (domain.Article, error)) (domain.Article, error) {
	if article, ok := m.lookup(ctx, key); ok {
		m.metrics.lookup("hit")
		return article, nil
	}

	v, err, shared := m.group.Do(key, func() (any, error) {
		// A previous flight may have stored the key between the lookup above and Do.
		if article, ok := m.lookup(ctx, key); ok {
			return article, nil
		}

		m.metrics.lookup("miss")
		article, err := produce(ctx)
		if err != nil {
			return domain.Article{}, err
		}

		if err := m.store.Set(ctx, key, article); err != nil {
			m.metrics.storeError("set")
			m.warn("cache store failed", "key", key, "error", err)
		}
		return article, nil
	})
	if shared {
		m.metrics.lookup("shared")
	}
	if err != nil {
		return domain.Article{}, fmt.Errorf("cache %s: %w", key, err)
	}

	return v.(domain.Article), nil
}

func (m *Memo) lookup(ctx context.Context, key string) (domain.Article, bool) {
	article, ok, err := m.store.Get(ctx, key)
	if err != nil {
		m.metrics.storeError("get")
		m.warn("cache lookup failed, treating as miss", "key", key, "error", err)
		return domain.Article{}, false
	}
	return article, ok
}

func (m *Memo) warn(msg string, args ...any) {
	if m.logger != nil {
		m.logger.Warn(msg, args...)
	}
}
