package cache

import (
	"context"
	"sync"
	"time"

	"JournalFeed/internal/domain"
	"JournalFeed/internal/ports"
)

type memoryEntry struct {
	article   domain.Article
	expiresAt time.Time
}

// MemoryStore keeps articles in process memory. A zero TTL never expires entries.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

var _ ports.ArticleStore = (*MemoryStore)(nil)

// NewMemoryStore builds a store without expiry.
func NewMemoryStore() *MemoryStore {
	return NewMemoryStoreTTL(0)
}

// NewMemoryStoreTTL builds a store whose entries expire after ttl.
func NewMemoryStoreTTL(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		entries: map[string]memoryEntry{},
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns the entry for key if present and not expired.
func (s *MemoryStore) Get(_ context.Context, key string) (domain.Article, bool, error) {
	s.mu.RLock()
	entry, ok := s.entries[key]
	s.mu.RUnlock()

	if !ok {
		return domain.Article{}, false, nil
	}
	if !entry.expiresAt.IsZero() && !s.now().Before(entry.expiresAt) {
		s.mu.Lock()
		delete(s.entries, key)
		s.mu.Unlock()
		return domain.Article{}, false, nil
	}
	return entry.article, true, nil
}

// Set stores article under key.
func (s *MemoryStore) Set(_ context.Context, key string, article domain.Article) error {
	entry := memoryEntry{article: article}
	if s.ttl > 0 {
		entry.expiresAt = s.now().Add(s.ttl)
	}

	s.mu.Lock()
	s.entries[key] = entry
	s.mu.Unlock()
	return nil
}

// Len reports the number of stored entries, expired ones included.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
