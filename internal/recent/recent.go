// Package recent keeps each client's most recent vessel searches.
package recent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"hash/fnv"
	"sync"
	"time"

	"github.com/yhseo-kgs/chatbot-proxy/internal/cache"
	"github.com/yhseo-kgs/chatbot-proxy/internal/domain"
	"github.com/yhseo-kgs/chatbot-proxy/internal/vessel"
)

const (
	// KeyPrefix namespaces stored lists.
	KeyPrefix = "recentSearches"
	// MaxItems is the number of searches kept per client.
	MaxItems = 3

	lockStripes = 64
)

// Store reads and writes recent-search lists for any client. Updates to the
// same list are serialized within a process.
type Store struct {
	cache cache.Client
	ttl   time.Duration
	locks [lockStripes]sync.Mutex
}

// NewStore creates a Store. A zero ttl keeps lists until cleared.
func NewStore(c cache.Client, ttl time.Duration) *Store {
	return &Store{cache: c, ttl: ttl}
}

// For returns the list belonging to clientID.
func (s *Store) For(clientID string) *List {
	return &List{store: s, key: cache.Key(KeyPrefix, clientID)}
}

// Purge removes the lists of every client.
func (s *Store) Purge(ctx context.Context) error {
	if err := s.cache.DeleteByPrefix(ctx, KeyPrefix+":"); err != nil {
		return fmt.Errorf("purge recent searches: %w", err)
	}
	return nil
}

func (s *Store) lock(key string) *sync.Mutex {
	h := fnv.New32a()
	h.Write([]byte(key))
	return &s.locks[h.Sum32()%lockStripes]
}

// List is one client's recent searches, most recent first.
type List struct {
	store *Store
	key   string
}

// Items returns the stored searches. A missing list is empty.
func (l *List) Items(ctx context.Context) ([]string, error) {
	data, err := l.store.cache.Get(ctx, l.key)
	if errors.Is(err, cache.ErrCacheMiss) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load recent searches: %w", err)
	}

	var items []string
	if err := json.Unmarshal(data, &items); err != nil {
		// A corrupt entry is treated as empty and overwritten on next Add.
		return []string{}, nil
	}
	if items == nil {
		items = []string{}
	}
	return items, nil
}

// Add records query as the most recent search and returns the updated list.
// Blank queries are ignored.
func (l *List) Add(ctx context.Context, query string) ([]string, error) {
	q := vessel.CanonicalQuery(query)
	if q == "" {
		return l.Items(ctx)
	}

	mu := l.store.lock(l.key)
	mu.Lock()
	defer mu.Unlock()

	items, err := l.Items(ctx)
	if err != nil {
		return nil, err
	}

	next := make([]string, 0, MaxItems)
	next = append(next, q)
	for _, it := range items {
		if it != q && len(next) < MaxItems {
			next = append(next, it)
		}
	}
	return next, l.save(ctx, next)
}

// Remove deletes the item at index and returns the updated list.
func (l *List) Remove(ctx context.Context, index int) ([]string, error) {
	mu := l.store.lock(l.key)
	mu.Lock()
	defer mu.Unlock()

	items, err := l.Items(ctx)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(items) {
		return nil, domain.ValidationError(fmt.Sprintf("index %d out of range", index), nil)
	}
	next := append(items[:index:index], items[index+1:]...)
	return next, l.save(ctx, next)
}

// Clear removes every item.
func (l *List) Clear(ctx context.Context) error {
	mu := l.store.lock(l.key)
	mu.Lock()
	defer mu.Unlock()

	if err := l.store.cache.Delete(ctx, l.key); err != nil {
		return fmt.Errorf("clear recent searches: %w", err)
	}
	return nil
}

func (l *List) save(ctx context.Context, items []string) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshal recent searches: %w", err)
	}
	if err := l.store.cache.Set(ctx, l.key, data, l.store.ttl); err != nil {
		return fmt.Errorf("save recent searches: %w", err)
	}
	return nil
}
