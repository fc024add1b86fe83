package wishlist

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/asynkron/protoactor-go/eventstream"
	"github.com/wisharea/storefront/pkg/models"
	"github.com/wisharea/storefront/pkg/repository"
	"go.uber.org/zap"
)

const StorageKey = "wish-area-wishlist"

var ErrInvalidProduct = errors.New("invalid product")

// Store keeps saved product snapshots, at most one per product id.
type Store struct {
	mu      sync.Mutex
	items   []models.Product
	version uint64

	pubMu     sync.Mutex
	published uint64

	kv     repository.KV
	key    string
	logger *zap.Logger
	events *eventstream.EventStream
}

type Option func(*Store)

func WithLogger(l *zap.Logger) Option {
	return func(s *Store) { s.logger = l }
}

func WithStorageKey(key string) Option {
	return func(s *Store) { s.key = key }
}

func NewStore(ctx context.Context, kv repository.KV, opts ...Option) *Store {
	s := &Store{
		kv:     kv,
		key:    StorageKey,
		logger: zap.NewNop(),
		events: eventstream.NewEventStream(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.Named("wishlist")
	s.load(ctx)
	return s
}

func (s *Store) load(ctx context.Context) {
	if s.kv == nil {
		return
	}
	var stored []models.Product
	if err := repository.GetJSON(ctx, s.kv, s.key, &stored); err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.logger.Warn("Error loading wishlist from storage", zap.String("key", s.key), zap.Error(err))
		}
		return
	}
	for _, p := range stored {
		if p.ID == "" || s.indexOf(p.ID) >= 0 {
			continue
		}
		s.items = append(s.items, p)
	}
}

// Add saves product unless it is already present.
func (s *Store) Add(ctx context.Context, product models.Product) error {
	if err := product.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidProduct, err)
	}
	s.mutate(ctx, func() bool {
		if s.indexOf(product.ID) >= 0 {
			return false
		}
		s.items = append(s.items, product)
		return true
	})
	return nil
}

func (s *Store) Remove(ctx context.Context, productID string) {
	s.mutate(ctx, func() bool {
		i := s.indexOf(productID)
		if i < 0 {
			return false
		}
		s.items = append(s.items[:i], s.items[i+1:]...)
		return true
	})
}

// Toggle removes product when saved and adds it otherwise. It reports
// whether the product is saved afterwards.
func (s *Store) Toggle(ctx context.Context, product models.Product) (bool, error) {
	if err := product.Validate(); err != nil {
		return false, fmt.Errorf("%w: %v", ErrInvalidProduct, err)
	}
	var saved bool
	s.mutate(ctx, func() bool {
		if i := s.indexOf(product.ID); i >= 0 {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return true
		}
		s.items = append(s.items, product)
		saved = true
		return true
	})
	return saved, nil
}

func (s *Store) Clear(ctx context.Context) {
	s.mutate(ctx, func() bool {
		s.items = nil
		return true
	})
}

func (s *Store) Contains(productID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.indexOf(productID) >= 0
}

func (s *Store) Items() []models.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyItems()
}

func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

type changed struct {
	version uint64
	items   []models.Product
}

// Subscribe calls listener with the saved products after every change.
// Concurrent changes are delivered in the order they were applied; one
// overtaken by a newer change is skipped. Listeners must not mutate the
// wishlist.
func (s *Store) Subscribe(listener func([]models.Product)) func() {
	sub := s.events.Subscribe(func(evt interface{}) {
		if c, ok := evt.(changed); ok {
			listener(c.items)
		}
	})
	return func() { s.events.Unsubscribe(sub) }
}

func (s *Store) mutate(ctx context.Context, fn func() bool) {
	s.mu.Lock()
	if !fn() {
		s.mu.Unlock()
		return
	}
	s.version++
	evt := changed{version: s.version, items: s.copyItems()}
	if s.kv != nil {
		if err := repository.SetJSON(ctx, s.kv, s.key, evt.items); err != nil {
			s.logger.Warn("Error saving wishlist to storage", zap.String("key", s.key), zap.Error(err))
		}
	}
	s.mu.Unlock()

	s.pubMu.Lock()
	defer s.pubMu.Unlock()
	if evt.version <= s.published {
		return
	}
	s.published = evt.version
	s.events.Publish(evt)
}

func (s *Store) copyItems() []models.Product {
	out := make([]models.Product, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Store) indexOf(productID string) int {
	for i := range s.items {
		if s.items[i].ID == productID {
			return i
		}
	}
	return -1
}
