package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/asynkron/protoactor-go/eventstream"
	"github.com/shopspring/decimal"
	"github.com/wisharea/storefront/pkg/models"
	"github.com/wisharea/storefront/pkg/repository"
	"go.uber.org/zap"
)

// StorageKey is where the line items are persisted.
const StorageKey = "wish-area-cart"

// MaxQuantity bounds a single line. It is an arithmetic limit, not stock.
const MaxQuantity = 9999

var (
	ErrInvalidQuantity = fmt.Errorf("quantity must be between 1 and %d", MaxQuantity)
	ErrInvalidProduct  = errors.New("invalid product")
)

// LineItem pairs a product snapshot with a quantity of at least 1.
type LineItem struct {
	Product  models.Product `json:"product"`
	Quantity int            `json:"quantity"`
}

func (l LineItem) LineTotal() decimal.Decimal {
	return l.Product.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Snapshot is the state every subscriber receives after a mutation.
// Version increases with every applied mutation.
type Snapshot struct {
	Version uint64     `json:"version"`
	Items   []LineItem `json:"items"`
	IsOpen  bool       `json:"isOpen"`
	Summary Summary    `json:"summary"`
}

// Store owns the cart line items and the drawer flag. It is the single
// source of truth for every consumer of the cart: all derived totals are
// recomputed from the current items on each read.
type Store struct {
	mu      sync.Mutex
	items   []LineItem
	isOpen  bool
	version uint64

	// pubMu orders deliveries; published is the last version delivered.
	pubMu     sync.Mutex
	published uint64

	pricing Pricing
	kv      repository.KV
	key     string
	logger  *zap.Logger
	events  *eventstream.EventStream
}

type Option func(*Store)

func WithPricing(p Pricing) Option {
	return func(s *Store) { s.pricing = p }
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Store) { s.logger = l }
}

func WithStorageKey(key string) Option {
	return func(s *Store) { s.key = key }
}

// NewStore creates the cart and hydrates it once from kv. A nil kv keeps
// the cart in memory only.
func NewStore(ctx context.Context, kv repository.KV, opts ...Option) *Store {
	s := &Store{
		pricing: DefaultPricing(),
		kv:      kv,
		key:     StorageKey,
		logger:  zap.NewNop(),
		events:  eventstream.NewEventStream(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.Named("cart")
	s.hydrate(ctx)
	return s
}

func (s *Store) hydrate(ctx context.Context) {
	if s.kv == nil {
		return
	}

	var stored []LineItem
	if err := repository.GetJSON(ctx, s.kv, s.key, &stored); err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.logger.Warn("Error loading cart from storage", zap.String("key", s.key), zap.Error(err))
		}
		return
	}

	for _, it := range stored {
		if it.Quantity <= 0 || it.Quantity > MaxQuantity || it.Product.Validate() != nil {
			s.logger.Warn("Dropping invalid stored line item",
				zap.String("product_id", it.Product.ID),
				zap.Int("quantity", it.Quantity))
			continue
		}
		if i := s.indexOf(it.Product.ID); i >= 0 {
			s.items[i].Quantity = min(s.items[i].Quantity+it.Quantity, MaxQuantity)
			continue
		}
		s.items = append(s.items, it)
	}
}

// AddItem adds quantity of product, merging into an existing line for the
// same product id. Stock is not checked here. A merge that would take the
// line past MaxQuantity is rejected and leaves the cart unchanged.
func (s *Store) AddItem(ctx context.Context, product models.Product, quantity int) error {
	if quantity < 1 || quantity > MaxQuantity {
		return ErrInvalidQuantity
	}
	if err := product.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidProduct, err)
	}

	var err error
	s.mutate(ctx, func() bool {
		if i := s.indexOf(product.ID); i >= 0 {
			if s.items[i].Quantity > MaxQuantity-quantity {
				err = ErrInvalidQuantity
				return false
			}
			s.items[i].Quantity += quantity
			return true
		}
		s.items = append(s.items, LineItem{Product: product, Quantity: quantity})
		return true
	})
	return err
}

// RemoveItem deletes the line for productID. Unknown ids are ignored.
func (s *Store) RemoveItem(ctx context.Context, productID string) {
	s.mutate(ctx, func() bool {
		return s.remove(productID)
	})
}

// UpdateQuantity replaces the quantity of a line; zero or less removes it.
// Unknown ids are ignored.
func (s *Store) UpdateQuantity(ctx context.Context, productID string, quantity int) error {
	if quantity > MaxQuantity {
		return ErrInvalidQuantity
	}
	s.mutate(ctx, func() bool {
		if quantity <= 0 {
			return s.remove(productID)
		}
		i := s.indexOf(productID)
		if i < 0 {
			return false
		}
		s.items[i].Quantity = quantity
		return true
	})
	return nil
}

// ClearCart empties the line items. The drawer flag is left alone.
func (s *Store) ClearCart(ctx context.Context) {
	s.mutate(ctx, func() bool {
		s.items = nil
		return true
	})
}

func (s *Store) OpenCart()   { s.setOpen(func(bool) bool { return true }) }
func (s *Store) CloseCart()  { s.setOpen(func(bool) bool { return false }) }
func (s *Store) ToggleCart() { s.setOpen(func(open bool) bool { return !open }) }

func (s *Store) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isOpen
}

// Items returns a copy of the line items in insertion order.
func (s *Store) Items() []LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyItems()
}

func (s *Store) Summary() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pricing.Summarize(s.items)
}

func (s *Store) ItemCount() int            { return s.Summary().ItemCount }
func (s *Store) Subtotal() decimal.Decimal { return s.Summary().Subtotal }
func (s *Store) Shipping() decimal.Decimal { return s.Summary().Shipping }
func (s *Store) Tax() decimal.Decimal      { return s.Summary().Tax }
func (s *Store) Total() decimal.Decimal    { return s.Summary().Total }

func (s *Store) IsEmpty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items) == 0
}

func (s *Store) Pricing() Pricing {
	return s.pricing
}

func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Subscribe registers listener for every subsequent mutation and returns
// the function that removes it. Listeners run synchronously on the
// mutating goroutine and may read the store, but must not mutate it or
// unsubscribe from inside the callback. Versions arrive strictly
// increasing; a snapshot overtaken by a newer one is not delivered.
func (s *Store) Subscribe(listener func(Snapshot)) func() {
	sub := s.events.Subscribe(func(evt interface{}) {
		if snap, ok := evt.(Snapshot); ok {
			listener(snap)
		}
	})
	return func() { s.events.Unsubscribe(sub) }
}

// mutate applies fn under the lock, persists when fn reports a change and
// then notifies subscribers outside the lock.
func (s *Store) mutate(ctx context.Context, fn func() bool) {
	s.mu.Lock()
	if !fn() {
		s.mu.Unlock()
		return
	}
	s.version++
	s.persistLocked(ctx)
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.publish(snap)
}

func (s *Store) setOpen(next func(bool) bool) {
	s.mu.Lock()
	s.isOpen = next(s.isOpen)
	s.version++
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.publish(snap)
}

// publish drops snap when a later version has already gone out, so the
// last snapshot a listener sees is always the newest applied state.
func (s *Store) publish(snap Snapshot) {
	s.pubMu.Lock()
	defer s.pubMu.Unlock()
	if snap.Version <= s.published {
		return
	}
	s.published = snap.Version
	s.events.Publish(snap)
}

// persistLocked is best-effort: the in-memory cart stays authoritative.
func (s *Store) persistLocked(ctx context.Context) {
	if s.kv == nil {
		return
	}
	items := s.items
	if items == nil {
		items = []LineItem{}
	}
	if err := repository.SetJSON(ctx, s.kv, s.key, items); err != nil {
		s.logger.Warn("Error saving cart to storage", zap.String("key", s.key), zap.Error(err))
	}
}

func (s *Store) snapshotLocked() Snapshot {
	return Snapshot{
		Version: s.version,
		Items:   s.copyItems(),
		IsOpen:  s.isOpen,
		Summary: s.pricing.Summarize(s.items),
	}
}

func (s *Store) copyItems() []LineItem {
	out := make([]LineItem, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Store) indexOf(productID string) int {
	for i := range s.items {
		if s.items[i].Product.ID == productID {
			return i
		}
	}
	return -1
}

func (s *Store) remove(productID string) bool {
	i := s.indexOf(productID)
	if i < 0 {
		return false
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	return true
}
