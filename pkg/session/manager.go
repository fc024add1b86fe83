package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/wisharea/storefront/pkg/auth"
	"github.com/wisharea/storefront/pkg/cart"
	"github.com/wisharea/storefront/pkg/checkout"
	"github.com/wisharea/storefront/pkg/repository"
	"github.com/wisharea/storefront/pkg/wishlist"
	"go.uber.org/zap"
)

var (
	ErrInvalidToken = errors.New("invalid or expired session token")
	ErrWeakSecret   = errors.New("session: token secret is empty or the shipped placeholder")
)

// placeholderSecret is the value older sample configs carried.
const placeholderSecret = "change-me"

// Session is the set of stores owned by one shopper. Every consumer of the
// session reads the same instances.
type Session struct {
	ID       string
	Cart     *cart.Store
	Wishlist *wishlist.Store
	Auth     *auth.Service
	Checkout *checkout.Flow
}

type Options struct {
	// KV backs every store. Keys are scoped to Namespace and the session id.
	KV        repository.KV
	Namespace string

	Directory auth.Directory
	Processor checkout.OrderProcessor
	Orders    repository.OrderRepository
	Audit     repository.AuditRecorder

	Pricing     cart.Pricing
	Rates       checkout.Rates
	AuthLatency time.Duration

	Secret   []byte
	TokenTTL time.Duration
	// IdleTimeout evicts sessions not used for this long. Defaults to
	// TokenTTL. An evicted session is rebuilt from KV on its next request.
	IdleTimeout time.Duration
	Logger      *zap.Logger
}

// Manager creates sessions and resolves session tokens. Sessions not in
// memory are rebuilt from the KV store, so they survive a restart when the
// store is durable.
type Manager struct {
	mu        sync.Mutex
	sessions  map[string]*Session
	lastSeen  map[string]time.Time
	lastSweep time.Time
	now       func() time.Time

	opts   Options
	logger *zap.Logger
}

func NewManager(opts Options) (*Manager, error) {
	if opts.Directory == nil {
		return nil, errors.New("session: directory is required")
	}
	if opts.Processor == nil {
		return nil, errors.New("session: order processor is required")
	}
	if len(opts.Secret) == 0 || string(opts.Secret) == placeholderSecret {
		return nil, ErrWeakSecret
	}
	if opts.KV == nil {
		opts.KV = repository.NewMemoryKV()
	}
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = 24 * time.Hour
	}
	if opts.IdleTimeout <= 0 {
		opts.IdleTimeout = opts.TokenTTL
	}
	if opts.Pricing.TaxRate.IsZero() && opts.Pricing.ShippingFee.IsZero() {
		opts.Pricing = cart.DefaultPricing()
	}
	if opts.Rates.Express.IsZero() && opts.Rates.Overnight.IsZero() {
		opts.Rates = checkout.DefaultRates()
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Manager{
		sessions: make(map[string]*Session),
		lastSeen: make(map[string]time.Time),
		now:      time.Now,
		opts:     opts,
		logger:   logger.Named("session"),
	}, nil
}

// Create starts a new session and returns it with its signed token.
func (m *Manager) Create(ctx context.Context) (*Session, string, error) {
	id := uuid.NewString()
	token, err := m.issueToken(id)
	if err != nil {
		return nil, "", err
	}

	s := m.build(ctx, id)
	m.mu.Lock()
	m.evictIdleLocked()
	m.sessions[id] = s
	m.lastSeen[id] = m.now()
	m.mu.Unlock()

	m.logger.Info("Session created", zap.String("session_id", id))
	return s, token, nil
}

// Get returns the session for id, rebuilding it from storage if needed.
func (m *Manager) Get(ctx context.Context, id string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.evictIdleLocked()
	m.lastSeen[id] = m.now()
	if s, ok := m.sessions[id]; ok {
		return s
	}
	s := m.build(ctx, id)
	m.sessions[id] = s
	return s
}

// evictIdleLocked drops sessions idle for longer than IdleTimeout. It scans
// at most once per sweep interval.
func (m *Manager) evictIdleLocked() {
	now := m.now()
	interval := m.opts.IdleTimeout
	if interval > time.Minute {
		interval = time.Minute
	}
	if now.Sub(m.lastSweep) < interval {
		return
	}
	m.lastSweep = now

	for id, seen := range m.lastSeen {
		if now.Sub(seen) > m.opts.IdleTimeout {
			delete(m.sessions, id)
			delete(m.lastSeen, id)
			m.logger.Debug("Session evicted", zap.String("session_id", id))
		}
	}
}

// Authenticate verifies token and returns its session.
func (m *Manager) Authenticate(ctx context.Context, token string) (*Session, error) {
	id, err := m.parseToken(token)
	if err != nil {
		return nil, err
	}
	return m.Get(ctx, id), nil
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

func (m *Manager) build(ctx context.Context, id string) *Session {
	kv := repository.Namespace(repository.Namespace(m.opts.KV, m.opts.Namespace), id)
	logger := m.logger.With(zap.String("session_id", id))

	c := cart.NewStore(ctx, kv, cart.WithPricing(m.opts.Pricing), cart.WithLogger(logger))
	w := wishlist.NewStore(ctx, kv, wishlist.WithLogger(logger))

	authOpts := []auth.Option{auth.WithLatency(m.opts.AuthLatency), auth.WithLogger(logger)}
	if m.opts.Audit != nil {
		authOpts = append(authOpts, auth.WithAudit(m.opts.Audit))
	}
	a := auth.NewService(ctx, m.opts.Directory, kv, authOpts...)

	flowOpts := []checkout.Option{
		checkout.WithRates(m.opts.Rates),
		checkout.WithAccount(a),
		checkout.WithLogger(logger),
	}
	if m.opts.Orders != nil {
		flowOpts = append(flowOpts, checkout.WithOrderRepository(m.opts.Orders))
	}
	if m.opts.Audit != nil {
		flowOpts = append(flowOpts, checkout.WithAudit(m.opts.Audit))
	}
	f := checkout.New(c, m.opts.Processor, flowOpts...)

	return &Session{ID: id, Cart: c, Wishlist: w, Auth: a, Checkout: f}
}

func (m *Manager) issueToken(id string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"session_id": id,
		"iat":        now.Unix(),
		"exp":        now.Add(m.opts.TokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.opts.Secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

func (m *Manager) parseToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid token signing method")
		}
		return m.opts.Secret, nil
	})
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidToken
	}
	id, ok := claims["session_id"].(string)
	if !ok {
		return "", ErrInvalidToken
	}
	if _, err := uuid.Parse(id); err != nil {
		return "", ErrInvalidToken
	}
	return id, nil
}
