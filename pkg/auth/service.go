package auth

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/asynkron/protoactor-go/eventstream"
	"github.com/wisharea/storefront/pkg/models"
	"github.com/wisharea/storefront/pkg/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

const StorageKey = "wish-area-auth"

var ErrNotAuthenticated = errors.New("not logged in")

// Service tracks the signed-in user of one session. The user record is
// persisted under StorageKey so a session survives a restart.
type Service struct {
	mu   sync.Mutex
	user *models.User

	dir     Directory
	kv      repository.KV
	key     string
	latency time.Duration
	audit   repository.AuditRecorder
	logger  *zap.Logger
	events  *eventstream.EventStream
}

type Option func(*Service)

// WithLatency delays login and signup to mimic a remote identity provider.
func WithLatency(d time.Duration) Option {
	return func(s *Service) { s.latency = d }
}

func WithAudit(a repository.AuditRecorder) Option {
	return func(s *Service) { s.audit = a }
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Service) { s.logger = l }
}

func WithStorageKey(key string) Option {
	return func(s *Service) { s.key = key }
}

func NewService(ctx context.Context, dir Directory, kv repository.KV, opts ...Option) *Service {
	s := &Service{
		dir:    dir,
		kv:     kv,
		key:    StorageKey,
		logger: zap.NewNop(),
		events: eventstream.NewEventStream(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.Named("auth")
	s.load(ctx)
	return s
}

func (s *Service) load(ctx context.Context) {
	if s.kv == nil {
		return
	}
	var user models.User
	if err := repository.GetJSON(ctx, s.kv, s.key, &user); err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.logger.Warn("Error loading auth from storage", zap.String("key", s.key), zap.Error(err))
		}
		return
	}
	if user.ID == "" {
		return
	}
	s.user = &user
}

// Login verifies the credentials and makes the account the current user.
func (s *Service) Login(ctx context.Context, email, password string) (*models.User, error) {
	if err := (LoginForm{Email: email, Password: password}).Validate(); err != nil {
		return nil, err
	}
	if err := s.wait(ctx); err != nil {
		return nil, err
	}

	user, err := s.dir.Authenticate(ctx, email, password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			s.record(ctx, repository.ActionLoginFailed, normalizeEmail(email), bson.M{"email": email})
		}
		return nil, err
	}

	s.setUser(ctx, user)
	s.record(ctx, repository.ActionLogin, user.ID, bson.M{"email": user.Email})
	s.logger.Info("User logged in", zap.String("user_id", user.ID))
	return cloneUser(user), nil
}

// Signup registers a customer account and signs it in.
func (s *Service) Signup(ctx context.Context, email, password, name string) (*models.User, error) {
	if strings.TrimSpace(email) == "" || password == "" || strings.TrimSpace(name) == "" {
		return nil, models.NewValidationError("email", "Please fill in all fields")
	}
	if len(password) < MinPasswordLength {
		return nil, models.NewValidationError("password", "Password must be at least 6 characters")
	}
	if err := s.wait(ctx); err != nil {
		return nil, err
	}

	user, err := s.dir.Register(ctx, email, password, strings.TrimSpace(name))
	if err != nil {
		return nil, err
	}

	s.setUser(ctx, user)
	s.record(ctx, repository.ActionSignup, user.ID, bson.M{"email": user.Email})
	s.logger.Info("User signed up", zap.String("user_id", user.ID))
	return cloneUser(user), nil
}

func (s *Service) Logout(ctx context.Context) {
	s.mu.Lock()
	prev := s.user
	s.user = nil
	if s.kv != nil {
		if err := s.kv.Del(ctx, s.key); err != nil {
			s.logger.Warn("Error removing auth from storage", zap.String("key", s.key), zap.Error(err))
		}
	}
	s.mu.Unlock()

	if prev != nil {
		s.record(ctx, repository.ActionLogout, prev.ID, nil)
	}
	s.events.Publish((*models.User)(nil))
}

// UpdateProfile applies the non-nil fields of update to the current user.
func (s *Service) UpdateProfile(ctx context.Context, update models.ProfileUpdate) (*models.User, error) {
	if err := validateProfile(update); err != nil {
		return nil, err
	}

	current := s.CurrentUser()
	if current == nil {
		return nil, ErrNotAuthenticated
	}
	if update.Name != nil {
		current.Name = strings.TrimSpace(*update.Name)
	}
	if update.Email != nil {
		current.Email = strings.TrimSpace(*update.Email)
	}
	if update.Avatar != nil {
		current.Avatar = *update.Avatar
	}

	if err := s.dir.Update(ctx, current); err != nil {
		return nil, err
	}
	s.setUser(ctx, current)
	return cloneUser(current), nil
}

// CurrentUser returns a copy of the signed-in user, or nil.
func (s *Service) CurrentUser() *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneUser(s.user)
}

func (s *Service) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user != nil
}

// Subscribe calls listener with the current user (nil after logout) on
// every change.
func (s *Service) Subscribe(listener func(*models.User)) func() {
	sub := s.events.Subscribe(func(evt interface{}) {
		if user, ok := evt.(*models.User); ok {
			listener(user)
		}
	})
	return func() { s.events.Unsubscribe(sub) }
}

func (s *Service) setUser(ctx context.Context, user *models.User) {
	s.mu.Lock()
	s.user = cloneUser(user)
	if s.kv != nil {
		if err := repository.SetJSON(ctx, s.kv, s.key, s.user); err != nil {
			s.logger.Warn("Error saving auth to storage", zap.String("key", s.key), zap.Error(err))
		}
	}
	s.mu.Unlock()

	s.events.Publish(cloneUser(user))
}

func (s *Service) wait(ctx context.Context) error {
	if s.latency <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(s.latency)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (s *Service) record(ctx context.Context, action, entityID string, data bson.M) {
	if s.audit == nil {
		return
	}
	entry := &repository.AuditLog{
		Service:  "auth",
		Action:   action,
		EntityID: entityID,
		Data:     data,
	}
	if err := s.audit.CreateAuditLog(ctx, entry); err != nil {
		s.logger.Warn("Failed to record audit log", zap.String("action", action), zap.Error(err))
	}
}

func cloneUser(u *models.User) *models.User {
	if u == nil {
		return nil
	}
	out := *u
	out.PasswordHash = ""
	return &out
}
