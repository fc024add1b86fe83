package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/wisharea/storefront/pkg/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailInUse         = errors.New("email already in use")
	ErrUserNotFound       = errors.New("user not found")
)

// Directory verifies credentials and owns the account records.
type Directory interface {
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
	Register(ctx context.Context, email, password, name string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
}

// Account is a seed entry with a plaintext password.
type Account struct {
	Password string
	User     models.User
}

// DemoAccounts returns the two accounts the storefront ships with.
func DemoAccounts() []Account {
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return []Account{
		{
			Password: "demo123",
			User: models.User{
				ID:        "user-001",
				Email:     "demo@wisharea.com",
				Name:      "Demo User",
				Role:      models.RoleCustomer,
				CreatedAt: created,
			},
		},
		{
			Password: "admin123",
			User: models.User{
				ID:        "user-admin",
				Email:     "admin@wisharea.com",
				Name:      "Admin User",
				Role:      models.RoleAdmin,
				CreatedAt: created,
			},
		},
	}
}

func newUserID() string {
	return "user-" + uuid.NewString()
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// MemoryDirectory keeps accounts in process memory, keyed by lower-cased email.
type MemoryDirectory struct {
	mu       sync.RWMutex
	accounts map[string]*models.User
	cost     int
}

func NewMemoryDirectory(cost int, seed ...Account) (*MemoryDirectory, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	d := &MemoryDirectory{accounts: make(map[string]*models.User), cost: cost}
	for _, acc := range seed {
		hash, err := bcrypt.GenerateFromPassword([]byte(acc.Password), cost)
		if err != nil {
			return nil, fmt.Errorf("hash password for %s: %w", acc.User.Email, err)
		}
		user := acc.User
		user.PasswordHash = string(hash)
		d.accounts[normalizeEmail(user.Email)] = &user
	}
	return d, nil
}

func (d *MemoryDirectory) Authenticate(_ context.Context, email, password string) (*models.User, error) {
	d.mu.RLock()
	user, ok := d.accounts[normalizeEmail(email)]
	d.mu.RUnlock()
	if !ok {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	out := *user
	return &out, nil
}

func (d *MemoryDirectory) Register(_ context.Context, email, password, name string) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), d.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	key := normalizeEmail(email)
	if _, exists := d.accounts[key]; exists {
		return nil, ErrEmailInUse
	}
	user := &models.User{
		ID:           newUserID(),
		Email:        strings.TrimSpace(email),
		Name:         name,
		Role:         models.RoleCustomer,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}
	d.accounts[key] = user

	out := *user
	return &out, nil
}

// Update stores the profile fields of user. The password hash is kept.
func (d *MemoryDirectory) Update(_ context.Context, user *models.User) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	var oldKey string
	for k, u := range d.accounts {
		if u.ID == user.ID {
			oldKey = k
			break
		}
	}
	if oldKey == "" {
		return ErrUserNotFound
	}

	newKey := normalizeEmail(user.Email)
	if other, ok := d.accounts[newKey]; ok && other.ID != user.ID {
		return ErrEmailInUse
	}

	stored := *user
	stored.PasswordHash = d.accounts[oldKey].PasswordHash
	stored.UpdatedAt = time.Now().UTC()
	delete(d.accounts, oldKey)
	d.accounts[newKey] = &stored
	return nil
}

// GormDirectory keeps accounts in the MySQL users table.
type GormDirectory struct {
	db   *gorm.DB
	cost int
}

func NewGormDirectory(db *gorm.DB, cost int) *GormDirectory {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &GormDirectory{db: db, cost: cost}
}

func (d *GormDirectory) findByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := d.db.WithContext(ctx).Where("LOWER(email) = ?", normalizeEmail(email)).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (d *GormDirectory) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := d.findByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (d *GormDirectory) Register(ctx context.Context, email, password, name string) (*models.User, error) {
	if _, err := d.findByEmail(ctx, email); err == nil {
		return nil, ErrEmailInUse
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), d.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := &models.User{
		ID:           newUserID(),
		Email:        strings.TrimSpace(email),
		Name:         name,
		Role:         models.RoleCustomer,
		PasswordHash: string(hash),
	}
	if err := d.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

func (d *GormDirectory) Update(ctx context.Context, user *models.User) error {
	if other, err := d.findByEmail(ctx, user.Email); err == nil && other.ID != user.ID {
		return ErrEmailInUse
	}
	res := d.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", user.ID).
		Updates(map[string]interface{}{
			"email":  user.Email,
			"name":   user.Name,
			"avatar": user.Avatar,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// EnsureAccounts inserts the seed accounts that are not in the table yet.
func (d *GormDirectory) EnsureAccounts(ctx context.Context, accounts ...Account) error {
	for _, acc := range accounts {
		if _, err := d.findByEmail(ctx, acc.User.Email); err == nil {
			continue
		} else if !errors.Is(err, ErrUserNotFound) {
			return err
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(acc.Password), d.cost)
		if err != nil {
			return fmt.Errorf("hash password for %s: %w", acc.User.Email, err)
		}
		user := acc.User
		user.PasswordHash = string(hash)
		if err := d.db.WithContext(ctx).Create(&user).Error; err != nil {
			return fmt.Errorf("seed user %s: %w", user.Email, err)
		}
	}
	return nil
}
