package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wisharea/storefront/pkg/models"
	"github.com/wisharea/storefront/pkg/repository"
	"golang.org/x/crypto/bcrypt"
)

func newDirectory(t *testing.T) *MemoryDirectory {
	t.Helper()
	dir, err := NewMemoryDirectory(bcrypt.MinCost, DemoAccounts()...)
	require.NoError(t, err)
	return dir
}

func strPtr(s string) *string { return &s }

func TestLogin_DemoAccount(t *testing.T) {
	ctx := context.Background()
	svc := NewService(ctx, newDirectory(t), nil)

	user, err := svc.Login(ctx, "Demo@WishArea.com", "demo123")
	require.NoError(t, err)

	assert.Equal(t, "user-001", user.ID)
	assert.Equal(t, models.RoleCustomer, user.Role)
	assert.Empty(t, user.PasswordHash)
	assert.True(t, svc.IsAuthenticated())
	assert.Equal(t, "Demo User", svc.CurrentUser().Name)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	ctx := context.Background()
	audit := repository.NewMemoryAuditLog()
	svc := NewService(ctx, newDirectory(t), nil, WithAudit(audit))

	_, err := svc.Login(ctx, "demo@wisharea.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "nobody@wisharea.com", "demo123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	assert.False(t, svc.IsAuthenticated())
	entries := audit.Entries("demo@wisharea.com")
	require.Len(t, entries, 1)
	assert.Equal(t, repository.ActionLoginFailed, entries[0].Action)
}

func TestLogin_EmptyFields(t *testing.T) {
	ctx := context.Background()
	svc := NewService(ctx, newDirectory(t), nil)

	_, err := svc.Login(ctx, "", "demo123")

	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Please fill in all fields", verr.Message)
}

func TestLogin_LatencyHonoursContext(t *testing.T) {
	svc := NewService(context.Background(), newDirectory(t), nil, WithLatency(time.Hour))
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := svc.Login(ctx, "demo@wisharea.com", "demo123")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.False(t, svc.IsAuthenticated())
}

func TestLogin_Latency(t *testing.T) {
	ctx := context.Background()
	svc := NewService(ctx, newDirectory(t), nil, WithLatency(20*time.Millisecond))

	start := time.Now()
	_, err := svc.Login(ctx, "demo@wisharea.com", "demo123")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestSignup(t *testing.T) {
	ctx := context.Background()
	audit := repository.NewMemoryAuditLog()
	svc := NewService(ctx, newDirectory(t), nil, WithAudit(audit))

	user, err := svc.Signup(ctx, "new@wisharea.com", "secret1", "  New Shopper ")
	require.NoError(t, err)

	assert.Contains(t, user.ID, "user-")
	assert.Equal(t, "New Shopper", user.Name)
	assert.Equal(t, models.RoleCustomer, user.Role)
	assert.Equal(t, user.ID, svc.CurrentUser().ID)
	require.Len(t, audit.Entries(user.ID), 1)

	svc.Logout(ctx)
	again, err := svc.Login(ctx, "NEW@wisharea.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, user.ID, again.ID)
}

func TestSignup_EmailInUse(t *testing.T) {
	ctx := context.Background()
	svc := NewService(ctx, newDirectory(t), nil)

	_, err := svc.Signup(ctx, "ADMIN@wisharea.com", "whatever", "Someone")
	assert.ErrorIs(t, err, ErrEmailInUse)
	assert.False(t, svc.IsAuthenticated())
}

func TestSignup_ShortPassword(t *testing.T) {
	ctx := context.Background()
	svc := NewService(ctx, newDirectory(t), nil)

	_, err := svc.Signup(ctx, "a@b.com", "12345", "A")

	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "password", verr.Field)
}

func TestLogout(t *testing.T) {
	ctx := context.Background()
	kv := repository.NewMemoryKV()
	svc := NewService(ctx, newDirectory(t), kv)
	_, err := svc.Login(ctx, "demo@wisharea.com", "demo123")
	require.NoError(t, err)

	svc.Logout(ctx)

	assert.False(t, svc.IsAuthenticated())
	assert.Nil(t, svc.CurrentUser())
	_, err = kv.Get(ctx, StorageKey)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestSessionSurvivesReload(t *testing.T) {
	ctx := context.Background()
	kv := repository.NewMemoryKV()
	dir := newDirectory(t)
	svc := NewService(ctx, dir, kv)
	_, err := svc.Login(ctx, "admin@wisharea.com", "admin123")
	require.NoError(t, err)

	reloaded := NewService(ctx, dir, kv)

	require.True(t, reloaded.IsAuthenticated())
	assert.Equal(t, "user-admin", reloaded.CurrentUser().ID)
	assert.Equal(t, models.RoleAdmin, reloaded.CurrentUser().Role)

	raw, err := kv.Get(ctx, StorageKey)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "$2a$")
}

func TestUpdateProfile(t *testing.T) {
	ctx := context.Background()
	kv := repository.NewMemoryKV()
	dir := newDirectory(t)
	svc := NewService(ctx, dir, kv)

	_, err := svc.UpdateProfile(ctx, models.ProfileUpdate{Name: strPtr("X")})
	assert.ErrorIs(t, err, ErrNotAuthenticated)

	_, err = svc.Login(ctx, "demo@wisharea.com", "demo123")
	require.NoError(t, err)

	user, err := svc.UpdateProfile(ctx, models.ProfileUpdate{
		Name:  strPtr("Renamed"),
		Email: strPtr("renamed@wisharea.com"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", user.Name)
	assert.Equal(t, "renamed@wisharea.com", NewService(ctx, dir, kv).CurrentUser().Email)

	svc.Logout(ctx)
	_, err = svc.Login(ctx, "renamed@wisharea.com", "demo123")
	assert.NoError(t, err, "password survives a profile update")
}

func TestUpdateProfile_Rejects(t *testing.T) {
	ctx := context.Background()
	svc := NewService(ctx, newDirectory(t), nil)
	_, err := svc.Login(ctx, "demo@wisharea.com", "demo123")
	require.NoError(t, err)

	_, err = svc.UpdateProfile(ctx, models.ProfileUpdate{Email: strPtr("admin@wisharea.com")})
	assert.ErrorIs(t, err, ErrEmailInUse)

	_, err = svc.UpdateProfile(ctx, models.ProfileUpdate{Name: strPtr("  ")})
	var verr *models.ValidationError
	assert.ErrorAs(t, err, &verr)

	for _, email := range []string{"not an email", "a@", "Demo <demo@wisharea.com>"} {
		_, err = svc.UpdateProfile(ctx, models.ProfileUpdate{Email: strPtr(email)})
		if assert.ErrorAs(t, err, &verr, email) {
			assert.Equal(t, "email", verr.Field)
		}
	}
	assert.Equal(t, "demo@wisharea.com", svc.CurrentUser().Email)

	assert.Equal(t, "Demo User", svc.CurrentUser().Name)
}

func TestSubscribe(t *testing.T) {
	ctx := context.Background()
	svc := NewService(ctx, newDirectory(t), nil)
	var seen []string
	svc.Subscribe(func(u *models.User) {
		if u == nil {
			seen = append(seen, "")
			return
		}
		seen = append(seen, u.ID)
	})

	_, err := svc.Login(ctx, "demo@wisharea.com", "demo123")
	require.NoError(t, err)
	svc.Logout(ctx)

	assert.Equal(t, []string{"user-001", ""}, seen)
}
