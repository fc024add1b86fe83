package repository

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wisharea/storefront/pkg/models"
)

func TestMemoryOrderRepository(t *testing.T) {
	now := time.Now()
	repo := NewMemoryOrderRepository(&models.Order{
		ID:        "WA-001189",
		UserID:    "user-001",
		Total:     decimal.NewFromInt(189),
		CreatedAt: now.Add(-48 * time.Hour),
	})
	ctx := context.Background()

	require.NoError(t, repo.CreateOrder(ctx, &models.Order{ID: "WA-2", UserID: "user-001", CreatedAt: now}))
	require.NoError(t, repo.CreateOrder(ctx, &models.Order{ID: "WA-3", UserID: "user-002", CreatedAt: now}))
	assert.Error(t, repo.CreateOrder(ctx, &models.Order{ID: "WA-2"}))

	orders, err := repo.ListOrdersByUser(ctx, "user-001")
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, "WA-2", orders[0].ID, "newest first")
	assert.Equal(t, "WA-001189", orders[1].ID)

	got, err := repo.GetOrder(ctx, "WA-3")
	require.NoError(t, err)
	assert.Equal(t, "user-002", got.UserID)

	_, err = repo.GetOrder(ctx, "WA-404")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestMemoryAuditLog(t *testing.T) {
	audit := NewMemoryAuditLog()
	ctx := context.Background()

	require.NoError(t, audit.CreateAuditLog(ctx, &AuditLog{Service: "storefront", Action: ActionLogin, EntityID: "user-001"}))
	require.NoError(t, audit.CreateAuditLog(ctx, &AuditLog{Service: "storefront", Action: ActionPlaceOrder, EntityID: "WA-1"}))
	require.NoError(t, audit.CreateAuditLog(ctx, &AuditLog{Service: "storefront", Action: ActionLogout, EntityID: "user-001"}))

	entries := audit.Entries("user-001")
	require.Len(t, entries, 2)
	assert.Equal(t, ActionLogout, entries[0].Action)
	assert.False(t, entries[0].CreatedAt.IsZero())
	assert.Len(t, audit.Entries(""), 3)

	latest, err := audit.GetAuditLogs(ctx, "user-001", 1)
	require.NoError(t, err)
	require.Len(t, latest, 1)
	assert.Equal(t, ActionLogout, latest[0].Action)

	none, err := audit.GetAuditLogs(ctx, "user-404", 0)
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}
