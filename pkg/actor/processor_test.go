package actor

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wisharea/storefront/pkg/models"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

var orderIDPattern = regexp.MustCompile(`^WA-\d{13}-[0-9A-F]{8}$`)

func newProcessor(t *testing.T, latency time.Duration) (*Processor, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zap.InfoLevel)
	p, err := NewProcessor(zap.New(core), latency, time.Second)
	require.NoError(t, err)
	t.Cleanup(p.Close)
	return p, logs
}

func TestNewOrderID(t *testing.T) {
	now := time.Date(2024, 2, 10, 12, 0, 0, 0, time.UTC)
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id := NewOrderID(now)
		assert.Regexp(t, orderIDPattern, id)
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

func TestSubmit(t *testing.T) {
	p, logs := newProcessor(t, 0)
	ctx := context.Background()

	accepted, err := p.Submit(ctx, &SubmitOrder{
		UserID:    "user-001",
		Email:     "demo@wisharea.com",
		ItemCount: 3,
		Total:     decimal.RequireFromString("515.16"),
	})
	require.NoError(t, err)
	assert.Regexp(t, orderIDPattern, accepted.OrderID)
	assert.Equal(t, models.OrderProcessing, accepted.Status)

	status, err := p.Status(ctx, accepted.OrderID)
	require.NoError(t, err)
	assert.True(t, status.Found)
	assert.Equal(t, models.OrderProcessing, status.Status)

	assert.Eventually(t, func() bool {
		return logs.FilterMessage("Sending order confirmation").Len() == 1
	}, time.Second, 10*time.Millisecond)
}

func TestSubmit_UniqueIDs(t *testing.T) {
	p, _ := newProcessor(t, 0)
	ctx := context.Background()

	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		accepted, err := p.Submit(ctx, &SubmitOrder{ItemCount: 1, Total: decimal.NewFromInt(1)})
		require.NoError(t, err)
		assert.False(t, seen[accepted.OrderID])
		seen[accepted.OrderID] = true
	}
}

func TestSubmit_Latency(t *testing.T) {
	p, _ := newProcessor(t, 30*time.Millisecond)

	start := time.Now()
	_, err := p.Submit(context.Background(), &SubmitOrder{ItemCount: 1})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
}

func TestSubmit_ContextCancelled(t *testing.T) {
	p, _ := newProcessor(t, time.Hour)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := p.Submit(ctx, &SubmitOrder{ItemCount: 1})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestStatus_Unknown(t *testing.T) {
	p, _ := newProcessor(t, 0)

	status, err := p.Status(context.Background(), "WA-0-NOPE")
	require.NoError(t, err)
	assert.False(t, status.Found)
}
