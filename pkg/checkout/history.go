package checkout

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/wisharea/storefront/pkg/models"
)

// DemoOrders is the order history the demo customer account starts with.
func DemoOrders(userID string) []*models.Order {
	return []*models.Order{
		{
			ID:        "WA-001234",
			UserID:    userID,
			ItemCount: 3,
			Total:     decimal.RequireFromString("459.99"),
			Status:    models.OrderDelivered,
			CreatedAt: time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC),
		},
		{
			ID:        "WA-001189",
			UserID:    userID,
			ItemCount: 1,
			Total:     decimal.RequireFromString("189.00"),
			Status:    models.OrderProcessing,
			CreatedAt: time.Date(2024, 1, 28, 0, 0, 0, 0, time.UTC),
		},
	}
}
