package actor

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/wisharea/storefront/pkg/models"
)

// Messages

type SubmitOrder struct {
	UserID    string
	Email     string
	ItemCount int
	Total     decimal.Decimal
}

type OrderAccepted struct {
	OrderID    string
	Status     models.OrderStatus
	AcceptedAt time.Time
}

type GetOrderStatus struct {
	OrderID string
}

type OrderStatus struct {
	OrderID string
	Status  models.OrderStatus
	Found   bool
}

type SendConfirmation struct {
	OrderID   string
	Recipient string
	Total     decimal.Decimal
}
