package actor

import (
	"fmt"
	"strings"
	"time"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/google/uuid"
	"github.com/wisharea/storefront/pkg/models"
	"go.uber.org/zap"
)

// NewOrderID returns an id of the form WA-<unix millis>-<random suffix>.
// The suffix keeps ids unique when two orders land in the same millisecond.
func NewOrderID(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("WA-%d-%s", now.UnixMilli(), suffix)
}

// orderActor assigns order ids and tracks the status of accepted orders.
type orderActor struct {
	logger *zap.Logger
	orders map[string]models.OrderStatus
	notify *actor.PID
}

func (a *orderActor) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		a.orders = make(map[string]models.OrderStatus)
		a.logger.Info("Order actor started")

	case *SubmitOrder:
		now := time.Now()
		orderID := NewOrderID(now)
		a.orders[orderID] = models.OrderProcessing

		a.logger.Info("Order accepted",
			zap.String("order_id", orderID),
			zap.String("user_id", msg.UserID),
			zap.Int("item_count", msg.ItemCount),
			zap.String("total", msg.Total.StringFixed(2)))

		ctx.Respond(&OrderAccepted{
			OrderID:    orderID,
			Status:     models.OrderProcessing,
			AcceptedAt: now,
		})

		if a.notify != nil && msg.Email != "" {
			ctx.Send(a.notify, &SendConfirmation{
				OrderID:   orderID,
				Recipient: msg.Email,
				Total:     msg.Total,
			})
		}

	case *GetOrderStatus:
		status, ok := a.orders[msg.OrderID]
		ctx.Respond(&OrderStatus{OrderID: msg.OrderID, Status: status, Found: ok})

	case *actor.Stopping:
		a.logger.Info("Order actor stopping")

	case *actor.Stopped:
		a.logger.Info("Order actor stopped")
	}
}

// notificationActor stands in for the confirmation mailer.
type notificationActor struct {
	logger *zap.Logger
}

func (a *notificationActor) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *SendConfirmation:
		a.logger.Info("Sending order confirmation",
			zap.String("order_id", msg.OrderID),
			zap.String("recipient", msg.Recipient),
			zap.String("total", msg.Total.StringFixed(2)))

	case *actor.Started:
		a.logger.Info("Notification actor started")
	}
}
