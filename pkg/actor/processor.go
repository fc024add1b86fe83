package actor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/asynkron/protoactor-go/actor"
	"go.uber.org/zap"
)

var ErrUnexpectedReply = errors.New("unexpected reply from order actor")

// Processor submits orders to the order actor. Latency simulates the payment
// round trip and is spent on the caller's goroutine so the actor mailbox is
// never blocked.
type Processor struct {
	system  *actor.ActorSystem
	orders  *actor.PID
	notify  *actor.PID
	latency time.Duration
	timeout time.Duration
	logger  *zap.Logger
}

func NewProcessor(logger *zap.Logger, latency, timeout time.Duration) (*Processor, error) {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	system := actor.NewActorSystem()

	notificationProps := actor.PropsFromProducer(func() actor.Actor {
		return &notificationActor{logger: logger.Named("notification-actor")}
	})
	notifyPid, err := system.Root.SpawnNamed(notificationProps, "notification-actor")
	if err != nil {
		return nil, fmt.Errorf("failed to spawn notification actor: %w", err)
	}

	orderProps := actor.PropsFromProducer(func() actor.Actor {
		return &orderActor{logger: logger.Named("order-actor"), notify: notifyPid}
	})
	orderPid, err := system.Root.SpawnNamed(orderProps, "order-actor")
	if err != nil {
		return nil, fmt.Errorf("failed to spawn order actor: %w", err)
	}

	logger.Info("Local actors started",
		zap.String("order_actor", orderPid.Id),
		zap.String("notification_actor", notifyPid.Id))

	return &Processor{
		system:  system,
		orders:  orderPid,
		notify:  notifyPid,
		latency: latency,
		timeout: timeout,
		logger:  logger,
	}, nil
}

// Submit waits out the simulated latency, then asks the order actor for an
// order id. It returns early when ctx is done.
func (p *Processor) Submit(ctx context.Context, msg *SubmitOrder) (*OrderAccepted, error) {
	if p.latency > 0 {
		t := time.NewTimer(p.latency)
		select {
		case <-ctx.Done():
			t.Stop()
			return nil, ctx.Err()
		case <-t.C:
		}
	}

	result, err := p.request(ctx, msg)
	if err != nil {
		return nil, err
	}
	accepted, ok := result.(*OrderAccepted)
	if !ok {
		return nil, ErrUnexpectedReply
	}
	return accepted, nil
}

func (p *Processor) Status(ctx context.Context, orderID string) (*OrderStatus, error) {
	result, err := p.request(ctx, &GetOrderStatus{OrderID: orderID})
	if err != nil {
		return nil, err
	}
	status, ok := result.(*OrderStatus)
	if !ok {
		return nil, ErrUnexpectedReply
	}
	return status, nil
}

func (p *Processor) request(ctx context.Context, msg interface{}) (interface{}, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	timeout := p.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); left < timeout {
			timeout = left
		}
	}

	future := p.system.Root.RequestFuture(p.orders, msg, timeout)
	result, err := future.Result()
	if err != nil {
		return nil, fmt.Errorf("order actor request: %w", err)
	}
	return result, nil
}

func (p *Processor) Close() {
	p.system.Root.Stop(p.orders)
	p.system.Root.Stop(p.notify)
}
