package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/wisharea/storefront/pkg/actor"
	"github.com/wisharea/storefront/pkg/cart"
	"github.com/wisharea/storefront/pkg/models"
	"github.com/wisharea/storefront/pkg/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

type Step string

const (
	StepInformation Step = "information"
	StepShipping    Step = "shipping"
	StepPayment     Step = "payment"
	StepConfirmed   Step = "confirmed"
)

var (
	ErrEmptyCart             = errors.New("your cart is empty")
	ErrNotAtPayment          = errors.New("orders can only be placed from the payment step")
	ErrNoNextStep            = errors.New("already at the last step")
	ErrNoPreviousStep        = errors.New("already at the first step")
	ErrCompleted             = errors.New("checkout already completed")
	ErrInProgress            = errors.New("order is already being processed")
	ErrUnknownShippingMethod = errors.New("unknown shipping method")
	ErrUnknownPaymentMethod  = errors.New("unknown payment method")
)

// OrderProcessor accepts an order and assigns its id.
type OrderProcessor interface {
	Submit(ctx context.Context, msg *actor.SubmitOrder) (*actor.OrderAccepted, error)
}

// Account supplies the signed-in user, if any, for the order history.
type Account interface {
	CurrentUser() *models.User
}

// Confirmation is what the shopper sees after placing an order. The totals
// are captured before the cart is cleared.
type Confirmation struct {
	OrderID        string             `json:"orderId"`
	ItemCount      int                `json:"itemCount"`
	Subtotal       decimal.Decimal    `json:"subtotal"`
	Shipping       decimal.Decimal    `json:"shipping"`
	Tax            decimal.Decimal    `json:"tax"`
	Total          decimal.Decimal    `json:"total"`
	Email          string             `json:"email"`
	ShippingMethod ShippingMethod     `json:"shippingMethod"`
	PaymentMethod  PaymentMethod      `json:"paymentMethod"`
	Status         models.OrderStatus `json:"status"`
	PlacedAt       time.Time          `json:"placedAt"`
}

// State is a read-only view of the wizard.
type State struct {
	Step           Step           `json:"step"`
	Information    Information    `json:"information"`
	ShippingMethod ShippingMethod `json:"shippingMethod"`
	PaymentMethod  PaymentMethod  `json:"paymentMethod"`
	Processing     bool           `json:"processing"`
	Confirmation   *Confirmation  `json:"confirmation,omitempty"`
}

// Flow is the linear checkout wizard of one session:
// information -> shipping -> payment -> confirmed.
type Flow struct {
	mu           sync.Mutex
	step         Step
	info         Information
	shipping     ShippingMethod
	payment      PaymentMethod
	processing   bool
	confirmation *Confirmation

	cart      *cart.Store
	processor OrderProcessor
	rates     Rates
	orders    repository.OrderRepository
	audit     repository.AuditRecorder
	account   Account
	logger    *zap.Logger
}

type Option func(*Flow)

func WithRates(r Rates) Option {
	return func(f *Flow) { f.rates = r }
}

func WithOrderRepository(r repository.OrderRepository) Option {
	return func(f *Flow) { f.orders = r }
}

func WithAudit(a repository.AuditRecorder) Option {
	return func(f *Flow) { f.audit = a }
}

func WithAccount(a Account) Option {
	return func(f *Flow) { f.account = a }
}

func WithLogger(l *zap.Logger) Option {
	return func(f *Flow) { f.logger = l }
}

func New(c *cart.Store, processor OrderProcessor, opts ...Option) *Flow {
	f := &Flow{
		step:      StepInformation,
		shipping:  ShippingStandard,
		payment:   PaymentCard,
		cart:      c,
		processor: processor,
		rates:     DefaultRates(),
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	f.logger = f.logger.Named("checkout")
	return f
}

// Start (re)opens the wizard at the information step. The form values
// entered so far are kept.
func (f *Flow) Start() error {
	if f.cart.IsEmpty() {
		return ErrEmptyCart
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.processing {
		return ErrInProgress
	}
	f.step = StepInformation
	f.confirmation = nil
	return nil
}

func (f *Flow) Step() Step {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.step
}

func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	st := State{
		Step:           f.step,
		Information:    f.info,
		ShippingMethod: f.shipping,
		PaymentMethod:  f.payment,
		Processing:     f.processing,
	}
	if f.confirmation != nil {
		c := *f.confirmation
		st.Confirmation = &c
	}
	return st
}

func (f *Flow) SetInformation(info Information) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.editableLocked(); err != nil {
		return err
	}
	f.info = info
	return nil
}

func (f *Flow) SetShippingMethod(m ShippingMethod) error {
	if _, ok := f.rates.Fee(m, f.cart.Pricing(), decimal.Zero); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownShippingMethod, m)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.editableLocked(); err != nil {
		return err
	}
	f.shipping = m
	return nil
}

func (f *Flow) SetPaymentMethod(m PaymentMethod) error {
	if !m.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownPaymentMethod, m)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.editableLocked(); err != nil {
		return err
	}
	f.payment = m
	return nil
}

// Next validates the current step and moves forward one step.
func (f *Flow) Next() (Step, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.editableLocked(); err != nil {
		return f.step, err
	}

	switch f.step {
	case StepInformation:
		if err := f.info.Validate(); err != nil {
			return f.step, err
		}
		f.step = StepShipping
	case StepShipping:
		f.step = StepPayment
	default:
		return f.step, ErrNoNextStep
	}
	return f.step, nil
}

// Back moves one step towards the information step.
func (f *Flow) Back() (Step, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.editableLocked(); err != nil {
		return f.step, err
	}

	switch f.step {
	case StepPayment:
		f.step = StepShipping
	case StepShipping:
		f.step = StepInformation
	default:
		return f.step, ErrNoPreviousStep
	}
	return f.step, nil
}

// Quote prices the current cart with the selected shipping method.
func (f *Flow) Quote() (Quote, error) {
	f.mu.Lock()
	method := f.shipping
	f.mu.Unlock()
	return f.rates.Quote(f.cart.Summary(), f.cart.Pricing(), method)
}

// PlaceOrder submits the cart from the payment step. On success the cart is
// cleared and the flow moves to the confirmed step.
func (f *Flow) PlaceOrder(ctx context.Context) (*Confirmation, error) {
	f.mu.Lock()
	switch {
	case f.step == StepConfirmed:
		f.mu.Unlock()
		return nil, ErrCompleted
	case f.processing:
		f.mu.Unlock()
		return nil, ErrInProgress
	case f.step != StepPayment:
		f.mu.Unlock()
		return nil, ErrNotAtPayment
	}

	snap := f.cart.Snapshot()
	if len(snap.Items) == 0 {
		f.mu.Unlock()
		return nil, ErrEmptyCart
	}
	quote, err := f.rates.Quote(snap.Summary, f.cart.Pricing(), f.shipping)
	if err != nil {
		f.mu.Unlock()
		return nil, err
	}
	info, shipping, payment := f.info, f.shipping, f.payment
	f.processing = true
	f.mu.Unlock()

	var userID string
	if f.account != nil {
		if u := f.account.CurrentUser(); u != nil {
			userID = u.ID
		}
	}

	accepted, err := f.processor.Submit(ctx, &actor.SubmitOrder{
		UserID:    userID,
		Email:     info.Email,
		ItemCount: quote.ItemCount,
		Total:     quote.Total,
	})
	if err != nil {
		f.mu.Lock()
		f.processing = false
		f.mu.Unlock()
		return nil, fmt.Errorf("place order: %w", err)
	}

	conf := &Confirmation{
		OrderID:        accepted.OrderID,
		ItemCount:      quote.ItemCount,
		Subtotal:       quote.Subtotal,
		Shipping:       quote.Shipping,
		Tax:            quote.Tax,
		Total:          quote.Total,
		Email:          info.Email,
		ShippingMethod: shipping,
		PaymentMethod:  payment,
		Status:         accepted.Status,
		PlacedAt:       accepted.AcceptedAt,
	}
	f.saveOrder(ctx, userID, info, snap.Items, conf)

	f.cart.ClearCart(ctx)

	f.mu.Lock()
	f.step = StepConfirmed
	f.processing = false
	f.confirmation = conf
	f.mu.Unlock()

	f.logger.Info("Order placed",
		zap.String("order_id", conf.OrderID),
		zap.String("user_id", userID),
		zap.String("total", cart.Display(conf.Total)))

	out := *conf
	return &out, nil
}

// saveOrder writes the order history entry and the audit record. Both are
// best-effort once the order has been accepted.
func (f *Flow) saveOrder(ctx context.Context, userID string, info Information, lines []cart.LineItem, conf *Confirmation) {
	if f.orders != nil {
		order, err := buildOrder(userID, info, lines, conf)
		if err == nil {
			err = f.orders.CreateOrder(ctx, order)
		}
		if err != nil {
			f.logger.Warn("Failed to save order history", zap.String("order_id", conf.OrderID), zap.Error(err))
		}
	}

	if f.audit != nil {
		entry := &repository.AuditLog{
			Service:  "checkout",
			Action:   repository.ActionPlaceOrder,
			EntityID: conf.OrderID,
			Data: bson.M{
				"user_id":    userID,
				"item_count": conf.ItemCount,
				"total":      conf.Total.String(),
			},
		}
		if err := f.audit.CreateAuditLog(ctx, entry); err != nil {
			f.logger.Warn("Failed to record audit log", zap.String("order_id", conf.OrderID), zap.Error(err))
		}
	}
}

func buildOrder(userID string, info Information, lines []cart.LineItem, conf *Confirmation) (*models.Order, error) {
	items := make([]models.OrderItem, 0, len(lines))
	for _, l := range lines {
		items = append(items, models.OrderItem{
			ProductID:   l.Product.ID,
			ProductName: l.Product.Name,
			Quantity:    l.Quantity,
			Price:       l.Product.Price,
		})
	}
	itemsJSON, err := json.Marshal(items)
	if err != nil {
		return nil, err
	}
	addressJSON, err := json.Marshal(info.ShippingAddress())
	if err != nil {
		return nil, err
	}

	return &models.Order{
		ID:             conf.OrderID,
		UserID:         userID,
		Items:          string(itemsJSON),
		ItemCount:      conf.ItemCount,
		Subtotal:       conf.Subtotal,
		Shipping:       conf.Shipping,
		Tax:            conf.Tax,
		Total:          conf.Total,
		Status:         conf.Status,
		Email:          conf.Email,
		ShippingMethod: string(conf.ShippingMethod),
		PaymentMethod:  string(conf.PaymentMethod),
		Address:        string(addressJSON),
		CreatedAt:      conf.PlacedAt,
	}, nil
}

func (f *Flow) editableLocked() error {
	if f.step == StepConfirmed {
		return ErrCompleted
	}
	if f.processing {
		return ErrInProgress
	}
	return nil
}
