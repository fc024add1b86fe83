package checkout

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/wisharea/storefront/pkg/cart"
	"github.com/wisharea/storefront/pkg/config"
	"github.com/wisharea/storefront/pkg/models"
)

type ShippingMethod string

const (
	ShippingStandard  ShippingMethod = "standard"
	ShippingExpress   ShippingMethod = "express"
	ShippingOvernight ShippingMethod = "overnight"
)

type PaymentMethod string

const (
	PaymentCard   PaymentMethod = "card"
	PaymentPayPal PaymentMethod = "paypal"
)

func (m PaymentMethod) Valid() bool {
	return m == PaymentCard || m == PaymentPayPal
}

// Rates are the flat fees of the faster shipping methods. Standard shipping
// follows the cart rule.
type Rates struct {
	Express   decimal.Decimal
	Overnight decimal.Decimal
}

func DefaultRates() Rates {
	return Rates{
		Express:   decimal.NewFromInt(25),
		Overnight: decimal.NewFromInt(45),
	}
}

func RatesFromConfig(cfg config.PricingConfig) (Rates, error) {
	r := DefaultRates()
	for _, f := range []struct {
		name string
		raw  string
		dst  *decimal.Decimal
	}{
		{"express_fee", cfg.ExpressFee, &r.Express},
		{"overnight_fee", cfg.OvernightFee, &r.Overnight},
	} {
		if f.raw == "" {
			continue
		}
		d, err := decimal.NewFromString(f.raw)
		if err != nil {
			return Rates{}, fmt.Errorf("pricing.%s: %w", f.name, err)
		}
		if d.IsNegative() {
			return Rates{}, fmt.Errorf("pricing.%s must not be negative", f.name)
		}
		*f.dst = d
	}
	return r, nil
}

// Fee returns the shipping charge of method for a cart with the given
// subtotal. ok is false for an unknown method.
func (r Rates) Fee(method ShippingMethod, pricing cart.Pricing, subtotal decimal.Decimal) (fee decimal.Decimal, ok bool) {
	switch method {
	case ShippingStandard:
		return pricing.Shipping(subtotal), true
	case ShippingExpress:
		return r.Express, true
	case ShippingOvernight:
		return r.Overnight, true
	}
	return decimal.Zero, false
}

// Quote is the price breakdown for the selected shipping method.
type Quote struct {
	ItemCount int             `json:"itemCount"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	Shipping  decimal.Decimal `json:"shipping"`
	Tax       decimal.Decimal `json:"tax"`
	Total     decimal.Decimal `json:"total"`
}

func (r Rates) Quote(summary cart.Summary, pricing cart.Pricing, method ShippingMethod) (Quote, error) {
	if summary.ItemCount == 0 {
		return Quote{}, ErrEmptyCart
	}
	fee, ok := r.Fee(method, pricing, summary.Subtotal)
	if !ok {
		return Quote{}, fmt.Errorf("%w: %q", ErrUnknownShippingMethod, method)
	}
	return Quote{
		ItemCount: summary.ItemCount,
		Subtotal:  summary.Subtotal,
		Shipping:  fee,
		Tax:       summary.Tax,
		Total:     summary.Subtotal.Add(fee).Add(summary.Tax),
	}, nil
}

// Information is the contact and address step of the checkout form.
type Information struct {
	Email      string `json:"email"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Address    string `json:"address"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
	Phone      string `json:"phone"`
}

func (i Information) Validate() error {
	required := []struct{ field, value, label string }{
		{"email", i.Email, "Email"},
		{"firstName", i.FirstName, "First name"},
		{"lastName", i.LastName, "Last name"},
		{"address", i.Address, "Address"},
		{"city", i.City, "City"},
		{"state", i.State, "State"},
		{"postalCode", i.PostalCode, "Postal code"},
		{"country", i.Country, "Country"},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return models.NewValidationError(r.field, r.label+" is required")
		}
	}
	if !models.ValidEmail(i.Email) {
		return models.NewValidationError("email", "Please enter a valid email")
	}
	return nil
}

func (i Information) ShippingAddress() models.ShippingAddress {
	return models.ShippingAddress{
		FullName:   strings.TrimSpace(i.FirstName + " " + i.LastName),
		Phone:      i.Phone,
		Street:     i.Address,
		City:       i.City,
		State:      i.State,
		PostalCode: i.PostalCode,
		Country:    i.Country,
	}
}
