package cart

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/wisharea/storefront/pkg/config"
)

// Pricing holds the business constants behind the derived totals.
type Pricing struct {
	// Orders whose subtotal is strictly greater than this ship free.
	FreeShippingThreshold decimal.Decimal
	ShippingFee           decimal.Decimal
	// Flat-rate estimate applied to the subtotal.
	TaxRate decimal.Decimal
}

func DefaultPricing() Pricing {
	return Pricing{
		FreeShippingThreshold: decimal.NewFromInt(100),
		ShippingFee:           decimal.NewFromInt(15),
		TaxRate:               decimal.RequireFromString("0.08"),
	}
}

func PricingFromConfig(cfg config.PricingConfig) (Pricing, error) {
	p := DefaultPricing()

	fields := []struct {
		name string
		raw  string
		dst  *decimal.Decimal
	}{
		{"free_shipping_threshold", cfg.FreeShippingThreshold, &p.FreeShippingThreshold},
		{"shipping_fee", cfg.ShippingFee, &p.ShippingFee},
		{"tax_rate", cfg.TaxRate, &p.TaxRate},
	}
	for _, f := range fields {
		if f.raw == "" {
			continue
		}
		d, err := decimal.NewFromString(f.raw)
		if err != nil {
			return Pricing{}, fmt.Errorf("pricing.%s: %w", f.name, err)
		}
		if d.IsNegative() {
			return Pricing{}, fmt.Errorf("pricing.%s must not be negative", f.name)
		}
		*f.dst = d
	}
	return p, nil
}

// Shipping is free above the threshold and for an empty cart.
func (p Pricing) Shipping(subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.IsZero() || subtotal.GreaterThan(p.FreeShippingThreshold) {
		return decimal.Zero
	}
	return p.ShippingFee
}

func (p Pricing) Tax(subtotal decimal.Decimal) decimal.Decimal {
	return subtotal.Mul(p.TaxRate)
}

// Summary is every derived figure of a cart, computed from one view of its
// line items. Amounts keep full precision; use Display to render them.
type Summary struct {
	ItemCount int             `json:"itemCount"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	Shipping  decimal.Decimal `json:"shipping"`
	Tax       decimal.Decimal `json:"tax"`
	Total     decimal.Decimal `json:"total"`
}

func (p Pricing) Summarize(items []LineItem) Summary {
	s := Summary{Subtotal: decimal.Zero}
	for _, it := range items {
		s.ItemCount += it.Quantity
		s.Subtotal = s.Subtotal.Add(it.LineTotal())
	}
	s.Shipping = p.Shipping(s.Subtotal)
	s.Tax = p.Tax(s.Subtotal)
	s.Total = s.Subtotal.Add(s.Shipping).Add(s.Tax)
	return s
}

// Display rounds an amount to cents for presentation.
func Display(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// FormatUSD renders an amount the way the storefront shows prices.
func FormatUSD(d decimal.Decimal) string {
	return "$" + Display(d)
}
