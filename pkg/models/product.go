package models

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrMissingProductID   = errors.New("product id is required")
	ErrNonPositivePrice   = errors.New("product price must be greater than zero")
	ErrOriginalPriceLow   = errors.New("original price must be greater than price")
	ErrNegativeStockCount = errors.New("stock count must not be negative")
)

// Product is catalog reference data. Carts and wishlists keep whole copies
// of it, so the JSON form is also the persisted snapshot form.
type Product struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	Description   string           `json:"description"`
	Price         decimal.Decimal  `json:"price"`
	OriginalPrice *decimal.Decimal `json:"originalPrice"`
	Category      string           `json:"category"`
	Rating        float64          `json:"rating"`
	Reviews       int              `json:"reviews"`
	Image         string           `json:"image"`
	HoverImage    string           `json:"hoverImage"`
	Images        []string         `json:"images"`
	InStock       bool             `json:"inStock"`
	StockCount    int              `json:"stockCount"`
	Tags          []string         `json:"tags"`
	CreatedAt     time.Time        `json:"createdAt"`
}

func (p *Product) Validate() error {
	if p.ID == "" {
		return ErrMissingProductID
	}
	if !p.Price.IsPositive() {
		return ErrNonPositivePrice
	}
	if p.OriginalPrice != nil && !p.OriginalPrice.GreaterThan(p.Price) {
		return ErrOriginalPriceLow
	}
	if p.StockCount < 0 {
		return ErrNegativeStockCount
	}
	return nil
}

// Clone returns a copy that shares no slices or pointers with p.
func (p *Product) Clone() Product {
	out := *p
	if p.OriginalPrice != nil {
		op := *p.OriginalPrice
		out.OriginalPrice = &op
	}
	if p.Images != nil {
		out.Images = append([]string(nil), p.Images...)
	}
	if p.Tags != nil {
		out.Tags = append([]string(nil), p.Tags...)
	}
	return out
}

// OnSale reports whether the product carries a crossed-out original price.
func (p *Product) OnSale() bool {
	return p.OriginalPrice != nil
}

type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Image       string `json:"image"`
	Description string `json:"description"`
}
