package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
)

type Order struct {
	ID             string          `gorm:"primaryKey;type:varchar(64)" json:"id"`
	UserID         string          `gorm:"type:varchar(64);index" json:"userId"`
	Items          string          `gorm:"type:text" json:"-"` // JSON array of OrderItem
	ItemCount      int             `json:"itemCount"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(14,4)" json:"subtotal"`
	Shipping       decimal.Decimal `gorm:"type:decimal(14,4)" json:"shipping"`
	Tax            decimal.Decimal `gorm:"type:decimal(14,4)" json:"tax"`
	Total          decimal.Decimal `gorm:"type:decimal(14,4)" json:"total"`
	Status         OrderStatus     `gorm:"type:varchar(20);default:'pending'" json:"status"`
	Email          string          `gorm:"type:varchar(255)" json:"email"`
	ShippingMethod string          `gorm:"type:varchar(20)" json:"shippingMethod"`
	PaymentMethod  string          `gorm:"type:varchar(20)" json:"paymentMethod"`
	Address        string          `gorm:"type:text" json:"-"` // JSON ShippingAddress
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

func (Order) TableName() string {
	return "orders"
}

// LineItems decodes the stored item snapshots. Orders imported without
// line detail return an empty slice.
func (o *Order) LineItems() ([]OrderItem, error) {
	items := []OrderItem{}
	if o.Items == "" {
		return items, nil
	}
	if err := json.Unmarshal([]byte(o.Items), &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (o *Order) ShippingAddress() (*ShippingAddress, error) {
	if o.Address == "" {
		return nil, nil
	}
	var addr ShippingAddress
	if err := json.Unmarshal([]byte(o.Address), &addr); err != nil {
		return nil, err
	}
	return &addr, nil
}

type OrderItem struct {
	ProductID   string          `json:"productId"`
	ProductName string          `json:"productName"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
}

type ShippingAddress struct {
	FullName   string `json:"fullName"`
	Phone      string `json:"phone"`
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}
