package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestProductValidate(t *testing.T) {
	higher := decimal.NewFromInt(399)
	lower := decimal.NewFromInt(199)

	tests := []struct {
		name    string
		product Product
		wantErr error
	}{
		{"valid", Product{ID: "p1", Price: decimal.NewFromInt(299), OriginalPrice: &higher, StockCount: 3}, nil},
		{"no original price", Product{ID: "p1", Price: decimal.NewFromInt(299)}, nil},
		{"missing id", Product{Price: decimal.NewFromInt(1)}, ErrMissingProductID},
		{"zero price", Product{ID: "p1"}, ErrNonPositivePrice},
		{"original below price", Product{ID: "p1", Price: decimal.NewFromInt(299), OriginalPrice: &lower}, ErrOriginalPriceLow},
		{"negative stock", Product{ID: "p1", Price: decimal.NewFromInt(1), StockCount: -1}, ErrNegativeStockCount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.product.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
