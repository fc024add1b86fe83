package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wisharea/storefront/pkg/models"
)

func ids(ps []models.Product) []string {
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.ID)
	}
	return out
}

func TestSeedDataIsValid(t *testing.T) {
	c := NewDefault()
	require.Len(t, c.All(), 12)
	require.Len(t, c.Categories(), 5)

	for _, p := range c.All() {
		assert.NoError(t, p.Validate(), p.ID)
	}
}

func TestGetByID(t *testing.T) {
	c := NewDefault()

	p, ok := c.GetByID("prod-001")
	require.True(t, ok)
	assert.Equal(t, "Minimal Oak Side Table", p.Name)
	assert.True(t, p.Price.Equal(decimal.NewFromInt(299)))

	_, ok = c.GetByID("prod-999")
	assert.False(t, ok)
}

func TestGetByID_ReturnsCopy(t *testing.T) {
	c := NewDefault()

	p, _ := c.GetByID("prod-001")
	p.Name = "changed"

	again, _ := c.GetByID("prod-001")
	assert.Equal(t, "Minimal Oak Side Table", again.Name)
}

func TestResultsShareNoMemory(t *testing.T) {
	c := NewDefault()
	original, _ := c.GetByID("prod-001")
	require.NotNil(t, original.OriginalPrice)
	require.NotEmpty(t, original.Tags)
	require.NotEmpty(t, original.Images)

	mutate := func(p models.Product) {
		p.Tags[0] = "mutated"
		p.Images[0] = "mutated"
		*p.OriginalPrice = decimal.NewFromInt(1)
	}
	find := func(ps []models.Product) models.Product {
		for _, p := range ps {
			if p.ID == "prod-001" {
				return p
			}
		}
		t.Fatal("prod-001 missing from results")
		return models.Product{}
	}
	p, _ := c.GetByID("prod-001")
	mutate(p)
	mutate(find(c.All()))
	mutate(find(c.FilterBy(Criteria{Query: "oak"})))
	mutate(find(c.Search("side table")))

	again, _ := c.GetByID("prod-001")
	assert.Equal(t, original, again)
}

func TestSearch(t *testing.T) {
	c := NewDefault()

	assert.Equal(t, []string{"prod-001", "prod-006"}, ids(c.Search("oak")))
	assert.Equal(t, []string{"prod-002", "prod-005", "prod-009"}, ids(c.Search("LINEN")), "case-insensitive")
	assert.Equal(t, []string{"prod-003", "prod-004", "prod-012"}, ids(c.Search("Handmade")), "matches tags")
	assert.Empty(t, c.Search("xyz"))
}

func TestByCategory(t *testing.T) {
	c := NewDefault()
	assert.Equal(t, []string{"prod-003", "prod-004", "prod-005", "prod-012"}, ids(c.ByCategory("decor")))
	assert.Empty(t, c.ByCategory("garage"))
}

func TestFilterBy(t *testing.T) {
	c := NewDefault()
	lo := decimal.NewFromInt(100)
	hi := decimal.NewFromInt(300)
	rating := 4.9

	tests := []struct {
		name     string
		criteria Criteria
		want     []string
	}{
		{"price range", Criteria{MinPrice: &lo, MaxPrice: &hi}, []string{"prod-001", "prod-005", "prod-009", "prod-010"}},
		{"min rating", Criteria{MinRating: &rating}, []string{"prod-002", "prod-006", "prod-009"}},
		{"category and query", Criteria{Category: "living", Query: "oak"}, []string{"prod-001"}},
		{"in stock only", Criteria{Category: "decor", InStockOnly: true}, []string{"prod-003", "prod-004", "prod-005", "prod-012"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(c.FilterBy(tt.criteria)))
		})
	}
}

func TestFilterBy_Sort(t *testing.T) {
	c := NewDefault()

	assert.Equal(t, []string{"prod-012", "prod-003", "prod-005"}, ids(c.FilterBy(Criteria{SortBy: SortPriceLow}))[:3])
	assert.Equal(t, []string{"prod-006", "prod-002"}, ids(c.FilterBy(Criteria{SortBy: SortPriceHigh}))[:2])
	assert.Equal(t, []string{"prod-009", "prod-008"}, ids(c.FilterBy(Criteria{SortBy: SortPopular}))[:2])
	assert.Equal(t, []string{"prod-012", "prod-011"}, ids(c.FilterBy(Criteria{SortBy: SortNewest}))[:2])
	assert.Equal(t, ids(c.All()), ids(c.FilterBy(Criteria{SortBy: "bogus"})))
}

func TestFilterBy_OutOfStockExcluded(t *testing.T) {
	out := models.Product{ID: "p-out", Name: "Sold Out Stool", Price: decimal.NewFromInt(10), Category: "decor"}
	in := models.Product{ID: "p-in", Name: "Stool", Price: decimal.NewFromInt(10), Category: "decor", InStock: true, StockCount: 1}
	c := New([]models.Product{out, in}, nil)

	assert.Equal(t, []string{"p-in"}, ids(c.FilterBy(Criteria{InStockOnly: true})))
	assert.Equal(t, []string{"p-out", "p-in"}, ids(c.FilterBy(Criteria{})))
}
