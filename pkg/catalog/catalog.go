package catalog

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/wisharea/storefront/pkg/models"
)

type SortOrder string

const (
	SortNewest    SortOrder = "newest"
	SortPriceLow  SortOrder = "price-low"
	SortPriceHigh SortOrder = "price-high"
	SortRating    SortOrder = "rating"
	SortPopular   SortOrder = "popular"
)

// Criteria narrows a product listing. Zero values mean "no constraint";
// an unknown SortBy keeps catalog order.
type Criteria struct {
	Category    string
	MinPrice    *decimal.Decimal
	MaxPrice    *decimal.Decimal
	MinRating   *float64
	InStockOnly bool
	Query       string
	SortBy      SortOrder
}

// Catalog is the read-only product collaborator. Every method returns
// deep copies; callers cannot mutate the reference data.
type Catalog struct {
	products   []models.Product
	categories []models.Category
	byID       map[string]int
}

func New(products []models.Product, categories []models.Category) *Catalog {
	c := &Catalog{
		products:   cloneAll(products),
		categories: append([]models.Category(nil), categories...),
		byID:       make(map[string]int, len(products)),
	}
	for i, p := range c.products {
		c.byID[p.ID] = i
	}
	return c
}

// NewDefault returns the catalog seeded with the demo storefront data.
func NewDefault() *Catalog {
	return New(SeedProducts, SeedCategories)
}

func (c *Catalog) All() []models.Product {
	return cloneAll(c.products)
}

func (c *Catalog) Categories() []models.Category {
	return append([]models.Category(nil), c.categories...)
}

func (c *Catalog) GetByID(id string) (models.Product, bool) {
	i, ok := c.byID[id]
	if !ok {
		return models.Product{}, false
	}
	return c.products[i].Clone(), true
}

func (c *Catalog) ByCategory(slug string) []models.Product {
	return c.FilterBy(Criteria{Category: slug})
}

// Search matches query case-insensitively against name, description and tags.
func (c *Catalog) Search(query string) []models.Product {
	var out []models.Product
	for _, p := range c.products {
		if matches(p, query) {
			out = append(out, p.Clone())
		}
	}
	return out
}

func (c *Catalog) FilterBy(cr Criteria) []models.Product {
	var out []models.Product
	for _, p := range c.products {
		if cr.Category != "" && p.Category != cr.Category {
			continue
		}
		if cr.MinPrice != nil && p.Price.LessThan(*cr.MinPrice) {
			continue
		}
		if cr.MaxPrice != nil && p.Price.GreaterThan(*cr.MaxPrice) {
			continue
		}
		if cr.MinRating != nil && p.Rating < *cr.MinRating {
			continue
		}
		if cr.InStockOnly && !p.InStock {
			continue
		}
		if cr.Query != "" && !matches(p, cr.Query) {
			continue
		}
		out = append(out, p.Clone())
	}

	sortProducts(out, cr.SortBy)
	return out
}

func cloneAll(ps []models.Product) []models.Product {
	out := make([]models.Product, len(ps))
	for i, p := range ps {
		out[i] = p.Clone()
	}
	return out
}

func matches(p models.Product, query string) bool {
	q := strings.ToLower(query)
	if strings.Contains(strings.ToLower(p.Name), q) || strings.Contains(strings.ToLower(p.Description), q) {
		return true
	}
	for _, tag := range p.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}

func sortProducts(ps []models.Product, order SortOrder) {
	var less func(a, b models.Product) bool
	switch order {
	case SortPriceLow:
		less = func(a, b models.Product) bool { return a.Price.LessThan(b.Price) }
	case SortPriceHigh:
		less = func(a, b models.Product) bool { return a.Price.GreaterThan(b.Price) }
	case SortRating:
		less = func(a, b models.Product) bool { return a.Rating > b.Rating }
	case SortNewest:
		less = func(a, b models.Product) bool { return a.CreatedAt.After(b.CreatedAt) }
	case SortPopular:
		less = func(a, b models.Product) bool { return a.Reviews > b.Reviews }
	default:
		return
	}
	sort.SliceStable(ps, func(i, j int) bool { return less(ps[i], ps[j]) })
}
