package catalog

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/wisharea/storefront/pkg/models"
)

func price(v string) *decimal.Decimal {
	d := decimal.RequireFromString(v)
	return &d
}

func date(v string) time.Time {
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		panic(err)
	}
	return t
}

// SeedCategories are the storefront's departments.
var SeedCategories = []models.Category{
	{ID: "living", Name: "Living Room", Slug: "living", Image: "https://images.unsplash.com/photo-1586023492125-27b2c045efd7?w=800&q=80", Description: "Create a space that reflects your style"},
	{ID: "dining", Name: "Dining", Slug: "dining", Image: "https://images.unsplash.com/photo-1617806118233-18e1de247200?w=800&q=80", Description: "Gather around tables designed for connection"},
	{ID: "bedroom", Name: "Bedroom", Slug: "bedroom", Image: "https://images.unsplash.com/photo-1540518614846-7eded433c457?w=800&q=80", Description: "Your sanctuary for rest and renewal"},
	{ID: "decor", Name: "Decor", Slug: "decor", Image: "https://images.unsplash.com/photo-1513506003901-1e6a229e2d15?w=800&q=80", Description: "Details that make a house a home"},
	{ID: "outdoor", Name: "Outdoor", Slug: "outdoor", Image: "https://images.unsplash.com/photo-1600566752355-35792bedcfea?w=800&q=80", Description: "Extend your living space outdoors"},
}

// SeedProducts is the demo catalog.
var SeedProducts = []models.Product{
	{
		ID:            "prod-001",
		Name:          "Minimal Oak Side Table",
		Description:   "A beautifully crafted side table made from sustainable oak. Perfect for adding a touch of warmth to any room. Features clean lines and a natural finish that highlights the wood grain.",
		Price:         decimal.RequireFromString("299"),
		OriginalPrice: price("399"),
		Category:      "living",
		Rating:        4.8,
		Reviews:       124,
		Image:         "https://images.unsplash.com/photo-1613575831056-0acd5da8f085?w=800&q=80",
		HoverImage:    "https://images.unsplash.com/photo-1616486338812-3dadae4b4ace?w=800&q=80",
		Images: []string{
			"https://images.unsplash.com/photo-1613575831056-0acd5da8f085?w=800&q=80",
			"https://images.unsplash.com/photo-1616486338812-3dadae4b4ace?w=800&q=80",
			"https://images.unsplash.com/photo-1555041469-a586c61ea9bc?w=800&q=80",
		},
		InStock:    true,
		StockCount: 15,
		Tags:       []string{"bestseller", "sale", "wood"},
		CreatedAt:  date("2024-01-15"),
	},
	{
		ID:            "prod-002",
		Name:          "Linen Comfort Sofa",
		Description:   "Sink into pure comfort with our Linen Comfort Sofa. Upholstered in premium Belgian linen, this sofa combines timeless elegance with exceptional durability. Deep cushions and down-wrapped foam provide the perfect balance of support and softness.",
		Price:         decimal.RequireFromString("1299"),
		OriginalPrice: nil,
		Category:      "living",
		Rating:        4.9,
		Reviews:       89,
		Image:         "https://images.unsplash.com/photo-1555041469-a586c61ea9bc?w=800&q=80",
		HoverImage:    "https://images.unsplash.com/photo-1540574163026-643ea20ade25?w=800&q=80",
		Images: []string{
			"https://images.unsplash.com/photo-1555041469-a586c61ea9bc?w=800&q=80",
			"https://images.unsplash.com/photo-1540574163026-643ea20ade25?w=800&q=80",
		},
		InStock:    true,
		StockCount: 8,
		Tags:       []string{"bestseller", "premium"},
		CreatedAt:  date("2024-01-10"),
	},
	{
		ID:            "prod-003",
		Name:          "Ceramic Vase Set",
		Description:   "A trio of handcrafted ceramic vases in varying heights. Each piece is wheel-thrown by skilled artisans and finished with a matte glaze. Perfect for displaying fresh flowers or as standalone decorative objects.",
		Price:         decimal.RequireFromString("89"),
		OriginalPrice: price("129"),
		Category:      "decor",
		Rating:        4.7,
		Reviews:       203,
		Image:         "https://images.unsplash.com/photo-1578500494198-246f612d3b3d?w=800&q=80",
		HoverImage:    "https://images.unsplash.com/photo-1565193566173-7a0ee3dbe261?w=800&q=80",
		Images: []string{
			"https://images.unsplash.com/photo-1578500494198-246f612d3b3d?w=800&q=80",
			"https://images.unsplash.com/photo-1565193566173-7a0ee3dbe261?w=800&q=80",
		},
		InStock:    true,
		StockCount: 45,
		Tags:       []string{"sale", "handmade"},
		CreatedAt:  date("2024-01-20"),
	},
	{
		ID:            "prod-004",
		Name:          "Wool Area Rug",
		Description:   "Add warmth and texture to your floors with this hand-knotted wool rug. Crafted using traditional techniques passed down through generations. The neutral palette complements any décor style.",
		Price:         decimal.RequireFromString("459"),
		OriginalPrice: nil,
		Category:      "decor",
		Rating:        4.8,
		Reviews:       156,
		Image:         "https://images.unsplash.com/photo-1600166898405-da9535204843?w=800&q=80",
		HoverImage:    "https://images.unsplash.com/photo-1601887370915-c7426fe5159a?w=800&q=80",
		Images: []string{
			"https://images.unsplash.com/photo-1600166898405-da9535204843?w=800&q=80",
			"https://images.unsplash.com/photo-1601887370915-c7426fe5159a?w=800&q=80",
		},
		InStock:    true,
		StockCount: 12,
		Tags:       []string{"premium", "handmade"},
		CreatedAt:  date("2024-01-08"),
	},
	{
		ID:            "prod-005",
		Name:          "Modern Floor Lamp",
		Description:   "Illuminate your space with this sculptural floor lamp. Features an adjustable brass arm and a linen drum shade that casts a warm, diffused light. The marble base adds stability and sophistication.",
		Price:         decimal.RequireFromString("189"),
		OriginalPrice: price("249"),
		Category:      "decor",
		Rating:        4.6,
		Reviews:       98,
		Image:         "https://images.unsplash.com/photo-1524484485831-a92ffc0de03f?w=800&q=80",
		HoverImage:    "https://images.unsplash.com/photo-1507473885765-e6ed057f782c?w=800&q=80",
		Images: []string{
			"https://images.unsplash.com/photo-1524484485831-a92ffc0de03f?w=800&q=80",
			"https://images.unsplash.com/photo-1507473885765-e6ed057f782c?w=800&q=80",
		},
		InStock:    true,
		StockCount: 20,
		Tags:       []string{"sale", "lighting"},
		CreatedAt:  date("2024-01-25"),
	},
	{
		ID:            "prod-006",
		Name:          "Oak Dining Table",
		Description:   "Gather around this stunning oak dining table. Its live-edge design celebrates the natural beauty of the wood, while the modern steel legs provide a contemporary contrast. Seats 6-8 comfortably.",
		Price:         decimal.RequireFromString("1599"),
		OriginalPrice: price("1899"),
		Category:      "dining",
		Rating:        4.9,
		Reviews:       67,
		Image:         "https://images.unsplash.com/photo-1617806118233-18e1de247200?w=800&q=80",
		HoverImage:    "https://images.unsplash.com/photo-1595428774223-ef52624120d2?w=800&q=80",
		Images: []string{
			"https://images.unsplash.com/photo-1617806118233-18e1de247200?w=800&q=80",
			"https://images.unsplash.com/photo-1595428774223-ef52624120d2?w=800&q=80",
		},
		InStock:    true,
		StockCount: 5,
		Tags:       []string{"sale", "premium", "wood"},
		CreatedAt:  date("2024-01-12"),
	},
	{
		ID:            "prod-007",
		Name:          "Velvet Dining Chairs (Set of 2)",
		Description:   "Elevate your dining experience with these luxurious velvet chairs. The curved backrest provides excellent support, while the gold-finished legs add a touch of glamour. Sold as a set of 2.",
		Price:         decimal.RequireFromString("449"),
		OriginalPrice: nil,
		Category:      "dining",
		Rating:        4.7,
		Reviews:       134,
		Image:         "https://images.unsplash.com/photo-1617364852223-75e67b27cfe6?w=800&q=80",
		HoverImage:    "https://images.unsplash.com/photo-1618220179428-22790b461013?w=800&q=80",
		Images: []string{
			"https://images.unsplash.com/photo-1617364852223-75e67b27cfe6?w=800&q=80",
			"https://images.unsplash.com/photo-1618220179428-22790b461013?w=800&q=80",
		},
		InStock:    true,
		StockCount: 18,
		Tags:       []string{"bestseller"},
		CreatedAt:  date("2024-01-18"),
	},
	{
		ID:            "prod-008",
		Name:          "King Platform Bed Frame",
		Description:   "Sleep in style on this minimalist platform bed. The low-profile design creates an airy feel, while the solid wood construction ensures lasting durability. Includes headboard and side rails.",
		Price:         decimal.RequireFromString("899"),
		OriginalPrice: price("1099"),
		Category:      "bedroom",
		Rating:        4.8,
		Reviews:       211,
		Image:         "https://images.unsplash.com/photo-1540518614846-7eded433c457?w=800&q=80",
		HoverImage:    "https://images.unsplash.com/photo-1556909114-f6e7ad7d3136?w=800&q=80",
		Images: []string{
			"https://images.unsplash.com/photo-1540518614846-7eded433c457?w=800&q=80",
			"https://images.unsplash.com/photo-1556909114-f6e7ad7d3136?w=800&q=80",
		},
		InStock:    true,
		StockCount: 10,
		Tags:       []string{"sale", "bestseller"},
		CreatedAt:  date("2024-01-05"),
	},
	{
		ID:            "prod-009",
		Name:          "Linen Bedding Set",
		Description:   "Transform your bed into a cloud with this premium linen bedding set. Includes duvet cover, fitted sheet, and two pillowcases. Pre-washed for exceptional softness from the first night.",
		Price:         decimal.RequireFromString("279"),
		OriginalPrice: nil,
		Category:      "bedroom",
		Rating:        4.9,
		Reviews:       298,
		Image:         "https://images.unsplash.com/photo-1522771739844-6a9f6d5f14af?w=800&q=80",
		HoverImage:    "https://images.unsplash.com/photo-1631049307264-da0ec9d70304?w=800&q=80",
		Images: []string{
			"https://images.unsplash.com/photo-1522771739844-6a9f6d5f14af?w=800&q=80",
			"https://images.unsplash.com/photo-1631049307264-da0ec9d70304?w=800&q=80",
		},
		InStock:    true,
		StockCount: 35,
		Tags:       []string{"bestseller", "premium"},
		CreatedAt:  date("2024-01-22"),
	},
	{
		ID:            "prod-010",
		Name:          "Nightstand with Drawer",
		Description:   "Keep essentials within reach with this elegant nightstand. Features a spacious drawer for storage and an open shelf for books or decorative items. Crafted from solid walnut.",
		Price:         decimal.RequireFromString("229"),
		OriginalPrice: price("299"),
		Category:      "bedroom",
		Rating:        4.6,
		Reviews:       87,
		Image:         "https://images.unsplash.com/photo-1558997519-83ea9252edf8?w=800&q=80",
		HoverImage:    "https://images.unsplash.com/photo-1616464916356-3a777b2b60b1?w=800&q=80",
		Images: []string{
			"https://images.unsplash.com/photo-1558997519-83ea9252edf8?w=800&q=80",
			"https://images.unsplash.com/photo-1616464916356-3a777b2b60b1?w=800&q=80",
		},
		InStock:    true,
		StockCount: 22,
		Tags:       []string{"sale", "wood"},
		CreatedAt:  date("2024-01-28"),
	},
	{
		ID:            "prod-011",
		Name:          "Outdoor Lounge Chair",
		Description:   "Relax in style with this weather-resistant lounge chair. The teak frame develops a beautiful patina over time, while the quick-dry cushions ensure comfort rain or shine.",
		Price:         decimal.RequireFromString("549"),
		OriginalPrice: nil,
		Category:      "outdoor",
		Rating:        4.7,
		Reviews:       64,
		Image:         "https://images.unsplash.com/photo-1600566752355-35792bedcfea?w=800&q=80",
		HoverImage:    "https://images.unsplash.com/photo-1598300042247-d088f8ab3a91?w=800&q=80",
		Images: []string{
			"https://images.unsplash.com/photo-1600566752355-35792bedcfea?w=800&q=80",
			"https://images.unsplash.com/photo-1598300042247-d088f8ab3a91?w=800&q=80",
		},
		InStock:    true,
		StockCount: 14,
		Tags:       []string{"premium", "outdoor"},
		CreatedAt:  date("2024-02-01"),
	},
	{
		ID:            "prod-012",
		Name:          "Woven Storage Basket",
		Description:   "Organize in style with this handwoven seagrass basket. Perfect for storing blankets, toys, or plants. Each piece is unique due to the natural variations in the material.",
		Price:         decimal.RequireFromString("59"),
		OriginalPrice: price("79"),
		Category:      "decor",
		Rating:        4.5,
		Reviews:       176,
		Image:         "https://images.unsplash.com/photo-1619564703498-e5c62e2a10ec?w=800&q=80",
		HoverImage:    "https://images.unsplash.com/photo-1610701596007-11502861dcfa?w=800&q=80",
		Images: []string{
			"https://images.unsplash.com/photo-1619564703498-e5c62e2a10ec?w=800&q=80",
			"https://images.unsplash.com/photo-1610701596007-11502861dcfa?w=800&q=80",
		},
		InStock:    true,
		StockCount: 50,
		Tags:       []string{"sale", "handmade"},
		CreatedAt:  date("2024-02-05"),
	},
}
