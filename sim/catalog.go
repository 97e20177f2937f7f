package sim

import "github.com/shopspring/decimal"

// DefaultSuppliers returns the two built-in wholesalers with overlapping
// catalogs and different pricing, minimums, and lead times. This is a
// configuration convenience for reproducible runs, not engine behavior;
// callers may register any suppliers they like instead.
func DefaultSuppliers() []*Supplier {
	largeItems := map[string]SizeClass{
		"sandwich": SizeLarge,
		"nuts":     SizeLarge,
	}
	return []*Supplier{
		{
			ID:   "supplier_1",
			Name: "Bulk Snacks Co",
			Catalog: map[string]decimal.Decimal{
				"cola":         decimal.NewFromFloat(1.00),
				"water":        decimal.NewFromFloat(0.60),
				"chips":        decimal.NewFromFloat(1.20),
				"snickers":     decimal.NewFromFloat(1.10),
				"red_bull":     decimal.NewFromFloat(1.70),
				"orange_juice": decimal.NewFromFloat(1.50),
				"cookies":      decimal.NewFromFloat(1.30),
				"gum":          decimal.NewFromFloat(0.70),
			},
			SizeClasses:   largeItems,
			MinOrderValue: decimal.NewFromFloat(50.0),
			LeadTimeMin:   2,
			LeadTimeMax:   4,
		},
		{
			ID:   "supplier_2",
			Name: "Beverage & More",
			Catalog: map[string]decimal.Decimal{
				"cola":         decimal.NewFromFloat(1.10),
				"water":        decimal.NewFromFloat(0.65),
				"red_bull":     decimal.NewFromFloat(1.80),
				"orange_juice": decimal.NewFromFloat(1.60),
				"nuts":         decimal.NewFromFloat(1.90),
				"sandwich":     decimal.NewFromFloat(2.60),
				"chips":        decimal.NewFromFloat(1.25),
				"gum":          decimal.NewFromFloat(0.75),
			},
			SizeClasses:   largeItems,
			MinOrderValue: decimal.NewFromFloat(40.0),
			LeadTimeMin:   3,
			LeadTimeMax:   5,
		},
	}
}
