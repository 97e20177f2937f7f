package sim

import (
	"math"
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
)

func testEconomy(seed int64) *Economy {
	wholesale := func(string) (decimal.Decimal, bool) {
		return decimal.NewFromFloat(1.00), true
	}
	return NewEconomy(DefaultConfig().Economy, rand.New(rand.NewSource(seed)), wholesale)
}

func stockedSlot(id int, product string, stock int, price float64) *Slot {
	return &Slot{
		ID:        id,
		Capacity:  10,
		ProductID: product,
		Stock:     stock,
		Price:     decimal.NewFromFloat(price),
	}
}

func TestEconomy_Deterministic(t *testing.T) {
	// GIVEN two economies over identically seeded streams
	e1 := testEconomy(7)
	e2 := testEconomy(7)
	slots1 := []*Slot{stockedSlot(0, "cola", 10, 2.00), stockedSlot(1, "gum", 10, 1.00)}
	slots2 := []*Slot{stockedSlot(0, "cola", 10, 2.00), stockedSlot(1, "gum", 10, 1.00)}

	// WHEN drawing demand for the same days
	for day := 0; day < 5; day++ {
		d1 := e1.DemandForDay(slots1, day)
		d2 := e2.DemandForDay(slots2, day)

		// THEN the draws are identical
		if len(d1) != len(d2) {
			t.Fatalf("day %d: %d vs %d slots sold", day, len(d1), len(d2))
		}
		for id, units := range d1 {
			if d2[id] != units {
				t.Errorf("day %d slot %d: %d vs %d units", day, id, units, d2[id])
			}
		}
	}
}

func TestEconomy_DemandCappedAtStock(t *testing.T) {
	// GIVEN a slot with very little stock at a giveaway price
	e := testEconomy(1)
	slots := []*Slot{stockedSlot(0, "cola", 2, 0.01)}

	// WHEN drawing many days of demand
	for day := 0; day < 20; day++ {
		sold := e.DemandForDay(slots, day)

		// THEN sales never exceed available stock
		if sold[0] > slots[0].Stock {
			t.Fatalf("day %d: sold %d with stock %d", day, sold[0], slots[0].Stock)
		}
	}
}

func TestEconomy_EmptySlotsSellNothing(t *testing.T) {
	e := testEconomy(1)
	slots := []*Slot{
		{ID: 0, Capacity: 10},                 // unassigned
		stockedSlot(1, "cola", 0, 2.00),       // out of stock
		stockedSlot(2, "gum", 5, 1.00),        // sellable
		{ID: 3, Capacity: 10, Class: "large"}, // unassigned
	}

	sold := e.DemandForDay(slots, 0)
	if _, ok := sold[0]; ok {
		t.Error("unassigned slot recorded sales")
	}
	if _, ok := sold[1]; ok {
		t.Error("out-of-stock slot recorded sales")
	}
}

func TestEconomy_HigherPriceNeverRaisesExpectedDemand(t *testing.T) {
	// Price factor is (price/ref)^elasticity with elasticity < 0, so the
	// deterministic part of demand must be non-increasing in price. Checked
	// directly on priceFactor to avoid fighting the noise term.
	e := testEconomy(3)
	p := e.paramsFor("cola")

	prices := []float64{0.00, 0.01, 0.50, 1.00, 1.50, 2.00, 3.00, 5.00}
	prev := e.priceFactor(prices[0], p)
	for _, price := range prices[1:] {
		f := e.priceFactor(price, p)
		if f > prev {
			t.Fatalf("price factor rose from %v to %v at price %v", prev, f, price)
		}
		prev = f
	}
}

func TestEconomy_FreeProductIsCheapestPoint(t *testing.T) {
	// GIVEN drawn demand params
	e := testEconomy(9)
	p := e.paramsFor("cola")

	// THEN a price of zero clamps to one cent instead of falling back to a
	// neutral factor below the near-free demand level
	free := e.priceFactor(0, p)
	cent := e.priceFactor(0.01, p)
	if free != cent {
		t.Errorf("factor at $0 = %v, want the one-cent factor %v", free, cent)
	}
	if free < e.priceFactor(0.50, p) {
		t.Errorf("factor at $0 (%v) below factor at $0.50 (%v)", free, e.priceFactor(0.50, p))
	}
	if math.IsInf(free, 0) || math.IsNaN(free) {
		t.Errorf("factor at $0 not finite: %v", free)
	}
}

func TestEconomy_ElasticityIsNegative(t *testing.T) {
	e := testEconomy(11)
	for _, product := range []string{"cola", "gum", "chips"} {
		if p := e.paramsFor(product); p.elasticity >= 0 {
			t.Errorf("%s: elasticity = %v, want negative", product, p.elasticity)
		}
	}
}

func TestEconomy_ParamsDrawnOnce(t *testing.T) {
	// GIVEN an economy that has drawn params for a product
	e := testEconomy(5)
	first := e.paramsFor("cola")

	// WHEN demand consumes more of the stream
	e.DemandForDay([]*Slot{stockedSlot(0, "cola", 10, 2.00)}, 0)

	// THEN the product's hidden params are stable for the episode
	if got := e.paramsFor("cola"); got != first {
		t.Errorf("params changed: %+v vs %+v", got, first)
	}
}

func TestEconomy_WeekendFactor(t *testing.T) {
	e := testEconomy(1)
	if f := e.weekdayFactor(5); f != e.cfg.WeekendBoost {
		t.Errorf("day 5 factor = %v, want weekend boost %v", f, e.cfg.WeekendBoost)
	}
	if f := e.weekdayFactor(2); f != 1.0 {
		t.Errorf("day 2 factor = %v, want 1.0", f)
	}
}

func TestEconomy_VarietyFactorShape(t *testing.T) {
	e := testEconomy(1)
	if e.varietyFactor(0) != 0.5 {
		t.Errorf("variety(0) = %v, want 0.5", e.varietyFactor(0))
	}
	sweet := e.cfg.VarietySweetSpot
	if e.varietyFactor(sweet) != 1.0 {
		t.Errorf("variety(%d) = %v, want 1.0", sweet, e.varietyFactor(sweet))
	}
	if e.varietyFactor(10*sweet) < 0.5 {
		t.Errorf("variety floor broken: %v", e.varietyFactor(10*sweet))
	}
}
