package sim

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func testSupplier() *Supplier {
	return &Supplier{
		ID:   "supplier_1",
		Name: "Bulk Snacks Co",
		Catalog: map[string]decimal.Decimal{
			"cola":     decimal.NewFromFloat(1.00),
			"gum":      decimal.NewFromFloat(0.70),
			"red_bull": decimal.NewFromFloat(1.70),
			"sandwich": decimal.NewFromFloat(2.50),
		},
		SizeClasses:   map[string]SizeClass{"sandwich": SizeLarge},
		MinOrderValue: decimal.NewFromFloat(50.0),
		LeadTimeMin:   2,
		LeadTimeMax:   2, // fixed lead for deterministic assertions
	}
}

func testRegistry() *SupplierRegistry {
	r := NewSupplierRegistry(rand.New(rand.NewSource(1)))
	r.Register(testSupplier())
	return r
}

func TestParseOrderLines_Lenient(t *testing.T) {
	s := testSupplier()
	tests := []struct {
		name string
		body string
		want map[string]int
	}{
		{"plain lines", "cola 30\ngum 40", map[string]int{"cola": 30, "gum": 40}},
		{"commas and case", "Cola, 30\nGUM 40", map[string]int{"cola": 30, "gum": 40}},
		{"multi-word product", "red bull 5", map[string]int{"red_bull": 5}},
		{"junk skipped", "hello there\ncola 30\nplease deliver soon", map[string]int{"cola": 30}},
		{"unknown product skipped", "caviar 10\ngum 5", map[string]int{"gum": 5}},
		{"zero and negative skipped", "cola 0\ngum -3", map[string]int{}},
		{"repeated lines accumulate", "cola 10\ncola 20", map[string]int{"cola": 30}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseOrderLines(tt.body, s)
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for id, qty := range tt.want {
				if got[id] != qty {
					t.Errorf("%s: got %d, want %d", id, got[id], qty)
				}
			}
		})
	}
}

func TestParseOrderEmail_UnknownSupplier(t *testing.T) {
	// GIVEN a registry without the addressed supplier
	r := testRegistry()

	// WHEN mailing an unknown address
	quote := r.ParseOrderEmail("nobody", "order", "cola 100", 0)

	// THEN the mail bounces with the known supplier list
	if quote.Order != nil {
		t.Fatal("order accepted for unknown supplier")
	}
	if !strings.Contains(quote.ReplyBody, "supplier_1") {
		t.Errorf("bounce reply does not list suppliers: %q", quote.ReplyBody)
	}
}

func TestParseOrderEmail_InquiryGetsCatalog(t *testing.T) {
	// GIVEN a body with no parsable order lines
	r := testRegistry()

	// WHEN mailing the supplier
	quote := r.ParseOrderEmail("supplier_1", "hello", "what do you sell?", 0)

	// THEN the reply is the price list, not a rejection
	if quote.Order != nil {
		t.Fatal("order accepted from inquiry")
	}
	if !strings.Contains(quote.ReplyBody, "price list") || !strings.Contains(quote.ReplyBody, "cola") {
		t.Errorf("reply is not a catalog: %q", quote.ReplyBody)
	}
}

func TestParseOrderEmail_BelowMinimumRejected(t *testing.T) {
	// GIVEN an order worth $7 against a $50 minimum
	r := testRegistry()

	quote := r.ParseOrderEmail("supplier_1", "order", "gum 10", 0)

	if quote.Order != nil {
		t.Fatal("below-minimum order accepted")
	}
	if !strings.Contains(quote.ReplyBody, "minimum") {
		t.Errorf("rejection does not mention the minimum: %q", quote.ReplyBody)
	}
}

func TestParseOrderEmail_Accepted(t *testing.T) {
	// GIVEN a valid order on day 3
	r := testRegistry()

	// WHEN the supplier quotes it
	quote := r.ParseOrderEmail("supplier_1", "order", "cola 30\ngum 40", 3)

	// THEN the pending order carries the right total and a fixed-lead ETA
	if quote.Order == nil {
		t.Fatalf("order rejected: %s", quote.Err)
	}
	o := quote.Order
	want := decimal.NewFromFloat(30*1.00 + 40*0.70)
	if !o.Total.Equal(want) {
		t.Errorf("total = %s, want %s", o.Total, want)
	}
	if o.PlacedDay != 3 || o.ETADay != 5 {
		t.Errorf("placed day %d eta %d, want 3 and 5", o.PlacedDay, o.ETADay)
	}
	if o.SupplierID != "supplier_1" {
		t.Errorf("supplier = %s", o.SupplierID)
	}
	// No funds check at placement: payment is verified at delivery.
	if !strings.Contains(quote.ReplyBody, "payable on delivery") {
		t.Errorf("confirmation does not state payment terms: %q", quote.ReplyBody)
	}
}

func TestParseOrderEmail_AddressNormalization(t *testing.T) {
	r := testRegistry()
	quote := r.ParseOrderEmail("  Supplier_1  ", "order", "cola 60", 0)
	if quote.Order == nil {
		t.Fatalf("normalized address rejected: %s", quote.Err)
	}
}

func TestParseOrderEmail_DeterministicOrderIDs(t *testing.T) {
	// GIVEN two registries with identical supplier streams
	r1 := testRegistry()
	r2 := testRegistry()

	// WHEN the same order sequence is placed in each
	q1 := r1.ParseOrderEmail("supplier_1", "order", "cola 60", 0)
	q2 := r2.ParseOrderEmail("supplier_1", "order", "cola 60", 0)

	// THEN the generated order IDs match
	if q1.Order.ID != q2.Order.ID {
		t.Errorf("order IDs differ: %s vs %s", q1.Order.ID, q2.Order.ID)
	}
}

func TestRegister_KeepsCheapestWholesale(t *testing.T) {
	// GIVEN two suppliers carrying cola at different prices
	r := NewSupplierRegistry(rand.New(rand.NewSource(1)))
	r.Register(&Supplier{ID: "a", Catalog: map[string]decimal.Decimal{"cola": decimal.NewFromFloat(1.10)}})
	r.Register(&Supplier{ID: "b", Catalog: map[string]decimal.Decimal{"cola": decimal.NewFromFloat(1.00)}})

	// THEN the merged catalog anchors on the cheaper price
	p, ok := r.Product("cola")
	if !ok {
		t.Fatal("cola missing from merged catalog")
	}
	if !p.Wholesale.Equal(decimal.NewFromFloat(1.00)) {
		t.Errorf("wholesale = %s, want 1.00", p.Wholesale)
	}
}

func TestSupplier_LeadTimeRange(t *testing.T) {
	s := &Supplier{LeadTimeMin: 2, LeadTimeMax: 4}
	rng := rand.New(rand.NewSource(9))
	seen := make(map[int]bool)
	for i := 0; i < 200; i++ {
		lead := s.LeadTime(rng)
		if lead < 2 || lead > 4 {
			t.Fatalf("lead time %d outside [2, 4]", lead)
		}
		seen[lead] = true
	}
	// Both endpoints are reachable (inclusive range)
	if !seen[2] || !seen[4] {
		t.Errorf("endpoints not drawn: %v", seen)
	}
}

func TestTitleCase(t *testing.T) {
	tests := []struct{ in, want string }{
		{"cola", "Cola"},
		{"red_bull", "Red Bull"},
		{"orange_juice", "Orange Juice"},
	}
	for _, tt := range tests {
		if got := titleCase(tt.in); got != tt.want {
			t.Errorf("titleCase(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDefaultSuppliers_Registerable(t *testing.T) {
	r := NewSupplierRegistry(rand.New(rand.NewSource(1)))
	for _, s := range DefaultSuppliers() {
		r.Register(s)
	}
	if len(r.Suppliers()) != 2 {
		t.Fatalf("got %d suppliers, want 2", len(r.Suppliers()))
	}
	if p, ok := r.Product("sandwich"); !ok || p.Class != SizeLarge {
		t.Error("sandwich missing or not large")
	}
	if p, ok := r.Product("cola"); !ok || !p.Wholesale.Equal(decimal.NewFromFloat(1.00)) {
		t.Error("cola wholesale should be the cheaper $1.00")
	}
}
