// Suppliers and the email order channel. Ordering is asynchronous: the
// agent emails a supplier, the supplier quotes and schedules delivery, and
// cash changes hands only when the delivery resolves at day rollover.

package sim

import (
	"fmt"
	"math/rand"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is one catalog entry, shared across suppliers that carry it.
// Wholesale is the cheapest offered unit price, used by the demand model
// as its reference-price anchor.
type Product struct {
	ID        string
	Name      string
	Class     SizeClass
	Wholesale decimal.Decimal
}

// Supplier sells a catalog of products with its own pricing, minimum order
// value, and delivery lead-time range.
type Supplier struct {
	ID            string
	Name          string
	Catalog       map[string]decimal.Decimal // product -> unit price
	SizeClasses   map[string]SizeClass       // product -> size class
	MinOrderValue decimal.Decimal
	LeadTimeMin   int // days, inclusive
	LeadTimeMax   int // days, inclusive
}

// UnitPrice returns the supplier's price for a product, if carried.
func (s *Supplier) UnitPrice(productID string) (decimal.Decimal, bool) {
	p, ok := s.Catalog[productID]
	return p, ok
}

// LeadTime draws a delivery lead time in days from the supplier stream.
func (s *Supplier) LeadTime(rng *rand.Rand) int {
	if s.LeadTimeMax <= s.LeadTimeMin {
		return s.LeadTimeMin
	}
	return s.LeadTimeMin + rng.Intn(s.LeadTimeMax-s.LeadTimeMin+1)
}

func (s *Supplier) sortedProducts() []string {
	ids := make([]string, 0, len(s.Catalog))
	for id := range s.Catalog {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// OrderQuote is the outcome of interpreting an agent email to a supplier.
// Exactly one of Order (accepted) or Err (rejected) is set; the reply
// fields always carry the supplier's templated response.
type OrderQuote struct {
	Order        *PendingOrder
	Err          string
	ReplySubject string
	ReplyBody    string
}

// SupplierRegistry holds all suppliers of an episode plus the merged
// product catalog. Lead times are the only randomness here and come from
// the episode's supplier stream.
type SupplierRegistry struct {
	rng       *rand.Rand
	suppliers map[string]*Supplier
	listing   []string // registration order, for stable catalogs
	products  map[string]Product
	orderSeq  int
}

// NewSupplierRegistry creates an empty registry over the supplier stream.
func NewSupplierRegistry(rng *rand.Rand) *SupplierRegistry {
	return &SupplierRegistry{
		rng:       rng,
		suppliers: make(map[string]*Supplier),
		products:  make(map[string]Product),
	}
}

// Register adds a supplier and merges its products into the shared
// catalog. The catalog keeps the cheapest wholesale price per product.
func (r *SupplierRegistry) Register(s *Supplier) {
	if _, ok := r.suppliers[s.ID]; !ok {
		r.listing = append(r.listing, s.ID)
	}
	r.suppliers[s.ID] = s
	for id, price := range s.Catalog {
		class := SizeSmall
		if c, ok := s.SizeClasses[id]; ok {
			class = c
		}
		existing, ok := r.products[id]
		if !ok || price.LessThan(existing.Wholesale) {
			r.products[id] = Product{
				ID:        id,
				Name:      titleCase(id),
				Class:     class,
				Wholesale: price,
			}
		}
	}
}

// Get returns a supplier by ID (addresses are supplier IDs).
func (r *SupplierRegistry) Get(id string) (*Supplier, bool) {
	s, ok := r.suppliers[strings.ToLower(strings.TrimSpace(id))]
	return s, ok
}

// Suppliers returns all suppliers in registration order.
func (r *SupplierRegistry) Suppliers() []*Supplier {
	out := make([]*Supplier, 0, len(r.listing))
	for _, id := range r.listing {
		out = append(out, r.suppliers[id])
	}
	return out
}

// Product returns the merged catalog entry for a product.
func (r *SupplierRegistry) Product(id string) (Product, bool) {
	p, ok := r.products[id]
	return p, ok
}

// Products returns the merged catalog sorted by product ID.
func (r *SupplierRegistry) Products() []Product {
	ids := make([]string, 0, len(r.products))
	for id := range r.products {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]Product, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.products[id])
	}
	return out
}

// parseOrderLines extracts product/quantity pairs from an email body.
// The parser is deliberately lenient: one item per line, quantity last,
// commas treated as whitespace, product names matched case-insensitively
// with spaces or underscores. Lines that do not parse are skipped.
func parseOrderLines(body string, s *Supplier) map[string]int {
	items := make(map[string]int)
	for _, line := range strings.Split(strings.ReplaceAll(body, ",", " "), "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		qty, err := strconv.Atoi(fields[len(fields)-1])
		if err != nil || qty <= 0 {
			continue
		}
		name := strings.ToLower(strings.Join(fields[:len(fields)-1], "_"))
		if _, ok := s.Catalog[name]; ok {
			items[name] += qty
		}
	}
	return items
}

// ParseOrderEmail interprets an agent email to a supplier address as an
// order request and returns a quote. Orders are accepted without a funds
// check; payment is verified at delivery. A body with no parsable order
// lines is answered with the supplier's catalog instead of a rejection.
func (r *SupplierRegistry) ParseOrderEmail(toAddr, subject, body string, day int) OrderQuote {
	reply := "Re: " + truncate(subject, 50)
	s, ok := r.Get(toAddr)
	if !ok {
		return OrderQuote{
			Err:          fmt.Sprintf("unknown supplier address %q", toAddr),
			ReplySubject: "Undeliverable: " + truncate(subject, 50),
			ReplyBody:    "This address does not exist. Known suppliers: " + strings.Join(r.listing, ", ") + ".",
		}
	}

	items := parseOrderLines(body, s)
	if len(items) == 0 {
		// Treat as an inquiry: answer with the price list.
		return OrderQuote{
			Err:          "no order lines found",
			ReplySubject: reply,
			ReplyBody:    r.catalogReply(s),
		}
	}

	total := decimal.Zero
	unitPrices := make(map[string]decimal.Decimal, len(items))
	for id, qty := range items {
		price, _ := s.UnitPrice(id)
		unitPrices[id] = price
		total = total.Add(price.Mul(decimal.NewFromInt(int64(qty))))
	}
	if total.LessThan(s.MinOrderValue) {
		return OrderQuote{
			Err:          fmt.Sprintf("order total %s below minimum %s", total.StringFixed(2), s.MinOrderValue.StringFixed(2)),
			ReplySubject: reply,
			ReplyBody: fmt.Sprintf("Our minimum order value is $%s; your order totals $%s. Please add items and resend.",
				s.MinOrderValue.StringFixed(2), total.StringFixed(2)),
		}
	}

	lead := s.LeadTime(r.rng)
	order := &PendingOrder{
		ID:         r.nextOrderID(),
		SupplierID: s.ID,
		Items:      items,
		UnitPrices: unitPrices,
		Total:      total,
		PlacedDay:  day,
		ETADay:     day + lead,
	}
	return OrderQuote{
		Order:        order,
		ReplySubject: fmt.Sprintf("Order confirmed (%s)", shortID(order.ID)),
		ReplyBody: fmt.Sprintf(
			"Order confirmed. Total: $%s, payable on delivery. Expected delivery: day %d (in %d days). "+
				"Make sure your account covers the total when the truck arrives, or the order will be cancelled.",
			total.StringFixed(2), order.ETADay, lead),
	}
}

// nextOrderID returns a name-based UUID derived from the order sequence
// number. Random v4 UUIDs would make otherwise identical episodes diverge
// in their mail text, so IDs must be a pure function of episode history.
func (r *SupplierRegistry) nextOrderID() string {
	r.orderSeq++
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(fmt.Sprintf("order_%d", r.orderSeq))).String()
}

// catalogReply renders a supplier's price list for inquiry replies.
func (r *SupplierRegistry) catalogReply(s *Supplier) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s price list:\n", s.Name)
	for _, id := range s.sortedProducts() {
		class := s.SizeClasses[id]
		if class == "" {
			class = SizeSmall
		}
		fmt.Fprintf(&b, "  %s: $%s (%s)\n", id, s.Catalog[id].StringFixed(2), class)
	}
	fmt.Fprintf(&b, "Minimum order $%s, delivery in %d-%d days, payment on delivery.\n",
		s.MinOrderValue.StringFixed(2), s.LeadTimeMin, s.LeadTimeMax)
	fmt.Fprintf(&b, "To order, list one item per line as 'product quantity', e.g. 'cola 24'.")
	return b.String()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// titleCase turns a product ID like "orange_juice" into "Orange Juice".
func titleCase(id string) string {
	words := strings.Split(id, "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

// shortID shortens a UUID for human-readable references in mail.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
