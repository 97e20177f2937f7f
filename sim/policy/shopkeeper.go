package policy

import (
	"fmt"
	"strings"

	"github.com/vending-sim/vending-sim/sim"
)

// Shopkeeper is a simple rule-based operator: read mail, collect cash,
// reorder when stock runs low, price anything unpriced, otherwise wait.
// It gives trace datasets a sensible baseline trajectory and exercises the
// full order lifecycle deterministically.
type Shopkeeper struct {
	// ReorderBelow triggers a reorder when total machine stock drops under
	// this many units and no order is already pending.
	ReorderBelow int
	// OrderQty is the per-product quantity on each reorder.
	OrderQty int
	// SupplierAddr receives the reorder emails.
	SupplierAddr string
	// Products to keep stocked.
	Products []string
}

// NewShopkeeper returns a shopkeeper with workable defaults against the
// default supplier catalog.
func NewShopkeeper() *Shopkeeper {
	return &Shopkeeper{
		ReorderBelow: 10,
		OrderQty:     20,
		SupplierAddr: "supplier_1",
		Products:     []string{"chips", "cookies", "gum"},
	}
}

func (a *Shopkeeper) Name() string { return "shopkeeper" }

func (a *Shopkeeper) NextAction(obs sim.Observation) Action {
	if obs.UnreadMail > 0 {
		return Action{Tool: "check_email", Args: map[string]any{"limit": float64(10)}}
	}
	if obs.CashInMachine > 5 {
		return Action{Tool: "collect_cash"}
	}
	for _, slot := range obs.Slots {
		if slot.Product != "" && slot.Stock > 0 && slot.Price == 0 {
			return Action{Tool: "set_price", Args: map[string]any{
				"slot_id": float64(slot.ID),
				"price":   2.0,
			}}
		}
	}
	if a.totalStock(obs) < a.ReorderBelow && len(obs.PendingOrders) == 0 {
		var lines []string
		for _, p := range a.Products {
			lines = append(lines, fmt.Sprintf("%s %d", p, a.OrderQty))
		}
		return Action{Tool: "send_email", Args: map[string]any{
			"to_addr": a.SupplierAddr,
			"subject": "restock order",
			"body":    strings.Join(lines, "\n"),
		}}
	}
	return Action{Tool: "wait_for_next_day"}
}

func (a *Shopkeeper) totalStock(obs sim.Observation) int {
	total := 0
	for _, slot := range obs.Slots {
		total += slot.Stock
	}
	return total
}
