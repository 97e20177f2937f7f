// Tool-facing operations. Each validates against current state, mutates,
// and returns a human-readable result string. Clock advancement and the
// (message, terminated) contract are the tool runtime's job.

package sim

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// MoneyBalance reports cash at hand and uncollected machine cash.
func (eng *Engine) MoneyBalance() string {
	st := eng.state
	msg := fmt.Sprintf("Cash at hand: $%s. Cash in machine (not collected): $%s.",
		st.CashAtHand.StringFixed(2), st.CashInMachine.StringFixed(2))
	if st.OutstandingFees.IsPositive() {
		msg += fmt.Sprintf(" Outstanding fees: $%s (%d unpaid days).",
			st.OutstandingFees.StringFixed(2), st.ConsecutiveUnpaidFeeDays)
	}
	return msg
}

// MachineStatus renders the slot table: contents, stock, price, class.
func (eng *Engine) MachineStatus() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Day %d, minute %d. Slots (stock/capacity @ price):\n",
		eng.state.Clock.Day(), eng.state.Clock.MinuteOfDay())
	for _, slot := range eng.state.Slots {
		product := slot.ProductID
		if product == "" {
			product = "-"
		}
		fmt.Fprintf(&b, "  slot %2d [%s] %-14s %2d/%2d @ $%s\n",
			slot.ID, slot.Class, product, slot.Stock, slot.Capacity, slot.Price.StringFixed(2))
	}
	fmt.Fprintf(&b, "Pending orders: %d.", len(eng.state.PendingOrders))
	return b.String()
}

// SearchProducts lists the merged supplier catalog, optionally filtered by
// a substring query.
func (eng *Engine) SearchProducts(query string) string {
	query = strings.ToLower(strings.TrimSpace(query))
	products := eng.suppliers.Products()
	if len(products) == 0 {
		return "No products available: no suppliers are registered."
	}
	var lines []string
	for _, p := range products {
		if query != "" && !strings.Contains(p.ID, query) && !strings.Contains(strings.ToLower(p.Name), query) {
			continue
		}
		lines = append(lines, fmt.Sprintf("  %s: from $%s wholesale (%s)", p.ID, p.Wholesale.StringFixed(2), p.Class))
	}
	if len(lines) == 0 {
		return fmt.Sprintf("No products match %q.", query)
	}
	header := "Known products (email a supplier for a full price list):\n"
	footer := "\nSuppliers: "
	var ids []string
	for _, s := range eng.suppliers.Suppliers() {
		ids = append(ids, s.ID)
	}
	return header + strings.Join(lines, "\n") + footer + strings.Join(ids, ", ") + "."
}

// CheckEmail returns up to limit most recent inbox messages and marks them
// read.
func (eng *Engine) CheckEmail(limit int) string {
	inbox := eng.state.Inbox
	if inbox.Len() == 0 {
		return "Inbox is empty."
	}
	if limit <= 0 {
		limit = 20
	}
	var parts []string
	for _, m := range inbox.Recent(limit) {
		status := "unread"
		if m.Read {
			status = "read"
		}
		parts = append(parts, fmt.Sprintf("[%s] day %d, from %s\nSubject: %s\n%s",
			status, m.DaySent, m.From, m.Subject, truncate(m.Body, 400)))
		m.Read = true
	}
	return strings.Join(parts, "\n---\n")
}

// SendEmail delivers an agent email. Mail to a supplier address is
// interpreted as an order request (or catalog inquiry); the supplier's
// reply lands in the inbox immediately. Accepted orders are scheduled for
// delivery at the start of their ETA day.
func (eng *Engine) SendEmail(toAddr, subject, body string) string {
	st := eng.state
	day := st.Clock.Day()
	st.Outbox.Append(&Message{
		ID:      st.nextMailID(),
		From:    AgentAddr,
		To:      toAddr,
		Subject: subject,
		Body:    body,
		DaySent: day,
	})

	quote := eng.suppliers.ParseOrderEmail(toAddr, subject, body, day)
	st.Inbox.Append(&Message{
		ID:      st.nextMailID(),
		From:    strings.ToLower(strings.TrimSpace(toAddr)),
		To:      AgentAddr,
		Subject: quote.ReplySubject,
		Body:    quote.ReplyBody,
		DaySent: day,
	})
	if quote.Order == nil {
		return fmt.Sprintf("Email sent. Reply received: %s", truncate(quote.ReplyBody, 400))
	}

	order := quote.Order
	st.PendingOrders[order.ID] = order
	eng.Schedule(&DeliveryEvent{
		time:    st.Clock.Timestamp(order.ETADay, 0),
		OrderID: order.ID,
	})
	return fmt.Sprintf("Email sent. Order %s confirmed: total $%s payable on delivery, ETA day %d.",
		shortID(order.ID), order.Total.StringFixed(2), order.ETADay)
}

// Restock moves units of the source slot's product into the target slot.
// The target must be empty or hold the same product, and its size class
// must match. Units beyond the target's capacity are refused and stay in
// the source slot; the agent is always told how many moved.
func (eng *Engine) Restock(fromSlot, toSlot, quantity int) string {
	st := eng.state
	src := st.SlotByID(fromSlot)
	dst := st.SlotByID(toSlot)
	switch {
	case src == nil:
		return fmt.Sprintf("Error: slot %d does not exist (valid: 0-%d).", fromSlot, len(st.Slots)-1)
	case dst == nil:
		return fmt.Sprintf("Error: slot %d does not exist (valid: 0-%d).", toSlot, len(st.Slots)-1)
	case fromSlot == toSlot:
		return "Error: source and target slot are the same."
	case quantity <= 0:
		return fmt.Sprintf("Error: quantity must be positive, got %d.", quantity)
	case src.ProductID == "" || src.Stock == 0:
		return fmt.Sprintf("Error: slot %d is empty.", fromSlot)
	case dst.ProductID != "" && dst.ProductID != src.ProductID:
		return fmt.Sprintf("Error: slot %d holds %s; it must be empty or hold the same product.", toSlot, dst.ProductID)
	case dst.Class != src.Class:
		return fmt.Sprintf("Error: slot %d is a %s slot but %s is a %s product.", toSlot, dst.Class, src.ProductID, src.Class)
	}

	want := min(quantity, src.Stock)
	moved := min(want, dst.Free())
	if moved == 0 {
		return fmt.Sprintf("Slot %d is full; 0 of %d units moved, %d refused.", toSlot, quantity, quantity)
	}

	product := src.ProductID
	newlyAssigned := dst.ProductID == ""
	if newlyAssigned {
		dst.ProductID = product
		dst.Price = src.Price
	}
	dst.absorb(moved, src.CostBasis)
	src.Stock -= moved
	if src.Stock == 0 {
		// Fully emptied by hand: the slot becomes free for reassignment.
		src.ProductID = ""
		src.Price = decimal.Zero
		src.CostBasis = decimal.Zero
	}

	msg := fmt.Sprintf("Moved %d x %s from slot %d to slot %d.", moved, product, fromSlot, toSlot)
	if moved < quantity {
		msg += fmt.Sprintf(" %d units refused (capacity/stock limit).", quantity-moved)
	}
	return msg
}

// SetPrice sets the selling price of one slot.
func (eng *Engine) SetPrice(slotID int, price decimal.Decimal) string {
	slot := eng.state.SlotByID(slotID)
	switch {
	case slot == nil:
		return fmt.Sprintf("Error: slot %d does not exist (valid: 0-%d).", slotID, len(eng.state.Slots)-1)
	case price.IsNegative():
		return "Error: price cannot be negative."
	case slot.ProductID == "":
		return fmt.Sprintf("Error: slot %d is empty; assign a product before pricing it.", slotID)
	}
	slot.Price = price.Round(2)
	return fmt.Sprintf("Set price of slot %d (%s) to $%s.", slotID, slot.ProductID, slot.Price.StringFixed(2))
}

// CollectCash empties the machine cash box into cash at hand and settles
// any outstanding fees the new balance covers.
func (eng *Engine) CollectCash() string {
	collected, feesPaid := eng.state.collectCash()
	msg := fmt.Sprintf("Collected $%s from the machine.", collected.StringFixed(2))
	if feesPaid.IsPositive() {
		msg += fmt.Sprintf(" Paid $%s of outstanding fees.", feesPaid.StringFixed(2))
	}
	return msg
}

// MorningReportString renders the latest rollover report for the agent.
func (eng *Engine) MorningReportString() string {
	r := eng.lastReport
	if r == nil {
		return "A new day begins."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "--- Morning report, day %d ---\n", r.Day)
	if len(r.Sales) == 0 {
		b.WriteString("Sales yesterday: none.\n")
	} else {
		products := make([]string, 0, len(r.Sales))
		for p := range r.Sales {
			products = append(products, p)
		}
		sort.Strings(products)
		var parts []string
		for _, p := range products {
			parts = append(parts, fmt.Sprintf("%s x%d", p, r.Sales[p]))
		}
		fmt.Fprintf(&b, "Sales yesterday: %s ($%s into the machine).\n",
			strings.Join(parts, ", "), r.Revenue.StringFixed(2))
	}
	if len(r.Deliveries) > 0 {
		fmt.Fprintf(&b, "Deliveries: %s.\n", strings.Join(r.Deliveries, "; "))
	}
	if r.FeePaid {
		b.WriteString("Daily fee paid.\n")
	} else {
		fmt.Fprintf(&b, "Daily fee UNPAID (%d consecutive days).\n", r.UnpaidFeeDays)
	}
	fmt.Fprintf(&b, "Unread emails: %d.", r.UnreadMail)
	return b.String()
}
