// The simulation engine: owns the authoritative episode state, applies
// tool operations, advances the clock, and runs the day-rollover cascade
// (deliveries -> demand -> fee -> bankruptcy check).

package sim

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// MorningReport summarizes the day that just ended. It is rebuilt at every
// rollover and returned by wait_for_next_day.
type MorningReport struct {
	Day           int            // the new day
	Sales         map[string]int // product -> units sold yesterday
	Revenue       decimal.Decimal
	Deliveries    []string // human-readable delivery outcomes
	FeePaid       bool
	UnpaidFeeDays int
	UnreadMail    int
}

// Engine owns one episode. All mutation goes through its methods; there is
// no other writer. Single-threaded by design: exactly one tool call is in
// flight at a time and every call fully applies or is fully rejected.
type Engine struct {
	cfg       Config
	state     *State
	rng       *PartitionedRNG
	economy   DemandModel
	suppliers *SupplierRegistry
	events    EventQueue
	metrics   *Metrics

	messageCount int
	lastReport   *MorningReport
}

// NewEngine creates an episode with the default supplier set. The seed
// fully determines demand draws and lead times; two engines with the same
// config, seed, and tool-call sequence produce identical trajectories.
func NewEngine(cfg Config, seed int64) *Engine {
	eng := newEngineBare(cfg, seed)
	for _, s := range DefaultSuppliers() {
		eng.suppliers.Register(s)
	}
	return eng
}

// NewEngineWithSuppliers creates an episode with a caller-provided
// supplier set instead of the defaults.
func NewEngineWithSuppliers(cfg Config, seed int64, suppliers []*Supplier) *Engine {
	eng := newEngineBare(cfg, seed)
	for _, s := range suppliers {
		eng.suppliers.Register(s)
	}
	return eng
}

func newEngineBare(cfg Config, seed int64) *Engine {
	rng := NewPartitionedRNG(NewSimulationKey(seed))
	eng := &Engine{
		cfg:       cfg,
		state:     NewState(cfg),
		rng:       rng,
		suppliers: NewSupplierRegistry(rng.ForSubsystem(SubsystemSupplier)),
		events:    make(EventQueue, 0),
		metrics:   NewMetrics(),
	}
	eng.economy = NewEconomy(cfg.Economy, rng.ForSubsystem(SubsystemEconomy), func(productID string) (decimal.Decimal, bool) {
		p, ok := eng.suppliers.Product(productID)
		if !ok {
			return decimal.Zero, false
		}
		return p.Wholesale, true
	})
	eng.metrics.ObserveNetWorth(eng.state.NetWorth())
	return eng
}

// UseDemandModel swaps the demand model, e.g. for a deterministic fake in
// tests. Must be called before any day rollover.
func (eng *Engine) UseDemandModel(m DemandModel) {
	eng.economy = m
}

// State exposes the episode state for observation building and tests.
// Callers outside the sim packages must treat it as read-only.
func (eng *Engine) State() *State { return eng.state }

// Config returns the episode configuration.
func (eng *Engine) Config() Config { return eng.cfg }

// Suppliers returns the episode's supplier registry.
func (eng *Engine) Suppliers() *SupplierRegistry { return eng.suppliers }

// Metrics returns the episode's running metrics.
func (eng *Engine) Metrics() *Metrics { return eng.metrics }

// LastReport returns the morning report of the most recent rollover, or
// nil before the first one.
func (eng *Engine) LastReport() *MorningReport { return eng.lastReport }

// Terminated reports whether the episode has ended.
func (eng *Engine) Terminated() bool { return eng.state.Terminated }

// Advance moves simulated time forward and runs one full rollover cascade
// per day boundary crossed. Stops early if a cascade terminates the
// episode.
func (eng *Engine) Advance(minutes int) error {
	boundaries, err := eng.state.Clock.Advance(minutes)
	if err != nil {
		return err
	}
	for _, b := range boundaries {
		eng.rollover(b.CompletedDay)
		if eng.state.Terminated {
			break
		}
	}
	eng.metrics.ObserveNetWorth(eng.state.NetWorth())
	return nil
}

// NoteToolCall counts one tool invocation against the message budget.
// Called by the tool runtime after each executed call.
func (eng *Engine) NoteToolCall(tool string) {
	eng.messageCount++
	eng.metrics.RecordTool(tool)
	if eng.messageCount > eng.cfg.MaxMessages {
		eng.state.terminate(ReasonMaxMessages)
	}
}

// MessageCount returns the number of tool calls executed so far.
func (eng *Engine) MessageCount() int { return eng.messageCount }

// rollover runs the end-of-day cascade for completedDay, in the fixed
// order: delivery resolution, demand resolution, fee settlement,
// bankruptcy/limit checks.
func (eng *Engine) rollover(completedDay int) {
	newDay := completedDay + 1
	report := &MorningReport{
		Day:     newDay,
		Sales:   make(map[string]int),
		Revenue: decimal.Zero,
	}
	eng.lastReport = report

	// (a) Deliveries due at or before the start of the new day.
	eng.popEventsUntil(eng.state.Clock.Timestamp(newDay, 0))

	// (b) Demand for the completed day.
	sold := eng.economy.DemandForDay(eng.state.Slots, completedDay)
	slotIDs := make([]int, 0, len(sold))
	for id := range sold {
		slotIDs = append(slotIDs, id)
	}
	sort.Ints(slotIDs)
	for _, id := range slotIDs {
		units := sold[id]
		slot := eng.state.SlotByID(id)
		if slot == nil || units <= 0 {
			continue
		}
		if units > slot.Stock {
			units = slot.Stock
		}
		slot.Stock -= units
		revenue := slot.Price.Mul(decimal.NewFromInt(int64(units)))
		eng.state.CashInMachine = eng.state.CashInMachine.Add(revenue)
		eng.state.TotalUnitsSold += units
		eng.metrics.UnitsSold += units
		report.Sales[slot.ProductID] += units
		report.Revenue = report.Revenue.Add(revenue)
	}

	// (c) Fee settlement for the completed day.
	fee := decimal.NewFromFloat(eng.cfg.DailyFee)
	report.FeePaid = eng.state.settleDailyFee(fee)
	report.UnpaidFeeDays = eng.state.ConsecutiveUnpaidFeeDays
	if !report.FeePaid {
		logrus.Warnf("day %d: daily fee unpaid (%d consecutive days)", completedDay, eng.state.ConsecutiveUnpaidFeeDays)
	}

	// (d) Bankruptcy and horizon checks.
	if eng.state.ConsecutiveUnpaidFeeDays >= eng.cfg.BankruptcyThreshold {
		eng.state.terminate(ReasonBankruptcy)
	}
	if newDay > eng.cfg.MaxDays {
		eng.state.terminate(ReasonMaxDays)
	}

	report.UnreadMail = eng.state.Inbox.Unread()
	logrus.Infof("[day %04d] rollover: %d units sold, revenue $%s, fee paid=%v",
		completedDay, eng.state.TotalUnitsSold, report.Revenue.StringFixed(2), report.FeePaid)
}

// resolveDelivery applies delivery resolution for one pending order:
// verify funds, debit, slot the stock (refunding per-unit overflow), and
// notify the agent by mail. Insufficient funds cancel the order; that is
// never silent.
func (eng *Engine) resolveDelivery(orderID string) {
	st := eng.state
	order, ok := st.PendingOrders[orderID]
	if !ok {
		return
	}
	delete(st.PendingOrders, orderID)

	if st.CashAtHand.LessThan(order.Total) {
		logrus.Warnf("order %s cancelled: balance $%s below total $%s",
			shortID(order.ID), st.CashAtHand.StringFixed(2), order.Total.StringFixed(2))
		st.Inbox.Append(&Message{
			ID:      st.nextMailID(),
			From:    order.SupplierID,
			To:      AgentAddr,
			Subject: fmt.Sprintf("Order %s cancelled", shortID(order.ID)),
			Body: fmt.Sprintf("Your account balance ($%s) does not cover the order total ($%s). "+
				"The order has been cancelled and nothing was delivered.",
				st.CashAtHand.StringFixed(2), order.Total.StringFixed(2)),
			DaySent: st.Clock.Day(),
		})
		if eng.lastReport != nil {
			eng.lastReport.Deliveries = append(eng.lastReport.Deliveries,
				fmt.Sprintf("order %s cancelled (insufficient funds)", shortID(order.ID)))
		}
		return
	}

	st.CashAtHand = st.CashAtHand.Sub(order.Total)

	var placed, refused []string
	refund := decimal.Zero
	products := make([]string, 0, len(order.Items))
	for id := range order.Items {
		products = append(products, id)
	}
	sort.Strings(products)
	for _, productID := range products {
		qty := order.Items[productID]
		unitPrice := order.UnitPrices[productID]
		stocked := eng.placeStock(productID, qty, unitPrice)
		if stocked > 0 {
			placed = append(placed, fmt.Sprintf("%d x %s", stocked, productID))
		}
		if stocked < qty {
			left := qty - stocked
			refund = refund.Add(unitPrice.Mul(decimal.NewFromInt(int64(left))))
			refused = append(refused, fmt.Sprintf("%d x %s", left, productID))
		}
	}
	if refund.IsPositive() {
		st.CashAtHand = st.CashAtHand.Add(refund)
	}

	body := fmt.Sprintf("Your order %s has been delivered and $%s was charged to your account.",
		shortID(order.ID), order.Total.StringFixed(2))
	if len(placed) > 0 {
		body += "\nStocked into the machine: " + strings.Join(placed, ", ") + "."
	}
	if len(refused) > 0 {
		body += fmt.Sprintf("\nNo slot space for: %s. These units were refused and $%s refunded.",
			strings.Join(refused, ", "), refund.StringFixed(2))
	}
	st.Inbox.Append(&Message{
		ID:      st.nextMailID(),
		From:    order.SupplierID,
		To:      AgentAddr,
		Subject: fmt.Sprintf("Delivery completed (%s)", shortID(order.ID)),
		Body:    body,
		DaySent: st.Clock.Day(),
	})
	if eng.lastReport != nil {
		desc := fmt.Sprintf("order %s delivered", shortID(order.ID))
		if len(refused) > 0 {
			desc += " (partial)"
		}
		eng.lastReport.Deliveries = append(eng.lastReport.Deliveries, desc)
	}
	logrus.Infof("order %s delivered: placed [%s], refused [%s]",
		shortID(order.ID), strings.Join(placed, ", "), strings.Join(refused, ", "))
}

// placeStock distributes delivered units into slots: first slots already
// assigned to the product, then empty slots of the product's size class,
// lowest slot ID first. Returns the number of units placed; the remainder
// did not fit anywhere.
func (eng *Engine) placeStock(productID string, qty int, unitPrice decimal.Decimal) int {
	class := SizeSmall
	if p, ok := eng.suppliers.Product(productID); ok {
		class = p.Class
	}
	remaining := qty

	for _, slot := range eng.state.Slots {
		if remaining == 0 {
			break
		}
		if slot.ProductID != productID || slot.Free() == 0 {
			continue
		}
		n := min(remaining, slot.Free())
		slot.absorb(n, unitPrice)
		remaining -= n
	}
	for _, slot := range eng.state.Slots {
		if remaining == 0 {
			break
		}
		if slot.ProductID != "" || slot.Class != class {
			continue
		}
		n := min(remaining, slot.Free())
		slot.ProductID = productID
		slot.absorb(n, unitPrice)
		if slot.Price.IsZero() {
			slot.Price = unitPrice.Mul(decimal.NewFromFloat(defaultMarkup)).Round(2)
		}
		remaining -= n
	}
	return qty - remaining
}

// defaultMarkup prices a newly assigned slot until the agent sets one.
const defaultMarkup = 1.5
