// The authoritative mutable state of one episode: machine slots, finances,
// pending orders, mail, and time. Mutated exclusively by the Engine.

package sim

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// Termination reasons recorded on State when an episode ends.
const (
	ReasonBankruptcy  = "bankruptcy"
	ReasonMaxDays     = "max_days"
	ReasonMaxMessages = "max_messages"
)

// Slot is one physical product position in the vending machine.
// CostBasis is the weighted-average purchase price of the units currently
// in the slot; it is set at delivery time and is never revalued by later
// orders, so stock-on-hand is always valued at what was actually paid.
type Slot struct {
	ID       int
	Row      int
	Column   int
	Class    SizeClass
	Capacity int

	ProductID string // empty when the slot is unassigned
	Stock     int
	Price     decimal.Decimal // selling price per unit
	CostBasis decimal.Decimal // weighted-average purchase price per unit
}

// Free returns the remaining capacity of the slot.
func (s *Slot) Free() int {
	if s.Stock >= s.Capacity {
		return 0
	}
	return s.Capacity - s.Stock
}

// absorb adds units bought at unitCost to the slot, re-averaging CostBasis.
// Callers must have checked capacity; absorb panics on overflow because a
// capacity violation here means delivery accounting is broken.
func (s *Slot) absorb(units int, unitCost decimal.Decimal) {
	if units <= 0 {
		return
	}
	if s.Stock+units > s.Capacity {
		panic(fmt.Sprintf("slot %d: absorb %d units overflows capacity %d", s.ID, units, s.Capacity))
	}
	oldValue := s.CostBasis.Mul(decimal.NewFromInt(int64(s.Stock)))
	addValue := unitCost.Mul(decimal.NewFromInt(int64(units)))
	s.Stock += units
	s.CostBasis = oldValue.Add(addValue).Div(decimal.NewFromInt(int64(s.Stock)))
}

// PendingOrder is a supplier order awaiting delivery. Cash is debited at
// delivery resolution, not placement; Total is the quoted amount that will
// be due then.
type PendingOrder struct {
	ID         string
	SupplierID string
	Items      map[string]int             // product -> quantity
	UnitPrices map[string]decimal.Decimal // product -> quoted unit price
	Total      decimal.Decimal
	PlacedDay  int
	ETADay     int
}

// State is the aggregate episode state. It is created at reset, mutated
// only through Engine operations, and discarded at termination. Nothing in
// it survives across episodes and nothing about it is process-global, so
// several episodes can run side by side in one process.
type State struct {
	Clock *Clock

	CashAtHand    decimal.Decimal
	CashInMachine decimal.Decimal

	// OutstandingFees accumulates daily fees that could not be paid at
	// rollover. ConsecutiveUnpaidFeeDays counts rollover days with unpaid
	// fees and resets to zero whenever the fees are settled in full.
	OutstandingFees          decimal.Decimal
	ConsecutiveUnpaidFeeDays int

	Slots         []*Slot
	PendingOrders map[string]*PendingOrder
	Inbox         *Mailbox
	Outbox        *Mailbox

	TotalUnitsSold int

	Terminated        bool
	TerminationReason string

	mailSeq int
}

// NewState builds the initial episode state from configuration: full
// starting cash, an empty machine, empty mailboxes, day 0 minute 0.
func NewState(cfg Config) *State {
	slots := make([]*Slot, 0, cfg.TotalSlots())
	id := 0
	for row := 0; row < cfg.Rows; row++ {
		for col := 0; col < cfg.SlotsPerRow; col++ {
			slots = append(slots, &Slot{
				ID:        id,
				Row:       row,
				Column:    col,
				Class:     cfg.SizeClassByRow[row],
				Capacity:  cfg.SlotCapacity,
				Price:     decimal.Zero,
				CostBasis: decimal.Zero,
			})
			id++
		}
	}
	return &State{
		Clock:           NewClock(cfg.DayLengthMinutes),
		CashAtHand:      decimal.NewFromFloat(cfg.StartingCash),
		CashInMachine:   decimal.Zero,
		OutstandingFees: decimal.Zero,
		Slots:           slots,
		PendingOrders:   make(map[string]*PendingOrder),
		Inbox:           &Mailbox{},
		Outbox:          &Mailbox{},
	}
}

// SlotByID returns the slot with the given ID, or nil if out of range.
func (st *State) SlotByID(id int) *Slot {
	if id < 0 || id >= len(st.Slots) {
		return nil
	}
	return st.Slots[id]
}

// NetWorth is the episode's scoring metric: cash at hand plus uncollected
// machine cash plus stock valued at its weighted-average purchase cost.
func (st *State) NetWorth() decimal.Decimal {
	total := st.CashAtHand.Add(st.CashInMachine)
	for _, slot := range st.Slots {
		if slot.Stock > 0 {
			total = total.Add(slot.CostBasis.Mul(decimal.NewFromInt(int64(slot.Stock))))
		}
	}
	return total
}

// ordersByETA returns pending orders sorted by ETA day, then ID, so that
// snapshots are deterministic despite map storage.
func (st *State) ordersByETA() []*PendingOrder {
	orders := make([]*PendingOrder, 0, len(st.PendingOrders))
	for _, o := range st.PendingOrders {
		orders = append(orders, o)
	}
	sort.Slice(orders, func(i, j int) bool {
		if orders[i].ETADay != orders[j].ETADay {
			return orders[i].ETADay < orders[j].ETADay
		}
		return orders[i].ID < orders[j].ID
	})
	return orders
}

// nextMailID returns a sequential message ID, unique within the episode.
func (st *State) nextMailID() string {
	st.mailSeq++
	return fmt.Sprintf("msg_%d", st.mailSeq)
}

// terminate marks the episode ended with the given reason. The first
// reason wins; later terminal conditions do not overwrite it.
func (st *State) terminate(reason string) {
	if st.Terminated {
		return
	}
	st.Terminated = true
	st.TerminationReason = reason
}
