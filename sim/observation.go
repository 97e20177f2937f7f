package sim

// SlotView is the observable projection of one slot.
type SlotView struct {
	ID       int     `json:"id"`
	Class    string  `json:"class"`
	Product  string  `json:"product,omitempty"`
	Stock    int     `json:"stock"`
	Capacity int     `json:"capacity"`
	Price    float64 `json:"price"`
}

// OrderView is the observable projection of one pending order.
type OrderView struct {
	ID         string         `json:"id"`
	SupplierID string         `json:"supplier_id"`
	Items      map[string]int `json:"items"`
	Total      float64        `json:"total"`
	PlacedDay  int            `json:"placed_day"`
	ETADay     int            `json:"eta_day"`
}

// Observation is the structured state snapshot consumed by agent policies
// and RL adapters: enough to compute reward (net worth) and choose the
// next tool call, without exposing the mutable state itself.
type Observation struct {
	Day           int         `json:"day"`
	MinuteOfDay   int         `json:"minute_of_day"`
	CashAtHand    float64     `json:"cash_at_hand"`
	CashInMachine float64     `json:"cash_in_machine"`
	NetWorth      float64     `json:"net_worth"`
	Slots         []SlotView  `json:"slots"`
	PendingOrders []OrderView `json:"pending_orders"`
	UnreadMail    int         `json:"unread_mail"`
	MessageCount  int         `json:"message_count"`

	Terminated        bool   `json:"terminated"`
	TerminationReason string `json:"termination_reason,omitempty"`
}

// Observation builds a snapshot of the current state. The snapshot is a
// copy; holding it across tool calls never aliases live state.
func (eng *Engine) Observation() Observation {
	st := eng.state
	obs := Observation{
		Day:               st.Clock.Day(),
		MinuteOfDay:       st.Clock.MinuteOfDay(),
		CashAtHand:        st.CashAtHand.InexactFloat64(),
		CashInMachine:     st.CashInMachine.InexactFloat64(),
		NetWorth:          st.NetWorth().InexactFloat64(),
		UnreadMail:        st.Inbox.Unread(),
		MessageCount:      eng.messageCount,
		Terminated:        st.Terminated,
		TerminationReason: st.TerminationReason,
	}
	for _, slot := range st.Slots {
		obs.Slots = append(obs.Slots, SlotView{
			ID:       slot.ID,
			Class:    string(slot.Class),
			Product:  slot.ProductID,
			Stock:    slot.Stock,
			Capacity: slot.Capacity,
			Price:    slot.Price.InexactFloat64(),
		})
	}
	for _, order := range st.ordersByETA() {
		items := make(map[string]int, len(order.Items))
		for k, v := range order.Items {
			items[k] = v
		}
		obs.PendingOrders = append(obs.PendingOrders, OrderView{
			ID:         order.ID,
			SupplierID: order.SupplierID,
			Items:      items,
			Total:      order.Total.InexactFloat64(),
			PlacedDay:  order.PlacedDay,
			ETADay:     order.ETADay,
		})
	}
	return obs
}
