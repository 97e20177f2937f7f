package sim

import "container/heap"

// Event is a scheduled future occurrence in the episode. Timestamps are
// absolute simulated minutes (day * dayLength + minute). Events only fire
// inside the day-rollover cascade; nothing runs in the background.
type Event interface {
	Timestamp() int64
	Execute(*Engine)
}

// EventQueue implements heap.Interface and orders events by timestamp.
// See canonical Golang example here: https://pkg.go.dev/container/heap#example-package-IntHeap
type EventQueue []Event

func (eq EventQueue) Len() int           { return len(eq) }
func (eq EventQueue) Less(i, j int) bool { return eq[i].Timestamp() < eq[j].Timestamp() }
func (eq EventQueue) Swap(i, j int)      { eq[i], eq[j] = eq[j], eq[i] }

func (eq *EventQueue) Push(x any) {
	*eq = append(*eq, x.(Event))
}

func (eq *EventQueue) Pop() any {
	old := *eq
	n := len(old)
	item := old[n-1]
	*eq = old[0 : n-1]
	return item
}

// DeliveryEvent resolves a pending supplier order when its ETA day begins.
type DeliveryEvent struct {
	time    int64
	OrderID string
}

// Timestamp returns the scheduled time of the DeliveryEvent.
func (e *DeliveryEvent) Timestamp() int64 {
	return e.time
}

// Execute applies delivery resolution for the order.
func (e *DeliveryEvent) Execute(eng *Engine) {
	eng.resolveDelivery(e.OrderID)
}

// Schedule pushes an event onto the engine's event heap.
func (eng *Engine) Schedule(ev Event) {
	heap.Push(&eng.events, ev)
}

// popEventsUntil pops and executes all events with timestamp <= ts, in
// timestamp order.
func (eng *Engine) popEventsUntil(ts int64) {
	for len(eng.events) > 0 && eng.events[0].Timestamp() <= ts {
		ev := heap.Pop(&eng.events).(Event)
		ev.Execute(eng)
	}
}
