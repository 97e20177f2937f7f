package policy

import (
	"math/rand"

	"github.com/vending-sim/vending-sim/sim"
)

// Random picks tools uniformly from a fixed repertoire with plausible
// arguments. It is the environment smoke test: a random agent must be able
// to run to termination without crashing the runtime.
type Random struct {
	rng *rand.Rand
}

// NewRandom creates a random agent over its own seeded stream.
func NewRandom(seed int64) *Random {
	return &Random{rng: rand.New(rand.NewSource(seed))}
}

func (a *Random) Name() string { return "random" }

// NextAction draws one of the repertoire tools. Arguments are sampled from
// small ranges so calls exercise both accepted and rejected paths.
func (a *Random) NextAction(obs sim.Observation) Action {
	slots := len(obs.Slots)
	if slots == 0 {
		slots = 1
	}
	switch a.rng.Intn(10) {
	case 0:
		return Action{Tool: "get_money_balance"}
	case 1:
		return Action{Tool: "get_machine_status"}
	case 2:
		return Action{Tool: "check_email", Args: map[string]any{"limit": float64(1 + a.rng.Intn(10))}}
	case 3:
		return Action{Tool: "send_email", Args: map[string]any{
			"to_addr": "supplier_1",
			"subject": "order",
			"body":    "chips 10\ncola 10",
		}}
	case 4:
		return Action{Tool: "restock", Args: map[string]any{
			"from_slot": float64(a.rng.Intn(slots)),
			"to_slot":   float64(a.rng.Intn(slots)),
			"quantity":  float64(1 + a.rng.Intn(5)),
		}}
	case 5:
		return Action{Tool: "set_price", Args: map[string]any{
			"slot_id": float64(a.rng.Intn(slots)),
			"price":   1 + a.rng.Float64()*4,
		}}
	case 6:
		return Action{Tool: "collect_cash"}
	case 7:
		return Action{Tool: "search_products"}
	default:
		return Action{Tool: "wait_for_next_day"}
	}
}
