// The sub-agent performs physical machine operations on behalf of the main
// agent, driven by free-form natural-language instructions. It is a
// rule-based stand-in for a second model: instructions are matched against
// a small set of regex patterns and executed via the same engine operations
// the direct tools use.

package sim

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	movePattern  = regexp.MustCompile(`(?:move|restock|transfer)\s+(\d+)\s+(?:units?\s+)?from\s+slot\s+(\d+)\s+(?:in)?to\s+slot\s+(\d+)`)
	pricePattern = regexp.MustCompile(`set\s+price\s+(?:of\s+)?slot\s+(\d+)\s+to\s+\$?([\d.]+)`)
)

// SubAgent executes physical-operation instructions and answers questions
// about what it did. It keeps a short action log for chat replies; the log
// is episode-local and never affects simulation state.
type SubAgent struct {
	eng         *Engine
	lastActions []string
}

// NewSubAgent creates a sub-agent bound to an engine.
func NewSubAgent(eng *Engine) *SubAgent {
	return &SubAgent{eng: eng}
}

// Specs describes the sub-agent's capabilities for the main agent.
func (sa *SubAgent) Specs() string {
	return strings.Join([]string{
		"Sub-agent capabilities (phrase instructions in plain language):",
		"  - move stock between slots: 'move 5 from slot 2 to slot 7'",
		"  - set a slot's price: 'set price of slot 0 to 2.50'",
		"  - collect cash: 'collect cash'",
		"  - report contents: 'show inventory'",
		"Use chat_with_sub_agent to ask what it did or what is in the machine.",
	}, "\n")
}

// Run parses one instruction and executes it. Unrecognized instructions
// return a help message rather than an error; the main agent is expected
// to rephrase.
func (sa *SubAgent) Run(instruction string) string {
	in := strings.ToLower(strings.TrimSpace(instruction))

	if strings.Contains(in, "collect") && strings.Contains(in, "cash") {
		return sa.record("collect cash", sa.eng.CollectCash())
	}
	if m := pricePattern.FindStringSubmatch(in); m != nil {
		slotID, _ := strconv.Atoi(m[1])
		price, err := decimal.NewFromString(m[2])
		if err != nil {
			return fmt.Sprintf("I could not read %q as a price.", m[2])
		}
		return sa.record(fmt.Sprintf("set price of slot %d", slotID), sa.eng.SetPrice(slotID, price))
	}
	if m := movePattern.FindStringSubmatch(in); m != nil {
		qty, _ := strconv.Atoi(m[1])
		from, _ := strconv.Atoi(m[2])
		to, _ := strconv.Atoi(m[3])
		return sa.record(fmt.Sprintf("move %d from slot %d to slot %d", qty, from, to),
			sa.eng.Restock(from, to, qty))
	}
	if strings.Contains(in, "inventory") || strings.Contains(in, "what is in") {
		return sa.record("inventory", sa.eng.MachineStatus())
	}

	return "I didn't understand. Try: 'move 5 from slot 2 to slot 7', " +
		"'set price of slot 0 to 2.50', 'collect cash', or 'show inventory'."
}

// Chat answers questions about the sub-agent's recent actions and the
// machine contents.
func (sa *SubAgent) Chat(question string) string {
	q := strings.ToLower(strings.TrimSpace(question))
	if strings.Contains(q, "inventory") || (strings.Contains(q, "what") && strings.Contains(q, "slot")) {
		return sa.eng.MachineStatus()
	}
	if strings.Contains(q, "did") || strings.Contains(q, "last") {
		if len(sa.lastActions) == 0 {
			return "No actions performed yet."
		}
		return "Last actions:\n" + strings.Join(tail(sa.lastActions, 5), "\n")
	}
	var parts []string
	if len(sa.lastActions) > 0 {
		parts = append(parts, "Last actions:\n"+strings.Join(tail(sa.lastActions, 3), "\n"))
	}
	parts = append(parts, "Current machine:\n"+sa.eng.MachineStatus())
	return strings.Join(parts, "\n\n")
}

func (sa *SubAgent) record(action, result string) string {
	sa.lastActions = append(sa.lastActions, fmt.Sprintf("%s -> %s", action, truncate(result, 100)))
	return result
}

func tail(s []string, n int) []string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
