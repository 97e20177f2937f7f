// Tracks episode-wide metrics for final reporting and evaluation.

package sim

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// Metrics aggregates statistics about one episode. Useful for comparing
// agent policies and debugging behavior over time.
type Metrics struct {
	UnitsSold   int
	NetWorthMin decimal.Decimal
	netWorthSet bool

	ToolCalls map[string]int // tool name -> invocation count
}

// NewMetrics creates an empty metrics accumulator.
func NewMetrics() *Metrics {
	return &Metrics{ToolCalls: make(map[string]int)}
}

// RecordTool counts one invocation of the named tool.
func (m *Metrics) RecordTool(name string) {
	m.ToolCalls[name]++
}

// ObserveNetWorth tracks the running minimum net worth.
func (m *Metrics) ObserveNetWorth(nw decimal.Decimal) {
	if !m.netWorthSet || nw.LessThan(m.NetWorthMin) {
		m.NetWorthMin = nw
		m.netWorthSet = true
	}
}

// Messages returns the total number of tool calls recorded.
func (m *Metrics) Messages() int {
	total := 0
	for _, n := range m.ToolCalls {
		total += n
	}
	return total
}

// Print displays the episode summary after a run.
func (m *Metrics) Print(st *State) {
	fmt.Println("=== Episode Metrics ===")
	fmt.Printf("Net worth (final)    : $%s\n", st.NetWorth().StringFixed(2))
	fmt.Printf("Net worth (minimum)  : $%s\n", m.NetWorthMin.StringFixed(2))
	fmt.Printf("Units sold           : %d\n", m.UnitsSold)
	fmt.Printf("Days simulated       : %d\n", st.Clock.Day())
	fmt.Printf("Tool calls           : %d\n", m.Messages())
	if st.Terminated {
		fmt.Printf("Terminated           : %s\n", st.TerminationReason)
	}
	names := make([]string, 0, len(m.ToolCalls))
	for name := range m.ToolCalls {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %-22s %d\n", name, m.ToolCalls[name])
	}
}
