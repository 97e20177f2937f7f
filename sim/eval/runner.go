// Package eval drives agent policies against the tool runtime and collects
// per-episode results. It is the harness behind the run and gendata
// commands and the integration-level tests.
package eval

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/vending-sim/vending-sim/sim"
	"github.com/vending-sim/vending-sim/sim/policy"
	"github.com/vending-sim/vending-sim/sim/tools"
	"github.com/vending-sim/vending-sim/sim/trace"
)

// Options configures one episode run.
type Options struct {
	Config   sim.Config
	Seed     int64
	MaxSteps int // safety cap on agent steps; 0 means 10000
	// ResultLimit truncates recorded tool results; 0 means 200 bytes.
	ResultLimit int
}

// Result is the outcome of one finished episode.
type Result struct {
	Trace             *trace.EpisodeTrace
	FinalNetWorth     float64
	MinNetWorth       float64
	Days              int
	Steps             int
	UnitsSold         int
	TerminationReason string
	ToolCalls         map[string]int
}

// RunEpisode runs one agent to termination or the step cap. The episode ID
// is derived from the agent name and seed, so rerunning the same pair
// produces the same ID and, with a deterministic agent, the same trace.
func RunEpisode(agent policy.Agent, opts Options) (*Result, error) {
	if agent == nil {
		return nil, fmt.Errorf("nil agent")
	}
	if err := opts.Config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	maxSteps := opts.MaxSteps
	if maxSteps <= 0 {
		maxSteps = 10000
	}
	resultLimit := opts.ResultLimit
	if resultLimit <= 0 {
		resultLimit = 200
	}

	eng := sim.NewEngine(opts.Config, opts.Seed)
	rt := tools.NewRuntime(eng)
	t := trace.NewEpisodeTrace(fmt.Sprintf("%s-seed%d", agent.Name(), opts.Seed), opts.Seed, agent.Name())

	logrus.Infof("episode %s: starting (max %d steps)", t.Episode.ID, maxSteps)
	for step := 0; step < maxSteps; step++ {
		obs := eng.Observation()
		if obs.Terminated {
			break
		}
		action := agent.NextAction(obs)
		msg, terminated := rt.Execute(action.Tool, action.Args)
		t.RecordStep(trace.StepRecord{
			Step:       step,
			Tool:       action.Tool,
			Args:       action.Args,
			Result:     clip(msg, resultLimit),
			Day:        eng.State().Clock.Day(),
			NetWorth:   eng.State().NetWorth().InexactFloat64(),
			Terminated: terminated,
		})
		if terminated {
			break
		}
	}

	st := eng.State()
	m := eng.Metrics()
	res := &Result{
		Trace:             t,
		FinalNetWorth:     st.NetWorth().InexactFloat64(),
		MinNetWorth:       m.NetWorthMin.InexactFloat64(),
		Days:              st.Clock.Day(),
		Steps:             len(t.Steps),
		UnitsSold:         m.UnitsSold,
		TerminationReason: st.TerminationReason,
		ToolCalls:         m.ToolCalls,
	}
	t.Episode.Days = res.Days
	t.Episode.Steps = res.Steps
	t.Episode.UnitsSold = res.UnitsSold
	t.Episode.FinalNetWorth = res.FinalNetWorth
	t.Episode.MinNetWorth = res.MinNetWorth
	t.Episode.TerminationReason = res.TerminationReason

	logrus.Infof("episode %s: done after %d steps, %d days, net worth $%.2f (%s)",
		t.Episode.ID, res.Steps, res.Days, res.FinalNetWorth, res.TerminationReason)
	return res, nil
}

func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
