// Package policy contains built-in agent policies that drive episodes
// through the tool runtime. They exist for smoke-testing the environment
// and generating trace datasets; a trained model replaces them in real use.
package policy

import "github.com/vending-sim/vending-sim/sim"

// Action is one tool call chosen by an agent.
type Action struct {
	Tool string
	Args map[string]any
}

// Agent chooses the next tool call from an observation. Implementations
// must be deterministic given their construction arguments: any randomness
// comes from a seed passed at construction, never from global state.
type Agent interface {
	Name() string
	NextAction(obs sim.Observation) Action
}
