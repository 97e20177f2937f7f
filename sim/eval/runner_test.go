package eval

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vending-sim/vending-sim/sim"
	"github.com/vending-sim/vending-sim/sim/policy"
)

func shortConfig() sim.Config {
	cfg := sim.DefaultConfig()
	cfg.MaxDays = 15
	return cfg
}

func TestRunEpisode_RandomAgentTerminates(t *testing.T) {
	// A random agent must always drive the episode to a clean ending.
	res, err := RunEpisode(policy.NewRandom(7), Options{Config: shortConfig(), Seed: 7})
	require.NoError(t, err)

	assert.NotEmpty(t, res.TerminationReason)
	assert.Greater(t, res.Steps, 0)
	assert.Len(t, res.Trace.Steps, res.Steps)
	assert.Equal(t, res.TerminationReason, res.Trace.Episode.TerminationReason)
}

func TestRunEpisode_ShopkeeperRunsTheBusiness(t *testing.T) {
	res, err := RunEpisode(policy.NewShopkeeper(), Options{Config: shortConfig(), Seed: 42})
	require.NoError(t, err)

	// The shopkeeper orders, stocks, prices, and survives to the horizon.
	assert.Equal(t, sim.ReasonMaxDays, res.TerminationReason)
	assert.Greater(t, res.UnitsSold, 0, "shopkeeper sold nothing")
	assert.Greater(t, res.ToolCalls["send_email"], 0)
	assert.Greater(t, res.ToolCalls["wait_for_next_day"], 0)
}

func TestRunEpisode_Deterministic(t *testing.T) {
	run := func() string {
		res, err := RunEpisode(policy.NewRandom(99), Options{Config: shortConfig(), Seed: 99})
		require.NoError(t, err)
		data, err := json.Marshal(res.Trace)
		require.NoError(t, err)
		return string(data)
	}

	assert.Equal(t, run(), run(), "same agent seed and episode seed must replay identically")
}

func TestRunEpisode_DifferentSeedsDiverge(t *testing.T) {
	run := func(seed int64) *Result {
		res, err := RunEpisode(policy.NewRandom(seed), Options{Config: shortConfig(), Seed: seed})
		require.NoError(t, err)
		return res
	}

	a, b := run(1), run(2)
	assert.NotEqual(t, a.Trace.Episode.ID, b.Trace.Episode.ID)
	// Different seeds should give observably different trajectories.
	aj, _ := json.Marshal(a.Trace.Steps)
	bj, _ := json.Marshal(b.Trace.Steps)
	assert.NotEqual(t, string(aj), string(bj))
}

func TestRunEpisode_StepCap(t *testing.T) {
	res, err := RunEpisode(policy.NewRandom(5), Options{Config: sim.DefaultConfig(), Seed: 5, MaxSteps: 10})
	require.NoError(t, err)
	assert.LessOrEqual(t, res.Steps, 10)
}

func TestRunEpisode_NilAgent(t *testing.T) {
	_, err := RunEpisode(nil, Options{Config: sim.DefaultConfig(), Seed: 1})
	assert.Error(t, err)
}

func TestRunEpisode_InvalidConfig(t *testing.T) {
	cfg := sim.DefaultConfig()
	cfg.Rows = 0
	_, err := RunEpisode(policy.NewRandom(1), Options{Config: cfg, Seed: 1})
	assert.Error(t, err)
}

func TestRunEpisode_TruncatesResults(t *testing.T) {
	res, err := RunEpisode(policy.NewRandom(3), Options{Config: shortConfig(), Seed: 3, ResultLimit: 50})
	require.NoError(t, err)
	for _, step := range res.Trace.Steps {
		assert.LessOrEqual(t, len(step.Result), 50)
	}
}
