package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/vending-sim/vending-sim/sim"
	"github.com/vending-sim/vending-sim/sim/eval"
	"github.com/vending-sim/vending-sim/sim/policy"
)

var (
	// Shared CLI flags
	seed       int64  // Seed for the episode RNG streams
	logLevel   string // Log verbosity level
	configPath string // Optional YAML config overriding defaults
	agentName  string // Built-in agent policy to run
	maxSteps   int    // Safety cap on agent steps per episode
	maxDays    int    // Override for the episode day horizon (0 keeps config)
	traceOut   string // Optional JSONL trace output path
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "vending-sim",
	Short: "Vending-machine business simulator for training and evaluating agents",
}

// loadConfig resolves the episode configuration from the config flag plus
// the caller's day-horizon override. Each subcommand passes its own
// max-days flag variable; sharing one across commands would let whichever
// init ran last clobber the other's default.
func loadConfig(maxDaysOverride int) (sim.Config, error) {
	cfg := sim.DefaultConfig()
	if configPath != "" {
		loaded, err := sim.LoadConfig(configPath)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}
	if maxDaysOverride > 0 {
		cfg.MaxDays = maxDaysOverride
	}
	return cfg, cfg.Validate()
}

// buildAgent constructs a built-in policy by name.
func buildAgent(name string, seed int64) (policy.Agent, error) {
	switch name {
	case "random":
		return policy.NewRandom(seed), nil
	case "shopkeeper":
		return policy.NewShopkeeper(), nil
	}
	return nil, fmt.Errorf("unknown agent %q (available: random, shopkeeper)", name)
}

// runCmd executes one episode using parameters from CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one episode with a built-in agent",
	Run: func(cmd *cobra.Command, args []string) {
		// Set up logging
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		cfg, err := loadConfig(maxDays)
		if err != nil {
			logrus.Fatalf("Invalid configuration: %v", err)
		}
		agent, err := buildAgent(agentName, seed)
		if err != nil {
			logrus.Fatalf("%v", err)
		}

		logrus.Infof("Starting episode: agent=%s seed=%d max_days=%d", agent.Name(), seed, cfg.MaxDays)
		res, err := eval.RunEpisode(agent, eval.Options{Config: cfg, Seed: seed, MaxSteps: maxSteps})
		if err != nil {
			logrus.Fatalf("Episode failed: %v", err)
		}
		if traceOut != "" {
			if err := writeTraceJSONL(traceOut, res); err != nil {
				logrus.Fatalf("Writing trace: %v", err)
			}
			logrus.Infof("Trace written to %s", traceOut)
		}

		printResult(res)
		logrus.Info("Episode complete.")
	},
}

// printResult displays the episode summary after a run.
func printResult(res *eval.Result) {
	fmt.Println("=== Episode Result ===")
	fmt.Printf("Net worth (final)    : $%.2f\n", res.FinalNetWorth)
	fmt.Printf("Net worth (minimum)  : $%.2f\n", res.MinNetWorth)
	fmt.Printf("Units sold           : %d\n", res.UnitsSold)
	fmt.Printf("Days simulated       : %d\n", res.Days)
	fmt.Printf("Agent steps          : %d\n", res.Steps)
	fmt.Printf("Terminated           : %s\n", res.TerminationReason)
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	runCmd.Flags().Int64Var(&seed, "seed", 42, "Seed for the episode RNG streams")
	runCmd.Flags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")
	runCmd.Flags().StringVar(&configPath, "config", "", "YAML config file overriding defaults")
	runCmd.Flags().StringVar(&agentName, "agent", "shopkeeper", "Built-in agent policy (random, shopkeeper)")
	runCmd.Flags().IntVar(&maxSteps, "max-steps", 10000, "Safety cap on agent steps")
	runCmd.Flags().IntVar(&maxDays, "max-days", 0, "Override episode day horizon (0 keeps config value)")
	runCmd.Flags().StringVar(&traceOut, "trace-out", "", "Write the episode trace as JSONL to this path")

	// Attach `run` as a subcommand to `root`
	rootCmd.AddCommand(runCmd)
}
