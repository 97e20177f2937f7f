package cmd

import (
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/vending-sim/vending-sim/sim/eval"
	"github.com/vending-sim/vending-sim/sim/trace"
)

var (
	episodes   int    // Number of episodes to generate
	dbPath     string // SQLite output database
	jsonlDir   string // Optional directory for per-episode JSONL files
	genMaxDays int    // Day horizon for dataset episodes
)

// gendataCmd runs a batch of episodes and stores their traces as a dataset
var gendataCmd = &cobra.Command{
	Use:   "gendata",
	Short: "Generate a trace dataset from batch episodes",
	Run: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		cfg, err := loadConfig(genMaxDays)
		if err != nil {
			logrus.Fatalf("Invalid configuration: %v", err)
		}

		store, err := trace.OpenStore(dbPath)
		if err != nil {
			logrus.Fatalf("Opening trace store: %v", err)
		}
		defer store.Close()

		if jsonlDir != "" {
			if err := os.MkdirAll(jsonlDir, 0o755); err != nil {
				logrus.Fatalf("Creating %s: %v", jsonlDir, err)
			}
		}

		for i := 0; i < episodes; i++ {
			epSeed := seed + int64(i)
			agent, err := buildAgent(agentName, epSeed)
			if err != nil {
				logrus.Fatalf("%v", err)
			}
			res, err := eval.RunEpisode(agent, eval.Options{Config: cfg, Seed: epSeed, MaxSteps: maxSteps})
			if err != nil {
				logrus.Fatalf("Episode seed=%d failed: %v", epSeed, err)
			}
			if err := store.SaveEpisode(res.Trace); err != nil {
				logrus.Fatalf("Saving episode seed=%d: %v", epSeed, err)
			}
			if jsonlDir != "" {
				path := filepath.Join(jsonlDir, res.Trace.Episode.ID+".jsonl")
				if err := writeTraceJSONL(path, res); err != nil {
					logrus.Fatalf("Writing %s: %v", path, err)
				}
			}
			logrus.Infof("[%d/%d] seed=%d net_worth=$%.2f steps=%d (%s)",
				i+1, episodes, epSeed, res.FinalNetWorth, res.Steps, res.TerminationReason)
		}
		logrus.Infof("Dataset complete: %d episodes in %s", episodes, dbPath)
	},
}

// writeTraceJSONL writes one episode trace to a JSONL file.
func writeTraceJSONL(path string, res *eval.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return trace.WriteJSONL(f, res.Trace)
}

func init() {
	gendataCmd.Flags().Int64Var(&seed, "seed", 42, "Base seed; episode i uses seed+i")
	gendataCmd.Flags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")
	gendataCmd.Flags().StringVar(&configPath, "config", "", "YAML config file overriding defaults")
	gendataCmd.Flags().StringVar(&agentName, "agent", "shopkeeper", "Built-in agent policy (random, shopkeeper)")
	gendataCmd.Flags().IntVar(&maxSteps, "max-steps", 10000, "Safety cap on agent steps per episode")
	gendataCmd.Flags().IntVar(&genMaxDays, "max-days", 30, "Episode day horizon for dataset runs (0 keeps config value)")
	gendataCmd.Flags().IntVar(&episodes, "episodes", 10, "Number of episodes to generate")
	gendataCmd.Flags().StringVar(&dbPath, "db", "traces.db", "SQLite trace database path")
	gendataCmd.Flags().StringVar(&jsonlDir, "jsonl-dir", "", "Also write per-episode JSONL files into this directory")

	rootCmd.AddCommand(gendataCmd)
}
