package sim

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig_Valid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("DefaultConfig invalid: %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative starting cash", func(c *Config) { c.StartingCash = -1 }},
		{"negative daily fee", func(c *Config) { c.DailyFee = -0.5 }},
		{"zero bankruptcy threshold", func(c *Config) { c.BankruptcyThreshold = 0 }},
		{"zero rows", func(c *Config) { c.Rows = 0 }},
		{"row class mismatch", func(c *Config) { c.SizeClassByRow = []SizeClass{SizeSmall} }},
		{"unknown size class", func(c *Config) { c.SizeClassByRow[0] = "medium" }},
		{"zero day length", func(c *Config) { c.DayLengthMinutes = 0 }},
		{"zero tool time", func(c *Config) { c.ToolTimes.QueryMinutes = 0 }},
		{"zero max days", func(c *Config) { c.MaxDays = 0 }},
		{"zero max messages", func(c *Config) { c.MaxMessages = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate accepted an invalid config")
			}
		})
	}
}

func TestLoadConfig_PartialOverridesDefaults(t *testing.T) {
	// GIVEN a YAML file naming only a few knobs
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte("starting_cash: 750\nday_length_minutes: 180\neconomy:\n  weekend_boost: 1.5\n")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}

	// WHEN loading it
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}

	// THEN named knobs change and everything else keeps its default
	if cfg.StartingCash != 750 {
		t.Errorf("starting cash = %v, want 750", cfg.StartingCash)
	}
	if cfg.DayLengthMinutes != 180 {
		t.Errorf("day length = %d, want 180", cfg.DayLengthMinutes)
	}
	if cfg.Economy.WeekendBoost != 1.5 {
		t.Errorf("weekend boost = %v, want 1.5", cfg.Economy.WeekendBoost)
	}
	if cfg.DailyFee != DefaultConfig().DailyFee {
		t.Errorf("daily fee = %v, want default %v", cfg.DailyFee, DefaultConfig().DailyFee)
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	if _, err := LoadConfig("/nonexistent/config.yaml"); err == nil {
		t.Error("LoadConfig on missing file did not error")
	}
}

func TestLoadConfig_InvalidValuesRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("rows: -2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Error("LoadConfig accepted rows: -2")
	}
}
