package sim

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SizeClass is the physical size category of a product and of the slots
// that can hold it. Small rows cannot hold large products and vice versa.
type SizeClass string

const (
	SizeSmall SizeClass = "small"
	SizeLarge SizeClass = "large"
)

// ToolTimes groups per-category tool time costs, in simulated minutes.
// Every tool call advances the clock by its category's cost; a cost of
// zero minutes is rejected by the clock, so all values must be positive.
type ToolTimes struct {
	QueryMinutes  int `yaml:"query_minutes"`  // lightweight reads (balance, status, search)
	ActionMinutes int `yaml:"action_minutes"` // physical actions (restock, set_price, collect)
	CommsMinutes  int `yaml:"comms_minutes"`  // communication (send/check email, sub-agent runs)
}

// EconomyConfig parameterizes the stochastic demand model. The exact
// elasticity function and factor weights are deliberately configuration,
// not constants baked into the model.
type EconomyConfig struct {
	// Per-product parameter draws (log-normal elasticity magnitude and
	// base daily sales; reference price markup over wholesale).
	ElasticityMu    float64 `yaml:"elasticity_mu"`
	ElasticitySigma float64 `yaml:"elasticity_sigma"`
	BaseSalesMu     float64 `yaml:"base_sales_mu"`
	BaseSalesSigma  float64 `yaml:"base_sales_sigma"`
	RefMarkupMin    float64 `yaml:"ref_markup_min"`
	RefMarkupMax    float64 `yaml:"ref_markup_max"`

	// Daily multiplicative factors.
	WeekendBoost     float64 `yaml:"weekend_boost"`      // Sat/Sun demand multiplier
	SummerBoost      float64 `yaml:"summer_boost"`       // months 6-8 multiplier
	WeatherStepProb  float64 `yaml:"weather_step_prob"`  // chance of a weather shift per day (each direction)
	NoiseCV          float64 `yaml:"noise_cv"`           // gaussian noise stddev as a fraction of raw demand
	VarietySweetSpot int     `yaml:"variety_sweet_spot"` // distinct products at which variety bonus saturates
}

// Config is the full injectable configuration surface of an episode.
// Zero values are not meaningful; start from DefaultConfig.
type Config struct {
	StartingCash float64 `yaml:"starting_cash"`
	DailyFee     float64 `yaml:"daily_fee"`

	// BankruptcyThreshold is the number of consecutive days the daily fee
	// may go unpaid before the episode terminates.
	BankruptcyThreshold int `yaml:"bankruptcy_threshold"`

	// Machine layout: Rows x SlotsPerRow slots, each with SlotCapacity
	// units of space. SizeClassByRow assigns a size class per row.
	Rows           int         `yaml:"rows"`
	SlotsPerRow    int         `yaml:"slots_per_row"`
	SlotCapacity   int         `yaml:"slot_capacity"`
	SizeClassByRow []SizeClass `yaml:"size_class_by_row"`

	DayLengthMinutes int       `yaml:"day_length_minutes"`
	ToolTimes        ToolTimes `yaml:"tool_times"`

	MaxDays     int `yaml:"max_days"`
	MaxMessages int `yaml:"max_messages"`

	Economy EconomyConfig `yaml:"economy"`
}

// DefaultConfig returns the standard benchmark parameters: $500 starting
// cash, $2/day fee, a 4x3 machine with two small and two large rows, and a
// 10-day bankruptcy fuse.
func DefaultConfig() Config {
	return Config{
		StartingCash:        500.0,
		DailyFee:            2.0,
		BankruptcyThreshold: 10,
		Rows:                4,
		SlotsPerRow:         3,
		SlotCapacity:        10,
		SizeClassByRow:      []SizeClass{SizeSmall, SizeSmall, SizeLarge, SizeLarge},
		DayLengthMinutes:    1440,
		ToolTimes: ToolTimes{
			QueryMinutes:  5,
			ActionMinutes: 25,
			CommsMinutes:  75,
		},
		MaxDays:     400,
		MaxMessages: 2000,
		Economy: EconomyConfig{
			ElasticityMu:     0.8,
			ElasticitySigma:  0.3,
			BaseSalesMu:      1.0,
			BaseSalesSigma:   0.5,
			RefMarkupMin:     1.2,
			RefMarkupMax:     1.8,
			WeekendBoost:     1.2,
			SummerBoost:      1.1,
			WeatherStepProb:  0.1,
			NoiseCV:          0.15,
			VarietySweetSpot: 4,
		},
	}
}

// LoadConfig reads a YAML config file over the defaults, so partial files
// only need to name the knobs they change.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects configurations the engine cannot run.
func (c Config) Validate() error {
	if c.StartingCash < 0 {
		return fmt.Errorf("starting_cash must be >= 0, got %v", c.StartingCash)
	}
	if c.DailyFee < 0 {
		return fmt.Errorf("daily_fee must be >= 0, got %v", c.DailyFee)
	}
	if c.BankruptcyThreshold <= 0 {
		return fmt.Errorf("bankruptcy_threshold must be > 0, got %d", c.BankruptcyThreshold)
	}
	if c.Rows <= 0 || c.SlotsPerRow <= 0 || c.SlotCapacity <= 0 {
		return fmt.Errorf("machine layout must be positive, got %dx%d capacity %d", c.Rows, c.SlotsPerRow, c.SlotCapacity)
	}
	if len(c.SizeClassByRow) != c.Rows {
		return fmt.Errorf("size_class_by_row must list %d rows, got %d", c.Rows, len(c.SizeClassByRow))
	}
	for i, class := range c.SizeClassByRow {
		if class != SizeSmall && class != SizeLarge {
			return fmt.Errorf("size_class_by_row[%d]: unknown class %q", i, class)
		}
	}
	if c.DayLengthMinutes <= 0 {
		return fmt.Errorf("day_length_minutes must be > 0, got %d", c.DayLengthMinutes)
	}
	if c.ToolTimes.QueryMinutes <= 0 || c.ToolTimes.ActionMinutes <= 0 || c.ToolTimes.CommsMinutes <= 0 {
		return fmt.Errorf("tool time costs must be positive, got %+v", c.ToolTimes)
	}
	if c.MaxDays <= 0 || c.MaxMessages <= 0 {
		return fmt.Errorf("max_days and max_messages must be positive, got %d/%d", c.MaxDays, c.MaxMessages)
	}
	return nil
}

// TotalSlots returns the number of slots in the machine layout.
func (c Config) TotalSlots() int {
	return c.Rows * c.SlotsPerRow
}
