// Package trace provides step-trace recording for episode analysis and
// dataset generation. This package has no dependencies on sim/; it stores
// pure data types plus their SQLite/JSONL persistence.
package trace

// StepRecord captures a single tool call and its outcome.
type StepRecord struct {
	Step       int            `json:"step"`
	Tool       string         `json:"tool"`
	Args       map[string]any `json:"args,omitempty"`
	Result     string         `json:"result"` // possibly truncated by the recorder
	Day        int            `json:"day"`
	NetWorth   float64        `json:"net_worth"`
	Terminated bool           `json:"terminated"`
}

// EpisodeRecord summarizes one finished episode.
type EpisodeRecord struct {
	ID                string  `json:"id"`
	Seed              int64   `json:"seed"`
	Agent             string  `json:"agent"`
	Days              int     `json:"days"`
	Steps             int     `json:"steps"`
	UnitsSold         int     `json:"units_sold"`
	FinalNetWorth     float64 `json:"final_net_worth"`
	MinNetWorth       float64 `json:"min_net_worth"`
	TerminationReason string  `json:"termination_reason"`
}

// EpisodeTrace collects step records during an episode run.
type EpisodeTrace struct {
	Episode EpisodeRecord
	Steps   []StepRecord
}

// NewEpisodeTrace creates a trace ready for recording.
func NewEpisodeTrace(id string, seed int64, agent string) *EpisodeTrace {
	return &EpisodeTrace{
		Episode: EpisodeRecord{ID: id, Seed: seed, Agent: agent},
		Steps:   make([]StepRecord, 0),
	}
}

// RecordStep appends a step record.
func (t *EpisodeTrace) RecordStep(r StepRecord) {
	t.Steps = append(t.Steps, r)
}
