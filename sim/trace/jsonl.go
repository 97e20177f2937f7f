package trace

import (
	"bufio"
	"encoding/json"
	"io"
)

// jsonlLine pairs a step with its episode for self-contained JSONL rows.
type jsonlLine struct {
	EpisodeID string `json:"episode_id"`
	StepRecord
}

// WriteJSONL streams an episode trace as one JSON object per line: first
// the episode summary, then every step. The format is the dataset
// interchange for training pipelines that do not want SQLite.
func WriteJSONL(w io.Writer, t *EpisodeTrace) error {
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	if err := enc.Encode(t.Episode); err != nil {
		return err
	}
	for _, rec := range t.Steps {
		if err := enc.Encode(jsonlLine{EpisodeID: t.Episode.ID, StepRecord: rec}); err != nil {
			return err
		}
	}
	return bw.Flush()
}
