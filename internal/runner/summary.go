package runner

import (
	"encoding/json"
	"os"
	"time"

	"github.com/previewstudio/preview-renderer/internal/id"
)

// Result records one image's outcome within a job.
type Result struct {
	ItemID     string `json:"item_id"`
	Success    bool   `json:"success"`
	Error      string `json:"error,omitempty"`
	InputPath  string `json:"input_path,omitempty"`
	OutputPath string `json:"output_path,omitempty"`
	ItemType   string `json:"item_type,omitempty"`
	BlurHash   string `json:"blurhash,omitempty"`
}

// Summary is the batch report written to the job's output directory. The
// run succeeds only when every image succeeded.
type Summary struct {
	RunID     string    `json:"run_id"`
	Timestamp time.Time `json:"timestamp"`
	Success   bool      `json:"success"`
	Total     int       `json:"total"`
	Succeeded int       `json:"succeeded"`
	Failed    int       `json:"failed"`
	Results   []Result  `json:"results"`
	Warnings  []string  `json:"warnings"`
}

// newSummary tallies the per-image results into a summary.
func newSummary(results []Result, warnings []string) *Summary {
	s := &Summary{
		RunID:     id.MustGenerate(id.PrefixRun),
		Timestamp: time.Now().UTC(),
		Total:     len(results),
		Results:   results,
		Warnings:  warnings,
	}
	if s.Warnings == nil {
		s.Warnings = []string{}
	}
	for _, res := range results {
		if res.Success {
			s.Succeeded++
		} else {
			s.Failed++
		}
	}
	s.Success = s.Failed == 0
	return s
}

// Write persists the summary as indented JSON.
func (s *Summary) Write(path string) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644) //#nosec G306 -- Summary is a report, not a secret
}
