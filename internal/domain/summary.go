package domain

import (
	"encoding/json"
	"fmt"
)

// Summary is the boundary artifact of one processed run: all detected
// peaks plus run metadata. It is the only value handed across to external
// consumers (diagnosis pipeline, review UI, export). Frozen on return from
// the builder; peaks are ordered ascending by retention time.
type Summary struct {
	SampleID  string            `json:"sample_id"`
	Metadata  map[string]string `json:"metadata"`
	Peaks     []Peak            `json:"peaks"`
	TotalArea float64           `json:"total_area"`
	Warnings  []Warning         `json:"warnings,omitempty"`
}

// MarshalSummary serializes a summary to its canonical JSON record.
// encoding/json emits the shortest float representation that round-trips,
// so numeric fields survive a marshal/unmarshal cycle exactly.
func MarshalSummary(s *Summary) ([]byte, error) {
	if s == nil {
		return nil, fmt.Errorf("nil summary")
	}
	return json.MarshalIndent(s, "", "  ")
}

// UnmarshalSummary parses a canonical JSON record back into a Summary.
func UnmarshalSummary(data []byte) (*Summary, error) {
	var s Summary
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("unmarshal summary: %w", err)
	}
	return &s, nil
}
