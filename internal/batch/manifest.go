package batch

import (
	"encoding/json"
	"os"
	"time"
)

// Manifest summarizes a batch run.
type Manifest struct {
	Created   time.Time `json:"created"`
	Total     int       `json:"total"`
	Succeeded int       `json:"succeeded"`
	Failed    int       `json:"failed"`
	Results   []Result  `json:"results"`
}

// NewManifest counts results.
func NewManifest(results []Result) Manifest {
	m := Manifest{Created: time.Now().UTC(), Total: len(results), Results: results}
	for _, r := range results {
		if r.Success {
			m.Succeeded++
		} else {
			m.Failed++
		}
	}
	return m
}

// WriteManifest writes manifest.json to path.
func WriteManifest(path string, results []Result) error {
	data, err := json.MarshalIndent(NewManifest(results), "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
