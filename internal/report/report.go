// Package report defines the JSON build report a batch grade emits.
package report

import (
	"encoding/json"
	"os"
	"time"
)

// Report is the top-level output of a filmgrade batch run.
type Report struct {
	Version     int              `json:"version"`
	GeneratedAt string           `json:"generated_at"`
	Preset      string           `json:"preset"`
	Film        string           `json:"film"`
	Workers     int              `json:"workers,omitempty"`
	Assets      map[string]Asset `json:"assets"`
	Stats       Stats            `json:"stats"`
}

// Asset describes one graded source image.
type Asset struct {
	Original OriginalInfo `json:"original"`
	Output   OutputInfo   `json:"output"`
	Tone     ToneInfo     `json:"tone"`
}

// OriginalInfo holds metadata about the source image.
type OriginalInfo struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Format string `json:"format"`
	Size   int64  `json:"size"`
}

// OutputInfo describes the graded file on disk.
type OutputInfo struct {
	Path string `json:"path"` // relative to the output directory
	Hash string `json:"hash"` // first 16 hex chars of xxhash64
	Size int64  `json:"size"`
}

// ToneInfo summarizes the render histogram for quick triage.
type ToneInfo struct {
	PeakBin   int     `json:"peak_bin"`
	PeakCount uint32  `json:"peak_count"`
	MeanLuma  float64 `json:"mean_luma"`
}

// Stats aggregates batch metrics.
type Stats struct {
	TotalAssets      int   `json:"total_assets"`
	TotalPixels      int64 `json:"total_pixels"`
	TotalInputBytes  int64 `json:"total_input_bytes"`
	TotalOutputBytes int64 `json:"total_output_bytes"`
	Failed           int   `json:"failed,omitempty"`
}

// SupportedReportVersion is the current schema version.
const SupportedReportVersion = 1

// New creates an empty report for a preset/film pair.
func New(presetName, filmName string) *Report {
	return &Report{
		Version:     SupportedReportVersion,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Preset:      presetName,
		Film:        filmName,
		Assets:      make(map[string]Asset),
	}
}

// ComputeStats recalculates the aggregate block from the asset map.
func (r *Report) ComputeStats() {
	var s Stats
	s.Failed = r.Stats.Failed
	s.TotalAssets = len(r.Assets)
	for _, a := range r.Assets {
		s.TotalPixels += int64(a.Original.Width) * int64(a.Original.Height)
		s.TotalInputBytes += a.Original.Size
		s.TotalOutputBytes += a.Output.Size
	}
	r.Stats = s
}

// WriteJSON serializes the report to a JSON file.
func (r *Report) WriteJSON(path string) error {
	r.ComputeStats()

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o644)
}
