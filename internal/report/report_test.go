package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestReportRoundtrip(t *testing.T) {
	r := New("classic-chrome-street", "classic-chrome")
	r.Workers = 4
	r.Assets["shoot/portrait"] = Asset{
		Original: OriginalInfo{Width: 800, Height: 600, Format: "jpeg", Size: 100000},
		Output:   OutputInfo{Path: "shoot/portrait.classic-chrome-street.abcd1234.jpg", Hash: "abcd1234abcd1234", Size: 82000},
		Tone:     ToneInfo{PeakBin: 118, PeakCount: 6200, MeanLuma: 104.5},
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "filmgrade.report.json")
	if err := r.WriteJSON(path); err != nil {
		t.Fatalf("write: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	var r2 Report
	if err := json.Unmarshal(data, &r2); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if r2.Version != SupportedReportVersion {
		t.Errorf("version: got %d, want %d", r2.Version, SupportedReportVersion)
	}
	if r2.Preset != "classic-chrome-street" || r2.Film != "classic-chrome" {
		t.Errorf("preset/film: got %q/%q", r2.Preset, r2.Film)
	}

	a, ok := r2.Assets["shoot/portrait"]
	if !ok {
		t.Fatal("asset missing")
	}
	if a.Tone.PeakBin != 118 {
		t.Errorf("peak bin: got %d", a.Tone.PeakBin)
	}
	if a.Output.Hash != "abcd1234abcd1234" {
		t.Errorf("hash: got %q", a.Output.Hash)
	}

	if r2.Stats.TotalAssets != 1 {
		t.Errorf("total_assets: got %d", r2.Stats.TotalAssets)
	}
	if r2.Stats.TotalPixels != 480000 {
		t.Errorf("total_pixels: got %d", r2.Stats.TotalPixels)
	}
	if r2.Stats.TotalInputBytes != 100000 || r2.Stats.TotalOutputBytes != 82000 {
		t.Errorf("byte totals: %d/%d", r2.Stats.TotalInputBytes, r2.Stats.TotalOutputBytes)
	}
}

func TestComputeStats_KeepsFailed(t *testing.T) {
	r := New("p", "provia")
	r.Stats.Failed = 3
	r.ComputeStats()
	if r.Stats.Failed != 3 {
		t.Errorf("failed count lost: %d", r.Stats.Failed)
	}
}
