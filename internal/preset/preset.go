// Package preset provides named grading presets and TOML preset files.
package preset

import (
	"fmt"
	"os"

	"github.com/AnyUserName/filmgrade-cli/internal/adjust"
	"github.com/AnyUserName/filmgrade-cli/internal/film"
	"github.com/pelletier/go-toml/v2"
)

// Preset bundles a film stock with a full adjustment snapshot.
type Preset struct {
	Name   string             `toml:"name"`
	Film   string             `toml:"film"`
	Adjust adjust.Adjustments `toml:"adjustments"`
}

// Stock resolves the preset's film stock name.
func (p Preset) Stock() (film.Stock, error) {
	if p.Film == "" {
		return film.None, nil
	}
	return film.Parse(p.Film)
}

// Built-in presets.
var presets = map[string]Preset{
	"neutral": {
		Name: "neutral",
		Film: "none",
		Adjust: adjust.Adjustments{
			GrainSize: 1,
			Intensity: 1,
		},
	},
	"provia-standard": {
		Name: "provia-standard",
		Film: "provia",
		Adjust: adjust.Adjustments{
			GrainSize: 1,
			Intensity: 1,
		},
	},
	"velvia-landscape": {
		Name: "velvia-landscape",
		Film: "velvia",
		Adjust: adjust.Adjustments{
			Saturation: 10,
			Vignette:   15,
			GrainSize:  1,
			Intensity:  1,
		},
	},
	"classic-chrome-street": {
		Name: "classic-chrome-street",
		Film: "classic-chrome",
		Adjust: adjust.Adjustments{
			Contrast:    10,
			Shadows:     -10,
			GrainAmount: 30,
			GrainSize:   2,
			Sharpening:  25,
			Intensity:   1,
		},
	},
	"acros-mono": {
		Name: "acros-mono",
		Film: "acros",
		Adjust: adjust.Adjustments{
			Contrast:    15,
			GrainAmount: 40,
			GrainSize:   2,
			Intensity:   1,
		},
	},
	"eterna-cinema": {
		Name: "eterna-cinema",
		Film: "eterna",
		Adjust: adjust.Adjustments{
			Highlights:  -20,
			Halation:    30,
			GrainAmount: 15,
			GrainSize:   1,
			Intensity:   1,
		},
	},
}

// Get returns a built-in preset by name. Unknown names fall back to
// provia-standard, preserving the requested name for reporting.
func Get(name string) Preset {
	if p, ok := presets[name]; ok {
		return p
	}
	p := presets["provia-standard"]
	p.Name = name
	return p
}

// Names lists the built-in preset names.
func Names() []string {
	return []string{
		"neutral", "provia-standard", "velvia-landscape",
		"classic-chrome-street", "acros-mono", "eterna-cinema",
	}
}

// Load reads a preset from a TOML file and validates its film name.
func Load(path string) (Preset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Preset{}, fmt.Errorf("read preset: %w", err)
	}

	var p Preset
	if err := toml.Unmarshal(data, &p); err != nil {
		return Preset{}, fmt.Errorf("parse preset %s: %w", path, err)
	}
	if p.Name == "" {
		p.Name = path
	}
	if _, err := p.Stock(); err != nil {
		return Preset{}, fmt.Errorf("preset %s: %w", path, err)
	}
	if p.Adjust.GrainSize < 1 {
		p.Adjust.GrainSize = 1
	}
	return p, nil
}
