// Package mask implements alpha-only local adjustment layers and the brush
// rasterizer that paints them.
//
// A layer is one w×h byte plane plus the adjustments it gates. Alpha is
// authoritative: a zero byte means the pixel is untouched no matter what
// the layer opacity says. The engine reads layers; only the brush mutates
// them, and only between renders.
package mask

import "fmt"

// LocalAdjustments are the per-layer corrections, all in [-100, 100].
type LocalAdjustments struct {
	Exposure    float32 `toml:"exposure"`
	Contrast    float32 `toml:"contrast"`
	Saturation  float32 `toml:"saturation"`
	Temperature float32 `toml:"temperature"`
	Tint        float32 `toml:"tint"`
	Sharpness   float32 `toml:"sharpness"`
}

// IsZero reports whether every local adjustment, Sharpness included, is
// zero. Such a layer leaves pixels unchanged.
func (a LocalAdjustments) IsZero() bool {
	return a == LocalAdjustments{}
}

// Layer is one local adjustment mask.
type Layer struct {
	ID      string
	Visible bool
	Opacity float32 // [0, 1], multiplies alpha-derived weight
	Alpha   []uint8 // w·h coverage bytes, row-major
	Adjust  LocalAdjustments
}

// NewLayer allocates a fully transparent layer for a w×h image.
func NewLayer(id string, w, h int) (*Layer, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("mask: invalid dimensions %dx%d", w, h)
	}
	return &Layer{
		ID:      id,
		Visible: true,
		Opacity: 1,
		Alpha:   make([]uint8, w*h),
	}, nil
}

// Active reports whether the layer can affect a render at all.
func (l *Layer) Active() bool {
	return l != nil && l.Visible && l.Opacity > 0 && !l.Adjust.IsZero()
}

// ValidateShape checks the alpha plane against the image dimensions.
func (l *Layer) ValidateShape(w, h int) error {
	if len(l.Alpha) != w*h {
		return fmt.Errorf("mask %s: alpha length %d, want %d (%dx%d)", l.ID, len(l.Alpha), w*h, w, h)
	}
	return nil
}

// Fill sets every alpha byte to v, giving full-frame coverage at one level.
func (l *Layer) Fill(v uint8) {
	for i := range l.Alpha {
		l.Alpha[i] = v
	}
}
