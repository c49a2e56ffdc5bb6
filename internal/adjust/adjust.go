// Package adjust defines the immutable parameter snapshot a render consumes.
//
// A snapshot is plain data: the host builds one per slider state and passes
// it by value into the engine. Out-of-range values never fail a render —
// Normalize clamps them and reports through Debugf so interactive dragging
// stays total.
package adjust

// Debugf receives clamp notices for out-of-range parameters. The CLI points
// it at logrus.Debugf; it defaults to a no-op so core packages stay pure.
var Debugf = func(format string, args ...any) {}

// WhiteBalance holds temperature/tint offsets, both in [-50, 50].
type WhiteBalance struct {
	Temp float32 `toml:"temp"`
	Tint float32 `toml:"tint"`
}

// ToneWheel is one split-toning band: hue in degrees [0, 360) and
// strength in [0, 100].
type ToneWheel struct {
	Hue float32 `toml:"hue"`
	Sat float32 `toml:"sat"`
}

// Grading carries the three split-toning wheels.
type Grading struct {
	Shadows    ToneWheel `toml:"shadows"`
	Midtones   ToneWheel `toml:"midtones"`
	Highlights ToneWheel `toml:"highlights"`
}

// IsZero reports whether every wheel has zero strength.
func (g Grading) IsZero() bool {
	return g.Shadows.Sat == 0 && g.Midtones.Sat == 0 && g.Highlights.Sat == 0
}

// HSLBand is one selective-HSL channel: hue shift in [-30, 30],
// saturation and luminance in [-100, 100].
type HSLBand struct {
	Hue float32 `toml:"hue"`
	Sat float32 `toml:"sat"`
	Lum float32 `toml:"lum"`
}

func (b HSLBand) isZero() bool { return b.Hue == 0 && b.Sat == 0 && b.Lum == 0 }

// HSL holds the six selective color bands.
type HSL struct {
	Red     HSLBand `toml:"red"`
	Yellow  HSLBand `toml:"yellow"`
	Green   HSLBand `toml:"green"`
	Cyan    HSLBand `toml:"cyan"`
	Blue    HSLBand `toml:"blue"`
	Magenta HSLBand `toml:"magenta"`
}

// IsZero reports whether every band is untouched, letting the pixel loop
// skip the HSL stage entirely.
func (h HSL) IsZero() bool {
	return h.Red.isZero() && h.Yellow.isZero() && h.Green.isZero() &&
		h.Cyan.isZero() && h.Blue.isZero() && h.Magenta.isZero()
}

// BandCenter pairs an HSL band with its hue center in degrees.
type BandCenter struct {
	Center float32
	Band   HSLBand
}

// Bands returns the six bands with their canonical hue centers.
// Red sits at 0° and relies on wrap-aware hue distance to cover 360°.
func (h HSL) Bands() [6]BandCenter {
	return [6]BandCenter{
		{0, h.Red},
		{60, h.Yellow},
		{120, h.Green},
		{180, h.Cyan},
		{240, h.Blue},
		{300, h.Magenta},
	}
}

// Adjustments is the full per-render parameter snapshot.
type Adjustments struct {
	// Global tone, all in [-100, 100].
	Brightness float32 `toml:"brightness"`
	Contrast   float32 `toml:"contrast"`
	Saturation float32 `toml:"saturation"`
	Highlights float32 `toml:"highlights"`
	Shadows    float32 `toml:"shadows"`

	// Texture. GrainAmount/Sharpening/Vignette/Halation in [0, 100],
	// GrainSize in [1, 5]. Halation is consumed by the host compositor.
	GrainAmount float32 `toml:"grain_amount"`
	GrainSize   float32 `toml:"grain_size"`
	Sharpening  float32 `toml:"sharpening"`
	Vignette    float32 `toml:"vignette"`
	Halation    float32 `toml:"halation"`

	WhiteBalance WhiteBalance `toml:"white_balance"`
	Grading      Grading      `toml:"grading"`
	HSL          HSL          `toml:"hsl"`

	// Intensity is the final mix between pre-LUT and post-LUT color, [0, 1].
	Intensity float32 `toml:"intensity"`
}

func clampRange(v *float32, lo, hi float32, name string) {
	if *v < lo {
		Debugf("adjust: %s %.2f below %.0f, clamped", name, *v, lo)
		*v = lo
	} else if *v > hi {
		Debugf("adjust: %s %.2f above %.0f, clamped", name, *v, hi)
		*v = hi
	}
}

// Normalize clamps every parameter to its documented range, reporting each
// correction through Debugf. It returns the receiver for chaining.
func (a Adjustments) Normalize() Adjustments {
	clampRange(&a.Brightness, -100, 100, "brightness")
	clampRange(&a.Contrast, -100, 100, "contrast")
	clampRange(&a.Saturation, -100, 100, "saturation")
	clampRange(&a.Highlights, -100, 100, "highlights")
	clampRange(&a.Shadows, -100, 100, "shadows")

	clampRange(&a.GrainAmount, 0, 100, "grain_amount")
	clampRange(&a.GrainSize, 1, 5, "grain_size")
	clampRange(&a.Sharpening, 0, 100, "sharpening")
	clampRange(&a.Vignette, 0, 100, "vignette")
	clampRange(&a.Halation, 0, 100, "halation")

	clampRange(&a.WhiteBalance.Temp, -50, 50, "wb_temp")
	clampRange(&a.WhiteBalance.Tint, -50, 50, "wb_tint")

	for _, w := range []*ToneWheel{&a.Grading.Shadows, &a.Grading.Midtones, &a.Grading.Highlights} {
		for w.Hue >= 360 {
			w.Hue -= 360
		}
		for w.Hue < 0 {
			w.Hue += 360
		}
		clampRange(&w.Sat, 0, 100, "grading_sat")
	}

	for _, b := range []*HSLBand{&a.HSL.Red, &a.HSL.Yellow, &a.HSL.Green, &a.HSL.Cyan, &a.HSL.Blue, &a.HSL.Magenta} {
		clampRange(&b.Hue, -30, 30, "hsl_hue")
		clampRange(&b.Sat, -100, 100, "hsl_sat")
		clampRange(&b.Lum, -100, 100, "hsl_lum")
	}

	clampRange(&a.Intensity, 0, 1, "intensity")
	return a
}
