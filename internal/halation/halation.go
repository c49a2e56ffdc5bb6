// Package halation implements the host-side highlight bloom: downscale,
// grayscale + contrast to isolate bright regions, gaussian blur, then a
// screen composite over the graded image.
//
// The render core neither calls nor depends on this package — it is the
// collaborator behind the engine's halation hook, applied by the CLI after
// the texture pass.
package halation

import (
	"image"

	bildadjust "github.com/anthonynsimon/bild/adjust"
	"github.com/anthonynsimon/bild/blend"
	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/effect"
	"github.com/nfnt/resize"
)

// downscaleFactor trades glow softness against blur cost. Quarter
// resolution matches the reference compositor.
const downscaleFactor = 4

// blurRadius is the gaussian radius applied at the downscaled size.
const blurRadius = 8.0

// Apply composites a halation glow over src with strength in [0, 100].
// Strength 0 returns src unchanged.
func Apply(src image.Image, strength float32) image.Image {
	if strength <= 0 {
		return src
	}
	if strength > 100 {
		strength = 100
	}

	bounds := src.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()
	if w < downscaleFactor*2 || h < downscaleFactor*2 {
		return src
	}

	// Isolate highlights at quarter resolution, soften, bring back up.
	small := resize.Resize(uint(w/downscaleFactor), 0, src, resize.Bilinear)
	glow := effect.Grayscale(small)
	glow = bildadjust.Contrast(glow, 0.5)
	glow = blur.Gaussian(glow, blurRadius)
	full := resize.Resize(uint(w), uint(h), glow, resize.Bilinear)

	screened := blend.Screen(src, full)
	return blend.Opacity(src, screened, float64(strength)/100)
}
