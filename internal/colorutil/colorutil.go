// Package colorutil implements the colorimetric primitives shared by the
// LUT synthesizer and the pixel processor.
//
// Performance design:
//   - float32 throughout (the pipeline is 8-bit in/out; float32 keeps the
//     per-pixel working set in registers)
//   - pure functions, zero allocations, no interface dispatch
//   - channel values nominally in [0, 255]; transient overflow between
//     stages is tolerated, clamping happens only at documented boundaries
package colorutil

import "github.com/chewxy/math32"

// Clamp255 clamps a channel value to [0, 255].
func Clamp255(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}

// Clamp01 clamps to the unit interval.
func Clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Lerp linearly interpolates between a and b by t.
func Lerp(a, b, t float32) float32 {
	return a + (b-a)*t
}

// Luma601 returns Rec.601 luma for channel values in [0, 255].
func Luma601(r, g, b float32) float32 {
	return 0.299*r + 0.587*g + 0.114*b
}

// Luma709 returns Rec.709 luma for normalized channel values in [0, 1].
func Luma709(r, g, b float32) float32 {
	return 0.2126*r + 0.7152*g + 0.0722*b
}

// ─── RGB ↔ HSL ───────────────────────────────────────────────

// RGBToHSL converts channel values in [0, 255] to hue in degrees [0, 360)
// and saturation/lightness in [0, 1]. Grey input returns h=0, s=0.
func RGBToHSL(r, g, b float32) (h, s, l float32) {
	rn := r * (1.0 / 255)
	gn := g * (1.0 / 255)
	bn := b * (1.0 / 255)

	max := rn
	min := rn
	if gn > max {
		max = gn
	} else if gn < min {
		min = gn
	}
	if bn > max {
		max = bn
	} else if bn < min {
		min = bn
	}

	l = (max + min) * 0.5
	if max == min {
		return 0, 0, l
	}

	d := max - min
	if l > 0.5 {
		s = d / (2 - max - min)
	} else {
		s = d / (max + min)
	}

	switch max {
	case rn:
		h = (gn - bn) / d
		if gn < bn {
			h += 6
		}
	case gn:
		h = (bn-rn)/d + 2
	default:
		h = (rn-gn)/d + 4
	}
	h *= 60
	return h, s, l
}

// hueToChan is the standard helper for HSLToRGB; t is a hue phase in [0, 1)
// after wrapping.
func hueToChan(p, q, t float32) float32 {
	if t < 0 {
		t++
	}
	if t > 1 {
		t--
	}
	switch {
	case t < 1.0/6:
		return p + (q-p)*6*t
	case t < 0.5:
		return q
	case t < 2.0/3:
		return p + (q-p)*(2.0/3-t)*6
	}
	return p
}

// HSLToRGB converts hue in degrees and sat/light in [0, 1] back to channel
// values in [0, 255].
func HSLToRGB(h, s, l float32) (r, g, b float32) {
	if s == 0 {
		v := l * 255
		return v, v, v
	}

	var q float32
	if l < 0.5 {
		q = l * (1 + s)
	} else {
		q = l + s - l*s
	}
	p := 2*l - q

	hn := h * (1.0 / 360)
	r = hueToChan(p, q, hn+1.0/3) * 255
	g = hueToChan(p, q, hn) * 255
	b = hueToChan(p, q, hn-1.0/3) * 255
	return r, g, b
}

// ─── hue distance weight ─────────────────────────────────────

// HueWeightRange is the default falloff range for selective HSL bands.
const HueWeightRange = 45

// HueWeight returns a [0, 1] membership weight for hue h against a band
// center, with angular wrap at 180° and smoothstep falloff. Returns 0 once
// the wrapped distance reaches rng.
func HueWeight(h, center, rng float32) float32 {
	diff := math32.Abs(h - center)
	if diff > 180 {
		diff = 360 - diff
	}
	if diff >= rng {
		return 0
	}
	v := 1 - diff/rng
	return v * v * (3 - 2*v)
}

// ─── blend & curves ──────────────────────────────────────────

// SoftLight applies the Photoshop soft-light formulation for base and blend
// in [0, 1].
func SoftLight(base, blend float32) float32 {
	if blend <= 0.5 {
		return base - (1-2*blend)*base*(1-base)
	}
	var d float32
	if base <= 0.25 {
		d = ((16*base-12)*base + 4) * base
	} else {
		d = math32.Sqrt(base)
	}
	return base + (2*blend-1)*(d-base)
}

// Sigmoid evaluates a logistic S-curve at x in [0, 1], renormalized so that
// x=0 maps to 0 and x=1 maps to 1. k sets the midtone slope, x0 the pivot.
func Sigmoid(x, k, x0 float32) float32 {
	f0 := 1 / (1 + math32.Exp(k*x0))
	f1 := 1 / (1 + math32.Exp(-k*(1-x0)))
	fx := 1 / (1 + math32.Exp(-k*(x-x0)))
	return (fx - f0) / (f1 - f0)
}

// ContrastFactor maps a contrast slider value in [-100, 100] to the gain
// applied around mid-grey: y = k·(x−128)+128.
func ContrastFactor(c float32) float32 {
	return 259 * (c + 255) / (255 * (259 - c))
}

// ApplyContrast applies the contrast gain around 128 without clamping.
func ApplyContrast(v, k float32) float32 {
	return k*(v-128) + 128
}
