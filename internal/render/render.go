// Package render implements the single-pass pixel processor: selective HSL,
// global tone, trilinear LUT sampling, intensity mix, local mask blending,
// vignette, dither, and histogram accumulation.
//
// Performance design:
//   - float32 throughout, three scalars per pixel, zero allocations inside
//     the loop
//   - every stage gated by a cheap precomputed "active" flag so identity
//     sliders cost nothing
//   - per-render reseeded PRNG: two renders of the same input are
//     bit-identical
//   - band shardable: disjoint row bands with seed ⊕ band and element-wise
//     histogram merge reproduce the single-thread result's determinism
package render

import (
	"fmt"

	"github.com/AnyUserName/filmgrade-cli/internal/adjust"
	"github.com/AnyUserName/filmgrade-cli/internal/colorutil"
	"github.com/AnyUserName/filmgrade-cli/internal/lut"
	"github.com/AnyUserName/filmgrade-cli/internal/mask"
	"github.com/AnyUserName/filmgrade-cli/internal/noise"
	"github.com/chewxy/math32"
)

// BaseSeed feeds the dither/grain PRNG. Fixed: successive renders of the
// same input must be bit-identical. Band b of a parallel render seeds with
// BaseSeed ^ b.
const BaseSeed uint32 = 0x9E3779B9

const hslEpsilon = 1e-4

// hslBand is a precomputed selective-HSL band: center plus pre-scaled deltas.
type hslBand struct {
	center float32
	dH     float32
	dS     float32
	dL     float32
}

// localParams is a mask layer's adjustments folded into per-pixel constants.
type localParams struct {
	alpha   []uint8
	opacity float32
	gain    float32 // exposure, 2^(exp/33)
	kc      float32 // contrast factor
	satF    float32 // 1 + sat/100
	tempT   float32 // temperature/100
	tintT   float32 // tint/100
	hasCon  bool
	hasSat  bool
	hasWB   bool
}

// plan holds everything the hot loop needs, resolved once per render.
type plan struct {
	w, h int
	lut  *lut.LUT

	hslActive bool
	bands     [6]hslBand

	brightness float32
	kContrast  float32
	satF       float32
	shadowAmt  float32
	highAmt    float32
	toneActive bool
	hasBright  bool
	hasCon     bool
	hasSat     bool
	hasShadow  bool
	hasHigh    bool

	intensity float32

	locals []localParams

	vigActive bool
	vigAmt    float32 // (vignette/100)·255
	cx, cy    float32
	invDMax   float32
}

// Render grades src (tightly packed RGBA, row-major) and returns the output
// buffer plus the per-channel histogram. src is never written; alpha is
// copied through verbatim.
func Render(src []uint8, w, h int, l *lut.LUT, adj adjust.Adjustments, masks []*mask.Layer) ([]uint8, *Histogram, error) {
	p, err := newPlan(src, w, h, l, adj, masks)
	if err != nil {
		return nil, nil, err
	}

	dst := make([]uint8, len(src))
	hist := &Histogram{}
	p.renderBand(src, dst, 0, h, noise.New(BaseSeed), hist)
	return dst, hist, nil
}

func newPlan(src []uint8, w, h int, l *lut.LUT, adj adjust.Adjustments, masks []*mask.Layer) (*plan, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, w, h)
	}
	if len(src) != 4*w*h {
		return nil, fmt.Errorf("%w: buffer %d bytes, want %d", ErrInvalidDimensions, len(src), 4*w*h)
	}
	if err := l.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLUTSizeMismatch, err)
	}

	adj = adj.Normalize()

	p := &plan{w: w, h: h, lut: l, intensity: adj.Intensity}

	p.hslActive = !adj.HSL.IsZero()
	if p.hslActive {
		for i, bc := range adj.HSL.Bands() {
			p.bands[i] = hslBand{
				center: bc.Center,
				dH:     bc.Band.Hue,
				dS:     bc.Band.Sat * (1.0 / 100),
				dL:     bc.Band.Lum * (1.0 / 100),
			}
		}
	}

	p.brightness = adj.Brightness
	p.kContrast = colorutil.ContrastFactor(adj.Contrast)
	p.satF = 1 + adj.Saturation*(1.0/100)
	p.shadowAmt = adj.Shadows * 0.5
	p.highAmt = adj.Highlights * 0.5
	p.hasBright = adj.Brightness != 0
	p.hasCon = adj.Contrast != 0
	p.hasSat = adj.Saturation != 0
	p.hasShadow = adj.Shadows != 0
	p.hasHigh = adj.Highlights != 0
	p.toneActive = p.hasBright || p.hasCon || p.hasSat || p.hasShadow || p.hasHigh

	for _, m := range masks {
		if m == nil {
			continue
		}
		if err := m.ValidateShape(w, h); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMaskShapeMismatch, err)
		}
		if !m.Active() {
			continue
		}
		la := m.Adjust
		p.locals = append(p.locals, localParams{
			alpha:   m.Alpha,
			opacity: m.Opacity,
			gain:    math32.Pow(2, la.Exposure*(1.0/33)),
			kc:      colorutil.ContrastFactor(la.Contrast),
			satF:    1 + la.Saturation*(1.0/100),
			tempT:   la.Temperature * (1.0 / 100),
			tintT:   la.Tint * (1.0 / 100),
			hasCon:  la.Contrast != 0,
			hasSat:  la.Saturation != 0,
			hasWB:   la.Temperature != 0 || la.Tint != 0,
		})
	}

	if adj.Vignette > 0 {
		p.vigActive = true
		p.vigAmt = adj.Vignette * (1.0 / 100) * 255
		p.cx = float32(w) * 0.5
		p.cy = float32(h) * 0.5
		p.invDMax = 1 / math32.Hypot(p.cx, p.cy)
	}

	return p, nil
}

// renderBand processes rows [y0, y1). Each band owns its PRNG and histogram
// so bands never share mutable state.
func (p *plan) renderBand(src, dst []uint8, y0, y1 int, rng *noise.Mulberry32, hist *Histogram) {
	w := p.w
	intensity := p.intensity
	sampleLUT := intensity > 0

	for y := y0; y < y1; y++ {
		rowOff := y * w * 4
		var dy2 float32
		if p.vigActive {
			dy := float32(y) + 0.5 - p.cy
			dy2 = dy * dy
		}

		for x := 0; x < w; x++ {
			off := rowOff + x*4
			r := float32(src[off])
			g := float32(src[off+1])
			b := float32(src[off+2])

			// ── Stage A: selective HSL ──
			if p.hslActive {
				r, g, b = p.applyHSL(r, g, b)
			}

			// ── Stage B: global tone ──
			if p.toneActive {
				r, g, b = p.applyTone(r, g, b)
			}

			// ── Stages C+D: trilinear LUT sample, intensity mix ──
			if sampleLUT {
				lr, lg, lb := p.lut.Sample(
					colorutil.Clamp255(r), colorutil.Clamp255(g), colorutil.Clamp255(b))
				r = colorutil.Lerp(r, lr, intensity)
				g = colorutil.Lerp(g, lg, intensity)
				b = colorutil.Lerp(b, lb, intensity)
			}

			// ── Stage E: local masks, list order ──
			if len(p.locals) > 0 {
				pi := y*w + x
				for i := range p.locals {
					lp := &p.locals[i]
					al := lp.alpha[pi]
					if al == 0 {
						continue
					}
					weight := float32(al) * (1.0 / 255) * lp.opacity
					lr, lg, lb := lp.apply(r, g, b)
					r = colorutil.Lerp(r, lr, weight)
					g = colorutil.Lerp(g, lg, weight)
					b = colorutil.Lerp(b, lb, weight)
				}
			}

			// ── Stage F: vignette ──
			if p.vigActive {
				dx := float32(x) + 0.5 - p.cx
				dn := math32.Sqrt(dx*dx+dy2) * p.invDMax
				v := dn * dn * dn * p.vigAmt
				r -= v
				g -= v
				b -= v
			}

			// ── Stage G: dither ──
			n := rng.Triangular()
			rb := uint8(colorutil.Clamp255(r+n) + 0.5)
			gb := uint8(colorutil.Clamp255(g+n) + 0.5)
			bb := uint8(colorutil.Clamp255(b+n) + 0.5)

			dst[off] = rb
			dst[off+1] = gb
			dst[off+2] = bb
			dst[off+3] = src[off+3]

			// ── Stage H: histogram ──
			hist.R[rb]++
			hist.G[gb]++
			hist.B[bb]++
		}
	}
}

func (p *plan) applyHSL(r, g, b float32) (float32, float32, float32) {
	h, s, l := colorutil.RGBToHSL(r, g, b)

	var dH, dS, dL float32
	for i := range p.bands {
		bd := &p.bands[i]
		w := colorutil.HueWeight(h, bd.center, colorutil.HueWeightRange)
		if w == 0 {
			continue
		}
		dH += bd.dH * w
		dS += bd.dS * w
		dL += bd.dL * w
	}

	if math32.Abs(dH) <= hslEpsilon && math32.Abs(dS) <= hslEpsilon && math32.Abs(dL) <= hslEpsilon {
		return r, g, b
	}

	h = math32.Mod(h+dH, 360)
	if h < 0 {
		h += 360
	}
	s = colorutil.Clamp01(s * (1 + dS))
	if dL > 0 {
		l += (1 - l) * dL * 0.5
	} else {
		l += l * dL * 0.5
	}
	l = colorutil.Clamp01(l)
	return colorutil.HSLToRGB(h, s, l)
}

func (p *plan) applyTone(r, g, b float32) (float32, float32, float32) {
	if p.hasBright {
		r += p.brightness
		g += p.brightness
		b += p.brightness
	}
	if p.hasCon {
		r = colorutil.ApplyContrast(r, p.kContrast)
		g = colorutil.ApplyContrast(g, p.kContrast)
		b = colorutil.ApplyContrast(b, p.kContrast)
	}
	r = colorutil.Clamp255(r)
	g = colorutil.Clamp255(g)
	b = colorutil.Clamp255(b)

	y := colorutil.Luma601(r, g, b)
	if p.hasSat {
		r = y + (r-y)*p.satF
		g = y + (g-y)*p.satF
		b = y + (b-y)*p.satF
	}
	if p.hasShadow {
		lift := math32.Max(0, 1-y*(1.0/255)) * p.shadowAmt
		r += lift
		g += lift
		b += lift
	}
	if p.hasHigh {
		drop := math32.Max(0, (y-128)*(1.0/128)) * p.highAmt
		r += drop
		g += drop
		b += drop
	}
	return colorutil.Clamp255(r), colorutil.Clamp255(g), colorutil.Clamp255(b)
}

// apply evaluates the layer's local adjustments on one color.
func (lp *localParams) apply(r, g, b float32) (float32, float32, float32) {
	r *= lp.gain
	g *= lp.gain
	b *= lp.gain
	if lp.hasCon {
		r = colorutil.ApplyContrast(r, lp.kc)
		g = colorutil.ApplyContrast(g, lp.kc)
		b = colorutil.ApplyContrast(b, lp.kc)
	}
	if lp.hasSat {
		y := colorutil.Luma601(r, g, b)
		r = y + (r-y)*lp.satF
		g = y + (g-y)*lp.satF
		b = y + (b-y)*lp.satF
	}
	if lp.hasWB {
		r *= 1 + lp.tempT
		b *= 1 - lp.tempT
		g *= 1 - lp.tintT
	}
	return colorutil.Clamp255(r), colorutil.Clamp255(g), colorutil.Clamp255(b)
}
