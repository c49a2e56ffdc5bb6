// Package lut implements the 32³ 3D color look-up table: synthesis from
// (film stock, white balance, grading), trilinear sampling, .cube text
// interchange, and a parameter-keyed cache.
//
// Layout: sample (ri, gi, bi) lives at index (ri + gi·N + bi·N²)·3, red
// fastest — the same ordering as a flattened .cube file, so interchange is
// a straight copy plus quantization.
package lut

import (
	"fmt"

	"github.com/AnyUserName/filmgrade-cli/internal/adjust"
	"github.com/AnyUserName/filmgrade-cli/internal/colorutil"
	"github.com/AnyUserName/filmgrade-cli/internal/film"
	"github.com/chewxy/math32"
)

// EdgeSize is the grid edge of every synthesized LUT.
const EdgeSize = 32

// LUT is an immutable 3D table of RGB output samples. Data holds 3·N³
// bytes, each triple clamped to [0, 255].
type LUT struct {
	N    int
	Data []uint8
}

// New allocates a LUT of edge size n with zeroed samples.
func New(n int) (*LUT, error) {
	if n < 2 {
		return nil, fmt.Errorf("lut: edge size %d below minimum 2", n)
	}
	return &LUT{N: n, Data: make([]uint8, 3*n*n*n)}, nil
}

// Validate checks that the sample array matches the declared edge size.
func (l *LUT) Validate() error {
	if l == nil {
		return fmt.Errorf("lut: nil table")
	}
	if l.N < 2 {
		return fmt.Errorf("lut: edge size %d below minimum 2", l.N)
	}
	if want := 3 * l.N * l.N * l.N; len(l.Data) != want {
		return fmt.Errorf("lut: %d samples, want %d for edge %d", len(l.Data), want, l.N)
	}
	return nil
}

// Identity returns the pass-through LUT at the standard edge size.
func Identity() *LUT {
	return Synthesize(film.None, adjust.WhiteBalance{}, adjust.Grading{})
}

// ─── synthesis ───────────────────────────────────────────────

// Synthesize evaluates white balance → film emulation → split-tone grading
// on every grid corner and quantizes the result. The returned table is
// treated as immutable by all callers.
func Synthesize(stock film.Stock, wb adjust.WhiteBalance, grading adjust.Grading) *LUT {
	l := &LUT{N: EdgeSize, Data: make([]uint8, 3*EdgeSize*EdgeSize*EdgeSize)}

	// Channel gains. Temperature trades red against blue, tint pulls green.
	t := wb.Temp * (1.0 / 100)
	tn := wb.Tint * (1.0 / 100)
	rGain := 1 + t
	gGain := 1 - tn
	bGain := 1 - t

	// Grading tints are constant across the grid; precompute them.
	type wheel struct {
		active     bool
		amount     float32
		tr, tg, tb float32
	}
	mkWheel := func(w adjust.ToneWheel) wheel {
		if w.Sat <= 0 {
			return wheel{}
		}
		tr, tg, tb := colorutil.HSLToRGB(w.Hue, 0.8, 0.5)
		return wheel{true, w.Sat * (1.0 / 100), tr * (1.0 / 255), tg * (1.0 / 255), tb * (1.0 / 255)}
	}
	shW := mkWheel(grading.Shadows)
	midW := mkWheel(grading.Midtones)
	hiW := mkWheel(grading.Highlights)
	anyGrading := shW.active || midW.active || hiW.active

	step := float32(255) / float32(EdgeSize-1)
	idx := 0
	for bi := 0; bi < EdgeSize; bi++ {
		for gi := 0; gi < EdgeSize; gi++ {
			for ri := 0; ri < EdgeSize; ri++ {
				r := float32(ri) * step * rGain
				g := float32(gi) * step * gGain
				b := float32(bi) * step * bGain

				r, g, b = stock.Apply(r, g, b)

				if anyGrading {
					y := colorutil.Luma601(r, g, b) * (1.0 / 255)
					shadow := math32.Max(0, 1-2*y)
					highlight := math32.Max(0, 2*(y-0.5))
					midtone := math32.Max(0, 1-2*math32.Abs(y-0.5))

					if shW.active && shadow > 0 {
						r, g, b = blendWheel(r, g, b, shW.tr, shW.tg, shW.tb, shW.amount*shadow)
					}
					if midW.active && midtone > 0 {
						r, g, b = blendWheel(r, g, b, midW.tr, midW.tg, midW.tb, midW.amount*midtone)
					}
					if hiW.active && highlight > 0 {
						r, g, b = blendWheel(r, g, b, hiW.tr, hiW.tg, hiW.tb, hiW.amount*highlight)
					}
				}

				// idx walks the array in layout order: red fastest.
				off := idx * 3
				l.Data[off] = uint8(colorutil.Clamp255(r) + 0.5)
				l.Data[off+1] = uint8(colorutil.Clamp255(g) + 0.5)
				l.Data[off+2] = uint8(colorutil.Clamp255(b) + 0.5)
				idx++
			}
		}
	}
	return l
}

// blendWheel soft-lights the tint color over each channel, weighted by the
// band mask × strength. Works on [0, 255] channels with [0, 1] tints.
func blendWheel(r, g, b, tr, tg, tb, w float32) (float32, float32, float32) {
	rn := colorutil.Clamp01(r * (1.0 / 255))
	gn := colorutil.Clamp01(g * (1.0 / 255))
	bn := colorutil.Clamp01(b * (1.0 / 255))
	r = colorutil.Lerp(r, colorutil.SoftLight(rn, tr)*255, w)
	g = colorutil.Lerp(g, colorutil.SoftLight(gn, tg)*255, w)
	b = colorutil.Lerp(b, colorutil.SoftLight(bn, tb)*255, w)
	return r, g, b
}

// ─── trilinear sampling ──────────────────────────────────────

// Sample interpolates the table at an RGB point in [0, 255] using the
// 8-corner fetch + 7-lerp pattern. Nearest-neighbour indexing posterizes
// smooth gradients, so it is never used here.
func (l *LUT) Sample(r, g, b float32) (float32, float32, float32) {
	n := l.N
	scale := float32(n-1) / 255

	pr := r * scale
	pg := g * scale
	pb := b * scale

	r0 := int(pr)
	g0 := int(pg)
	b0 := int(pb)
	if r0 > n-1 {
		r0 = n - 1
	}
	if g0 > n-1 {
		g0 = n - 1
	}
	if b0 > n-1 {
		b0 = n - 1
	}
	r1, g1, b1 := r0+1, g0+1, b0+1
	if r1 > n-1 {
		r1 = n - 1
	}
	if g1 > n-1 {
		g1 = n - 1
	}
	if b1 > n-1 {
		b1 = n - 1
	}

	fr := pr - float32(r0)
	fg := pg - float32(g0)
	fb := pb - float32(b0)

	data := l.Data
	base := func(ri, gi, bi int) int { return (ri + gi*n + bi*n*n) * 3 }

	c000 := base(r0, g0, b0)
	c100 := base(r1, g0, b0)
	c010 := base(r0, g1, b0)
	c110 := base(r1, g1, b0)
	c001 := base(r0, g0, b1)
	c101 := base(r1, g0, b1)
	c011 := base(r0, g1, b1)
	c111 := base(r1, g1, b1)

	var out [3]float32
	for ch := 0; ch < 3; ch++ {
		// Lerp along R, then G, then B: seven lerps per channel.
		x00 := colorutil.Lerp(float32(data[c000+ch]), float32(data[c100+ch]), fr)
		x10 := colorutil.Lerp(float32(data[c010+ch]), float32(data[c110+ch]), fr)
		x01 := colorutil.Lerp(float32(data[c001+ch]), float32(data[c101+ch]), fr)
		x11 := colorutil.Lerp(float32(data[c011+ch]), float32(data[c111+ch]), fr)
		y0 := colorutil.Lerp(x00, x10, fg)
		y1 := colorutil.Lerp(x01, x11, fg)
		out[ch] = colorutil.Lerp(y0, y1, fb)
	}
	return out[0], out[1], out[2]
}
