// Package texture implements the post-render pass: luma-gated smart sharpen
// followed by overlay-blended film grain.
//
// Sharpen runs before grain — the other order would amplify the noise it
// just added. Sharpen reads from a snapshot of the buffer so the
// convolution sees unperturbed neighbours. Grain replicates one PRNG draw
// across an s×s block for sizes above 1, which coarsens the grain without
// another buffer.
package texture

import (
	"github.com/AnyUserName/filmgrade-cli/internal/adjust"
	"github.com/AnyUserName/filmgrade-cli/internal/colorutil"
	"github.com/AnyUserName/filmgrade-cli/internal/noise"
)

// detailThreshold gates the unsharp mask: high-pass magnitudes at or below
// this are treated as noise and left alone.
const detailThreshold = 6

// Apply mutates pix (tightly packed RGBA) in place. seed drives the grain
// PRNG; passing the same seed reproduces the pass bit for bit. Alpha bytes
// are untouched.
func Apply(pix []uint8, w, h int, adj adjust.Adjustments, seed uint32) {
	if len(pix) != 4*w*h {
		return
	}
	if adj.Sharpening > 0 && w > 2 && h > 2 {
		sharpen(pix, w, h, adj.Sharpening)
	}
	if adj.GrainAmount > 0 {
		grain(pix, w, h, adj.GrainAmount, adj.GrainSize, seed)
	}
}

// luma601 on byte channels, in [0, 255].
func lumaAt(pix []uint8, off int) float32 {
	return 0.299*float32(pix[off]) + 0.587*float32(pix[off+1]) + 0.114*float32(pix[off+2])
}

// sharpen applies the luma-thresholded unsharp mask to interior pixels.
func sharpen(pix []uint8, w, h int, amount float32) {
	// The convolution must read unperturbed neighbours.
	snap := make([]uint8, len(pix))
	copy(snap, pix)

	strength := amount * (1.0 / 100) * 1.5
	stride := w * 4

	for y := 1; y < h-1; y++ {
		rowOff := y * stride
		for x := 1; x < w-1; x++ {
			off := rowOff + x*4

			yc := lumaAt(snap, off)
			yAvg := (lumaAt(snap, off-4) + lumaAt(snap, off+4) +
				lumaAt(snap, off-stride) + lumaAt(snap, off+stride)) * 0.25

			detail := yc - yAvg
			if detail <= detailThreshold && detail >= -detailThreshold {
				continue
			}

			// Deep shadows get proportionally less gain so sensor noise
			// is not amplified.
			protect := yc * (1.0 / 40)
			if protect > 1 {
				protect = 1
			}

			add := detail * strength * protect
			pix[off] = uint8(colorutil.Clamp255(float32(snap[off])+add) + 0.5)
			pix[off+1] = uint8(colorutil.Clamp255(float32(snap[off+1])+add) + 0.5)
			pix[off+2] = uint8(colorutil.Clamp255(float32(snap[off+2])+add) + 0.5)
		}
	}
}

// grain overlay-blends seeded noise over every pixel.
func grain(pix []uint8, w, h int, amount, size float32, seed uint32) {
	strength := amount * (1.0 / 100) * 0.8

	blockSize := int(size)
	if blockSize < 1 {
		blockSize = 1
	}
	blocksPerRow := (w + blockSize - 1) / blockSize

	for y := 0; y < h; y++ {
		rowOff := y * w * 4
		blockRow := uint32(y/blockSize) * uint32(blocksPerRow)
		for x := 0; x < w; x++ {
			off := rowOff + x*4

			rn := float32(pix[off]) * (1.0 / 255)
			gn := float32(pix[off+1]) * (1.0 / 255)
			bn := float32(pix[off+2]) * (1.0 / 255)

			// Damped in highlights, never zeroed in shadows.
			yl := colorutil.Luma709(rn, gn, bn)
			m := 1 - yl*yl
			if m < 0.2 {
				m = 0.2
			}

			n := noise.Value(seed, blockRow+uint32(x/blockSize))
			v := 0.5 + (n-0.5)*strength*m

			pix[off] = overlayByte(rn, v)
			pix[off+1] = overlayByte(gn, v)
			pix[off+2] = overlayByte(bn, v)
		}
	}
}

// overlayByte applies the overlay blend of v onto base (both normalized)
// and requantizes.
func overlayByte(base, v float32) uint8 {
	var out float32
	if base < 0.5 {
		out = 2 * base * v
	} else {
		out = 1 - 2*(1-base)*(1-v)
	}
	return uint8(colorutil.Clamp01(out)*255 + 0.5)
}
