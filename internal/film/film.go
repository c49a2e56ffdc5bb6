// Package film implements the film-stock emulation recipes.
//
// Each stock is an optional 3×3 channel matrix (spectral crosstalk) followed
// by a per-channel sigmoid tone curve. The matrices and curve slopes are the
// contract: downstream LUTs must reproduce them within ±1 LSB at the grid
// corners, so the constants here are never "tuned" casually.
package film

import (
	"fmt"
	"strings"

	"github.com/AnyUserName/filmgrade-cli/internal/colorutil"
)

// Stock identifies one film emulation recipe.
type Stock uint8

const (
	// None is the pass-through stock: no matrix, no curve. Synthesizing a
	// LUT with None and neutral white balance/grading yields the identity
	// within quantization error.
	None Stock = iota
	Provia
	Velvia
	Astia
	ClassicChrome
	ClassicNeg
	NostalgicNeg
	RealaAce
	Eterna
	AcrosN
	AcrosYe
	AcrosR
	AcrosG
	Sepia
)

var stockNames = map[Stock]string{
	None:          "none",
	Provia:        "provia",
	Velvia:        "velvia",
	Astia:         "astia",
	ClassicChrome: "classic-chrome",
	ClassicNeg:    "classic-neg",
	NostalgicNeg:  "nostalgic-neg",
	RealaAce:      "reala-ace",
	Eterna:        "eterna",
	AcrosN:        "acros",
	AcrosYe:       "acros-ye",
	AcrosR:        "acros-r",
	AcrosG:        "acros-g",
	Sepia:         "sepia",
}

// String returns the canonical CLI name of the stock.
func (s Stock) String() string {
	if n, ok := stockNames[s]; ok {
		return n
	}
	return fmt.Sprintf("stock(%d)", uint8(s))
}

// Stocks lists every stock in catalogue order.
func Stocks() []Stock {
	return []Stock{
		None, Provia, Velvia, Astia, ClassicChrome, ClassicNeg, NostalgicNeg,
		RealaAce, Eterna, AcrosN, AcrosYe, AcrosR, AcrosG, Sepia,
	}
}

// Parse resolves a stock from its CLI name.
func Parse(name string) (Stock, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for s, n := range stockNames {
		if n == name {
			return s, nil
		}
	}
	return Provia, fmt.Errorf("unknown film stock %q", name)
}

// ─── channel matrices (row-major, output = M · input) ────────

var (
	matVelvia = [9]float32{
		1.15, -0.05, -0.10,
		-0.05, 1.15, -0.10,
		-0.10, -0.10, 1.20,
	}
	matAstia = [9]float32{
		1.05, 0.05, -0.10,
		0, 1, 0,
		-0.05, 0, 1.05,
	}
	matClassicChrome = [9]float32{
		0.75, 0.20, 0.05,
		0.10, 0.85, 0.05,
		0, 0.10, 0.90,
	}
	matClassicNeg = [9]float32{
		0.95, 0.05, 0,
		0, 1.05, 0,
		0, 0.10, 0.90,
	}
	matNostalgicNeg = [9]float32{
		1.10, 0.10, -0.20,
		0.05, 0.95, 0,
		-0.10, 0.10, 1.00,
	}
	matRealaAce = [9]float32{
		1.05, 0, -0.05,
		-0.02, 1.04, -0.02,
		-0.05, 0, 1.05,
	}
	matEterna = [9]float32{
		0.90, 0.10, 0,
		0.05, 0.90, 0.05,
		0, 0.10, 0.90,
	}
	matSepia = [9]float32{
		0.393, 0.769, 0.189,
		0.349, 0.686, 0.168,
		0.272, 0.534, 0.131,
	}
)

// Acros monochrome channel mixes: neutral, yellow, red, green filter.
var (
	mixAcrosN  = [3]float32{0.30, 0.60, 0.10}
	mixAcrosYe = [3]float32{0.40, 0.55, 0.05}
	mixAcrosR  = [3]float32{0.50, 0.45, 0.05}
	mixAcrosG  = [3]float32{0.20, 0.70, 0.10}
)

func mulMatrix(m *[9]float32, r, g, b float32) (float32, float32, float32) {
	return m[0]*r + m[1]*g + m[2]*b,
		m[3]*r + m[4]*g + m[5]*b,
		m[6]*r + m[7]*g + m[8]*b
}

// curve applies the per-channel sigmoid tone curve on [0, 255] values.
func curve(r, g, b, k, x0 float32) (float32, float32, float32) {
	return colorutil.Sigmoid(colorutil.Clamp01(r*(1.0/255)), k, x0) * 255,
		colorutil.Sigmoid(colorutil.Clamp01(g*(1.0/255)), k, x0) * 255,
		colorutil.Sigmoid(colorutil.Clamp01(b*(1.0/255)), k, x0) * 255
}

func mono(mix *[3]float32, r, g, b float32) float32 {
	return mix[0]*r + mix[1]*g + mix[2]*b
}

// Apply transforms one color through the stock's recipe. Channel values are
// in [0, 255]; the result may transiently exceed the range and is clamped by
// the caller at the LUT quantization boundary.
func (s Stock) Apply(r, g, b float32) (float32, float32, float32) {
	switch s {
	case None:
		return r, g, b

	case Provia:
		return curve(r, g, b, 4.5, 0.5)

	case Velvia:
		r, g, b = mulMatrix(&matVelvia, r, g, b)
		return curve(r, g, b, 6.5, 0.5)

	case Astia:
		r, g, b = mulMatrix(&matAstia, r, g, b)
		return curve(r, g, b, 4.5, 0.5)

	case ClassicChrome:
		r, g, b = mulMatrix(&matClassicChrome, r, g, b)
		return curve(r, g, b, 5.5, 0.55)

	case ClassicNeg:
		r, g, b = mulMatrix(&matClassicNeg, r, g, b)
		// Teal/amber split around mid grey: highlights lean red,
		// shadows lean blue.
		y := colorutil.Luma601(r, g, b) * (1.0 / 255)
		if y > 0.5 {
			r += (y - 0.5) * 16
		} else {
			b += (0.5 - y) * 16
		}
		return curve(r, g, b, 6.0, 0.5)

	case NostalgicNeg:
		r, g, b = mulMatrix(&matNostalgicNeg, r, g, b)
		return curve(r, g, b, 4.5, 0.5)

	case RealaAce:
		r, g, b = mulMatrix(&matRealaAce, r, g, b)
		return curve(r, g, b, 4.5, 0.5)

	case Eterna:
		r, g, b = mulMatrix(&matEterna, r, g, b)
		r, g, b = curve(r, g, b, 3.5, 0.5)
		// Lifted blacks: compress then raise the floor.
		return 0.9*r + 10, 0.9*g + 10, 0.9*b + 10

	case AcrosN, AcrosYe, AcrosR, AcrosG:
		var mix *[3]float32
		switch s {
		case AcrosYe:
			mix = &mixAcrosYe
		case AcrosR:
			mix = &mixAcrosR
		case AcrosG:
			mix = &mixAcrosG
		default:
			mix = &mixAcrosN
		}
		v := mono(mix, r, g, b)
		v = colorutil.Sigmoid(colorutil.Clamp01(v*(1.0/255)), 5.0, 0.5) * 255
		return v, v, v

	case Sepia:
		return mulMatrix(&matSepia, r, g, b)
	}
	return r, g, b
}

// Monochrome reports whether the stock discards chroma.
func (s Stock) Monochrome() bool {
	switch s {
	case AcrosN, AcrosYe, AcrosR, AcrosG:
		return true
	}
	return false
}
