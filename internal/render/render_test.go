package render

import (
	"errors"
	"testing"

	"github.com/AnyUserName/filmgrade-cli/internal/adjust"
	"github.com/AnyUserName/filmgrade-cli/internal/colorutil"
	"github.com/AnyUserName/filmgrade-cli/internal/film"
	"github.com/AnyUserName/filmgrade-cli/internal/lut"
	"github.com/AnyUserName/filmgrade-cli/internal/mask"
)

// neutral returns a do-nothing adjustment snapshot.
func neutral() adjust.Adjustments {
	return adjust.Adjustments{GrainSize: 1}
}

// solidSrc builds a w×h buffer filled with one RGBA value.
func solidSrc(w, h int, r, g, b, a uint8) []uint8 {
	src := make([]uint8, 4*w*h)
	for i := 0; i < w*h; i++ {
		src[i*4] = r
		src[i*4+1] = g
		src[i*4+2] = b
		src[i*4+3] = a
	}
	return src
}

func TestRender_Identity(t *testing.T) {
	// 2×2, distinct values per pixel, Provia LUT but intensity 0.
	src := []uint8{
		10, 40, 70, 255, 20, 50, 80, 255,
		30, 60, 90, 255, 40, 70, 100, 255,
	}
	l := lut.Synthesize(film.Provia, adjust.WhiteBalance{}, adjust.Grading{})

	dst, hist, err := Render(src, 2, 2, l, neutral(), nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for i := range src {
		if dst[i] != src[i] {
			t.Fatalf("byte %d: got %d, want %d", i, dst[i], src[i])
		}
	}

	r, g, b := hist.Totals()
	if r != 4 || g != 4 || b != 4 {
		t.Errorf("totals: %d/%d/%d, want 4 each", r, g, b)
	}
	// Four distinct values land in four distinct bins per channel.
	for _, bins := range [][256]uint32{hist.R, hist.G, hist.B} {
		distinct := 0
		for _, c := range bins {
			if c == 1 {
				distinct++
			}
		}
		if distinct != 4 {
			t.Errorf("distinct bins: got %d, want 4", distinct)
		}
	}
}

func TestRender_PureBrightness(t *testing.T) {
	src := solidSrc(4, 4, 100, 100, 100, 255)
	adj := neutral()
	adj.Brightness = 50

	dst, _, err := Render(src, 4, 4, lut.Identity(), adj, nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for i := 0; i < 16; i++ {
		if dst[i*4] != 150 || dst[i*4+1] != 150 || dst[i*4+2] != 150 {
			t.Fatalf("pixel %d: got (%d,%d,%d), want (150,150,150)",
				i, dst[i*4], dst[i*4+1], dst[i*4+2])
		}
	}
}

func TestRender_PureContrast(t *testing.T) {
	// (0, 128, 255): center preserved, endpoints clipped.
	src := []uint8{0, 128, 255, 255}
	adj := neutral()
	adj.Contrast = 100

	dst, _, err := Render(src, 1, 1, lut.Identity(), adj, nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if dst[0] != 0 || dst[1] != 128 || dst[2] != 255 {
		t.Errorf("got (%d,%d,%d), want (0,128,255)", dst[0], dst[1], dst[2])
	}
}

func TestRender_LUTCorner(t *testing.T) {
	// A pixel exactly on a grid corner through the identity LUT at full
	// intensity comes back within ±1.
	src := []uint8{0, 0, 0, 255}
	adj := neutral()
	adj.Intensity = 1

	dst, _, err := Render(src, 1, 1, lut.Identity(), adj, nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for i := 0; i < 3; i++ {
		if dst[i] > 1 {
			t.Errorf("channel %d: got %d, want ≤1", i, dst[i])
		}
	}
}

func TestRender_SepiaStamp(t *testing.T) {
	src := solidSrc(2, 2, 128, 128, 128, 255)
	adj := neutral()
	adj.Intensity = 1
	l := lut.Synthesize(film.Sepia, adjust.WhiteBalance{}, adjust.Grading{})

	dst, _, err := Render(src, 2, 2, l, adj, nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	// Matrix row sums × 128 ≈ (173, 154, 120); trilinear interpolation of
	// a linear transform plus dither stays within ±3.
	want := [3]int{173, 154, 120}
	for ch := 0; ch < 3; ch++ {
		got := int(dst[ch])
		if got < want[ch]-3 || got > want[ch]+3 {
			t.Errorf("channel %d: got %d, want %d±3", ch, got, want[ch])
		}
	}
}

func TestRender_MaskLocality(t *testing.T) {
	// Left pixel unmasked, right pixel fully masked with a 2× exposure
	// gain (local exposure +33 → 2^(33/33)).
	src := []uint8{60, 70, 80, 255, 60, 70, 80, 255}

	m, err := mask.NewLayer("m", 2, 1)
	if err != nil {
		t.Fatal(err)
	}
	m.Alpha[0] = 0
	m.Alpha[1] = 255
	m.Adjust.Exposure = 33

	dst, _, err := Render(src, 2, 1, lut.Identity(), neutral(), []*mask.Layer{m})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	if dst[0] != 60 || dst[1] != 70 || dst[2] != 80 {
		t.Errorf("unmasked pixel changed: (%d,%d,%d)", dst[0], dst[1], dst[2])
	}
	if dst[4] != 120 || dst[5] != 140 || dst[6] != 160 {
		t.Errorf("masked pixel: got (%d,%d,%d), want (120,140,160)", dst[4], dst[5], dst[6])
	}
}

func TestRender_MaskMonotonicity(t *testing.T) {
	src := solidSrc(2, 2, 60, 80, 100, 255)

	renderWithAlpha := func(a uint8) []uint8 {
		m, _ := mask.NewLayer("m", 2, 2)
		m.Fill(a)
		m.Adjust.Exposure = 33
		dst, _, err := Render(src, 2, 2, lut.Identity(), neutral(), []*mask.Layer{m})
		if err != nil {
			t.Fatalf("render: %v", err)
		}
		return dst
	}

	id := renderWithAlpha(0)
	half := renderWithAlpha(128)
	full := renderWithAlpha(255)

	for i := 0; i < len(src); i += 4 {
		for ch := 0; ch < 3; ch++ {
			lo, mid, hi := id[i+ch], half[i+ch], full[i+ch]
			if mid < lo || mid > hi {
				t.Fatalf("byte %d: %d not between %d and %d", i+ch, mid, lo, hi)
			}
			if !(mid > lo && mid < hi) {
				t.Fatalf("byte %d: %d does not strictly interpolate %d..%d", i+ch, mid, lo, hi)
			}
		}
	}
}

func TestRender_AlphaPreserved(t *testing.T) {
	src := []uint8{
		10, 200, 30, 0, 250, 5, 90, 17,
		1, 2, 3, 128, 200, 201, 202, 255,
	}
	adj := neutral()
	adj.Contrast = 60
	adj.Saturation = -40
	adj.Vignette = 80
	adj.Intensity = 1
	l := lut.Synthesize(film.Velvia, adjust.WhiteBalance{Temp: 20, Tint: -10}, adjust.Grading{})

	dst, _, err := Render(src, 2, 2, l, adj, nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for i := 3; i < len(src); i += 4 {
		if dst[i] != src[i] {
			t.Errorf("alpha %d: got %d, want %d", i, dst[i], src[i])
		}
	}
}

func TestRender_HistogramTotals(t *testing.T) {
	const w, h = 17, 13
	src := make([]uint8, 4*w*h)
	for i := 0; i < w*h; i++ {
		src[i*4] = uint8((i * 37) % 256)
		src[i*4+1] = uint8((i * 101) % 256)
		src[i*4+2] = uint8((i * 7) % 256)
		src[i*4+3] = 255
	}
	adj := neutral()
	adj.Contrast = 30
	adj.Vignette = 40
	adj.Intensity = 0.7
	l := lut.Synthesize(film.ClassicChrome, adjust.WhiteBalance{}, adjust.Grading{})

	_, hist, err := Render(src, w, h, l, adj, nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	r, g, b := hist.Totals()
	if want := uint64(w * h); r != want || g != want || b != want {
		t.Errorf("totals %d/%d/%d, want %d", r, g, b, want)
	}
}

func TestRender_Deterministic(t *testing.T) {
	const w, h = 24, 24
	src := make([]uint8, 4*w*h)
	for i := range src {
		src[i] = uint8((i * 31) % 256)
	}
	adj := neutral()
	adj.GrainAmount = 50
	adj.Contrast = 25
	adj.Intensity = 1
	l := lut.Synthesize(film.NostalgicNeg, adjust.WhiteBalance{Temp: 5}, adjust.Grading{})

	d1, h1, err := Render(src, w, h, l, adj, nil)
	if err != nil {
		t.Fatal(err)
	}
	d2, h2, err := Render(src, w, h, l, adj, nil)
	if err != nil {
		t.Fatal(err)
	}
	for i := range d1 {
		if d1[i] != d2[i] {
			t.Fatalf("byte %d differs: %d vs %d", i, d1[i], d2[i])
		}
	}
	if *h1 != *h2 {
		t.Error("histograms differ between identical renders")
	}
}

func TestRenderParallel_MatchesWorkerCount(t *testing.T) {
	const w, h = 16, 33
	src := make([]uint8, 4*w*h)
	for i := range src {
		src[i] = uint8((i * 13) % 256)
	}
	adj := neutral()
	adj.Intensity = 1
	adj.Contrast = 15
	l := lut.Synthesize(film.Astia, adjust.WhiteBalance{}, adjust.Grading{})

	// Same worker count twice is bit-identical and totals always hold.
	d1, h1, err := RenderParallel(src, w, h, l, adj, nil, 4)
	if err != nil {
		t.Fatal(err)
	}
	d2, h2, err := RenderParallel(src, w, h, l, adj, nil, 4)
	if err != nil {
		t.Fatal(err)
	}
	for i := range d1 {
		if d1[i] != d2[i] {
			t.Fatalf("byte %d differs across runs", i)
		}
	}
	if *h1 != *h2 {
		t.Error("histograms differ across runs")
	}
	r, g, b := h1.Totals()
	if want := uint64(w * h); r != want || g != want || b != want {
		t.Errorf("totals %d/%d/%d, want %d", r, g, b, want)
	}
}

func TestRender_HueBandSmoothness(t *testing.T) {
	// A 1px-per-degree hue sweep with red saturation pushed to +100 must
	// stay continuous: no neighbour jump bigger than the sweep's own
	// slope allows.
	const w = 360
	src := make([]uint8, 4*w)
	for x := 0; x < w; x++ {
		r, g, b := colorutil.HSLToRGB(float32(x), 0.5, 0.5)
		src[x*4] = uint8(r + 0.5)
		src[x*4+1] = uint8(g + 0.5)
		src[x*4+2] = uint8(b + 0.5)
		src[x*4+3] = 255
	}

	adj := neutral()
	adj.HSL.Red.Sat = 100

	dst, _, err := Render(src, w, 1, lut.Identity(), adj, nil)
	if err != nil {
		t.Fatal(err)
	}

	const maxJump = 20
	for x := 1; x < w; x++ {
		for ch := 0; ch < 3; ch++ {
			d := int(dst[x*4+ch]) - int(dst[(x-1)*4+ch])
			if d < 0 {
				d = -d
			}
			if d > maxJump {
				t.Fatalf("discontinuity at hue %d, channel %d: jump %d", x, ch, d)
			}
		}
	}
}

func TestRender_VignetteDarkensCorners(t *testing.T) {
	const w, h = 33, 33
	src := solidSrc(w, h, 200, 200, 200, 255)
	adj := neutral()
	adj.Vignette = 100

	dst, _, err := Render(src, w, h, lut.Identity(), adj, nil)
	if err != nil {
		t.Fatal(err)
	}

	center := dst[(16*w+16)*4]
	corner := dst[0]
	if corner >= center {
		t.Errorf("corner %d not darker than center %d", corner, center)
	}
	// Cubic falloff leaves the exact center essentially untouched.
	if center < 199 {
		t.Errorf("center darkened too much: %d", center)
	}
}

func TestRender_InvalidInputs(t *testing.T) {
	l := lut.Identity()
	src := solidSrc(2, 2, 0, 0, 0, 255)

	if _, _, err := Render(src, 0, 2, l, neutral(), nil); !errors.Is(err, ErrInvalidDimensions) {
		t.Errorf("zero width: %v", err)
	}
	if _, _, err := Render(src[:7], 2, 2, l, neutral(), nil); !errors.Is(err, ErrInvalidDimensions) {
		t.Errorf("short buffer: %v", err)
	}

	bad := &lut.LUT{N: 32, Data: make([]uint8, 10)}
	if _, _, err := Render(src, 2, 2, bad, neutral(), nil); !errors.Is(err, ErrLUTSizeMismatch) {
		t.Errorf("bad lut: %v", err)
	}

	m, _ := mask.NewLayer("m", 3, 3)
	m.Adjust.Exposure = 10
	if _, _, err := Render(src, 2, 2, l, neutral(), []*mask.Layer{m}); !errors.Is(err, ErrMaskShapeMismatch) {
		t.Errorf("bad mask: %v", err)
	}
}

func TestRender_MasksComposeInOrder(t *testing.T) {
	// Two full-coverage masks: +1 stop then -1 stop is a wash only if the
	// second sees the first's output.
	src := solidSrc(1, 1, 80, 80, 80, 255)

	up, _ := mask.NewLayer("up", 1, 1)
	up.Fill(255)
	up.Adjust.Exposure = 33
	down, _ := mask.NewLayer("down", 1, 1)
	down.Fill(255)
	down.Adjust.Exposure = -33

	dst, _, err := Render(src, 1, 1, lut.Identity(), neutral(), []*mask.Layer{up, down})
	if err != nil {
		t.Fatal(err)
	}
	if dst[0] != 80 {
		t.Errorf("compose order broken: got %d, want 80", dst[0])
	}
}
