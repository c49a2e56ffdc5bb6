package render

import (
	"testing"

	"github.com/AnyUserName/filmgrade-cli/internal/adjust"
	"github.com/AnyUserName/filmgrade-cli/internal/film"
	"github.com/AnyUserName/filmgrade-cli/internal/lut"
)

// benchSrc builds a deterministic 256×256 test frame.
func benchSrc() []uint8 {
	src := make([]uint8, 4*256*256)
	for i := 0; i < 256*256; i++ {
		src[i*4] = uint8((i * 251) % 256)
		src[i*4+1] = uint8((i * 179) % 256)
		src[i*4+2] = uint8((i * 113) % 256)
		src[i*4+3] = 255
	}
	return src
}

func BenchmarkRender_IdentitySliders(b *testing.B) {
	src := benchSrc()
	l := lut.Synthesize(film.Provia, adjust.WhiteBalance{}, adjust.Grading{})
	adj := adjust.Adjustments{GrainSize: 1, Intensity: 1}

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_, _, _ = Render(src, 256, 256, l, adj, nil)
	}
}

func BenchmarkRender_AllStages(b *testing.B) {
	src := benchSrc()
	l := lut.Synthesize(film.Velvia, adjust.WhiteBalance{Temp: 15, Tint: -5}, adjust.Grading{
		Shadows:    adjust.ToneWheel{Hue: 220, Sat: 30},
		Highlights: adjust.ToneWheel{Hue: 40, Sat: 25},
	})
	adj := adjust.Adjustments{
		Brightness: 10,
		Contrast:   20,
		Saturation: 15,
		Highlights: -20,
		Shadows:    10,
		Vignette:   40,
		GrainSize:  1,
		Intensity:  1,
	}
	adj.HSL.Red.Sat = 20
	adj.HSL.Blue.Lum = -15

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_, _, _ = Render(src, 256, 256, l, adj, nil)
	}
}

func BenchmarkSynthesize(b *testing.B) {
	grading := adjust.Grading{Midtones: adjust.ToneWheel{Hue: 120, Sat: 40}}
	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = lut.Synthesize(film.ClassicChrome, adjust.WhiteBalance{Temp: 10}, grading)
	}
}
