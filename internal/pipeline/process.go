package pipeline

import (
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/AnyUserName/filmgrade-cli/internal/halation"
	"github.com/AnyUserName/filmgrade-cli/internal/lut"
	"github.com/AnyUserName/filmgrade-cli/internal/render"
	"github.com/AnyUserName/filmgrade-cli/internal/report"
	"github.com/AnyUserName/filmgrade-cli/internal/texture"
	"github.com/cespare/xxhash/v2"
	"github.com/disintegration/imaging"

	_ "golang.org/x/image/webp"
)

// procResult holds the outcome of grading a single source image.
type procResult struct {
	key   string
	asset report.Asset
	err   error
}

// processOne decodes, grades, textures, and saves one image.
func (p *Pipeline) processOne(src Source, table *lut.LUT) procResult {
	result := procResult{key: src.Key}

	img, err := imaging.Open(src.AbsPath, imaging.AutoOrientation(true))
	if err != nil {
		result.err = fmt.Errorf("open %s: %w", src.RelPath, err)
		return result
	}

	// Clone gives a tightly packed NRGBA at origin, which is exactly the
	// engine's buffer contract.
	nrgba := imaging.Clone(img)
	w := nrgba.Rect.Dx()
	h := nrgba.Rect.Dy()

	adj := p.cfg.Preset.Adjust
	out, hist, err := render.Render(nrgba.Pix, w, h, table, adj, nil)
	if err != nil {
		result.err = fmt.Errorf("render %s: %w", src.RelPath, err)
		return result
	}
	texture.Apply(out, w, h, adj, render.BaseSeed)

	graded := &image.NRGBA{Pix: out, Stride: 4 * w, Rect: image.Rect(0, 0, w, h)}

	var final image.Image = graded
	if adj.Halation > 0 {
		final = halation.Apply(graded, adj.Halation)
	}

	// Content-addressed output name: <key>.<preset>.<hash8>.<ext>
	contentHash := fmt.Sprintf("%016x", xxhash.Sum64(out))
	ext := "jpg"
	if src.Format == "png" {
		ext = "png"
	}
	fileName := fmt.Sprintf("%s.%s.%s.%s",
		filepath.Base(src.Key), p.cfg.Preset.Name, contentHash[:8], ext)

	keyDir := filepath.Dir(src.Key)
	if keyDir != "." {
		os.MkdirAll(filepath.Join(p.cfg.OutputDir, keyDir), 0o755)
	}
	relPath := filepath.ToSlash(filepath.Join(keyDir, fileName))
	outPath := filepath.Join(p.cfg.OutputDir, relPath)

	if err := imaging.Save(final, outPath, imaging.JPEGQuality(p.cfg.Quality)); err != nil {
		result.err = fmt.Errorf("save %s: %w", relPath, err)
		return result
	}

	info, err := os.Stat(outPath)
	if err != nil {
		result.err = fmt.Errorf("stat %s: %w", relPath, err)
		return result
	}

	result.asset = report.Asset{
		Original: report.OriginalInfo{
			Width: w, Height: h,
			Format: src.Format,
			Size:   src.Size,
		},
		Output: report.OutputInfo{
			Path: relPath,
			Hash: contentHash[:16],
			Size: info.Size(),
		},
		Tone: toneInfo(hist, w, h),
	}
	return result
}

// toneInfo folds the render histogram into the report summary.
func toneInfo(hist *render.Histogram, w, h int) report.ToneInfo {
	peak, count := hist.Peak()

	// Mean Rec.601 luma from the per-channel bins.
	var rSum, gSum, bSum float64
	for i := 0; i < 256; i++ {
		rSum += float64(i) * float64(hist.R[i])
		gSum += float64(i) * float64(hist.G[i])
		bSum += float64(i) * float64(hist.B[i])
	}
	n := float64(w) * float64(h)
	mean := (0.299*rSum + 0.587*gSum + 0.114*bSum) / n

	return report.ToneInfo{
		PeakBin:   peak,
		PeakCount: count,
		MeanLuma:  mean,
	}
}
