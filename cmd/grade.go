package cmd

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"time"

	"github.com/AnyUserName/filmgrade-cli/internal/adjust"
	"github.com/AnyUserName/filmgrade-cli/internal/halation"
	"github.com/AnyUserName/filmgrade-cli/internal/lut"
	"github.com/AnyUserName/filmgrade-cli/internal/pipeline"
	"github.com/AnyUserName/filmgrade-cli/internal/preset"
	"github.com/AnyUserName/filmgrade-cli/internal/render"
	"github.com/AnyUserName/filmgrade-cli/internal/texture"
	"github.com/cespare/xxhash/v2"
	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/spf13/cobra"
)

var (
	gradeOut        string
	gradePreset     string
	gradePresetFile string
	gradeFilm       string
	gradeWorkers    int
	gradeQuality    int
	gradeReport     bool

	gradeBrightness float32
	gradeContrast   float32
	gradeSaturation float32
	gradeHighlights float32
	gradeShadows    float32
	gradeIntensity  float32
	gradeVignette   float32
	gradeSharpen    float32
	gradeGrain      float32
	gradeGrainSize  float32
	gradeHalation   float32
	gradeWBTemp     float32
	gradeWBTint     float32

	gradeShadowTint    string
	gradeMidtoneTint   string
	gradeHighlightTint string
)

var gradeCmd = &cobra.Command{
	Use:   "grade <input_file_or_dir>",
	Short: "Grade an image (or every image in a directory)",
	Long: `Decodes the input (png, jpg, jpeg, webp, gif, bmp, tiff), applies the
selected preset plus any flag overrides, and writes the graded result
with a content-addressed filename.

Split-tone flags take "hex:strength", e.g. --shadow-tint "#1b4a6b:35".`,
	Args: cobra.ExactArgs(1),
	RunE: runGrade,
}

func init() {
	gradeCmd.Flags().StringVarP(&gradeOut, "out", "o", "./filmgrade_out", "output directory")
	gradeCmd.Flags().StringVarP(&gradePreset, "preset", "p", "provia-standard", "built-in preset")
	gradeCmd.Flags().StringVar(&gradePresetFile, "preset-file", "", "TOML preset file (overrides --preset)")
	gradeCmd.Flags().StringVarP(&gradeFilm, "film", "f", "", "film stock override")
	gradeCmd.Flags().IntVarP(&gradeWorkers, "workers", "w", 0, "parallel workers (0 = NumCPU)")
	gradeCmd.Flags().IntVarP(&gradeQuality, "quality", "q", 92, "JPEG quality 1-100")
	gradeCmd.Flags().BoolVarP(&gradeReport, "report", "R", false, "write filmgrade.report.json")

	gradeCmd.Flags().Float32Var(&gradeBrightness, "brightness", 0, "brightness -100..100")
	gradeCmd.Flags().Float32Var(&gradeContrast, "contrast", 0, "contrast -100..100")
	gradeCmd.Flags().Float32Var(&gradeSaturation, "saturation", 0, "saturation -100..100")
	gradeCmd.Flags().Float32Var(&gradeHighlights, "highlights", 0, "highlights -100..100")
	gradeCmd.Flags().Float32Var(&gradeShadows, "shadows", 0, "shadows -100..100")
	gradeCmd.Flags().Float32Var(&gradeIntensity, "intensity", 1, "film intensity 0..1")
	gradeCmd.Flags().Float32Var(&gradeVignette, "vignette", 0, "vignette 0..100")
	gradeCmd.Flags().Float32Var(&gradeSharpen, "sharpen", 0, "sharpening 0..100")
	gradeCmd.Flags().Float32Var(&gradeGrain, "grain", 0, "grain amount 0..100")
	gradeCmd.Flags().Float32Var(&gradeGrainSize, "grain-size", 1, "grain size 1..5")
	gradeCmd.Flags().Float32Var(&gradeHalation, "halation", 0, "halation 0..100")
	gradeCmd.Flags().Float32Var(&gradeWBTemp, "wb-temp", 0, "white balance temperature -50..50")
	gradeCmd.Flags().Float32Var(&gradeWBTint, "wb-tint", 0, "white balance tint -50..50")

	gradeCmd.Flags().StringVar(&gradeShadowTint, "shadow-tint", "", `shadow split-tone "hex:strength"`)
	gradeCmd.Flags().StringVar(&gradeMidtoneTint, "midtone-tint", "", `midtone split-tone "hex:strength"`)
	gradeCmd.Flags().StringVar(&gradeHighlightTint, "highlight-tint", "", `highlight split-tone "hex:strength"`)

	rootCmd.AddCommand(gradeCmd)
}

// parseTint parses "hex:strength" into a tone wheel via HSL.
func parseTint(spec string) (adjust.ToneWheel, error) {
	hex := spec
	strength := float32(50)
	if i := lastColon(spec); i > 0 {
		hex = spec[:i]
		var s float64
		if _, err := fmt.Sscanf(spec[i+1:], "%f", &s); err != nil {
			return adjust.ToneWheel{}, fmt.Errorf("bad tint strength in %q", spec)
		}
		strength = float32(s)
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return adjust.ToneWheel{}, fmt.Errorf("bad tint color %q: %w", hex, err)
	}
	h, _, _ := c.Hsl()
	return adjust.ToneWheel{Hue: float32(h), Sat: strength}, nil
}

func lastColon(s string) int {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == ':' {
			return i
		}
	}
	return -1
}

// buildPreset resolves the preset and folds in explicit flag overrides.
func buildPreset(cmd *cobra.Command) (preset.Preset, error) {
	var p preset.Preset
	if gradePresetFile != "" {
		loaded, err := preset.Load(gradePresetFile)
		if err != nil {
			return preset.Preset{}, err
		}
		p = loaded
	} else {
		p = preset.Get(gradePreset)
	}

	if gradeFilm != "" {
		p.Film = gradeFilm
		if _, err := p.Stock(); err != nil {
			return preset.Preset{}, err
		}
	}

	a := &p.Adjust
	setF := func(name string, dst *float32, v float32) {
		if cmd.Flags().Changed(name) {
			*dst = v
		}
	}
	setF("brightness", &a.Brightness, gradeBrightness)
	setF("contrast", &a.Contrast, gradeContrast)
	setF("saturation", &a.Saturation, gradeSaturation)
	setF("highlights", &a.Highlights, gradeHighlights)
	setF("shadows", &a.Shadows, gradeShadows)
	setF("intensity", &a.Intensity, gradeIntensity)
	setF("vignette", &a.Vignette, gradeVignette)
	setF("sharpen", &a.Sharpening, gradeSharpen)
	setF("grain", &a.GrainAmount, gradeGrain)
	setF("grain-size", &a.GrainSize, gradeGrainSize)
	setF("halation", &a.Halation, gradeHalation)
	setF("wb-temp", &a.WhiteBalance.Temp, gradeWBTemp)
	setF("wb-tint", &a.WhiteBalance.Tint, gradeWBTint)

	for _, t := range []struct {
		spec  string
		wheel *adjust.ToneWheel
	}{
		{gradeShadowTint, &a.Grading.Shadows},
		{gradeMidtoneTint, &a.Grading.Midtones},
		{gradeHighlightTint, &a.Grading.Highlights},
	} {
		if t.spec == "" {
			continue
		}
		w, err := parseTint(t.spec)
		if err != nil {
			return preset.Preset{}, err
		}
		*t.wheel = w
	}

	return p, nil
}

func runGrade(cmd *cobra.Command, args []string) error {
	input := args[0]
	start := time.Now()

	p, err := buildPreset(cmd)
	if err != nil {
		return err
	}

	info, err := os.Stat(input)
	if err != nil {
		return fmt.Errorf("stat %s: %w", input, err)
	}

	if err := os.MkdirAll(gradeOut, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	if info.IsDir() {
		return gradeDirectory(input, p, start)
	}
	return gradeSingle(input, p, start)
}

func gradeDirectory(input string, p preset.Preset, start time.Time) error {
	absIn, err := filepath.Abs(input)
	if err != nil {
		return fmt.Errorf("resolve input path: %w", err)
	}
	absOut, err := filepath.Abs(gradeOut)
	if err != nil {
		return fmt.Errorf("resolve output path: %w", err)
	}

	log.Debugf("input:  %s", absIn)
	log.Debugf("output: %s", absOut)
	log.Debugf("preset: %s (film=%s)", p.Name, p.Film)

	pl := pipeline.New(pipeline.Config{
		InputDir:  absIn,
		OutputDir: absOut,
		Preset:    p,
		Workers:   gradeWorkers,
		Verbose:   verbose,
		Quality:   gradeQuality,
	})

	rep, err := pl.Run()
	if err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}

	if gradeReport {
		reportPath := filepath.Join(absOut, "filmgrade.report.json")
		if err := rep.WriteJSON(reportPath); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
	}

	elapsed := time.Since(start)
	fmt.Printf("\n  Graded:  %d images (%s, film %s)\n", rep.Stats.TotalAssets, rep.Preset, rep.Film)
	if rep.Stats.Failed > 0 {
		fmt.Printf("  Failed:  %d\n", rep.Stats.Failed)
	}
	fmt.Printf("  Pixels:  %.1f MP\n", float64(rep.Stats.TotalPixels)/1e6)
	fmt.Printf("  Output:  %s\n", formatBytes(rep.Stats.TotalOutputBytes))
	fmt.Printf("  Time:    %s\n\n", elapsed.Round(time.Millisecond))
	return nil
}

func gradeSingle(input string, p preset.Preset, start time.Time) error {
	img, err := imaging.Open(input, imaging.AutoOrientation(true))
	if err != nil {
		return fmt.Errorf("open %s: %w", input, err)
	}
	nrgba := imaging.Clone(img)
	w := nrgba.Rect.Dx()
	h := nrgba.Rect.Dy()

	stock, err := p.Stock()
	if err != nil {
		return err
	}
	adjusted := p.Adjust.Normalize()

	var cache lut.Cache
	table := cache.Get(stock, adjusted.WhiteBalance, adjusted.Grading)

	out, hist, err := render.RenderParallel(nrgba.Pix, w, h, table, adjusted, nil, gradeWorkers)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	texture.Apply(out, w, h, adjusted, render.BaseSeed)

	graded := &image.NRGBA{Pix: out, Stride: 4 * w, Rect: image.Rect(0, 0, w, h)}
	var final image.Image = graded
	if adjusted.Halation > 0 {
		final = halation.Apply(graded, adjusted.Halation)
	}

	ext := filepath.Ext(input)
	base := filepath.Base(input[:len(input)-len(ext)])
	contentHash := fmt.Sprintf("%016x", xxhash.Sum64(out))
	outExt := ".jpg"
	if ext == ".png" {
		outExt = ".png"
	}
	outPath := filepath.Join(gradeOut, fmt.Sprintf("%s.%s.%s%s", base, p.Name, contentHash[:8], outExt))

	if err := imaging.Save(final, outPath, imaging.JPEGQuality(gradeQuality)); err != nil {
		return fmt.Errorf("save %s: %w", outPath, err)
	}

	peak, count := hist.Peak()
	elapsed := time.Since(start)
	fmt.Printf("\n  Graded:  %s (%dx%d, %s)\n", filepath.Base(input), w, h, p.Name)
	fmt.Printf("  Output:  %s\n", outPath)
	fmt.Printf("  Peak:    bin %d (%d px)\n", peak, count)
	fmt.Printf("  Time:    %s\n\n", elapsed.Round(time.Millisecond))
	return nil
}

func formatBytes(b int64) string {
	switch {
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}
