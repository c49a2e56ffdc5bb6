package cmd

import (
	"fmt"
	"strings"

	"github.com/AnyUserName/filmgrade-cli/internal/lut"
	"github.com/AnyUserName/filmgrade-cli/internal/preset"
	"github.com/AnyUserName/filmgrade-cli/internal/render"
	"github.com/disintegration/imaging"
	"github.com/spf13/cobra"
)

var statsPreset string

var statsCmd = &cobra.Command{
	Use:   "stats <image>",
	Short: "Render an image through a preset and print its histogram",
	Args:  cobra.ExactArgs(1),
	RunE:  runStats,
}

func init() {
	statsCmd.Flags().StringVarP(&statsPreset, "preset", "p", "neutral", "preset to render through")
	rootCmd.AddCommand(statsCmd)
}

func runStats(_ *cobra.Command, args []string) error {
	img, err := imaging.Open(args[0], imaging.AutoOrientation(true))
	if err != nil {
		return fmt.Errorf("open %s: %w", args[0], err)
	}
	nrgba := imaging.Clone(img)
	w := nrgba.Rect.Dx()
	h := nrgba.Rect.Dy()

	p := preset.Get(statsPreset)
	stock, err := p.Stock()
	if err != nil {
		return err
	}
	adjusted := p.Adjust.Normalize()

	var cache lut.Cache
	table := cache.Get(stock, adjusted.WhiteBalance, adjusted.Grading)

	_, hist, err := render.Render(nrgba.Pix, w, h, table, adjusted, nil)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}

	printHistogram(hist, w, h, p.Name)
	return nil
}

var sparkRunes = []rune(" ▁▂▃▄▅▆▇█")

func printHistogram(hist *render.Histogram, w, h int, presetName string) {
	fmt.Printf("\n  Image:   %dx%d (%d px)\n", w, h, w*h)
	fmt.Printf("  Preset:  %s\n\n", presetName)

	channels := []struct {
		name string
		bins *[256]uint32
	}{
		{"R", &hist.R},
		{"G", &hist.G},
		{"B", &hist.B},
	}

	// 32-bucket sparkline per channel.
	for _, ch := range channels {
		var buckets [32]uint64
		var max uint64
		for i, c := range ch.bins {
			buckets[i/8] += uint64(c)
		}
		for _, b := range buckets {
			if b > max {
				max = b
			}
		}

		var sb strings.Builder
		for _, b := range buckets {
			idx := 0
			if max > 0 {
				idx = int(b * uint64(len(sparkRunes)-1) / max)
			}
			sb.WriteRune(sparkRunes[idx])
		}
		fmt.Printf("  %s  %s\n", ch.name, sb.String())
	}

	peak, count := hist.Peak()
	fmt.Printf("\n  Peak bin: %d (%d px)\n\n", peak, count)
}
