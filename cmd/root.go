package cmd

import (
	"fmt"
	"runtime"

	"github.com/AnyUserName/filmgrade-cli/internal/adjust"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	version = "0.1.0"
	verbose bool

	log = logrus.New()
)

var rootCmd = &cobra.Command{
	Use:   "filmgrade",
	Short: "Film-emulation grading engine for stills",
	Long: `filmgrade — grades 8-bit RGBA images through a film-emulation pipeline:
white balance, film stock, split toning, global tone, selective HSL,
3D LUT, vignette, dither, sharpen and grain.

The LUT is synthesized once per (film, white balance, grading) tuple and
cached; everything else is a single deterministic pass per image.`,
	Version: version,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			log.SetLevel(logrus.DebugLevel)
		}
		// Out-of-range sliders are clamped, not fatal; surface the
		// corrections on the debug channel.
		adjust.Debugf = log.Debugf
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"filmgrade %s (%s/%s, %s)\n",
		version, runtime.GOOS, runtime.GOARCH, runtime.Version(),
	))
}
