// Package pipeline batch-grades a directory of images: scan, decode, render
// through the shared LUT, texture pass, optional halation, save, report.
//
// Parallelism is across images, not within a render: each worker grades one
// image single-threaded, which keeps per-image determinism independent of
// the worker count.
package pipeline

import (
	"fmt"
	"os"
	"runtime"
	"sync"

	"github.com/AnyUserName/filmgrade-cli/internal/lut"
	"github.com/AnyUserName/filmgrade-cli/internal/preset"
	"github.com/AnyUserName/filmgrade-cli/internal/report"
)

// Config holds all parameters for a batch grade run.
type Config struct {
	InputDir  string
	OutputDir string
	Preset    preset.Preset
	Workers   int
	Verbose   bool
	Quality   int // JPEG quality 1-100
}

// Pipeline orchestrates batch grading.
type Pipeline struct {
	cfg  Config
	luts lut.Cache
}

// New creates a configured pipeline.
func New(cfg Config) *Pipeline {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if cfg.Quality <= 0 {
		cfg.Quality = 92
	}
	return &Pipeline{cfg: cfg}
}

// Run grades every image under the input directory and returns the report.
func (p *Pipeline) Run() (*report.Report, error) {
	sources, err := ScanImages(p.cfg.InputDir)
	if err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("no images found in %s", p.cfg.InputDir)
	}

	if p.cfg.Verbose {
		fmt.Fprintf(os.Stderr, "[filmgrade] found %d images\n", len(sources))
	}

	stock, err := p.cfg.Preset.Stock()
	if err != nil {
		return nil, err
	}

	// Every image in the batch shares one synthesized LUT.
	adj := p.cfg.Preset.Adjust.Normalize()
	table := p.luts.Get(stock, adj.WhiteBalance, adj.Grading)

	results := make([]procResult, len(sources))
	var wg sync.WaitGroup
	sem := make(chan struct{}, p.cfg.Workers)

	for i, src := range sources {
		wg.Add(1)
		go func(idx int, s Source) {
			defer wg.Done()
			sem <- struct{}{} // acquire
			defer func() { <-sem }()

			if p.cfg.Verbose {
				fmt.Fprintf(os.Stderr, "[filmgrade] grading: %s\n", s.Key)
			}
			results[idx] = p.processOne(s, table)
		}(i, src)
	}
	wg.Wait()

	rep := report.New(p.cfg.Preset.Name, stock.String())
	rep.Workers = p.cfg.Workers

	var errs []error
	for _, r := range results {
		if r.err != nil {
			errs = append(errs, r.err)
			continue
		}
		rep.Assets[r.key] = r.asset
	}

	// Partial failures are reported, not fatal; a fully failed batch is.
	if len(errs) > 0 {
		for _, e := range errs {
			fmt.Fprintf(os.Stderr, "[filmgrade] error: %v\n", e)
		}
		if len(errs) == len(sources) {
			return nil, fmt.Errorf("all %d images failed to grade", len(errs))
		}
		rep.Stats.Failed = len(errs)
	}

	rep.ComputeStats()
	return rep, nil
}
