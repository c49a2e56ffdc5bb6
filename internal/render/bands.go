package render

import (
	"runtime"
	"sync"

	"github.com/AnyUserName/filmgrade-cli/internal/adjust"
	"github.com/AnyUserName/filmgrade-cli/internal/lut"
	"github.com/AnyUserName/filmgrade-cli/internal/mask"
	"github.com/AnyUserName/filmgrade-cli/internal/noise"
)

// RenderParallel shards the image into horizontal row bands and processes
// them concurrently. Band b seeds its PRNG with BaseSeed ^ b and fills its
// own histogram; histograms are merged in band order afterwards, so a given
// (input, workers) pair always produces identical output. workers <= 0
// means NumCPU.
func RenderParallel(src []uint8, w, h int, l *lut.LUT, adj adjust.Adjustments, masks []*mask.Layer, workers int) ([]uint8, *Histogram, error) {
	p, err := newPlan(src, w, h, l, adj, masks)
	if err != nil {
		return nil, nil, err
	}

	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > h {
		workers = h
	}
	if workers <= 1 {
		dst := make([]uint8, len(src))
		hist := &Histogram{}
		p.renderBand(src, dst, 0, h, noise.New(BaseSeed), hist)
		return dst, hist, nil
	}

	dst := make([]uint8, len(src))
	hists := make([]Histogram, workers)
	rows := (h + workers - 1) / workers

	var wg sync.WaitGroup
	sem := make(chan struct{}, runtime.NumCPU())
	for band := 0; band < workers; band++ {
		y0 := band * rows
		y1 := y0 + rows
		if y1 > h {
			y1 = h
		}
		if y0 >= y1 {
			continue
		}

		wg.Add(1)
		go func(band, y0, y1 int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			rng := noise.New(BaseSeed ^ uint32(band))
			p.renderBand(src, dst, y0, y1, rng, &hists[band])
		}(band, y0, y1)
	}
	wg.Wait()

	hist := &Histogram{}
	for i := range hists {
		hist.Merge(&hists[i])
	}
	return dst, hist, nil
}
