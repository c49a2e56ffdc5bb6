package lut

import (
	"encoding/binary"
	"math"
	"sync"

	"github.com/AnyUserName/filmgrade-cli/internal/adjust"
	"github.com/AnyUserName/filmgrade-cli/internal/film"
	"github.com/cespare/xxhash/v2"
)

// Cache memoizes the most recent synthesis. A render only needs the LUT
// rebuilt when (film, white balance, grading) change; every other slider
// reuses the cached table, which keeps slider drags at interactive rates.
type Cache struct {
	mu   sync.Mutex
	key  uint64
	last *LUT
}

// Get returns the LUT for the given parameters, synthesizing only on a
// key miss.
func (c *Cache) Get(stock film.Stock, wb adjust.WhiteBalance, grading adjust.Grading) *LUT {
	key := paramKey(stock, wb, grading)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.last != nil && c.key == key {
		return c.last
	}
	c.last = Synthesize(stock, wb, grading)
	c.key = key
	return c.last
}

// paramKey hashes the synthesis inputs into a single comparison key.
func paramKey(stock film.Stock, wb adjust.WhiteBalance, grading adjust.Grading) uint64 {
	var buf [1 + 10*4]byte
	buf[0] = byte(stock)
	vals := [10]float32{
		wb.Temp, wb.Tint,
		grading.Shadows.Hue, grading.Shadows.Sat,
		grading.Midtones.Hue, grading.Midtones.Sat,
		grading.Highlights.Hue, grading.Highlights.Sat,
		0, 0,
	}
	for i, v := range vals {
		binary.LittleEndian.PutUint32(buf[1+i*4:], math.Float32bits(v))
	}
	return xxhash.Sum64(buf[:])
}
