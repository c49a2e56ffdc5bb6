package mask

import "github.com/chewxy/math32"

// Brush describes one stroke's stamp: diameter in pixels, hardness and flow
// in [0, 1], and whether it paints or erases.
type Brush struct {
	Size     float32
	Hardness float32
	Flow     float32
	Erase    bool
}

// Stroke rasterizes a pointer segment (x0,y0)→(x1,y1) into the alpha plane,
// splatting disks along the line. Paint accumulates toward full coverage,
// erase decays toward zero; both converge under repeated application so a
// stroke batch is idempotent once saturated.
func Stroke(alpha []uint8, w, h int, b Brush, x0, y0, x1, y1 float32) {
	if len(alpha) != w*h || b.Size <= 0 || b.Flow <= 0 {
		return
	}
	radius := b.Size * 0.5

	// Splat spacing of a quarter radius keeps the deposit rate independent
	// of pointer sample distance.
	dx := x1 - x0
	dy := y1 - y0
	dist := math32.Hypot(dx, dy)
	steps := int(dist/math32.Max(1, radius*0.25)) + 1

	for i := 0; i <= steps; i++ {
		t := float32(i) / float32(steps)
		splat(alpha, w, h, b, x0+dx*t, y0+dy*t, radius)
	}
}

// splat deposits one disk centered at (cx, cy).
func splat(alpha []uint8, w, h int, b Brush, cx, cy, radius float32) {
	minX := int(cx - radius)
	maxX := int(cx+radius) + 1
	minY := int(cy - radius)
	maxY := int(cy+radius) + 1
	if minX < 0 {
		minX = 0
	}
	if minY < 0 {
		minY = 0
	}
	if maxX > w {
		maxX = w
	}
	if maxY > h {
		maxY = h
	}

	// Hardness sets the radius fraction at full strength; beyond it the
	// edge falls off with a smoothstep, which reads as a gaussian-ish rim.
	hard := radius * b.Hardness

	for y := minY; y < maxY; y++ {
		fy := float32(y) + 0.5 - cy
		row := y * w
		for x := minX; x < maxX; x++ {
			fx := float32(x) + 0.5 - cx
			d := math32.Hypot(fx, fy)
			if d > radius {
				continue
			}

			fall := float32(1)
			if d > hard && radius > hard {
				v := 1 - (d-hard)/(radius-hard)
				fall = v * v * (3 - 2*v)
			}

			weight := fall * b.Flow
			a := float32(alpha[row+x])
			if b.Erase {
				// Truncate so repeated erasing always reaches zero.
				a -= weight * a
				if a < 0 {
					a = 0
				}
				alpha[row+x] = uint8(a)
			} else {
				a += weight * (255 - a)
				if a > 255 {
					a = 255
				}
				alpha[row+x] = uint8(a + 0.5)
			}
		}
	}
}
