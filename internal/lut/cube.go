package lut

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// .cube text interchange per the Adobe/Resolve convention: optional TITLE,
// LUT_3D_SIZE, optional DOMAIN_MIN/DOMAIN_MAX, then N³ "r g b" float lines
// with red varying fastest. Fractional domains are normalized to [0, 1]
// before quantizing to bytes.

// ParseCube reads a 3D .cube file and quantizes it into a LUT.
func ParseCube(r io.Reader) (*LUT, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var (
		l       *LUT
		domMin  = [3]float64{0, 0, 0}
		domMax  = [3]float64{1, 1, 1}
		samples int
		lineNo  int
	)

	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		kw := strings.ToUpper(fields[0])
		switch kw {
		case "TITLE":
			continue
		case "LUT_1D_SIZE":
			return nil, fmt.Errorf("cube: 1D tables not supported (line %d)", lineNo)
		case "LUT_3D_SIZE":
			if len(fields) != 2 {
				return nil, fmt.Errorf("cube: malformed LUT_3D_SIZE (line %d)", lineNo)
			}
			n, err := strconv.Atoi(fields[1])
			if err != nil || n < 2 || n > 256 {
				return nil, fmt.Errorf("cube: invalid LUT_3D_SIZE %q (line %d)", fields[1], lineNo)
			}
			l = &LUT{N: n, Data: make([]uint8, 3*n*n*n)}
		case "DOMAIN_MIN", "DOMAIN_MAX":
			if len(fields) != 4 {
				return nil, fmt.Errorf("cube: malformed %s (line %d)", fields[0], lineNo)
			}
			var v [3]float64
			for i := 0; i < 3; i++ {
				f, err := strconv.ParseFloat(fields[i+1], 64)
				if err != nil {
					return nil, fmt.Errorf("cube: bad %s value %q (line %d)", fields[0], fields[i+1], lineNo)
				}
				v[i] = f
			}
			if kw == "DOMAIN_MIN" {
				domMin = v
			} else {
				domMax = v
			}
		default:
			if l == nil {
				return nil, fmt.Errorf("cube: sample data before LUT_3D_SIZE (line %d)", lineNo)
			}
			if len(fields) != 3 {
				return nil, fmt.Errorf("cube: expected 3 floats, got %d (line %d)", len(fields), lineNo)
			}
			if samples >= l.N*l.N*l.N {
				return nil, fmt.Errorf("cube: more than %d samples (line %d)", l.N*l.N*l.N, lineNo)
			}
			off := samples * 3
			for i := 0; i < 3; i++ {
				f, err := strconv.ParseFloat(fields[i], 64)
				if err != nil {
					return nil, fmt.Errorf("cube: bad sample %q (line %d)", fields[i], lineNo)
				}
				span := domMax[i] - domMin[i]
				if span <= 0 {
					return nil, fmt.Errorf("cube: degenerate domain on axis %d", i)
				}
				norm := (f - domMin[i]) / span
				if norm < 0 {
					norm = 0
				} else if norm > 1 {
					norm = 1
				}
				l.Data[off+i] = uint8(norm*255 + 0.5)
			}
			samples++
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("cube: read: %w", err)
	}
	if l == nil {
		return nil, fmt.Errorf("cube: missing LUT_3D_SIZE")
	}
	if samples != l.N*l.N*l.N {
		return nil, fmt.Errorf("cube: %d samples, want %d", samples, l.N*l.N*l.N)
	}
	return l, nil
}

// WriteCube serializes the LUT as .cube text with a unit domain.
func WriteCube(w io.Writer, l *LUT, title string) error {
	if err := l.Validate(); err != nil {
		return err
	}
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "TITLE %q\n", title)
	fmt.Fprintf(bw, "LUT_3D_SIZE %d\n", l.N)
	bw.WriteString("DOMAIN_MIN 0.0 0.0 0.0\n")
	bw.WriteString("DOMAIN_MAX 1.0 1.0 1.0\n")

	count := l.N * l.N * l.N
	for i := 0; i < count; i++ {
		off := i * 3
		fmt.Fprintf(bw, "%.6f %.6f %.6f\n",
			float64(l.Data[off])/255,
			float64(l.Data[off+1])/255,
			float64(l.Data[off+2])/255,
		)
	}
	return bw.Flush()
}
