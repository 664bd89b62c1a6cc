package render

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"strings"

	"golang.org/x/image/draw"
)

// Frame is a resolved output grid: one intensity and one glyph per output
// cell, row-major.
type Frame struct {
	Width     int
	Height    int
	Intensity []float64
	Cells     []rune
}

// Resolve averages each antialias×antialias block of buf into one output
// cell and maps the result through levels.
func Resolve(buf *Buffers, antialias int, levels IntensityTable) *Frame {
	aa := max(antialias, 1)
	w, h := buf.Width/aa, buf.Height/aa
	f := &Frame{
		Width:     w,
		Height:    h,
		Intensity: make([]float64, w*h),
		Cells:     make([]rune, w*h),
	}

	samples := float64(aa * aa)
	for y := range h {
		for x := range w {
			var sum float64
			for sy := range aa {
				row := (y*aa + sy) * buf.Width
				for sx := range aa {
					sum += buf.Shade[row+x*aa+sx]
				}
			}
			t := sum / samples
			f.Intensity[y*w+x] = t
			f.Cells[y*w+x] = levels.Glyph(t)
		}
	}
	return f
}

// Glyph returns the glyph at (x, y), or Background if out of bounds.
func (f *Frame) Glyph(x, y int) rune {
	if x < 0 || x >= f.Width || y < 0 || y >= f.Height {
		return Background
	}
	return f.Cells[y*f.Width+x]
}

// IntensityAt returns the resolved intensity at (x, y), or 0 if out of
// bounds.
func (f *Frame) IntensityAt(x, y int) float64 {
	if x < 0 || x >= f.Width || y < 0 || y >= f.Height {
		return 0
	}
	return f.Intensity[y*f.Width+x]
}

// Rows returns the glyph grid as one string per row.
func (f *Frame) Rows() []string {
	rows := make([]string, f.Height)
	for y := range f.Height {
		rows[y] = string(f.Cells[y*f.Width : (y+1)*f.Width])
	}
	return rows
}

// Text renders the grid with each glyph repeated repeat times, one line
// per row. Terminal cells are about twice as tall as wide, so repeat=2
// gives roughly square pixels.
func (f *Frame) Text(repeat int) string {
	repeat = max(repeat, 1)
	var sb strings.Builder
	sb.Grow(f.Height * (f.Width*repeat + 1))
	for y := range f.Height {
		for _, c := range f.Cells[y*f.Width : (y+1)*f.Width] {
			for range repeat {
				sb.WriteRune(c)
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func (f *Frame) String() string {
	return f.Text(1)
}

// WriteTo writes the grid as text, implementing io.WriterTo.
func (f *Frame) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, f.Text(1))
	return int64(n), err
}

// Lit returns the number of cells that resolved to a glyph.
func (f *Frame) Lit() int {
	n := 0
	for _, c := range f.Cells {
		if c != Background {
			n++
		}
	}
	return n
}

// ToImage converts the intensities to a grayscale image.
func (f *Frame) ToImage() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, f.Width, f.Height))
	for y := range f.Height {
		for x := range f.Width {
			t := min(max(f.Intensity[y*f.Width+x], 0), 1)
			img.SetGray(x, y, color.Gray{Y: uint8(t*255 + 0.5)})
		}
	}
	return img
}

// SavePNG saves the intensities as a PNG file, each cell upscaled to a
// scale×scale block.
func (f *Frame) SavePNG(path string, scale int) error {
	var img image.Image = f.ToImage()
	if scale > 1 {
		dst := image.NewGray(image.Rect(0, 0, f.Width*scale, f.Height*scale))
		draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
		img = dst
	}

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create png: %w", err)
	}
	defer out.Close()
	if err := png.Encode(out, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}
