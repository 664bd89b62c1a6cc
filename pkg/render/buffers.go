// Package render projects triangles onto a supersampled depth/shading
// raster and resolves it into a grid of shading glyphs.
package render

import "math"

// Buffers holds one frame's depth and shading values on the supersampled
// grid, row-major.
type Buffers struct {
	Width  int
	Height int
	Depth  []float64 // +Inf where nothing has been drawn
	Shade  []float64 // 0 (background) where nothing has been drawn
}

// NewBuffers creates cleared buffers of the given size.
func NewBuffers(width, height int) *Buffers {
	b := &Buffers{
		Width:  width,
		Height: height,
		Depth:  make([]float64, width*height),
		Shade:  make([]float64, width*height),
	}
	b.Clear()
	return b
}

// Clear resets depth to +Inf and shading to background.
func (b *Buffers) Clear() {
	// Use copy-doubling for faster clearing
	n := len(b.Depth)
	if n == 0 {
		return
	}
	b.Depth[0] = math.Inf(1)
	for i := 1; i < n; i *= 2 {
		copy(b.Depth[i:], b.Depth[:i])
	}
	clear(b.Shade)
}

// InBounds reports whether (x, y) is on the grid.
func (b *Buffers) InBounds(x, y int) bool {
	return x >= 0 && x < b.Width && y >= 0 && y < b.Height
}

// DepthAt returns the depth at (x, y), or +Inf if out of bounds.
func (b *Buffers) DepthAt(x, y int) float64 {
	if !b.InBounds(x, y) {
		return math.Inf(1)
	}
	return b.Depth[y*b.Width+x]
}

// ShadeAt returns the shading value at (x, y), or 0 if out of bounds.
func (b *Buffers) ShadeAt(x, y int) float64 {
	if !b.InBounds(x, y) {
		return 0
	}
	return b.Shade[y*b.Width+x]
}

// Plot writes shade and depth at (x, y) if depth is nearer than what is
// recorded there. It reports whether the cell was written.
func (b *Buffers) Plot(x, y int, depth, shade float64) bool {
	if !b.InBounds(x, y) {
		return false
	}
	i := y*b.Width + x
	if !(depth < b.Depth[i]) {
		return false
	}
	b.Depth[i] = depth
	b.Shade[i] = shade
	return true
}

// Touched returns the number of cells holding a drawn surface.
func (b *Buffers) Touched() int {
	n := 0
	for _, d := range b.Depth {
		if !math.IsInf(d, 1) {
			n++
		}
	}
	return n
}
