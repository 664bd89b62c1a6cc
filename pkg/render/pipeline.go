package render

// Drawable is anything the frame pipeline can rasterize.
type Drawable interface {
	// Hidden reports whether the drawable is skipped this frame.
	Hidden() bool
	// Rasterize submits the drawable's world-space triangles to r.
	Rasterize(r *Rasterizer)
}

// TriangleList is a fixed set of world-space triangles. It is never hidden.
type TriangleList []Triangle

// Hidden implements Drawable.
func (l TriangleList) Hidden() bool { return false }

// Rasterize implements Drawable.
func (l TriangleList) Rasterize(r *Rasterizer) { r.DrawTriangles(l) }

// Render draws one frame. The camera's transform and settings are read
// once at the start; drawables are rasterized in order into fresh buffers
// which are then resolved to the output grid.
func (c *Camera) Render(drawables []Drawable) *Frame {
	view := c.View()
	buf := NewBuffers(view.Width, view.Height)
	r := NewRasterizer(view, buf)

	for _, d := range drawables {
		if d == nil || d.Hidden() {
			continue
		}
		d.Rasterize(r)
	}

	c.Stats = r.Stats
	return Resolve(buf, view.Antialias, view.Levels)
}
