package render

import (
	"math"

	"github.com/taigrr/asciithree/pkg/math3d"
)

// maxCoord bounds the cell coordinates Project returns. Within it, edge
// products of rounded vertices are exact in int arithmetic.
const maxCoord = 1 << 29

// Point is an integer cell on the supersampled raster grid.
type Point struct {
	X, Y int
}

// View is a per-frame snapshot of a camera. All sizes are in supersampled
// cells.
type View struct {
	Position   math3d.Vec3
	Normal     math3d.Vec3 // Viewing normal (unit)
	Horizontal math3d.Vec3
	Vertical   math3d.Vec3

	Width       int
	Height      int
	Zoom        float64
	Perspective bool
	FocalDepth  float64
	Antialias   int
	Levels      IntensityTable

	axis int     // Component of Horizontal×Vertical used to solve for u, v
	det  float64 // That component's value
}

// View snapshots the camera's current transform and settings.
func (c *Camera) View() View {
	aa := max(c.Antialias, 1)
	v := View{
		Position:    c.Transform.Position,
		Normal:      c.ViewingNormal().Normalize(),
		Horizontal:  c.Horizontal(),
		Vertical:    c.Vertical(),
		Width:       c.Width * aa,
		Height:      c.Height * aa,
		Zoom:        c.Zoom * float64(aa),
		Perspective: c.Perspective,
		FocalDepth:  c.FocalDepth,
		Antialias:   aa,
		Levels:      c.Levels,
	}

	// Pick the least degenerate axis of the screen basis determinant.
	cross := v.Horizontal.Cross(v.Vertical)
	abs := cross.Abs()
	switch {
	case abs.X >= abs.Y && abs.X >= abs.Z:
		v.axis, v.det = 0, cross.X
	case abs.Y >= abs.Z:
		v.axis, v.det = 1, cross.Y
	default:
		v.axis, v.det = 2, cross.Z
	}
	return v
}

// Offset maps a world point to its offset on the projection plane, in
// world units, before it is resolved onto the screen basis.
func (v *View) Offset(p math3d.Vec3) math3d.Vec3 {
	d := p.Sub(v.Position)
	n := v.Normal

	if v.Perspective {
		// Pinhole projection onto the plane FocalDepth along n. Points in
		// the camera's side plane (d·n = 0) go to ±Inf/NaN.
		return n.Scale(-v.FocalDepth).Add(d.Scale(v.FocalDepth / d.Dot(n)))
	}
	return d.Sub(n.Scale(d.Dot(n)))
}

// Basis solves offset = u·Horizontal + v·Vertical.
func (v *View) Basis(offset math3d.Vec3) (u, w float64) {
	u = component(offset.Cross(v.Vertical), v.axis) / v.det
	w = component(v.Horizontal.Cross(offset), v.axis) / v.det
	return u, w
}

// Project maps a world point to a supersampled screen cell, clamped to
// ±maxCoord. ok is false if the projection is not finite, which happens
// for points in the camera's side plane in perspective mode.
func (v *View) Project(p math3d.Vec3) (pt Point, ok bool) {
	x, y, ok := v.ProjectRounded(p)
	if !ok {
		return Point{}, false
	}
	return Point{X: clampCoord(x), Y: clampCoord(y)}, true
}

// ProjectRounded maps a world point to its screen cell without bounding
// it. The coordinates are whole numbers but may lie far outside the grid.
func (v *View) ProjectRounded(p math3d.Vec3) (x, y float64, ok bool) {
	u, w := v.Basis(v.Offset(p))

	x = math.Round(float64(v.Width/2) + v.Zoom*u)
	y = math.Round(float64(v.Height/2) - v.Zoom*w)
	if math.IsNaN(x) || math.IsNaN(y) || math.IsInf(x, 0) || math.IsInf(y, 0) {
		return 0, 0, false
	}
	return x, y, true
}

// InBounds reports whether pt lies on the supersampled grid.
func (v *View) InBounds(pt Point) bool {
	return pt.X >= 0 && pt.X < v.Width && pt.Y >= 0 && pt.Y < v.Height
}

// ScreenUV returns the projection-plane coordinates (world units) of the
// cell at (x, y).
func (v *View) ScreenUV(x, y int) (u, w float64) {
	u = float64(x-v.Width/2) / v.Zoom
	w = float64(v.Height/2-y) / v.Zoom
	return u, w
}

// Unproject returns the de-projected world offset of the cell at (x, y):
// u·Horizontal + v·Vertical + FocalDepth·Normal. In perspective mode this
// is the direction of the ray from the camera through the cell.
func (v *View) Unproject(x, y int) math3d.Vec3 {
	u, w := v.ScreenUV(x, y)
	return v.Horizontal.Scale(u).
		Add(v.Vertical.Scale(w)).
		Add(v.Normal.Scale(v.FocalDepth))
}

func component(a math3d.Vec3, axis int) float64 {
	switch axis {
	case 0:
		return a.X
	case 1:
		return a.Y
	default:
		return a.Z
	}
}

func clampCoord(f float64) int {
	f = math.Round(f)
	if f > maxCoord {
		return maxCoord
	}
	if f < -maxCoord {
		return -maxCoord
	}
	return int(f)
}
