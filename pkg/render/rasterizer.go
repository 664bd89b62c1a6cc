package render

import (
	"math"
	"math/big"

	"github.com/taigrr/asciithree/pkg/math3d"
)

// Triangle is a world-space triangle with its outward unit normal.
// Counter-clockwise winding, seen from outside, faces outward.
type Triangle struct {
	V      [3]math3d.Vec3
	Normal math3d.Vec3
}

// NewTriangle creates a triangle and derives its normal from the winding.
func NewTriangle(a, b, c math3d.Vec3) Triangle {
	return Triangle{V: [3]math3d.Vec3{a, b, c}, Normal: FaceNormal(a, b, c)}
}

// FaceNormal returns normalize((b-a) × (c-a)).
func FaceNormal(a, b, c math3d.Vec3) math3d.Vec3 {
	return b.Sub(a).Cross(c.Sub(a)).Normalize()
}

// Stats counts rasterizer work for one frame.
type Stats struct {
	TrianglesTested int // Triangles submitted
	TrianglesCulled int // Back-facing or unprojectable
	TrianglesDrawn  int // Scan-converted (may still cover no cell)
	CellsWritten    int // Depth test passes, including overdraw
}

// Rasterizer scan-converts triangles into a frame's buffers using one
// camera view.
type Rasterizer struct {
	view View
	buf  *Buffers

	Stats Stats
}

// NewRasterizer creates a rasterizer drawing into buf. buf must match the
// view's supersampled size.
func NewRasterizer(view View, buf *Buffers) *Rasterizer {
	return &Rasterizer{view: view, buf: buf}
}

// View returns the camera snapshot the rasterizer projects with.
func (r *Rasterizer) View() View {
	return r.view
}

// Buffers returns the buffers being drawn into.
func (r *Rasterizer) Buffers() *Buffers {
	return r.buf
}

// Shade returns the shading term of a face: the cosine between its normal
// and the direction towards the camera.
func (r *Rasterizer) Shade(normal math3d.Vec3) float64 {
	return -normal.Dot(r.view.Normal)
}

// Culled reports whether a triangle faces away from (or edge-on to) the
// camera. Perspective cameras test the ray to the first vertex;
// orthographic cameras test the viewing direction.
func (r *Rasterizer) Culled(tri Triangle) bool {
	if r.view.Perspective {
		return tri.V[0].Sub(r.view.Position).Dot(tri.Normal) >= 0
	}
	return r.Shade(tri.Normal) <= 0
}

// DrawTriangles culls and draws each triangle in order.
func (r *Rasterizer) DrawTriangles(tris []Triangle) {
	for _, tri := range tris {
		r.DrawTriangle(tri)
	}
}

// DrawTriangle culls and scan-converts a single triangle, writing every
// covered cell that is nearer than the recorded depth. It reports whether
// the triangle survived culling.
func (r *Rasterizer) DrawTriangle(tri Triangle) bool {
	r.Stats.TrianglesTested++

	if r.Culled(tri) {
		r.Stats.TrianglesCulled++
		return false
	}

	var xs, ys [3]float64
	for i := range 3 {
		x, y, ok := r.view.ProjectRounded(tri.V[i])
		if !ok {
			r.Stats.TrianglesCulled++
			return false
		}
		xs[i], ys[i] = x, y
	}
	edges := newEdgeTest(xs, ys)

	r.Stats.TrianglesDrawn++
	shade := r.Shade(tri.Normal)

	// Find bounding box, clamped to the grid
	minX := max(0, clampCoord(min(xs[0], xs[1], xs[2])))
	maxX := min(r.view.Width-1, clampCoord(max(xs[0], xs[1], xs[2])))
	minY := max(0, clampCoord(min(ys[0], ys[1], ys[2])))
	maxY := min(r.view.Height-1, clampCoord(max(ys[0], ys[1], ys[2])))

	// Numerator of the plane-intersection depth is constant per triangle
	// in perspective mode.
	planeDist := tri.V[0].Sub(r.view.Position).Dot(tri.Normal)

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			if !edges.covers(x, y) {
				continue
			}

			var depth float64
			if r.view.Perspective {
				depth = planeDist / r.view.Unproject(x, y).Dot(tri.Normal)
			} else {
				depth = r.orthoDepth(tri, x, y)
			}
			if math.IsNaN(depth) || math.IsInf(depth, 0) {
				continue
			}

			if r.buf.Plot(x, y, depth, shade) {
				r.Stats.CellsWritten++
			}
		}
	}

	return true
}

// orthoDepth intersects the parallel ray through cell (x, y) with the
// triangle's plane. The depth is measured along the viewing normal from
// the cell's origin on the camera plane, not along the perspective ray.
func (r *Rasterizer) orthoDepth(tri Triangle, x, y int) float64 {
	u, w := r.view.ScreenUV(x, y)
	origin := r.view.Position.
		Add(r.view.Horizontal.Scale(u)).
		Add(r.view.Vertical.Scale(w))
	return tri.V[0].Sub(origin).Dot(tri.Normal) / r.view.Normal.Dot(tri.Normal)
}

// covers is the chirality test: (x, y) is inside when the three edge cross
// products share a sign. Zero counts as both signs, so cells on an edge
// belong to every triangle sharing it.
func covers(sv [3]Point, x, y int) bool {
	ax, ay := x-sv[0].X, y-sv[0].Y
	bx, by := x-sv[1].X, y-sv[1].Y
	cx, cy := x-sv[2].X, y-sv[2].Y

	ab := ax*by - bx*ay
	bc := bx*cy - cx*by
	ca := cx*ay - ax*cy

	return (ab <= 0 && bc <= 0 && ca <= 0) || (ab >= 0 && bc >= 0 && ca >= 0)
}

// edgeTest runs the chirality test for one projected triangle. Vertices
// within ±maxCoord use int arithmetic; wider triangles fall back to exact
// big.Int products so far-off vertices keep the triangle's shape.
type edgeTest struct {
	pts  [3]Point
	wide bool
	bx   [3]*big.Int
	by   [3]*big.Int
}

func newEdgeTest(xs, ys [3]float64) edgeTest {
	var e edgeTest
	for i := range 3 {
		if math.Abs(xs[i]) > maxCoord || math.Abs(ys[i]) > maxCoord {
			e.wide = true
		}
	}
	if !e.wide {
		for i := range 3 {
			e.pts[i] = Point{X: int(xs[i]), Y: int(ys[i])}
		}
		return e
	}
	for i := range 3 {
		e.bx[i] = wholeInt(xs[i])
		e.by[i] = wholeInt(ys[i])
	}
	return e
}

func (e *edgeTest) covers(x, y int) bool {
	if !e.wide {
		return covers(e.pts, x, y)
	}

	var dx, dy [3]big.Int
	px, py := big.NewInt(int64(x)), big.NewInt(int64(y))
	for i := range 3 {
		dx[i].Sub(px, e.bx[i])
		dy[i].Sub(py, e.by[i])
	}

	ab := crossSign(&dx[0], &dy[0], &dx[1], &dy[1])
	bc := crossSign(&dx[1], &dy[1], &dx[2], &dy[2])
	ca := crossSign(&dx[2], &dy[2], &dx[0], &dy[0])

	return (ab <= 0 && bc <= 0 && ca <= 0) || (ab >= 0 && bc >= 0 && ca >= 0)
}

// crossSign returns the sign of ax·by - bx·ay.
func crossSign(ax, ay, bx, by *big.Int) int {
	var l, r big.Int
	l.Mul(ax, by)
	r.Mul(bx, ay)
	return l.Cmp(&r)
}

// wholeInt converts a finite, whole float64 to a big.Int exactly.
func wholeInt(f float64) *big.Int {
	i, _ := new(big.Float).SetFloat64(f).Int(nil)
	return i
}
