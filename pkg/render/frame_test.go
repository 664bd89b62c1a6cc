package render

import (
	"bytes"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/taigrr/asciithree/pkg/math3d"
)

// screenQuad covers a 100×100 world-unit square at z, facing +Z.
func screenQuad(z float64) TriangleList {
	a := math3d.V3(-50, -50, z)
	b := math3d.V3(50, -50, z)
	c := math3d.V3(50, 50, z)
	d := math3d.V3(-50, 50, z)
	return TriangleList{NewTriangle(a, b, c), NewTriangle(a, c, d)}
}

type hiddenList struct{ TriangleList }

func (hiddenList) Hidden() bool { return true }

// cameraMover moves the camera away while the frame is being drawn.
type cameraMover struct{ cam *Camera }

func (cameraMover) Hidden() bool { return false }
func (m cameraMover) Rasterize(*Rasterizer) {
	m.cam.SetPosition(math3d.V3(1000, 1000, 1000))
	m.cam.Zoom = 100
}

func TestResolveAveragesBlocks(t *testing.T) {
	buf := NewBuffers(4, 2)
	// Left block: all four samples lit at 1; right block: one sample at 0.8
	for _, p := range [][2]int{{0, 0}, {1, 0}, {0, 1}, {1, 1}} {
		buf.Plot(p[0], p[1], 1, 1)
	}
	buf.Plot(3, 1, 1, 0.8)

	levels, _ := NewIntensityTable("abcde")
	f := Resolve(buf, 2, levels)

	if f.Width != 2 || f.Height != 1 {
		t.Fatalf("frame size = %dx%d, want 2x1", f.Width, f.Height)
	}
	if got := f.IntensityAt(0, 0); got != 1 {
		t.Errorf("left intensity = %v, want 1", got)
	}
	if got := f.IntensityAt(1, 0); math.Abs(got-0.2) > 1e-12 {
		t.Errorf("right intensity = %v, want 0.2", got)
	}
	if got := f.Glyph(0, 0); got != 'e' {
		t.Errorf("left glyph = %q, want 'e'", got)
	}
	if got := f.Glyph(1, 0); got != 'a' {
		t.Errorf("right glyph = %q, want 'a'", got)
	}
}

func TestRenderFullCoverage(t *testing.T) {
	cam := createTestCamera(t, 20, 10, false, 2)

	f := cam.Render([]Drawable{screenQuad(0)})

	if f.Width != 20 || f.Height != 10 {
		t.Fatalf("frame size = %dx%d, want 20x10", f.Width, f.Height)
	}
	if lit := f.Lit(); lit != 200 {
		t.Errorf("lit cells = %d, want 200", lit)
	}
	last := rune(DefaultLevels[len(DefaultLevels)-1])
	if got := f.Glyph(0, 0); got != last {
		t.Errorf("corner glyph = %q, want %q", got, last)
	}
	if cam.Stats.TrianglesDrawn != 2 {
		t.Errorf("TrianglesDrawn = %d, want 2", cam.Stats.TrianglesDrawn)
	}
}

func TestRenderSupersampledFacing(t *testing.T) {
	cam := createTestCamera(t, 20, 10, false, 2)
	cam.Zoom = 4

	front := NewTriangle(math3d.V3(0, 0, 0), math3d.V3(1, 0, 0), math3d.V3(0, 1, 0))
	back := NewTriangle(front.V[0], front.V[2], front.V[1])

	t.Run("front face", func(t *testing.T) {
		view := cam.View()
		buf := NewBuffers(view.Width, view.Height)
		NewRasterizer(view, buf).DrawTriangle(front)

		covered := 0
		for y := range view.Height {
			for x := range view.Width {
				if math.IsInf(buf.DepthAt(x, y), 1) {
					continue
				}
				covered++
				if s := buf.ShadeAt(x, y); math.Abs(s-1) > 1e-9 {
					t.Errorf("shade at (%d, %d) = %v, want 1", x, y, s)
				}
			}
		}
		if covered == 0 {
			t.Fatal("front face covered no cells")
		}

		f := cam.Render([]Drawable{TriangleList{front}})
		// Output cell (10, 4) is the fully covered block at (20..21, 8..9)
		if got := f.IntensityAt(10, 4); math.Abs(got-1) > 1e-9 {
			t.Errorf("intensity = %v, want 1", got)
		}
		last := rune(DefaultLevels[len(DefaultLevels)-1])
		if got := f.Glyph(10, 4); got != last {
			t.Errorf("glyph = %q, want %q", got, last)
		}
	})

	t.Run("back face", func(t *testing.T) {
		f := cam.Render([]Drawable{TriangleList{back}})
		if lit := f.Lit(); lit != 0 {
			t.Errorf("lit cells = %d, want 0", lit)
		}
		if cam.Stats.TrianglesCulled != 1 || cam.Stats.CellsWritten != 0 {
			t.Errorf("stats = %+v, want one culled triangle and no cells", cam.Stats)
		}
		for i, v := range f.Intensity {
			if v != 0 {
				t.Fatalf("intensity[%d] = %v, want 0", i, v)
			}
		}
	})
}

func TestRenderSkipsHidden(t *testing.T) {
	cam := createTestCamera(t, 20, 10, false, 1)

	f := cam.Render([]Drawable{hiddenList{screenQuad(0)}, nil})

	if lit := f.Lit(); lit != 0 {
		t.Errorf("lit cells = %d, want 0", lit)
	}
	if cam.Stats.TrianglesTested != 0 {
		t.Errorf("TrianglesTested = %d, want 0", cam.Stats.TrianglesTested)
	}
}

func TestRenderSnapshotsCamera(t *testing.T) {
	cam := createTestCamera(t, 20, 10, true, 1)

	want := cam.Render([]Drawable{screenQuad(0)}).String()

	cam.SetPosition(math3d.V3(0, 0, 5))
	cam.Zoom = 1
	got := cam.Render([]Drawable{cameraMover{cam}, screenQuad(0)}).String()

	if got != want {
		t.Errorf("frame changed when camera moved mid-frame:\n%s\nwant:\n%s", got, want)
	}
}

func TestRenderTriangleScene(t *testing.T) {
	cam := createTestCamera(t, 40, 40, false, 1)
	cam.Zoom = 1

	f := cam.Render([]Drawable{TriangleList{frontTriangle(0)}})

	rows := f.Rows()
	if len(rows) != 40 {
		t.Fatalf("rows = %d, want 40", len(rows))
	}
	// Apex at the top, wide base at the bottom
	top := strings.Count(rows[12], "@")
	bottom := strings.Count(rows[28], "@")
	if top == 0 || bottom <= top {
		t.Errorf("row widths top=%d bottom=%d, want a triangle widening downwards\n%s", top, bottom, f)
	}
}

func TestFrameText(t *testing.T) {
	f := &Frame{Width: 2, Height: 2, Intensity: make([]float64, 4), Cells: []rune("ab.#")}

	if got, want := f.Text(2), "aabb\n..##\n"; got != want {
		t.Errorf("Text(2) = %q, want %q", got, want)
	}

	var buf bytes.Buffer
	n, err := f.WriteTo(&buf)
	if err != nil {
		t.Fatalf("WriteTo: %v", err)
	}
	if buf.String() != "ab\n.#\n" || n != 6 {
		t.Errorf("WriteTo wrote %q (%d bytes)", buf.String(), n)
	}
	if got := f.Glyph(5, 5); got != Background {
		t.Errorf("out of bounds Glyph = %q, want background", got)
	}
}

func TestFrameSavePNG(t *testing.T) {
	f := &Frame{Width: 2, Height: 1, Intensity: []float64{0, 1}, Cells: []rune(" @")}
	path := filepath.Join(t.TempDir(), "frame.png")

	if err := f.SavePNG(path, 3); err != nil {
		t.Fatalf("SavePNG: %v", err)
	}

	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer file.Close()
	img, err := png.Decode(file)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 6 || b.Dy() != 3 {
		t.Errorf("image size = %dx%d, want 6x3", b.Dx(), b.Dy())
	}
	if r, _, _, _ := img.At(5, 2).RGBA(); r != 0xffff {
		t.Errorf("lit pixel = %#x, want white", r)
	}
	if r, _, _, _ := img.At(0, 0).RGBA(); r != 0 {
		t.Errorf("background pixel = %#x, want black", r)
	}
}

func BenchmarkRender(b *testing.B) {
	cam := createTestCamera(b, 70, 50, true, 2)
	scene := []Drawable{screenQuad(0), TriangleList{frontTriangle(2)}}

	for b.Loop() {
		_ = cam.Render(scene)
	}
}
