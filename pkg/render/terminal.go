package render

import (
	"image/color"

	uv "github.com/charmbracelet/ultraviolet"
)

// Draw paints the frame onto the screen. Each frame cell covers two
// terminal columns so the output keeps a roughly square aspect; the glyph
// is tinted by scaling tint with the cell's intensity.
func (f *Frame) Draw(scr uv.Screen, area uv.Rectangle, tint color.RGBA) {
	for row := area.Min.Y; row < area.Max.Y && row-area.Min.Y < f.Height; row++ {
		y := row - area.Min.Y

		for col := area.Min.X; col < area.Max.X; col++ {
			x := (col - area.Min.X) / 2
			if x >= f.Width {
				break
			}

			glyph := f.Cells[y*f.Width+x]
			cell := &uv.Cell{
				Content: string(glyph),
				Width:   1,
			}
			if glyph != Background {
				cell.Style = uv.Style{Fg: shadeColor(tint, f.Intensity[y*f.Width+x])}
			}
			scr.SetCell(col, row, cell)
		}
	}
}

// shadeColor scales c by t, keeping a floor so dim glyphs stay readable.
func shadeColor(c color.RGBA, t float64) color.Color {
	k := 0.35 + 0.65*min(max(t, 0), 1)
	return color.RGBA{
		R: uint8(float64(c.R) * k),
		G: uint8(float64(c.G) * k),
		B: uint8(float64(c.B) * k),
		A: 255,
	}
}

// TerminalRenderer presents frames on an ultraviolet terminal.
type TerminalRenderer struct {
	term   *uv.Terminal
	width  int
	height int
	Tint   color.RGBA
}

// NewTerminalRenderer creates a renderer for a terminal of width columns
// and height rows.
func NewTerminalRenderer(term *uv.Terminal, width, height int) *TerminalRenderer {
	return &TerminalRenderer{
		term:   term,
		width:  width,
		height: height,
		Tint:   ColorWhite,
	}
}

// FrameSize returns the camera output size that fills the terminal.
func (t *TerminalRenderer) FrameSize() (width, height int) {
	return max(t.width/2, 1), max(t.height, 1)
}

// Render draws the frame into the terminal's buffer.
func (t *TerminalRenderer) Render(f *Frame) {
	f.Draw(t.term, uv.Rect(0, 0, t.width, t.height), t.Tint)
}

// Flush displays the buffered frame.
func (t *TerminalRenderer) Flush() error {
	return t.term.Display()
}

// Colors for convenience
var (
	ColorWhite = color.RGBA{255, 255, 255, 255}
	ColorGreen = color.RGBA{0, 255, 128, 255}
	ColorAmber = color.RGBA{255, 191, 0, 255}
	ColorCyan  = color.RGBA{0, 255, 255, 255}
	ColorGray  = color.RGBA{128, 128, 128, 255}
)

// RGB creates a color from RGB values.
func RGB(r, g, b uint8) color.RGBA {
	return color.RGBA{r, g, b, 255}
}
