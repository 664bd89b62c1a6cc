// asciithree - Terminal software 3D renderer
// Renders OBJ, glTF/GLB and built-in meshes as shaded glyphs in your
// terminal, to a text file, or to a PNG.
//
// Controls (interactive mode):
//
//	Mouse drag  - Orbit the camera around the origin
//	Scroll      - Zoom in/out
//	W/S         - Pitch up/down
//	A/D         - Yaw left/right
//	Space       - Apply random impulse
//	R           - Reset view
//	P           - Toggle perspective/orthographic
//	H           - Toggle visibility of every shape
//	?           - Toggle HUD overlay (FPS, triangle counts)
//	+/-         - Adjust zoom
//	Esc         - Quit
package main

import (
	"context"
	"flag"
	"fmt"
	"image/color"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/harmonica"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/taigrr/asciithree/pkg/math3d"
	"github.com/taigrr/asciithree/pkg/render"
	"github.com/taigrr/asciithree/pkg/scene"
)

var (
	width       = flag.Int("width", 70, "Output columns (interactive mode fills the terminal)")
	height      = flag.Int("height", 50, "Output rows (interactive mode fills the terminal)")
	zoom        = flag.Float64("zoom", 1, "Screen cells per world unit on the projection plane")
	perspective = flag.Bool("perspective", true, "Perspective projection (false for orthographic)")
	focalDepth  = flag.Float64("depth", 100, "Focal depth of the projection plane")
	antialias   = flag.Int("aa", 1, "Supersampling factor per axis")
	levels      = flag.String("levels", render.DefaultLevels, "Shading glyphs, dimmest first")
	targetFPS   = flag.Int("fps", 30, "Target FPS")
	scenePath   = flag.String("scene", "", "Path to a JSON scene file")
	outPath     = flag.String("out", "", "Stream frames to this text file instead of the terminal")
	frames      = flag.Int("frames", 0, "Stop after this many frames (0 = until interrupted)")
	once        = flag.Bool("once", false, "Print a single frame to stdout and exit")
	pngPath     = flag.String("png", "", "Save a single frame as a PNG and exit")
	pngScale    = flag.Int("png-scale", 8, "PNG pixels per output cell")
	oscillate   = flag.Float64("oscillate", 0, "Oscillate every shape by this amount")
	spin        = flag.Float64("spin", 0, "Spin every shape about the up axis by this many radians per frame")
	fit         = flag.Float64("fit", 10, "Scale loaded models so their largest dimension is this size")
	fgColor     = flag.String("fg", "255,255,255", "Glyph color (R,G,B)")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "asciithree - Terminal software 3D renderer\n\n")
		fmt.Fprintf(os.Stderr, "Usage: asciithree [options] [model.obj|model.glb|cube|tetrahedron ...]\n\n")
		fmt.Fprintf(os.Stderr, "With no models and no -scene, a demo cube is shown.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nControls:\n")
		fmt.Fprintf(os.Stderr, "  Mouse drag  - Orbit camera\n")
		fmt.Fprintf(os.Stderr, "  Scroll      - Zoom in/out\n")
		fmt.Fprintf(os.Stderr, "  W/S/A/D     - Pitch and yaw\n")
		fmt.Fprintf(os.Stderr, "  Space       - Random spin\n")
		fmt.Fprintf(os.Stderr, "  R           - Reset view\n")
		fmt.Fprintf(os.Stderr, "  P           - Toggle perspective\n")
		fmt.Fprintf(os.Stderr, "  H           - Toggle shapes\n")
		fmt.Fprintf(os.Stderr, "  ?           - Toggle HUD overlay\n")
		fmt.Fprintf(os.Stderr, "  Esc         - Quit\n")
	}
	flag.Parse()

	if err := run(flag.Args()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	file, dir, err := sceneFile(args)
	if err != nil {
		return err
	}

	sc, err := file.Build(dir)
	if err != nil {
		return fmt.Errorf("build scene: %w", err)
	}
	for _, sh := range sc.Shapes() {
		if *oscillate != 0 {
			sh.AddBehavior(&scene.Oscillate{Amount: *oscillate})
		}
		if *spin != 0 {
			sh.AddBehavior(&scene.Spin{Axis: math3d.Up(), Rate: *spin})
		}
		fmt.Fprintf(os.Stderr, "Loaded: %s (%d vertices, %d triangles)\n", sh.Name, sh.Mesh.VertexCount(), sh.Mesh.TriangleCount())
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	switch {
	case *pngPath != "":
		f, err := sc.Frame()
		if err != nil {
			return err
		}
		if err := f.SavePNG(*pngPath, *pngScale); err != nil {
			return fmt.Errorf("save png: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Saved: %s (%dx%d cells)\n", *pngPath, f.Width, f.Height)
		return nil
	case *once:
		f, err := sc.Frame()
		if err != nil {
			return err
		}
		_, err = os.Stdout.WriteString(f.Text(2))
		return err
	case *outPath != "":
		return stream(ctx, sc, *outPath, file.FPS)
	}
	return interactive(ctx, sc)
}

// sceneFile builds the scene description from -scene or the model
// arguments, then applies camera flags given on the command line.
func sceneFile(args []string) (*scene.File, string, error) {
	var (
		file *scene.File
		dir  string
		err  error
	)
	switch {
	case *scenePath != "":
		file, err = scene.ReadFile(*scenePath)
		if err != nil {
			return nil, "", err
		}
		dir = filepath.Dir(*scenePath)
	case len(args) > 0:
		file = &scene.File{FPS: *targetFPS, Camera: scene.DefaultCameraSpec()}
		for _, arg := range args {
			file.Shapes = append(file.Shapes, scene.ShapeSpec{
				Name: filepath.Base(arg),
				Mesh: arg,
				Fit:  *fit,
			})
		}
	default:
		file = scene.Demo()
	}

	flag.Visit(func(f *flag.Flag) {
		c := &file.Camera
		switch f.Name {
		case "width":
			c.Width = *width
		case "height":
			c.Height = *height
		case "zoom":
			c.Zoom = *zoom
		case "perspective":
			c.Perspective = *perspective
		case "depth":
			c.FocalDepth = *focalDepth
		case "aa":
			c.Antialias = *antialias
		case "levels":
			c.Levels = *levels
		case "fps":
			file.FPS = *targetFPS
		}
	})
	return file, dir, nil
}

// stream renders frames into a text file at the scene's step rate, with
// each glyph doubled to square up terminal cells.
func stream(ctx context.Context, sc *scene.Scene, path string, fps int) error {
	ticker := time.NewTicker(time.Second / time.Duration(max(fps, 1)))
	defer ticker.Stop()

	for n := 0; *frames == 0 || n < *frames; n++ {
		f, err := sc.Frame()
		if err != nil {
			return err
		}
		if err := os.WriteFile(path, []byte(f.Text(2)), 0o644); err != nil {
			return fmt.Errorf("write frame: %w", err)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
	return nil
}

// RotationAxis tracks position and velocity for one rotation axis with spring decay
type RotationAxis struct {
	Position  float64
	Velocity  float64
	velSpring harmonica.Spring
	velAccel  float64 // internal spring velocity (for animating Velocity toward 0)
}

// NewRotationAxis creates an axis with harmonica spring for smooth velocity decay
func NewRotationAxis(fps int) RotationAxis {
	return RotationAxis{
		// Frequency 4.0 = moderate speed, damping 1.0 = critically damped (no overshoot)
		velSpring: harmonica.NewSpring(harmonica.FPS(fps), 4.0, 1.0),
	}
}

// Update applies velocity to position and decays velocity toward 0 using
// the spring. It returns the step taken.
func (a *RotationAxis) Update() float64 {
	step := a.Velocity
	a.Position += step
	a.Velocity, a.velAccel = a.velSpring.Update(a.Velocity, a.velAccel, 0)
	return step
}

// Momentum holds the camera's orbit velocity with harmonica spring decay
type Momentum struct {
	Pitch, Yaw RotationAxis
	fps        int
}

func NewMomentum(fps int) *Momentum {
	return &Momentum{
		Pitch: NewRotationAxis(fps),
		Yaw:   NewRotationAxis(fps),
		fps:   fps,
	}
}

// Update advances both axes and returns this frame's orbit step.
func (m *Momentum) Update() (pitch, yaw float64) {
	return m.Pitch.Update(), m.Yaw.Update()
}

func (m *Momentum) ApplyImpulse(pitch, yaw float64) {
	m.Pitch.Velocity += pitch
	m.Yaw.Velocity += yaw
}

func (m *Momentum) Reset() {
	m.Pitch = NewRotationAxis(m.fps)
	m.Yaw = NewRotationAxis(m.fps)
}

// HUD renders an overlay with frame rate and rasterizer counts
type HUD struct {
	Visible   bool
	fps       float64
	fpsFrames int
	fpsTime   time.Time
}

// NewHUD creates a new HUD
func NewHUD() *HUD {
	return &HUD{fpsTime: time.Now()}
}

// UpdateFPS updates the FPS counter (call once per frame)
func (h *HUD) UpdateFPS() {
	h.fpsFrames++
	elapsed := time.Since(h.fpsTime)
	if elapsed >= time.Second {
		h.fps = float64(h.fpsFrames) / elapsed.Seconds()
		h.fpsFrames = 0
		h.fpsTime = time.Now()
	}
}

// Render draws the HUD overlay directly to the terminal
func (h *HUD) Render(width, height int, cam *scene.Camera) {
	const (
		reset     = "\x1b[0m"
		bold      = "\x1b[1m"
		bgBlack   = "\x1b[40m"
		fgWhite   = "\x1b[97m"
		fgGreen   = "\x1b[92m"
		fgCyan    = "\x1b[96m"
		clearLine = "\x1b[2K"
	)
	moveTo := func(row, col int) string {
		return fmt.Sprintf("\x1b[%d;%dH", row, col)
	}

	// Always clear the HUD rows (so toggling off works)
	fmt.Print(moveTo(1, 1) + clearLine)
	fmt.Print(moveTo(height, 1) + clearLine)
	if !h.Visible {
		return
	}

	fmt.Printf("%s%s%s %.0f FPS %s", moveTo(1, 1), bgBlack, fgGreen, h.fps, reset)

	mode := "orthographic"
	if cam.Perspective {
		mode = "perspective"
	}
	title := fmt.Sprintf(" %s  zoom %.2f ", mode, cam.Zoom)
	fmt.Printf("%s%s%s%s%s%s", moveTo(1, max((width-len(title))/2, 1)), bold, bgBlack, fgWhite, title, reset)

	st := cam.Stats
	counts := fmt.Sprintf(" %d drawn / %d culled / %d tested ", st.TrianglesDrawn, st.TrianglesCulled, st.TrianglesTested)
	fmt.Printf("%s%s%s%s%s", moveTo(height, max(width-len(counts), 1)), bgBlack, fgCyan, counts, reset)
}

func interactive(ctx context.Context, sc *scene.Scene) error {
	tint, err := parseColor(*fgColor)
	if err != nil {
		return err
	}
	cam := sc.MainCamera()
	if cam == nil {
		return scene.ErrNoCamera
	}
	home := cam.Camera.Transform
	homeZoom := cam.Zoom
	target := math3d.Zero3()

	// Create terminal
	term := uv.DefaultTerminal()

	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}

	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}

	term.EnterAltScreen()
	term.HideCursor()

	// Enable mouse mode
	fmt.Fprint(os.Stdout, "\x1b[?1003h") // Enable any-event mouse tracking
	fmt.Fprint(os.Stdout, "\x1b[?1006h") // Enable SGR extended mouse mode

	termRenderer := render.NewTerminalRenderer(term, width, height)
	termRenderer.Tint = tint
	resize := func(w, h int) {
		sc.Post(func(*scene.Scene) {
			width, height = w, h
			term.Erase()
			term.Resize(w, h)
			termRenderer = render.NewTerminalRenderer(term, w, h)
			termRenderer.Tint = tint
			cam.Width, cam.Height = termRenderer.FrameSize()
		})
	}
	resize(width, height)

	momentum := NewMomentum(*targetFPS)
	hud := NewHUD()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Input state
	inputTorque := struct{ pitch, yaw float64 }{}
	const torqueStrength = 3.0

	var mouseDown bool
	var lastMouseX, lastMouseY int

	// Event handler. Everything the render loop reads is changed through
	// posted updates.
	go func() {
		for ev := range term.Events() {
			switch ev := ev.(type) {
			case uv.WindowSizeEvent:
				resize(ev.Width, ev.Height)

			case uv.KeyPressEvent:
				switch {
				case ev.MatchString("escape", "ctrl+c"):
					cancel()
					return
				case ev.MatchString("r"):
					sc.Post(func(*scene.Scene) {
						momentum.Reset()
						cam.Camera.Transform = home
						cam.Zoom = homeZoom
					})
				case ev.MatchString("w", "up"):
					sc.Post(func(*scene.Scene) { inputTorque.pitch = -torqueStrength })
				case ev.MatchString("s", "down"):
					sc.Post(func(*scene.Scene) { inputTorque.pitch = torqueStrength })
				case ev.MatchString("a", "left"):
					sc.Post(func(*scene.Scene) { inputTorque.yaw = -torqueStrength })
				case ev.MatchString("d", "right"):
					sc.Post(func(*scene.Scene) { inputTorque.yaw = torqueStrength })
				case ev.MatchString("space"):
					p, y := (rand.Float64()-0.5)*0.5, (rand.Float64()-0.5)*0.5
					sc.Post(func(*scene.Scene) { momentum.ApplyImpulse(p, y) })
				case ev.MatchString("+", "="):
					sc.Post(scene.ZoomCamera(1.1))
				case ev.MatchString("-", "_"):
					sc.Post(scene.ZoomCamera(1 / 1.1))
				case ev.MatchString("p"):
					sc.Post(func(*scene.Scene) { cam.Perspective = !cam.Perspective })
				case ev.MatchString("h"):
					sc.Post(scene.ToggleHidden())
				case ev.MatchString("?"), ev.MatchString("shift+/"):
					sc.Post(func(*scene.Scene) { hud.Visible = !hud.Visible })
				}

			case uv.KeyReleaseEvent:
				switch {
				case ev.MatchString("w", "up", "s", "down"):
					sc.Post(func(*scene.Scene) { inputTorque.pitch = 0 })
				case ev.MatchString("a", "left", "d", "right"):
					sc.Post(func(*scene.Scene) { inputTorque.yaw = 0 })
				}

			case uv.MouseClickEvent:
				mouseDown = true
				lastMouseX, lastMouseY = ev.X, ev.Y

			case uv.MouseReleaseEvent:
				mouseDown = false

			case uv.MouseMotionEvent:
				if mouseDown {
					dx := float64(ev.X - lastMouseX)
					dy := float64(ev.Y - lastMouseY)
					sc.Post(func(*scene.Scene) { momentum.ApplyImpulse(dy*0.01, -dx*0.01) })
					lastMouseX, lastMouseY = ev.X, ev.Y
				}

			case uv.MouseWheelEvent:
				switch ev.Button {
				case uv.MouseWheelUp:
					sc.Post(scene.ZoomCamera(1.1))
				case uv.MouseWheelDown:
					sc.Post(scene.ZoomCamera(1 / 1.1))
				}
			}
		}
	}()

	cleanup := func() {
		fmt.Fprint(os.Stdout, "\x1b[?1003l")
		fmt.Fprint(os.Stdout, "\x1b[?1006l")
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
	}
	defer cleanup()

	// Main loop
	targetDuration := time.Second / time.Duration(max(*targetFPS, 1))
	lastFrame := time.Now()

	for n := 0; *frames == 0 || n < *frames; n++ {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		now := time.Now()
		dt := min(now.Sub(lastFrame).Seconds(), 0.1)
		lastFrame = now

		sc.Apply()

		// Apply input torque and decay it (key release events unreliable)
		momentum.ApplyImpulse(inputTorque.pitch*dt*0.1, inputTorque.yaw*dt*0.1)
		inputTorque.pitch *= 0.9
		inputTorque.yaw *= 0.9

		pitch, yaw := momentum.Update()
		if pitch != 0 || yaw != 0 {
			cam.Orbit(target, yaw, pitch)
		}

		f, err := sc.Frame()
		if err != nil {
			return err
		}

		// Display
		termRenderer.Render(f)
		if err := termRenderer.Flush(); err != nil {
			return fmt.Errorf("flush: %w", err)
		}

		hud.UpdateFPS()
		hud.Render(width, height, cam)

		// Frame timing
		elapsed := time.Since(now)
		if elapsed < targetDuration {
			time.Sleep(targetDuration - elapsed)
		}
	}
	return nil
}

// parseColor parses an "R,G,B" triple.
func parseColor(s string) (color.RGBA, error) {
	var r, g, b uint8
	if _, err := fmt.Sscanf(strings.TrimSpace(s), "%d,%d,%d", &r, &g, &b); err != nil {
		return color.RGBA{}, fmt.Errorf("parse color %q (want R,G,B): %w", s, err)
	}
	return render.RGB(r, g, b), nil
}
