package render

import (
	"errors"
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/taigrr/asciithree/pkg/math3d"
)

var (
	// ErrEmptyIntensityTable is returned when a camera is configured with no
	// shading glyphs.
	ErrEmptyIntensityTable = errors.New("render: intensity table is empty")

	// ErrInvalidAntialias is returned for a supersampling factor below 1.
	ErrInvalidAntialias = errors.New("render: antialias factor must be at least 1")

	// ErrInvalidSize is returned for a non-positive output width or height.
	ErrInvalidSize = errors.New("render: width and height must be positive")

	// ErrInvalidLevels is returned when the shading glyphs are not valid
	// UTF-8.
	ErrInvalidLevels = errors.New("render: levels not valid UTF-8")
)

// CameraConfig is the configuration surface of a Camera.
type CameraConfig struct {
	Width       int     // Output columns
	Height      int     // Output rows
	Zoom        float64 // Screen cells per world unit on the projection plane
	Perspective bool    // Pinhole projection; orthographic when false
	FocalDepth  float64 // Distance of the projection plane along the view axis
	Levels      string  // Shading glyphs, dimmest first
	Antialias   int     // Supersampling factor per axis
}

// DefaultCameraConfig returns the configuration of the stock terminal camera.
func DefaultCameraConfig() CameraConfig {
	return CameraConfig{
		Width:       70,
		Height:      50,
		Zoom:        1,
		Perspective: true,
		FocalDepth:  100,
		Levels:      DefaultLevels,
		Antialias:   1,
	}
}

// Validate checks the configuration, failing fast on values the renderer
// cannot work with.
func (c CameraConfig) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: got %dx%d", ErrInvalidSize, c.Width, c.Height)
	}
	if c.Antialias < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidAntialias, c.Antialias)
	}
	if len(c.Levels) == 0 {
		return ErrEmptyIntensityTable
	}
	if !utf8.ValidString(c.Levels) {
		return fmt.Errorf("%w: %q", ErrInvalidLevels, c.Levels)
	}
	return nil
}

// Camera is a viewpoint in the scene. Its Transform and Zoom may be changed
// between frames; Render reads them once per frame.
type Camera struct {
	Transform math3d.Transform

	Width       int
	Height      int
	Zoom        float64
	Perspective bool
	FocalDepth  float64
	Levels      IntensityTable
	Antialias   int

	// Stats from the most recent Render.
	Stats Stats
}

// NewCamera creates a camera from a validated configuration.
func NewCamera(cfg CameraConfig, transform math3d.Transform) (*Camera, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("new camera: %w", err)
	}
	levels, err := NewIntensityTable(cfg.Levels)
	if err != nil {
		return nil, fmt.Errorf("new camera: %w", err)
	}
	return &Camera{
		Transform:   transform,
		Width:       cfg.Width,
		Height:      cfg.Height,
		Zoom:        cfg.Zoom,
		Perspective: cfg.Perspective,
		FocalDepth:  cfg.FocalDepth,
		Levels:      levels,
		Antialias:   cfg.Antialias,
	}, nil
}

// Config returns the camera's current configuration.
func (c *Camera) Config() CameraConfig {
	return CameraConfig{
		Width:       c.Width,
		Height:      c.Height,
		Zoom:        c.Zoom,
		Perspective: c.Perspective,
		FocalDepth:  c.FocalDepth,
		Levels:      string(c.Levels),
		Antialias:   c.Antialias,
	}
}

// ViewingNormal returns the direction the camera looks along.
func (c *Camera) ViewingNormal() math3d.Vec3 {
	return math3d.Forward().Rotate(c.Transform.Rotation)
}

// Horizontal returns the screen-right direction in world space.
func (c *Camera) Horizontal() math3d.Vec3 {
	return math3d.Left().Negate().Rotate(c.Transform.Rotation)
}

// Vertical returns the screen-up direction in world space.
func (c *Camera) Vertical() math3d.Vec3 {
	return math3d.Up().Rotate(c.Transform.Rotation)
}

// SetPosition sets the camera position.
func (c *Camera) SetPosition(pos math3d.Vec3) {
	c.Transform.Position = pos
}

// SetRotation sets the camera orientation.
func (c *Camera) SetRotation(q math3d.Quat) {
	c.Transform.Rotation = q
}

// MoveForward moves the camera along its viewing normal (or backward if
// negative).
func (c *Camera) MoveForward(distance float64) {
	c.Transform.Translate(c.ViewingNormal().Scale(distance))
}

// MoveRight moves the camera along its horizontal axis.
func (c *Camera) MoveRight(distance float64) {
	c.Transform.Translate(c.Horizontal().Scale(distance))
}

// MoveUp moves the camera along its vertical axis.
func (c *Camera) MoveUp(distance float64) {
	c.Transform.Translate(c.Vertical().Scale(distance))
}

// Orbit rotates the camera position about target by yaw (around world up)
// and pitch (around the camera's horizontal axis), keeping it aimed at
// target.
func (c *Camera) Orbit(target math3d.Vec3, yaw, pitch float64) {
	q := math3d.QuatFromAxisAngle(math3d.Up(), yaw).
		Mul(math3d.QuatFromAxisAngle(c.Horizontal(), pitch))
	offset := c.Transform.Position.Sub(target).Rotate(q)
	c.Transform.Position = target.Add(offset)
	c.Transform.Rotate(q)
}

// ZoomBy multiplies the zoom by factor.
func (c *Camera) ZoomBy(factor float64) {
	c.Zoom *= factor
}

// LookAt orients the camera towards target with no roll.
func (c *Camera) LookAt(target math3d.Vec3) {
	dir := target.Sub(c.Transform.Position).Normalize()
	if dir == math3d.Zero3() {
		return
	}

	pitch := math.Asin(-dir.Y)
	yaw := math.Atan2(dir.X, dir.Z)
	c.Transform.Rotation = math3d.QuatFromEuler(pitch, yaw, 0)
}
