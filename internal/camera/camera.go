package camera

import (
	"errors"
	"fmt"
	"math"

	"sphere-renderer/internal/mathutil"
)

// ErrInvalidConfig is wrapped by New for out-of-range inputs.
var ErrInvalidConfig = errors.New("invalid camera config")

// Config holds the pinhole camera inputs.
type Config struct {
	AspectRatio    float64
	ImageWidth     int
	FocalLength    float64
	ViewportHeight float64
	Center         mathutil.Point3
}

// DefaultConfig is a 400-pixel-wide 16:9 camera at the origin looking down -Z.
func DefaultConfig() Config {
	return Config{
		AspectRatio:    16.0 / 9.0,
		ImageWidth:     400,
		FocalLength:    1.0,
		ViewportHeight: 2.0,
		Center:         mathutil.Origin,
	}
}

// Camera is the viewport geometry derived from a Config. Read-only after New.
type Camera struct {
	ImageWidth  int
	ImageHeight int
	Center      mathutil.Point3

	// Pixel00 is the center of the top-left pixel; DeltaU/DeltaV step one pixel
	// right and one pixel down.
	Pixel00 mathutil.Point3
	DeltaU  mathutil.Vec3
	DeltaV  mathutil.Vec3

	ViewportWidth  float64
	ViewportHeight float64
}

// ImageHeight is width/aspect floored, never less than 1.
func ImageHeight(width int, aspect float64) int {
	h := int(math.Floor(float64(width) / aspect))
	if h < 1 {
		h = 1
	}
	return h
}

// New derives the viewport geometry.
func New(cfg Config) (*Camera, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	height := ImageHeight(cfg.ImageWidth, cfg.AspectRatio)

	// Use the rounded image ratio so pixels stay square.
	vh := cfg.ViewportHeight
	vw := vh * (float64(cfg.ImageWidth) / float64(height))

	// Image rows grow downward, scene y grows upward.
	u := mathutil.Vec3{vw, 0, 0}
	v := mathutil.Vec3{0, -vh, 0}

	du := u.Div(float64(cfg.ImageWidth))
	dv := v.Div(float64(height))

	upperLeft := cfg.Center.
		Sub(mathutil.Vec3{0, 0, cfg.FocalLength}).
		Sub(u.Div(2)).
		Sub(v.Div(2))

	return &Camera{
		ImageWidth:     cfg.ImageWidth,
		ImageHeight:    height,
		Center:         cfg.Center,
		Pixel00:        upperLeft.Add(du.Add(dv).Scale(0.5)),
		DeltaU:         du,
		DeltaV:         dv,
		ViewportWidth:  vw,
		ViewportHeight: vh,
	}, nil
}

// PixelCenter returns the scene-space center of pixel (i, j).
func (c *Camera) PixelCenter(i, j int) mathutil.Point3 {
	return c.Pixel00.
		Add(c.DeltaU.Scale(float64(i))).
		Add(c.DeltaV.Scale(float64(j)))
}

// PixelRay is the ray from the camera center through pixel (i, j).
func (c *Camera) PixelRay(i, j int) mathutil.Ray {
	return mathutil.NewRay(c.Center, c.PixelCenter(i, j).Sub(c.Center))
}

func (cfg Config) validate() error {
	switch {
	case cfg.ImageWidth <= 0:
		return fmt.Errorf("camera: image width %d: %w", cfg.ImageWidth, ErrInvalidConfig)
	case !(cfg.AspectRatio > 0) || math.IsInf(cfg.AspectRatio, 0):
		return fmt.Errorf("camera: aspect ratio %g: %w", cfg.AspectRatio, ErrInvalidConfig)
	case !(float64(cfg.ImageWidth)/cfg.AspectRatio <= math.MaxInt32):
		return fmt.Errorf("camera: aspect ratio %g gives an image height above %d: %w", cfg.AspectRatio, math.MaxInt32, ErrInvalidConfig)
	case !(cfg.FocalLength > 0) || math.IsInf(cfg.FocalLength, 0):
		return fmt.Errorf("camera: focal length %g: %w", cfg.FocalLength, ErrInvalidConfig)
	case !(cfg.ViewportHeight > 0) || math.IsInf(cfg.ViewportHeight, 0):
		return fmt.Errorf("camera: viewport height %g: %w", cfg.ViewportHeight, ErrInvalidConfig)
	}
	return nil
}
