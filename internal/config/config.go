package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"runtime"

	"sphere-renderer/internal/camera"
	"sphere-renderer/internal/geometry"
	"sphere-renderer/internal/imageio"
	"sphere-renderer/internal/mathutil"
	"sphere-renderer/internal/shade"
)

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("invalid config")

// Defaults for a Render left blank.
const (
	DefaultAspectRatio    = 16.0 / 9.0
	DefaultImageWidth     = 400
	DefaultFocalLength    = 1.0
	DefaultViewportHeight = 2.0
	DefaultOutput         = "image.ppm"
)

// SphereConfig is one sphere of the scene.
type SphereConfig struct {
	Center [3]float64 `json:"center"`
	Radius float64    `json:"radius"`
}

// DefaultSpheres is the single sphere one unit in front of the camera.
func DefaultSpheres() []SphereConfig {
	return []SphereConfig{{Center: [3]float64{0, 0, -1}, Radius: 0.5}}
}

// Render holds the settings for one image. Zero values mean "inherit" inside
// Config.Jobs and "default" at the top level.
type Render struct {
	Name           string         `json:"name,omitempty"`
	AspectRatio    float64        `json:"aspect_ratio,omitempty"`
	ImageWidth     int            `json:"image_width,omitempty"`
	FocalLength    float64        `json:"focal_length,omitempty"`
	ViewportHeight float64        `json:"viewport_height,omitempty"`
	CameraCenter   *[3]float64    `json:"camera_center,omitempty"`
	Spheres        []SphereConfig `json:"spheres,omitempty"`
	Mode           string         `json:"mode,omitempty"`
	Output         string         `json:"output,omitempty"`
	Format         string         `json:"format,omitempty"`
	Thumbnail      int            `json:"thumbnail,omitempty"`
}

// Config holds the top-level render plus optional batch jobs.
type Config struct {
	Render

	OutputDir string   `json:"output_dir,omitempty"`
	Workers   int      `json:"workers,omitempty"`
	Jobs      []Render `json:"jobs,omitempty"`
}

// Load reads a JSON config file and returns Config.
// Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	ImageWidth  int
	AspectRatio float64
	Mode        string
	Output      string
	Format      string
	Thumbnail   int
	OutputDir   string
	Workers     int
}

// Resolve applies flags, fills defaults, and propagates the top-level render
// into every job. CLI flags take priority when non-zero/non-empty.
func (c *Config) Resolve(flags Flags) {
	// CLI flags override config file
	if flags.ImageWidth > 0 {
		c.ImageWidth = flags.ImageWidth
	}
	if flags.AspectRatio > 0 {
		c.AspectRatio = flags.AspectRatio
	}
	if flags.Mode != "" {
		c.Mode = flags.Mode
	}
	if flags.Output != "" {
		c.Output = flags.Output
	}
	if flags.Format != "" {
		c.Format = flags.Format
	}
	if flags.Thumbnail > 0 {
		c.Thumbnail = flags.Thumbnail
	}
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}

	c.Render.fillDefaults()
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}

	for i := range c.Jobs {
		j := &c.Jobs[i]
		if j.Name == "" {
			j.Name = fmt.Sprintf("job%d", i+1)
		}
		// Job outputs never inherit the top-level file name.
		if j.Format == "" && j.Output == "" {
			j.Format = c.Format
		}
		if j.Output == "" {
			f, err := imageio.ParseFormat(j.Format)
			if err != nil {
				f = imageio.PPM
			}
			j.Output = filepath.Join(c.OutputDir, j.Name+f.Ext())
		} else if c.OutputDir != "" && !filepath.IsAbs(j.Output) {
			j.Output = filepath.Join(c.OutputDir, j.Output)
		}
		j.inherit(c.Render)
	}

	if c.OutputDir != "" && !filepath.IsAbs(c.Output) && len(c.Jobs) == 0 {
		c.Output = filepath.Join(c.OutputDir, c.Output)
	}
}

func (r *Render) fillDefaults() {
	if r.Name == "" {
		r.Name = "render"
	}
	if r.AspectRatio == 0 {
		r.AspectRatio = DefaultAspectRatio
	}
	if r.ImageWidth == 0 {
		r.ImageWidth = DefaultImageWidth
	}
	if r.FocalLength == 0 {
		r.FocalLength = DefaultFocalLength
	}
	if r.ViewportHeight == 0 {
		r.ViewportHeight = DefaultViewportHeight
	}
	if r.CameraCenter == nil {
		r.CameraCenter = &[3]float64{}
	}
	if r.Spheres == nil {
		r.Spheres = DefaultSpheres()
	}
	if r.Mode == "" {
		r.Mode = string(shade.Normals)
	}
	if r.Output == "" {
		r.Output = DefaultOutput
		if r.Format != "" {
			if f, err := imageio.ParseFormat(r.Format); err == nil {
				r.Output = "image" + f.Ext()
			}
		}
	}
	if r.Format == "" {
		if f, err := imageio.FormatFromPath(r.Output); err == nil {
			r.Format = string(f)
		}
	}
}

func (r *Render) inherit(base Render) {
	if r.AspectRatio == 0 {
		r.AspectRatio = base.AspectRatio
	}
	if r.ImageWidth == 0 {
		r.ImageWidth = base.ImageWidth
	}
	if r.FocalLength == 0 {
		r.FocalLength = base.FocalLength
	}
	if r.ViewportHeight == 0 {
		r.ViewportHeight = base.ViewportHeight
	}
	if r.CameraCenter == nil {
		c := *base.CameraCenter
		r.CameraCenter = &c
	}
	if r.Spheres == nil {
		r.Spheres = append([]SphereConfig(nil), base.Spheres...)
	}
	if r.Mode == "" {
		r.Mode = base.Mode
	}
	if r.Thumbnail == 0 {
		r.Thumbnail = base.Thumbnail
	}
	if r.Format == "" {
		if f, err := imageio.FormatFromPath(r.Output); err == nil {
			r.Format = string(f)
		} else {
			r.Format = base.Format
		}
	}
}

// Validate reports every out-of-range setting, joined.
func (c *Config) Validate() error {
	errs := c.Render.validate("")
	for i, j := range c.Jobs {
		errs = append(errs, j.validate(fmt.Sprintf("jobs[%d] %s: ", i, j.Name))...)
	}
	return errors.Join(errs...)
}

func (r *Render) validate(prefix string) []error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("config: %s%s: %w", prefix, fmt.Sprintf(format, args...), ErrInvalid))
	}

	if r.ImageWidth <= 0 {
		bad("image_width %d must be > 0", r.ImageWidth)
	}
	if !positive(r.AspectRatio) {
		bad("aspect_ratio %g must be finite and > 0", r.AspectRatio)
	} else if r.ImageWidth > 0 && !(float64(r.ImageWidth)/r.AspectRatio <= math.MaxInt32) {
		bad("aspect_ratio %g makes the image taller than %d rows", r.AspectRatio, math.MaxInt32)
	}
	if !positive(r.FocalLength) {
		bad("focal_length %g must be finite and > 0", r.FocalLength)
	}
	if !positive(r.ViewportHeight) {
		bad("viewport_height %g must be finite and > 0", r.ViewportHeight)
	}
	if len(r.Spheres) == 0 {
		bad("scene has no spheres")
	}
	for i, s := range r.Spheres {
		if !(s.Radius > 0) {
			bad("spheres[%d] radius %g must be > 0", i, s.Radius)
		}
	}
	if _, err := shade.ParseMode(r.Mode); err != nil {
		bad("mode %q", r.Mode)
	}
	if _, err := imageio.ParseFormat(r.Format); err != nil {
		bad("format %q (output %s)", r.Format, r.Output)
	}
	if r.Thumbnail < 0 {
		bad("thumbnail %d must be >= 0", r.Thumbnail)
	}
	return errs
}

func positive(x float64) bool {
	return x > 0 && !math.IsInf(x, 1)
}

// CameraConfig converts the render settings to camera inputs.
func (r *Render) CameraConfig() camera.Config {
	cfg := camera.Config{
		AspectRatio:    r.AspectRatio,
		ImageWidth:     r.ImageWidth,
		FocalLength:    r.FocalLength,
		ViewportHeight: r.ViewportHeight,
	}
	if r.CameraCenter != nil {
		cfg.Center = mathutil.Point3(*r.CameraCenter)
	}
	return cfg
}

// Scene builds the geometry list in file order.
func (r *Render) Scene() geometry.Scene {
	scene := make(geometry.Scene, 0, len(r.Spheres))
	for _, s := range r.Spheres {
		scene = append(scene, geometry.NewSphere(mathutil.Point3(s.Center), s.Radius))
	}
	return scene
}

// ShadeMode returns the parsed mode; call after Validate.
func (r *Render) ShadeMode() shade.Mode {
	m, _ := shade.ParseMode(r.Mode)
	return m
}

// OutputFormat returns the parsed format; call after Validate.
func (r *Render) OutputFormat() imageio.Format {
	f, _ := imageio.ParseFormat(r.Format)
	return f
}
