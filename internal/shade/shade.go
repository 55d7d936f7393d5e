package shade

import (
	"fmt"
	"strings"

	"sphere-renderer/internal/geometry"
	"sphere-renderer/internal/mathutil"
)

// Mode selects how a pixel color is produced.
type Mode string

const (
	// Normals colors hits by their surface normal remapped to [0,1].
	Normals Mode = "normals"
	// Flat colors any hit solid red.
	Flat Mode = "flat"
	// Gradient ignores the scene and paints a red/green test ramp.
	Gradient Mode = "gradient"
)

// Modes lists every supported mode in display order.
var Modes = []Mode{Normals, Flat, Gradient}

// ParseMode accepts a mode name case-insensitively. Empty means Normals.
func ParseMode(s string) (Mode, error) {
	if s == "" {
		return Normals, nil
	}
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Modes {
		if m == known {
			return m, nil
		}
	}
	return "", fmt.Errorf("shade: unknown mode %q", s)
}

// SkyColor is the vertical white-to-blue background gradient.
func SkyColor(r mathutil.Ray) (mathutil.Color, error) {
	d, err := r.Direction.Unit()
	if err != nil {
		return mathutil.Color{}, fmt.Errorf("shade: sky: %w", err)
	}
	a := 0.5 * (d.Y() + 1.0)
	return mathutil.Lerp(mathutil.White, mathutil.SkyBlue, a), nil
}

// NormalColor maps a unit normal from [-1,1] to [0,1] per component.
func NormalColor(n mathutil.Vec3) mathutil.Color {
	return n.Add(mathutil.White).Scale(0.5)
}

// RayColor shades r against scene using the normal visualization.
func RayColor(scene geometry.Scene, r mathutil.Ray) (mathutil.Color, error) {
	return ModeColor(Normals, scene, r)
}

// ModeColor shades r for the ray-based modes (Normals and Flat).
func ModeColor(mode Mode, scene geometry.Scene, r mathutil.Ray) (mathutil.Color, error) {
	hit, ok := scene.Closest(r)
	if !ok {
		return SkyColor(r)
	}
	if mode == Flat {
		return mathutil.Red, nil
	}
	n, err := hit.Shape.Normal(hit.Point)
	if err != nil {
		return mathutil.Color{}, fmt.Errorf("shade: normal at t=%g: %w", hit.T, err)
	}
	return NormalColor(n), nil
}

// GradientColor is the pixel-space test pattern: red grows left to right,
// green grows top to bottom.
func GradientColor(i, j, width, height int) mathutil.Color {
	return mathutil.Color{ramp(i, width), ramp(j, height), 0}
}

func ramp(i, n int) float64 {
	if n <= 1 {
		return 0
	}
	return float64(i) / float64(n-1)
}
