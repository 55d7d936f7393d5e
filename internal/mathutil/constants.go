package mathutil

// Scene-space constants shared by the shading and camera code.
var (
	White   = Color{1, 1, 1}
	SkyBlue = Color{0.5, 0.7, 1.0}
	Red     = Color{1, 0, 0}

	// Origin is the default camera center.
	Origin = Point3{0, 0, 0}
)

// ApproxEqual compares within an absolute tolerance.
func ApproxEqual(a, b, eps float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d <= eps
}
