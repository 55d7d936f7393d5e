package geometry

import (
	"math"

	"sphere-renderer/internal/mathutil"
)

// NoHit is returned by HitSphere when the ray misses.
// Valid visible hits are always > 0, so any negative value works as a sentinel.
const NoHit = -1.0

// HitSphere returns the smaller root of the ray/sphere quadratic, or NoHit.
// The root is not filtered by sign: callers reject t <= 0.
func HitSphere(center mathutil.Point3, radius float64, r mathutil.Ray) float64 {
	oc := center.Sub(r.Origin)
	a := r.Direction.LenSq()
	if a == 0 {
		return NoHit
	}
	h := r.Direction.Dot(oc)
	c := oc.LenSq() - radius*radius

	disc := h*h - a*c
	if disc < 0 {
		return NoHit
	}
	return (h - math.Sqrt(disc)) / a
}

// Sphere is a solid sphere; Radius must be > 0.
type Sphere struct {
	Center mathutil.Point3
	Radius float64
}

func NewSphere(center mathutil.Point3, radius float64) Sphere {
	return Sphere{Center: center, Radius: radius}
}

func (s Sphere) Hit(r mathutil.Ray) float64 {
	return HitSphere(s.Center, s.Radius, r)
}

// Normal is the outward unit normal at p.
func (s Sphere) Normal(p mathutil.Point3) (mathutil.Vec3, error) {
	return p.Sub(s.Center).Unit()
}
