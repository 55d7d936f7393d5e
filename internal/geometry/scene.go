package geometry

import "sphere-renderer/internal/mathutil"

// Hittable is anything a ray can be tested against.
type Hittable interface {
	// Hit returns the ray parameter of the nearest intersection, or a
	// negative value when there is none.
	Hit(r mathutil.Ray) float64
	Normal(p mathutil.Point3) (mathutil.Vec3, error)
}

// Scene is an ordered list of shapes.
type Scene []Hittable

// HitRecord describes the nearest visible intersection.
type HitRecord struct {
	T     float64
	Point mathutil.Point3
	Shape Hittable
}

// Closest returns the nearest hit with t > 0. Ties keep the earlier shape.
func (s Scene) Closest(r mathutil.Ray) (HitRecord, bool) {
	var best HitRecord
	found := false
	for _, shape := range s {
		t := shape.Hit(r)
		if t <= 0 {
			continue
		}
		if !found || t < best.T {
			best = HitRecord{T: t, Shape: shape}
			found = true
		}
	}
	if found {
		best.Point = r.At(best.T)
	}
	return best, found
}

// SingleSphere is the default scene: one sphere of radius 0.5 one unit in front of the camera.
func SingleSphere() Scene {
	return Scene{NewSphere(mathutil.Point3{0, 0, -1}, 0.5)}
}
