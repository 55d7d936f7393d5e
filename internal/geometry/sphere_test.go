package geometry

import (
	"math"
	"math/rand"
	"testing"

	"sphere-renderer/internal/mathutil"
)

func TestHitSphere_Straight(t *testing.T) {
	center := mathutil.Point3{0, 0, -1}

	tests := []struct {
		name      string
		ray       mathutil.Ray
		expectedT float64
	}{
		{
			name:      "from origin",
			ray:       mathutil.NewRay(mathutil.Origin, mathutil.Vec3{0, 0, -1}),
			expectedT: 0.5,
		},
		{
			name:      "unnormalized direction",
			ray:       mathutil.NewRay(mathutil.Origin, mathutil.Vec3{0, 0, -2}),
			expectedT: 0.25,
		},
		{
			name:      "from inside returns the negative root",
			ray:       mathutil.NewRay(center, mathutil.Vec3{0, 0, -1}),
			expectedT: -0.5,
		},
		{
			name:      "sphere behind the origin",
			ray:       mathutil.NewRay(mathutil.Origin, mathutil.Vec3{0, 0, 1}),
			expectedT: -1.5,
		},
		{
			name:      "tangent",
			ray:       mathutil.NewRay(mathutil.Point3{0.5, 0, 0}, mathutil.Vec3{0, 0, -1}),
			expectedT: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HitSphere(center, 0.5, tt.ray)
			if math.Abs(got-tt.expectedT) > 1e-9 {
				t.Errorf("Expected t=%g, got %g", tt.expectedT, got)
			}
		})
	}
}

func TestHitSphere_Miss(t *testing.T) {
	ray := mathutil.NewRay(mathutil.Origin, mathutil.Vec3{0, 1, 0})
	if got := HitSphere(mathutil.Point3{0, 0, -1}, 0.5, ray); got != NoHit {
		t.Errorf("Expected NoHit, got %g", got)
	}
}

func TestHitSphere_ZeroDirection(t *testing.T) {
	ray := mathutil.NewRay(mathutil.Origin, mathutil.Vec3{})
	if got := HitSphere(mathutil.Point3{0, 0, -1}, 0.5, ray); got != NoHit {
		t.Errorf("Expected NoHit for a zero direction, got %g", got)
	}
}

// Every non-negative result must lie on the surface; every miss must pass
// farther than the radius from the center.
func TestHitSphere_RandomRays(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	center := mathutil.Point3{0.3, -0.2, -1.5}
	const radius = 0.7

	hits, misses := 0, 0
	for i := 0; i < 5000; i++ {
		origin := mathutil.Point3{rng.Float64()*4 - 2, rng.Float64()*4 - 2, rng.Float64()*4 - 2}
		dir := mathutil.Vec3{rng.Float64()*2 - 1, rng.Float64()*2 - 1, rng.Float64()*2 - 1}
		if dir.LenSq() < 1e-6 {
			continue
		}
		r := mathutil.NewRay(origin, dir)
		tHit := HitSphere(center, radius, r)

		if tHit >= 0 {
			hits++
			dist := r.At(tHit).Sub(center).Len()
			if math.Abs(dist-radius) > 1e-9 {
				t.Fatalf("Ray %d: |at(t)-center| = %g, expected %g", i, dist, radius)
			}
			continue
		}

		oc := center.Sub(origin)
		d := dir.Normalize()
		closest := oc.Sub(d.Scale(oc.Dot(d))).Len()
		if closest > radius+1e-9 {
			misses++
			if tHit != NoHit {
				t.Fatalf("Ray %d passes %g from the center but returned %g", i, closest, tHit)
			}
			continue
		}
		if closest < radius-1e-9 {
			// Negative smaller root: the line does intersect the sphere.
			dist := r.At(tHit).Sub(center).Len()
			if math.Abs(dist-radius) > 1e-9 {
				t.Fatalf("Ray %d: negative root %g is not on the surface", i, tHit)
			}
		}
	}

	if hits == 0 || misses == 0 {
		t.Fatalf("Expected both hits and misses, got %d hits and %d misses", hits, misses)
	}
}

// A camera at the center of a unit sphere has roots -1 and 1; the smaller one
// equals NoHit numerically but is still a point on the surface.
func TestHitSphere_RootEqualToNoHit(t *testing.T) {
	r := mathutil.NewRay(mathutil.Origin, mathutil.Vec3{0, 0, 1})
	got := HitSphere(mathutil.Origin, 1, r)
	if got != -1 {
		t.Fatalf("Expected root -1, got %g", got)
	}
	if p := r.At(got); p != (mathutil.Point3{0, 0, -1}) {
		t.Errorf("Expected (0,0,-1), got %v", p)
	}
	if _, ok := (Scene{NewSphere(mathutil.Origin, 1)}).Closest(r); ok {
		t.Error("A negative root must not be a visible hit")
	}
}

func TestSphereNormal(t *testing.T) {
	s := NewSphere(mathutil.Point3{0, 0, -1}, 0.5)
	n, err := s.Normal(mathutil.Point3{0, 0, -0.5})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if n != (mathutil.Vec3{0, 0, 1}) {
		t.Errorf("Expected (0,0,1), got %v", n)
	}

	if _, err := s.Normal(s.Center); err == nil {
		t.Error("Expected an error for a normal at the center")
	}
}
