// Package spheres builds one triangle mesh out of two spheres.
//
// When the spheres intersect, the first sphere is tessellated from its
// intersection circle to its far pole and the second sphere contributes the
// part of its surface enclosed by the first, with inverted normals and
// winding. The result is the closed boundary of the first sphere minus the
// second. Disjoint or nested spheres are emitted as two whole spheres.
//
// Everything in this package is pure: no logging, no I/O, no shared state.
package spheres

import (
	"errors"
	"fmt"
	"math"

	"github.com/taigrr/spheremesh/pkg/math3d"
)

var (
	// ErrInvalidRadius is returned for a radius that is not a positive finite number.
	ErrInvalidRadius = errors.New("sphere radius must be positive")

	// ErrDegenerateResolution marks a resolution that was clamped up to
	// MinResolution. It is reported to callers, never returned by BuildMesh.
	ErrDegenerateResolution = errors.New("resolution below minimum")

	// ErrInvalidOptions is returned for malformed scene options.
	ErrInvalidOptions = errors.New("invalid mesh options")
)

const (
	// MinResolution is the smallest number of radial segments a mesh is built with.
	MinResolution = 4

	// MaxResolution is the largest resolution whose mesh stays addressable
	// with 32-bit indices: n*(2n+2) vertices must not exceed 1<<32.
	MaxResolution = 46340
)

// Sphere is a center and a radius.
type Sphere struct {
	Center math3d.Vec3
	Radius float64
}

// NewSphere creates a sphere centered at (x, y, z).
func NewSphere(x, y, z, radius float64) Sphere {
	return Sphere{Center: math3d.V3(x, y, z), Radius: radius}
}

// Validate checks the radius and center.
func (s Sphere) Validate() error {
	if !(s.Radius > 0) || math.IsInf(s.Radius, 1) {
		return fmt.Errorf("%w: got %v", ErrInvalidRadius, s.Radius)
	}
	if !s.Center.IsFinite() {
		return fmt.Errorf("%w: non-finite center %v", ErrInvalidOptions, s.Center)
	}
	return nil
}

// Options is the scene record a mesh is generated from. Each sphere is
// [x, y, z, radius].
type Options struct {
	Sphere1    []float64 `json:"sphere1" yaml:"sphere1" toml:"sphere1"`
	Sphere2    []float64 `json:"sphere2" yaml:"sphere2" toml:"sphere2"`
	Resolution float64   `json:"resolution" yaml:"resolution" toml:"resolution"`
}

// Spheres validates the options and returns both spheres.
func (o Options) Spheres() (Sphere, Sphere, error) {
	s1, err := sphereFromParams("sphere1", o.Sphere1)
	if err != nil {
		return Sphere{}, Sphere{}, err
	}
	s2, err := sphereFromParams("sphere2", o.Sphere2)
	if err != nil {
		return Sphere{}, Sphere{}, err
	}
	if math.IsNaN(o.Resolution) || math.IsInf(o.Resolution, 0) {
		return Sphere{}, Sphere{}, fmt.Errorf("%w: resolution %v", ErrInvalidOptions, o.Resolution)
	}
	if math.Ceil(o.Resolution) > MaxResolution {
		return Sphere{}, Sphere{}, fmt.Errorf("%w: resolution %v exceeds %d", ErrInvalidOptions, o.Resolution, MaxResolution)
	}
	return s1, s2, nil
}

// Validate reports whether the options can produce a mesh.
func (o Options) Validate() error {
	_, _, err := o.Spheres()
	return err
}

func sphereFromParams(name string, p []float64) (Sphere, error) {
	if len(p) != 4 {
		return Sphere{}, fmt.Errorf("%w: %s needs [x, y, z, radius], got %d values", ErrInvalidOptions, name, len(p))
	}
	s := NewSphere(p[0], p[1], p[2], p[3])
	if err := s.Validate(); err != nil {
		return Sphere{}, fmt.Errorf("%s: %w", name, err)
	}
	return s, nil
}

// ClampResolution rounds resolution up and raises it to MinResolution.
// clamped is true when the input was below the minimum. Values above
// MaxResolution are capped; Options.Validate rejects them outright.
func ClampResolution(resolution float64) (segments int, clamped bool) {
	r := math.Ceil(resolution)
	if !(r >= MinResolution) {
		return MinResolution, true
	}
	return int(math.Min(r, MaxResolution)), false
}
