// Package orbit advances planets and moons along their circular orbits.
//
// Motion is a stylised angular sweep: each body turns at a fixed angular
// speed that falls off with orbital distance, and positions are recomputed
// from the parent every step. Only the accumulated dt matters, so pausing a
// host and resuming it continues the motion without a jump.
package orbit

import (
	"math"

	"github.com/lox/deepfield/internal/celestial"
)

const (
	// PlanetConstant scales planet angular speeds.
	PlanetConstant = 120.0
	// MoonConstant scales moon angular speeds.
	MoonConstant = 30.0
)

// AngularSpeed returns k / d^1.5 scaled by factor, in radians per second.
// Closer orbits turn faster.
func AngularSpeed(k, distance, factor float64) float64 {
	if distance <= 0 {
		return 0
	}
	return k / (distance * math.Sqrt(distance)) * factor
}

// Step advances every orbiting body in one chunk arena by dt seconds and
// returns how many bodies moved. Planets move first; moons then follow their
// parent planet's updated position.
func Step(objects []celestial.Object, dt float64) int {
	moved := 0
	for _, obj := range objects {
		p, ok := obj.(*celestial.Planet)
		if !ok {
			continue
		}
		if advance(objects, &p.Body, &p.Orbit, dt) {
			moved++
		}
	}
	for _, obj := range objects {
		m, ok := obj.(*celestial.Moon)
		if !ok {
			continue
		}
		if advance(objects, &m.Body, &m.Orbit, dt) {
			moved++
		}
	}
	return moved
}

// Place positions body on its orbit around the parent without advancing the
// angle.
func Place(objects []celestial.Object, b *celestial.Body, o *celestial.Orbit) bool {
	return advance(objects, b, o, 0)
}

func advance(objects []celestial.Object, b *celestial.Body, o *celestial.Orbit, dt float64) bool {
	if o.Parent < 0 || o.Parent >= len(objects) {
		return false
	}
	parent := objects[o.Parent].Base()
	o.Angle = math.Mod(o.Angle+o.AngularSpeed*dt, 2*math.Pi)
	if o.Angle < 0 {
		o.Angle += 2 * math.Pi
	}
	b.X, b.Y = celestial.PlacePoint(parent.X, parent.Y, o.Angle, o.Distance)
	return true
}
