package universe

import (
	"fmt"

	"github.com/lox/deepfield/internal/celestial"
)

// ActiveSet is every resident object partitioned by kind.
type ActiveSet struct {
	Stars          []*celestial.Star
	Planets        []*celestial.Planet
	Moons          []*celestial.Moon
	Nebulae        []*celestial.Nebula
	AsteroidFields []*celestial.AsteroidField
	Wormholes      []*celestial.Wormhole
	BlackHoles     []*celestial.BlackHole
	Pulsars        []*celestial.Pulsar
	Protostars     []*celestial.Protostar
	RoguePlanets   []*celestial.RoguePlanet
	IonStorms      []*celestial.IonStorm

	Background []celestial.BackgroundStar
}

// Add files obj under its kind.
func (s *ActiveSet) Add(obj celestial.Object) {
	switch o := obj.(type) {
	case *celestial.Star:
		s.Stars = append(s.Stars, o)
	case *celestial.Planet:
		s.Planets = append(s.Planets, o)
	case *celestial.Moon:
		s.Moons = append(s.Moons, o)
	case *celestial.Nebula:
		s.Nebulae = append(s.Nebulae, o)
	case *celestial.AsteroidField:
		s.AsteroidFields = append(s.AsteroidFields, o)
	case *celestial.Wormhole:
		s.Wormholes = append(s.Wormholes, o)
	case *celestial.BlackHole:
		s.BlackHoles = append(s.BlackHoles, o)
	case *celestial.Pulsar:
		s.Pulsars = append(s.Pulsars, o)
	case *celestial.Protostar:
		s.Protostars = append(s.Protostars, o)
	case *celestial.RoguePlanet:
		s.RoguePlanets = append(s.RoguePlanets, o)
	case *celestial.IonStorm:
		s.IonStorms = append(s.IonStorms, o)
	default:
		panic(fmt.Sprintf("universe: unhandled object type %T", obj))
	}
}

// Len returns the number of discoverable objects in the set.
func (s *ActiveSet) Len() int {
	return len(s.Stars) + len(s.Planets) + len(s.Moons) + len(s.Nebulae) +
		len(s.AsteroidFields) + len(s.Wormholes) + len(s.BlackHoles) +
		len(s.Pulsars) + len(s.Protostars) + len(s.RoguePlanets) + len(s.IonStorms)
}

// Counts returns the number of objects per kind.
func (s *ActiveSet) Counts() map[celestial.Kind]int {
	counts := map[celestial.Kind]int{
		celestial.KindStar:          len(s.Stars),
		celestial.KindPlanet:        len(s.Planets),
		celestial.KindMoon:          len(s.Moons),
		celestial.KindNebula:        len(s.Nebulae),
		celestial.KindAsteroidField: len(s.AsteroidFields),
		celestial.KindWormhole:      len(s.Wormholes),
		celestial.KindBlackHole:     len(s.BlackHoles),
		celestial.KindPulsar:        len(s.Pulsars),
		celestial.KindProtostar:     len(s.Protostars),
		celestial.KindRoguePlanet:   len(s.RoguePlanets),
		celestial.KindIonStorm:      len(s.IonStorms),
	}
	for k, n := range counts {
		if n == 0 {
			delete(counts, k)
		}
	}
	return counts
}

// Objects returns the set flattened in paint order: diffuse structures
// first, then compact bodies, then orbiting bodies.
func (s *ActiveSet) Objects() []celestial.Object {
	out := make([]celestial.Object, 0, s.Len())
	for _, o := range s.Nebulae {
		out = append(out, o)
	}
	for _, o := range s.IonStorms {
		out = append(out, o)
	}
	for _, o := range s.AsteroidFields {
		out = append(out, o)
	}
	for _, o := range s.BlackHoles {
		out = append(out, o)
	}
	for _, o := range s.Wormholes {
		out = append(out, o)
	}
	for _, o := range s.Pulsars {
		out = append(out, o)
	}
	for _, o := range s.Protostars {
		out = append(out, o)
	}
	for _, o := range s.RoguePlanets {
		out = append(out, o)
	}
	for _, o := range s.Stars {
		out = append(out, o)
	}
	for _, o := range s.Planets {
		out = append(out, o)
	}
	for _, o := range s.Moons {
		out = append(out, o)
	}
	return out
}
