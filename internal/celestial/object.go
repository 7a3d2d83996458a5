// Package celestial defines the closed set of objects a chunk can contain.
//
// Object is a sealed interface implemented only by the pointer types in this
// package. Consumers switch over the concrete types exhaustively; adding a
// kind means adding a case everywhere a switch has a default that panics.
//
// Objects live in a flat arena owned by their chunk. Orbiting bodies refer to
// their parent by index into that arena rather than by pointer, so there are
// no reference cycles between a star and its planets.
package celestial

import (
	"fmt"
	"math"
)

// Origin is the floored generation-time position of an object. It never
// changes after generation, even for bodies that move.
type Origin struct {
	X, Y int64
}

// OriginOf floors a world position.
func OriginOf(x, y float64) Origin {
	return Origin{X: int64(math.Floor(x)), Y: int64(math.Floor(y))}
}

func (o Origin) String() string {
	return fmt.Sprintf("%d:%d", o.X, o.Y)
}

// Body holds the fields every object carries.
type Body struct {
	X, Y            float64
	Origin          Origin
	Radius          float64
	DiscoveryRadius float64
	Discovered      bool
	Name            string
}

// Base returns the shared fields of an object.
func (b *Body) Base() *Body { return b }

// DistanceTo returns the Euclidean distance from the body's current position
// to (x, y).
func (b *Body) DistanceTo(x, y float64) float64 {
	return math.Hypot(b.X-x, b.Y-y)
}

// Object is any discoverable celestial object.
type Object interface {
	Kind() Kind
	Base() *Body
	isObject()
}

// Orbit describes circular motion around a parent held in the same arena.
type Orbit struct {
	Parent       int
	Distance     float64
	Angle        float64
	AngularSpeed float64
}

// Star anchors a star system.
type Star struct {
	Body
	Type    StarType
	Color   string
	Planets []int
}

// Planet orbits a star.
type Planet struct {
	Body
	Orbit
	Index        int
	ParentOrigin Origin
	Type         PlanetType
	Rings        bool
	Moons        []int
}

// Moon orbits a planet. StarOrigin and PlanetDistance pin the moon to its
// system without reference to the planet's moving position.
type Moon struct {
	Body
	Orbit
	Index          int
	StarOrigin     Origin
	PlanetDistance float64
}

// Nebula is a diffuse gas cloud.
type Nebula struct {
	Body
	Type    NebulaType
	Color   string
	Density float64
}

// AsteroidField is a loose ring of rocks.
type AsteroidField struct {
	Body
	Count    int
	Rotation float64
}

// Wormhole is one endpoint of a linked pair. Both endpoints share PairOrigin,
// the origin of the alpha endpoint, and name each other through PartnerID.
type Wormhole struct {
	Body
	Role       WormholeRole
	PairOrigin Origin
	PartnerX   float64
	PartnerY   float64
	PartnerID  string
}

// BlackHole is a collapsed star with an accretion disc.
type BlackHole struct {
	Body
	Mass            float64
	EventHorizon    float64
	AccretionRadius float64
}

// Pulsar only forms inside galactic cores.
type Pulsar struct {
	Body
	Period     float64
	BeamLength float64
}

// Protostar only forms inside star clusters.
type Protostar struct {
	Body
	Accretion float64
	Color     string
}

// RoguePlanet only drifts through voids.
type RoguePlanet struct {
	Body
	Type PlanetType
}

// IonStorm only rages inside nebula expanses.
type IonStorm struct {
	Body
	Intensity float64
	Color     string
}

func (*Star) Kind() Kind          { return KindStar }
func (*Planet) Kind() Kind        { return KindPlanet }
func (*Moon) Kind() Kind          { return KindMoon }
func (*Nebula) Kind() Kind        { return KindNebula }
func (*AsteroidField) Kind() Kind { return KindAsteroidField }
func (*Wormhole) Kind() Kind      { return KindWormhole }
func (*BlackHole) Kind() Kind     { return KindBlackHole }
func (*Pulsar) Kind() Kind        { return KindPulsar }
func (*Protostar) Kind() Kind     { return KindProtostar }
func (*RoguePlanet) Kind() Kind   { return KindRoguePlanet }
func (*IonStorm) Kind() Kind      { return KindIonStorm }

func (*Star) isObject()          {}
func (*Planet) isObject()        {}
func (*Moon) isObject()          {}
func (*Nebula) isObject()        {}
func (*AsteroidField) isObject() {}
func (*Wormhole) isObject()      {}
func (*BlackHole) isObject()     {}
func (*Pulsar) isObject()        {}
func (*Protostar) isObject()     {}
func (*RoguePlanet) isObject()   {}
func (*IonStorm) isObject()      {}

// BackgroundStar is decorative and never discoverable.
type BackgroundStar struct {
	X, Y       float64
	Brightness float64
	Tier       int
	Color      string
}

// PlacePoint returns the point at angle and distance from (cx, cy).
func PlacePoint(cx, cy, angle, distance float64) (float64, float64) {
	return cx + math.Cos(angle)*distance, cy + math.Sin(angle)*distance
}
