package discovery

import (
	"fmt"

	"github.com/lox/deepfield/internal/celestial"
)

// IdentityOf returns the stable key of obj. Directly placed objects are keyed
// by kind and generation origin. Planets and moons are keyed by their star's
// origin and their orbital distances, which never change, so the key survives
// both orbital motion and chunk regeneration.
func IdentityOf(obj celestial.Object) string {
	switch o := obj.(type) {
	case *celestial.Star:
		return originKey(o.Kind(), o.Origin)
	case *celestial.Planet:
		return fmt.Sprintf("planet:%d:%d:%.3f", o.ParentOrigin.X, o.ParentOrigin.Y, o.Distance)
	case *celestial.Moon:
		return fmt.Sprintf("moon:%d:%d:%.3f:%.3f", o.StarOrigin.X, o.StarOrigin.Y, o.PlanetDistance, o.Distance)
	case *celestial.Wormhole:
		return WormholeIdentity(o.PairOrigin, o.Role)
	case *celestial.Nebula:
		return originKey(o.Kind(), o.Origin)
	case *celestial.AsteroidField:
		return originKey(o.Kind(), o.Origin)
	case *celestial.BlackHole:
		return originKey(o.Kind(), o.Origin)
	case *celestial.Pulsar:
		return originKey(o.Kind(), o.Origin)
	case *celestial.Protostar:
		return originKey(o.Kind(), o.Origin)
	case *celestial.RoguePlanet:
		return originKey(o.Kind(), o.Origin)
	case *celestial.IonStorm:
		return originKey(o.Kind(), o.Origin)
	default:
		panic(fmt.Sprintf("discovery: unhandled object type %T", obj))
	}
}

// Discoverable reports whether obj can enter the ledger. Every object
// variant can; background stars are not objects at all.
func Discoverable(obj celestial.Object) bool {
	switch obj.(type) {
	case *celestial.Star, *celestial.Planet, *celestial.Moon, *celestial.Wormhole,
		*celestial.Nebula, *celestial.AsteroidField, *celestial.BlackHole,
		*celestial.Pulsar, *celestial.Protostar, *celestial.RoguePlanet, *celestial.IonStorm:
		return true
	}
	return false
}

// WormholeIdentity returns the key of one endpoint of the pair whose alpha
// endpoint was generated at pair.
func WormholeIdentity(pair celestial.Origin, role celestial.WormholeRole) string {
	return fmt.Sprintf("wormhole:%d:%d:%s", pair.X, pair.Y, role)
}

func originKey(kind celestial.Kind, o celestial.Origin) string {
	return fmt.Sprintf("%s:%d:%d", kind, o.X, o.Y)
}
