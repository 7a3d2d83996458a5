package region

import "strings"

// Type names a macro region.
type Type uint8

const (
	// Field is ordinary space. It is also reported wherever no centre has any
	// influence.
	Field Type = iota
	StarCluster
	Void
	GalacticCore
	NebulaExpanse
)

var typeNames = [...]string{
	Field:         "field",
	StarCluster:   "star_cluster",
	Void:          "void",
	GalacticCore:  "galactic_core",
	NebulaExpanse: "nebula_expanse",
}

func (t Type) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return "unknown"
}

// Types returns every region type in declaration order.
func Types() []Type {
	return []Type{Field, StarCluster, Void, GalacticCore, NebulaExpanse}
}

// ParseType resolves a region name. The second result is false for unknown
// names.
func ParseType(s string) (Type, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range typeNames {
		if name == s {
			return Type(i), true
		}
	}
	return Field, false
}

// Modifiers scale the base spawn probabilities of a chunk.
type Modifiers struct {
	StarSystem    float64
	Nebula        float64
	AsteroidField float64
	Wormhole      float64
	BlackHole     float64
	Background    float64
}

// Neutral returns modifiers that leave every probability unchanged.
func Neutral() Modifiers {
	return Modifiers{1, 1, 1, 1, 1, 1}
}

// Modifiers returns the multipliers a region applies at full influence.
func (t Type) Modifiers() Modifiers {
	switch t {
	case StarCluster:
		return Modifiers{StarSystem: 2.5, Nebula: 1.8, AsteroidField: 1.3, Wormhole: 0.5, BlackHole: 0.8, Background: 1.6}
	case Void:
		return Modifiers{StarSystem: 0.3, Nebula: 0.2, AsteroidField: 0.4, Wormhole: 2.0, BlackHole: 1.5, Background: 0.4}
	case GalacticCore:
		return Modifiers{StarSystem: 1.8, Nebula: 1.2, AsteroidField: 0.8, Wormhole: 1.0, BlackHole: 4.0, Background: 2.0}
	case NebulaExpanse:
		return Modifiers{StarSystem: 1.2, Nebula: 3.5, AsteroidField: 1.1, Wormhole: 0.8, BlackHole: 0.6, Background: 1.2}
	default:
		return Neutral()
	}
}

// Blend interpolates between neutral and m by influence in [0, 1], so spawn
// rates fade smoothly towards a region's edge.
func (m Modifiers) Blend(influence float64) Modifiers {
	influence = clamp01(influence)
	lerp := func(v float64) float64 { return v*influence + (1 - influence) }
	return Modifiers{
		StarSystem:    lerp(m.StarSystem),
		Nebula:        lerp(m.Nebula),
		AsteroidField: lerp(m.AsteroidField),
		Wormhole:      lerp(m.Wormhole),
		BlackHole:     lerp(m.BlackHole),
		Background:    lerp(m.Background),
	}
}

// Cell addresses one slot of the region lattice.
type Cell struct {
	X, Y int64
}

// Center is the deterministic heart of one region.
type Center struct {
	Cell   Cell
	Type   Type
	X, Y   float64
	Radius float64
}

// Info describes the region at a queried coordinate.
type Info struct {
	Type      Type
	Center    Center
	Distance  float64
	Influence float64
	Modifiers Modifiers
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
