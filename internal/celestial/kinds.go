package celestial

// Kind discriminates object variants.
type Kind uint8

const (
	KindStar Kind = iota + 1
	KindPlanet
	KindMoon
	KindNebula
	KindAsteroidField
	KindWormhole
	KindBlackHole
	KindPulsar
	KindProtostar
	KindRoguePlanet
	KindIonStorm
)

var kindNames = map[Kind]string{
	KindStar:          "star",
	KindPlanet:        "planet",
	KindMoon:          "moon",
	KindNebula:        "nebula",
	KindAsteroidField: "asteroid_field",
	KindWormhole:      "wormhole",
	KindBlackHole:     "black_hole",
	KindPulsar:        "pulsar",
	KindProtostar:     "protostar",
	KindRoguePlanet:   "rogue_planet",
	KindIonStorm:      "ion_storm",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Kinds returns every kind in declaration order.
func Kinds() []Kind {
	return []Kind{
		KindStar, KindPlanet, KindMoon, KindNebula, KindAsteroidField,
		KindWormhole, KindBlackHole, KindPulsar, KindProtostar,
		KindRoguePlanet, KindIonStorm,
	}
}

// ParseKind resolves a kind name.
func ParseKind(s string) (Kind, bool) {
	for k, name := range kindNames {
		if name == s {
			return k, true
		}
	}
	return 0, false
}

// Orbiting reports whether objects of this kind move every tick.
func (k Kind) Orbiting() bool {
	return k == KindPlanet || k == KindMoon
}

// StarType classifies stars.
type StarType uint8

const (
	RedDwarf StarType = iota
	YellowDwarf
	OrangeDwarf
	WhiteDwarf
	BlueGiant
	RedGiant
)

// StarClass holds the fixed attributes of a star type.
type StarClass struct {
	Name      string
	Color     string
	MinRadius float64
	MaxRadius float64
}

var starClasses = [...]StarClass{
	RedDwarf:    {"Red dwarf", "#ff6b4a", 14, 22},
	YellowDwarf: {"Yellow dwarf", "#ffe066", 20, 30},
	OrangeDwarf: {"Orange dwarf", "#ffa94d", 18, 26},
	WhiteDwarf:  {"White dwarf", "#f1f3f5", 8, 12},
	BlueGiant:   {"Blue giant", "#74c0fc", 36, 52},
	RedGiant:    {"Red giant", "#e8590c", 48, 70},
}

// Class returns the attributes of t.
func (t StarType) Class() StarClass {
	if int(t) < len(starClasses) {
		return starClasses[t]
	}
	return starClasses[RedDwarf]
}

func (t StarType) String() string {
	return t.Class().Name
}

// PlanetType classifies planets and rogue planets.
type PlanetType uint8

const (
	Volcanic PlanetType = iota
	Rocky
	Desert
	Ocean
	Terrestrial
	GasGiant
	IceGiant
	Frozen
)

// PlanetClass holds the fixed attributes of a planet type.
type PlanetClass struct {
	Name      string
	Color     string
	MinRadius float64
	MaxRadius float64
}

var planetClasses = [...]PlanetClass{
	Volcanic:    {"Volcanic", "#c92a2a", 4, 8},
	Rocky:       {"Rocky", "#868e96", 4, 9},
	Desert:      {"Desert", "#e9c46a", 5, 10},
	Ocean:       {"Ocean", "#1c7ed6", 6, 11},
	Terrestrial: {"Terrestrial", "#37b24d", 6, 11},
	GasGiant:    {"Gas giant", "#f08c00", 14, 24},
	IceGiant:    {"Ice giant", "#66d9e8", 12, 20},
	Frozen:      {"Frozen", "#d0ebff", 4, 9},
}

// Class returns the attributes of t.
func (t PlanetType) Class() PlanetClass {
	if int(t) < len(planetClasses) {
		return planetClasses[t]
	}
	return planetClasses[Rocky]
}

func (t PlanetType) String() string {
	return t.Class().Name
}

// Giant reports whether the planet type is a gas or ice giant.
func (t PlanetType) Giant() bool {
	return t == GasGiant || t == IceGiant
}

// NebulaType classifies nebulae.
type NebulaType uint8

const (
	Emission NebulaType = iota
	Reflection
	PlanetaryNebula
	DarkNebula
)

var nebulaNames = [...]string{
	Emission:        "Emission",
	Reflection:      "Reflection",
	PlanetaryNebula: "Planetary",
	DarkNebula:      "Dark",
}

func (t NebulaType) String() string {
	if int(t) < len(nebulaNames) {
		return nebulaNames[t]
	}
	return "Unknown"
}

// NebulaTypes returns every nebula type.
func NebulaTypes() []NebulaType {
	return []NebulaType{Emission, Reflection, PlanetaryNebula, DarkNebula}
}

// WormholeRole distinguishes the two endpoints of a pair.
type WormholeRole uint8

const (
	Alpha WormholeRole = iota
	Beta
)

func (r WormholeRole) String() string {
	if r == Beta {
		return "beta"
	}
	return "alpha"
}

// BackgroundPalette is the fixed set of background star colours.
var BackgroundPalette = []string{
	"#ffffff", "#fff4e8", "#ffe9c9", "#cad7ff", "#aabfff", "#ffd2a1", "#ffcc6f",
}

// NebulaPalette is the fixed set of nebula colours.
var NebulaPalette = []string{
	"#e64980", "#7950f2", "#4c6ef5", "#15aabf", "#f76707", "#be4bdb",
}
