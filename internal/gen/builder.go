package gen

import (
	"math"

	"github.com/lox/deepfield/internal/celestial"
	"github.com/lox/deepfield/internal/chunk"
	"github.com/lox/deepfield/internal/discovery"
	"github.com/lox/deepfield/internal/naming"
	"github.com/lox/deepfield/internal/orbit"
	"github.com/lox/deepfield/internal/randutil"
	"github.com/lox/deepfield/internal/region"
	"github.com/lox/deepfield/internal/spatial"
)

// builder accumulates one chunk.
type builder struct {
	g      *Generator
	coord  spatial.ChunkCoord
	ox, oy float64
	mods   region.Modifiers
	chunk  *chunk.Chunk

	// majors are the positions of placed major objects.
	majors [][2]float64
}

func (b *builder) add(obj celestial.Object) int {
	b.chunk.Objects = append(b.chunk.Objects, obj)
	return len(b.chunk.Objects) - 1
}

func (b *builder) background(rng *randutil.Rand) {
	n := int(math.Round(float64(rng.NextInt(60, 120)) * b.mods.Background))
	stars := make([]celestial.BackgroundStar, 0, n)
	for range n {
		s := celestial.BackgroundStar{
			X:          b.ox + rng.Next()*b.g.size,
			Y:          b.oy + rng.Next()*b.g.size,
			Brightness: rng.NextFloat(0.2, 1),
		}
		switch tier := rng.Next(); {
		case tier < 0.70:
			s.Tier = 1
		case tier < 0.95:
			s.Tier = 2
		default:
			s.Tier = 3
		}
		s.Color = randutil.Choice(rng, celestial.BackgroundPalette)
		stars = append(stars, s)
	}
	b.chunk.Background = stars
}

// place finds a position at least minSeparation from every placed major
// object, trying at most maxAttempts positions inside margin.
func (b *builder) place(rng *randutil.Rand, margin float64, what string) (float64, float64, bool) {
	lo, hi := margin, b.g.size-margin
	if hi < lo {
		lo, hi = b.g.size/2, b.g.size/2
	}
	for range maxAttempts {
		x := b.ox + rng.NextFloat(lo, hi)
		y := b.oy + rng.NextFloat(lo, hi)
		if b.clear(x, y) {
			b.majors = append(b.majors, [2]float64{x, y})
			return x, y, true
		}
	}
	b.chunk.Skipped++
	b.g.logger.Debug("Skipped placement", "object", what,
		"cx", b.coord.X, "cy", b.coord.Y, "attempts", maxAttempts)
	return 0, 0, false
}

func (b *builder) clear(x, y float64) bool {
	for _, p := range b.majors {
		if math.Hypot(p[0]-x, p[1]-y) < minSeparation {
			return false
		}
	}
	return true
}

// system rolls for and builds the star system. Speed factors come from
// streams keyed off systemSeed per body, so adding or removing a sibling
// never changes another body's speed.
func (b *builder) system(systemSeed int64) {
	rng := randutil.New(systemSeed)
	if !rng.Chance(chance(b.g.rates.StarSystem, b.mods.StarSystem)) {
		return
	}

	x, y, ok := b.place(rng, systemMargin, "star")
	if !ok {
		return
	}
	typ := randutil.Weighted(rng, starTypes)
	class := typ.Class()
	star := &celestial.Star{
		Body: celestial.Body{
			X: x, Y: y,
			Origin: celestial.OriginOf(x, y),
			Radius: rng.NextFloat(class.MinRadius, class.MaxRadius),
		},
		Type:  typ,
		Color: class.Color,
	}
	star.DiscoveryRadius = star.Radius + 250
	star.Name = naming.Star(star.Origin, b.g.seed)
	starIdx := b.add(star)

	tier := randutil.Weighted(rng, planetCounts)
	count := rng.NextInt(tier.min, tier.max)
	for i := range count {
		b.planet(rng, systemSeed, starIdx, star, i)
	}
}

func (b *builder) planet(rng *randutil.Rand, systemSeed int64, starIdx int, star *celestial.Star, index int) {
	distance := orbitalDistance(rng, index)
	angle := rng.Angle()
	typ := randutil.Weighted(rng, planetTypesFor(distance))
	class := typ.Class()
	radius := rng.NextFloat(class.MinRadius, class.MaxRadius)
	ringRoll := rng.Next()

	moonTable := rockyMoonCounts
	if typ.Giant() {
		moonTable = giantMoonCounts
	}
	moonTier := randutil.Weighted(rng, moonTable)
	moonCount := rng.NextInt(moonTier.min, moonTier.max)

	factor := speedFactor(systemSeed+int64(index), randutil.PhasePlanetSpeed)
	p := &celestial.Planet{
		Body: celestial.Body{
			Radius:          radius,
			DiscoveryRadius: radius + 60,
			Name:            naming.Planet(star.Name, index),
		},
		Orbit: celestial.Orbit{
			Parent:       starIdx,
			Distance:     distance,
			Angle:        angle,
			AngularSpeed: orbit.AngularSpeed(orbit.PlanetConstant, distance, factor),
		},
		Index:        index,
		ParentOrigin: star.Origin,
		Type:         typ,
		Rings:        typ.Giant() && ringRoll < 0.35,
	}
	orbit.Place(b.chunk.Objects, &p.Body, &p.Orbit)
	p.Origin = celestial.OriginOf(p.X, p.Y)
	planetIdx := b.add(p)
	star.Planets = append(star.Planets, planetIdx)

	moons := make([]*celestial.Moon, 0, moonCount)
	distances := make([]float64, 0, moonCount)
	for j := range moonCount {
		md := radius + 8 + rng.NextFloat(0, 14*float64(j+1))
		ma := rng.Angle()
		mr := rng.NextFloat(1.5, math.Max(2, radius*0.35))
		mf := speedFactor(systemSeed+moonSpeedOffset+moonSpeedStride*int64(index)+int64(j), randutil.PhaseMoonSpeed)

		m := &celestial.Moon{
			Body: celestial.Body{
				Radius:          mr,
				DiscoveryRadius: mr + 30,
			},
			Orbit: celestial.Orbit{
				Parent:       planetIdx,
				Distance:     md,
				Angle:        ma,
				AngularSpeed: orbit.AngularSpeed(orbit.MoonConstant, md, mf),
			},
			Index:          j,
			StarOrigin:     star.Origin,
			PlanetDistance: distance,
		}
		orbit.Place(b.chunk.Objects, &m.Body, &m.Orbit)
		m.Origin = celestial.OriginOf(m.X, m.Y)
		p.Moons = append(p.Moons, b.add(m))
		moons = append(moons, m)
		distances = append(distances, md)
	}
	for j, rank := range naming.Ranks(distances) {
		moons[j].Name = naming.Moon(p.Name, rank)
	}
}

// speedFactor draws a body's orbital speed factor from its own stream. The key
// is mixed before seeding so adjacent keys open with unrelated draws.
func speedFactor(key int64, phase randutil.Phase) float64 {
	return randutil.New(randutil.Derive(key, phase)).NextFloat(minSpeedFactor, maxSpeedFactor)
}

func (b *builder) nebula(rng *randutil.Rand) {
	if !rng.Chance(chance(b.g.rates.Nebula, b.mods.Nebula)) {
		return
	}
	x, y, ok := b.place(rng, specialMargin, "nebula")
	if !ok {
		return
	}
	n := &celestial.Nebula{
		Body:    b.body(celestial.KindNebula, x, y, rng.NextFloat(150, 400)),
		Type:    randutil.Choice(rng, celestial.NebulaTypes()),
		Color:   randutil.Choice(rng, celestial.NebulaPalette),
		Density: rng.NextFloat(0.3, 0.9),
	}
	n.DiscoveryRadius = n.Radius
	b.add(n)
}

func (b *builder) asteroidField(rng *randutil.Rand) {
	if !rng.Chance(chance(b.g.rates.AsteroidField, b.mods.AsteroidField)) {
		return
	}
	x, y, ok := b.place(rng, specialMargin, "asteroid_field")
	if !ok {
		return
	}
	a := &celestial.AsteroidField{
		Body:     b.body(celestial.KindAsteroidField, x, y, rng.NextFloat(120, 300)),
		Count:    rng.NextInt(20, 60),
		Rotation: rng.NextFloat(-0.05, 0.05),
	}
	a.DiscoveryRadius = a.Radius + 50
	b.add(a)
}

// wormhole places the alpha endpoint here and exports the beta endpoint to
// the chunk that contains it.
func (b *builder) wormhole(rng *randutil.Rand) {
	if !rng.Chance(chance(b.g.rates.Wormhole, b.mods.Wormhole)) {
		return
	}
	x, y, ok := b.place(rng, specialMargin, "wormhole")
	if !ok {
		return
	}
	radius := rng.NextFloat(25, 40)
	span := rng.NextFloat(minWormholeSpan, maxWormholeSpan)
	bx, by := celestial.PlacePoint(x, y, rng.Angle(), span)

	pair := celestial.OriginOf(x, y)
	name := naming.Special(celestial.KindWormhole, pair, b.g.seed)
	alphaID := discovery.WormholeIdentity(pair, celestial.Alpha)
	betaID := discovery.WormholeIdentity(pair, celestial.Beta)

	alpha := &celestial.Wormhole{
		Body: celestial.Body{
			X: x, Y: y, Origin: pair,
			Radius: radius, DiscoveryRadius: 200,
			Name: name + " α",
		},
		Role:       celestial.Alpha,
		PairOrigin: pair,
		PartnerX:   bx,
		PartnerY:   by,
		PartnerID:  betaID,
	}
	beta := &celestial.Wormhole{
		Body: celestial.Body{
			X: bx, Y: by, Origin: celestial.OriginOf(bx, by),
			Radius: radius, DiscoveryRadius: 200,
			Name: name + " β",
		},
		Role:       celestial.Beta,
		PairOrigin: pair,
		PartnerX:   x,
		PartnerY:   y,
		PartnerID:  alphaID,
	}
	b.add(alpha)
	// The beta is not separated from the host chunk's majors; the host must
	// generate identically whether or not this chunk ever ran.
	b.chunk.Exports = append(b.chunk.Exports, chunk.Export{
		Host:   spatial.ChunkOf(bx, by, b.g.size),
		Key:    betaID,
		Object: beta,
	})
}

func (b *builder) blackHole(rng *randutil.Rand) {
	if !rng.Chance(chance(b.g.rates.BlackHole, b.mods.BlackHole)) {
		return
	}
	x, y, ok := b.place(rng, specialMargin, "black_hole")
	if !ok {
		return
	}
	horizon := rng.NextFloat(20, 40)
	accretion := horizon * rng.NextFloat(2.5, 4)
	bh := &celestial.BlackHole{
		Body:            b.body(celestial.KindBlackHole, x, y, accretion),
		Mass:            rng.NextFloat(5, 60),
		EventHorizon:    horizon,
		AccretionRadius: accretion,
	}
	bh.DiscoveryRadius = accretion + 200
	b.add(bh)
}

// exclusive places the object only found in the chunk's region type. The
// roll is drawn even when the region has no exclusive kind.
func (b *builder) exclusive(rng *randutil.Rand, info region.Info) {
	roll := rng.Next()
	kind, ok := ExclusiveKind(info.Type)
	if !ok || info.Influence < minExclusiveInfluence {
		return
	}
	if roll >= chance(b.g.rates.Exclusive, info.Influence) {
		return
	}
	x, y, ok := b.place(rng, specialMargin, kind.String())
	if !ok {
		return
	}

	switch kind {
	case celestial.KindPulsar:
		p := &celestial.Pulsar{
			Body:       b.body(kind, x, y, rng.NextFloat(6, 10)),
			Period:     rng.NextFloat(0.2, 3),
			BeamLength: rng.NextFloat(150, 400),
		}
		p.DiscoveryRadius = 300
		b.add(p)
	case celestial.KindProtostar:
		p := &celestial.Protostar{
			Body:      b.body(kind, x, y, rng.NextFloat(20, 35)),
			Accretion: rng.NextFloat(0.1, 1),
			Color:     randutil.Choice(rng, protostarPalette),
		}
		p.DiscoveryRadius = p.Radius + 220
		b.add(p)
	case celestial.KindRoguePlanet:
		r := &celestial.RoguePlanet{
			Body: b.body(kind, x, y, rng.NextFloat(5, 12)),
			Type: randutil.Choice(rng, roguePlanets),
		}
		r.DiscoveryRadius = r.Radius + 110
		b.add(r)
	case celestial.KindIonStorm:
		s := &celestial.IonStorm{
			Body:      b.body(kind, x, y, rng.NextFloat(200, 450)),
			Intensity: rng.NextFloat(0.2, 1),
			Color:     randutil.Choice(rng, ionStormPalette),
		}
		s.DiscoveryRadius = s.Radius
		b.add(s)
	}
}

func (b *builder) body(kind celestial.Kind, x, y, radius float64) celestial.Body {
	origin := celestial.OriginOf(x, y)
	return celestial.Body{
		X: x, Y: y,
		Origin: origin,
		Radius: radius,
		Name:   naming.Special(kind, origin, b.g.seed),
	}
}
