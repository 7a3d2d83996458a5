package gen

import (
	"math"
	"strings"
	"testing"

	"github.com/lox/deepfield/internal/celestial"
	"github.com/lox/deepfield/internal/chunk"
	"github.com/lox/deepfield/internal/discovery"
	"github.com/lox/deepfield/internal/orbit"
	"github.com/lox/deepfield/internal/randutil"
	"github.com/lox/deepfield/internal/region"
	"github.com/lox/deepfield/internal/spatial"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateIsDeterministic(t *testing.T) {
	t.Parallel()

	a := New(42, nil)
	b := New(42, region.NewClassifier(42))
	for y := int64(-3); y <= 3; y++ {
		for x := int64(-3); x <= 3; x++ {
			c := spatial.ChunkCoord{X: x, Y: y}
			ca, cb := a.Generate(c), b.Generate(c)
			require.Equal(t, ca.Digest(), cb.Digest(), "chunk %s", c)
			require.Len(t, cb.Background, len(ca.Background))
			require.Len(t, cb.Objects, len(ca.Objects))
			for i := range ca.Objects {
				assert.InDelta(t, ca.Objects[i].Base().X, cb.Objects[i].Base().X, 1e-9)
				assert.InDelta(t, ca.Objects[i].Base().Y, cb.Objects[i].Base().Y, 1e-9)
			}
		}
	}
}

func TestSeed42OriginFixture(t *testing.T) {
	t.Parallel()

	// Reference values for seed 42, chunk (0,0). A change here means every
	// existing universe would regenerate differently.
	const (
		wantSeed       = uint32(2035168909)
		wantRawCount   = 63
		wantFirstX     = 1929.4670866145448
		wantFirstY     = 553.325281993789
		wantBrightness = 0.8952103166796364
	)

	c := New(42, nil).Generate(spatial.ChunkCoord{})
	assert.Equal(t, wantSeed, c.Seed)
	assert.Equal(t, int(math.Round(wantRawCount*c.Region.Modifiers.Background)), len(c.Background))
	require.NotEmpty(t, c.Background)
	assert.InDelta(t, wantFirstX, c.Background[0].X, 1e-9)
	assert.InDelta(t, wantFirstY, c.Background[0].Y, 1e-9)
	assert.InDelta(t, wantBrightness, c.Background[0].Brightness, 1e-9)

	again := New(42, nil).Generate(spatial.ChunkCoord{})
	assert.Equal(t, c.Digest(), again.Digest())
}

func TestDifferentSeedsDiffer(t *testing.T) {
	t.Parallel()

	a, b := New(1, nil), New(2, nil)
	for x := int64(0); x < 10; x++ {
		c := spatial.ChunkCoord{X: x, Y: -x}
		assert.NotEqual(t, a.Generate(c).Digest(), b.Generate(c).Digest(), "chunk %s", c)
	}
}

func TestHighSeedBitsChangeLayout(t *testing.T) {
	t.Parallel()

	const seed = int64(90210)
	a, b := New(seed, nil), New(seed+1<<32, nil)
	for x := int64(0); x < 10; x++ {
		coord := spatial.ChunkCoord{X: x, Y: 1 - x}
		ca, cb := a.Generate(coord), b.Generate(coord)
		require.NotEmpty(t, ca.Background)
		require.NotEmpty(t, cb.Background)
		assert.NotEqual(t, ca.Seed, cb.Seed, "chunk %s", coord)
		assert.NotEqual(t, ca.Background[0].X, cb.Background[0].X, "chunk %s", coord)
		assert.NotEqual(t, ca.Background[0].Y, cb.Background[0].Y, "chunk %s", coord)
	}
}

func TestNoSystemStillHasBackground(t *testing.T) {
	t.Parallel()

	rates := DefaultRates()
	rates.StarSystem = 0
	g := New(7, nil, WithRates(rates))
	for x := int64(0); x < 20; x++ {
		c := g.Generate(spatial.ChunkCoord{X: x, Y: 3})
		assert.Zero(t, c.Count(celestial.KindStar))
		assert.Zero(t, c.Count(celestial.KindPlanet))
		assert.NotEmpty(t, c.Background)
	}
}

func TestBackgroundStars(t *testing.T) {
	t.Parallel()

	g := New(99, nil)
	c := spatial.ChunkCoord{X: -2, Y: 5}
	ch := g.Generate(c)
	ox, oy := c.Origin(g.ChunkSize())
	for _, s := range ch.Background {
		assert.GreaterOrEqual(t, s.X, ox)
		assert.Less(t, s.X, ox+g.ChunkSize())
		assert.GreaterOrEqual(t, s.Y, oy)
		assert.Less(t, s.Y, oy+g.ChunkSize())
		assert.GreaterOrEqual(t, s.Brightness, 0.2)
		assert.Less(t, s.Brightness, 1.0)
		assert.Contains(t, []int{1, 2, 3}, s.Tier)
		assert.Contains(t, celestial.BackgroundPalette, s.Color)
	}
}

func findSystem(t *testing.T, g *Generator, minPlanets int) (*chunk.Chunk, *celestial.Star) {
	t.Helper()
	for i := int64(0); i < 400; i++ {
		c := g.Generate(spatial.ChunkCoord{X: i % 20, Y: i / 20})
		for _, obj := range c.Objects {
			if s, ok := obj.(*celestial.Star); ok && len(s.Planets) >= minPlanets {
				return c, s
			}
		}
	}
	t.Fatalf("no system with %d planets found", minPlanets)
	return nil, nil
}

func TestStarSystemStructure(t *testing.T) {
	t.Parallel()

	rates := DefaultRates()
	rates.StarSystem = 0.9
	g := New(12345, nil, WithRates(rates))
	c, star := findSystem(t, g, 4)
	objects := c.Objects

	assert.Equal(t, celestial.OriginOf(star.X, star.Y), star.Origin)
	assert.NotEmpty(t, star.Name)

	last := 0.0
	for i, idx := range star.Planets {
		p, ok := objects[idx].(*celestial.Planet)
		require.True(t, ok)
		assert.Equal(t, i, p.Index)
		assert.Equal(t, star.Origin, p.ParentOrigin)
		assert.Equal(t, star, objects[p.Parent])
		assert.Greater(t, p.Distance, last, "orbits grow outwards")
		assert.LessOrEqual(t, p.Distance, maxOrbit)
		assert.Greater(t, p.AngularSpeed, 0.0)
		assert.InDelta(t, p.Distance, math.Hypot(p.X-star.X, p.Y-star.Y), 1e-6)
		assert.True(t, strings.HasPrefix(p.Name, star.Name+" "))
		last = p.Distance

		for _, midx := range p.Moons {
			m, ok := objects[midx].(*celestial.Moon)
			require.True(t, ok)
			assert.Equal(t, idx, m.Parent)
			assert.Equal(t, star.Origin, m.StarOrigin)
			assert.Equal(t, p.Distance, m.PlanetDistance)
			assert.InDelta(t, m.Distance, math.Hypot(m.X-p.X, m.Y-p.Y), 1e-6)
			assert.True(t, strings.HasPrefix(m.Name, p.Name))
		}
	}

	inner := objects[star.Planets[0]].(*celestial.Planet)
	outer := objects[star.Planets[len(star.Planets)-1]].(*celestial.Planet)
	assert.GreaterOrEqual(t, inner.Distance, 80.0)
	assert.Less(t, inner.Distance, 120.0)
	assert.Greater(t, inner.AngularSpeed/0.8, outer.AngularSpeed/1.2, "inner planets turn faster")
}

func TestPlanetSpeedIndependentOfSiblings(t *testing.T) {
	t.Parallel()

	rates := DefaultRates()
	rates.StarSystem = 0.9
	g := New(555, nil, WithRates(rates))
	c, star := findSystem(t, g, 2)
	systemSeed := randutil.Derive(int64(c.Seed), randutil.PhaseSystem)

	for i, idx := range star.Planets {
		p := c.Objects[idx].(*celestial.Planet)
		factor := speedFactor(systemSeed+int64(i), randutil.PhasePlanetSpeed)
		assert.Equal(t, orbit.AngularSpeed(orbit.PlanetConstant, p.Distance, factor), p.AngularSpeed)

		for j, midx := range p.Moons {
			m := c.Objects[midx].(*celestial.Moon)
			mf := speedFactor(systemSeed+moonSpeedOffset+moonSpeedStride*int64(i)+int64(j), randutil.PhaseMoonSpeed)
			assert.Equal(t, orbit.AngularSpeed(orbit.MoonConstant, m.Distance, mf), m.AngularSpeed)
		}
	}
}

func TestSpeedFactorsSpreadAcrossRange(t *testing.T) {
	t.Parallel()

	rates := DefaultRates()
	rates.StarSystem = 0.9
	g := New(1014138929, nil, WithRates(rates))

	var planets, moons []float64
	siblings, near := 0, 0
	for i := int64(0); i < 200; i++ {
		c := g.Generate(spatial.ChunkCoord{X: i % 20, Y: i / 20})
		for _, obj := range c.Objects {
			star, ok := obj.(*celestial.Star)
			if !ok {
				continue
			}
			prev := -1.0
			for _, idx := range star.Planets {
				p := c.Objects[idx].(*celestial.Planet)
				f := p.AngularSpeed / orbit.AngularSpeed(orbit.PlanetConstant, p.Distance, 1)
				planets = append(planets, f)
				if prev >= 0 {
					siblings++
					if math.Abs(f-prev) < 0.01 {
						near++
					}
				}
				prev = f
				for _, midx := range p.Moons {
					m := c.Objects[midx].(*celestial.Moon)
					moons = append(moons, m.AngularSpeed/orbit.AngularSpeed(orbit.MoonConstant, m.Distance, 1))
				}
			}
		}
	}

	for name, factors := range map[string][]float64{"planet": planets, "moon": moons} {
		require.Greater(t, len(factors), 50, name)
		lo, hi := factors[0], factors[0]
		for _, f := range factors {
			assert.GreaterOrEqual(t, f, 0.8-1e-9, name)
			assert.Less(t, f, 1.2+1e-9, name)
			lo, hi = math.Min(lo, f), math.Max(hi, f)
		}
		assert.Less(t, lo, 0.85, "%s factors reach the bottom of the range", name)
		assert.Greater(t, hi, 1.15, "%s factors reach the top of the range", name)
	}
	require.Positive(t, siblings)
	assert.Less(t, float64(near)/float64(siblings), 0.2, "adjacent planets draw unrelated factors")
}

func TestMoonNamesFollowDistanceRank(t *testing.T) {
	t.Parallel()

	rates := DefaultRates()
	rates.StarSystem = 0.9
	g := New(31337, nil, WithRates(rates))
	checked := 0
	for i := int64(0); i < 400 && checked < 5; i++ {
		c := g.Generate(spatial.ChunkCoord{X: i, Y: 0})
		for _, obj := range c.Objects {
			p, ok := obj.(*celestial.Planet)
			if !ok || len(p.Moons) < 2 {
				continue
			}
			checked++
			for _, a := range p.Moons {
				for _, b := range p.Moons {
					ma, mb := c.Objects[a].(*celestial.Moon), c.Objects[b].(*celestial.Moon)
					if ma.Distance < mb.Distance {
						assert.Less(t, ma.Name, mb.Name)
					}
				}
			}
		}
	}
	assert.Positive(t, checked)
}

func TestWormholePair(t *testing.T) {
	t.Parallel()

	rates := DefaultRates()
	rates.Wormhole = 0.9
	g := New(2024, nil, WithRates(rates))

	found := 0
	for x := int64(0); x < 30; x++ {
		c := g.Generate(spatial.ChunkCoord{X: x, Y: x})
		if c.Count(celestial.KindWormhole) == 0 {
			continue
		}
		found++
		require.Len(t, c.Exports, 1)

		var alpha *celestial.Wormhole
		for _, obj := range c.Objects {
			if w, ok := obj.(*celestial.Wormhole); ok {
				alpha = w
			}
		}
		beta, ok := c.Exports[0].Object.(*celestial.Wormhole)
		require.True(t, ok)

		assert.Equal(t, celestial.Alpha, alpha.Role)
		assert.Equal(t, celestial.Beta, beta.Role)
		assert.Equal(t, alpha.PairOrigin, beta.PairOrigin)
		assert.Equal(t, discovery.IdentityOf(beta), alpha.PartnerID)
		assert.Equal(t, discovery.IdentityOf(alpha), beta.PartnerID)
		assert.Equal(t, discovery.IdentityOf(beta), c.Exports[0].Key)
		assert.NotEqual(t, discovery.IdentityOf(alpha), discovery.IdentityOf(beta))

		span := math.Hypot(alpha.X-beta.X, alpha.Y-beta.Y)
		assert.GreaterOrEqual(t, span, minWormholeSpan)
		assert.Less(t, span, maxWormholeSpan)
		assert.Equal(t, spatial.ChunkOf(beta.X, beta.Y, g.ChunkSize()), c.Exports[0].Host)
		assert.NotEqual(t, c.Coord, c.Exports[0].Host)

		// The host lays out the same whether or not the exporter ran first.
		host := New(2024, nil, WithRates(rates)).Generate(c.Exports[0].Host)
		assert.Equal(t, host.Digest(), g.Generate(c.Exports[0].Host).Digest())
	}
	assert.Positive(t, found)
}

func TestPlacementSeparationAndSkips(t *testing.T) {
	t.Parallel()

	g := New(77, nil, WithChunkSize(1000), WithRates(Rates{
		StarSystem: 0.9, Nebula: 0.9, AsteroidField: 0.9, Wormhole: 0.9, BlackHole: 0.9, Exclusive: 0.9,
	}))
	skipped := 0
	for x := int64(0); x < 40; x++ {
		c := g.Generate(spatial.ChunkCoord{X: x, Y: 1})
		skipped += c.Skipped

		var majors []celestial.Object
		for _, obj := range c.Objects {
			if !obj.Kind().Orbiting() {
				majors = append(majors, obj)
			}
		}
		for i := range majors {
			for j := i + 1; j < len(majors); j++ {
				a, b := majors[i].Base(), majors[j].Base()
				assert.GreaterOrEqual(t, math.Hypot(a.X-b.X, a.Y-b.Y), minSeparation)
			}
		}
	}
	assert.Positive(t, skipped, "crowded chunks abandon some placements")
}

func TestExclusiveKind(t *testing.T) {
	t.Parallel()

	tests := []struct {
		region region.Type
		kind   celestial.Kind
		ok     bool
	}{
		{region.GalacticCore, celestial.KindPulsar, true},
		{region.StarCluster, celestial.KindProtostar, true},
		{region.Void, celestial.KindRoguePlanet, true},
		{region.NebulaExpanse, celestial.KindIonStorm, true},
		{region.Field, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.region.String(), func(t *testing.T) {
			t.Parallel()
			kind, ok := ExclusiveKind(tt.region)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.kind, kind)
		})
	}
}

func TestExclusiveObjectsMatchRegion(t *testing.T) {
	t.Parallel()

	rates := DefaultRates()
	rates.Exclusive = 0.9
	g := New(4242, nil, WithRates(rates))
	for y := int64(-15); y < 15; y++ {
		for x := int64(-15); x < 15; x++ {
			c := g.Generate(spatial.ChunkCoord{X: x * 40, Y: y * 40})
			want, hasExclusive := ExclusiveKind(c.Region.Type)
			for _, obj := range c.Objects {
				switch obj.Kind() {
				case celestial.KindPulsar, celestial.KindProtostar, celestial.KindRoguePlanet, celestial.KindIonStorm:
					require.True(t, hasExclusive)
					assert.Equal(t, want, obj.Kind())
					assert.GreaterOrEqual(t, c.Region.Influence, minExclusiveInfluence)
				}
			}
		}
	}
}

func TestOrbitalDistanceTiers(t *testing.T) {
	t.Parallel()

	for index, bounds := range [][2]float64{{80, 120}, {140, 190}, {210, 280}} {
		for seed := int64(1); seed < 50; seed++ {
			d := orbitalDistance(randutil.New(seed), index)
			assert.GreaterOrEqual(t, d, bounds[0])
			assert.Less(t, d, bounds[1])
		}
	}
	for seed := int64(1); seed < 50; seed++ {
		assert.LessOrEqual(t, orbitalDistance(randutil.New(seed), 12), maxOrbit)
	}
}
