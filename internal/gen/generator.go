// Package gen populates chunks with background stars, star systems and rare
// special objects.
//
// Every chunk is generated from its own seed through independent phase
// streams. Each phase reseeds from randutil.Derive, so the draws of one phase
// never depend on how many draws another consumed. The phases run in a fixed
// order:
//
//  1. background stars
//  2. star system (star, planets, moons)
//  3. nebula
//  4. asteroid field
//  5. wormhole pair
//  6. black hole
//  7. region exclusive object
//
// Rolls for phases 3 to 7 are always consumed, whether or not a placement
// follows.
package gen

import (
	"io"
	"math"

	"github.com/charmbracelet/log"
	"github.com/lox/deepfield/internal/celestial"
	"github.com/lox/deepfield/internal/chunk"
	"github.com/lox/deepfield/internal/randutil"
	"github.com/lox/deepfield/internal/region"
	"github.com/lox/deepfield/internal/spatial"
)

const (
	systemMargin  = 400.0
	specialMargin = 150.0
	minSeparation = 500.0
	maxAttempts   = 8
	maxChance     = 0.9
	maxOrbit      = 1400.0

	minWormholeSpan = 50000.0
	maxWormholeSpan = 150000.0

	minExclusiveInfluence = 0.25

	// Per-body speed streams are keyed by their offset from the system seed.
	moonSpeedOffset = 1000
	moonSpeedStride = 16
	minSpeedFactor  = 0.8
	maxSpeedFactor  = 1.2
)

// Rates are the base spawn probabilities before region modifiers.
type Rates struct {
	StarSystem    float64
	Nebula        float64
	AsteroidField float64
	Wormhole      float64
	BlackHole     float64
	Exclusive     float64
}

// DefaultRates returns the standard spawn probabilities.
func DefaultRates() Rates {
	return Rates{
		StarSystem:    0.08,
		Nebula:        0.05,
		AsteroidField: 0.06,
		Wormhole:      0.004,
		BlackHole:     0.0015,
		Exclusive:     0.12,
	}
}

// Generator builds chunks for one universe seed. It holds no per-chunk state
// and is safe to share; the classifier it wraps does its own locking.
type Generator struct {
	seed       int64
	size       float64
	rates      Rates
	classifier *region.Classifier
	logger     *log.Logger
}

var _ chunk.Generator = (*Generator)(nil)

// Option configures a Generator.
type Option func(*Generator)

// WithChunkSize sets the chunk size in world units.
func WithChunkSize(size float64) Option {
	return func(g *Generator) {
		if size > 0 {
			g.size = size
		}
	}
}

// WithRates overrides the base spawn probabilities.
func WithRates(r Rates) Option {
	return func(g *Generator) {
		g.rates = r
	}
}

// WithLogger sets the generator logger.
func WithLogger(logger *log.Logger) Option {
	return func(g *Generator) {
		if logger != nil {
			g.logger = logger.WithPrefix("gen")
		}
	}
}

// New creates a generator. A nil classifier gets a default one for seed.
func New(seed int64, classifier *region.Classifier, opts ...Option) *Generator {
	if classifier == nil {
		classifier = region.NewClassifier(seed)
	}
	g := &Generator{
		seed:       seed,
		size:       chunk.DefaultSize,
		rates:      DefaultRates(),
		classifier: classifier,
		logger:     log.NewWithOptions(io.Discard, log.Options{}),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Seed returns the universe seed.
func (g *Generator) Seed() int64 { return g.seed }

// ChunkSize returns the chunk size.
func (g *Generator) ChunkSize() float64 { return g.size }

// Generate builds the chunk at c.
func (g *Generator) Generate(c spatial.ChunkCoord) *chunk.Chunk {
	seed := spatial.HashChunk(c, g.seed)
	cx, cy := c.Center(g.size)
	info := g.classifier.Classify(cx, cy)

	b := &builder{
		g:     g,
		coord: c,
		mods:  info.Modifiers,
		chunk: &chunk.Chunk{Coord: c, Seed: seed, Region: info},
	}
	b.ox, b.oy = c.Origin(g.size)

	b.background(phaseRand(seed, randutil.PhaseBackground))
	b.system(randutil.Derive(int64(seed), randutil.PhaseSystem))
	b.nebula(phaseRand(seed, randutil.PhaseNebula))
	b.asteroidField(phaseRand(seed, randutil.PhaseAsteroidField))
	b.wormhole(phaseRand(seed, randutil.PhaseWormhole))
	b.blackHole(phaseRand(seed, randutil.PhaseBlackHole))
	b.exclusive(phaseRand(seed, randutil.PhaseExclusive), info)

	return b.chunk
}

// ExclusiveKind returns the object kind that only forms inside regions of
// type t.
func ExclusiveKind(t region.Type) (celestial.Kind, bool) {
	switch t {
	case region.GalacticCore:
		return celestial.KindPulsar, true
	case region.StarCluster:
		return celestial.KindProtostar, true
	case region.Void:
		return celestial.KindRoguePlanet, true
	case region.NebulaExpanse:
		return celestial.KindIonStorm, true
	default:
		return 0, false
	}
}

func phaseRand(seed uint32, phase randutil.Phase) *randutil.Rand {
	return randutil.New(randutil.Derive(int64(seed), phase))
}

// chance scales base by a region modifier and caps the result.
func chance(base, modifier float64) float64 {
	return math.Min(base*modifier, maxChance)
}
