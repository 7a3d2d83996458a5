// Package randutil provides the deterministic random source every generation
// phase draws from.
//
// The generator is a Lehmer (Park-Miller) multiplicative congruential
// generator. It is deliberately tiny and portable: the same seed produces the
// same sequence on every platform and every Go release, which math/rand does
// not promise across versions.
package randutil

import (
	"fmt"
	"math"
)

const (
	modulus    = 2147483647 // 2^31 - 1
	multiplier = 16807
	maxState   = modulus - 1

	goldenRatio64 = 0x9e3779b97f4a7c15
)

// Rand is a seedable Lehmer generator. It is not safe for concurrent use and
// must not be shared between unrelated generation phases.
type Rand struct {
	state int64
}

// New returns a generator whose state is seed normalised into 1..2147483646.
// Non-positive remainders are shifted up so every input yields a valid state.
func New(seed int64) *Rand {
	s := seed % modulus
	if s <= 0 {
		s += maxState
	}
	return &Rand{state: s}
}

// State returns the current internal state.
func (r *Rand) State() int64 {
	return r.state
}

// Next advances the generator and returns a float in [0, 1).
func (r *Rand) Next() float64 {
	r.state = r.state * multiplier % modulus
	return float64(r.state-1) / float64(maxState)
}

// NextInt returns an integer in [min, max] inclusive.
func (r *Rand) NextInt(min, max int) int {
	if min > max {
		panic(fmt.Sprintf("randutil: NextInt called with min %d > max %d", min, max))
	}
	return int(math.Floor(r.Next()*float64(max-min+1))) + min
}

// NextFloat returns a float in [min, max).
func (r *Rand) NextFloat(min, max float64) float64 {
	if min > max {
		panic(fmt.Sprintf("randutil: NextFloat called with min %g > max %g", min, max))
	}
	return r.Next()*(max-min) + min
}

// Chance consumes exactly one draw and reports whether it landed below p.
func (r *Rand) Chance(p float64) bool {
	return r.Next() < p
}

// Angle returns a float in [0, 2π).
func (r *Rand) Angle() float64 {
	return r.NextFloat(0, 2*math.Pi)
}

// Choice returns an element of items selected with NextInt.
func Choice[T any](r *Rand, items []T) T {
	if len(items) == 0 {
		panic("randutil: Choice called with empty sequence")
	}
	return items[r.NextInt(0, len(items)-1)]
}

// WeightedItem pairs a value with its relative weight.
type WeightedItem[T any] struct {
	Value  T
	Weight float64
}

// Weighted picks one item using a single draw against the cumulative weights.
// The last item absorbs any floating point remainder.
func Weighted[T any](r *Rand, items []WeightedItem[T]) T {
	if len(items) == 0 {
		panic("randutil: Weighted called with empty table")
	}
	total := 0.0
	for _, it := range items {
		total += it.Weight
	}
	roll := r.Next() * total
	acc := 0.0
	for _, it := range items {
		acc += it.Weight
		if roll < acc {
			return it.Value
		}
	}
	return items[len(items)-1].Value
}

// Phase names an independent generation stream within a chunk.
type Phase uint64

const (
	PhaseBackground Phase = iota + 1
	PhaseSystem
	PhaseNebula
	PhaseAsteroidField
	PhaseWormhole
	PhaseBlackHole
	PhaseExclusive
	PhasePlanetSpeed
	PhaseMoonSpeed
)

// Derive returns the seed for one phase of a chunk. Adding a phase never
// shifts the draws of the others because each stream starts from its own
// mixed seed rather than continuing a shared sequence.
func Derive(seed int64, phase Phase) int64 {
	u := uint64(seed) + uint64(phase)*goldenRatio64
	return int64(mix(u) % maxState)
}

func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
