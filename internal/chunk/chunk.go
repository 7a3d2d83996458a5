// Package chunk owns the lifecycle of fixed-size spatial cells: lazy
// generation, caching by coordinate, and eviction once the observer moves
// out of range.
package chunk

import (
	"encoding/binary"
	"encoding/hex"
	"math"

	"github.com/lox/deepfield/internal/celestial"
	"github.com/lox/deepfield/internal/region"
	"github.com/lox/deepfield/internal/spatial"
	"github.com/zeebo/blake3"
)

// Chunk is one generated cell of the lattice.
//
// Objects is a flat arena; planets and moons name their parent by index into
// it. After generation the only mutation a chunk sees is the orbital update
// and the Discovered flags restored from the ledger.
type Chunk struct {
	Coord      spatial.ChunkCoord
	Seed       uint32
	Region     region.Info
	Background []celestial.BackgroundStar
	Objects    []celestial.Object
	Exports    []Export

	// Skipped counts placements abandoned after exhausting their attempts.
	Skipped int

	sealed bool
	digest Digest
}

// Export is an object generated by one chunk that lives inside another, such
// as the far endpoint of a wormhole pair.
type Export struct {
	Host   spatial.ChunkCoord
	Key    string
	Object celestial.Object
}

// Generator builds the content of a chunk. Implementations must be pure
// functions of the coordinate and their own seed.
type Generator interface {
	Generate(c spatial.ChunkCoord) *Chunk
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(c spatial.ChunkCoord) *Chunk

// Generate calls f(c).
func (f GeneratorFunc) Generate(c spatial.ChunkCoord) *Chunk { return f(c) }

// Digest is a BLAKE3 sum of a chunk's generated content.
type Digest [32]byte

func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// Seal records the digest of the chunk's current content. The store seals
// every chunk as soon as it is generated, so Digest keeps reporting the
// generation-time state after bodies start to move.
func (c *Chunk) Seal() {
	c.digest = c.computeDigest()
	c.sealed = true
}

// Digest returns the sealed digest, or the digest of the current content for
// a chunk that was never sealed.
func (c *Chunk) Digest() Digest {
	if c.sealed {
		return c.digest
	}
	return c.computeDigest()
}

// Count returns how many objects of kind the chunk holds.
func (c *Chunk) Count(kind celestial.Kind) int {
	n := 0
	for _, obj := range c.Objects {
		if obj.Kind() == kind {
			n++
		}
	}
	return n
}

func (c *Chunk) computeDigest() Digest {
	h := blake3.New()
	w := digestWriter{h: h}

	w.int(c.Coord.X)
	w.int(c.Coord.Y)
	w.int(int64(c.Seed))

	w.int(int64(len(c.Background)))
	for _, s := range c.Background {
		w.float(s.X)
		w.float(s.Y)
		w.float(s.Brightness)
		w.int(int64(s.Tier))
		w.str(s.Color)
	}

	w.int(int64(len(c.Objects)))
	for _, obj := range c.Objects {
		w.object(obj)
	}

	w.int(int64(len(c.Exports)))
	for _, e := range c.Exports {
		w.int(e.Host.X)
		w.int(e.Host.Y)
		w.str(e.Key)
		w.object(e.Object)
	}

	var d Digest
	copy(d[:], h.Sum(nil))
	return d
}

type digestWriter struct {
	h   *blake3.Hasher
	buf [8]byte
}

func (w *digestWriter) int(v int64) {
	binary.LittleEndian.PutUint64(w.buf[:], uint64(v))
	_, _ = w.h.Write(w.buf[:])
}

func (w *digestWriter) float(v float64) {
	binary.LittleEndian.PutUint64(w.buf[:], math.Float64bits(v))
	_, _ = w.h.Write(w.buf[:])
}

func (w *digestWriter) str(s string) {
	w.int(int64(len(s)))
	_, _ = w.h.Write([]byte(s))
}

func (w *digestWriter) object(obj celestial.Object) {
	b := obj.Base()
	w.int(int64(obj.Kind()))
	w.int(b.Origin.X)
	w.int(b.Origin.Y)
	w.float(b.X)
	w.float(b.Y)
	w.float(b.Radius)
	w.float(b.DiscoveryRadius)
	w.str(b.Name)

	switch o := obj.(type) {
	case *celestial.Planet:
		w.orbit(o.Orbit)
		w.int(int64(o.Type))
	case *celestial.Moon:
		w.orbit(o.Orbit)
		w.float(o.PlanetDistance)
	case *celestial.Wormhole:
		w.str(o.PartnerID)
		w.float(o.PartnerX)
		w.float(o.PartnerY)
	case *celestial.Star:
		w.int(int64(o.Type))
	}
}

func (w *digestWriter) orbit(o celestial.Orbit) {
	w.int(int64(o.Parent))
	w.float(o.Distance)
	w.float(o.Angle)
	w.float(o.AngularSpeed)
}
