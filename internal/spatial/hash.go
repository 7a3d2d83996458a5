// Package spatial maps world positions onto the chunk lattice and folds chunk
// coordinates together with the universe seed into per-chunk seeds.
//
// Everything here is a pure function of its arguments. Hashing works on the
// integer chunk coordinates only, so floating point rounding in the caller can
// never change which seed a chunk receives.
package spatial

import (
	"fmt"
	"math"
	"strconv"
)

// ChunkCoord identifies one cell of the chunk lattice.
type ChunkCoord struct {
	X, Y int64
}

func (c ChunkCoord) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Add returns c offset by (dx, dy).
func (c ChunkCoord) Add(dx, dy int64) ChunkCoord {
	return ChunkCoord{X: c.X + dx, Y: c.Y + dy}
}

// Less orders coordinates row-major (Y, then X).
func (c ChunkCoord) Less(o ChunkCoord) bool {
	if c.Y != o.Y {
		return c.Y < o.Y
	}
	return c.X < o.X
}

// Chebyshev returns the king-move distance between two coordinates.
func (c ChunkCoord) Chebyshev(o ChunkCoord) int64 {
	return max(abs64(c.X-o.X), abs64(c.Y-o.Y))
}

// Origin returns the world position of the chunk's minimum corner.
func (c ChunkCoord) Origin(size float64) (float64, float64) {
	return float64(c.X) * size, float64(c.Y) * size
}

// Center returns the world position of the chunk's centre.
func (c ChunkCoord) Center(size float64) (float64, float64) {
	x, y := c.Origin(size)
	return x + size/2, y + size/2
}

// ChunkOf returns the coordinate of the chunk containing (x, y).
func ChunkOf(x, y, size float64) ChunkCoord {
	return ChunkCoord{
		X: int64(math.Floor(x / size)),
		Y: int64(math.Floor(y / size)),
	}
}

// HashPosition returns the seed of the chunk containing (x, y).
func HashPosition(x, y, size float64, universeSeed int64) uint32 {
	return HashChunk(ChunkOf(x, y, size), universeSeed)
}

// HashChunk folds the universe seed and the decimal encoding "cx,cy" through
// a multiply-by-31 rolling hash with 32-bit wrap-around, then avalanches the
// result so neighbouring chunks do not receive neighbouring seeds. The result
// is always non-negative as a signed 32-bit value.
func HashChunk(c ChunkCoord, universeSeed int64) uint32 {
	h := int32(foldSeed(universeSeed))
	h = rolling(h, strconv.AppendInt(nil, c.X, 10))
	h = h*31 + ','
	h = rolling(h, strconv.AppendInt(nil, c.Y, 10))
	return Hash32(uint32(h)) & 0x7fffffff
}

// HashCell hashes an arbitrary lattice cell under a salt. Salting keeps the
// region lattice from sharing seeds with the chunk lattice at equal indices.
func HashCell(salt uint32, x, y int64, universeSeed int64) uint32 {
	h := foldSeed(universeSeed)
	h ^= salt * 0xc2b2ae35
	h ^= uint32(x) * 0x9e3779b1
	h ^= uint32(x>>32) * 0x27d4eb2f
	h ^= uint32(y) * 0x85ebca6b
	h ^= uint32(y>>32) * 0x165667b1
	return Hash32(h) & 0x7fffffff
}

// HashString is the plain rolling hash of s, reduced to a non-negative value.
func HashString(s string) uint32 {
	return uint32(rolling(0, []byte(s))) & 0x7fffffff
}

// Hash32 mixes a 32-bit input into a well-distributed 32-bit output.
func Hash32(x uint32) uint32 {
	x ^= x >> 16
	x *= 0x7feb352d
	x ^= x >> 15
	x *= 0x846ca68b
	x ^= x >> 16
	return x
}

// foldSeed reduces a 64-bit seed to 32 bits. Seeds below 2^32 pass through
// unchanged; the mixed high word keeps seeds that differ only above bit 31
// apart.
func foldSeed(seed int64) uint32 {
	hi := uint32(uint64(seed) >> 32)
	if hi == 0 {
		return uint32(seed)
	}
	return uint32(seed) ^ Hash32(hi)
}

func rolling(h int32, b []byte) int32 {
	for _, c := range b {
		h = h*31 + int32(c)
	}
	return h
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
