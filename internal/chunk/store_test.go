package chunk

import (
	"fmt"
	"sync"
	"testing"

	"github.com/lox/deepfield/internal/celestial"
	"github.com/lox/deepfield/internal/spatial"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingGenerator builds one star per chunk and exports a marker to the
// chunk ten columns east.
type countingGenerator struct {
	mu    sync.Mutex
	calls map[spatial.ChunkCoord]int
}

func newCountingGenerator() *countingGenerator {
	return &countingGenerator{calls: make(map[spatial.ChunkCoord]int)}
}

func (g *countingGenerator) Generate(c spatial.ChunkCoord) *Chunk {
	g.mu.Lock()
	g.calls[c]++
	g.mu.Unlock()

	x, y := c.Center(DefaultSize)
	star := &celestial.Star{Body: celestial.Body{X: x, Y: y, Origin: celestial.OriginOf(x, y), Radius: 10}}
	host := c.Add(10, 0)
	hx, hy := host.Center(DefaultSize)
	return &Chunk{
		Coord:   c,
		Seed:    spatial.HashChunk(c, 1),
		Objects: []celestial.Object{star},
		Exports: []Export{{
			Host:   host,
			Key:    fmt.Sprintf("marker:%d:%d", c.X, c.Y),
			Object: &celestial.Nebula{Body: celestial.Body{X: hx, Y: hy}},
		}},
	}
}

func (g *countingGenerator) count(c spatial.ChunkCoord) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls[c]
}

func TestGenerateChunkIsIdempotent(t *testing.T) {
	t.Parallel()

	gen := newCountingGenerator()
	s := NewStore(gen)
	c := spatial.ChunkCoord{X: 3, Y: -2}

	first := s.GenerateChunk(c)
	second := s.GenerateChunk(c)
	assert.Same(t, first, second)
	assert.Equal(t, 1, gen.count(c))

	got, ok := s.Chunk(c)
	require.True(t, ok)
	assert.Same(t, first, got)

	_, ok = s.Chunk(spatial.ChunkCoord{X: 99})
	assert.False(t, ok)
}

func TestUpdateActiveChunksWindow(t *testing.T) {
	t.Parallel()

	s := NewStore(newCountingGenerator())
	u := s.UpdateActiveChunks(100, 100)

	assert.Equal(t, spatial.ChunkCoord{}, u.Center)
	require.Len(t, u.Generated, 9)
	assert.Empty(t, u.Evicted)
	assert.Equal(t, spatial.ChunkCoord{X: -1, Y: -1}, u.Generated[0], "row-major order")
	assert.Equal(t, spatial.ChunkCoord{X: 1, Y: 1}, u.Generated[8])
	assert.Equal(t, 9, s.Len())

	// Moving one chunk east generates one column and evicts one.
	u = s.UpdateActiveChunks(2100, 100)
	assert.Len(t, u.Generated, 3)
	assert.Equal(t, []spatial.ChunkCoord{{X: -1, Y: -1}, {X: -1, Y: 0}, {X: -1, Y: 1}}, u.Evicted)
	assert.Equal(t, 9, s.Len())

	u = s.UpdateActiveChunks(2100, 100)
	assert.Empty(t, u.Generated)
	assert.Empty(t, u.Evicted)

	generated, evicted := s.Stats()
	assert.Equal(t, 12, generated)
	assert.Equal(t, 3, evicted)
}

func TestResidentNeverExceedsWindow(t *testing.T) {
	t.Parallel()

	for _, radius := range []int{0, 1, 2} {
		t.Run(fmt.Sprintf("radius %d", radius), func(t *testing.T) {
			t.Parallel()

			s := NewStore(newCountingGenerator(), WithLoadRadius(radius), WithSize(1000))
			x, y := 0.0, 0.0
			steps := [][2]float64{{700, 0}, {0, -1300}, {-25000, 9000}, {1, 1}, {0, 4000}, {-999, -999}}
			for i := 0; i < 60; i++ {
				d := steps[i%len(steps)]
				x, y = x+d[0], y+d[1]
				s.UpdateActiveChunks(x, y)
				require.LessOrEqual(t, s.Len(), s.WindowSize())

				center := spatial.ChunkOf(x, y, s.Size())
				for _, c := range s.Resident() {
					assert.LessOrEqual(t, c.Chebyshev(center), int64(radius))
				}
			}
		})
	}
}

func TestEvictAndRegenerate(t *testing.T) {
	t.Parallel()

	gen := newCountingGenerator()
	s := NewStore(gen)
	c := spatial.ChunkCoord{X: 1, Y: 1}

	before := s.GenerateChunk(c).Digest()
	assert.True(t, s.Evict(c))
	assert.False(t, s.Evict(c))
	_, ok := s.Chunk(c)
	assert.False(t, ok)

	after := s.GenerateChunk(c).Digest()
	assert.Equal(t, before, after)
	assert.Equal(t, 2, gen.count(c))
}

func TestExportsOutliveExporter(t *testing.T) {
	t.Parallel()

	s := NewStore(newCountingGenerator())
	s.UpdateActiveChunks(0, 0)
	assert.Empty(t, s.ActiveExports(), "hosts are ten chunks away")

	e, ok := s.Export("marker:0:0")
	require.True(t, ok)
	assert.Equal(t, spatial.ChunkCoord{X: 10, Y: 0}, e.Host)

	// Fly to the host: the exporter is evicted but its export stays known.
	u := s.UpdateActiveChunks(10*DefaultSize+100, 100)
	_, exporterResident := s.Chunk(spatial.ChunkCoord{})
	assert.False(t, exporterResident)

	active := s.ActiveExports()
	keys := make([]string, 0, len(active))
	for _, e := range active {
		keys = append(keys, e.Key)
	}
	assert.Contains(t, keys, "marker:0:0")
	assert.Contains(t, keys, "marker:0:-1")

	updateKeys := make([]string, 0, len(u.Exports))
	for _, e := range u.Exports {
		updateKeys = append(updateKeys, e.Key)
	}
	assert.Contains(t, updateKeys, "marker:0:0", "newly active exports are reported")
}

func TestConcurrentGenerateIsSafe(t *testing.T) {
	t.Parallel()

	gen := newCountingGenerator()
	s := NewStore(gen)
	c := spatial.ChunkCoord{X: 5, Y: 5}

	var wg sync.WaitGroup
	chunks := make([]*Chunk, 16)
	for i := range chunks {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			chunks[i] = s.GenerateChunk(c)
		}(i)
	}
	wg.Wait()

	for _, ch := range chunks {
		assert.Same(t, chunks[0], ch)
	}
	assert.Equal(t, 1, gen.count(c))
}

func TestDigestIsSealedAtGeneration(t *testing.T) {
	t.Parallel()

	s := NewStore(newCountingGenerator())
	ch := s.GenerateChunk(spatial.ChunkCoord{})
	sealed := ch.Digest()

	ch.Objects[0].Base().X += 50
	assert.Equal(t, sealed, ch.Digest())

	unsealed := *ch
	unsealed.sealed = false
	assert.NotEqual(t, sealed, unsealed.Digest())
	assert.Len(t, sealed.String(), 64)
	assert.Equal(t, 1, ch.Count(celestial.KindStar))
	assert.Zero(t, ch.Count(celestial.KindMoon))
}
