package chunk

import (
	"io"
	"sort"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/lox/deepfield/internal/spatial"
)

const (
	// DefaultSize is the side of a chunk in world units.
	DefaultSize = 2000.0
	// DefaultLoadRadius keeps a 3x3 window resident.
	DefaultLoadRadius = 1
)

// Update reports what one UpdateActiveChunks call changed.
type Update struct {
	Center    spatial.ChunkCoord
	Generated []spatial.ChunkCoord
	Evicted   []spatial.ChunkCoord
	// Exports lists exports that became active because their host chunk
	// entered the window.
	Exports []Export
}

// Store caches generated chunks around the observer. All methods are safe
// for concurrent use; generation for a coordinate happens at most once while
// it stays resident.
type Store struct {
	mu         sync.Mutex
	gen        Generator
	size       float64
	loadRadius int64
	chunks     map[spatial.ChunkCoord]*Chunk

	exports   map[string]Export
	byHost    map[spatial.ChunkCoord][]string
	generated int
	evicted   int

	logger *log.Logger
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithSize sets the chunk size in world units.
func WithSize(size float64) StoreOption {
	return func(s *Store) {
		if size > 0 {
			s.size = size
		}
	}
}

// WithLoadRadius sets the window radius in chunks.
func WithLoadRadius(r int) StoreOption {
	return func(s *Store) {
		if r >= 0 {
			s.loadRadius = int64(r)
		}
	}
}

// WithLogger sets the store logger.
func WithLogger(logger *log.Logger) StoreOption {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger.WithPrefix("chunk")
		}
	}
}

// NewStore creates an empty store backed by gen.
func NewStore(gen Generator, opts ...StoreOption) *Store {
	s := &Store{
		gen:        gen,
		size:       DefaultSize,
		loadRadius: DefaultLoadRadius,
		chunks:     make(map[spatial.ChunkCoord]*Chunk),
		exports:    make(map[string]Export),
		byHost:     make(map[spatial.ChunkCoord][]string),
		logger:     log.NewWithOptions(io.Discard, log.Options{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Size returns the chunk size.
func (s *Store) Size() float64 { return s.size }

// LoadRadius returns the window radius in chunks.
func (s *Store) LoadRadius() int { return int(s.loadRadius) }

// WindowSize returns the number of chunks the window holds.
func (s *Store) WindowSize() int {
	side := int(2*s.loadRadius + 1)
	return side * side
}

// Window returns the coordinates within the load radius of center in
// row-major order.
func (s *Store) Window(center spatial.ChunkCoord) []spatial.ChunkCoord {
	out := make([]spatial.ChunkCoord, 0, s.WindowSize())
	for dy := -s.loadRadius; dy <= s.loadRadius; dy++ {
		for dx := -s.loadRadius; dx <= s.loadRadius; dx++ {
			out = append(out, center.Add(dx, dy))
		}
	}
	return out
}

// UpdateActiveChunks makes the window around the chunk containing (x, y)
// resident. Missing chunks are generated in row-major order and residents
// outside the window are evicted.
func (s *Store) UpdateActiveChunks(x, y float64) Update {
	center := spatial.ChunkOf(x, y, s.size)

	s.mu.Lock()
	defer s.mu.Unlock()

	u := Update{Center: center}

	for coord := range s.chunks {
		if coord.Chebyshev(center) > s.loadRadius {
			s.evictLocked(coord)
			u.Evicted = append(u.Evicted, coord)
		}
	}
	sortCoords(u.Evicted)

	var fresh []string
	for _, coord := range s.Window(center) {
		if _, ok := s.chunks[coord]; ok {
			continue
		}
		fresh = append(fresh, s.generateLocked(coord)...)
		u.Generated = append(u.Generated, coord)
	}
	u.Exports = s.activatedLocked(u.Generated, fresh)

	if len(u.Generated) > 0 || len(u.Evicted) > 0 {
		s.logger.Debug("Updated active chunks",
			"cx", center.X, "cy", center.Y,
			"generated", len(u.Generated), "evicted", len(u.Evicted), "resident", len(s.chunks))
	}
	return u
}

// GenerateChunk returns the resident chunk at c, generating it first if
// needed. Calling it twice returns the same chunk.
func (s *Store) GenerateChunk(c spatial.ChunkCoord) *Chunk {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ch, ok := s.chunks[c]; ok {
		return ch
	}
	s.generateLocked(c)
	return s.chunks[c]
}

// Chunk returns the resident chunk at c.
func (s *Store) Chunk(c spatial.ChunkCoord) (*Chunk, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch, ok := s.chunks[c]
	return ch, ok
}

// Evict drops the chunk at c. It reports whether a chunk was resident.
func (s *Store) Evict(c spatial.ChunkCoord) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.chunks[c]; !ok {
		return false
	}
	s.evictLocked(c)
	return true
}

// Len returns the number of resident chunks.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.chunks)
}

// Resident returns the resident coordinates in row-major order.
func (s *Store) Resident() []spatial.ChunkCoord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.residentLocked()
}

// Each calls fn for every resident chunk in row-major order. fn must not call
// back into the store.
func (s *Store) Each(fn func(*Chunk)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, coord := range s.residentLocked() {
		fn(s.chunks[coord])
	}
}

// ActiveExports returns the registered exports whose host chunk is resident,
// ordered by key.
func (s *Store) ActiveExports() []Export {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Export
	for _, e := range s.exports {
		if _, ok := s.chunks[e.Host]; ok {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// Export looks up a registered export by key.
func (s *Store) Export(key string) (Export, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.exports[key]
	return e, ok
}

// Stats returns lifetime generation and eviction counts.
func (s *Store) Stats() (generated, evicted int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generated, s.evicted
}

// generateLocked builds and caches the chunk at coord and returns the keys of
// exports it registered for the first time.
func (s *Store) generateLocked(coord spatial.ChunkCoord) []string {
	c := s.gen.Generate(coord)
	c.Seal()
	s.chunks[coord] = c
	s.generated++

	var fresh []string
	for _, e := range c.Exports {
		if _, ok := s.exports[e.Key]; ok {
			continue
		}
		s.exports[e.Key] = e
		s.byHost[e.Host] = append(s.byHost[e.Host], e.Key)
		fresh = append(fresh, e.Key)
		s.logger.Debug("Registered export", "key", e.Key, "host", e.Host.String())
	}

	s.logger.Debug("Generated chunk",
		"cx", coord.X, "cy", coord.Y, "seed", c.Seed,
		"objects", len(c.Objects), "background", len(c.Background), "skipped", c.Skipped)
	return fresh
}

// activatedLocked returns the exports that became active in one update:
// those hosted by a newly generated chunk and those newly registered into an
// already resident host.
func (s *Store) activatedLocked(generated []spatial.ChunkCoord, fresh []string) []Export {
	seen := make(map[string]bool)
	var out []Export
	add := func(key string) {
		e := s.exports[key]
		if seen[key] {
			return
		}
		if _, ok := s.chunks[e.Host]; !ok {
			return
		}
		seen[key] = true
		out = append(out, e)
	}
	for _, coord := range generated {
		for _, key := range s.byHost[coord] {
			add(key)
		}
	}
	for _, key := range fresh {
		add(key)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

func (s *Store) evictLocked(coord spatial.ChunkCoord) {
	delete(s.chunks, coord)
	s.evicted++
	s.logger.Debug("Evicted chunk", "cx", coord.X, "cy", coord.Y)
}

func (s *Store) residentLocked() []spatial.ChunkCoord {
	out := make([]spatial.ChunkCoord, 0, len(s.chunks))
	for coord := range s.chunks {
		out = append(out, coord)
	}
	sortCoords(out)
	return out
}

func sortCoords(cs []spatial.ChunkCoord) {
	sort.Slice(cs, func(i, j int) bool { return cs[i].Less(cs[j]) })
}
