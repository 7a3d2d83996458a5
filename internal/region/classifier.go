// Package region classifies world coordinates into macro regions that bias
// chunk generation over distances far larger than a single chunk.
package region

import (
	"io"
	"math"
	"sort"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/lox/deepfield/internal/randutil"
	"github.com/lox/deepfield/internal/spatial"
	"github.com/ojrac/opensimplex-go"
)

const (
	// DefaultCellSize is the side of one region lattice cell in world units.
	DefaultCellSize = 250000.0

	minRadius = 60000.0
	maxRadius = 140000.0

	defaultWarpAmplitude  = 12000.0
	defaultWarpWavelength = 90000.0

	cellSalt = 0x52454749 // "REGI"
)

var typeWeights = []randutil.WeightedItem[Type]{
	{Value: Field, Weight: 35},
	{Value: StarCluster, Weight: 20},
	{Value: Void, Weight: 20},
	{Value: NebulaExpanse, Weight: 15},
	{Value: GalacticCore, Weight: 10},
}

// Classifier maps coordinates to regions. Results are a pure function of the
// coordinate and the universe seed; the centre cache only saves recomputation.
type Classifier struct {
	mu       sync.Mutex
	seed     int64
	cellSize float64
	warp     opensimplex.Noise
	warpAmp  float64
	warpFreq float64
	cache    map[Cell]Center
	logger   *log.Logger
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithCellSize overrides the lattice cell size.
func WithCellSize(size float64) Option {
	return func(c *Classifier) {
		if size > 0 {
			c.cellSize = size
		}
	}
}

// WithWarp sets the border warp amplitude and wavelength. An amplitude of zero
// disables warping.
func WithWarp(amplitude, wavelength float64) Option {
	return func(c *Classifier) {
		c.warpAmp = amplitude
		if wavelength > 0 {
			c.warpFreq = 1 / wavelength
		}
	}
}

// WithLogger sets the logger used for cache diagnostics.
func WithLogger(logger *log.Logger) Option {
	return func(c *Classifier) {
		if logger != nil {
			c.logger = logger.WithPrefix("region")
		}
	}
}

// NewClassifier creates a classifier for the given universe seed.
func NewClassifier(seed int64, opts ...Option) *Classifier {
	c := &Classifier{
		seed:     seed,
		cellSize: DefaultCellSize,
		warp:     opensimplex.New(seed),
		warpAmp:  defaultWarpAmplitude,
		warpFreq: 1 / defaultWarpWavelength,
		cache:    make(map[Cell]Center),
		logger:   log.NewWithOptions(io.Discard, log.Options{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CellSize returns the lattice cell size.
func (c *Classifier) CellSize() float64 {
	return c.cellSize
}

// CellOf returns the lattice cell containing (x, y).
func (c *Classifier) CellOf(x, y float64) Cell {
	return Cell{
		X: int64(math.Floor(x / c.cellSize)),
		Y: int64(math.Floor(y / c.cellSize)),
	}
}

// Classify returns the region at (x, y). When no centre reaches the point the
// result is Field with zero influence and the nearest centre attached.
func (c *Classifier) Classify(x, y float64) Info {
	wx, wy := c.warped(x, y)
	home := c.CellOf(wx, wy)

	c.mu.Lock()
	defer c.mu.Unlock()

	var best, nearest Info
	nearest.Distance = math.Inf(1)
	for dy := int64(-1); dy <= 1; dy++ {
		for dx := int64(-1); dx <= 1; dx++ {
			center := c.centerLocked(Cell{X: home.X + dx, Y: home.Y + dy})
			d := math.Hypot(wx-center.X, wy-center.Y)
			infl := falloff(d, center.Radius)

			if d < nearest.Distance {
				nearest = Info{Type: Field, Center: center, Distance: d}
			}
			if infl > best.Influence {
				best = Info{Type: center.Type, Center: center, Distance: d, Influence: infl}
			}
		}
	}

	if best.Influence == 0 {
		nearest.Modifiers = Neutral()
		return nearest
	}
	best.Modifiers = best.Type.Modifiers().Blend(best.Influence)
	return best
}

// CentersWithin returns every region centre within r of (x, y), nearest
// first. Positions are compared unwarped.
func (c *Classifier) CentersWithin(x, y, r float64) []Center {
	if r < 0 {
		return nil
	}
	lo := c.CellOf(x-r-c.cellSize, y-r-c.cellSize)
	hi := c.CellOf(x+r+c.cellSize, y+r+c.cellSize)

	c.mu.Lock()
	var out []Center
	for cy := lo.Y; cy <= hi.Y; cy++ {
		for cx := lo.X; cx <= hi.X; cx++ {
			center := c.centerLocked(Cell{X: cx, Y: cy})
			if math.Hypot(center.X-x, center.Y-y) <= r {
				out = append(out, center)
			}
		}
	}
	c.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		di := math.Hypot(out[i].X-x, out[i].Y-y)
		dj := math.Hypot(out[j].X-x, out[j].Y-y)
		if di != dj {
			return di < dj
		}
		if out[i].Cell.Y != out[j].Cell.Y {
			return out[i].Cell.Y < out[j].Cell.Y
		}
		return out[i].Cell.X < out[j].Cell.X
	})
	return out
}

// Cached returns the centre of cell if it has been computed and not evicted.
func (c *Classifier) Cached(cell Cell) (Center, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	center, ok := c.cache[cell]
	return center, ok
}

// CacheLen returns the number of cached centres.
func (c *Classifier) CacheLen() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.cache)
}

// Evict drops cached centres farther than keep from (x, y) and returns how
// many were removed. Evicted centres are recomputed identically on demand.
func (c *Classifier) Evict(x, y, keep float64) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for cell, center := range c.cache {
		if math.Hypot(center.X-x, center.Y-y) > keep {
			delete(c.cache, cell)
			removed++
		}
	}
	if removed > 0 {
		c.logger.Debug("Evicted region centres", "removed", removed, "cached", len(c.cache))
	}
	return removed
}

func (c *Classifier) centerLocked(cell Cell) Center {
	if center, ok := c.cache[cell]; ok {
		return center
	}

	rng := randutil.New(int64(spatial.HashCell(cellSalt, cell.X, cell.Y, c.seed)))
	ox, oy := float64(cell.X)*c.cellSize, float64(cell.Y)*c.cellSize
	center := Center{
		Cell: cell,
		X:    ox + rng.NextFloat(0.2, 0.8)*c.cellSize,
		Y:    oy + rng.NextFloat(0.2, 0.8)*c.cellSize,
	}
	center.Type = randutil.Weighted(rng, typeWeights)
	center.Radius = rng.NextFloat(minRadius, maxRadius) * c.cellSize / DefaultCellSize

	c.cache[cell] = center
	return center
}

func (c *Classifier) warped(x, y float64) (float64, float64) {
	if c.warpAmp == 0 {
		return x, y
	}
	fx, fy := x*c.warpFreq, y*c.warpFreq
	return x + c.warpAmp*c.warp.Eval2(fx, fy),
		y + c.warpAmp*c.warp.Eval2(fx+31.7, fy-47.3)
}

// falloff is a smoothstep of the normalised distance: 1 at the centre, 0 at
// and beyond the radius, with zero slope at both ends.
func falloff(d, radius float64) float64 {
	if radius <= 0 {
		return 0
	}
	t := clamp01(1 - d/radius)
	return t * t * (3 - 2*t)
}
