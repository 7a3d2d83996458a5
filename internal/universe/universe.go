// Package universe wires the generation core together and runs the per-tick
// pass: stream chunks around the observer, restore discovery state, advance
// orbits, then check discoveries.
package universe

import (
	"io"
	"math"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/deepfield/internal/celestial"
	"github.com/lox/deepfield/internal/chunk"
	"github.com/lox/deepfield/internal/discovery"
	"github.com/lox/deepfield/internal/gen"
	"github.com/lox/deepfield/internal/orbit"
	"github.com/lox/deepfield/internal/region"
	"github.com/lox/deepfield/internal/spatial"
)

// MaxTickDelta caps the seconds one tick may advance. A host that stalls or
// pauses resumes from where it was instead of jumping.
const MaxTickDelta = 0.25

// Config holds the fixed parameters of a universe.
type Config struct {
	Seed       int64
	ChunkSize  float64
	LoadRadius int
	Clock      quartz.Clock
	Logger     *log.Logger
}

// Option configures a Universe beyond its Config.
type Option func(*options)

type options struct {
	ledger *discovery.Ledger
	bus    EventBus
	rates  *gen.Rates
}

// WithLedger uses an existing ledger, typically one loaded from disk.
func WithLedger(l *discovery.Ledger) Option {
	return func(o *options) { o.ledger = l }
}

// WithEventBus publishes events on bus instead of a private one.
func WithEventBus(bus EventBus) Option {
	return func(o *options) { o.bus = bus }
}

// WithRates overrides the generator's base spawn probabilities.
func WithRates(r gen.Rates) Option {
	return func(o *options) { o.rates = &r }
}

// TickResult describes one tick.
type TickResult struct {
	Center      spatial.ChunkCoord
	Generated   []spatial.ChunkCoord
	Evicted     []spatial.ChunkCoord
	Resident    int
	Restored    int
	Moved       int
	Discoveries []DiscoveryEvent
	// StreamTime is how long generating and evicting chunks took.
	StreamTime time.Duration
	Delta      float64
}

// Universe is the procedural universe seen by one observer.
type Universe struct {
	seed       int64
	classifier *region.Classifier
	generator  *gen.Generator
	store      *chunk.Store
	ledger     *discovery.Ledger
	integrator *orbit.Integrator
	bus        EventBus
	clock      quartz.Clock
	logger     *log.Logger

	x, y  float64
	ticks int
}

// New wires a classifier, generator, chunk store and ledger for cfg.
func New(cfg Config, opts ...Option) *Universe {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	clock := cfg.Clock
	if clock == nil {
		clock = quartz.NewReal()
	}
	size := cfg.ChunkSize
	if size <= 0 {
		size = chunk.DefaultSize
	}
	radius := cfg.LoadRadius
	if radius <= 0 {
		radius = chunk.DefaultLoadRadius
	}

	classifier := region.NewClassifier(cfg.Seed, region.WithLogger(logger))
	genOpts := []gen.Option{gen.WithChunkSize(size), gen.WithLogger(logger)}
	if o.rates != nil {
		genOpts = append(genOpts, gen.WithRates(*o.rates))
	}
	generator := gen.New(cfg.Seed, classifier, genOpts...)
	store := chunk.NewStore(generator,
		chunk.WithSize(size), chunk.WithLoadRadius(radius), chunk.WithLogger(logger))

	ledger := o.ledger
	if ledger == nil {
		ledger = discovery.NewLedger(discovery.WithClock(clock), discovery.WithLogger(logger))
	}
	bus := o.bus
	if bus == nil {
		bus = NewEventBus()
	}

	return &Universe{
		seed:       cfg.Seed,
		classifier: classifier,
		generator:  generator,
		store:      store,
		ledger:     ledger,
		integrator: orbit.NewIntegrator(store),
		bus:        bus,
		clock:      clock,
		logger:     logger.WithPrefix("universe"),
	}
}

// Tick runs one ordered pass for an observer at (x, y) after dt seconds.
// Negative dt counts as zero and dt above MaxTickDelta is clamped.
func (u *Universe) Tick(x, y, dt float64) TickResult {
	dt = clampDelta(dt)
	u.x, u.y = x, y
	u.ticks++

	start := u.clock.Now()
	upd := u.store.UpdateActiveChunks(x, y)
	res := TickResult{
		Center:     upd.Center,
		Generated:  upd.Generated,
		Evicted:    upd.Evicted,
		StreamTime: u.clock.Since(start),
		Delta:      dt,
	}

	now := u.clock.Now()
	for _, coord := range upd.Evicted {
		u.bus.Publish(ChunkEvent{Type: EventTypeChunkEvicted, Coord: coord, timestamp: now})
	}
	for _, coord := range upd.Generated {
		c, ok := u.store.Chunk(coord)
		if !ok {
			continue
		}
		res.Restored += u.ledger.RestoreDiscoveryState(c.Objects)
		u.bus.Publish(ChunkEvent{Type: EventTypeChunkGenerated, Coord: coord, Objects: len(c.Objects), timestamp: now})
	}
	if len(upd.Exports) > 0 {
		exported := make([]celestial.Object, 0, len(upd.Exports))
		for _, e := range upd.Exports {
			exported = append(exported, e.Object)
		}
		res.Restored += u.ledger.RestoreDiscoveryState(exported)
	}
	if len(upd.Generated) > 0 {
		u.classifier.Evict(x, y, 3*u.classifier.CellSize())
		u.logger.Debug("Streamed chunks",
			"cx", upd.Center.X, "cy", upd.Center.Y,
			"generated", len(upd.Generated), "evicted", len(upd.Evicted),
			"restored", res.Restored, "took", res.StreamTime)
	}

	res.Moved = u.integrator.Advance(dt)
	res.Discoveries = u.checkDiscoveries(x, y)
	res.Resident = u.store.Len()

	for _, ev := range res.Discoveries {
		u.bus.Publish(ev)
	}
	return res
}

func (u *Universe) checkDiscoveries(x, y float64) []DiscoveryEvent {
	var found []DiscoveryEvent
	check := func(coord spatial.ChunkCoord, obj celestial.Object) {
		if !u.ledger.CheckDiscovery(obj, x, y) {
			return
		}
		rec := u.ledger.MarkDiscovered(obj)
		found = append(found, DiscoveryEvent{Object: obj, Record: rec, Chunk: coord, timestamp: rec.DiscoveredAt})
	}

	u.store.Each(func(c *chunk.Chunk) {
		for _, obj := range c.Objects {
			check(c.Coord, obj)
		}
	})
	for _, e := range u.store.ActiveExports() {
		check(e.Host, e.Object)
	}
	return found
}

// ActiveObjects returns every resident object partitioned by kind, including
// exported objects hosted by resident chunks.
func (u *Universe) ActiveObjects() ActiveSet {
	var set ActiveSet
	u.store.Each(func(c *chunk.Chunk) {
		set.Background = append(set.Background, c.Background...)
		for _, obj := range c.Objects {
			set.Add(obj)
		}
	})
	for _, e := range u.store.ActiveExports() {
		set.Add(e.Object)
	}
	return set
}

// Subscribe registers s for universe events.
func (u *Universe) Subscribe(s Subscriber) { u.bus.Subscribe(s) }

// Unsubscribe removes s.
func (u *Universe) Unsubscribe(s Subscriber) { u.bus.Unsubscribe(s) }

// Region classifies (x, y).
func (u *Universe) Region(x, y float64) region.Info { return u.classifier.Classify(x, y) }

// Seed returns the universe seed.
func (u *Universe) Seed() int64 { return u.seed }

// Position returns the observer position of the last tick.
func (u *Universe) Position() (float64, float64) { return u.x, u.y }

// Ticks returns how many ticks have run.
func (u *Universe) Ticks() int { return u.ticks }

// Elapsed returns the simulated seconds so far.
func (u *Universe) Elapsed() float64 { return u.integrator.Elapsed() }

// Ledger returns the discovery ledger.
func (u *Universe) Ledger() *discovery.Ledger { return u.ledger }

// Store returns the chunk store.
func (u *Universe) Store() *chunk.Store { return u.store }

// Classifier returns the region classifier.
func (u *Universe) Classifier() *region.Classifier { return u.classifier }

// Generator returns the chunk generator.
func (u *Universe) Generator() *gen.Generator { return u.generator }

func clampDelta(dt float64) float64 {
	switch {
	case dt < 0 || math.IsNaN(dt):
		return 0
	case dt > MaxTickDelta:
		return MaxTickDelta
	}
	return dt
}
