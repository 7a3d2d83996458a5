// Package simulator flies a headless observer through a universe and
// collects flight statistics.
package simulator

import (
	"context"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/deepfield/internal/discovery"
	"github.com/lox/deepfield/internal/statistics"
	"github.com/lox/deepfield/internal/universe"
)

// DefaultDelta is the fixed tick length in seconds.
const DefaultDelta = 1.0 / 60

// Config holds configuration for one flight.
type Config struct {
	Seed   int64
	Ticks  int
	StartX float64
	StartY float64
	// Heading is in degrees, 0 flies east and 90 flies north.
	Heading float64
	// Speed is in world units per second.
	Speed float64
	// Turn bends the heading by this many degrees per second.
	Turn       float64
	Delta      float64
	ChunkSize  float64
	LoadRadius int
	Timeout    time.Duration
	Ledger     *discovery.Ledger
	Clock      quartz.Clock
	Logger     *log.Logger
}

// Simulator runs one flight.
type Simulator struct {
	config   Config
	universe *universe.Universe
	x, y     float64
	heading  float64
}

// New creates a simulator and the universe it flies through.
func New(config Config) *Simulator {
	if config.Delta <= 0 {
		config.Delta = DefaultDelta
	}
	if config.Logger == nil {
		config.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	var opts []universe.Option
	if config.Ledger != nil {
		opts = append(opts, universe.WithLedger(config.Ledger))
	}
	u := universe.New(universe.Config{
		Seed:       config.Seed,
		ChunkSize:  config.ChunkSize,
		LoadRadius: config.LoadRadius,
		Clock:      config.Clock,
		Logger:     config.Logger,
	}, opts...)

	return &Simulator{
		config:   config,
		universe: u,
		x:        config.StartX,
		y:        config.StartY,
		heading:  config.Heading * math.Pi / 180,
	}
}

// Universe returns the universe being flown through.
func (s *Simulator) Universe() *universe.Universe { return s.universe }

// Position returns the observer position after the last tick.
func (s *Simulator) Position() (float64, float64) { return s.x, s.y }

// Run flies Ticks ticks. The first tick happens at the start position with
// zero elapsed time. It stops early with the context error if ctx is done or
// Timeout passes.
func (s *Simulator) Run(ctx context.Context) (*statistics.Flight, error) {
	if s.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.Timeout)
		defer cancel()
	}

	logger := s.config.Logger.WithPrefix("simulator")
	flight := &statistics.Flight{}
	dt := s.config.Delta
	turn := s.config.Turn * math.Pi / 180

	for tick := 0; tick < s.config.Ticks; tick++ {
		if err := ctx.Err(); err != nil {
			return flight, fmt.Errorf("flight stopped at tick %d: %w", tick, err)
		}

		step := dt
		if tick == 0 {
			step = 0
		} else {
			s.heading += turn * dt
			s.x += math.Cos(s.heading) * s.config.Speed * dt
			s.y += math.Sin(s.heading) * s.config.Speed * dt
		}

		res := s.universe.Tick(s.x, s.y, step)
		flight.Add(sample(res))
		for _, d := range res.Discoveries {
			logger.Debug("Discovered", "kind", d.Record.Kind, "id", d.Record.ID, "tick", tick)
		}
	}

	if flight.Ticks == 0 {
		return flight, nil
	}
	if err := flight.Validate(); err != nil {
		return nil, fmt.Errorf("statistics validation failed: %w", err)
	}
	logger.Info("Flight complete",
		"ticks", flight.Ticks, "generated", flight.Generated,
		"discoveries", flight.Discoveries, "x", math.Round(s.x), "y", math.Round(s.y))
	return flight, nil
}

func sample(res universe.TickResult) statistics.TickSample {
	s := statistics.TickSample{
		Generated:  len(res.Generated),
		Evicted:    len(res.Evicted),
		Resident:   res.Resident,
		StreamTime: res.StreamTime,
	}
	for _, d := range res.Discoveries {
		s.Discoveries = append(s.Discoveries, d.Record.Kind)
	}
	return s
}
