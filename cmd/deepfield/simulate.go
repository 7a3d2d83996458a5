package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/lox/deepfield/internal/discovery"
	"github.com/lox/deepfield/internal/savefile"
	"github.com/lox/deepfield/internal/simulator"
)

// SimulateCmd flies a fixed course without a terminal UI.
type SimulateCmd struct {
	Ticks   int           `default:"3600" help:"Number of ticks to fly"`
	FPS     int           `name:"fps" default:"60" help:"Ticks per simulated second"`
	Heading float64       `default:"0" help:"Heading in degrees, 0 is east and 90 is north"`
	Speed   float64       `help:"Speed in world units per second (default from config)"`
	Turn    float64       `default:"0" help:"Heading change in degrees per second"`
	Timeout time.Duration `default:"0s" help:"Abort the flight after this long (0 for no limit)"`
	Record  bool          `help:"Write discoveries to the save file"`
}

func (c *SimulateCmd) Run(g *Globals) error {
	s, err := g.setup(os.Stderr)
	if err != nil {
		return err
	}
	if c.FPS <= 0 {
		return fmt.Errorf("fps must be positive, got %d", c.FPS)
	}
	speed := c.Speed
	if speed <= 0 {
		speed = s.cfg.Observer.Speed
	}

	ctx, cancel := setupSignalHandler(s.logger)
	defer cancel()

	ledger := discovery.NewLedger(discovery.WithLogger(s.logger))
	if c.Record {
		snap, err := savefile.Load(s.cfg.Save.Path)
		switch {
		case errors.Is(err, savefile.ErrNotFound):
		case err != nil:
			return err
		case snap.Seed != s.seed:
			return fmt.Errorf("save %s belongs to seed %d, not %d", s.cfg.Save.Path, snap.Seed, s.seed)
		default:
			ledger.Load(snap.Records)
		}
	}
	sim := simulator.New(simulator.Config{
		Seed:       s.seed,
		Ticks:      c.Ticks,
		StartX:     s.cfg.Observer.StartX,
		StartY:     s.cfg.Observer.StartY,
		Heading:    c.Heading,
		Speed:      speed,
		Turn:       c.Turn,
		Delta:      1 / float64(c.FPS),
		ChunkSize:  s.cfg.Universe.ChunkSize,
		LoadRadius: s.cfg.LoadRadius(),
		Timeout:    c.Timeout,
		Ledger:     ledger,
		Logger:     s.logger,
	})

	start := time.Now()
	flight, err := sim.Run(ctx)
	if err != nil {
		return err
	}

	printTitle(os.Stdout, "Flight through seed %d", s.seed)
	fmt.Print(flight.Summary())
	x, y := sim.Position()
	fmt.Printf("final position: %.0f, %.0f\n", x, y)
	fmt.Printf("wall time: %s\n", time.Since(start).Round(time.Millisecond))

	if c.Record {
		snap := savefile.Snapshot{
			Seed:      s.seed,
			ObserverX: x,
			ObserverY: y,
			SavedAt:   time.Now(),
			Records:   ledger.Records(),
		}
		if err := savefile.Save(s.cfg.Save.Path, snap); err != nil {
			return err
		}
		s.logger.Info("Recorded discoveries", "path", s.cfg.Save.Path, "records", len(snap.Records))
	}
	return nil
}
