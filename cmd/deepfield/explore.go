package main

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/deepfield/internal/discovery"
	"github.com/lox/deepfield/internal/savefile"
	"github.com/lox/deepfield/internal/tui"
	"github.com/lox/deepfield/internal/universe"
)

// ExploreCmd runs the terminal explorer.
type ExploreCmd struct {
	LogFile string `default:"deepfield.log" help:"Log file; the terminal belongs to the explorer"`
	Fresh   bool   `help:"Ignore any existing save and start a new logbook"`
}

func (c *ExploreCmd) Run(g *Globals) error {
	logFile, err := os.OpenFile(c.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer func() {
		if err := logFile.Close(); err != nil {
			log.Error("Failed to close log file", "error", err)
		}
	}()

	s, err := g.setup(logFile)
	if err != nil {
		return err
	}
	logger := s.logger
	clock := quartz.NewReal()

	ledger := discovery.NewLedger(discovery.WithClock(clock), discovery.WithLogger(logger))
	seed := s.seed
	startX, startY := s.cfg.Observer.StartX, s.cfg.Observer.StartY
	path := s.cfg.Save.Path

	if !c.Fresh {
		snap, err := savefile.Load(path)
		switch {
		case errors.Is(err, savefile.ErrNotFound):
			logger.Info("No save found, starting fresh", "path", path)
		case err != nil:
			return err
		case s.explicit && snap.Seed != seed:
			return fmt.Errorf("save %s belongs to seed %d, not %d; use --fresh or --save", path, snap.Seed, seed)
		default:
			seed = snap.Seed
			startX, startY = snap.ObserverX, snap.ObserverY
			n := ledger.Load(snap.Records)
			logger.Info("Loaded save", "path", path, "seed", seed, "records", n)
		}
	}

	u := universe.New(universe.Config{
		Seed:       seed,
		ChunkSize:  s.cfg.Universe.ChunkSize,
		LoadRadius: s.cfg.LoadRadius(),
		Clock:      clock,
		Logger:     logger,
	}, universe.WithLedger(ledger))

	model := tui.New(tui.Config{
		Universe: u,
		StartX:   startX,
		StartY:   startY,
		Speed:    s.cfg.Observer.Speed,
		Autosave: s.cfg.Autosave(),
		Save: func(snap savefile.Snapshot) error {
			return savefile.Save(path, snap)
		},
		Clock:  clock,
		Logger: logger,
	})

	logger.Info("Starting explorer", "seed", seed, "x", startX, "y", startY)
	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("explorer failed: %w", err)
	}
	if err := model.Err(); err != nil {
		return fmt.Errorf("final save failed: %w", err)
	}
	fmt.Printf("Logbook saved to %s (%d discoveries)\n", path, ledger.Len())
	return nil
}
