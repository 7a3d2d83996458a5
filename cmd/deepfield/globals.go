package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/lox/deepfield/internal/config"
	"github.com/muesli/termenv"
)

// Globals are flags shared by every command.
type Globals struct {
	Config   string `short:"c" default:"deepfield.hcl" env:"DEEPFIELD_CONFIG" help:"HCL configuration file"`
	Seed     string `env:"DEEPFIELD_SEED" help:"Universe seed; text is hashed, empty picks a random seed"`
	LogLevel string `env:"DEEPFIELD_LOG_LEVEL" help:"Override the configured log level"`
	SavePath string `name:"save" env:"DEEPFIELD_SAVE" help:"Override the configured save file"`
	NoColor  bool   `env:"NO_COLOR" help:"Disable colour output"`
}

// session is the resolved configuration of one command.
type session struct {
	cfg    *config.Config
	seed   int64
	source config.SeedSource
	// explicit is true when the seed came from a flag, the environment or
	// the config file.
	explicit bool
	logger   *log.Logger
}

// setup loads configuration and builds a logger writing to w.
func (g *Globals) setup(w io.Writer) (*session, error) {
	if g.NoColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	cfg, err := config.Load(g.Config)
	if err != nil {
		return nil, err
	}
	if g.LogLevel != "" {
		cfg.Log.Level = g.LogLevel
	}
	if g.SavePath != "" {
		cfg.Save.Path = g.SavePath
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := log.NewWithOptions(w, log.Options{
		Level:           cfg.LogLevel(),
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
	})

	raw := g.Seed
	if raw == "" {
		raw = cfg.Universe.Seed
	}
	seed, source := config.ResolveSeed(raw)
	switch source {
	case config.SeedHashed:
		logger.Warn("Seed is not an integer, using its hash", "seed", raw, "resolved", seed)
	case config.SeedRandom:
		logger.Warn("No seed configured, using a random seed", "seed", seed)
	default:
		logger.Debug("Using seed", "seed", seed)
	}

	return &session{cfg: cfg, seed: seed, source: source, explicit: raw != "", logger: logger}, nil
}

// setupSignalHandler returns a context cancelled on interrupt.
func setupSignalHandler(logger *log.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigChan:
			logger.Info("Received signal, shutting down", "signal", sig.String())
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigChan)
	}()

	return ctx, cancel
}

var titleStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("#FAFAFA")).
	Background(lipgloss.Color("#7D56F4")).
	Padding(0, 1).
	Bold(true)

func printTitle(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf(format, args...)))
	fmt.Fprintln(w)
}
