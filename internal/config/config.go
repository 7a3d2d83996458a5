// Package config loads deepfield settings from an HCL file and the
// environment.
package config

import (
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/joho/godotenv"
	"github.com/lox/deepfield/internal/spatial"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid configuration")

const (
	DefaultChunkSize  = 2000.0
	MinChunkSize      = 1000.0
	MaxChunkSize      = 4000.0
	DefaultLoadRadius = 1
	MinLoadRadius     = 1
	MaxLoadRadius     = 4
	DefaultSpeed      = 600.0
	DefaultLogLevel   = "info"
	DefaultSavePath   = "deepfield.save"
	DefaultAutosave   = 30
)

// Config is the complete deepfield configuration.
type Config struct {
	Universe *UniverseBlock `hcl:"universe,block"`
	Observer *ObserverBlock `hcl:"observer,block"`
	Log      *LogBlock      `hcl:"log,block"`
	Save     *SaveBlock     `hcl:"save,block"`
}

// UniverseBlock holds the generation parameters. LoadRadius is a pointer so
// an explicit zero is rejected instead of silently becoming the default.
type UniverseBlock struct {
	Seed       string  `hcl:"seed,optional"`
	ChunkSize  float64 `hcl:"chunk_size,optional"`
	LoadRadius *int    `hcl:"load_radius,optional"`
}

// ObserverBlock sets where the observer starts and how fast it flies in
// world units per second.
type ObserverBlock struct {
	StartX float64 `hcl:"start_x,optional"`
	StartY float64 `hcl:"start_y,optional"`
	Speed  float64 `hcl:"speed,optional"`
}

type LogBlock struct {
	Level string `hcl:"level,optional"`
}

// SaveBlock controls ledger persistence. AutosaveSeconds of zero disables
// autosave; leaving it out uses DefaultAutosave.
type SaveBlock struct {
	Path            string `hcl:"path,optional"`
	AutosaveSeconds *int   `hcl:"autosave_seconds,optional"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads filename. A missing file yields Default.
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var cfg Config
	diags = gohcl.DecodeBody(file.Body, nil, &cfg)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Universe == nil {
		c.Universe = &UniverseBlock{}
	}
	if c.Observer == nil {
		c.Observer = &ObserverBlock{}
	}
	if c.Log == nil {
		c.Log = &LogBlock{}
	}
	if c.Save == nil {
		c.Save = &SaveBlock{}
	}

	if c.Universe.ChunkSize == 0 {
		c.Universe.ChunkSize = DefaultChunkSize
	}
	if c.Universe.LoadRadius == nil {
		n := DefaultLoadRadius
		c.Universe.LoadRadius = &n
	}
	if c.Observer.Speed == 0 {
		c.Observer.Speed = DefaultSpeed
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Save.Path == "" {
		c.Save.Path = DefaultSavePath
	}
	if c.Save.AutosaveSeconds == nil {
		n := DefaultAutosave
		c.Save.AutosaveSeconds = &n
	}
}

// Validate checks ranges after defaults have been applied.
func (c *Config) Validate() error {
	if s := c.Universe.ChunkSize; s < MinChunkSize || s > MaxChunkSize {
		return fmt.Errorf("%w: chunk_size %g outside %g..%g", ErrInvalid, s, MinChunkSize, MaxChunkSize)
	}
	if r := *c.Universe.LoadRadius; r < MinLoadRadius || r > MaxLoadRadius {
		return fmt.Errorf("%w: load_radius %d outside %d..%d", ErrInvalid, r, MinLoadRadius, MaxLoadRadius)
	}
	if c.Observer.Speed <= 0 {
		return fmt.Errorf("%w: observer speed must be positive", ErrInvalid)
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: log level %q", ErrInvalid, c.Log.Level)
	}
	if *c.Save.AutosaveSeconds < 0 {
		return fmt.Errorf("%w: autosave_seconds must not be negative", ErrInvalid)
	}
	return nil
}

// LogLevel returns the parsed log level, falling back to info.
func (c *Config) LogLevel() log.Level {
	level, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.InfoLevel
	}
	return level
}

// LoadRadius returns the chunk load radius.
func (c *Config) LoadRadius() int {
	return *c.Universe.LoadRadius
}

// Autosave returns the autosave interval, zero when disabled.
func (c *Config) Autosave() time.Duration {
	return time.Duration(*c.Save.AutosaveSeconds) * time.Second
}

// SeedSource says how ResolveSeed arrived at a seed.
type SeedSource int

const (
	SeedNumeric SeedSource = iota
	SeedHashed
	SeedRandom
)

func (s SeedSource) String() string {
	switch s {
	case SeedNumeric:
		return "numeric"
	case SeedHashed:
		return "hashed"
	case SeedRandom:
		return "random"
	}
	return "unknown"
}

// ResolveSeed turns raw into a universe seed. Integers are used as is,
// other text is hashed, and empty input draws a random seed. It never fails.
func ResolveSeed(raw string) (int64, SeedSource) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return randomSeed(), SeedRandom
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return n, SeedNumeric
	}
	return int64(spatial.HashString(raw)), SeedHashed
}

func randomSeed() int64 {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic("config: crypto/rand failed: " + err.Error())
	}
	return int64(binary.LittleEndian.Uint32(b[:]) & 0x7fffffff)
}

// LoadEnv reads .env style files into the process environment. Missing
// files are ignored; variables already set win.
func LoadEnv(filenames ...string) error {
	if len(filenames) == 0 {
		filenames = []string{".env"}
	}
	for _, name := range filenames {
		if err := godotenv.Load(name); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", name, err)
		}
	}
	return nil
}
