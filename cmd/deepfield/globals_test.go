package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/lox/deepfield/internal/celestial"
	"github.com/lox/deepfield/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "deepfield.hcl")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestSetupUsesConfigSeed(t *testing.T) {
	path := writeConfig(t, "universe {\n  seed = \"42\"\n}\n")
	var buf bytes.Buffer
	s, err := (&Globals{Config: path}).setup(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(42), s.seed)
	assert.Equal(t, config.SeedNumeric, s.source)
	assert.True(t, s.explicit)
	assert.Empty(t, buf.String())
}

func TestSetupFlagsOverrideConfig(t *testing.T) {
	path := writeConfig(t, "universe {\n  seed = \"42\"\n}\nlog {\n  level = \"error\"\n}\n")
	var buf bytes.Buffer
	g := &Globals{Config: path, Seed: "orion", LogLevel: "debug", SavePath: "other.save"}
	s, err := g.setup(&buf)
	require.NoError(t, err)
	assert.Equal(t, config.SeedHashed, s.source)
	assert.Equal(t, log.DebugLevel, s.cfg.LogLevel())
	assert.Equal(t, "other.save", s.cfg.Save.Path)
	assert.Contains(t, buf.String(), "not an integer")
}

func TestSetupRandomSeedWarns(t *testing.T) {
	var buf bytes.Buffer
	s, err := (&Globals{Config: filepath.Join(t.TempDir(), "missing.hcl")}).setup(&buf)
	require.NoError(t, err)
	assert.Equal(t, config.SeedRandom, s.source)
	assert.False(t, s.explicit)
	assert.Contains(t, buf.String(), "random seed")
}

func TestSetupRejectsInvalidConfig(t *testing.T) {
	path := writeConfig(t, "universe {\n  chunk_size = 10\n}\n")
	_, err := (&Globals{Config: path}).setup(&bytes.Buffer{})
	assert.ErrorIs(t, err, config.ErrInvalid)
}

func TestDescribeCoversEveryKind(t *testing.T) {
	objects := []celestial.Object{
		&celestial.Star{}, &celestial.Planet{}, &celestial.Moon{}, &celestial.Nebula{},
		&celestial.AsteroidField{}, &celestial.Wormhole{}, &celestial.BlackHole{},
		&celestial.Pulsar{}, &celestial.Protostar{}, &celestial.RoguePlanet{}, &celestial.IonStorm{},
	}
	require.Len(t, objects, len(celestial.Kinds()))
	for _, obj := range objects {
		assert.NotPanics(t, func() { describe(obj) }, obj.Kind().String())
	}
}
