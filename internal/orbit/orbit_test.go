package orbit

import (
	"math"
	"testing"

	"github.com/lox/deepfield/internal/celestial"
	"github.com/lox/deepfield/internal/chunk"
	"github.com/lox/deepfield/internal/spatial"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func system() []celestial.Object {
	star := &celestial.Star{Body: celestial.Body{X: 1000, Y: 500}}
	planet := &celestial.Planet{
		Orbit: celestial.Orbit{Parent: 0, Distance: 100, AngularSpeed: 0.5},
	}
	moon := &celestial.Moon{
		Orbit: celestial.Orbit{Parent: 1, Distance: 20, Angle: math.Pi, AngularSpeed: 2},
	}
	objects := []celestial.Object{star, planet, moon}
	Place(objects, &planet.Body, &planet.Orbit)
	Place(objects, &moon.Body, &moon.Orbit)
	return objects
}

func TestAngularSpeed(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 120/math.Pow(100, 1.5), AngularSpeed(PlanetConstant, 100, 1), 1e-12)
	assert.InDelta(t, 30/math.Pow(25, 1.5)*1.1, AngularSpeed(MoonConstant, 25, 1.1), 1e-12)
	assert.Greater(t, AngularSpeed(PlanetConstant, 80, 1), AngularSpeed(PlanetConstant, 800, 1))
	assert.Zero(t, AngularSpeed(PlanetConstant, 0, 1))
}

func TestStepMovesPlanetsThenMoons(t *testing.T) {
	t.Parallel()

	objects := system()
	planet := objects[1].(*celestial.Planet)
	moon := objects[2].(*celestial.Moon)
	assert.InDelta(t, 1100.0, planet.X, 1e-9)
	assert.InDelta(t, 1080.0, moon.X, 1e-9)

	moved := Step(objects, 1)
	assert.Equal(t, 2, moved)
	assert.InDelta(t, 0.5, planet.Angle, 1e-12)
	assert.InDelta(t, 1000+100*math.Cos(0.5), planet.X, 1e-9)
	assert.InDelta(t, 500+100*math.Sin(0.5), planet.Y, 1e-9)

	// The moon follows the planet's position from this same step.
	assert.InDelta(t, 20.0, math.Hypot(moon.X-planet.X, moon.Y-planet.Y), 1e-9)
	assert.InDelta(t, planet.X+20*math.Cos(math.Pi+2), moon.X, 1e-9)
}

func TestMotionDependsOnlyOnAccumulatedTime(t *testing.T) {
	t.Parallel()

	a, b := system(), system()
	for range 100 {
		Step(a, 0.01)
	}
	Step(b, 0.5)
	Step(b, 0) // a paused frame
	Step(b, 0.5)

	for i := range a {
		assert.InDelta(t, a[i].Base().X, b[i].Base().X, 1e-6)
		assert.InDelta(t, a[i].Base().Y, b[i].Base().Y, 1e-6)
	}
}

func TestStepSkipsBrokenParents(t *testing.T) {
	t.Parallel()

	orphan := &celestial.Planet{Orbit: celestial.Orbit{Parent: 7, Distance: 10, AngularSpeed: 1}}
	assert.Zero(t, Step([]celestial.Object{orphan}, 1))
}

func TestIntegratorAdvancesResidentChunks(t *testing.T) {
	t.Parallel()

	store := chunk.NewStore(chunk.GeneratorFunc(func(c spatial.ChunkCoord) *chunk.Chunk {
		return &chunk.Chunk{Coord: c, Objects: system()}
	}), chunk.WithLoadRadius(0))
	store.UpdateActiveChunks(0, 0)

	integ := NewIntegrator(store)
	assert.Zero(t, integ.Advance(0))
	assert.Zero(t, integ.Advance(-1))
	assert.Equal(t, 2, integ.Advance(0.25))
	assert.Equal(t, 2, integ.Advance(0.25))
	assert.InDelta(t, 0.5, integ.Elapsed(), 1e-12)
	assert.Equal(t, 4, integ.Moved())

	ch, ok := store.Chunk(spatial.ChunkCoord{})
	require.True(t, ok)
	assert.InDelta(t, 0.25, ch.Objects[1].(*celestial.Planet).Angle, 1e-12)
}
