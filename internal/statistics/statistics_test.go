package statistics

import (
	"testing"
	"time"

	"github.com/lox/deepfield/internal/celestial"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimingsEmpty(t *testing.T) {
	t.Parallel()

	var tm Timings
	assert.Zero(t, tm.Mean())
	assert.Zero(t, tm.Variance())
	assert.Zero(t, tm.StdDev())
	assert.Zero(t, tm.Median())
	assert.Zero(t, tm.Percentile(0.95))
}

func TestTimingsDistribution(t *testing.T) {
	t.Parallel()

	var tm Timings
	for _, ms := range []int{4, 1, 3, 2, 5} {
		tm.Add(time.Duration(ms) * time.Millisecond)
	}
	assert.Equal(t, 5, tm.Count)
	assert.InDelta(t, 3.0, tm.Mean(), 1e-9)
	assert.InDelta(t, 2.5, tm.Variance(), 1e-9)
	assert.InDelta(t, 3.0, tm.Median(), 1e-9)
	assert.InDelta(t, 1.0, tm.Percentile(0), 1e-9)
	assert.InDelta(t, 5.0, tm.Percentile(1), 1e-9)
	assert.InDelta(t, 4.5, tm.Percentile(0.875), 1e-9)
	assert.InDelta(t, 5.0, tm.Percentile(3), 1e-9, "p is clamped")
	assert.InDelta(t, 5.0, tm.Max, 1e-9)
}

func TestFlightAdd(t *testing.T) {
	t.Parallel()

	var f Flight
	f.Add(TickSample{Generated: 9, Resident: 9, StreamTime: 2 * time.Millisecond,
		Discoveries: []celestial.Kind{celestial.KindStar, celestial.KindPlanet, celestial.KindPlanet}})
	f.Add(TickSample{Resident: 9})
	f.Add(TickSample{Generated: 3, Evicted: 3, Resident: 9, StreamTime: 4 * time.Millisecond,
		Discoveries: []celestial.Kind{celestial.KindNebula}})

	require.NoError(t, f.Validate())
	assert.Equal(t, 3, f.Ticks)
	assert.Equal(t, 12, f.Generated)
	assert.Equal(t, 3, f.Evicted)
	assert.Equal(t, 9, f.Resident())
	assert.Equal(t, 9, f.PeakResident)
	assert.Equal(t, 4, f.Discoveries)
	assert.Equal(t, map[celestial.Kind]int{
		celestial.KindStar:   1,
		celestial.KindPlanet: 2,
		celestial.KindNebula: 1,
	}, f.ByKind)
	assert.Equal(t, 2, f.Stream.Count, "ticks without generation are not timed")
	assert.InDelta(t, 3.0, f.Stream.Mean(), 1e-9)

	summary := f.Summary()
	assert.Contains(t, summary, "ticks: 3")
	assert.Contains(t, summary, "12 generated, 3 evicted")
	assert.Contains(t, summary, "planet")
}

func TestFlightValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		flight Flight
	}{
		{"no ticks", Flight{}},
		{"evicted exceeds generated", Flight{Ticks: 1, Evicted: 2}},
		{"kind mismatch", Flight{Ticks: 1, Discoveries: 2, ByKind: map[celestial.Kind]int{celestial.KindStar: 1}}},
		{"timing mismatch", Flight{Ticks: 1, Stream: Timings{Count: 1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.flight.Validate())
		})
	}
}
