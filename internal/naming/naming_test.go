package naming

import (
	"regexp"
	"testing"

	"github.com/lox/deepfield/internal/celestial"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStarNameIsStable(t *testing.T) {
	t.Parallel()

	o := celestial.Origin{X: 1234, Y: -987}
	name := Star(o, 42)
	require.NotEmpty(t, name)
	assert.Equal(t, name, Star(o, 42))

	distinct := map[string]bool{}
	for i := int64(0); i < 50; i++ {
		distinct[Star(celestial.Origin{X: i * 2000, Y: i * 17}, 42)] = true
	}
	assert.Greater(t, len(distinct), 40)
}

func TestPlanetAndMoonNames(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Velora I", Planet("Velora", 0))
	assert.Equal(t, "Velora IV", Planet("Velora", 3))
	assert.Equal(t, "Velora 17", Planet("Velora", 16))
	assert.Equal(t, "Velora IIa", Moon("Velora II", 0))
	assert.Equal(t, "Velora IIc", Moon("Velora II", 2))
}

func TestRanksByDistance(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		distances []float64
		want      []int
	}{
		{"empty", nil, []int{}},
		{"sorted", []float64{10, 20, 30}, []int{0, 1, 2}},
		{"reversed", []float64{31, 22.5, 11}, []int{2, 1, 0}},
		{"outside fixed bands", []float64{41, 35, 38}, []int{2, 0, 1}},
		{"ties keep order", []float64{5, 5, 1}, []int{1, 2, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Ranks(tt.distances))
		})
	}
}

func TestSpecialDesignation(t *testing.T) {
	t.Parallel()

	pattern := regexp.MustCompile(`^[A-Z]+-[0-9A-F]{4}$`)
	o := celestial.Origin{X: -40, Y: 77}
	for _, kind := range celestial.Kinds() {
		name := Special(kind, o, 9)
		assert.Regexp(t, pattern, name)
		assert.Equal(t, name, Special(kind, o, 9))
	}
	assert.Contains(t, Special(celestial.KindBlackHole, o, 9), "BH-")
	assert.Contains(t, Special(celestial.KindStar, o, 9), "OBJ-")
}
