package gen

import (
	"github.com/lox/deepfield/internal/celestial"
	"github.com/lox/deepfield/internal/randutil"
)

type countRange struct {
	min, max int
}

var starTypes = []randutil.WeightedItem[celestial.StarType]{
	{Value: celestial.RedDwarf, Weight: 38},
	{Value: celestial.YellowDwarf, Weight: 24},
	{Value: celestial.OrangeDwarf, Weight: 16},
	{Value: celestial.WhiteDwarf, Weight: 10},
	{Value: celestial.BlueGiant, Weight: 7},
	{Value: celestial.RedGiant, Weight: 5},
}

// planetCounts is weighted towards two to five planets.
var planetCounts = []randutil.WeightedItem[countRange]{
	{Value: countRange{0, 0}, Weight: 10},
	{Value: countRange{1, 1}, Weight: 15},
	{Value: countRange{2, 3}, Weight: 30},
	{Value: countRange{4, 5}, Weight: 30},
	{Value: countRange{6, 8}, Weight: 15},
}

var giantMoonCounts = []randutil.WeightedItem[countRange]{
	{Value: countRange{0, 0}, Weight: 15},
	{Value: countRange{1, 1}, Weight: 25},
	{Value: countRange{2, 3}, Weight: 40},
	{Value: countRange{4, 5}, Weight: 20},
}

var rockyMoonCounts = []randutil.WeightedItem[countRange]{
	{Value: countRange{0, 0}, Weight: 55},
	{Value: countRange{1, 1}, Weight: 30},
	{Value: countRange{2, 2}, Weight: 15},
}

var innerPlanets = []randutil.WeightedItem[celestial.PlanetType]{
	{Value: celestial.Volcanic, Weight: 30},
	{Value: celestial.Rocky, Weight: 35},
	{Value: celestial.Desert, Weight: 25},
	{Value: celestial.Terrestrial, Weight: 10},
}

var middlePlanets = []randutil.WeightedItem[celestial.PlanetType]{
	{Value: celestial.Rocky, Weight: 15},
	{Value: celestial.Desert, Weight: 15},
	{Value: celestial.Ocean, Weight: 20},
	{Value: celestial.Terrestrial, Weight: 25},
	{Value: celestial.GasGiant, Weight: 15},
	{Value: celestial.Frozen, Weight: 10},
}

var outerPlanets = []randutil.WeightedItem[celestial.PlanetType]{
	{Value: celestial.GasGiant, Weight: 35},
	{Value: celestial.IceGiant, Weight: 30},
	{Value: celestial.Frozen, Weight: 25},
	{Value: celestial.Rocky, Weight: 10},
}

var roguePlanets = []celestial.PlanetType{
	celestial.Rocky, celestial.Frozen, celestial.IceGiant, celestial.GasGiant,
}

var (
	protostarPalette = []string{"#ffd8a8", "#ffa8a8", "#fcc2d7"}
	ionStormPalette  = []string{"#66d9e8", "#b197fc", "#8ce99a"}
)

func planetTypesFor(distance float64) []randutil.WeightedItem[celestial.PlanetType] {
	switch {
	case distance < 200:
		return innerPlanets
	case distance < 500:
		return middlePlanets
	default:
		return outerPlanets
	}
}

// orbitalDistance returns the distance of the planet at index. Inner orbits
// sit in tight bands; from the fourth planet out they grow geometrically with
// more spread, up to maxOrbit. Bands never overlap, so distances increase
// with index.
func orbitalDistance(rng *randutil.Rand, index int) float64 {
	switch index {
	case 0:
		return rng.NextFloat(80, 120)
	case 1:
		return rng.NextFloat(140, 190)
	case 2:
		return rng.NextFloat(210, 280)
	}
	d := 280 * pow(1.4, index-2) * rng.NextFloat(0.85, 1.15)
	return min(d, maxOrbit)
}

func pow(base float64, n int) float64 {
	out := 1.0
	for range n {
		out *= base
	}
	return out
}
