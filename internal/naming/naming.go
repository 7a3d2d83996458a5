// Package naming derives display names for generated objects. Every name is
// a pure function of the object's origin and the universe seed, so a body
// keeps its name across chunk reloads.
package naming

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lox/deepfield/internal/celestial"
	"github.com/lox/deepfield/internal/randutil"
	"github.com/lox/deepfield/internal/spatial"
)

const nameSalt = 0x4e414d45 // "NAME"

var (
	onsets = []string{
		"Al", "Bel", "Cor", "Dra", "El", "Fen", "Gal", "Hy", "Ix", "Jor",
		"Kel", "Ly", "Mor", "Nex", "Or", "Pra", "Qua", "Ros", "Syl", "Tor",
		"Ul", "Vex", "Wy", "Xen", "Yth", "Zar",
	}
	middles = []string{
		"a", "e", "i", "o", "u", "ae", "ia", "or", "an", "el", "is", "yr",
	}
	codas = []string{
		"nix", "ra", "th", "dor", "lon", "mir", "sus", "tis", "vax", "rion",
		"des", "kar", "phe", "ny", "gen", "lum",
	}

	romans = []string{
		"I", "II", "III", "IV", "V", "VI", "VII", "VIII", "IX", "X",
		"XI", "XII", "XIII", "XIV", "XV", "XVI",
	}

	catalogues = map[celestial.Kind]string{
		celestial.KindNebula:        "NGC",
		celestial.KindAsteroidField: "AST",
		celestial.KindWormhole:      "WH",
		celestial.KindBlackHole:     "BH",
		celestial.KindPulsar:        "PSR",
		celestial.KindProtostar:     "YSO",
		celestial.KindRoguePlanet:   "RP",
		celestial.KindIonStorm:      "ION",
	}
)

// Star returns the name of the star generated at origin.
func Star(origin celestial.Origin, universeSeed int64) string {
	rng := randutil.New(int64(spatial.HashCell(nameSalt, origin.X, origin.Y, universeSeed)))

	var b strings.Builder
	b.WriteString(randutil.Choice(rng, onsets))
	b.WriteString(randutil.Choice(rng, middles))
	if rng.Chance(0.45) {
		b.WriteString(strings.ToLower(randutil.Choice(rng, onsets)))
		b.WriteString(randutil.Choice(rng, middles))
	}
	b.WriteString(randutil.Choice(rng, codas))
	return b.String()
}

// Planet returns the name of the planet at index (zero based) around star.
func Planet(star string, index int) string {
	return star + " " + Roman(index+1)
}

// Moon returns the name of the moon whose orbit ranks rank (zero based,
// closest first) among its siblings.
func Moon(planet string, rank int) string {
	return fmt.Sprintf("%s%c", planet, 'a'+rune(rank%26))
}

// Special returns a catalogue designation such as "NGC-1A2B" for a
// non-system object generated at origin.
func Special(kind celestial.Kind, origin celestial.Origin, universeSeed int64) string {
	prefix, ok := catalogues[kind]
	if !ok {
		prefix = "OBJ"
	}
	h := spatial.HashCell(nameSalt^uint32(kind), origin.X, origin.Y, universeSeed)
	return fmt.Sprintf("%s-%04X", prefix, h&0xffff)
}

// Roman renders n in roman numerals. Values outside the table fall back to
// decimal.
func Roman(n int) string {
	if n >= 1 && n <= len(romans) {
		return romans[n-1]
	}
	return fmt.Sprintf("%d", n)
}

// Ranks returns, for every distance, its position in ascending order. Equal
// distances keep their input order.
func Ranks(distances []float64) []int {
	order := make([]int, len(distances))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return distances[order[a]] < distances[order[b]]
	})
	ranks := make([]int, len(distances))
	for rank, i := range order {
		ranks[i] = rank
	}
	return ranks
}
