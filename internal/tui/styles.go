package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/lox/deepfield/internal/celestial"
)

// Static styles for content elements
var (
	HeaderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Bold(true)

	LogbookStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA"))

	LogbookTitleStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#96CEB4")).
				Bold(true)

	NoticeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFD700")).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true)

	InfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262"))

	ObserverStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#04B575")).
			Bold(true)

	paneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#626262"))
)

const observerGlyph = '^'

// glyphs maps each kind to its map symbol.
var glyphs = map[celestial.Kind]rune{
	celestial.KindStar:          '*',
	celestial.KindPlanet:        'o',
	celestial.KindMoon:          '.',
	celestial.KindNebula:        '~',
	celestial.KindAsteroidField: ':',
	celestial.KindWormhole:      '@',
	celestial.KindBlackHole:     'X',
	celestial.KindPulsar:        '+',
	celestial.KindProtostar:     '%',
	celestial.KindRoguePlanet:   'o',
	celestial.KindIonStorm:      '#',
}

var kindColors = map[celestial.Kind]lipgloss.Color{
	celestial.KindPlanet:        "#96CEB4",
	celestial.KindMoon:          "#BBBBBB",
	celestial.KindAsteroidField: "#A0876E",
	celestial.KindWormhole:      "#4ECDC4",
	celestial.KindBlackHole:     "#8A2BE2",
	celestial.KindPulsar:        "#00E5FF",
	celestial.KindRoguePlanet:   "#7F8C8D",
}

// objectColor prefers an object's own colour over its kind colour.
func objectColor(obj celestial.Object) lipgloss.Color {
	switch o := obj.(type) {
	case *celestial.Star:
		return lipgloss.Color(o.Color)
	case *celestial.Nebula:
		return lipgloss.Color(o.Color)
	case *celestial.Protostar:
		return lipgloss.Color(o.Color)
	case *celestial.IonStorm:
		return lipgloss.Color(o.Color)
	case *celestial.Planet:
		return lipgloss.Color(o.Type.Class().Color)
	}
	if c, ok := kindColors[obj.Kind()]; ok {
		return c
	}
	return "#FAFAFA"
}
