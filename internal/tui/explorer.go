// Package tui is the terminal explorer: a star map around the observer, a
// logbook of discoveries and a help bar.
package tui

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/deepfield/internal/discovery"
	"github.com/lox/deepfield/internal/savefile"
	"github.com/lox/deepfield/internal/universe"
)

const (
	frameInterval = time.Second / 30
	noticeFor     = 4 * time.Second
	logbookWidth  = 38
	boostFactor   = 4.0

	DefaultZoom = 40.0
	MinZoom     = 5.0
	MaxZoom     = 640.0
)

// Saver persists a snapshot of the exploration.
type Saver func(savefile.Snapshot) error

// Config configures an explorer.
type Config struct {
	Universe *universe.Universe
	StartX   float64
	StartY   float64
	// Speed is the cruise speed in world units per second.
	Speed    float64
	Autosave time.Duration
	Save     Saver
	Clock    quartz.Clock
	Logger   *log.Logger
}

type tickMsg time.Time

// Model is the bubbletea model of the explorer.
type Model struct {
	universe *universe.Universe
	logger   *log.Logger
	clock    quartz.Clock
	save     Saver
	autosave time.Duration

	keys    keyMap
	help    help.Model
	logbook viewport.Model
	entries []string

	x, y      float64
	vx, vy    float64
	speed     float64
	boosted   bool
	zoom      float64
	lastFrame time.Time
	lastSave  time.Time
	last      universe.TickResult

	notice      string
	noticeError bool
	noticeUntil time.Time
	saveErr     error

	width    int
	height   int
	quitting bool
}

// New creates an explorer. The logbook starts with every record already in
// the universe's ledger.
func New(cfg Config) *Model {
	logger := cfg.Logger
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	clock := cfg.Clock
	if clock == nil {
		clock = quartz.NewReal()
	}
	speed := cfg.Speed
	if speed <= 0 {
		speed = 600
	}

	vp := viewport.New(logbookWidth, 5)
	now := clock.Now()
	m := &Model{
		universe:  cfg.Universe,
		logger:    logger.WithPrefix("tui"),
		clock:     clock,
		save:      cfg.Save,
		autosave:  cfg.Autosave,
		keys:      defaultKeyMap(),
		help:      help.New(),
		logbook:   vp,
		x:         cfg.StartX,
		y:         cfg.StartY,
		speed:     speed,
		zoom:      DefaultZoom,
		lastFrame: now,
		lastSave:  now,
	}
	for _, rec := range cfg.Universe.Ledger().Records() {
		m.entries = append(m.entries, formatEntry(rec))
	}
	m.logbook.SetContent(strings.Join(m.entries, "\n"))
	m.logbook.GotoBottom()
	return m
}

// Init starts the frame loop.
func (m *Model) Init() tea.Cmd {
	return m.frame()
}

func (m *Model) frame() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.logger.Debug("Updating dimensions", "width", m.width, "height", m.height)

	case tickMsg:
		m.step()
		return m, m.frame()

	case tea.KeyMsg:
		return m, m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	cruise := m.speed
	if m.boosted {
		cruise *= boostFactor
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		m.persist()
		return tea.Quit
	case key.Matches(msg, m.keys.Up):
		m.vy = cruise
	case key.Matches(msg, m.keys.Down):
		m.vy = -cruise
	case key.Matches(msg, m.keys.Left):
		m.vx = -cruise
	case key.Matches(msg, m.keys.Right):
		m.vx = cruise
	case key.Matches(msg, m.keys.Stop):
		m.vx, m.vy = 0, 0
	case key.Matches(msg, m.keys.Boost):
		m.boosted = !m.boosted
		factor := boostFactor
		if !m.boosted {
			factor = 1 / boostFactor
		}
		m.vx *= factor
		m.vy *= factor
	case key.Matches(msg, m.keys.ZoomIn):
		m.zoom = math.Max(MinZoom, m.zoom/2)
	case key.Matches(msg, m.keys.ZoomOut):
		m.zoom = math.Min(MaxZoom, m.zoom*2)
	case key.Matches(msg, m.keys.LogUp):
		m.logbook.HalfPageUp()
	case key.Matches(msg, m.keys.LogDown):
		m.logbook.HalfPageDown()
	case key.Matches(msg, m.keys.Save):
		if m.persist() {
			m.notify("Saved", false)
		}
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return nil
}

// step advances the observer by the time since the last frame and ticks the
// universe.
func (m *Model) step() {
	now := m.clock.Now()
	dt := math.Min(now.Sub(m.lastFrame).Seconds(), universe.MaxTickDelta)
	m.lastFrame = now
	if dt < 0 {
		dt = 0
	}

	m.x += m.vx * dt
	m.y += m.vy * dt
	m.last = m.universe.Tick(m.x, m.y, dt)

	for _, d := range m.last.Discoveries {
		m.entries = append(m.entries, formatEntry(d.Record))
		m.notify(fmt.Sprintf("Discovered %s (%s)", displayName(d.Record), d.Record.Kind), false)
	}
	if len(m.last.Discoveries) > 0 {
		m.logbook.SetContent(strings.Join(m.entries, "\n"))
		m.logbook.GotoBottom()
	}

	if m.notice != "" && !now.Before(m.noticeUntil) {
		m.notice = ""
	}
	if m.autosave > 0 && now.Sub(m.lastSave) >= m.autosave {
		m.persist()
	}
}

// persist saves a snapshot if a saver is configured. It reports success.
func (m *Model) persist() bool {
	if m.save == nil {
		return false
	}
	m.lastSave = m.clock.Now()
	if err := m.save(m.Snapshot()); err != nil {
		m.saveErr = err
		m.logger.Error("Save failed", "error", err)
		m.notify("Save failed: "+err.Error(), true)
		return false
	}
	m.saveErr = nil
	m.logger.Debug("Saved", "records", m.universe.Ledger().Len())
	return true
}

func (m *Model) notify(text string, isError bool) {
	m.notice = text
	m.noticeError = isError
	m.noticeUntil = m.clock.Now().Add(noticeFor)
}

// Snapshot captures the exploration for saving.
func (m *Model) Snapshot() savefile.Snapshot {
	return savefile.Snapshot{
		Seed:      m.universe.Seed(),
		ObserverX: m.x,
		ObserverY: m.y,
		SavedAt:   m.clock.Now(),
		Records:   m.universe.Ledger().Records(),
	}
}

// Position returns the observer position.
func (m *Model) Position() (float64, float64) { return m.x, m.y }

// Zoom returns world units per map column.
func (m *Model) Zoom() float64 { return m.zoom }

// Notice returns the current notification, if any.
func (m *Model) Notice() string { return m.notice }

// Entries returns the logbook lines, oldest first.
func (m *Model) Entries() []string { return m.entries }

// Err returns the error of the most recent save.
func (m *Model) Err() error { return m.saveErr }

// View renders the explorer.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	header := HeaderStyle.Width(m.width).Render(m.headerLine())
	status := m.statusLine()
	helpView := m.help.View(m.keys)

	bodyHeight := m.height - lipgloss.Height(header) - lipgloss.Height(status) - lipgloss.Height(helpView) - 2
	bodyHeight = max(bodyHeight, 1)
	mapWidth := max(m.width-logbookWidth-4, 1)

	starmap := paneStyle.Width(mapWidth).Height(bodyHeight).
		Render(renderMap(m.universe.ActiveObjects(), m.x, m.y, m.zoom, mapWidth, bodyHeight))

	m.logbook.Width = logbookWidth
	m.logbook.Height = max(bodyHeight-1, 1)
	title := LogbookTitleStyle.Render(fmt.Sprintf("Logbook (%d)", len(m.entries)))
	logPane := paneStyle.Width(logbookWidth).Height(bodyHeight).
		Render(lipgloss.JoinVertical(lipgloss.Left, title, LogbookStyle.Render(m.logbook.View())))

	body := lipgloss.JoinHorizontal(lipgloss.Top, starmap, logPane)
	return lipgloss.JoinVertical(lipgloss.Left, header, body, status, helpView)
}

func (m *Model) headerLine() string {
	info := m.universe.Region(m.x, m.y)
	speed := math.Hypot(m.vx, m.vy)
	return fmt.Sprintf(" deepfield  seed %d  x %.0f y %.0f  %s %.0f%%  zoom %gu  speed %.0fu/s",
		m.universe.Seed(), m.x, m.y, info.Type, info.Influence*100, m.zoom, speed)
}

func (m *Model) statusLine() string {
	if m.notice != "" {
		if m.noticeError {
			return ErrorStyle.Render(m.notice)
		}
		return NoticeStyle.Render(m.notice)
	}
	return InfoStyle.Render(fmt.Sprintf("chunk %s  %d resident  elapsed %.1fs",
		m.last.Center, m.last.Resident, m.universe.Elapsed()))
}

func formatEntry(rec discovery.Record) string {
	return fmt.Sprintf("%s %-10.10s %s", rec.DiscoveredAt.Format("15:04:05"), rec.Kind, displayName(rec))
}

func displayName(rec discovery.Record) string {
	if rec.Name != "" {
		return rec.Name
	}
	return rec.ID
}
