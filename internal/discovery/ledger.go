// Package discovery derives stable identities for celestial objects and keeps
// the ledger of what the observer has found.
//
// The ledger is keyed by identity, never by chunk, so it is untouched by chunk
// eviction. Freshly generated objects look themselves up with
// RestoreDiscoveryState to pick their Discovered flag back up.
package discovery

import (
	"io"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/deepfield/internal/celestial"
)

// Record is one ledger entry.
type Record struct {
	ID           string
	Kind         celestial.Kind
	Name         string
	DiscoveredAt time.Time
	Discovered   bool
}

// Ledger stores discovery records. Records are never removed. All methods
// are safe for concurrent use.
type Ledger struct {
	mu      sync.Mutex
	records map[string]Record
	clock   quartz.Clock
	logger  *log.Logger
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithClock sets the clock used to timestamp discoveries.
func WithClock(clock quartz.Clock) Option {
	return func(l *Ledger) {
		if clock != nil {
			l.clock = clock
		}
	}
}

// WithLogger sets the ledger logger.
func WithLogger(logger *log.Logger) Option {
	return func(l *Ledger) {
		if logger != nil {
			l.logger = logger.WithPrefix("discovery")
		}
	}
}

// NewLedger creates an empty ledger.
func NewLedger(opts ...Option) *Ledger {
	l := &Ledger{
		records: make(map[string]Record),
		clock:   quartz.NewReal(),
		logger:  log.NewWithOptions(io.Discard, log.Options{}),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// CheckDiscovery reports whether the observer at (x, y) has just come within
// obj's discovery radius. It returns true once per object: the in-memory
// Discovered flag is set on success and a flagged object never reports
// again. An object the ledger already knows is flagged silently.
func (l *Ledger) CheckDiscovery(obj celestial.Object, x, y float64) bool {
	b := obj.Base()
	if b.Discovered {
		return false
	}
	if b.DistanceTo(x, y) > b.DiscoveryRadius {
		return false
	}
	if l.IsDiscovered(obj) {
		b.Discovered = true
		return false
	}
	b.Discovered = true
	return true
}

// MarkDiscovered records obj under its identity, replacing any earlier
// record. The display name defaults to the object's own name.
func (l *Ledger) MarkDiscovered(obj celestial.Object, name ...string) Record {
	b := obj.Base()
	b.Discovered = true

	rec := Record{
		ID:           IdentityOf(obj),
		Kind:         obj.Kind(),
		Name:         b.Name,
		DiscoveredAt: l.clock.Now(),
		Discovered:   true,
	}
	if len(name) > 0 && name[0] != "" {
		rec.Name = name[0]
	}

	l.mu.Lock()
	l.records[rec.ID] = rec
	total := len(l.records)
	l.mu.Unlock()

	l.logger.Info("Discovered", "kind", rec.Kind, "name", rec.Name, "id", rec.ID, "total", total)
	return rec
}

// IsDiscovered reports whether the ledger holds a discovered record for obj.
func (l *Ledger) IsDiscovered(obj celestial.Object) bool {
	rec, ok := l.Lookup(IdentityOf(obj))
	return ok && rec.Discovered
}

// RestoreDiscoveryState flags every object the ledger already knows and
// returns how many were flagged.
func (l *Ledger) RestoreDiscoveryState(objects []celestial.Object) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	restored := 0
	for _, obj := range objects {
		if rec, ok := l.records[IdentityOf(obj)]; ok && rec.Discovered {
			obj.Base().Discovered = true
			restored++
		}
	}
	return restored
}

// Lookup returns the record stored under id.
func (l *Ledger) Lookup(id string) (Record, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	rec, ok := l.records[id]
	return rec, ok
}

// Len returns the number of records.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.records)
}

// Records returns every record, oldest discovery first.
func (l *Ledger) Records() []Record {
	l.mu.Lock()
	out := make([]Record, 0, len(l.records))
	for _, rec := range l.records {
		out = append(out, rec)
	}
	l.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].DiscoveredAt.Equal(out[j].DiscoveredAt) {
			return out[i].DiscoveredAt.Before(out[j].DiscoveredAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// CountByKind returns how many records exist per kind.
func (l *Ledger) CountByKind() map[celestial.Kind]int {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make(map[celestial.Kind]int)
	for _, rec := range l.records {
		out[rec.Kind]++
	}
	return out
}

// Load merges persisted records into the ledger and returns how many were
// added. Records with an empty identity are ignored; an identity already
// present keeps its in-memory record.
func (l *Ledger) Load(records []Record) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	added := 0
	for _, rec := range records {
		if rec.ID == "" {
			continue
		}
		if _, ok := l.records[rec.ID]; ok {
			continue
		}
		l.records[rec.ID] = rec
		added++
	}
	if added > 0 {
		l.logger.Debug("Loaded records", "added", added, "total", len(l.records))
	}
	return added
}
