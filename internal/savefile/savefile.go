// Package savefile persists the discovery ledger and observer position.
//
// Saves are CBOR with Core Deterministic Encoding, so the same logical state
// always produces the same bytes, and are replaced atomically on disk.
package savefile

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/lox/deepfield/internal/celestial"
	"github.com/lox/deepfield/internal/discovery"
)

// Version is the current save format.
const Version = 1

var (
	// ErrNotFound is returned by Load when no save exists at the path.
	ErrNotFound = errors.New("savefile: not found")
	// ErrVersion is returned by Load for a save written by another format
	// version.
	ErrVersion = errors.New("savefile: unsupported version")
)

// Snapshot is the persisted state of one exploration.
type Snapshot struct {
	Version   int
	Seed      int64
	ObserverX float64
	ObserverY float64
	SavedAt   time.Time
	Records   []discovery.Record
}

type wireSnapshot struct {
	Version   int          `cbor:"1,keyasint"`
	Seed      int64        `cbor:"2,keyasint"`
	ObserverX float64      `cbor:"3,keyasint"`
	ObserverY float64      `cbor:"4,keyasint"`
	SavedAt   int64        `cbor:"5,keyasint"`
	Records   []wireRecord `cbor:"6,keyasint"`
}

type wireRecord struct {
	ID           string `cbor:"1,keyasint"`
	Kind         string `cbor:"2,keyasint"`
	Name         string `cbor:"3,keyasint,omitempty"`
	DiscoveredAt int64  `cbor:"4,keyasint"`
	Discovered   bool   `cbor:"5,keyasint"`
}

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("savefile: CBOR encoder initialization failed: " + err.Error())
	}
	decMode, err = cbor.DecOptions{}.DecMode()
	if err != nil {
		panic("savefile: CBOR decoder initialization failed: " + err.Error())
	}
}

// Marshal encodes s. The version is always written as Version.
func Marshal(s Snapshot) ([]byte, error) {
	w := wireSnapshot{
		Version:   Version,
		Seed:      s.Seed,
		ObserverX: s.ObserverX,
		ObserverY: s.ObserverY,
		SavedAt:   unixNano(s.SavedAt),
		Records:   make([]wireRecord, 0, len(s.Records)),
	}
	for _, rec := range s.Records {
		w.Records = append(w.Records, wireRecord{
			ID:           rec.ID,
			Kind:         rec.Kind.String(),
			Name:         rec.Name,
			DiscoveredAt: unixNano(rec.DiscoveredAt),
			Discovered:   rec.Discovered,
		})
	}
	data, err := encMode.Marshal(w)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return data, nil
}

// Unmarshal decodes a snapshot written by Marshal.
func Unmarshal(data []byte) (Snapshot, error) {
	var w wireSnapshot
	if err := decMode.Unmarshal(data, &w); err != nil {
		return Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	if w.Version != Version {
		return Snapshot{}, fmt.Errorf("%w: %d", ErrVersion, w.Version)
	}

	s := Snapshot{
		Version:   w.Version,
		Seed:      w.Seed,
		ObserverX: w.ObserverX,
		ObserverY: w.ObserverY,
		SavedAt:   fromUnixNano(w.SavedAt),
		Records:   make([]discovery.Record, 0, len(w.Records)),
	}
	for _, rec := range w.Records {
		kind, ok := celestial.ParseKind(rec.Kind)
		if !ok {
			return Snapshot{}, fmt.Errorf("decode snapshot: record %q has unknown kind %q", rec.ID, rec.Kind)
		}
		s.Records = append(s.Records, discovery.Record{
			ID:           rec.ID,
			Kind:         kind,
			Name:         rec.Name,
			DiscoveredAt: fromUnixNano(rec.DiscoveredAt),
			Discovered:   rec.Discovered,
		})
	}
	return s, nil
}

// Save writes s to path atomically.
func Save(path string, s Snapshot) error {
	data, err := Marshal(s)
	if err != nil {
		return err
	}
	if err := writeAtomic(path, data, 0o644); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

// Load reads the snapshot at path. A missing file returns ErrNotFound.
func Load(path string) (Snapshot, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Snapshot{}, ErrNotFound
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("read %s: %w", path, err)
	}
	s, err := Unmarshal(data)
	if err != nil {
		return Snapshot{}, fmt.Errorf("load %s: %w", path, err)
	}
	return s, nil
}

func unixNano(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixNano()
}

func fromUnixNano(n int64) time.Time {
	if n == 0 {
		return time.Time{}
	}
	return time.Unix(0, n).UTC()
}
