package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/lox/deepfield/internal/celestial"
	"github.com/lox/deepfield/internal/discovery"
	"github.com/lox/deepfield/internal/savefile"
)

// LedgerCmd lists the discoveries in a save file.
type LedgerCmd struct {
	Kind  string `help:"Only list records of this kind"`
	Limit int    `default:"0" help:"Show at most this many records (0 for all)"`
}

func (c *LedgerCmd) Run(g *Globals) error {
	s, err := g.setup(os.Stderr)
	if err != nil {
		return err
	}

	var kind celestial.Kind
	if c.Kind != "" {
		k, ok := celestial.ParseKind(c.Kind)
		if !ok {
			return fmt.Errorf("unknown kind %q", c.Kind)
		}
		kind = k
	}

	snap, err := savefile.Load(s.cfg.Save.Path)
	if err != nil {
		return err
	}
	ledger := discovery.NewLedger(discovery.WithLogger(s.logger))
	ledger.Load(snap.Records)

	printTitle(os.Stdout, "Logbook %s (seed %d)", s.cfg.Save.Path, snap.Seed)
	fmt.Printf("observer: %.0f, %.0f  saved: %s\n\n", snap.ObserverX, snap.ObserverY, snap.SavedAt.Local().Format("2006-01-02 15:04:05"))

	records := newTable("Discovered", "Kind", "Name", "Identity")
	shown := 0
	for _, rec := range ledger.Records() {
		if kind != 0 && rec.Kind != kind {
			continue
		}
		if c.Limit > 0 && shown >= c.Limit {
			break
		}
		records.Row(rec.DiscoveredAt.Local().Format("2006-01-02 15:04:05"), rec.Kind.String(), rec.Name, rec.ID)
		shown++
	}
	fmt.Println(records.Render())

	counts := newTable("Kind", "Discovered")
	byKind := ledger.CountByKind()
	for _, k := range celestial.Kinds() {
		if n := byKind[k]; n > 0 {
			counts.Row(k.String(), strconv.Itoa(n))
		}
	}
	fmt.Println(counts.Render())
	fmt.Printf("total: %d\n", ledger.Len())
	return nil
}
