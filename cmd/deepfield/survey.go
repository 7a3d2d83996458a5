package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/lox/deepfield/internal/celestial"
	"github.com/lox/deepfield/internal/region"
	"github.com/lox/deepfield/internal/spatial"
	"github.com/lox/deepfield/internal/survey"
)

// SurveyCmd generates a grid of chunks and counts what it finds.
type SurveyCmd struct {
	X       int64 `help:"Lowest chunk X of the grid" default:"-8"`
	Y       int64 `help:"Lowest chunk Y of the grid" default:"-8"`
	Width   int   `help:"Grid width in chunks" default:"16"`
	Height  int   `help:"Grid height in chunks" default:"16"`
	Workers int   `short:"j" help:"Parallel workers (0 for one per CPU)" default:"0"`
}

func (c *SurveyCmd) Run(g *Globals) error {
	s, err := g.setup(os.Stderr)
	if err != nil {
		return err
	}
	ctx, cancel := setupSignalHandler(s.logger)
	defer cancel()

	start := time.Now()
	res, err := survey.Run(ctx, survey.Config{
		Seed:      s.seed,
		Origin:    spatial.ChunkCoord{X: c.X, Y: c.Y},
		Width:     c.Width,
		Height:    c.Height,
		ChunkSize: s.cfg.Universe.ChunkSize,
		Workers:   c.Workers,
		Logger:    s.logger,
	})
	if err != nil {
		return err
	}
	took := time.Since(start)

	printTitle(os.Stdout, "Survey of %dx%d chunks from %d,%d (seed %d)", c.Width, c.Height, c.X, c.Y, s.seed)

	kinds := newTable("Kind", "Count", "Per chunk")
	for _, k := range celestial.Kinds() {
		n := res.ByKind[k]
		kinds.Row(k.String(), strconv.Itoa(n), fmt.Sprintf("%.3f", float64(n)/float64(res.Chunks)))
	}
	fmt.Println(kinds.Render())

	regions := newTable("Region", "Chunks", "Share")
	for _, t := range region.Types() {
		n := res.ByRegion[t]
		regions.Row(t.String(), strconv.Itoa(n), fmt.Sprintf("%.1f%%", 100*float64(n)/float64(res.Chunks)))
	}
	fmt.Println(regions.Render())

	fmt.Printf("chunks: %d  objects: %d  exports: %d  skipped placements: %d\n",
		res.Chunks, res.Objects, res.Exports, res.Skipped)
	fmt.Printf("densest: chunk %s with %d objects\n", res.Densest, res.DensestCount)
	fmt.Printf("digest: %s\n", res.Digest)
	fmt.Printf("took: %s\n", took.Round(time.Millisecond))
	return nil
}
