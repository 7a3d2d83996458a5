// Package survey generates a rectangular grid of chunks in parallel and
// summarises what it finds.
package survey

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"

	"github.com/charmbracelet/log"
	"github.com/lox/deepfield/internal/celestial"
	"github.com/lox/deepfield/internal/chunk"
	"github.com/lox/deepfield/internal/gen"
	"github.com/lox/deepfield/internal/region"
	"github.com/lox/deepfield/internal/spatial"
	"github.com/zeebo/blake3"
	"golang.org/x/sync/errgroup"
)

// MaxWorkers caps the worker count.
const MaxWorkers = 16

// ErrEmpty is returned for a grid with no chunks.
var ErrEmpty = errors.New("survey: empty grid")

// Config describes the grid. Origin is the lowest coordinate; Width and
// Height are in chunks.
type Config struct {
	Seed      int64
	Origin    spatial.ChunkCoord
	Width     int
	Height    int
	ChunkSize float64
	Workers   int
	Rates     *gen.Rates
	Logger    *log.Logger
}

// Result summarises a survey.
type Result struct {
	Chunks   int
	Objects  int
	Skipped  int
	Exports  int
	ByKind   map[celestial.Kind]int
	ByRegion map[region.Type]int
	// Densest is the chunk holding the most objects, lowest coordinate first
	// on ties.
	Densest      spatial.ChunkCoord
	DensestCount int
	// Digest covers every chunk digest in row-major order, so it does not
	// depend on the worker count.
	Digest chunk.Digest
}

type rowResult struct {
	row    int
	chunks []*chunk.Chunk
}

// Run surveys the grid. Each worker owns its own classifier and generator,
// and rows are interleaved across workers.
func Run(ctx context.Context, cfg Config) (*Result, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, ErrEmpty
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	logger = logger.WithPrefix("survey")

	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	workers = min(workers, MaxWorkers, cfg.Height)

	g, ctx := errgroup.WithContext(ctx)
	results := make(chan rowResult, workers)

	for w := 0; w < workers; w++ {
		g.Go(func() error {
			generator := newGenerator(cfg, logger)
			for row := w; row < cfg.Height; row += workers {
				if err := ctx.Err(); err != nil {
					return err
				}
				rr := rowResult{row: row, chunks: make([]*chunk.Chunk, 0, cfg.Width)}
				for col := 0; col < cfg.Width; col++ {
					c := generator.Generate(cfg.Origin.Add(int64(col), int64(row)))
					c.Seal()
					rr.chunks = append(rr.chunks, c)
				}
				select {
				case results <- rr:
				case <-ctx.Done():
					return ctx.Err()
				}
			}
			return nil
		})
	}

	go func() {
		defer close(results)
		_ = g.Wait()
	}()

	rows := make([][]*chunk.Chunk, cfg.Height)
	for rr := range results {
		rows[rr.row] = rr.chunks
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("survey: %w", err)
	}

	res := summarise(rows)
	logger.Debug("Survey complete",
		"chunks", res.Chunks, "objects", res.Objects, "workers", workers, "digest", res.Digest)
	return res, nil
}

func newGenerator(cfg Config, logger *log.Logger) *gen.Generator {
	opts := []gen.Option{gen.WithLogger(logger)}
	if cfg.ChunkSize > 0 {
		opts = append(opts, gen.WithChunkSize(cfg.ChunkSize))
	}
	if cfg.Rates != nil {
		opts = append(opts, gen.WithRates(*cfg.Rates))
	}
	return gen.New(cfg.Seed, region.NewClassifier(cfg.Seed), opts...)
}

func summarise(rows [][]*chunk.Chunk) *Result {
	res := &Result{
		ByKind:       make(map[celestial.Kind]int),
		ByRegion:     make(map[region.Type]int),
		DensestCount: -1,
	}
	h := blake3.New()
	for _, row := range rows {
		for _, c := range row {
			res.Chunks++
			res.Objects += len(c.Objects)
			res.Skipped += c.Skipped
			res.Exports += len(c.Exports)
			res.ByRegion[c.Region.Type]++
			for _, obj := range c.Objects {
				res.ByKind[obj.Kind()]++
			}
			for _, e := range c.Exports {
				res.ByKind[e.Object.Kind()]++
			}
			if len(c.Objects) > res.DensestCount {
				res.Densest, res.DensestCount = c.Coord, len(c.Objects)
			}
			d := c.Digest()
			_, _ = h.Write(d[:])
		}
	}
	copy(res.Digest[:], h.Sum(nil))
	return res
}
