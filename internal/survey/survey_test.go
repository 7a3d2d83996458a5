package survey

import (
	"context"
	"testing"

	"github.com/lox/deepfield/internal/celestial"
	"github.com/lox/deepfield/internal/region"
	"github.com/lox/deepfield/internal/spatial"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func grid(workers int) Config {
	return Config{
		Seed:    42,
		Origin:  spatial.ChunkCoord{X: -4, Y: -3},
		Width:   8,
		Height:  6,
		Workers: workers,
	}
}

func TestRunIsIndependentOfWorkerCount(t *testing.T) {
	t.Parallel()

	base, err := Run(context.Background(), grid(1))
	require.NoError(t, err)
	assert.Equal(t, 48, base.Chunks)

	for _, workers := range []int{2, 3, 8, 64} {
		res, err := Run(context.Background(), grid(workers))
		require.NoError(t, err)
		assert.Equal(t, base, res, "workers=%d", workers)
	}
}

func TestRunCounts(t *testing.T) {
	t.Parallel()

	res, err := Run(context.Background(), grid(4))
	require.NoError(t, err)

	total := 0
	for _, n := range res.ByRegion {
		total += n
	}
	assert.Equal(t, res.Chunks, total)

	kinds := 0
	for _, n := range res.ByKind {
		kinds += n
	}
	assert.Equal(t, res.Objects+res.Exports, kinds)
	assert.Equal(t, res.ByKind[celestial.KindWormhole] > 0, res.Exports > 0)
	assert.GreaterOrEqual(t, res.DensestCount, 0)
	assert.GreaterOrEqual(t, res.Densest.X, int64(-4))
	assert.Less(t, res.Densest.X, int64(4))
}

func TestRunSeedChangesDigest(t *testing.T) {
	t.Parallel()

	a, err := Run(context.Background(), grid(2))
	require.NoError(t, err)
	cfg := grid(2)
	cfg.Seed = 43
	b, err := Run(context.Background(), cfg)
	require.NoError(t, err)
	assert.NotEqual(t, a.Digest, b.Digest)
}

func TestRunEmptyGrid(t *testing.T) {
	t.Parallel()

	_, err := Run(context.Background(), Config{Width: 0, Height: 3})
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestRunCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Run(ctx, grid(2))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunRegionTypesKnown(t *testing.T) {
	t.Parallel()

	res, err := Run(context.Background(), grid(2))
	require.NoError(t, err)
	for typ := range res.ByRegion {
		_, ok := region.ParseType(typ.String())
		assert.True(t, ok, typ.String())
	}
}
