package spectral_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-procgraph/pkg/pipeline"
	"github.com/askiada/go-procgraph/pkg/spectral"
	"github.com/askiada/go-procgraph/pkg/storage"
	"github.com/askiada/go-procgraph/pkg/storage/memory"
)

func threeGroups() [][]float64 {
	return [][]float64{
		{9, 9}, {9.1, 9}, {9, 9.2},
		{0, 0}, {0.2, 0}, {0, 0.1},
		{-5, 4}, {-5.1, 4.1}, {-4.9, 4},
	}
}

func TestKMeans(t *testing.T) {
	t.Parallel()

	proc := spectral.KMeans.MustNew(pipeline.Args{"n_clusters": 3, "seed": uint64(7)})
	labels := call[[]int](t, proc, threeGroups())
	assert.Equal(t, []int{0, 0, 0, 1, 1, 1, 2, 2, 2}, labels)

	for _, seed := range []uint64{0, 1, 42} {
		a := call[[]int](t, spectral.KMeans.MustNew(pipeline.Args{"n_clusters": 2, "seed": seed, "n_init": 4}), threeGroups())
		b := call[[]int](t, spectral.KMeans.MustNew(pipeline.Args{"n_clusters": 2, "seed": seed, "n_init": 4}), threeGroups())
		assert.Equal(t, a, b, "seed %d", seed)
		assert.Equal(t, 0, a[0], "labels are numbered by first appearance")
	}

	single := call[[]int](t, spectral.KMeans.MustNew(pipeline.Args{"n_clusters": 1, "n_init": 1, "max_iter": 1}), threeGroups())
	assert.Equal(t, make([]int, 9), single)

	same := call[[]int](t, spectral.KMeans.MustNew(pipeline.Args{"n_clusters": 2}), [][]float64{{1, 1}, {1, 1}, {1, 1}})
	assert.Len(t, same, 3)
}

func TestKMeansErrors(t *testing.T) {
	t.Parallel()

	for name, args := range map[string]pipeline.Args{
		"no clusters":     {"n_clusters": 0},
		"no restarts":     {"n_clusters": 2, "n_init": 0},
		"no iterations":   {"n_clusters": 2, "max_iter": -1},
		"negative tol":    {"n_clusters": 2, "tol": -1.0},
		"missing cluster": nil,
		"signed seed":     {"n_clusters": 2, "seed": 3},
	} {
		_, err := spectral.KMeans.New(args)
		assert.ErrorIs(t, err, pipeline.ErrType, name)
	}

	proc := spectral.KMeans.MustNew(pipeline.Args{"n_clusters": 4})
	_, err := proc.Call(context.Background(), [][]float64{{1}, {2}})
	assert.ErrorIs(t, err, spectral.ErrTooFewSamples)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = spectral.KMeans.MustNew(pipeline.Args{"n_clusters": 2}).Call(ctx, threeGroups())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestKMeansStorage(t *testing.T) {
	t.Parallel()

	s := memory.New()
	proc := spectral.KMeans.MustNew(pipeline.Args{"n_clusters": 3, "storage": s})
	labels := call[[]int](t, proc, threeGroups())

	stored, err := storage.ReadLabels(context.Background(), s, "labels")
	require.NoError(t, err)
	assert.Equal(t, labels, stored)

	keyed, err := proc.With(pipeline.Args{"key": "run-1/labels"})
	require.NoError(t, err)
	call[[]int](t, keyed, threeGroups())

	keys, err := s.Keys(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, []string{"labels", "run-1/labels"}, keys)
}
