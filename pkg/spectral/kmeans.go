package spectral

import (
	"context"
	"math"
	"math/rand/v2"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/sampleuv"

	"github.com/askiada/go-procgraph/pkg/pipeline"
	"github.com/askiada/go-procgraph/pkg/storage"
)

// KMeans partitions samples into n_clusters clusters. It runs n_init restarts concurrently, each
// seeded with k-means++ from its own PCG source derived from seed, and keeps the partition with the
// lowest inertia, the earliest restart on ties. A restart stops after max_iter iterations or once the
// total squared shift of the centers is at most tol. Labels are numbered in order of first appearance.
// When storage is set the labels are also written under key.
var KMeans = pipeline.NewKind("KMeans", Clustering).
	Param(
		pipeline.MandatoryOf[int]("n_clusters"),
		pipeline.ParamOf("n_init", 10),
		pipeline.ParamOf("max_iter", 300),
		pipeline.ParamOf("tol", 1e-4),
		pipeline.ParamOf[uint64]("seed", 0),
	).
	ParamTypes("storage", nil, false, storageType).
	Param(pipeline.ParamOf("key", "labels")).
	Prepare(positive("n_clusters", "n_init", "max_iter")).
	Prepare(checkTol).
	Process(clusterize).
	MustBuild()

func checkTol(p *pipeline.Processor) error {
	if tol := pipeline.Get[float64](p, "tol"); tol < 0 || math.IsNaN(tol) {
		return errors.Wrapf(ErrInvalidParam, "tol must not be negative, got %v", tol)
	}

	return nil
}

type partition struct {
	labels  []int
	inertia float64
}

func clusterize(ctx context.Context, p *pipeline.Processor, data any) (any, error) {
	x, err := toDense(data)
	if err != nil {
		return nil, err
	}

	k := pipeline.Get[int](p, "n_clusters")
	n, _ := x.Dims()
	if k > n {
		return nil, errors.Wrapf(ErrTooFewSamples, "%d clusters from %d samples", k, n)
	}

	maxIter := pipeline.Get[int](p, "max_iter")
	tol := pipeline.Get[float64](p, "tol")
	seed := pipeline.Get[uint64](p, "seed")

	results := make([]partition, pipeline.Get[int](p, "n_init"))
	group, gctx := errgroup.WithContext(ctx)
	for i := range results {
		group.Go(func() error {
			res, err := lloyd(gctx, x, k, maxIter, tol, rand.NewPCG(seed, uint64(i)))
			if err != nil {
				return errors.Wrapf(err, "restart %d", i)
			}
			results[i] = res

			return nil
		})
	}
	err = group.Wait()
	if err != nil {
		return nil, err
	}

	best := 0
	for i := 1; i < len(results); i++ {
		if results[i].inertia < results[best].inertia {
			best = i
		}
	}
	labels := relabel(results[best].labels)

	if s := pipeline.Get[storage.Storage](p, "storage"); s != nil {
		err = storage.WriteLabels(ctx, s, pipeline.Get[string](p, "key"), labels)
		if err != nil {
			return nil, errors.Wrap(err, "unable to store labels")
		}
	}

	return labels, nil
}

func lloyd(ctx context.Context, x *mat.Dense, k, maxIter int, tol float64, src rand.Source) (partition, error) {
	n, _ := x.Dims()
	centers := seedCenters(x, k, src)
	labels := make([]int, n)

	for range maxIter {
		if err := ctx.Err(); err != nil {
			return partition{}, err
		}
		assign(x, centers, labels)
		next := updateCenters(x, centers, labels)

		shift := 0.0
		for c := range k {
			shift += sqDist(centers.RawRowView(c), next.RawRowView(c))
		}
		centers = next
		if shift <= tol {
			break
		}
	}

	return partition{labels: labels, inertia: assign(x, centers, labels)}, nil
}

// seedCenters picks the first center uniformly and every other center with a probability
// proportional to its squared distance to the nearest center already picked.
func seedCenters(x *mat.Dense, k int, src rand.Source) *mat.Dense {
	n, d := x.Dims()
	rnd := rand.New(src)
	centers := mat.NewDense(k, d, nil)
	centers.SetRow(0, x.RawRowView(rnd.IntN(n)))

	closest := make([]float64, n)
	for i := range n {
		closest[i] = sqDist(x.RawRowView(i), centers.RawRowView(0))
	}
	weighted := sampleuv.NewWeighted(closest, src)
	for c := 1; c < k; c++ {
		idx, ok := weighted.Take()
		if !ok {
			// every sample sits on a center already
			idx = rnd.IntN(n)
		}
		centers.SetRow(c, x.RawRowView(idx))
		for i := range n {
			closest[i] = min(closest[i], sqDist(x.RawRowView(i), centers.RawRowView(c)))
		}
		weighted.ReweightAll(closest)
	}

	return centers
}

// assign sets the label of every sample to its nearest center, the lowest index on ties, and returns the inertia.
func assign(x, centers *mat.Dense, labels []int) float64 {
	k, _ := centers.Dims()
	inertia := 0.0
	for i := range labels {
		row := x.RawRowView(i)
		best, bestDist := 0, math.Inf(1)
		for c := range k {
			if dist := sqDist(row, centers.RawRowView(c)); dist < bestDist {
				best, bestDist = c, dist
			}
		}
		labels[i] = best
		inertia += bestDist
	}

	return inertia
}

// updateCenters moves every center to the mean of its samples. A center without samples stays where it is.
func updateCenters(x, centers *mat.Dense, labels []int) *mat.Dense {
	k, d := centers.Dims()
	next := mat.NewDense(k, d, nil)
	counts := make([]int, k)
	for i, label := range labels {
		floats.Add(next.RawRowView(label), x.RawRowView(i))
		counts[label]++
	}
	for c, count := range counts {
		if count == 0 {
			next.SetRow(c, centers.RawRowView(c))
			continue
		}
		floats.Scale(1/float64(count), next.RawRowView(c))
	}

	return next
}

func sqDist(a, b []float64) float64 {
	d := floats.Distance(a, b, 2)
	return d * d
}

func relabel(labels []int) []int {
	ids := make(map[int]int)
	out := make([]int, len(labels))
	for i, label := range labels {
		id, ok := ids[label]
		if !ok {
			id = len(ids)
			ids[label] = id
		}
		out[i] = id
	}

	return out
}
