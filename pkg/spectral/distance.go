package spectral

import (
	"context"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/askiada/go-procgraph/pkg/pipeline"
)

// EuclideanDistance turns n samples into the n×n matrix of their euclidean distances.
var EuclideanDistance = pipeline.NewKind("EuclideanDistance", Distance).
	Param(pipeline.ParamOf("squared", false)).
	Process(euclidean).
	MustBuild()

// CosineDistance turns n samples into the n×n matrix of 1 - cos(angle) between them.
// A zero sample is at distance 1 of every other sample.
var CosineDistance = pipeline.NewKind("CosineDistance", Distance).
	Process(cosine).
	MustBuild()

func euclidean(_ context.Context, p *pipeline.Processor, data any) (any, error) {
	x, err := toDense(data)
	if err != nil {
		return nil, err
	}
	squared := pipeline.Get[bool](p, "squared")

	return pairwise(x, func(a, b []float64) float64 {
		d := floats.Distance(a, b, 2)
		if squared {
			return d * d
		}

		return d
	}), nil
}

func cosine(_ context.Context, _ *pipeline.Processor, data any) (any, error) {
	x, err := toDense(data)
	if err != nil {
		return nil, err
	}

	return pairwise(x, func(a, b []float64) float64 {
		na, nb := floats.Norm(a, 2), floats.Norm(b, 2)
		if na == 0 || nb == 0 {
			return 1
		}

		return max(0, 1-floats.Dot(a, b)/(na*nb))
	}), nil
}

func pairwise(x *mat.Dense, dist func(a, b []float64) float64) *mat.SymDense {
	n, _ := x.Dims()
	out := mat.NewSymDense(n, nil)
	for i := range n {
		for j := i + 1; j < n; j++ {
			out.SetSym(i, j, dist(x.RawRowView(i), x.RawRowView(j)))
		}
	}

	return out
}
