package spectral

import (
	"context"
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/askiada/go-procgraph/pkg/pipeline"
)

const (
	Unnormalized = "unnormalized"
	Symmetric    = "symmetric"
)

// GraphLaplacian turns an affinity matrix W with degrees D into L = D - W, or with the symmetric
// normalization into L = I - D^-1/2 W D^-1/2. Isolated samples keep a unit diagonal in the latter.
var GraphLaplacian = pipeline.NewKind("GraphLaplacian", Laplacian).
	Param(pipeline.ParamOf("normalization", Symmetric)).
	Prepare(checkNormalization).
	Process(laplacian).
	MustBuild()

func checkNormalization(p *pipeline.Processor) error {
	switch norm := pipeline.Get[string](p, "normalization"); norm {
	case Unnormalized, Symmetric:
		return nil
	default:
		return errors.Wrapf(ErrInvalidParam, "normalization must be %q or %q, got %q", Unnormalized, Symmetric, norm)
	}
}

func laplacian(_ context.Context, p *pipeline.Processor, data any) (any, error) {
	w, err := toSym(data)
	if err != nil {
		return nil, err
	}

	n := w.SymmetricDim()
	degree := make([]float64, n)
	for i := range n {
		for j := range n {
			if j != i {
				degree[i] += w.At(i, j)
			}
		}
	}

	out := mat.NewSymDense(n, nil)
	if pipeline.Get[string](p, "normalization") == Unnormalized {
		for i := range n {
			out.SetSym(i, i, degree[i])
			for j := i + 1; j < n; j++ {
				out.SetSym(i, j, -w.At(i, j))
			}
		}

		return out, nil
	}

	invSqrt := make([]float64, n)
	for i, d := range degree {
		if d > 0 {
			invSqrt[i] = 1 / math.Sqrt(d)
		}
	}
	for i := range n {
		out.SetSym(i, i, 1)
		for j := i + 1; j < n; j++ {
			out.SetSym(i, j, -w.At(i, j)*invSqrt[i]*invSqrt[j])
		}
	}

	return out, nil
}
