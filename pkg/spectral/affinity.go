package spectral

import (
	"cmp"
	"context"
	"math"
	"reflect"
	"slices"

	"github.com/pkg/errors"
	"github.com/spf13/cast"
	"gonum.org/v1/gonum/mat"

	"github.com/askiada/go-procgraph/pkg/pipeline"
)

var sigmaTypes = []reflect.Type{reflect.TypeFor[float64](), reflect.TypeFor[int]()}

// GaussianAffinity weights every pair of samples with exp(-d²/(2σ²)). A sample has no affinity with itself.
var GaussianAffinity = pipeline.NewKind("GaussianAffinity", Affinity).
	ParamTypes("sigma", 1.0, false, sigmaTypes...).
	Prepare(checkSigma).
	Process(gaussian).
	MustBuild()

// KNNAffinity keeps the gaussian weight of a pair only when one sample is among the n_neighbors
// nearest samples of the other.
var KNNAffinity = pipeline.NewKind("KNNAffinity", Affinity).
	Param(pipeline.ParamOf("n_neighbors", 10)).
	ParamTypes("sigma", 1.0, false, sigmaTypes...).
	Prepare(checkSigma).
	Prepare(positive("n_neighbors")).
	Process(knn).
	MustBuild()

func sigma(p *pipeline.Processor) float64 {
	return cast.ToFloat64(p.Value("sigma"))
}

func checkSigma(p *pipeline.Processor) error {
	if s := sigma(p); s <= 0 || math.IsNaN(s) {
		return errors.Wrapf(ErrInvalidParam, "sigma must be positive, got %v", p.Value("sigma"))
	}

	return nil
}

func gaussianWeight(d, s float64) float64 {
	return math.Exp(-d * d / (2 * s * s))
}

func gaussian(_ context.Context, p *pipeline.Processor, data any) (any, error) {
	dist, err := toSym(data)
	if err != nil {
		return nil, err
	}
	s := sigma(p)

	n := dist.SymmetricDim()
	out := mat.NewSymDense(n, nil)
	for i := range n {
		for j := i + 1; j < n; j++ {
			out.SetSym(i, j, gaussianWeight(dist.At(i, j), s))
		}
	}

	return out, nil
}

func knn(_ context.Context, p *pipeline.Processor, data any) (any, error) {
	dist, err := toSym(data)
	if err != nil {
		return nil, err
	}
	s := sigma(p)

	n := dist.SymmetricDim()
	k := min(pipeline.Get[int](p, "n_neighbors"), n-1)
	neighbors := make([][]bool, n)
	order := make([]int, 0, n)
	for i := range n {
		order = order[:0]
		for j := range n {
			if j != i {
				order = append(order, j)
			}
		}
		slices.SortFunc(order, func(a, b int) int {
			return cmp.Or(cmp.Compare(dist.At(i, a), dist.At(i, b)), cmp.Compare(a, b))
		})
		neighbors[i] = make([]bool, n)
		for _, j := range order[:k] {
			neighbors[i][j] = true
		}
	}

	out := mat.NewSymDense(n, nil)
	for i := range n {
		for j := i + 1; j < n; j++ {
			if neighbors[i][j] || neighbors[j][i] {
				out.SetSym(i, j, gaussianWeight(dist.At(i, j), s))
			}
		}
	}

	return out, nil
}
