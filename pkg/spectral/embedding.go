package spectral

import (
	"context"
	"math"
	"reflect"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/askiada/go-procgraph/pkg/pipeline"
	"github.com/askiada/go-procgraph/pkg/storage"
)

var storageType = reflect.TypeFor[storage.Storage]()

// SpectralEmbedding maps every sample to its coordinates on the eigenvectors of the n_components
// smallest eigenvalues of a laplacian. The sign of each eigenvector is fixed so that its largest
// component is positive. When storage is set the embedding is also written under key.
var SpectralEmbedding = pipeline.NewKind("SpectralEmbedding", Embedding).
	Param(
		pipeline.MandatoryOf[int]("n_components"),
		pipeline.ParamOf("drop_first", false),
		pipeline.ParamOf("normalize_rows", true),
	).
	ParamTypes("storage", nil, false, storageType).
	Param(pipeline.ParamOf("key", "embedding")).
	Prepare(positive("n_components")).
	Process(embed).
	MustBuild()

func embed(ctx context.Context, p *pipeline.Processor, data any) (any, error) {
	lap, err := toSym(data)
	if err != nil {
		return nil, err
	}

	n := lap.SymmetricDim()
	k := pipeline.Get[int](p, "n_components")
	first := 0
	if pipeline.Get[bool](p, "drop_first") {
		first = 1
	}
	if first+k > n {
		return nil, errors.Wrapf(ErrTooFewSamples, "%d components from %d samples", first+k, n)
	}

	var eigen mat.EigenSym
	if !eigen.Factorize(lap, true) {
		return nil, ErrNoConvergence
	}
	var vectors mat.Dense
	eigen.VectorsTo(&vectors)

	out := mat.NewDense(n, k, nil)
	col := make([]float64, n)
	for c := range k {
		mat.Col(col, first+c, &vectors)
		flipSign(col)
		out.SetCol(c, col)
	}

	if pipeline.Get[bool](p, "normalize_rows") {
		for i := range n {
			row := out.RawRowView(i)
			if norm := floats.Norm(row, 2); norm > 0 {
				floats.Scale(1/norm, row)
			}
		}
	}

	if s := pipeline.Get[storage.Storage](p, "storage"); s != nil {
		err = storage.WriteDense(ctx, s, pipeline.Get[string](p, "key"), out)
		if err != nil {
			return nil, errors.Wrap(err, "unable to store embedding")
		}
	}

	return out, nil
}

func flipSign(v []float64) {
	largest := 0
	for i, x := range v {
		if math.Abs(x) > math.Abs(v[largest]) {
			largest = i
		}
	}
	if v[largest] < 0 {
		floats.Scale(-1, v)
	}
}
