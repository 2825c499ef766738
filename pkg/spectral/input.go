package spectral

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/askiada/go-procgraph/pkg/pipeline"
)

// toDense accepts samples as a *mat.Dense, any mat.Matrix or rows of floats.
func toDense(data any) (*mat.Dense, error) {
	switch val := data.(type) {
	case *mat.Dense:
		if val == nil || val.IsEmpty() {
			return nil, ErrEmptyInput
		}

		return val, nil
	case [][]float64:
		if len(val) == 0 || len(val[0]) == 0 {
			return nil, ErrEmptyInput
		}
		cols := len(val[0])
		m := mat.NewDense(len(val), cols, nil)
		for i, row := range val {
			if len(row) != cols {
				return nil, errors.Wrapf(ErrRaggedInput, "row %d has %d values, want %d", i, len(row), cols)
			}
			m.SetRow(i, row)
		}

		return m, nil
	case mat.Matrix:
		if r, c := val.Dims(); r == 0 || c == 0 {
			return nil, ErrEmptyInput
		}

		return mat.DenseCopyOf(val), nil
	default:
		return nil, errors.Wrapf(pipeline.ErrDataType, "got %T, want samples", data)
	}
}

func toSym(data any) (*mat.SymDense, error) {
	switch val := data.(type) {
	case *mat.SymDense:
		if val == nil || val.IsEmpty() {
			return nil, ErrEmptyInput
		}

		return val, nil
	case mat.Symmetric:
		n := val.SymmetricDim()
		if n == 0 {
			return nil, ErrEmptyInput
		}
		sym := mat.NewSymDense(n, nil)
		sym.CopySym(val)

		return sym, nil
	default:
		return nil, errors.Wrapf(pipeline.ErrDataType, "got %T, want a symmetric matrix", data)
	}
}

func positive(names ...string) func(p *pipeline.Processor) error {
	return func(p *pipeline.Processor) error {
		for _, name := range names {
			if v := pipeline.Get[int](p, name); v < 1 {
				return errors.Wrapf(ErrInvalidParam, "%s must be positive, got %d", name, v)
			}
		}

		return nil
	}
}
