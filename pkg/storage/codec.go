package storage

import (
	"context"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// WriteDense stores m under key.
func WriteDense(ctx context.Context, s Storage, key string, m *mat.Dense) error {
	value, err := m.MarshalBinary()
	if err != nil {
		return errors.Wrapf(err, "unable to encode matrix %s", key)
	}

	return s.Write(ctx, key, value)
}

// ReadDense reads the matrix stored under key.
func ReadDense(ctx context.Context, s Storage, key string) (*mat.Dense, error) {
	value, err := s.Read(ctx, key)
	if err != nil {
		return nil, err
	}

	var m mat.Dense
	err = m.UnmarshalBinary(value)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to decode matrix %s", key)
	}

	return &m, nil
}

// WriteLabels stores cluster labels under key.
func WriteLabels(ctx context.Context, s Storage, key string, labels []int) error {
	if len(labels) == 0 {
		return s.Write(ctx, key, nil)
	}
	data := make([]float64, len(labels))
	for i, l := range labels {
		data[i] = float64(l)
	}
	value, err := mat.NewVecDense(len(data), data).MarshalBinary()
	if err != nil {
		return errors.Wrapf(err, "unable to encode labels %s", key)
	}

	return s.Write(ctx, key, value)
}

// ReadLabels reads the cluster labels stored under key.
func ReadLabels(ctx context.Context, s Storage, key string) ([]int, error) {
	value, err := s.Read(ctx, key)
	if err != nil {
		return nil, err
	}
	if len(value) == 0 {
		return []int{}, nil
	}

	var vec mat.VecDense
	err = vec.UnmarshalBinary(value)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to decode labels %s", key)
	}
	labels := make([]int, vec.Len())
	for i := range labels {
		labels[i] = int(vec.AtVec(i))
	}

	return labels, nil
}
