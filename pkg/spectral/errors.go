package spectral

import (
	"github.com/pkg/errors"

	"github.com/askiada/go-procgraph/pkg/pipeline"
)

var (
	ErrInvalidParam  = errors.WithMessage(pipeline.ErrType, "invalid param value")
	ErrEmptyInput    = errors.WithMessage(pipeline.ErrDataType, "input has no samples")
	ErrRaggedInput   = errors.WithMessage(pipeline.ErrDataType, "input rows have different lengths")
	ErrTooFewSamples = errors.New("not enough samples")
	ErrNoConvergence = errors.New("eigen decomposition did not converge")
)
