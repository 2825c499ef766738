package pipeline_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-procgraph/pkg/pipeline"
)

var scaleKind = pipeline.NewKind("Scale", nil).
	Param(pipeline.MandatoryOf[int]("factor")).
	Param(pipeline.ParamOf("offset", 0)).
	Process(func(_ context.Context, p *pipeline.Processor, data any) (any, error) {
		x, ok := data.(int)
		if !ok {
			return nil, pipeline.ErrDataType
		}
		return x*pipeline.Get[int](p, "factor") + pipeline.Get[int](p, "offset"), nil
	}).
	MustBuild()

func TestNewProcessor(t *testing.T) {
	t.Parallel()

	proc, err := scaleKind.New(pipeline.Args{"factor": 3})
	require.NoError(t, err)

	assert.Equal(t, 3, proc.Value("factor"))
	assert.Equal(t, 0, proc.Value("offset"))
	assert.Nil(t, proc.Value("is_output"))
	assert.Equal(t, false, proc.Value("is_checkpoint"))
	assert.False(t, proc.IsOutput())
	assert.False(t, proc.IsCheckpoint())
	assert.Nil(t, proc.CheckpointData())
	assert.True(t, proc.IsA(scaleKind))
	assert.True(t, proc.IsA(pipeline.ProcessorKind))
	assert.False(t, proc.IsA(pipeline.FunctionKind))

	got, err := proc.Call(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, 6, got)
}

func TestNewProcessorValidation(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		args    pipeline.Args
		wantErr error
	}{
		"missing mandatory": {args: pipeline.Args{}, wantErr: pipeline.ErrMissingParam},
		"nil mandatory":     {args: pipeline.Args{"factor": nil}, wantErr: pipeline.ErrMissingParam},
		"wrong type":        {args: pipeline.Args{"factor": "3"}, wantErr: pipeline.ErrParamType},
		"wrong inherited":   {args: pipeline.Args{"factor": 3, "is_checkpoint": 1}, wantErr: pipeline.ErrParamType},
		"unknown keyword":   {args: pipeline.Args{"factor": 3, "scale": 2}, wantErr: pipeline.ErrUnknownParam},
		"nil args":          {args: nil, wantErr: pipeline.ErrMissingParam},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			_, err := scaleKind.New(tc.args)
			assert.ErrorIs(t, err, tc.wantErr)
			assert.ErrorIs(t, err, pipeline.ErrType)
		})
	}
}

func TestNilKind(t *testing.T) {
	t.Parallel()

	var kind *pipeline.Kind
	_, err := kind.New(nil)
	assert.ErrorIs(t, err, pipeline.ErrKindMustBeSet)
}

func TestAbstractProcessor(t *testing.T) {
	t.Parallel()

	proc, err := pipeline.ProcessorKind.New(nil)
	require.NoError(t, err)

	_, err = proc.Call(context.Background(), 1)
	assert.ErrorIs(t, err, pipeline.ErrNotImplemented)
	assert.ErrorIs(t, err, pipeline.ErrState)
}

func TestProcessorCheckpoint(t *testing.T) {
	t.Parallel()

	proc, err := scaleKind.New(pipeline.Args{"factor": 2, "is_checkpoint": true})
	require.NoError(t, err)

	_, err = proc.Call(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, 8, proc.CheckpointData())

	_, err = proc.Call(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, 10, proc.CheckpointData())
}

func TestProcessorCallCanceled(t *testing.T) {
	t.Parallel()

	proc, err := scaleKind.New(pipeline.Args{"factor": 2})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = proc.Call(ctx, 1)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestProcessorCopy(t *testing.T) {
	t.Parallel()

	proc, err := scaleKind.New(pipeline.Args{"factor": 2, "is_checkpoint": true})
	require.NoError(t, err)
	proc.SetCheckpointData(100)

	cp := proc.Copy()
	assert.Equal(t, proc.Values(), cp.Values())
	assert.Equal(t, 100, cp.CheckpointData())

	_, err = proc.Call(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 2, proc.CheckpointData())
	assert.Equal(t, 100, cp.CheckpointData(), "copy keeps its own checkpoint data")
}

func TestProcessorCopyNested(t *testing.T) {
	t.Parallel()

	inner := newFunction(t, add(1), pipeline.Args{"is_checkpoint": true})
	seq, err := pipeline.Sequential(inner)
	require.NoError(t, err)

	cp := seq.Copy()
	_, err = seq.Call(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, 2, inner.CheckpointData())
	assert.Nil(t, cp.Children()[0].Processor.CheckpointData())
}

func TestProcessorWith(t *testing.T) {
	t.Parallel()

	proc, err := scaleKind.New(pipeline.Args{"factor": 2, "offset": 1})
	require.NoError(t, err)

	other, err := proc.With(pipeline.Args{"factor": 5})
	require.NoError(t, err)
	assert.Equal(t, 5, other.Value("factor"))
	assert.Equal(t, 1, other.Value("offset"))
	assert.Equal(t, 2, proc.Value("factor"))

	_, err = proc.With(pipeline.Args{"factor": 1.5})
	assert.ErrorIs(t, err, pipeline.ErrParamType)
}

func TestProcessorString(t *testing.T) {
	t.Parallel()

	proc, err := scaleKind.New(pipeline.Args{"factor": 2, "is_output": true})
	require.NoError(t, err)
	assert.Equal(t, "Scale(is_output=true, is_checkpoint=false, factor=2, offset=0)", proc.String())

	fn := newFunction(t, add(1), nil)
	assert.Equal(t, "FunctionProcessor(is_checkpoint=false, function=<func>, bind_method=false)", fn.String())
}

func TestKindInheritance(t *testing.T) {
	t.Parallel()

	child, err := pipeline.NewKind("ShiftedScale", scaleKind).
		Param(pipeline.ParamOf("offset", 10)).
		Param(pipeline.ParamOf("label", "shifted")).
		Build()
	require.NoError(t, err)

	names := []string{}
	for _, p := range child.Params() {
		names = append(names, p.Name())
	}
	assert.Equal(t, []string{"is_output", "is_checkpoint", "factor", "offset", "label"}, names)
	assert.True(t, child.Is(scaleKind))
	assert.False(t, scaleKind.Is(child))
	assert.Equal(t, scaleKind, child.Parent())

	proc, err := child.New(pipeline.Args{"factor": 2})
	require.NoError(t, err)
	got, err := proc.Call(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 12, got, "computation is inherited, offset default is overridden")

	param, ok := scaleKind.Param("offset")
	require.True(t, ok)
	assert.Equal(t, 0, param.Default(), "parent declaration is unchanged")
}

func TestKindDeclarationErrors(t *testing.T) {
	t.Parallel()

	_, err := pipeline.NewKind("Broken", nil).ParamTypes("k", nil, false).Build()
	assert.ErrorIs(t, err, pipeline.ErrInvalidDType)

	_, err = pipeline.NewKind("Broken", nil).Param(nil).Build()
	assert.ErrorIs(t, err, pipeline.ErrInvalidDType)

	_, err = pipeline.NewKind("Broken", pipeline.PipelineKind).
		Param(pipeline.ParamOf("stage", 1)).
		Task("stage", pipeline.MustTask(nil, nil, nil)).
		Build()
	assert.ErrorIs(t, err, pipeline.ErrType)

	assert.Panics(t, func() {
		pipeline.NewKind("Broken", nil).Task("stage", nil).MustBuild()
	})

	_, err = pipeline.NewKind("NotAPipeline", nil).
		Task("stage", pipeline.MustTask(nil, nil, nil)).
		Build()
	require.ErrorIs(t, err, pipeline.ErrType)
	assert.ErrorContains(t, err, "requires a pipeline kind")
}
