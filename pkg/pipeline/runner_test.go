package pipeline_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-procgraph/pkg/pipeline"
	"github.com/askiada/go-procgraph/pkg/pipeline/model"
)

type edge struct {
	parent, previous, stage string
}

type recorder struct {
	newErr, prepareErr, outputErr, finishErr error

	initialised bool
	finished    bool
	prepared    []edge
	outputs     []string
	kinds       []string
}

func (r *recorder) New() error {
	r.initialised = true
	return r.newErr
}

func (r *recorder) PrepareStage(parent, previous, stage *model.StageInfo) error {
	e := edge{stage: stage.Name}
	if parent != nil {
		e.parent = parent.Name
	}
	if previous != nil {
		e.previous = previous.Name
	}
	r.prepared = append(r.prepared, e)

	return r.prepareErr
}

func (r *recorder) OnStageOutput(stage *model.StageInfo, _ time.Duration) error {
	r.outputs = append(r.outputs, stage.Name)
	r.kinds = append(r.kinds, stage.Kind)
	return r.outputErr
}

func (r *recorder) Finish() error {
	r.finished = true
	return r.finishErr
}

func TestRunnerPipelineStages(t *testing.T) {
	t.Parallel()

	kind := newTwoTasks(t, newFunction(t, add(1), nil), newFunction(t, mul(2), nil))
	pipe, err := kind.NewPipeline(nil)
	require.NoError(t, err)

	rec := &recorder{}
	run, err := pipeline.NewRunner(rec)
	require.NoError(t, err)
	assert.True(t, rec.initialised)

	got, err := run.Run(context.Background(), pipe.Processor, 1)
	require.NoError(t, err)
	assert.Equal(t, 4, got)

	assert.Equal(t, []edge{
		{stage: "TwoTasks"},
		{parent: "TwoTasks", stage: "TwoTasks/task_1"},
		{parent: "TwoTasks", previous: "TwoTasks/task_1", stage: "TwoTasks/task_2"},
	}, rec.prepared)
	assert.Equal(t, []string{"TwoTasks/task_1", "TwoTasks/task_2", "TwoTasks"}, rec.outputs)

	// a second run does not prepare the stages again
	_, err = run.Run(context.Background(), pipe.Processor, 2)
	require.NoError(t, err)
	assert.Len(t, rec.prepared, 3)
	assert.Len(t, rec.outputs, 6)

	require.NoError(t, run.Finish())
	assert.True(t, rec.finished)
}

func TestRunnerFlowStages(t *testing.T) {
	t.Parallel()

	par, err := pipeline.Parallel(false, add(1), mul(2))
	require.NoError(t, err)
	seq, err := pipeline.Sequential(add(1), par)
	require.NoError(t, err)

	rec := &recorder{}
	run, err := pipeline.NewRunner(rec)
	require.NoError(t, err)

	got, err := run.Run(context.Background(), seq, 1)
	require.NoError(t, err)
	assert.Equal(t, pipeline.Tuple{3, 4}, got)

	assert.Equal(t, []edge{
		{stage: "Sequential"},
		{parent: "Sequential", stage: "Sequential/0"},
		{parent: "Sequential", previous: "Sequential/0", stage: "Sequential/1"},
		{parent: "Sequential/1", stage: "Sequential/1/0"},
		{parent: "Sequential/1", stage: "Sequential/1/1"},
	}, rec.prepared)
	assert.Equal(t, []string{
		"Sequential/0", "Sequential/1/0", "Sequential/1/1", "Sequential/1", "Sequential",
	}, rec.outputs)
}

func TestRunnerFromCheckpoint(t *testing.T) {
	t.Parallel()

	kind := newTwoTasks(t,
		newFunction(t, add(1), pipeline.Args{"is_checkpoint": true}),
		newFunction(t, mul(2), nil),
	)
	pipe, err := kind.NewPipeline(nil)
	require.NoError(t, err)

	rec := &recorder{}
	run, err := pipeline.NewRunner(rec)
	require.NoError(t, err)

	_, err = run.Run(context.Background(), pipe.Processor, 1)
	require.NoError(t, err)

	require.NoError(t, pipe.SetProcess("task_2", newFunction(t, mul(5), nil)))
	got, err := run.FromCheckpoint(context.Background(), pipe)
	require.NoError(t, err)
	assert.Equal(t, 10, got)

	// the swapped processor reports under the stage it replaced
	assert.Len(t, rec.prepared, 3)
	assert.Equal(t, []string{"TwoTasks/task_1", "TwoTasks/task_2", "TwoTasks", "TwoTasks/task_2"}, rec.outputs)
}

func TestRunnerSwappedKind(t *testing.T) {
	t.Parallel()

	kind := newTwoTasks(t,
		newFunction(t, add(1), pipeline.Args{"is_checkpoint": true}),
		newFunction(t, mul(2), nil),
	)
	pipe, err := kind.NewPipeline(nil)
	require.NoError(t, err)

	var stages []*model.StageInfo
	rec := &recorder{}
	run, err := pipeline.NewRunner(rec, stageCollector(func(stage *model.StageInfo) {
		stages = append(stages, stage)
	}))
	require.NoError(t, err)

	_, err = run.Run(context.Background(), pipe.Processor, 1)
	require.NoError(t, err)

	scale, err := scaleKind.New(pipeline.Args{"factor": 3, "is_output": true})
	require.NoError(t, err)
	require.NoError(t, pipe.SetProcess("task_2", scale))
	got, err := run.FromCheckpoint(context.Background(), pipe)
	require.NoError(t, err)
	assert.Equal(t, 6, got)

	assert.Equal(t, []string{"FunctionProcessor", "FunctionProcessor", "TwoTasks", "Scale"}, rec.kinds)
	require.Len(t, stages, 3)
	assert.Equal(t, "TwoTasks/task_2", stages[2].Name)
	assert.Equal(t, "Scale", stages[2].Kind)
	assert.Equal(t, model.ProcessorStageType, stages[2].Type)
	assert.True(t, stages[2].IsOutput)
}

// stageCollector passes every prepared stage to fn.
type stageCollector func(stage *model.StageInfo)

func (c stageCollector) New() error { return nil }

func (c stageCollector) PrepareStage(_, _, stage *model.StageInfo) error {
	c(stage)
	return nil
}

func (c stageCollector) OnStageOutput(*model.StageInfo, time.Duration) error { return nil }

func (c stageCollector) Finish() error { return nil }

func TestRunnerErrors(t *testing.T) {
	t.Parallel()

	proc := newFunction(t, add(1), nil)

	_, err := pipeline.NewRunner(&recorder{newErr: assert.AnError})
	assert.ErrorIs(t, err, assert.AnError)

	run, err := pipeline.NewRunner(&recorder{prepareErr: assert.AnError})
	require.NoError(t, err)
	_, err = run.Run(context.Background(), proc, 1)
	assert.ErrorIs(t, err, assert.AnError)

	run, err = pipeline.NewRunner(&recorder{outputErr: assert.AnError})
	require.NoError(t, err)
	_, err = run.Run(context.Background(), proc, 1)
	assert.ErrorIs(t, err, assert.AnError)

	run, err = pipeline.NewRunner(&recorder{finishErr: assert.AnError})
	require.NoError(t, err)
	assert.ErrorIs(t, run.Finish(), assert.AnError)

	_, err = run.Run(context.Background(), nil, 1)
	assert.ErrorIs(t, err, pipeline.ErrProcessorMustBeSet)
	_, err = run.FromCheckpoint(context.Background(), nil)
	assert.ErrorIs(t, err, pipeline.ErrProcessorMustBeSet)
}

func TestCallWithoutRunner(t *testing.T) {
	t.Parallel()

	got, err := newFunction(t, add(1), nil).Call(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 2, got)
}
