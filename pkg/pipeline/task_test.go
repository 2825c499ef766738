package pipeline_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-procgraph/pkg/pipeline"
)

func TestNewTask(t *testing.T) {
	t.Parallel()

	task, err := pipeline.NewTask(pipeline.FunctionKind, add(1), pipeline.Args{"is_output": true})
	require.NoError(t, err)

	assert.Equal(t, pipeline.FunctionKind, task.ProcType())
	assert.True(t, task.Default().IsA(pipeline.FunctionKind))
	assert.True(t, task.Default().IsOutput(), "kwargs are applied to the default")
	assert.Equal(t, pipeline.Args{"is_output": true}, task.Kwargs())
}

func TestNewTaskDefaults(t *testing.T) {
	t.Parallel()

	task, err := pipeline.NewTask(nil, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, pipeline.ProcessorKind, task.ProcType())
	assert.True(t, task.Default().IsA(pipeline.FunctionKind))
}

func TestNewTaskTypeMismatch(t *testing.T) {
	t.Parallel()

	_, err := pipeline.NewTask(scaleKind, add(1), nil)
	assert.ErrorIs(t, err, pipeline.ErrTaskType)

	_, err = pipeline.NewTask(nil, "not a processor", nil)
	assert.ErrorIs(t, err, pipeline.ErrNotProcessor)

	assert.Panics(t, func() {
		pipeline.MustTask(scaleKind, add(1), nil)
	})
}
