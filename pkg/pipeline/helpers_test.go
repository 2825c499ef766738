package pipeline_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/askiada/go-procgraph/pkg/pipeline"
)

func add(n int) pipeline.Func {
	return pipeline.Map(func(x int) int { return x + n })
}

func mul(n int) pipeline.Func {
	return pipeline.Map(func(x int) int { return x * n })
}

func newFunction(t *testing.T, fn pipeline.Func, args pipeline.Args) *pipeline.Processor {
	t.Helper()
	all := pipeline.Args{"function": fn}
	for name, v := range args {
		all[name] = v
	}
	proc, err := pipeline.FunctionKind.New(all)
	require.NoError(t, err)

	return proc
}

// newTwoTasks declares a pipeline kind with the tasks task_1 and task_2.
func newTwoTasks(t *testing.T, first, second *pipeline.Processor) *pipeline.Kind {
	t.Helper()
	kind, err := pipeline.NewKind("TwoTasks", pipeline.PipelineKind).
		Task("task_1", pipeline.MustTask(nil, first, nil)).
		Task("task_2", pipeline.MustTask(nil, second, nil)).
		Build()
	require.NoError(t, err)

	return kind
}
