package pipeline

import (
	"context"
	"reflect"
	"strconv"

	"github.com/pkg/errors"

	"github.com/askiada/go-procgraph/pkg/pipeline/model"
)

var processesTypes = []reflect.Type{reflect.TypeFor[[]*Processor](), reflect.TypeFor[[]any]()}

// SequentialKind threads data through its processes, in order.
var SequentialKind = NewKind("Sequential", nil).
	Stage(model.SequentialStageType).
	ParamTypes("processes", nil, false, processesTypes...).
	Prepare(normalizeProcesses).
	Children(flowStages, true).
	Process(runSequential).
	MustBuild()

// ParallelKind gives the same data to each of its processes, or with broadcast the i-th element
// of a Tuple to the i-th process. Processes run one after the other.
var ParallelKind = NewKind("Parallel", nil).
	Stage(model.ParallelStageType).
	ParamTypes("processes", nil, false, processesTypes...).
	Param(ParamOf("broadcast", false)).
	Prepare(normalizeProcesses).
	Children(flowStages, false).
	Process(runParallel).
	MustBuild()

// Sequential creates a sequential processor. procs may mix processors and functions.
func Sequential(procs ...any) (*Processor, error) {
	return SequentialKind.New(Args{"processes": procs})
}

// Parallel creates a parallel processor. procs may mix processors and functions.
func Parallel(broadcast bool, procs ...any) (*Processor, error) {
	return ParallelKind.New(Args{"processes": procs, "broadcast": broadcast})
}

func normalizeProcesses(p *Processor) error {
	switch procs := p.values["processes"].(type) {
	case nil:
		p.values["processes"] = []*Processor{}
	case []any:
		normalized := make([]*Processor, len(procs))
		for i, v := range procs {
			proc, err := Normalize(v, nil)
			if err != nil {
				return errors.Wrapf(err, "process %d", i)
			}
			normalized[i] = proc
		}
		p.values["processes"] = normalized
	case []*Processor:
		for i, proc := range procs {
			if proc == nil {
				return errors.Wrapf(ErrNotProcessor, "process %d", i)
			}
		}
	}

	return nil
}

func flowStages(p *Processor) []Stage {
	procs := Get[[]*Processor](p, "processes")
	stages := make([]Stage, len(procs))
	for i, proc := range procs {
		stages[i] = Stage{Name: strconv.Itoa(i), Processor: proc}
	}

	return stages
}

func runSequential(ctx context.Context, p *Processor, data any) (any, error) {
	for i, proc := range Get[[]*Processor](p, "processes") {
		var err error
		data, err = proc.Call(ctx, data)
		if err != nil {
			return nil, errors.Wrapf(err, "sequential process %d", i)
		}
	}

	return data, nil
}

func runParallel(ctx context.Context, p *Processor, data any) (any, error) {
	procs := Get[[]*Processor](p, "processes")
	inputs := make([]any, len(procs))
	if Get[bool](p, "broadcast") {
		var elems []any
		switch val := data.(type) {
		case Tuple:
			elems = val
		case []any:
			elems = val
		default:
			return nil, errors.Wrapf(ErrBroadcastInput, "got %T", data)
		}
		if len(elems) != len(procs) {
			return nil, errors.Wrapf(ErrBroadcastLength, "got %d elements for %d processes", len(elems), len(procs))
		}
		copy(inputs, elems)
	} else {
		for i := range inputs {
			inputs[i] = data
		}
	}

	outputs := make(Tuple, len(procs))
	for i, proc := range procs {
		out, err := proc.Call(ctx, inputs[i])
		if err != nil {
			return nil, errors.Wrapf(err, "parallel process %d", i)
		}
		outputs[i] = out
	}

	return outputs, nil
}
