package pipeline

import (
	"context"

	"github.com/pkg/errors"

	"github.com/askiada/go-procgraph/internal/tracker"
	"github.com/askiada/go-procgraph/pkg/pipeline/model"
)

// Stage is a named processor of a composite processor.
type Stage struct {
	Name      string
	Processor *Processor
}

// PipelineKind is the root of every pipeline kind. Pipeline kinds declare tasks with KindBuilder.Task.
var PipelineKind = NewKind("Pipeline", nil).
	Stage(model.PipelineStageType).
	Children(pipelineStages, true).
	Process(runPipeline).
	composite().
	MustBuild()

// Pipeline is a processor whose tasks are resolved into an ordered set of processes.
type Pipeline struct {
	*Processor
}

// NewPipeline creates a pipeline of kind k. args may hold param values and, by task name,
// processors or functions filling the tasks.
func (k *Kind) NewPipeline(args Args) (*Pipeline, error) {
	proc, err := k.New(args)
	if err != nil {
		return nil, err
	}

	return AsPipeline(proc)
}

// AsPipeline gives access to the processes of a processor of a pipeline kind.
func AsPipeline(p *Processor) (*Pipeline, error) {
	if p == nil || p.processes == nil {
		return nil, ErrNotPipeline
	}

	return &Pipeline{Processor: p}, nil
}

func (p *Processor) resolveTasks(args Args) error {
	p.processes = tracker.New[*Processor](nil)
	for name, task := range p.kind.tasks.All() {
		proc, err := task.resolve(args[name])
		if err != nil {
			return errors.Wrapf(err, "task %q", name)
		}
		p.processes.Declare(name, proc)
	}

	return nil
}

func pipelineStages(p *Processor) []Stage {
	stages := make([]Stage, 0, p.processes.Len())
	for name, proc := range p.processes.All() {
		stages = append(stages, Stage{Name: name, Processor: proc})
	}

	return stages
}

// runPipeline threads data through every process. The outputs of the processes flagged as outputs
// are returned: none gives the last value, one gives it as is, more give a Tuple.
func runPipeline(ctx context.Context, p *Processor, data any) (any, error) {
	var outputs Tuple
	for name, proc := range p.processes.All() {
		var err error
		data, err = proc.Call(ctx, data)
		if err != nil {
			return nil, errors.Wrapf(err, "task %q", name)
		}
		if proc.IsOutput() {
			outputs = append(outputs, data)
		}
	}

	switch len(outputs) {
	case 0:
		return data, nil
	case 1:
		return outputs[0], nil
	default:
		return outputs, nil
	}
}

// Processes returns the resolved processes in task declaration order.
func (p *Pipeline) Processes() []Stage {
	return pipelineStages(p.Processor)
}

// Process returns the processor filling the task name.
func (p *Pipeline) Process(name string) (*Processor, bool) {
	return p.processes.Get(name)
}

// SetProcess replaces the processor filling the task name. v is normalized with the task params.
func (p *Pipeline) SetProcess(name string, v any) error {
	task, ok := p.kind.tasks.Get(name)
	if !ok {
		return errors.Wrapf(ErrUnknownTask, "%s: %q", p.kind.name, name)
	}
	if v == nil {
		return errors.Wrapf(ErrNotProcessor, "task %q", name)
	}
	proc, err := task.resolve(v)
	if err != nil {
		return errors.Wrapf(err, "task %q", name)
	}
	p.processes.Declare(name, proc)

	return nil
}

// CheckpointProcesses returns the processes from the last checkpoint to the end of the pipeline.
func (p *Pipeline) CheckpointProcesses() ([]Stage, error) {
	stages := p.Processes()
	for i := len(stages) - 1; i >= 0; i-- {
		if stages[i].Processor.IsCheckpoint() {
			return stages[i:], nil
		}
	}

	return nil, errors.Wrap(ErrNoCheckpoint, p.kind.name)
}

// FromCheckpoint reruns the processes after the last checkpoint, starting from its checkpoint data.
// It returns the value of the last process.
func (p *Pipeline) FromCheckpoint(ctx context.Context) (any, error) {
	tail, err := p.CheckpointProcesses()
	if err != nil {
		return nil, err
	}

	data := tail[0].Processor.CheckpointData()
	if data == nil {
		return nil, errors.Wrapf(ErrNoCheckpointData, "task %q", tail[0].Name)
	}

	for _, stage := range tail[1:] {
		data, err = stage.Processor.Call(ctx, data)
		if err != nil {
			return nil, errors.Wrapf(err, "task %q", stage.Name)
		}
	}

	return data, nil
}
