package pipeline

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/askiada/go-procgraph/pkg/pipeline/model"
)

var ErrProcessorMustBeSet = errors.New("processor must be set")

// Runner runs processors while reporting their stages to pipeline options.
type Runner struct {
	opts   []model.PipelineOption
	stages map[*Processor]*model.StageInfo
	byName map[string]*model.StageInfo
}

// NewRunner creates a runner and initialises its options.
func NewRunner(opts ...model.PipelineOption) (*Runner, error) {
	run := &Runner{
		opts:   opts,
		stages: make(map[*Processor]*model.StageInfo),
		byName: make(map[string]*model.StageInfo),
	}

	for _, opt := range opts {
		err := opt.New()
		if err != nil {
			return nil, errors.Wrap(err, "unable to apply pipeline option")
		}
	}

	return run, nil
}

// Run calls proc on data.
func (r *Runner) Run(ctx context.Context, proc *Processor, data any) (any, error) {
	if proc == nil {
		return nil, ErrProcessorMustBeSet
	}
	err := r.prepare(proc)
	if err != nil {
		return nil, err
	}

	return proc.Call(r.withContext(ctx), data)
}

// FromCheckpoint reruns the tail of pipe after its last checkpoint.
func (r *Runner) FromCheckpoint(ctx context.Context, pipe *Pipeline) (any, error) {
	if pipe == nil {
		return nil, ErrProcessorMustBeSet
	}
	err := r.prepare(pipe.Processor)
	if err != nil {
		return nil, err
	}

	return pipe.FromCheckpoint(r.withContext(ctx))
}

// Finish runs after the last run.
func (r *Runner) Finish() error {
	for _, opt := range r.opts {
		err := opt.Finish()
		if err != nil {
			return errors.Wrap(err, "unable to finish pipeline option")
		}
	}

	return nil
}

// prepare walks the processor graph of root. Stages already seen, by processor or by name,
// are not prepared again: a processor swapped into a task reports under the stage it replaced,
// with the kind and flags of the new processor.
func (r *Runner) prepare(root *Processor) error {
	_, err := r.prepareStage(nil, nil, root, root.kind.name)
	return err
}

func (r *Runner) prepareStage(parent, previous *model.StageInfo, proc *Processor, name string) (*model.StageInfo, error) {
	info, ok := r.stages[proc]
	if !ok {
		info, ok = r.byName[name]
		if ok {
			refreshStage(info, proc)
		}
	}
	if !ok {
		info = &model.StageInfo{
			Type:         proc.kind.stage,
			Name:         name,
			Kind:         proc.kind.name,
			IsOutput:     proc.IsOutput(),
			IsCheckpoint: proc.IsCheckpoint(),
		}
		for _, opt := range r.opts {
			err := opt.PrepareStage(parent, previous, info)
			if err != nil {
				return nil, errors.Wrapf(err, "unable to prepare stage %s", name)
			}
		}
		r.byName[name] = info
	}
	r.stages[proc] = info

	var prev *model.StageInfo
	for _, child := range proc.Children() {
		childInfo, err := r.prepareStage(info, prev, child.Processor, name+"/"+child.Name)
		if err != nil {
			return nil, err
		}
		if proc.kind.chained {
			prev = childInfo
		}
	}

	return info, nil
}

// refreshStage updates a stage reused by name with the processor now filling it.
func refreshStage(info *model.StageInfo, proc *Processor) {
	info.Type = proc.kind.stage
	info.Kind = proc.kind.name
	info.IsOutput = proc.IsOutput()
	info.IsCheckpoint = proc.IsCheckpoint()
}

func (r *Runner) onStageOutput(proc *Processor, elapsed time.Duration) error {
	info, ok := r.stages[proc]
	if !ok {
		return nil
	}
	for _, opt := range r.opts {
		err := opt.OnStageOutput(info, elapsed)
		if err != nil {
			return errors.Wrapf(err, "unable to report output of stage %s", info.Name)
		}
	}

	return nil
}

type runnerKey struct{}

func (r *Runner) withContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, runnerKey{}, r)
}

func runnerFromContext(ctx context.Context) *Runner {
	run, _ := ctx.Value(runnerKey{}).(*Runner)
	return run
}
