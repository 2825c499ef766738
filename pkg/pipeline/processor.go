package pipeline

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/askiada/go-procgraph/internal/tracker"
)

// Args holds values by param or task name.
type Args map[string]any

// Tuple is the value produced by fan-out: the outputs of a parallel processor
// or the flagged outputs of a pipeline.
type Tuple []any

// Processor is a computation bound to values for every param of its kind.
type Processor struct {
	kind   *Kind
	values map[string]any
	// processes is set for composite kinds only.
	processes      *tracker.Scheme[*Processor]
	checkpointData any
}

// New creates a processor of kind k. Every declared param takes the value in args or its default.
func (k *Kind) New(args Args) (*Processor, error) {
	if k == nil {
		return nil, ErrKindMustBeSet
	}
	for _, name := range slices.Sorted(maps.Keys(args)) {
		if !k.params.Has(name) && !k.tasks.Has(name) {
			return nil, errors.Wrapf(ErrUnknownParam, "%s: %q", k.name, name)
		}
	}

	proc := &Processor{
		kind:   k,
		values: make(map[string]any, k.params.Len()),
	}
	for name, param := range k.params.All() {
		v, ok := args[name]
		if !ok {
			v = own(param.def)
		}
		if v == nil {
			if param.mandatory {
				return nil, errors.Wrapf(ErrMissingParam, "%s: %q", k.name, name)
			}
			proc.values[name] = nil

			continue
		}
		bound, err := param.Bind(v)
		if err != nil {
			return nil, errors.Wrap(err, k.name)
		}
		proc.values[name] = bound
	}

	for _, prepare := range k.prepare {
		err := prepare(proc)
		if err != nil {
			return nil, errors.Wrap(err, k.name)
		}
	}

	if k.composite {
		err := proc.resolveTasks(args)
		if err != nil {
			return nil, errors.Wrap(err, k.name)
		}
	}

	return proc, nil
}

// MustNew is like New but panics on error. It is meant for package level defaults.
func (k *Kind) MustNew(args Args) *Processor {
	proc, err := k.New(args)
	if err != nil {
		panic(err)
	}

	return proc
}

func (p *Processor) Kind() *Kind {
	return p.kind
}

// IsA reports whether the kind of p is k or derives from it.
func (p *Processor) IsA(k *Kind) bool {
	return p.kind.Is(k)
}

// Value returns the value bound to the param name.
func (p *Processor) Value(name string) any {
	return p.values[name]
}

// Values returns a copy of the bound values.
func (p *Processor) Values() Args {
	return maps.Clone(p.values)
}

// Get returns the value bound to the param name as a T, or the zero T.
func Get[T any](p *Processor, name string) T {
	v, _ := p.values[name].(T)
	return v
}

func (p *Processor) IsOutput() bool {
	return Get[bool](p, "is_output")
}

func (p *Processor) IsCheckpoint() bool {
	return Get[bool](p, "is_checkpoint")
}

// CheckpointData returns the last output captured when p is a checkpoint, nil otherwise.
func (p *Processor) CheckpointData() any {
	return p.checkpointData
}

// SetCheckpointData seeds the checkpoint, e.g. with data computed by a previous session.
func (p *Processor) SetCheckpointData(data any) {
	p.checkpointData = data
}

// Call runs the computation of p on data. When p is a checkpoint the output is kept as checkpoint data.
func (p *Processor) Call(ctx context.Context, data any) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrapf(err, "unable to call %s", p.kind.name)
	}

	start := time.Now()
	out, err := p.kind.process(ctx, p, data)
	if err != nil {
		return nil, err
	}
	if p.IsCheckpoint() {
		p.checkpointData = out
	}

	if run := runnerFromContext(ctx); run != nil {
		err := run.onStageOutput(p, time.Since(start))
		if err != nil {
			return nil, err
		}
	}

	return out, nil
}

// Children lists the processors nested in p.
func (p *Processor) Children() []Stage {
	if p.kind.children == nil {
		return nil
	}

	return p.kind.children(p)
}

// Copy returns a processor of the same kind with the same values and checkpoint data.
// Nested processors are copied too so the copy never shares checkpoint state with p.
func (p *Processor) Copy() *Processor {
	cp := &Processor{
		kind:           p.kind,
		values:         make(map[string]any, len(p.values)),
		checkpointData: p.checkpointData,
	}
	for name, v := range p.values {
		cp.values[name] = own(v)
	}
	if p.processes != nil {
		cp.processes = tracker.New[*Processor](nil)
		for name, proc := range p.processes.All() {
			cp.processes.Declare(name, proc.Copy())
		}
	}

	return cp
}

// With returns a new processor of the same kind where args override the current values.
func (p *Processor) With(args Args) (*Processor, error) {
	merged := make(Args, len(p.values)+len(args))
	for name, v := range p.values {
		merged[name] = own(v)
	}
	if p.processes != nil {
		for name, proc := range p.processes.All() {
			merged[name] = proc.Copy()
		}
	}
	for name, v := range args {
		merged[name] = v
	}

	return p.kind.New(merged)
}

// backfill binds defaults to the params of p that are currently nil.
func (p *Processor) backfill(defaults Args) error {
	for _, name := range slices.Sorted(maps.Keys(defaults)) {
		param, ok := p.kind.params.Get(name)
		if !ok {
			return errors.Wrapf(ErrUnknownParam, "%s: %q", p.kind.name, name)
		}
		if p.values[name] != nil {
			continue
		}
		bound, err := param.Bind(own(defaults[name]))
		if err != nil {
			return errors.Wrap(err, p.kind.name)
		}
		p.values[name] = bound
	}

	return nil
}

func (p *Processor) String() string {
	var sb strings.Builder
	sb.WriteString(p.kind.name)
	sb.WriteByte('(')
	first := true
	write := func(name string, v any) {
		if !first {
			sb.WriteString(", ")
		}
		first = false
		fmt.Fprintf(&sb, "%s=%v", name, v)
	}
	for name := range p.kind.params.All() {
		v := p.values[name]
		if v == nil {
			continue
		}
		switch v.(type) {
		case Func, Method:
			write(name, "<func>")
		default:
			write(name, v)
		}
	}
	if p.processes != nil {
		for name, proc := range p.processes.All() {
			write(name, proc)
		}
	}
	sb.WriteByte(')')

	return sb.String()
}

// own returns a value safe to bind to a new processor: processors are copied, anything else is shared.
func own(v any) any {
	switch val := v.(type) {
	case *Processor:
		if val == nil {
			return val
		}
		return val.Copy()
	case []*Processor:
		procs := make([]*Processor, len(val))
		for i, proc := range val {
			procs[i] = proc.Copy()
		}
		return procs
	default:
		return v
	}
}
