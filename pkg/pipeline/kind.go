package pipeline

import (
	"context"
	"reflect"

	"github.com/pkg/errors"

	"github.com/askiada/go-procgraph/internal/tracker"
	"github.com/askiada/go-procgraph/pkg/pipeline/model"
)

// ProcessFunc is the computation carried by a processor kind.
type ProcessFunc func(ctx context.Context, p *Processor, data any) (any, error)

// ChildrenFunc lists the processors nested in p, in execution order.
type ChildrenFunc func(p *Processor) []Stage

// Kind describes a family of processors: its params, its tasks and its computation.
// A kind inherits the params and tasks of its parent, its own declarations come after the inherited ones.
type Kind struct {
	name     string
	parent   *Kind
	stage    model.StageType
	params   *tracker.Scheme[*Param]
	tasks    *tracker.Scheme[*Task]
	process  ProcessFunc
	prepare  []func(p *Processor) error
	children ChildrenFunc
	// chained is true when each child receives the output of the previous one.
	chained bool
	// composite kinds resolve their tasks into processes at construction.
	composite bool
}

func (k *Kind) Name() string {
	return k.name
}

func (k *Kind) Parent() *Kind {
	return k.parent
}

// Params returns the merged param declarations in declaration order.
func (k *Kind) Params() []*Param {
	params := make([]*Param, 0, k.params.Len())
	for _, p := range k.params.All() {
		params = append(params, p)
	}

	return params
}

// Param returns the param declared under name.
func (k *Kind) Param(name string) (*Param, bool) {
	return k.params.Get(name)
}

// TaskNames returns the merged task names in declaration order.
func (k *Kind) TaskNames() []string {
	return k.tasks.Names()
}

// Task returns the task declared under name.
func (k *Kind) Task(name string) (*Task, bool) {
	return k.tasks.Get(name)
}

// Is reports whether k is other or derives from it.
func (k *Kind) Is(other *Kind) bool {
	for curr := k; curr != nil; curr = curr.parent {
		if curr == other {
			return true
		}
	}

	return false
}

func (k *Kind) String() string {
	return k.name
}

// KindBuilder declares a kind. The first declaration error is reported by Build.
type KindBuilder struct {
	kind *Kind
	err  error
}

// NewKind starts the declaration of a kind deriving from parent.
// A nil parent means ProcessorKind.
func NewKind(name string, parent *Kind) *KindBuilder {
	if parent == nil {
		parent = ProcessorKind
	}
	return &KindBuilder{
		kind: &Kind{
			name:      name,
			parent:    parent,
			stage:     parent.stage,
			params:    tracker.New(parent.params),
			tasks:     tracker.New(parent.tasks),
			process:   parent.process,
			prepare:   append([]func(*Processor) error(nil), parent.prepare...),
			children:  parent.children,
			chained:   parent.chained,
			composite: parent.composite,
		},
	}
}

// Param declares params. Re-declaring an inherited param replaces it in place.
func (b *KindBuilder) Param(params ...*Param) *KindBuilder {
	for _, p := range params {
		if p == nil {
			b.fail(errors.Wrapf(ErrInvalidDType, "kind %s: nil param", b.kind.name))
			continue
		}
		if b.kind.tasks.Has(p.name) {
			b.fail(errors.Wrapf(ErrType, "kind %s: param %q collides with a task", b.kind.name, p.name))
			continue
		}
		b.kind.params.Declare(p.name, p)
	}

	return b
}

// ParamTypes declares a param admitting several types.
func (b *KindBuilder) ParamTypes(name string, def any, mandatory bool, dtypes ...reflect.Type) *KindBuilder {
	p, err := NewParam(name, def, mandatory, dtypes...)
	if err != nil {
		b.fail(errors.Wrapf(err, "kind %s", b.kind.name))
		return b
	}

	return b.Param(p)
}

// Task declares a processor slot. Only kinds deriving from PipelineKind have tasks.
func (b *KindBuilder) Task(name string, task *Task) *KindBuilder {
	if task == nil {
		b.fail(errors.Wrapf(ErrType, "kind %s: task %q must be set", b.kind.name, name))
		return b
	}
	if !b.kind.composite {
		b.fail(errors.Wrapf(ErrType, "kind %s: task %q requires a pipeline kind", b.kind.name, name))
		return b
	}
	if b.kind.params.Has(name) {
		b.fail(errors.Wrapf(ErrType, "kind %s: task %q collides with a param", b.kind.name, name))
		return b
	}
	b.kind.tasks.Declare(name, task)

	return b
}

// Process sets the computation of the kind.
func (b *KindBuilder) Process(fn ProcessFunc) *KindBuilder {
	b.kind.process = fn
	return b
}

// Prepare adds a hook run after params are bound, after the hooks inherited from the parent.
func (b *KindBuilder) Prepare(fn func(p *Processor) error) *KindBuilder {
	b.kind.prepare = append(b.kind.prepare, fn)
	return b
}

// Children declares how to list nested processors. chained tells whether data flows from one child to the next.
func (b *KindBuilder) Children(fn ChildrenFunc, chained bool) *KindBuilder {
	b.kind.children = fn
	b.kind.chained = chained

	return b
}

// Stage sets the stage type reported to pipeline options.
func (b *KindBuilder) Stage(stage model.StageType) *KindBuilder {
	b.kind.stage = stage
	return b
}

func (b *KindBuilder) composite() *KindBuilder {
	b.kind.composite = true
	return b
}

func (b *KindBuilder) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}

func (b *KindBuilder) Build() (*Kind, error) {
	if b.err != nil {
		return nil, b.err
	}

	return b.kind, nil
}

// MustBuild is like Build but panics on declaration errors. It is meant for package level kinds.
func (b *KindBuilder) MustBuild() *Kind {
	k, err := b.Build()
	if err != nil {
		panic(err)
	}

	return k
}

func notImplemented(_ context.Context, p *Processor, _ any) (any, error) {
	return nil, errors.Wrapf(ErrNotImplemented, "kind %s", p.kind.name)
}

// ProcessorKind is the root of every kind. It declares is_output and is_checkpoint and has no computation.
var ProcessorKind = &Kind{
	name:    "Processor",
	stage:   model.ProcessorStageType,
	params:  processorParams(),
	tasks:   tracker.New[*Task](nil),
	process: notImplemented,
}

func processorParams() *tracker.Scheme[*Param] {
	params := tracker.New[*Param](nil)
	params.Declare("is_output", OptionalOf[bool]("is_output"))
	params.Declare("is_checkpoint", ParamOf("is_checkpoint", false))

	return params
}
