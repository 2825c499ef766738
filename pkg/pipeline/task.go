package pipeline

import (
	"maps"

	"github.com/pkg/errors"
)

// Task describes a processor slot of a pipeline kind: the kind a processor must have to fill it,
// the processor used when none is given, and param values applied to whichever processor fills it.
type Task struct {
	procType *Kind
	def      *Processor
	kwargs   Args
}

// NewTask declares a processor slot. A nil procType admits any processor, a nil def is the identity function.
func NewTask(procType *Kind, def any, kwargs Args) (*Task, error) {
	if procType == nil {
		procType = ProcessorKind
	}
	if def == nil {
		def = Func(Identity)
	}
	proc, err := Normalize(def, kwargs)
	if err != nil {
		return nil, errors.Wrap(err, "invalid task default")
	}
	if !proc.IsA(procType) {
		return nil, errors.Wrapf(ErrTaskType, "default %s is not a %s", proc.kind.name, procType.name)
	}

	return &Task{
		procType: procType,
		def:      proc,
		kwargs:   maps.Clone(kwargs),
	}, nil
}

// MustTask is like NewTask but panics on error. It is meant for package level kinds.
func MustTask(procType *Kind, def any, kwargs Args) *Task {
	t, err := NewTask(procType, def, kwargs)
	if err != nil {
		panic(err)
	}

	return t
}

func (t *Task) ProcType() *Kind {
	return t.procType
}

// Default returns the processor filling the slot when none is given. Pipelines use copies of it.
func (t *Task) Default() *Processor {
	return t.def
}

func (t *Task) Kwargs() Args {
	return maps.Clone(t.kwargs)
}

// resolve returns the processor filling the slot from v, or from a copy of the default when v is nil.
func (t *Task) resolve(v any) (*Processor, error) {
	if v == nil {
		v = t.def.Copy()
	}
	proc, err := Normalize(v, t.kwargs)
	if err != nil {
		return nil, err
	}
	if !proc.IsA(t.procType) {
		return nil, errors.Wrapf(ErrTaskType, "%s is not a %s", proc.kind.name, t.procType.name)
	}

	return proc, nil
}
