package config

import (
	"maps"
	"reflect"
	"slices"

	"github.com/pkg/errors"
	"github.com/spf13/cast"

	"github.com/askiada/go-procgraph/pkg/pipeline"
)

// Build creates the pipeline described by cfg with the kinds of reg.
func (cfg PipelineConfig) Build(reg *pipeline.Registry) (*pipeline.Pipeline, error) {
	kind, err := reg.Lookup(cfg.Kind)
	if err != nil {
		return nil, err
	}

	args := make(pipeline.Args, len(cfg.Tasks))
	for _, name := range slices.Sorted(maps.Keys(cfg.Tasks)) {
		proc, err := buildTask(reg, kind, name, cfg.Tasks[name])
		if err != nil {
			return nil, errors.Wrapf(err, "task %q", name)
		}
		args[name] = proc
	}

	return kind.NewPipeline(args)
}

func buildTask(reg *pipeline.Registry, kind *pipeline.Kind, name string, cfg TaskConfig) (*pipeline.Processor, error) {
	task, ok := kind.Task(name)
	if !ok {
		return nil, errors.Wrapf(pipeline.ErrUnknownTask, "%s has no task %q", kind.Name(), name)
	}

	if cfg.Kind == "" {
		args, err := Coerce(task.Default().Kind(), cfg.Params)
		if err != nil {
			return nil, err
		}

		return task.Default().With(args)
	}

	taskKind, err := reg.Lookup(cfg.Kind)
	if err != nil {
		return nil, err
	}
	args, err := Coerce(taskKind, cfg.Params)
	if err != nil {
		return nil, err
	}

	return taskKind.New(args)
}

// Coerce converts raw values, e.g. strings read from the environment, to the types of the params of kind.
func Coerce(kind *pipeline.Kind, raw map[string]any) (pipeline.Args, error) {
	args := make(pipeline.Args, len(raw))
	for name, v := range raw {
		param, ok := kind.Param(name)
		if !ok {
			return nil, errors.Wrapf(pipeline.ErrUnknownParam, "%s: %q", kind.Name(), name)
		}
		coerced, err := coerce(param, v)
		if err != nil {
			return nil, err
		}
		args[name] = coerced
	}

	return args, nil
}

func coerce(param *pipeline.Param, v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	if _, err := param.Bind(v); err == nil {
		return v, nil
	}

	for _, dtype := range param.DTypes() {
		var (
			converted any
			err       error
		)
		switch dtype.Kind() {
		case reflect.Int:
			converted, err = cast.ToIntE(v)
		case reflect.Uint64:
			converted, err = cast.ToUint64E(v)
		case reflect.Float64:
			converted, err = cast.ToFloat64E(v)
		case reflect.Bool:
			converted, err = cast.ToBoolE(v)
		case reflect.String:
			converted, err = cast.ToStringE(v)
		default:
			continue
		}
		if err == nil {
			return param.Bind(converted)
		}
	}

	return param.Bind(v)
}
