package pipeline

import (
	"context"
	"reflect"

	"github.com/pkg/errors"

	"github.com/askiada/go-procgraph/pkg/pipeline/model"
)

// Func is a plain unary computation.
type Func func(ctx context.Context, data any) (any, error)

// Method is a computation receiving the processor it is bound to.
type Method func(ctx context.Context, self *Processor, data any) (any, error)

// Identity returns data unchanged.
func Identity(_ context.Context, data any) (any, error) {
	return data, nil
}

// FunctionKind adapts a function into a processor.
var FunctionKind = NewKind("FunctionProcessor", nil).
	Stage(model.FunctionStageType).
	ParamTypes("function", Func(Identity), false, reflect.TypeFor[Func](), reflect.TypeFor[Method]()).
	Param(ParamOf("bind_method", false)).
	Prepare(checkBindMethod).
	Process(callFunction).
	MustBuild()

func checkBindMethod(p *Processor) error {
	switch p.values["function"].(type) {
	case nil:
		p.values["function"] = Func(Identity)
		if p.Value("bind_method") == true {
			return errors.Wrap(ErrBindMethod, "identity is not a method")
		}
	case Method:
		if p.Value("bind_method") != true {
			return errors.Wrap(ErrBindMethod, "method requires bind_method")
		}
	case Func:
		if p.Value("bind_method") == true {
			return errors.Wrap(ErrBindMethod, "bind_method requires a method")
		}
	}

	return nil
}

func callFunction(ctx context.Context, p *Processor, data any) (any, error) {
	switch fn := p.values["function"].(type) {
	case Method:
		return fn(ctx, p, data)
	case Func:
		return fn(ctx, data)
	default:
		return nil, errors.Wrapf(ErrNotProcessor, "function of type %T", fn)
	}
}

// Map adapts a typed function that cannot fail.
func Map[I, O any](fn func(I) O) Func {
	return func(_ context.Context, data any) (any, error) {
		in, ok := data.(I)
		if !ok {
			return nil, errors.Wrapf(ErrDataType, "got %T, want %s", data, reflect.TypeFor[I]())
		}

		return fn(in), nil
	}
}

// MapE adapts a typed function that can fail.
func MapE[I, O any](fn func(context.Context, I) (O, error)) Func {
	return func(ctx context.Context, data any) (any, error) {
		in, ok := data.(I)
		if !ok {
			return nil, errors.Wrapf(ErrDataType, "got %T, want %s", data, reflect.TypeFor[I]())
		}

		return fn(ctx, in)
	}
}

// Normalize turns v into a processor. Processors are used as they are, functions are wrapped into a
// FunctionProcessor. defaults are then bound to every param of the processor that is still nil.
func Normalize(v any, defaults Args) (*Processor, error) {
	var (
		proc *Processor
		err  error
	)
	switch val := v.(type) {
	case *Processor:
		proc = val
	case *Pipeline:
		if val != nil {
			proc = val.Processor
		}
	case Func, func(context.Context, any) (any, error):
		proc, err = FunctionKind.New(Args{"function": val})
	case Method, func(context.Context, *Processor, any) (any, error):
		proc, err = FunctionKind.New(Args{"function": val, "bind_method": true})
	case func(any) any:
		proc, err = FunctionKind.New(Args{"function": Func(func(_ context.Context, data any) (any, error) {
			return val(data), nil
		})})
	case func(any) (any, error):
		proc, err = FunctionKind.New(Args{"function": Func(func(_ context.Context, data any) (any, error) {
			return val(data)
		})})
	default:
		return nil, errors.Wrapf(ErrNotProcessor, "got %T", v)
	}
	if err != nil {
		return nil, err
	}
	if proc == nil {
		return nil, errors.Wrap(ErrNotProcessor, "nil processor")
	}

	err = proc.backfill(defaults)
	if err != nil {
		return nil, err
	}

	return proc, nil
}
