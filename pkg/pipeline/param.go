package pipeline

import (
	"reflect"
	"strings"

	"github.com/pkg/errors"
)

// Param describes a named, typed configuration slot of a processor kind.
type Param struct {
	name      string
	dtypes    []reflect.Type
	def       any
	mandatory bool
}

// NewParam creates a param admitting values of any of the given types.
// A non nil default must itself be admissible.
func NewParam(name string, def any, mandatory bool, dtypes ...reflect.Type) (*Param, error) {
	if len(dtypes) == 0 {
		return nil, errors.Wrapf(ErrInvalidDType, "param %q", name)
	}
	for _, dtype := range dtypes {
		if dtype == nil {
			return nil, errors.Wrapf(ErrInvalidDType, "param %q", name)
		}
	}
	p := &Param{
		name:      name,
		dtypes:    dtypes,
		mandatory: mandatory,
	}
	if def != nil {
		bound, err := p.Bind(def)
		if err != nil {
			return nil, errors.Wrap(err, "invalid default")
		}
		p.def = bound
	}

	return p, nil
}

// ParamOf declares an optional param of type T with a default value.
func ParamOf[T any](name string, def T) *Param {
	return &Param{
		name:   name,
		dtypes: []reflect.Type{reflect.TypeFor[T]()},
		def:    def,
	}
}

// OptionalOf declares an optional param of type T whose default is nil.
func OptionalOf[T any](name string) *Param {
	return &Param{
		name:   name,
		dtypes: []reflect.Type{reflect.TypeFor[T]()},
	}
}

// MandatoryOf declares a param of type T that must be given at construction.
func MandatoryOf[T any](name string) *Param {
	return &Param{
		name:      name,
		dtypes:    []reflect.Type{reflect.TypeFor[T]()},
		mandatory: true,
	}
}

func (p *Param) Name() string {
	return p.name
}

func (p *Param) DTypes() []reflect.Type {
	return append([]reflect.Type(nil), p.dtypes...)
}

func (p *Param) Default() any {
	return p.def
}

func (p *Param) Mandatory() bool {
	return p.mandatory
}

// Bind checks that v is admissible and converts it to the first declared type it is assignable to.
// nil is admissible for every param; mandatory params are checked at construction.
func (p *Param) Bind(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	val := reflect.ValueOf(v)
	for _, dtype := range p.dtypes {
		if val.Type().AssignableTo(dtype) {
			if dtype.Kind() == reflect.Interface {
				return v, nil
			}
			return val.Convert(dtype).Interface(), nil
		}
	}

	return nil, errors.Wrapf(ErrParamType, "param %q: got %s, want %s", p.name, val.Type(), p.typeNames())
}

func (p *Param) typeNames() string {
	names := make([]string, len(p.dtypes))
	for i, dtype := range p.dtypes {
		names[i] = dtype.String()
	}

	return strings.Join(names, " | ")
}
