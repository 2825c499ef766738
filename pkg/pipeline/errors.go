package pipeline

import (
	"github.com/pkg/errors"
)

var (
	// ErrType is the root of every configuration error raised while declaring kinds or constructing processors.
	ErrType = errors.New("type error")
	// ErrState is the root of every error raised by calling a processor in a state that cannot serve the call.
	ErrState = errors.New("state error")

	ErrInvalidDType  = errors.WithMessage(ErrType, "param dtype must be a non nil type")
	ErrUnknownParam  = errors.WithMessage(ErrType, "unknown param")
	ErrParamType     = errors.WithMessage(ErrType, "param value has wrong type")
	ErrMissingParam  = errors.WithMessage(ErrType, "mandatory param is missing")
	ErrTaskType      = errors.WithMessage(ErrType, "processor does not satisfy task type")
	ErrNotProcessor  = errors.WithMessage(ErrType, "value is neither a processor nor a function")
	ErrBindMethod    = errors.WithMessage(ErrType, "function does not match bind_method")
	ErrKindMustBeSet = errors.WithMessage(ErrType, "kind must be set")
	ErrDataType      = errors.WithMessage(ErrType, "data has wrong type")

	ErrNotImplemented   = errors.WithMessage(ErrState, "processor function is not implemented")
	ErrNoCheckpoint     = errors.WithMessage(ErrState, "no checkpoint processor in pipeline")
	ErrNoCheckpointData = errors.WithMessage(ErrState, "checkpoint processor has no data")
	ErrNotPipeline      = errors.WithMessage(ErrState, "processor is not a pipeline")
	ErrUnknownTask      = errors.WithMessage(ErrState, "unknown task")

	ErrBroadcastInput  = errors.New("broadcast input must be a tuple")
	ErrBroadcastLength = errors.New("broadcast input length does not match processors")

	ErrKindAlreadyRegistered = errors.New("kind already registered")
	ErrKindNotFound          = errors.New("kind not found")
)
