package model

import "time"

// PipelineOption defines the interface for pipeline options.
type PipelineOption interface {
	// New initialises the pipeline option.
	New() error

	// PrepareStage runs once per stage before the first run of a processor graph.
	// parent is the enclosing stage, nil for the root. previous is the stage feeding this one
	// with data, nil when the stage receives the input of its parent.
	PrepareStage(parent, previous, stage *StageInfo) error
	// OnStageOutput runs everytime a stage returns a value.
	OnStageOutput(stage *StageInfo, computationDuration time.Duration) error

	// Finish runs after the last run.
	Finish() error
}
