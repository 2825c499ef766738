package model

type StageType string

const (
	ProcessorStageType  StageType = "processor"
	FunctionStageType   StageType = "function"
	PipelineStageType   StageType = "pipeline"
	SequentialStageType StageType = "sequential"
	ParallelStageType   StageType = "parallel"
)

// StageInfo describes one processor of a processor graph.
type StageInfo struct {
	Type StageType
	// Name is the slash separated path of the stage from the root, e.g. "SpectralClustering/affinity".
	Name string
	// Kind is the name of the processor kind.
	Kind         string
	IsOutput     bool
	IsCheckpoint bool
}
