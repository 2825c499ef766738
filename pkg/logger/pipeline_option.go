package logger

import (
	"time"

	"go.uber.org/zap"

	"github.com/askiada/go-procgraph/pkg/pipeline/model"
)

type pipelineLogger struct {
	log    Logger
	stages int
	calls  int
}

func (pl *pipelineLogger) New() error {
	return nil
}

func (pl *pipelineLogger) PrepareStage(parent, _, stage *model.StageInfo) error {
	pl.stages++
	fields := []zap.Field{
		zap.String("stage", stage.Name),
		zap.String("kind", stage.Kind),
		zap.String("type", string(stage.Type)),
	}
	if parent != nil {
		fields = append(fields, zap.String("parent", parent.Name))
	}
	pl.log.Debug("stage prepared", fields...)

	return nil
}

func (pl *pipelineLogger) OnStageOutput(stage *model.StageInfo, computationDuration time.Duration) error {
	pl.calls++
	pl.log.Debug("stage output",
		zap.String("stage", stage.Name),
		zap.Duration("duration", computationDuration),
		zap.Bool("checkpoint", stage.IsCheckpoint),
	)

	return nil
}

func (pl *pipelineLogger) Finish() error {
	pl.log.Info("pipeline finished", zap.Int("stages", pl.stages), zap.Int("calls", pl.calls))

	return nil
}

// PipelineLogger logs every stage of the processor graph at debug level and a summary when the runner finishes.
func PipelineLogger(log Logger) model.PipelineOption {
	return &pipelineLogger{log: log}
}
