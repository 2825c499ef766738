package measure

import (
	"time"

	"github.com/pkg/errors"

	"github.com/askiada/go-procgraph/pkg/pipeline/model"
)

var ErrUnknownStage = errors.New("unknown stage")

type pipelineMeasure struct {
	Measure
}

func (pm *pipelineMeasure) New() error {
	return nil
}

func (pm *pipelineMeasure) PrepareStage(_, _, stage *model.StageInfo) error {
	pm.AddMetric(stage.Name)

	return nil
}

func (pm *pipelineMeasure) OnStageOutput(stage *model.StageInfo, computationDuration time.Duration) error {
	mt := pm.GetMetric(stage.Name)
	if mt == nil {
		return errors.Wrap(ErrUnknownStage, stage.Name)
	}
	mt.AddDuration(computationDuration)

	return nil
}

func (pm *pipelineMeasure) Finish() error {
	return nil
}

// PipelineMeasure records the computation duration of every stage in measure.
func PipelineMeasure(measure Measure) model.PipelineOption {
	return &pipelineMeasure{measure}
}
