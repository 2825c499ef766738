package drawer

import (
	"time"

	"github.com/pkg/errors"

	"github.com/askiada/go-procgraph/pkg/pipeline/measure"
	"github.com/askiada/go-procgraph/pkg/pipeline/model"
)

type pipelineDrawer struct {
	Drawer
	m         measure.Measure
	startTime time.Time
	root      string
}

func (pd *pipelineDrawer) New() error {
	pd.startTime = time.Now()

	return nil
}

// PrepareStage links a stage to the stage feeding it, or to its parent when it receives the
// input of its parent.
func (pd *pipelineDrawer) PrepareStage(parent, previous, stage *model.StageInfo) error {
	err := pd.AddStage(stage)
	if err != nil {
		return err
	}

	switch {
	case previous != nil:
		err = pd.AddLink(previous.Name, stage.Name, true)
	case parent != nil:
		err = pd.AddLink(parent.Name, stage.Name, false)
	case pd.root == "":
		pd.root = stage.Name
	}
	if err != nil {
		return err
	}

	return nil
}

func (pd *pipelineDrawer) OnStageOutput(_ *model.StageInfo, _ time.Duration) error {
	return nil
}

func (pd *pipelineDrawer) Finish() error {
	if pd.m != nil {
		if pd.root != "" {
			err := pd.SetTotalTime(pd.root, pd.startTime)
			if err != nil {
				return errors.Wrap(err, "unable to set total time")
			}
		}
		err := pd.AddMeasure(pd.m)
		if err != nil {
			return errors.Wrap(err, "unable to add measure")
		}
	}

	err := pd.Draw()
	if err != nil {
		return errors.Wrap(err, "unable to draw pipeline")
	}

	return nil
}

// PipelineDrawer draws the processor graph when the runner finishes. When measure is set the
// stages are coloured with their average duration.
func PipelineDrawer(drawer Drawer, measure measure.Measure) model.PipelineOption {
	return &pipelineDrawer{Drawer: drawer, m: measure}
}
