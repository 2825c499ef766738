package drawer

import (
	"time"

	"github.com/askiada/go-procgraph/pkg/pipeline/measure"
	"github.com/askiada/go-procgraph/pkg/pipeline/model"
)

// Drawer is an interface that defines the methods for drawing a processor graph.
type Drawer interface {
	// AddStage adds a stage to the drawer.
	AddStage(stage *model.StageInfo) error
	// AddLink adds a link between two stages. dataFlow is false when the link only means
	// the parent stage contains the child stage.
	AddLink(fromStageName, toStageName string, dataFlow bool) error
	// Draw creates a file with the graph.
	Draw() error
	// SetTotalTime sets the total time for the stage.
	SetTotalTime(stageName string, startTime time.Time) error
	// AddMeasure colours the stages with their average duration.
	AddMeasure(measure measure.Measure) error
}
