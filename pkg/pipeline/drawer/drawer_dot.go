package drawer

import (
	"io"
	"maps"
	"os"
	"slices"
	"time"

	"github.com/dominikbraun/graph"
	"github.com/dominikbraun/graph/draw"
	"github.com/pkg/errors"
	"gopkg.in/go-playground/colors.v1" //nolint

	"github.com/askiada/go-procgraph/pkg/pipeline/measure"
	"github.com/askiada/go-procgraph/pkg/pipeline/model"
)

// DOTDrawer writes the processor graph in the graphviz DOT language.
type DOTDrawer struct {
	graph    graph.Graph[string, string]
	fileName string
}

// NewDOTDrawer creates a new DOT drawer writing to fileName.
func NewDOTDrawer(fileName string) *DOTDrawer {
	return &DOTDrawer{
		fileName: fileName,
		graph:    graph.New(graph.StringHash, graph.Directed()),
	}
}

// AddStage adds a stage to the graph. Checkpoints are drawn as 3D boxes and outputs with a double border.
func (d *DOTDrawer) AddStage(stage *model.StageInfo) error {
	opts := []func(*graph.VertexProperties){
		graph.VertexAttribute("shape", "box"),
		graph.VertexAttribute("tooltip", stage.Kind),
	}
	if stage.IsCheckpoint {
		opts = append(opts, graph.VertexAttribute("shape", "box3d"))
	}
	if stage.IsOutput {
		opts = append(opts, graph.VertexAttribute("peripheries", "2"))
	}

	err := d.graph.AddVertex(stage.Name, opts...)
	if err != nil && !errors.Is(err, graph.ErrVertexAlreadyExists) {
		return errors.Wrap(err, "unable to add vertex")
	}

	return nil
}

// AddLink adds a link between two stages.
func (d *DOTDrawer) AddLink(fromName, toName string, dataFlow bool) error {
	style := "dashed"
	if dataFlow {
		style = "solid"
	}

	err := d.graph.AddEdge(fromName, toName, graph.EdgeAttribute("style", style))
	if err != nil && !errors.Is(err, graph.ErrEdgeAlreadyExists) {
		return errors.Wrapf(err, "unable to add edge from %s to %s", fromName, toName)
	}

	return nil
}

// Draw creates a DOT file with the graph.
func (d *DOTDrawer) Draw() error {
	file, err := os.Create(d.fileName)
	if err != nil {
		return errors.Wrapf(err, "unable to create file %s", d.fileName)
	}
	defer file.Close()

	err = d.DrawTo(file)
	if err != nil {
		return errors.Wrapf(err, "unable to create dot file %s", d.fileName)
	}

	return nil
}

// DrawTo writes the graph to wrt.
func (d *DOTDrawer) DrawTo(wrt io.Writer) error {
	err := draw.DOT(d.graph, wrt, draw.GraphAttribute("rankdir", "LR"))
	if err != nil {
		return errors.Wrap(err, "unable to render graph")
	}

	return nil
}

// SetTotalTime sets the total time for the stage.
func (d *DOTDrawer) SetTotalTime(stageName string, startTime time.Time) error {
	_, properties, err := d.graph.VertexWithProperties(stageName)
	if err != nil {
		return errors.Wrapf(err, "unable to get %s vertex properties", stageName)
	}

	properties.Attributes["xlabel"] = "total: " + time.Since(startTime).String()

	return nil
}

const maxRGB = 240

// AddMeasure colours every measured stage from blue, the fastest, to red, the slowest.
func (d *DOTDrawer) AddMeasure(msr measure.Measure) error {
	metrics := msr.AllMetrics()
	avgs := make(map[string]time.Duration, len(metrics))
	for name, mt := range metrics {
		if avg := mt.AVGDuration(); avg > 0 {
			avgs[name] = avg
		}
	}
	if len(avgs) == 0 {
		return nil
	}

	sorted := slices.Sorted(maps.Values(avgs))
	minValue, maxValue := sorted[0], sorted[len(sorted)-1]

	for name, avg := range avgs {
		fraction := 1.0
		if maxValue > minValue {
			fraction = float64(avg-minValue) / float64(maxValue-minValue)
		}

		red := maxRGB * fraction
		blue := maxRGB - red

		colour, err := colors.RGB(uint8(red), 0, uint8(blue)) //nolint
		if err != nil {
			return errors.Wrap(err, "unable to get colour")
		}

		_, properties, err := d.graph.VertexWithProperties(name)
		if err != nil {
			return errors.Wrapf(err, "unable to get %s vertex properties", name)
		}

		label := "avg: " + avg.String()
		if total, ok := properties.Attributes["xlabel"]; ok {
			label += ", " + total
		}
		properties.Attributes["xlabel"] = label
		properties.Attributes["color"] = colour.ToHEX().String()
	}

	return nil
}

var _ Drawer = (*DOTDrawer)(nil)
