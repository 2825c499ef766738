// Package run contains the command running a spectral clustering pipeline on a CSV file of points.
package run

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/oklog/ulid/v2"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"

	"github.com/askiada/go-procgraph/pkg/config"
	"github.com/askiada/go-procgraph/pkg/logger"
	"github.com/askiada/go-procgraph/pkg/pipeline"
	"github.com/askiada/go-procgraph/pkg/pipeline/drawer"
	"github.com/askiada/go-procgraph/pkg/pipeline/measure"
	"github.com/askiada/go-procgraph/pkg/pipeline/model"
	"github.com/askiada/go-procgraph/pkg/spectral"
	"github.com/askiada/go-procgraph/pkg/storage"
	"github.com/askiada/go-procgraph/pkg/storage/memory"
	"github.com/askiada/go-procgraph/pkg/storage/sqlite"
)

const clusteringTask = "clustering"

var ErrUnexpectedOutput = errors.New("pipeline output is not a list of labels")

// NewRunCommand creates the run command.
func NewRunCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "run",
		Short: "Cluster the points of a CSV file",
		Long: `Cluster the points of a CSV file with a spectral clustering pipeline.

The labels are printed, one per point, and written to the storage under <run-id>/labels.
With --sweep the clustering is rerun from the embedding checkpoint for every number of clusters.`,
		RunE: run,
		Args: cobra.NoArgs,
	}

	bindRunFlags(command)

	return command
}

// runSettings are the flags that are not part of the config.
type runSettings struct {
	input    string
	clusters int
	sweep    []int
}

func readSettings(command *cobra.Command) (*runSettings, error) {
	flags := command.Flags()
	input, err := flags.GetString(inputFlag)
	if err != nil {
		return nil, err
	}
	clusters, err := flags.GetInt(clustersFlag)
	if err != nil {
		return nil, err
	}
	sweep, err := flags.GetIntSlice(sweepFlag)
	if err != nil {
		return nil, err
	}

	return &runSettings{input: input, clusters: clusters, sweep: sweep}, nil
}

func run(command *cobra.Command, _ []string) error {
	cfg, err := readConfig(command)
	if err != nil {
		return err
	}
	settings, err := readSettings(command)
	if err != nil {
		return err
	}

	log, err := logger.NewLogger(cfg.Log.Format, cfg.Log.Level)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	return RunSpectral(command.Context(), cfg, settings.input, settings.clusters, settings.sweep, log, command.OutOrStdout())
}

// RunSpectral clusters the points of the CSV file input with the pipeline of cfg and prints the labels to out.
// clusters overrides the number of clusters when positive. Every k of sweep is then tried from the checkpoint
// of the pipeline.
func RunSpectral(
	ctx context.Context,
	cfg *config.Config,
	input string,
	clusters int,
	sweep []int,
	log *logger.ZapLogger,
	out io.Writer,
) error {
	points, err := readPointsFile(input)
	if err != nil {
		return err
	}

	reg := pipeline.NewRegistry()
	err = spectral.Register(reg)
	if err != nil {
		return err
	}
	pipe, err := cfg.Pipeline.Build(reg)
	if err != nil {
		return errors.Wrap(err, "unable to build pipeline")
	}
	if clusters > 0 {
		err = setClusters(pipe, clusters)
		if err != nil {
			return err
		}
	}

	runID := ulid.Make().String()
	ctx = logger.WithRunID(ctx, runID)
	log = log.With(zap.String("pipeline", cfg.Pipeline.Kind))
	rows, cols := points.Dims()
	log.InfoWithContext(ctx, "run started",
		zap.Int("points", rows),
		zap.Int("dimensions", cols),
	)

	var registry *prometheus.Registry
	opts := []model.PipelineOption{logger.PipelineLogger(log)}
	var msr measure.Measure
	switch {
	case cfg.Metrics.Enabled:
		registry = prometheus.NewRegistry()
		msr = measure.NewPrometheusMeasure(registry)
	case cfg.Draw.File != "":
		msr = measure.NewDefaultMeasure()
	}
	if msr != nil {
		opts = append(opts, measure.PipelineMeasure(msr))
	}
	if cfg.Draw.File != "" {
		opts = append(opts, drawer.PipelineDrawer(drawer.NewDOTDrawer(cfg.Draw.File), msr))
	}

	runner, err := pipeline.NewRunner(opts...)
	if err != nil {
		return err
	}

	runErr := storage.Use(opener(cfg.Storage), func(s storage.Storage) error {
		return runAll(ctx, runner, pipe, points, s, runID, sweep, out)
	})
	// the graph and the metrics are written even when the run fails
	finishErr := finish(runner, registry, cfg.Metrics.File)
	if runErr != nil {
		log.ErrorWithContext(ctx, "run failed", zap.Error(runErr))
		if finishErr != nil {
			log.WarnWithContext(ctx, "unable to finish run", zap.Error(finishErr))
		}

		return runErr
	}
	if finishErr != nil {
		return finishErr
	}

	if msr != nil {
		for name, mt := range msr.AllMetrics() {
			log.DebugWithContext(ctx, "stage timing",
				zap.String("stage", name),
				zap.Int64("calls", mt.Count()),
				zap.Duration("average", mt.AVGDuration()),
			)
		}
	}

	log.InfoWithContext(ctx, "run finished")

	return nil
}

// finish finishes the pipeline options and writes the metrics of registry to metricsFile when both are set.
func finish(runner *pipeline.Runner, registry *prometheus.Registry, metricsFile string) error {
	err := runner.Finish()
	if err != nil {
		return err
	}

	if registry != nil && metricsFile != "" {
		err = prometheus.WriteToTextfile(metricsFile, registry)
		if err != nil {
			return errors.Wrap(err, "unable to write metrics")
		}
	}

	return nil
}

func runAll(
	ctx context.Context,
	runner *pipeline.Runner,
	pipe *pipeline.Pipeline,
	points *mat.Dense,
	s storage.Storage,
	runID string,
	sweep []int,
	out io.Writer,
) error {
	result, err := runner.Run(ctx, pipe.Processor, points)
	if err != nil {
		return err
	}
	err = writeLabels(ctx, s, runID+"/labels", result, out, "labels")
	if err != nil {
		return err
	}

	for _, k := range sweep {
		err = setClusters(pipe, k)
		if err != nil {
			return err
		}
		result, err = runner.FromCheckpoint(ctx, pipe)
		if err != nil {
			return errors.Wrapf(err, "k=%d", k)
		}
		err = writeLabels(ctx, s, fmt.Sprintf("%s/k=%d/labels", runID, k), result, out, "k="+strconv.Itoa(k))
		if err != nil {
			return err
		}
	}

	return nil
}

// setClusters replaces the clustering process with a copy clustering into k clusters.
func setClusters(pipe *pipeline.Pipeline, k int) error {
	proc, ok := pipe.Process(clusteringTask)
	if !ok {
		return errors.Wrapf(pipeline.ErrUnknownTask, "%q", clusteringTask)
	}
	updated, err := proc.With(pipeline.Args{"n_clusters": k})
	if err != nil {
		return errors.Wrapf(err, "unable to set %d clusters", k)
	}

	return pipe.SetProcess(clusteringTask, updated)
}

func writeLabels(ctx context.Context, s storage.Storage, key string, result any, out io.Writer, title string) error {
	labels, err := labelsOf(result)
	if err != nil {
		return err
	}
	err = storage.WriteLabels(ctx, s, key, labels)
	if err != nil {
		return err
	}

	values := make([]string, len(labels))
	for i, label := range labels {
		values[i] = strconv.Itoa(label)
	}
	_, err = fmt.Fprintf(out, "%s: %s\n", title, strings.Join(values, ","))

	return errors.Wrap(err, "unable to print labels")
}

// labelsOf returns the labels of a pipeline result. When the pipeline has several outputs the labels are the last one.
func labelsOf(result any) ([]int, error) {
	if tuple, ok := result.(pipeline.Tuple); ok && len(tuple) > 0 {
		result = tuple[len(tuple)-1]
	}
	labels, ok := result.([]int)
	if !ok {
		return nil, errors.Wrapf(ErrUnexpectedOutput, "%T", result)
	}

	return labels, nil
}

func opener(cfg config.StorageConfig) storage.Opener {
	if cfg.Engine == "sqlite" {
		return func() (storage.Storage, error) {
			return sqlite.New(cfg.URI)
		}
	}

	return func() (storage.Storage, error) {
		return memory.New(), nil
	}
}
