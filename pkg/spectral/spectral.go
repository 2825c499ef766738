package spectral

import (
	"github.com/pkg/errors"

	"github.com/askiada/go-procgraph/pkg/pipeline"
)

// SpectralClustering chains the five spectral tasks. By default it clusters into two clusters on a
// two dimensional embedding, which is the checkpoint of the pipeline, and outputs the labels.
var SpectralClustering = pipeline.NewKind("SpectralClustering", pipeline.PipelineKind).
	Task("distance", pipeline.MustTask(Distance, EuclideanDistance.MustNew(nil), nil)).
	Task("affinity", pipeline.MustTask(Affinity, GaussianAffinity.MustNew(nil), nil)).
	Task("laplacian", pipeline.MustTask(Laplacian, GraphLaplacian.MustNew(nil), nil)).
	Task("embedding", pipeline.MustTask(Embedding, SpectralEmbedding.MustNew(pipeline.Args{
		"n_components":  2,
		"is_checkpoint": true,
	}), nil)).
	Task("clustering", pipeline.MustTask(Clustering, KMeans.MustNew(pipeline.Args{
		"n_clusters": 2,
	}), pipeline.Args{"is_output": true})).
	MustBuild()

// New creates a SpectralClustering pipeline. args may replace any task.
func New(args pipeline.Args) (*pipeline.Pipeline, error) {
	return SpectralClustering.NewPipeline(args)
}

// ClusterSweep runs a KMeans for every k on the same data and returns the labels of each as a Tuple.
func ClusterSweep(ks ...int) (*pipeline.Processor, error) {
	procs := make([]any, len(ks))
	for i, k := range ks {
		proc, err := KMeans.New(pipeline.Args{"n_clusters": k})
		if err != nil {
			return nil, errors.Wrapf(err, "k=%d", k)
		}
		procs[i] = proc
	}

	return pipeline.Parallel(false, procs...)
}
