package spectral

import (
	"github.com/askiada/go-procgraph/pkg/pipeline"
)

// Base kinds of the SpectralClustering tasks. They have no computation of their own.
var (
	Distance   = pipeline.NewKind("Distance", nil).MustBuild()
	Affinity   = pipeline.NewKind("Affinity", nil).MustBuild()
	Laplacian  = pipeline.NewKind("Laplacian", nil).MustBuild()
	Embedding  = pipeline.NewKind("Embedding", nil).MustBuild()
	Clustering = pipeline.NewKind("Clustering", nil).MustBuild()
)

// Register adds every spectral kind to reg.
func Register(reg *pipeline.Registry) error {
	return reg.Register(
		Distance, Affinity, Laplacian, Embedding, Clustering,
		EuclideanDistance, CosineDistance,
		GaussianAffinity, KNNAffinity,
		GraphLaplacian,
		SpectralEmbedding,
		KMeans,
		SpectralClustering,
	)
}
