// Package spectral implements spectral clustering as a graph of processors.
//
// A SpectralClustering pipeline runs five tasks in order:
//
//	distance -> affinity -> laplacian -> embedding -> clustering
//
// Each task accepts any processor of its base kind, so a step can be swapped without touching
// the others, e.g. a KNNAffinity in place of the default GaussianAffinity. The embedding task is a
// checkpoint: once a pipeline has run, the clustering tail can be rerun from the embedding with
// another clustering, which is how the number of clusters is swept.
package spectral
