// Package model provides the data structures shared by the pipeline package and its options.
// It defines the description of a stage in a processor graph and the hooks a pipeline option
// implements to observe how the graph is prepared and run.
package model
