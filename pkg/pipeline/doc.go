// Package pipeline provides declarative processor graphs.
//
// A Processor is a computation bound to typed, named values. Its Kind declares those values as Params,
// in order, and inherits the params of its parent kind, so configuration is checked once when the
// processor is created: unknown names, values of the wrong type and missing mandatory values are errors.
//
// A pipeline kind declares Tasks: named slots constraining the kind of processor they accept and
// providing a default one. Creating a pipeline resolves every task into a processor, either the one
// given by the caller or a copy of the default, and calling it threads its input through them in
// declaration order. Processors flagged as checkpoints keep their last output so the rest of the
// pipeline can be recomputed from there without running the expensive stages again.
//
// Sequential and Parallel compose processors without a pipeline kind. Parallel is a structural
// fan-out, every process runs in the calling goroutine, one after the other.
//
// A Runner calls processors while reporting every stage to pipeline options, such as the measure,
// drawer and logger packages.
package pipeline
