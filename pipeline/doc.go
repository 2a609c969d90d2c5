// Package pipeline provides composable, pull-based stream operators used to
// run the alignment stages.
//
// Pipelines are lazy: no work happens until values are pulled via Collect or
// ForEach. Each stage pulls from the previous stage on demand.
//
// # Operators
//
// Synchronous:
//
//   - Map: transform each value
//   - Filter: keep values matching a predicate
//   - Enumerate: pair each value with its position
//   - Reduce: fold all values into one result
//
// Concurrent:
//
//   - Parallel: Map over a bounded worker pool (order NOT preserved; pair
//     with Enumerate to write results back by index)
//
// # Usage
//
//	results := make([]Line, len(master))
//	indexed := pipeline.Enumerate(pipeline.FromSlice(master))
//	matched := pipeline.Parallel(indexed, workers, bestMatch)
//	err := pipeline.ForEach(ctx, matched, func(_ context.Context, r pipeline.Indexed[Line]) error {
//	    results[r.Index] = r.Value
//	    return nil
//	})
package pipeline
