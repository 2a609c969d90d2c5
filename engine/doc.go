// Package engine runs a full attribution over one recorded session.
//
// A run moves through fixed stages, each traced and logged:
//
//	diagnosed   load and classify every channel, collect load errors
//	aligned     attribute single-speaker channels, align the master mix
//	composited  render the master lines into one transcript
//	analyzed    per-speaker statistics and the optional tone
//	reported    package everything as a report.AttributionResult
//
// Usage:
//
//	eng, err := engine.New(settings, engine.WithLogger(log))
//	res, err := eng.Run(ctx, engine.Input{Sources: sources})
//
// Problems with the data never surface as errors from Run: they end up in
// the result's Analysis and ErrorMessage. Run only fails when its context
// is canceled.
package engine
