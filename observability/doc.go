// Package observability wires OpenTelemetry tracing and metrics into
// voxalign.
//
// Tracing:
//
//	tp, err := observability.InitTracer(ctx, cfg.TracerConfig("voxalign", version.Version))
//	defer tp.Shutdown(ctx)
//
//	ctx, span := observability.StartStage(ctx, "aligned")
//	defer span.End()
//
// Metrics:
//
//	metrics, err := observability.NewMetrics(observability.Meter("voxalign"))
//	metrics.RecordRun(ctx, "matched", true, elapsed)
//
// A nil *Metrics is valid and records nothing, so library callers that do
// not care about telemetry can leave it out.
package observability
