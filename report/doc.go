// Package report builds the two host-facing records of a run: the
// pre-flight AnalysisReport produced by Diagnose, and the AttributionResult
// assembled by BuildResult once the transcript has been attributed.
package report
