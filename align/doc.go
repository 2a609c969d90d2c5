// Package align attributes master-mix utterances to speakers.
//
// For every non-blank master utterance the Aligner scores every non-blank
// utterance of every single-speaker channel and keeps the best one. If the
// best score clears the scorer's threshold the line inherits that channel's
// owner, otherwise it is labeled with the unknown-speaker label. The search
// is exhaustive and deterministic: ties keep the earliest candidate in
// channel order, then utterance order.
//
// When no single-speaker channel carries any speech the Aligner falls back
// to the master's own diarization labels, mapped through the mic
// assignments, so that no utterance is dropped.
//
// Master utterances are searched concurrently on a bounded worker pool and
// written back by index, so output order always equals master order.
package align
