// Package transcript defines the shared data shapes of an alignment run:
// utterances as produced by a transcription provider, the channels that
// carry them, and the speaker-attributed lines produced from them.
//
// Values in this package are treated as immutable snapshots once handed to
// the alignment stages; nothing here performs I/O.
package transcript
