// Package transcription decodes payloads already fetched from a
// speech-to-text provider into transcript utterances.
//
// Payloads carry millisecond timestamps unless "unit" says "s", and speaker
// labels in any of the common provider shapes: letters ("A"), prefixed ids
// ("SPEAKER_01") or integers. Everything is normalized to seconds and
// 0-based labels.
//
// # Usage
//
//	sources, err := transcription.DirSources("./payloads")
//	// each source reads and decodes "<AUDIO FILE>.json" lazily on Load
//
// Talking to the provider itself (upload, polling, retries) happens outside
// this module.
package transcription
