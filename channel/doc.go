// Package channel derives a channel's role from its audio file name and
// resolves who owns a single-speaker channel.
//
// File names follow the recorder's convention: MIC1.WAV, MIC2.WAV, ... for
// per-person microphones (1-based in the name, 0-based internally),
// PHONE.WAV, SOUND_PAD.WAV, and a mix file whose name contains MIX or
// MASTER. Matching is case-insensitive and uses only the base name.
package channel
