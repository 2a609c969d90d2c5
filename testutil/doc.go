// Package testutil provides fixture builders shared by voxalign's package
// tests: utterances, channels, sources that fail or panic on load, and
// small helpers for comparing rendered lines.
//
//	master := testutil.Channel("MIX.WAV",
//	    testutil.Utt(0, 2, "hello there"),
//	    testutil.Utt(10, 12, "yeah totally"),
//	)
package testutil
