// Command voxalign attributes multi-channel meeting transcripts to speakers.
//
//	voxalign diagnose ./payloads
//	voxalign run ./payloads --assign 0=Ann --assign 1=Ben --format markdown
//	voxalign serve
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
