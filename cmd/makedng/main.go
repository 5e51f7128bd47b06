// Command makedng is the thin CLI collaborator around the decode and
// dngwriter packages: it sniffs one or more input files, dispatches each to
// the decoder that understands it, and assembles the results into a single
// DNG file.
package main

import "os"

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
