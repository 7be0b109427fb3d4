// SPDX-License-Identifier: EPL-2.0

// Command spatialdemo loads a folder of clips and plays the first one as a
// looping sound circling the listener, either live through the default
// audio output or rendered offline to a WAV file.
package main

import "os"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
