// Command attractor decomposes colored transition graphs described in YAML
// into their terminal components.
//
// Usage:
//
//	attractor decompose model.yaml --output components.jsonl.zst --metrics.textfile attractor.prom
//
// Every flag can also be set in a YAML config file (--config) or through an
// ATTRACTOR_ environment variable, e.g. ATTRACTOR_LOG_LEVEL=debug.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
