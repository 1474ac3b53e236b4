// Command mddpart inspects the partitioning of MDD documents.
package main

import (
	"os"
)

// Version information (set via ldflags during build).
var version = "dev"

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}
