// Command cgm simulates, estimates and scores Conditional Gaussian models
// described by a YAML model file.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
