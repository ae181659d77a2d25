// Command reclaim discovers and reclaims disk space consumed by developer
// project artifacts: dependency directories, build output, language and
// package-manager caches, duplicate toolchain installs, and stale Docker
// state.
package main

import (
	"fmt"
	"os"
)

var (
	version = "0.1.0"
	commit  = "dev"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
