// Package main implements tend, a daemon that tracks local project
// directories and nudges the user about the ones going stale.
package main

import "os"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
