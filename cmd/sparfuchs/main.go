// Package main is the single-binary entrypoint for Sparfuchs.
// Sparfuchs keeps your household finances and saving streaks in one place.
package main

import "github.com/sparfuchs-app/sparfuchs/internal/cli"

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	cli.Execute(version)
}
