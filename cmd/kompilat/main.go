// Package main is the entry point for the kompilat CLI.
//
// kompilat resolves layered platform configuration and compiles the
// operational intents in it (security posture, quota tiers, scheduling
// priorities, network reachability, access entitlements) into canonical
// Kubernetes documents, ready to be applied by kubectl or a GitOps
// controller.
//
// Commands: compile, validate, version.
package main

import (
	"fmt"
	"os"

	"github.com/kompilat/kompilat/cmd/kompilat/commands"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
