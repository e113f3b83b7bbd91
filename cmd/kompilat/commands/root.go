// Package commands defines the CLI command structure and flag bindings.
//
// This package contains cobra command definitions that handle argument
// parsing and flag binding. Command execution is delegated to handler
// functions in the handlers package.
package commands

import "github.com/spf13/cobra"

// Root returns the root command for the kompilat CLI.
func Root() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "kompilat",
		Short: "Compile layered platform configuration into Kubernetes documents",
	}

	cmd.AddCommand(Compile())
	cmd.AddCommand(Validate())
	cmd.AddCommand(Version())

	return cmd
}
