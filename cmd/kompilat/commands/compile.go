package commands

import (
	"github.com/spf13/cobra"

	"github.com/kompilat/kompilat/cmd/kompilat/handlers"
)

// Compile returns the command that resolves layers and emits compiled
// documents.
//
// Flags:
//
//	--layer, -f: Path to a layer YAML file; repeatable, lowest precedence first
//	--environment, -e: Target environment (dev, staging, production)
//	--output, -o: Directory for per-document files (default: multi-doc YAML on stdout)
func Compile() *cobra.Command {
	var layerPaths []string
	var environment string
	var outputDir string

	cmd := &cobra.Command{
		Use:   "compile",
		Short: "Resolve configuration layers and compile intent documents",
		Long: `Resolve an ordered stack of configuration layers into one fully
specified configuration, then compile its intent records into canonical
Kubernetes documents.

Layers are merged lowest precedence first; runtime values from the
environment (CLUSTER_NAME, REGION, DOMAIN, INGRESS_HOST, VPC_CIDR) are
applied on top when set.

Examples:
  # Compile to stdout
  kompilat compile -f base.yaml -f team-a.yaml -e production

  # Write one file per document
  kompilat compile -f base.yaml -e dev -o ./manifests`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return handlers.Compile(handlers.CompileOptions{
				LayerPaths:  layerPaths,
				Environment: environment,
				OutputDir:   outputDir,
			})
		},
	}

	cmd.Flags().StringArrayVarP(&layerPaths, "layer", "f", nil, "layer YAML file, repeatable, lowest precedence first")
	cmd.Flags().StringVarP(&environment, "environment", "e", "dev", "target environment (dev, staging, production)")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "write one file per document into this directory")

	return cmd
}

// Validate returns the command that resolves and compiles without
// emitting documents.
func Validate() *cobra.Command {
	var layerPaths []string
	var environment string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Resolve and compile the configuration without emitting documents",
		RunE: func(_ *cobra.Command, _ []string) error {
			return handlers.Validate(layerPaths, environment)
		},
	}

	cmd.Flags().StringArrayVarP(&layerPaths, "layer", "f", nil, "layer YAML file, repeatable, lowest precedence first")
	cmd.Flags().StringVarP(&environment, "environment", "e", "dev", "target environment (dev, staging, production)")

	return cmd
}
