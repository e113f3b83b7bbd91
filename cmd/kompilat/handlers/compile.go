// Package handlers implements the business logic for CLI commands.
//
// Handlers are framework-agnostic and can be tested independently of the
// CLI framework.
package handlers

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/kompilat/kompilat/internal/compile"
	"github.com/kompilat/kompilat/internal/config"
	"github.com/kompilat/kompilat/internal/document"
)

// Factory function variables - can be replaced in tests for dependency injection.
var (
	loadLayer = config.LoadLayer
	getenv    = os.Getenv
	writeFile = os.WriteFile
	mkdirAll  = os.MkdirAll
	stdout    = os.Stdout
)

// externalKeys are the runtime values picked up from the process
// environment and fed into the resolver.
var externalKeys = []string{"CLUSTER_NAME", "REGION", "DOMAIN", "INGRESS_HOST", "VPC_CIDR"}

// CompileOptions holds the inputs for the compile handler.
type CompileOptions struct {
	LayerPaths  []string
	Environment string
	OutputDir   string
}

// Compile resolves the layer stack and writes the compiled documents,
// either as one multi-document YAML stream on stdout or as one file per
// document in the output directory.
func Compile(opts CompileOptions) error {
	cfg, err := resolveStack(opts.LayerPaths, opts.Environment)
	if err != nil {
		return err
	}

	docs, err := compile.All(cfg)
	if err != nil {
		return err
	}
	log.Printf("Compiled %d documents for cluster %s (%s)", len(docs), cfg.Cluster.Name, cfg.Cluster.Environment)

	if opts.OutputDir == "" {
		rendered, err := document.RenderAll(docs)
		if err != nil {
			return err
		}
		_, err = stdout.Write(rendered)
		return err
	}

	if err := mkdirAll(opts.OutputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	for _, doc := range docs {
		rendered, err := doc.Render()
		if err != nil {
			return err
		}
		path := filepath.Join(opts.OutputDir, doc.ID()+".yaml")
		if err := writeFile(path, rendered, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
	}
	log.Printf("Wrote %d documents to %s", len(docs), opts.OutputDir)
	return nil
}

// Validate resolves and compiles the layer stack, reporting success
// without emitting any documents.
func Validate(layerPaths []string, environment string) error {
	cfg, err := resolveStack(layerPaths, environment)
	if err != nil {
		return err
	}

	docs, err := compile.All(cfg)
	if err != nil {
		return err
	}
	log.Printf("Configuration valid: %d documents would be compiled", len(docs))
	return nil
}

// resolveStack loads the layer files and resolves the full stack with
// runtime values from the process environment.
func resolveStack(layerPaths []string, environment string) (*config.Config, error) {
	layers := make([]config.Layer, 0, len(layerPaths))
	for _, path := range layerPaths {
		layer, err := loadLayer(path)
		if err != nil {
			return nil, err
		}
		layers = append(layers, layer)
	}

	external := make(map[string]string, len(externalKeys))
	for _, key := range externalKeys {
		if value := getenv(key); value != "" {
			external[key] = value
		}
	}

	return config.Resolve(config.Stack{
		Environment: config.Environment(environment),
		Layers:      layers,
		External:    external,
	})
}
