package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kompilat/kompilat/internal/merge"
)

// Layer is one partial configuration tree in the resolution stack.
// Layers are constructed once and never mutated; Name is used only in
// diagnostics.
type Layer struct {
	Name string
	Tree map[string]any
}

// LoadLayer reads and parses a YAML layer file.
func LoadLayer(path string) (Layer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layer{}, fmt.Errorf("failed to read layer file: %w", err)
	}

	var tree map[string]any
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return Layer{}, fmt.Errorf("failed to parse layer %s: %w", path, err)
	}

	return Layer{Name: path, Tree: tree}, nil
}

// Defaults returns the compiled-in lowest-precedence layer. A fresh tree
// is built on every call so callers can never alias shared state.
func Defaults() Layer {
	return Layer{
		Name: "defaults",
		Tree: map[string]any{
			"cluster": map[string]any{
				"region": "eu-central-1",
			},
			"network": map[string]any{
				"vpc_cidr":       "10.0.0.0/16",
				"gateway_count":  1,
				"cluster_domain": "cluster.local",
			},
			"auth": map[string]any{
				"mode": string(AuthModeAPI),
			},
			"security": map[string]any{
				"always_enforce":   false,
				"always_audit":     false,
				"policy_namespace": "kyverno",
			},
		},
	}
}

// environmentOverlay returns the per-environment layer applied on top of
// the defaults. Unknown environments contribute an empty overlay; the
// resolver rejects them separately.
func environmentOverlay(env Environment) Layer {
	name := fmt.Sprintf("environment:%s", env)
	switch env {
	case EnvironmentStaging:
		return Layer{Name: name, Tree: map[string]any{
			"network": map[string]any{"gateway_count": 2},
		}}
	case EnvironmentProduction:
		return Layer{Name: name, Tree: map[string]any{
			"network": map[string]any{"gateway_count": 3},
			"auth":    map[string]any{"mode": string(AuthModeBoth)},
		}}
	default:
		return Layer{Name: name, Tree: map[string]any{}}
	}
}

// apply merges the layer on top of base and returns the combined tree.
func (l Layer) apply(base map[string]any) map[string]any {
	return merge.Maps(base, l.Tree)
}
