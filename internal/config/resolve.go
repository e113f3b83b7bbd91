package config

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"

	"github.com/kompilat/kompilat/internal/merge"
)

// Stack is the ordered input to Resolve. Precedence, lowest to highest:
// compiled-in defaults, the environment overlay, Layers left to right,
// External runtime values, Overrides.
type Stack struct {
	Environment Environment

	// Layers are caller-supplied partial trees, lowest precedence first.
	Layers []Layer

	// External holds flat runtime values (typically environment
	// variables). A value is applied only when non-empty; an absent or
	// empty value never clobbers an earlier layer.
	External map[string]string

	// Overrides is an optional ad hoc tree with the highest precedence.
	Overrides map[string]any
}

// externalBindings maps external value keys to their tree paths. Applied
// in this order, each only when the value is non-empty.
var externalBindings = []struct {
	key  string
	path []string
}{
	{"CLUSTER_NAME", []string{"cluster", "name"}},
	{"REGION", []string{"cluster", "region"}},
	{"DOMAIN", []string{"cluster", "domain"}},
	{"INGRESS_HOST", []string{"cluster", "ingress_host"}},
	{"VPC_CIDR", []string{"network", "vpc_cidr"}},
}

// Resolve applies the full layer stack and returns the resolved
// configuration. It is the single validation gate before compilation: a
// required field left unset by every layer fails with a ResolutionError.
func Resolve(s Stack) (*Config, error) {
	if !ValidEnvironments[s.Environment] {
		return nil, fmt.Errorf("unknown environment %q", s.Environment)
	}

	tree := Defaults().Tree
	tree = environmentOverlay(s.Environment).apply(tree)
	for _, layer := range s.Layers {
		tree = layer.apply(tree)
	}
	tree = applyExternal(tree, s.External)
	if s.Overrides != nil {
		tree = merge.Maps(tree, s.Overrides)
	}

	// Environment always comes from the stack, not from a layer.
	setPath(tree, []string{"cluster", "environment"}, string(s.Environment))

	// Derived fields run last and never overwrite explicit values.
	deriveIngressHost(tree)

	var cfg Config
	if err := mapstructure.Decode(tree, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode resolved configuration: %w", err)
	}

	if err := cfg.validateResolved(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// applyExternal copies non-empty external values into the tree. The input
// tree is not mutated.
func applyExternal(tree map[string]any, external map[string]string) map[string]any {
	result := merge.Copy(tree)
	for _, b := range externalBindings {
		if v := external[b.key]; v != "" {
			setPath(result, b.path, v)
		}
	}
	return result
}

// deriveIngressHost defaults cluster.ingress_host to "ingress.{domain}"
// when the domain is known and no earlier layer set the host explicitly.
func deriveIngressHost(tree map[string]any) {
	domain, _ := getPath(tree, []string{"cluster", "domain"}).(string)
	if domain == "" {
		return
	}
	if host, _ := getPath(tree, []string{"cluster", "ingress_host"}).(string); host != "" {
		return
	}
	setPath(tree, []string{"cluster", "ingress_host"}, "ingress."+domain)
}

// setPath writes value at the given path, creating intermediate maps as
// needed. Intermediate non-map values are replaced.
func setPath(tree map[string]any, path []string, value any) {
	current := tree
	for _, key := range path[:len(path)-1] {
		next, ok := current[key].(map[string]any)
		if !ok {
			next = make(map[string]any)
			current[key] = next
		}
		current = next
	}
	current[path[len(path)-1]] = value
}

// getPath reads the value at the given path, or nil if any segment is
// missing or not a map.
func getPath(tree map[string]any, path []string) any {
	current := tree
	for _, key := range path[:len(path)-1] {
		next, ok := current[key].(map[string]any)
		if !ok {
			return nil
		}
		current = next
	}
	return current[path[len(path)-1]]
}
