package netpol

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kompilat/kompilat/internal/config"
	"github.com/kompilat/kompilat/internal/document"
	"github.com/kompilat/kompilat/internal/util/naming"
)

// compileFQDNEgress wraps the intent's domain patterns into a
// CiliumNetworkPolicy document. Domain-based egress is additive to the
// CIDR- and selector-based rules of the main policy.
func compileFQDNEgress(p config.NetworkPolicyConfig) (document.Document, error) {
	egress := make([]any, 0, len(p.FQDNEgress))
	for _, rule := range p.FQDNEgress {
		if len(rule.Patterns) == 0 {
			return document.Document{}, &document.ValidationError{
				Compiler: "network-policy",
				Record:   p.Name,
				Reason:   "fqdn_egress rule has no patterns",
			}
		}

		toFQDNs := make([]any, 0, len(rule.Patterns))
		for _, pattern := range rule.Patterns {
			fragment, err := fqdnFragment(pattern)
			if err != nil {
				return document.Document{}, &document.ValidationError{
					Compiler: "network-policy",
					Record:   p.Name,
					Reason:   err.Error(),
				}
			}
			toFQDNs = append(toFQDNs, fragment)
		}

		entry := map[string]any{"toFQDNs": toFQDNs}
		if len(rule.Ports) > 0 {
			specs, err := parsePorts(rule.Ports)
			if err != nil {
				return document.Document{}, &document.ValidationError{
					Compiler: "network-policy",
					Record:   p.Name,
					Reason:   err.Error(),
				}
			}
			ports := make([]any, 0, len(specs))
			for _, spec := range specs {
				ports = append(ports, map[string]any{
					"port":     strconv.Itoa(int(spec.Port)),
					"protocol": string(spec.Protocol),
				})
			}
			entry["toPorts"] = []any{map[string]any{"ports": ports}}
		}
		egress = append(egress, entry)
	}

	name := naming.FQDNPolicy(p.Name)
	selector := map[string]any{}
	if len(p.PodSelector) > 0 {
		labels := make(map[string]any, len(p.PodSelector))
		for k, v := range p.PodSelector {
			labels[k] = v
		}
		selector["matchLabels"] = labels
	}

	body := map[string]any{
		"apiVersion": "cilium.io/v2",
		"kind":       "CiliumNetworkPolicy",
		"metadata": map[string]any{
			"name":      name,
			"namespace": p.Namespace,
		},
		"spec": map[string]any{
			"endpointSelector": selector,
			"egress":           egress,
		},
	}

	return document.Document{
		APIVersion: "cilium.io/v2",
		Kind:       "CiliumNetworkPolicy",
		Name:       name,
		Namespace:  p.Namespace,
		Object:     body,
	}, nil
}

// fqdnFragment wraps one domain pattern into its canonical match
// fragment: matchPattern for wildcard patterns, matchName otherwise.
func fqdnFragment(pattern string) (map[string]any, error) {
	bare := strings.ReplaceAll(pattern, "*", "x")
	if err := validate.Var(bare, "fqdn"); err != nil {
		return nil, fmt.Errorf("malformed domain pattern %q", pattern)
	}
	if strings.Contains(pattern, "*") {
		return map[string]any{"matchPattern": pattern}, nil
	}
	return map[string]any{"matchName": pattern}, nil
}
