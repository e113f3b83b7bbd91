// Package security compiles admission policy intents into Kyverno-style
// ClusterPolicy documents and resolves the effective enforcement level.
package security

import (
	"fmt"

	"github.com/kompilat/kompilat/internal/config"
	"github.com/kompilat/kompilat/internal/document"
)

// systemNamespaces are excluded from every policy by default.
var systemNamespaces = []string{"kube-system", "kube-public", "kube-node-lease"}

// CompilePolicy expands one admission policy intent into a ClusterPolicy
// document at the given enforcement level.
func CompilePolicy(p config.SecurityPolicyConfig, level Level, policyNamespace string) (document.Document, error) {
	if p.Name == "" {
		return document.Document{}, &document.ValidationError{
			Compiler: "security-policy",
			Record:   "(unnamed)",
			Reason:   "name is required",
		}
	}

	kind, err := normalizeKind(p)
	if err != nil {
		return document.Document{}, &document.ValidationError{
			Compiler: "security-policy",
			Record:   p.Name,
			Reason:   err.Error(),
		}
	}

	rule, err := expandRule(p, kind, policyNamespace)
	if err != nil {
		return document.Document{}, &document.ValidationError{
			Compiler: "security-policy",
			Record:   p.Name,
			Reason:   err.Error(),
		}
	}

	body := map[string]any{
		"apiVersion": "kyverno.io/v1",
		"kind":       "ClusterPolicy",
		"metadata": map[string]any{
			"name": p.Name,
		},
		"spec": map[string]any{
			"validationFailureAction": string(level),
			"background":              true,
			"rules":                   []any{rule},
		},
	}

	return document.Document{
		APIVersion: "kyverno.io/v1",
		Kind:       "ClusterPolicy",
		Name:       p.Name,
		Object:     body,
	}, nil
}

// CompilePolicies compiles a batch of admission policy intents against
// one resolved configuration, failing on the first invalid record.
func CompilePolicies(cfg *config.Config) ([]document.Document, error) {
	level := ResolveLevel(cfg)
	docs := make([]document.Document, 0, len(cfg.SecurityPolicies))
	for _, p := range cfg.SecurityPolicies {
		doc, err := CompilePolicy(p, level, cfg.Security.PolicyNamespace)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// normalizeKind resolves the rule variant tag. An explicit tag must match
// its payload; an empty tag is inferred when exactly one payload is set.
func normalizeKind(p config.SecurityPolicyConfig) (config.RuleKind, error) {
	variants := 0
	var inferred config.RuleKind
	if p.Canonical != nil {
		variants++
		inferred = config.RuleKindCanonical
	}
	if p.Deny != nil {
		variants++
		inferred = config.RuleKindDeny
	}
	if p.Shorthand != nil {
		variants++
		inferred = config.RuleKindShorthand
	}

	if variants == 0 {
		return "", fmt.Errorf("policy needs exactly one of canonical, deny, or shorthand")
	}
	if variants > 1 {
		return "", fmt.Errorf("policy sets %d rule variants, exactly one is allowed", variants)
	}
	if p.Kind != "" && p.Kind != inferred {
		return "", fmt.Errorf("kind %q does not match the %s payload", p.Kind, inferred)
	}
	return inferred, nil
}

// expandRule builds the canonical nested match/exclude/validate structure
// for the normalized variant.
func expandRule(p config.SecurityPolicyConfig, kind config.RuleKind, policyNamespace string) (map[string]any, error) {
	rule := map[string]any{
		"name":    p.Name,
		"exclude": excludeFragment(p, kind, policyNamespace),
	}

	switch kind {
	case config.RuleKindCanonical:
		if len(p.Canonical.Pattern) == 0 {
			return nil, fmt.Errorf("canonical rule needs a pattern")
		}
		rule["match"] = matchFragment(p.Canonical.Match)
		rule["validate"] = map[string]any{
			"message": defaultMessage(p.Canonical.Message, p.Name),
			"pattern": p.Canonical.Pattern,
		}

	case config.RuleKindDeny:
		if len(p.Deny.Conditions) == 0 {
			return nil, fmt.Errorf("deny rule needs at least one condition")
		}
		conditions := make([]any, 0, len(p.Deny.Conditions))
		for _, c := range p.Deny.Conditions {
			if c.Key == "" || c.Operator == "" {
				return nil, fmt.Errorf("deny condition needs a key and an operator")
			}
			conditions = append(conditions, map[string]any{
				"key":      c.Key,
				"operator": c.Operator,
				"value":    c.Value,
			})
		}
		rule["match"] = matchFragment(p.Deny.Match)
		rule["validate"] = map[string]any{
			"message": defaultMessage(p.Deny.Message, p.Name),
			"deny": map[string]any{
				"conditions": map[string]any{"all": conditions},
			},
		}

	case config.RuleKindShorthand:
		pattern, message, err := expandShorthand(p.Shorthand)
		if err != nil {
			return nil, err
		}
		rule["match"] = matchFragment(nil)
		rule["validate"] = map[string]any{
			"message": message,
			"pattern": pattern,
		}
	}

	return rule, nil
}

// matchFragment wraps an explicit match tree, defaulting to all Pods.
func matchFragment(match map[string]any) map[string]any {
	if len(match) > 0 {
		return match
	}
	return map[string]any{
		"any": []any{
			map[string]any{
				"resources": map[string]any{
					"kinds": []any{"Pod"},
				},
			},
		},
	}
}

// excludeFragment builds the namespace exclusion for a rule. Callers may
// override the default list per policy; otherwise validation rules
// (canonical and shorthand) exclude the system namespaces plus the policy
// engine's own namespace so the engine is never blocked by its own rule,
// while deny rules exclude only the system namespaces.
func excludeFragment(p config.SecurityPolicyConfig, kind config.RuleKind, policyNamespace string) map[string]any {
	namespaces := p.ExcludeNamespaces
	if namespaces == nil {
		namespaces = append([]string{}, systemNamespaces...)
		if kind != config.RuleKindDeny && policyNamespace != "" {
			namespaces = append(namespaces, policyNamespace)
		}
	}

	list := make([]any, 0, len(namespaces))
	for _, ns := range namespaces {
		list = append(list, ns)
	}
	return map[string]any{
		"any": []any{
			map[string]any{
				"resources": map[string]any{
					"namespaces": list,
				},
			},
		},
	}
}

func defaultMessage(message, policy string) string {
	if message != "" {
		return message
	}
	return fmt.Sprintf("admission denied by policy %s", policy)
}
