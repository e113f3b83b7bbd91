// Package compile fans a resolved configuration out to the individual
// compilers and collects the compiled documents.
package compile

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/kompilat/kompilat/internal/compile/access"
	"github.com/kompilat/kompilat/internal/compile/netpol"
	"github.com/kompilat/kompilat/internal/compile/security"
	"github.com/kompilat/kompilat/internal/compile/tier"
	"github.com/kompilat/kompilat/internal/config"
	"github.com/kompilat/kompilat/internal/document"
	"github.com/kompilat/kompilat/internal/util/labels"
)

// All compiles every intent record in the resolved configuration. The
// first validation failure aborts the whole call; partially compiled
// documents are never returned. Pure: identical configurations always
// yield identical document lists.
func All(cfg *config.Config) ([]document.Document, error) {
	var docs []document.Document

	policies, err := security.CompilePolicies(cfg)
	if err != nil {
		return nil, err
	}
	docs = append(docs, policies...)

	netpols, err := netpol.CompilePolicies(cfg.NetworkPolicies)
	if err != nil {
		return nil, err
	}
	docs = append(docs, netpols...)

	denies, err := netpol.CompileDefaultDenies(cfg.DefaultDeny)
	if err != nil {
		return nil, err
	}
	docs = append(docs, denies...)

	quotas, err := tier.CompileQuotas(cfg.Quotas)
	if err != nil {
		return nil, err
	}
	docs = append(docs, quotas...)

	// Priority levels are cluster-wide: compiled only when the
	// configuration declares some (the built-in hierarchy is opt-in via
	// an explicit empty-batch compile at the call site).
	if len(cfg.PriorityLevels) > 0 {
		priorities, err := tier.CompilePriorityLevels(cfg.PriorityLevels)
		if err != nil {
			return nil, err
		}
		docs = append(docs, priorities...)
	}

	budgets, err := tier.CompileDisruptionBudgets(cfg.DisruptionBudgets)
	if err != nil {
		return nil, err
	}
	docs = append(docs, budgets...)

	principals, err := access.Compile(cfg)
	if err != nil {
		return nil, err
	}
	docs = append(docs, principals...)

	standard := labels.Standard(cfg.Cluster.Name, string(cfg.Cluster.Environment))
	for _, doc := range docs {
		stampLabels(doc, standard)
	}

	return docs, nil
}

// stampLabels applies the standard label set to a compiled document.
// Labels set by a compiler win over the standard set.
func stampLabels(doc document.Document, standard map[string]string) {
	switch obj := doc.Object.(type) {
	case metav1.Object:
		obj.SetLabels(labels.Merge(obj.GetLabels(), standard))
	case map[string]any:
		metadata, ok := obj["metadata"].(map[string]any)
		if !ok {
			return
		}
		merged := make(map[string]any, len(standard))
		for k, v := range standard {
			merged[k] = v
		}
		if existing, ok := metadata["labels"].(map[string]any); ok {
			for k, v := range existing {
				merged[k] = v
			}
		}
		metadata["labels"] = merged
	}
}
