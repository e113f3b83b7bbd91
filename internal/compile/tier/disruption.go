package tier

import (
	"fmt"
	"strconv"
	"strings"

	policyv1 "k8s.io/api/policy/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/util/intstr"

	"github.com/kompilat/kompilat/internal/config"
	"github.com/kompilat/kompilat/internal/document"
	"github.com/kompilat/kompilat/internal/util/naming"
)

// CompileDisruptionBudget expands one disruption budget intent into a
// PodDisruptionBudget document. Exactly one of min_available and
// max_unavailable must be set; each accepts an absolute count or a
// percentage.
func CompileDisruptionBudget(b config.DisruptionBudgetConfig) (document.Document, error) {
	if b.Name == "" || b.Namespace == "" {
		return document.Document{}, &document.ValidationError{
			Compiler: "disruption-budget",
			Record:   b.Name,
			Reason:   "name and namespace are required",
		}
	}
	if len(b.Selector) == 0 {
		return document.Document{}, &document.ValidationError{
			Compiler: "disruption-budget",
			Record:   b.Name,
			Reason:   "selector is required",
		}
	}

	hasMin := b.MinAvailable != ""
	hasMax := b.MaxUnavailable != ""
	if hasMin == hasMax {
		return document.Document{}, &document.ValidationError{
			Compiler: "disruption-budget",
			Record:   b.Name,
			Reason:   "exactly one of min_available and max_unavailable must be set",
		}
	}

	spec := policyv1.PodDisruptionBudgetSpec{
		Selector: &metav1.LabelSelector{MatchLabels: b.Selector},
	}
	if hasMin {
		value, err := parseCountOrPercent(b.MinAvailable)
		if err != nil {
			return document.Document{}, &document.ValidationError{
				Compiler: "disruption-budget",
				Record:   b.Name,
				Reason:   fmt.Sprintf("invalid min_available: %v", err),
			}
		}
		spec.MinAvailable = &value
	} else {
		value, err := parseCountOrPercent(b.MaxUnavailable)
		if err != nil {
			return document.Document{}, &document.ValidationError{
				Compiler: "disruption-budget",
				Record:   b.Name,
				Reason:   fmt.Sprintf("invalid max_unavailable: %v", err),
			}
		}
		spec.MaxUnavailable = &value
	}

	name := naming.DisruptionBudget(b.Name)
	pdb := &policyv1.PodDisruptionBudget{
		TypeMeta: metav1.TypeMeta{
			APIVersion: "policy/v1",
			Kind:       "PodDisruptionBudget",
		},
		ObjectMeta: metav1.ObjectMeta{
			Name:      name,
			Namespace: b.Namespace,
		},
		Spec: spec,
	}

	return document.Document{
		APIVersion: "policy/v1",
		Kind:       "PodDisruptionBudget",
		Name:       name,
		Namespace:  b.Namespace,
		Object:     pdb,
	}, nil
}

// CompileDisruptionBudgets compiles a batch of disruption budget intents,
// failing on the first invalid record.
func CompileDisruptionBudgets(budgets []config.DisruptionBudgetConfig) ([]document.Document, error) {
	docs := make([]document.Document, 0, len(budgets))
	for _, b := range budgets {
		doc, err := CompileDisruptionBudget(b)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// parseCountOrPercent accepts "2" (absolute count) or "50%" (percentage).
func parseCountOrPercent(value string) (intstr.IntOrString, error) {
	if strings.HasSuffix(value, "%") {
		percent, err := strconv.Atoi(strings.TrimSuffix(value, "%"))
		if err != nil || percent < 0 || percent > 100 {
			return intstr.IntOrString{}, fmt.Errorf("%q is not a valid percentage", value)
		}
		return intstr.FromString(value), nil
	}
	count, err := strconv.Atoi(value)
	if err != nil || count < 0 {
		return intstr.IntOrString{}, fmt.Errorf("%q is not a non-negative count or percentage", value)
	}
	return intstr.FromInt32(int32(count)), nil
}
