package tier

import (
	"fmt"

	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/resource"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/kompilat/kompilat/internal/config"
	"github.com/kompilat/kompilat/internal/document"
	"github.com/kompilat/kompilat/internal/util/naming"
)

// CompileQuota expands one quota intent into a ResourceQuota document:
// the tier preset table with the custom overrides merged on top, override
// wins per key.
func CompileQuota(q config.QuotaConfig) (document.Document, error) {
	if q.Namespace == "" {
		return document.Document{}, &document.ValidationError{
			Compiler: "quota",
			Record:   q.Tier,
			Reason:   "namespace is required",
		}
	}

	preset, ok := quotaTiers[q.Tier]
	if !ok {
		return document.Document{}, &document.ValidationError{
			Compiler: "quota",
			Record:   q.Namespace,
			Reason:   fmt.Sprintf("unknown tier %q: must be one of %v", q.Tier, TierNames()),
		}
	}

	merged := make(map[string]string, len(preset)+len(q.Overrides))
	for k, v := range preset {
		merged[k] = v
	}
	for k, v := range q.Overrides {
		merged[k] = v
	}

	hard := make(corev1.ResourceList, len(merged))
	for name, value := range merged {
		quantity, err := resource.ParseQuantity(value)
		if err != nil {
			return document.Document{}, &document.ValidationError{
				Compiler: "quota",
				Record:   q.Namespace,
				Reason:   fmt.Sprintf("invalid quantity %q for %s: %v", value, name, err),
			}
		}
		hard[corev1.ResourceName(name)] = quantity
	}

	name := naming.Quota(q.Namespace)
	quota := &corev1.ResourceQuota{
		TypeMeta: metav1.TypeMeta{
			APIVersion: "v1",
			Kind:       "ResourceQuota",
		},
		ObjectMeta: metav1.ObjectMeta{
			Name:      name,
			Namespace: q.Namespace,
		},
		Spec: corev1.ResourceQuotaSpec{
			Hard: hard,
		},
	}

	return document.Document{
		APIVersion: "v1",
		Kind:       "ResourceQuota",
		Name:       name,
		Namespace:  q.Namespace,
		Object:     quota,
	}, nil
}

// CompileQuotas compiles a batch of quota intents, failing on the first
// invalid record.
func CompileQuotas(quotas []config.QuotaConfig) ([]document.Document, error) {
	docs := make([]document.Document, 0, len(quotas))
	for _, q := range quotas {
		doc, err := CompileQuota(q)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}
