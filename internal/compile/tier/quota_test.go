package tier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/resource"

	"github.com/kompilat/kompilat/internal/config"
	"github.com/kompilat/kompilat/internal/document"
)

func TestCompileQuota(t *testing.T) {
	doc, err := CompileQuota(config.QuotaConfig{
		Namespace: "team-a",
		Tier:      "medium",
	})
	require.NoError(t, err)

	assert.Equal(t, "ResourceQuota", doc.Kind)
	assert.Equal(t, "team-a-quota", doc.Name)
	assert.Equal(t, "team-a", doc.Namespace)

	quota := doc.Object.(*corev1.ResourceQuota)
	assert.Equal(t, resource.MustParse("50"), quota.Spec.Hard["pods"])
	assert.Equal(t, resource.MustParse("8"), quota.Spec.Hard["requests.cpu"])
	assert.Equal(t, resource.MustParse("16Gi"), quota.Spec.Hard["requests.memory"])
}

func TestCompileQuotaOverrides(t *testing.T) {
	doc, err := CompileQuota(config.QuotaConfig{
		Namespace: "team-a",
		Tier:      "medium",
		Overrides: map[string]string{
			"pods":       "75",
			"gpu.nvidia": "4",
		},
	})
	require.NoError(t, err)

	quota := doc.Object.(*corev1.ResourceQuota)
	// The override wins per key; every other medium value is untouched.
	assert.Equal(t, resource.MustParse("75"), quota.Spec.Hard["pods"])
	assert.Equal(t, resource.MustParse("4"), quota.Spec.Hard["gpu.nvidia"])
	assert.Equal(t, resource.MustParse("8"), quota.Spec.Hard["requests.cpu"])
	assert.Equal(t, resource.MustParse("20"), quota.Spec.Hard["services"])
}

func TestCompileQuotaRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name   string
		quota  config.QuotaConfig
		reason string
	}{
		{
			name:   "unknown tier",
			quota:  config.QuotaConfig{Namespace: "team-a", Tier: "gigantic"},
			reason: "unknown tier",
		},
		{
			name:   "missing namespace",
			quota:  config.QuotaConfig{Tier: "small"},
			reason: "namespace is required",
		},
		{
			name: "malformed quantity override",
			quota: config.QuotaConfig{
				Namespace: "team-a",
				Tier:      "small",
				Overrides: map[string]string{"pods": "lots"},
			},
			reason: "invalid quantity",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CompileQuota(tt.quota)
			require.Error(t, err)
			var vErr *document.ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Contains(t, vErr.Reason, tt.reason)
		})
	}
}

func TestCompileQuotasStopsOnFirstError(t *testing.T) {
	docs, err := CompileQuotas([]config.QuotaConfig{
		{Namespace: "ok", Tier: "small"},
		{Namespace: "bad", Tier: "nope"},
	})
	require.Error(t, err)
	assert.Nil(t, docs)
}

func TestCompileQuotaIsDeterministic(t *testing.T) {
	q := config.QuotaConfig{
		Namespace: "team-a",
		Tier:      "large",
		Overrides: map[string]string{"pods": "300"},
	}

	first, err := CompileQuota(q)
	require.NoError(t, err)
	second, err := CompileQuota(q)
	require.NoError(t, err)

	firstYAML, err := first.Render()
	require.NoError(t, err)
	secondYAML, err := second.Render()
	require.NoError(t, err)
	assert.Equal(t, firstYAML, secondYAML)
}
