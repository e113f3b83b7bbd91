package config

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseStack() Stack {
	return Stack{
		Environment: EnvironmentDev,
		Layers: []Layer{
			{Name: "test", Tree: map[string]any{
				"cluster": map[string]any{"name": "test-cluster"},
			}},
		},
	}
}

func TestResolveDefaults(t *testing.T) {
	cfg, err := Resolve(baseStack())
	require.NoError(t, err)

	assert.Equal(t, "test-cluster", cfg.Cluster.Name)
	assert.Equal(t, EnvironmentDev, cfg.Cluster.Environment)
	assert.Equal(t, "eu-central-1", cfg.Cluster.Region)
	assert.Equal(t, "10.0.0.0/16", cfg.Network.VPCCIDR)
	assert.Equal(t, 1, cfg.Network.GatewayCount)
	assert.Equal(t, "cluster.local", cfg.Network.ClusterDomain)
	assert.Equal(t, AuthModeAPI, cfg.Auth.Mode)
	assert.Equal(t, "kyverno", cfg.Security.PolicyNamespace)
}

func TestResolveEnvironmentOverlay(t *testing.T) {
	tests := []struct {
		env      Environment
		gateways int
		authMode AuthMode
	}{
		{EnvironmentDev, 1, AuthModeAPI},
		{EnvironmentStaging, 2, AuthModeAPI},
		{EnvironmentProduction, 3, AuthModeBoth},
	}

	for _, tt := range tests {
		t.Run(string(tt.env), func(t *testing.T) {
			s := baseStack()
			s.Environment = tt.env
			cfg, err := Resolve(s)
			require.NoError(t, err)
			assert.Equal(t, tt.gateways, cfg.Network.GatewayCount)
			assert.Equal(t, tt.authMode, cfg.Auth.Mode)
			assert.Equal(t, tt.env, cfg.Cluster.Environment)
		})
	}
}

func TestResolveLayerPrecedence(t *testing.T) {
	s := Stack{
		Environment: EnvironmentDev,
		Layers: []Layer{
			{Name: "first", Tree: map[string]any{
				"cluster": map[string]any{"name": "first-name"},
				"network": map[string]any{"vpc_cidr": "10.1.0.0/16", "gateway_count": 2},
			}},
			{Name: "second", Tree: map[string]any{
				"network": map[string]any{"gateway_count": 1},
			}},
		},
	}

	cfg, err := Resolve(s)
	require.NoError(t, err)

	// Later layers win per key; untouched keys survive from earlier layers.
	assert.Equal(t, "first-name", cfg.Cluster.Name)
	assert.Equal(t, "10.1.0.0/16", cfg.Network.VPCCIDR)
	assert.Equal(t, 1, cfg.Network.GatewayCount)
}

func TestResolveExternalValues(t *testing.T) {
	s := baseStack()
	s.External = map[string]string{
		"REGION": "us-east-1",
		"DOMAIN": "example.com",
		// Empty values must never clobber earlier layers.
		"CLUSTER_NAME": "",
	}

	cfg, err := Resolve(s)
	require.NoError(t, err)

	assert.Equal(t, "us-east-1", cfg.Cluster.Region)
	assert.Equal(t, "example.com", cfg.Cluster.Domain)
	assert.Equal(t, "test-cluster", cfg.Cluster.Name)
}

func TestResolveOverridesWin(t *testing.T) {
	s := baseStack()
	s.External = map[string]string{"REGION": "us-east-1"}
	s.Overrides = map[string]any{
		"cluster": map[string]any{"region": "ap-southeast-2"},
	}

	cfg, err := Resolve(s)
	require.NoError(t, err)
	assert.Equal(t, "ap-southeast-2", cfg.Cluster.Region)
}

func TestResolveDerivedIngressHost(t *testing.T) {
	t.Run("derived from domain", func(t *testing.T) {
		s := baseStack()
		s.External = map[string]string{"DOMAIN": "example.com"}
		cfg, err := Resolve(s)
		require.NoError(t, err)
		assert.Equal(t, "ingress.example.com", cfg.Cluster.IngressHost)
	})

	t.Run("explicit host is never overwritten", func(t *testing.T) {
		s := baseStack()
		s.External = map[string]string{
			"DOMAIN":       "example.com",
			"INGRESS_HOST": "apps.example.com",
		}
		cfg, err := Resolve(s)
		require.NoError(t, err)
		assert.Equal(t, "apps.example.com", cfg.Cluster.IngressHost)
	})

	t.Run("no domain means no host", func(t *testing.T) {
		cfg, err := Resolve(baseStack())
		require.NoError(t, err)
		assert.Empty(t, cfg.Cluster.IngressHost)
	})
}

func TestResolveMissingRequiredField(t *testing.T) {
	s := Stack{Environment: EnvironmentDev}

	_, err := Resolve(s)
	require.Error(t, err)

	var resErr *ResolutionError
	require.True(t, errors.As(err, &resErr))
	assert.Equal(t, "cluster.name", resErr.Path)
}

func TestResolveRejectsInvalidInput(t *testing.T) {
	t.Run("unknown environment", func(t *testing.T) {
		s := baseStack()
		s.Environment = "qa"
		_, err := Resolve(s)
		assert.ErrorContains(t, err, "unknown environment")
	})

	t.Run("malformed vpc cidr", func(t *testing.T) {
		s := baseStack()
		s.External = map[string]string{"VPC_CIDR": "not-a-cidr"}
		_, err := Resolve(s)
		assert.ErrorContains(t, err, "not a valid CIDR")
	})

	t.Run("invalid auth mode", func(t *testing.T) {
		s := baseStack()
		s.Overrides = map[string]any{"auth": map[string]any{"mode": "ldap"}}
		_, err := Resolve(s)
		assert.ErrorContains(t, err, "invalid auth.mode")
	})
}

func TestResolveIntentRecordsDecode(t *testing.T) {
	s := baseStack()
	s.Layers = append(s.Layers, Layer{Name: "intents", Tree: map[string]any{
		"quotas": []any{
			map[string]any{
				"namespace": "team-a",
				"tier":      "medium",
				"overrides": map[string]any{"pods": "75"},
			},
		},
		"security_policies": []any{
			map[string]any{
				"name": "require-non-root",
				"shorthand": map[string]any{
					"run_as_non_root": true,
				},
			},
		},
	}})

	cfg, err := Resolve(s)
	require.NoError(t, err)

	require.Len(t, cfg.Quotas, 1)
	assert.Equal(t, "team-a", cfg.Quotas[0].Namespace)
	assert.Equal(t, "medium", cfg.Quotas[0].Tier)
	assert.Equal(t, map[string]string{"pods": "75"}, cfg.Quotas[0].Overrides)

	require.Len(t, cfg.SecurityPolicies, 1)
	require.NotNil(t, cfg.SecurityPolicies[0].Shorthand)
	assert.True(t, cfg.SecurityPolicies[0].Shorthand.RunAsNonRoot)
}

func TestResolveSequencesReplaceAcrossLayers(t *testing.T) {
	s := baseStack()
	s.Layers = append(s.Layers,
		Layer{Name: "a", Tree: map[string]any{
			"quotas": []any{
				map[string]any{"namespace": "one", "tier": "small"},
				map[string]any{"namespace": "two", "tier": "small"},
			},
		}},
		Layer{Name: "b", Tree: map[string]any{
			"quotas": []any{
				map[string]any{"namespace": "three", "tier": "large"},
			},
		}},
	)

	cfg, err := Resolve(s)
	require.NoError(t, err)

	require.Len(t, cfg.Quotas, 1)
	assert.Equal(t, "three", cfg.Quotas[0].Namespace)
}

func TestResolveIsDeterministic(t *testing.T) {
	s := baseStack()
	s.External = map[string]string{"DOMAIN": "example.com"}

	first, err := Resolve(s)
	require.NoError(t, err)
	second, err := Resolve(s)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
