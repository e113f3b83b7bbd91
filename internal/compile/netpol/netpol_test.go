package netpol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	networkingv1 "k8s.io/api/networking/v1"
	"k8s.io/apimachinery/pkg/util/intstr"

	"github.com/kompilat/kompilat/internal/config"
	"github.com/kompilat/kompilat/internal/document"
)

func TestCompilePolicyIngress(t *testing.T) {
	docs, err := CompilePolicy(config.NetworkPolicyConfig{
		Name:        "allow-frontend",
		Namespace:   "team-a",
		PodSelector: map[string]string{"app": "api"},
		Ingress: []config.NetworkRuleConfig{
			{
				PodSelector: map[string]string{"app": "frontend"},
				Ports:       []string{"8080"},
			},
		},
	})
	require.NoError(t, err)
	require.Len(t, docs, 1)

	policy := docs[0].Object.(*networkingv1.NetworkPolicy)
	assert.Equal(t, []networkingv1.PolicyType{networkingv1.PolicyTypeIngress}, policy.Spec.PolicyTypes)
	require.Len(t, policy.Spec.Ingress, 1)

	rule := policy.Spec.Ingress[0]
	require.Len(t, rule.From, 1)
	assert.Equal(t, map[string]string{"app": "frontend"}, rule.From[0].PodSelector.MatchLabels)
	require.Len(t, rule.Ports, 1)
	assert.Equal(t, intstr.FromInt32(8080), *rule.Ports[0].Port)
	assert.Equal(t, corev1.ProtocolTCP, *rule.Ports[0].Protocol, "protocol defaults to TCP")
}

func TestCompilePolicyEgressCIDR(t *testing.T) {
	docs, err := CompilePolicy(config.NetworkPolicyConfig{
		Name:      "allow-vpc",
		Namespace: "team-a",
		Egress: []config.NetworkRuleConfig{
			{
				CIDR:        "10.0.0.0/16",
				ExceptCIDRs: []string{"10.0.1.0/24"},
				Ports:       []string{"53/udp"},
			},
		},
	})
	require.NoError(t, err)
	require.Len(t, docs, 1)

	policy := docs[0].Object.(*networkingv1.NetworkPolicy)
	require.Len(t, policy.Spec.Egress, 1)
	rule := policy.Spec.Egress[0]
	require.NotNil(t, rule.To[0].IPBlock)
	assert.Equal(t, "10.0.0.0/16", rule.To[0].IPBlock.CIDR)
	assert.Equal(t, []string{"10.0.1.0/24"}, rule.To[0].IPBlock.Except)
	assert.Equal(t, corev1.ProtocolUDP, *rule.Ports[0].Protocol)
}

func TestCompilePolicyRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name   string
		policy config.NetworkPolicyConfig
		reason string
	}{
		{
			name: "malformed CIDR",
			policy: config.NetworkPolicyConfig{
				Name: "p", Namespace: "ns",
				Egress: []config.NetworkRuleConfig{{CIDR: "300.0.0.0/8"}},
			},
			reason: "malformed CIDR",
		},
		{
			name: "malformed port",
			policy: config.NetworkPolicyConfig{
				Name: "p", Namespace: "ns",
				Ingress: []config.NetworkRuleConfig{{
					PodSelector: map[string]string{"a": "b"},
					Ports:       []string{"99999"},
				}},
			},
			reason: "invalid port",
		},
		{
			name: "unknown protocol",
			policy: config.NetworkPolicyConfig{
				Name: "p", Namespace: "ns",
				Ingress: []config.NetworkRuleConfig{{
					PodSelector: map[string]string{"a": "b"},
					Ports:       []string{"443/icmp"},
				}},
			},
			reason: "unknown protocol",
		},
		{
			name: "cidr combined with selector",
			policy: config.NetworkPolicyConfig{
				Name: "p", Namespace: "ns",
				Egress: []config.NetworkRuleConfig{{
					CIDR:        "10.0.0.0/16",
					PodSelector: map[string]string{"a": "b"},
				}},
			},
			reason: "cannot combine",
		},
		{
			name: "empty peer",
			policy: config.NetworkPolicyConfig{
				Name: "p", Namespace: "ns",
				Ingress: []config.NetworkRuleConfig{{Ports: []string{"443"}}},
			},
			reason: "needs a pod selector",
		},
		{
			name:   "no rules at all",
			policy: config.NetworkPolicyConfig{Name: "p", Namespace: "ns"},
			reason: "no ingress, egress, or fqdn_egress",
		},
		{
			name:   "missing namespace",
			policy: config.NetworkPolicyConfig{Name: "p"},
			reason: "name and namespace are required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CompilePolicy(tt.policy)
			require.Error(t, err)
			var vErr *document.ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Contains(t, vErr.Reason, tt.reason)
		})
	}
}

func TestCompilePolicyFQDNEgress(t *testing.T) {
	docs, err := CompilePolicy(config.NetworkPolicyConfig{
		Name:        "allow-external",
		Namespace:   "team-a",
		PodSelector: map[string]string{"app": "api"},
		Egress: []config.NetworkRuleConfig{
			{CIDR: "10.0.0.0/16"},
		},
		FQDNEgress: []config.FQDNRuleConfig{
			{
				Patterns: []string{"*.example.com", "api.github.com"},
				Ports:    []string{"443"},
			},
		},
	})
	require.NoError(t, err)
	// Domain-based egress is additive: the selector/CIDR policy is still emitted.
	require.Len(t, docs, 2)

	assert.Equal(t, "NetworkPolicy", docs[0].Kind)
	assert.Equal(t, "CiliumNetworkPolicy", docs[1].Kind)
	assert.Equal(t, "allow-external-fqdn", docs[1].Name)

	body := docs[1].Object.(map[string]any)
	spec := body["spec"].(map[string]any)
	egress := spec["egress"].([]any)
	require.Len(t, egress, 1)

	entry := egress[0].(map[string]any)
	toFQDNs := entry["toFQDNs"].([]any)
	assert.Equal(t, map[string]any{"matchPattern": "*.example.com"}, toFQDNs[0])
	assert.Equal(t, map[string]any{"matchName": "api.github.com"}, toFQDNs[1])

	toPorts := entry["toPorts"].([]any)
	ports := toPorts[0].(map[string]any)["ports"].([]any)
	assert.Equal(t, map[string]any{"port": "443", "protocol": "TCP"}, ports[0])
}

func TestCompilePolicyFQDNRejectsMalformedPattern(t *testing.T) {
	_, err := CompilePolicy(config.NetworkPolicyConfig{
		Name:      "p",
		Namespace: "ns",
		FQDNEgress: []config.FQDNRuleConfig{
			{Patterns: []string{"not a domain"}},
		},
	})
	require.Error(t, err)
	assert.ErrorContains(t, err, "malformed domain pattern")
}
