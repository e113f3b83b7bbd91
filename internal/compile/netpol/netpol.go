// Package netpol compiles reachability intents into NetworkPolicy
// documents, including default-deny generation and domain-based egress.
package netpol

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	networkingv1 "k8s.io/api/networking/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/kompilat/kompilat/internal/config"
	"github.com/kompilat/kompilat/internal/document"
)

// validate backs the CIDR and FQDN checks across this package.
var validate = validator.New()

// CompilePolicy expands one reachability intent into a NetworkPolicy
// document, plus a domain-based egress document when the intent carries
// FQDN egress rules.
func CompilePolicy(p config.NetworkPolicyConfig) ([]document.Document, error) {
	if p.Name == "" || p.Namespace == "" {
		return nil, &document.ValidationError{
			Compiler: "network-policy",
			Record:   p.Name,
			Reason:   "name and namespace are required",
		}
	}

	spec := networkingv1.NetworkPolicySpec{
		// An empty selector matches every workload in the namespace.
		PodSelector: metav1.LabelSelector{MatchLabels: p.PodSelector},
	}

	for _, intent := range p.Ingress {
		rule, err := expandIngressRule(intent)
		if err != nil {
			return nil, &document.ValidationError{Compiler: "network-policy", Record: p.Name, Reason: err.Error()}
		}
		spec.Ingress = append(spec.Ingress, rule)
	}
	for _, intent := range p.Egress {
		rule, err := expandEgressRule(intent)
		if err != nil {
			return nil, &document.ValidationError{Compiler: "network-policy", Record: p.Name, Reason: err.Error()}
		}
		spec.Egress = append(spec.Egress, rule)
	}

	if len(spec.Ingress) > 0 {
		spec.PolicyTypes = append(spec.PolicyTypes, networkingv1.PolicyTypeIngress)
	}
	if len(spec.Egress) > 0 {
		spec.PolicyTypes = append(spec.PolicyTypes, networkingv1.PolicyTypeEgress)
	}
	if len(spec.PolicyTypes) == 0 && len(p.FQDNEgress) == 0 {
		return nil, &document.ValidationError{
			Compiler: "network-policy",
			Record:   p.Name,
			Reason:   "policy has no ingress, egress, or fqdn_egress rules",
		}
	}

	var docs []document.Document
	if len(spec.PolicyTypes) > 0 {
		policy := &networkingv1.NetworkPolicy{
			TypeMeta: metav1.TypeMeta{
				APIVersion: "networking.k8s.io/v1",
				Kind:       "NetworkPolicy",
			},
			ObjectMeta: metav1.ObjectMeta{
				Name:      p.Name,
				Namespace: p.Namespace,
			},
			Spec: spec,
		}
		docs = append(docs, document.Document{
			APIVersion: "networking.k8s.io/v1",
			Kind:       "NetworkPolicy",
			Name:       p.Name,
			Namespace:  p.Namespace,
			Object:     policy,
		})
	}

	if len(p.FQDNEgress) > 0 {
		fqdnDoc, err := compileFQDNEgress(p)
		if err != nil {
			return nil, err
		}
		docs = append(docs, fqdnDoc)
	}

	return docs, nil
}

// CompilePolicies compiles a batch of reachability intents, failing on
// the first invalid record.
func CompilePolicies(policies []config.NetworkPolicyConfig) ([]document.Document, error) {
	var docs []document.Document
	for _, p := range policies {
		compiled, err := CompilePolicy(p)
		if err != nil {
			return nil, err
		}
		docs = append(docs, compiled...)
	}
	return docs, nil
}

func expandIngressRule(intent config.NetworkRuleConfig) (networkingv1.NetworkPolicyIngressRule, error) {
	peer, err := expandPeer(intent)
	if err != nil {
		return networkingv1.NetworkPolicyIngressRule{}, err
	}
	ports, err := expandPorts(intent.Ports)
	if err != nil {
		return networkingv1.NetworkPolicyIngressRule{}, err
	}
	return networkingv1.NetworkPolicyIngressRule{
		From:  []networkingv1.NetworkPolicyPeer{peer},
		Ports: ports,
	}, nil
}

func expandEgressRule(intent config.NetworkRuleConfig) (networkingv1.NetworkPolicyEgressRule, error) {
	peer, err := expandPeer(intent)
	if err != nil {
		return networkingv1.NetworkPolicyEgressRule{}, err
	}
	ports, err := expandPorts(intent.Ports)
	if err != nil {
		return networkingv1.NetworkPolicyEgressRule{}, err
	}
	return networkingv1.NetworkPolicyEgressRule{
		To:    []networkingv1.NetworkPolicyPeer{peer},
		Ports: ports,
	}, nil
}

// expandPeer builds the canonical peer for one intent entry. A CIDR peer
// cannot be combined with selectors in the same entry.
func expandPeer(intent config.NetworkRuleConfig) (networkingv1.NetworkPolicyPeer, error) {
	hasSelectors := len(intent.PodSelector) > 0 || len(intent.NamespaceSelector) > 0

	if intent.CIDR != "" {
		if hasSelectors {
			return networkingv1.NetworkPolicyPeer{}, fmt.Errorf("a rule entry cannot combine a CIDR with selectors")
		}
		if err := validate.Var(intent.CIDR, "cidr"); err != nil {
			return networkingv1.NetworkPolicyPeer{}, fmt.Errorf("malformed CIDR %q", intent.CIDR)
		}
		for _, except := range intent.ExceptCIDRs {
			if err := validate.Var(except, "cidr"); err != nil {
				return networkingv1.NetworkPolicyPeer{}, fmt.Errorf("malformed except CIDR %q", except)
			}
		}
		return networkingv1.NetworkPolicyPeer{
			IPBlock: &networkingv1.IPBlock{
				CIDR:   intent.CIDR,
				Except: intent.ExceptCIDRs,
			},
		}, nil
	}

	if !hasSelectors {
		return networkingv1.NetworkPolicyPeer{}, fmt.Errorf("a rule entry needs a pod selector, namespace selector, or CIDR")
	}

	peer := networkingv1.NetworkPolicyPeer{}
	if len(intent.PodSelector) > 0 {
		peer.PodSelector = &metav1.LabelSelector{MatchLabels: intent.PodSelector}
	}
	if len(intent.NamespaceSelector) > 0 {
		peer.NamespaceSelector = &metav1.LabelSelector{MatchLabels: intent.NamespaceSelector}
	}
	return peer, nil
}

func expandPorts(entries []string) ([]networkingv1.NetworkPolicyPort, error) {
	specs, err := parsePorts(entries)
	if err != nil {
		return nil, err
	}
	ports := make([]networkingv1.NetworkPolicyPort, 0, len(specs))
	for _, spec := range specs {
		ports = append(ports, spec.toNetworkPolicyPort())
	}
	return ports, nil
}
