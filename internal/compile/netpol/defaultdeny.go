package netpol

import (
	networkingv1 "k8s.io/api/networking/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/kompilat/kompilat/internal/config"
	"github.com/kompilat/kompilat/internal/document"
	"github.com/kompilat/kompilat/internal/util/naming"
)

// kube-dns exception used by AllowDNS so denying egress does not also
// break name resolution.
var dnsPorts = []string{"53/udp", "53/tcp"}

// CompileDefaultDeny generates default-deny policies for one namespace:
// an empty pod selector with an empty rule list denies all traffic in the
// requested directions. Optional narrow exceptions are injected as
// additional rules.
func CompileDefaultDeny(d config.DefaultDenyConfig) ([]document.Document, error) {
	if d.Namespace == "" {
		return nil, &document.ValidationError{
			Compiler: "default-deny",
			Record:   string(d.Direction),
			Reason:   "namespace is required",
		}
	}

	var directions []config.DenyDirection
	switch d.Direction {
	case config.DenyIngress, config.DenyEgress:
		directions = []config.DenyDirection{d.Direction}
	case config.DenyBoth:
		directions = []config.DenyDirection{config.DenyIngress, config.DenyEgress}
	default:
		return nil, &document.ValidationError{
			Compiler: "default-deny",
			Record:   d.Namespace,
			Reason:   "direction must be ingress, egress, or both",
		}
	}

	docs := make([]document.Document, 0, len(directions))
	for _, direction := range directions {
		docs = append(docs, denyDocument(d, direction))
	}
	return docs, nil
}

// CompileDefaultDenies compiles a batch of default-deny intents.
func CompileDefaultDenies(denies []config.DefaultDenyConfig) ([]document.Document, error) {
	var docs []document.Document
	for _, d := range denies {
		compiled, err := CompileDefaultDeny(d)
		if err != nil {
			return nil, err
		}
		docs = append(docs, compiled...)
	}
	return docs, nil
}

func denyDocument(d config.DefaultDenyConfig, direction config.DenyDirection) document.Document {
	spec := networkingv1.NetworkPolicySpec{
		PodSelector: metav1.LabelSelector{},
	}

	if direction == config.DenyIngress {
		spec.PolicyTypes = []networkingv1.PolicyType{networkingv1.PolicyTypeIngress}
		if d.AllowSameNamespace {
			spec.Ingress = []networkingv1.NetworkPolicyIngressRule{{
				From: []networkingv1.NetworkPolicyPeer{{
					PodSelector: &metav1.LabelSelector{},
				}},
			}}
		}
	} else {
		spec.PolicyTypes = []networkingv1.PolicyType{networkingv1.PolicyTypeEgress}
		if d.AllowSameNamespace {
			spec.Egress = append(spec.Egress, networkingv1.NetworkPolicyEgressRule{
				To: []networkingv1.NetworkPolicyPeer{{
					PodSelector: &metav1.LabelSelector{},
				}},
			})
		}
		if d.AllowDNS {
			ports, _ := expandPorts(dnsPorts)
			spec.Egress = append(spec.Egress, networkingv1.NetworkPolicyEgressRule{
				To: []networkingv1.NetworkPolicyPeer{{
					NamespaceSelector: &metav1.LabelSelector{
						MatchLabels: map[string]string{"kubernetes.io/metadata.name": "kube-system"},
					},
					PodSelector: &metav1.LabelSelector{
						MatchLabels: map[string]string{"k8s-app": "kube-dns"},
					},
				}},
				Ports: ports,
			})
		}
	}

	name := naming.DefaultDeny(string(direction))
	policy := &networkingv1.NetworkPolicy{
		TypeMeta: metav1.TypeMeta{
			APIVersion: "networking.k8s.io/v1",
			Kind:       "NetworkPolicy",
		},
		ObjectMeta: metav1.ObjectMeta{
			Name:      name,
			Namespace: d.Namespace,
		},
		Spec: spec,
	}

	return document.Document{
		APIVersion: "networking.k8s.io/v1",
		Kind:       "NetworkPolicy",
		Name:       name,
		Namespace:  d.Namespace,
		Object:     policy,
	}
}
