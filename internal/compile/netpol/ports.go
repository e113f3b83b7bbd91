package netpol

import (
	"fmt"
	"strconv"
	"strings"

	corev1 "k8s.io/api/core/v1"
	networkingv1 "k8s.io/api/networking/v1"
	"k8s.io/apimachinery/pkg/util/intstr"

	"github.com/kompilat/kompilat/internal/util/ptr"
)

// portSpec is the normalized form of a port intent entry: a numeric port
// plus an explicit protocol.
type portSpec struct {
	Port     int32
	Protocol corev1.Protocol
}

// parsePort normalizes "443" or "53/udp" into a portSpec. The protocol
// defaults to TCP when unspecified.
func parsePort(entry string) (portSpec, error) {
	portPart := entry
	protocol := corev1.ProtocolTCP

	if before, after, found := strings.Cut(entry, "/"); found {
		portPart = before
		switch strings.ToLower(after) {
		case "tcp":
			protocol = corev1.ProtocolTCP
		case "udp":
			protocol = corev1.ProtocolUDP
		case "sctp":
			protocol = corev1.ProtocolSCTP
		default:
			return portSpec{}, fmt.Errorf("unknown protocol %q in port %q", after, entry)
		}
	}

	port, err := strconv.Atoi(portPart)
	if err != nil || port < 1 || port > 65535 {
		return portSpec{}, fmt.Errorf("invalid port %q: must be 1-65535", entry)
	}

	return portSpec{Port: int32(port), Protocol: protocol}, nil
}

// toNetworkPolicyPort converts the spec into its networking.k8s.io form.
func (s portSpec) toNetworkPolicyPort() networkingv1.NetworkPolicyPort {
	return networkingv1.NetworkPolicyPort{
		Protocol: ptr.To(s.Protocol),
		Port:     ptr.To(intstr.FromInt32(s.Port)),
	}
}

// parsePorts normalizes a port intent list.
func parsePorts(entries []string) ([]portSpec, error) {
	specs := make([]portSpec, 0, len(entries))
	for _, entry := range entries {
		spec, err := parsePort(entry)
		if err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}
	return specs, nil
}
