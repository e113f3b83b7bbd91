package config

import (
	"fmt"
	"net"
)

// ResolutionError reports a required field left unset after every layer
// was applied.
type ResolutionError struct {
	Path string
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("required field %q is not set after applying all layers", e.Path)
}

// validateResolved is the required-field gate run at the end of Resolve.
func (c *Config) validateResolved() error {
	if c.Cluster.Name == "" {
		return &ResolutionError{Path: "cluster.name"}
	}
	if c.Network.VPCCIDR == "" {
		return &ResolutionError{Path: "network.vpc_cidr"}
	}
	if c.Network.ClusterDomain == "" {
		return &ResolutionError{Path: "network.cluster_domain"}
	}
	if c.Security.PolicyNamespace == "" {
		return &ResolutionError{Path: "security.policy_namespace"}
	}

	if _, _, err := net.ParseCIDR(c.Network.VPCCIDR); err != nil {
		return fmt.Errorf("network.vpc_cidr %q is not a valid CIDR: %w", c.Network.VPCCIDR, err)
	}
	if c.Network.GatewayCount < 1 {
		return fmt.Errorf("network.gateway_count must be at least 1, got %d", c.Network.GatewayCount)
	}
	if !ValidAuthModes[c.Auth.Mode] {
		return fmt.Errorf("invalid auth.mode %q: must be one of api, configMap, both", c.Auth.Mode)
	}

	return nil
}
