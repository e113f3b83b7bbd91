package config

// Environment identifies the deployment environment a configuration is
// resolved for. Enforcement defaults and network sizing key off it.
type Environment string

const (
	EnvironmentDev        Environment = "dev"
	EnvironmentStaging    Environment = "staging"
	EnvironmentProduction Environment = "production"
)

// ValidEnvironments contains all recognized environment names.
var ValidEnvironments = map[Environment]bool{
	EnvironmentDev:        true,
	EnvironmentStaging:    true,
	EnvironmentProduction: true,
}

// AuthMode selects which access representations the principal resolver
// emits: structured access entries, the legacy aws-auth group mapping,
// or both.
type AuthMode string

const (
	AuthModeAPI       AuthMode = "api"
	AuthModeConfigMap AuthMode = "configMap"
	AuthModeBoth      AuthMode = "both"
)

// ValidAuthModes contains all recognized authentication modes.
var ValidAuthModes = map[AuthMode]bool{
	AuthModeAPI:       true,
	AuthModeConfigMap: true,
	AuthModeBoth:      true,
}

// Config is the fully resolved configuration tree. Every required field is
// present after Resolve returns; treat instances as immutable values.
type Config struct {
	Cluster  ClusterConfig  `mapstructure:"cluster" yaml:"cluster"`
	Network  NetworkConfig  `mapstructure:"network" yaml:"network"`
	Auth     AuthConfig     `mapstructure:"auth" yaml:"auth"`
	Security SecurityConfig `mapstructure:"security" yaml:"security"`

	// Intent records consumed by the compilers.
	Quotas            []QuotaConfig            `mapstructure:"quotas" yaml:"quotas,omitempty"`
	PriorityLevels    []PriorityLevelConfig    `mapstructure:"priority_levels" yaml:"priority_levels,omitempty"`
	DisruptionBudgets []DisruptionBudgetConfig `mapstructure:"disruption_budgets" yaml:"disruption_budgets,omitempty"`
	SecurityPolicies  []SecurityPolicyConfig   `mapstructure:"security_policies" yaml:"security_policies,omitempty"`
	NetworkPolicies   []NetworkPolicyConfig    `mapstructure:"network_policies" yaml:"network_policies,omitempty"`
	DefaultDeny       []DefaultDenyConfig      `mapstructure:"default_deny" yaml:"default_deny,omitempty"`
	Principals        []PrincipalConfig        `mapstructure:"principals" yaml:"principals,omitempty"`
}

// ClusterConfig identifies the target cluster.
type ClusterConfig struct {
	Name        string      `mapstructure:"name" yaml:"name"`
	Environment Environment `mapstructure:"environment" yaml:"environment"`
	Region      string      `mapstructure:"region" yaml:"region"`

	// Domain enables host derivation; IngressHost defaults to
	// "ingress.{Domain}" when Domain is set and IngressHost is not.
	Domain      string `mapstructure:"domain" yaml:"domain,omitempty"`
	IngressHost string `mapstructure:"ingress_host" yaml:"ingress_host,omitempty"`
}

// NetworkConfig describes cluster networking.
type NetworkConfig struct {
	VPCCIDR       string `mapstructure:"vpc_cidr" yaml:"vpc_cidr"`
	GatewayCount  int    `mapstructure:"gateway_count" yaml:"gateway_count"`
	ClusterDomain string `mapstructure:"cluster_domain" yaml:"cluster_domain"`
}

// AuthConfig selects the cluster authentication mode.
type AuthConfig struct {
	Mode AuthMode `mapstructure:"mode" yaml:"mode"`
}

// SecurityConfig carries the enforcement override flags and the namespace
// hosting the policy engine itself.
type SecurityConfig struct {
	// AlwaysEnforce forces enforcement regardless of environment.
	// Takes precedence over AlwaysAudit.
	AlwaysEnforce bool `mapstructure:"always_enforce" yaml:"always_enforce,omitempty"`

	// AlwaysAudit forces audit mode regardless of environment.
	AlwaysAudit bool `mapstructure:"always_audit" yaml:"always_audit,omitempty"`

	// PolicyNamespace is excluded from policies by default so the policy
	// engine is never blocked by its own rules.
	PolicyNamespace string `mapstructure:"policy_namespace" yaml:"policy_namespace"`
}

// QuotaConfig requests a resource quota for a namespace: a named tier
// preset plus optional per-resource overrides.
type QuotaConfig struct {
	Namespace string            `mapstructure:"namespace" yaml:"namespace"`
	Tier      string            `mapstructure:"tier" yaml:"tier"`
	Overrides map[string]string `mapstructure:"overrides" yaml:"overrides,omitempty"`
}

// PriorityLevelConfig describes one priority level in the cluster-wide
// priority hierarchy.
type PriorityLevelConfig struct {
	Name        string `mapstructure:"name" yaml:"name"`
	Value       int32  `mapstructure:"value" yaml:"value"`
	Default     bool   `mapstructure:"default" yaml:"default,omitempty"`
	Description string `mapstructure:"description" yaml:"description,omitempty"`
}

// DisruptionBudgetConfig limits voluntary disruption for a workload.
// Exactly one of MinAvailable and MaxUnavailable must be set; each accepts
// an absolute count ("2") or a percentage ("50%").
type DisruptionBudgetConfig struct {
	Name           string            `mapstructure:"name" yaml:"name"`
	Namespace      string            `mapstructure:"namespace" yaml:"namespace"`
	Selector       map[string]string `mapstructure:"selector" yaml:"selector"`
	MinAvailable   string            `mapstructure:"min_available" yaml:"min_available,omitempty"`
	MaxUnavailable string            `mapstructure:"max_unavailable" yaml:"max_unavailable,omitempty"`
}

// RuleKind tags the variant a security policy rule carries.
type RuleKind string

const (
	RuleKindCanonical RuleKind = "canonical"
	RuleKindDeny      RuleKind = "deny"
	RuleKindShorthand RuleKind = "shorthand"
)

// SecurityPolicyConfig is one admission policy intent. The rule is a
// tagged variant: exactly one of Canonical, Deny, or Shorthand is set,
// and Kind names which. An empty Kind is inferred when exactly one
// variant is present.
type SecurityPolicyConfig struct {
	Name string   `mapstructure:"name" yaml:"name"`
	Kind RuleKind `mapstructure:"kind" yaml:"kind,omitempty"`

	Canonical *CanonicalRuleConfig `mapstructure:"canonical" yaml:"canonical,omitempty"`
	Deny      *DenyRuleConfig      `mapstructure:"deny" yaml:"deny,omitempty"`
	Shorthand *ShorthandRuleConfig `mapstructure:"shorthand" yaml:"shorthand,omitempty"`

	// ExcludeNamespaces overrides the default exclusion list
	// (system namespaces plus the policy engine's own namespace).
	ExcludeNamespaces []string `mapstructure:"exclude_namespaces" yaml:"exclude_namespaces,omitempty"`
}

// CanonicalRuleConfig is a fully spelled-out validation rule.
type CanonicalRuleConfig struct {
	Match   map[string]any `mapstructure:"match" yaml:"match,omitempty"`
	Pattern map[string]any `mapstructure:"pattern" yaml:"pattern"`
	Message string         `mapstructure:"message" yaml:"message,omitempty"`
}

// DenyRuleConfig denies admission when all conditions evaluate true.
type DenyRuleConfig struct {
	Match      map[string]any  `mapstructure:"match" yaml:"match,omitempty"`
	Conditions []DenyCondition `mapstructure:"conditions" yaml:"conditions"`
	Message    string          `mapstructure:"message" yaml:"message,omitempty"`
}

// DenyCondition is one key/operator/value predicate of a deny rule.
type DenyCondition struct {
	Key      string `mapstructure:"key" yaml:"key"`
	Operator string `mapstructure:"operator" yaml:"operator"`
	Value    any    `mapstructure:"value" yaml:"value"`
}

// ShorthandRuleConfig is the compact toggle form of a security policy.
// Each set toggle expands to one canonical pattern fragment; unset toggles
// contribute nothing.
type ShorthandRuleConfig struct {
	RunAsNonRoot                bool              `mapstructure:"run_as_non_root" yaml:"run_as_non_root,omitempty"`
	DisallowPrivileged          bool              `mapstructure:"disallow_privileged" yaml:"disallow_privileged,omitempty"`
	DisallowPrivilegeEscalation bool              `mapstructure:"disallow_privilege_escalation" yaml:"disallow_privilege_escalation,omitempty"`
	ReadOnlyRootFilesystem      bool              `mapstructure:"read_only_root_filesystem" yaml:"read_only_root_filesystem,omitempty"`
	DisallowHostNamespaces      bool              `mapstructure:"disallow_host_namespaces" yaml:"disallow_host_namespaces,omitempty"`
	DisallowLatestTag           bool              `mapstructure:"disallow_latest_tag" yaml:"disallow_latest_tag,omitempty"`
	RequiredLabels              map[string]string `mapstructure:"required_labels" yaml:"required_labels,omitempty"`
}

// NetworkPolicyConfig is one reachability policy intent.
type NetworkPolicyConfig struct {
	Name      string `mapstructure:"name" yaml:"name"`
	Namespace string `mapstructure:"namespace" yaml:"namespace"`

	// PodSelector matches the workloads the policy applies to.
	// Empty matches every workload in the namespace.
	PodSelector map[string]string `mapstructure:"pod_selector" yaml:"pod_selector,omitempty"`

	Ingress []NetworkRuleConfig `mapstructure:"ingress" yaml:"ingress,omitempty"`
	Egress  []NetworkRuleConfig `mapstructure:"egress" yaml:"egress,omitempty"`

	// FQDNEgress emits an additional domain-based egress policy alongside
	// the CIDR/selector rules above.
	FQDNEgress []FQDNRuleConfig `mapstructure:"fqdn_egress" yaml:"fqdn_egress,omitempty"`
}

// NetworkRuleConfig is one ingress or egress intent entry: a peer plus an
// optional port list. Ports use "443" or "53/udp" form; the protocol
// defaults to TCP.
type NetworkRuleConfig struct {
	PodSelector       map[string]string `mapstructure:"pod_selector" yaml:"pod_selector,omitempty"`
	NamespaceSelector map[string]string `mapstructure:"namespace_selector" yaml:"namespace_selector,omitempty"`
	CIDR              string            `mapstructure:"cidr" yaml:"cidr,omitempty"`
	ExceptCIDRs       []string          `mapstructure:"except_cidrs" yaml:"except_cidrs,omitempty"`
	Ports             []string          `mapstructure:"ports" yaml:"ports,omitempty"`
}

// FQDNRuleConfig allows egress to domains matching the given patterns.
// Patterns may contain "*" wildcards.
type FQDNRuleConfig struct {
	Patterns []string `mapstructure:"patterns" yaml:"patterns"`
	Ports    []string `mapstructure:"ports" yaml:"ports,omitempty"`
}

// DenyDirection selects which traffic directions a default-deny policy
// blocks.
type DenyDirection string

const (
	DenyIngress DenyDirection = "ingress"
	DenyEgress  DenyDirection = "egress"
	DenyBoth    DenyDirection = "both"
)

// DefaultDenyConfig requests a default-deny policy for a namespace with
// optional narrow exceptions.
type DefaultDenyConfig struct {
	Namespace string        `mapstructure:"namespace" yaml:"namespace"`
	Direction DenyDirection `mapstructure:"direction" yaml:"direction"`

	// AllowDNS keeps name resolution working under egress deny.
	AllowDNS bool `mapstructure:"allow_dns" yaml:"allow_dns,omitempty"`

	// AllowSameNamespace permits traffic between workloads in the
	// denied namespace.
	AllowSameNamespace bool `mapstructure:"allow_same_namespace" yaml:"allow_same_namespace,omitempty"`
}

// PrincipalConfig grants cluster access to one identity. A principal is
// either persona-based (Persona set, entitlement and groups come from the
// persona table) or custom (Persona empty, Entitlement required).
type PrincipalConfig struct {
	// Reference is the principal's identity ARN.
	Reference string `mapstructure:"reference" yaml:"reference"`

	// DisplayName overrides the document name derived from Reference.
	DisplayName string `mapstructure:"display_name" yaml:"display_name,omitempty"`

	Persona     string `mapstructure:"persona" yaml:"persona,omitempty"`
	Entitlement string `mapstructure:"entitlement" yaml:"entitlement,omitempty"`

	// Groups are appended to the persona's default group list.
	Groups []string `mapstructure:"groups" yaml:"groups,omitempty"`

	// Namespaces limits the grant to the listed namespaces.
	// Empty means cluster-wide.
	Namespaces []string `mapstructure:"namespaces" yaml:"namespaces,omitempty"`
}
