package access

import (
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws/arn"
	"gopkg.in/yaml.v3"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/kompilat/kompilat/internal/config"
	"github.com/kompilat/kompilat/internal/document"
	"github.com/kompilat/kompilat/internal/util/naming"
)

// resolved is one principal after persona lookup and validation.
type resolved struct {
	Reference   string
	Name        string
	Entitlement string
	Groups      []string
	Namespaces  []string
	IsUser      bool
}

// Compile resolves every principal and emits the representations the
// authentication mode calls for: one access entry document per principal,
// the aggregated aws-auth ConfigMap, or both.
func Compile(cfg *config.Config) ([]document.Document, error) {
	if len(cfg.Principals) == 0 {
		return nil, nil
	}

	principals := make([]resolved, 0, len(cfg.Principals))
	for _, p := range cfg.Principals {
		r, err := resolve(p)
		if err != nil {
			return nil, err
		}
		principals = append(principals, r)
	}

	var docs []document.Document
	if cfg.Auth.Mode == config.AuthModeAPI || cfg.Auth.Mode == config.AuthModeBoth {
		for _, r := range principals {
			docs = append(docs, accessEntryDocument(r))
		}
	}
	if cfg.Auth.Mode == config.AuthModeConfigMap || cfg.Auth.Mode == config.AuthModeBoth {
		doc, err := authConfigMapDocument(principals)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// resolve maps a principal to its entitlement pair and derives its
// document name from the identity reference when no display name is
// supplied.
func resolve(p config.PrincipalConfig) (resolved, error) {
	if p.Reference == "" {
		return resolved{}, &document.ValidationError{
			Compiler: "access",
			Record:   p.DisplayName,
			Reason:   "reference is required",
		}
	}
	parsed, err := arn.Parse(p.Reference)
	if err != nil {
		return resolved{}, &document.ValidationError{
			Compiler: "access",
			Record:   p.Reference,
			Reason:   fmt.Sprintf("reference is not a valid ARN: %v", err),
		}
	}

	r := resolved{
		Reference:  p.Reference,
		Name:       p.DisplayName,
		Namespaces: p.Namespaces,
		IsUser:     strings.HasPrefix(parsed.Resource, "user/"),
	}
	if r.Name == "" {
		r.Name = naming.PrincipalToken(p.Reference)
	}

	switch {
	case p.Persona != "" && p.Entitlement != "":
		return resolved{}, &document.ValidationError{
			Compiler: "access",
			Record:   p.Reference,
			Reason:   "persona and entitlement are mutually exclusive",
		}
	case p.Persona != "":
		pe, ok := personas[p.Persona]
		if !ok {
			return resolved{}, &document.ValidationError{
				Compiler: "access",
				Record:   p.Reference,
				Reason:   fmt.Sprintf("unknown persona %q: must be one of %v", p.Persona, PersonaNames()),
			}
		}
		r.Entitlement = pe.Entitlement
		r.Groups = append(append([]string{}, pe.Groups...), p.Groups...)
	case p.Entitlement != "":
		r.Entitlement = p.Entitlement
		r.Groups = append([]string{}, p.Groups...)
	default:
		return resolved{}, &document.ValidationError{
			Compiler: "access",
			Record:   p.Reference,
			Reason:   "custom principals need an explicit entitlement",
		}
	}

	return r, nil
}

// accessEntryDocument emits the structured entitlement representation.
// Scope propagates unchanged: cluster-wide principals get a cluster
// access scope, namespace-limited principals a namespace scope.
func accessEntryDocument(r resolved) document.Document {
	scope := map[string]any{"type": "cluster"}
	if len(r.Namespaces) > 0 {
		namespaces := make([]any, 0, len(r.Namespaces))
		for _, ns := range r.Namespaces {
			namespaces = append(namespaces, ns)
		}
		scope = map[string]any{"type": "namespace", "namespaces": namespaces}
	}

	groups := make([]any, 0, len(r.Groups))
	for _, g := range r.Groups {
		groups = append(groups, g)
	}

	body := map[string]any{
		"apiVersion": "eks.amazonaws.com/v1",
		"kind":       "AccessEntry",
		"metadata": map[string]any{
			"name": r.Name,
		},
		"spec": map[string]any{
			"principalARN":     r.Reference,
			"kubernetesGroups": groups,
			"accessPolicies": []any{
				map[string]any{
					"policyARN":   r.Entitlement,
					"accessScope": scope,
				},
			},
		},
	}

	return document.Document{
		APIVersion: "eks.amazonaws.com/v1",
		Kind:       "AccessEntry",
		Name:       r.Name,
		Object:     body,
	}
}

// roleMapping is one entry of the aws-auth ConfigMap.
type roleMapping struct {
	RoleARN  string   `yaml:"rolearn,omitempty"`
	UserARN  string   `yaml:"userarn,omitempty"`
	Username string   `yaml:"username"`
	Groups   []string `yaml:"groups"`
}

// authConfigMapDocument emits the legacy group-mapping representation:
// one mapRoles/mapUsers entry per principal, aggregated into the aws-auth
// ConfigMap. Namespace scope cannot be expressed natively in this format,
// so it propagates as one "ns:{namespace}" group per namespace for role
// bindings to reference.
func authConfigMapDocument(principals []resolved) (document.Document, error) {
	var roles, users []roleMapping
	for _, r := range principals {
		groups := append([]string{}, r.Groups...)
		for _, ns := range r.Namespaces {
			groups = append(groups, "ns:"+ns)
		}
		m := roleMapping{Username: r.Name, Groups: groups}
		if r.IsUser {
			m.UserARN = r.Reference
			users = append(users, m)
		} else {
			m.RoleARN = r.Reference
			roles = append(roles, m)
		}
	}

	data := map[string]string{}
	if len(roles) > 0 {
		encoded, err := yaml.Marshal(roles)
		if err != nil {
			return document.Document{}, fmt.Errorf("failed to encode mapRoles: %w", err)
		}
		data["mapRoles"] = string(encoded)
	}
	if len(users) > 0 {
		encoded, err := yaml.Marshal(users)
		if err != nil {
			return document.Document{}, fmt.Errorf("failed to encode mapUsers: %w", err)
		}
		data["mapUsers"] = string(encoded)
	}

	cm := &corev1.ConfigMap{
		TypeMeta: metav1.TypeMeta{
			APIVersion: "v1",
			Kind:       "ConfigMap",
		},
		ObjectMeta: metav1.ObjectMeta{
			Name:      "aws-auth",
			Namespace: "kube-system",
		},
		Data: data,
	}

	return document.Document{
		APIVersion: "v1",
		Kind:       "ConfigMap",
		Name:       "aws-auth",
		Namespace:  "kube-system",
		Object:     cm,
	}, nil
}
