// Package document defines the compiled output unit and its
// deterministic YAML rendering.
package document

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
	sigsyaml "sigs.k8s.io/yaml"
)

// Document is one compiled, self-describing resource document. Object is
// either a typed k8s.io/api object or a map[string]any body for CRD
// kinds. Documents are produced fresh on every compilation call.
type Document struct {
	APIVersion string
	Kind       string
	Name       string

	// Namespace is empty for cluster-scoped documents.
	Namespace string

	Object any
}

// ID returns a stable identifier for diagnostics and file naming.
func (d Document) ID() string {
	if d.Namespace == "" {
		return fmt.Sprintf("%s-%s", strings.ToLower(d.Kind), d.Name)
	}
	return fmt.Sprintf("%s-%s-%s", strings.ToLower(d.Kind), d.Namespace, d.Name)
}

// Render serializes the document body to YAML. Typed objects go through
// sigs.k8s.io/yaml (JSON-tag driven), map bodies through yaml.v3 with
// 2-space indent. Both sort map keys, so identical inputs render to
// identical bytes.
func (d Document) Render() ([]byte, error) {
	if body, ok := d.Object.(map[string]any); ok {
		var buf bytes.Buffer
		encoder := yaml.NewEncoder(&buf)
		encoder.SetIndent(2)
		if err := encoder.Encode(body); err != nil {
			return nil, fmt.Errorf("failed to render %s: %w", d.ID(), err)
		}
		if err := encoder.Close(); err != nil {
			return nil, fmt.Errorf("failed to render %s: %w", d.ID(), err)
		}
		return buf.Bytes(), nil
	}

	data, err := sigsyaml.Marshal(d.Object)
	if err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", d.ID(), err)
	}
	return data, nil
}

// RenderAll serializes documents into one multi-document YAML stream.
func RenderAll(docs []Document) ([]byte, error) {
	rendered := make([]string, 0, len(docs))
	for _, d := range docs {
		data, err := d.Render()
		if err != nil {
			return nil, err
		}
		rendered = append(rendered, string(data))
	}
	return []byte(strings.Join(rendered, "---\n")), nil
}
