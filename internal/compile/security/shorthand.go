package security

import (
	"fmt"

	"github.com/kompilat/kompilat/internal/config"
)

// expandShorthand normalizes a shorthand intent into the canonical
// validate-pattern form. Each set toggle contributes exactly one
// deterministic fragment; unset toggles contribute nothing. A shorthand
// with no toggles set is an error.
//
// Fragments use the policy engine's anchor syntax: "=(field)" means the
// constraint applies only when the field is present.
func expandShorthand(sh *config.ShorthandRuleConfig) (map[string]any, string, error) {
	pattern := make(map[string]any)
	podSpec := make(map[string]any)
	container := make(map[string]any)
	containerSC := make(map[string]any)
	var messages []string

	if len(sh.RequiredLabels) > 0 {
		labels := make(map[string]any, len(sh.RequiredLabels))
		for k, v := range sh.RequiredLabels {
			labels[k] = v
		}
		pattern["metadata"] = map[string]any{"labels": labels}
		messages = append(messages, "required labels must be present")
	}
	if sh.RunAsNonRoot {
		podSpec["securityContext"] = map[string]any{"runAsNonRoot": true}
		messages = append(messages, "containers must run as non-root")
	}
	if sh.DisallowHostNamespaces {
		podSpec["=(hostNetwork)"] = false
		podSpec["=(hostPID)"] = false
		podSpec["=(hostIPC)"] = false
		messages = append(messages, "host namespaces are not allowed")
	}
	if sh.DisallowPrivileged {
		containerSC["=(privileged)"] = false
		messages = append(messages, "privileged containers are not allowed")
	}
	if sh.DisallowPrivilegeEscalation {
		containerSC["=(allowPrivilegeEscalation)"] = false
		messages = append(messages, "privilege escalation is not allowed")
	}
	if sh.ReadOnlyRootFilesystem {
		containerSC["readOnlyRootFilesystem"] = true
		messages = append(messages, "root filesystem must be read-only")
	}
	if sh.DisallowLatestTag {
		container["image"] = "!*:latest"
		messages = append(messages, "the latest image tag is not allowed")
	}

	if len(containerSC) > 0 {
		container["=(securityContext)"] = containerSC
	}
	if len(container) > 0 {
		podSpec["containers"] = []any{container}
	}
	if len(podSpec) > 0 {
		pattern["spec"] = podSpec
	}

	if len(pattern) == 0 {
		return nil, "", fmt.Errorf("shorthand intent sets no flags")
	}

	message := messages[0]
	for _, m := range messages[1:] {
		message += "; " + m
	}
	return pattern, message, nil
}
