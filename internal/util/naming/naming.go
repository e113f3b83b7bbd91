// Package naming provides consistent naming functions for compiled
// documents.
//
// Names are pure functions of their inputs so recompiling identical
// configuration always yields identically named documents.
package naming

import "fmt"

func Quota(namespace string) string {
	return fmt.Sprintf("%s-quota", namespace)
}

func DisruptionBudget(name string) string {
	return fmt.Sprintf("%s-pdb", name)
}

func DefaultDeny(direction string) string {
	return fmt.Sprintf("default-deny-%s", direction)
}

func FQDNPolicy(policy string) string {
	return fmt.Sprintf("%s-fqdn", policy)
}

// PrincipalToken reduces an identity reference to an alphanumeric token
// usable as a document name. Deterministic: identical references always
// produce identical tokens.
func PrincipalToken(reference string) string {
	token := make([]byte, 0, len(reference))
	for i := 0; i < len(reference); i++ {
		c := reference[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
			token = append(token, c)
		}
	}
	return string(token)
}
