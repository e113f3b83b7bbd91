// Package access resolves principals and personas into cluster access
// documents: structured access entries, the legacy aws-auth group
// mapping, or both, depending on the authentication mode.
package access

// persona is a predefined access level: an entitlement policy reference
// plus the default group list for the legacy representation.
type persona struct {
	Entitlement string
	Groups      []string
}

// personas maps persona names to their fixed entitlement pairs.
var personas = map[string]persona{
	"admin": {
		Entitlement: "arn:aws:eks::aws:cluster-access-policy/AmazonEKSClusterAdminPolicy",
		Groups:      []string{"system:masters"},
	},
	"powerUser": {
		Entitlement: "arn:aws:eks::aws:cluster-access-policy/AmazonEKSAdminPolicy",
		Groups:      []string{"platform:power-users"},
	},
	"developer": {
		Entitlement: "arn:aws:eks::aws:cluster-access-policy/AmazonEKSEditPolicy",
		Groups:      []string{"platform:developers"},
	},
	"viewer": {
		Entitlement: "arn:aws:eks::aws:cluster-access-policy/AmazonEKSViewPolicy",
		Groups:      []string{"platform:viewers"},
	},
}

// PersonaNames lists the valid persona names.
func PersonaNames() []string {
	return []string{"admin", "powerUser", "developer", "viewer"}
}
