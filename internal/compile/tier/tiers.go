// Package tier compiles quota tiers, priority hierarchies, and disruption
// budgets into canonical Kubernetes documents.
package tier

// Tier preset tables. Quantities are parsed at compile time so override
// values go through the same parser as the presets.
var quotaTiers = map[string]map[string]string{
	"small": {
		"requests.cpu":           "2",
		"requests.memory":        "4Gi",
		"limits.cpu":             "4",
		"limits.memory":          "8Gi",
		"pods":                   "20",
		"services":               "10",
		"persistentvolumeclaims": "5",
		"secrets":                "20",
		"configmaps":             "20",
	},
	"medium": {
		"requests.cpu":           "8",
		"requests.memory":        "16Gi",
		"limits.cpu":             "16",
		"limits.memory":          "32Gi",
		"pods":                   "50",
		"services":               "20",
		"persistentvolumeclaims": "10",
		"secrets":                "50",
		"configmaps":             "50",
	},
	"large": {
		"requests.cpu":           "32",
		"requests.memory":        "64Gi",
		"limits.cpu":             "64",
		"limits.memory":          "128Gi",
		"pods":                   "200",
		"services":               "50",
		"persistentvolumeclaims": "30",
		"secrets":                "100",
		"configmaps":             "100",
	},
	"platform": {
		"requests.cpu":           "64",
		"requests.memory":        "128Gi",
		"limits.cpu":             "128",
		"limits.memory":          "256Gi",
		"pods":                   "500",
		"services":               "100",
		"persistentvolumeclaims": "50",
		"secrets":                "200",
		"configmaps":             "200",
	},
}

// TierNames lists the valid quota tier names.
func TierNames() []string {
	return []string{"small", "medium", "large", "platform"}
}
