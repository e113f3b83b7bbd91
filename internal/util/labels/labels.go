// Package labels provides consistent labeling for compiled documents.
//
// Every emitted document carries the same standard label set, enabling
// selection, grouping, and pruning of documents belonging to the same
// cluster and environment.
//
// Standard label keys use the kompilat.io domain prefix for namespacing.
package labels

// Standard label keys for compiled documents.
const (
	// KeyCluster identifies which cluster a document was compiled for.
	KeyCluster = "kompilat.io/cluster"

	// KeyEnvironment identifies the environment the configuration was
	// resolved for.
	KeyEnvironment = "kompilat.io/environment"

	// KeyManagedBy identifies the management system.
	KeyManagedBy = "app.kubernetes.io/managed-by"
)

// ManagedBy is the value stamped under KeyManagedBy.
const ManagedBy = "kompilat"

// Standard returns the label set stamped onto every compiled document.
// A fresh map is returned on each call.
func Standard(cluster, environment string) map[string]string {
	return map[string]string{
		KeyCluster:     cluster,
		KeyEnvironment: environment,
		KeyManagedBy:   ManagedBy,
	}
}

// Merge combines existing labels with the standard set. Existing keys
// win so compilers can override individual labels deliberately.
func Merge(existing, standard map[string]string) map[string]string {
	result := make(map[string]string, len(existing)+len(standard))
	for k, v := range standard {
		result[k] = v
	}
	for k, v := range existing {
		result[k] = v
	}
	return result
}
