package tier

import (
	"fmt"

	schedulingv1 "k8s.io/api/scheduling/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/kompilat/kompilat/internal/config"
	"github.com/kompilat/kompilat/internal/document"
)

// platformBandFloor separates the platform priority band from the
// workload band. User-defined values above maxPriorityValue are reserved
// by Kubernetes.
const (
	platformBandFloor = 100000000
	maxPriorityValue  = 1000000000
)

// DefaultPriorityLevels is the built-in priority hierarchy emitted when a
// configuration declares no levels of its own: two platform levels above
// two workload levels, with exactly one implicit default.
func DefaultPriorityLevels() []config.PriorityLevelConfig {
	return []config.PriorityLevelConfig{
		{Name: "platform-critical", Value: 900000000, Description: "Cluster-critical platform components"},
		{Name: "platform-high", Value: 800000000, Description: "Platform services"},
		{Name: "workload-high", Value: 1000000, Description: "Latency-sensitive workloads"},
		{Name: "workload-default", Value: 1000, Default: true, Description: "Default workload priority"},
	}
}

// CompilePriorityLevels expands a batch of priority levels into
// PriorityClass documents. Invariants hold across the whole batch: names
// unique, values strictly decreasing, platform levels above workload
// levels, exactly one level marked as the implicit default.
func CompilePriorityLevels(levels []config.PriorityLevelConfig) ([]document.Document, error) {
	if len(levels) == 0 {
		levels = DefaultPriorityLevels()
	}

	seen := make(map[string]bool, len(levels))
	defaults := 0
	for i, level := range levels {
		if level.Name == "" {
			return nil, &document.ValidationError{
				Compiler: "priority",
				Record:   fmt.Sprintf("level %d", i),
				Reason:   "name is required",
			}
		}
		if seen[level.Name] {
			return nil, &document.ValidationError{
				Compiler: "priority",
				Record:   level.Name,
				Reason:   "duplicate level name",
			}
		}
		seen[level.Name] = true

		if level.Value <= 0 || level.Value > maxPriorityValue {
			return nil, &document.ValidationError{
				Compiler: "priority",
				Record:   level.Name,
				Reason:   fmt.Sprintf("value %d out of range (1..%d)", level.Value, maxPriorityValue),
			}
		}
		if i > 0 && level.Value >= levels[i-1].Value {
			return nil, &document.ValidationError{
				Compiler: "priority",
				Record:   level.Name,
				Reason:   fmt.Sprintf("value %d is not strictly below previous level %q (%d)", level.Value, levels[i-1].Name, levels[i-1].Value),
			}
		}
		if level.Default {
			defaults++
			if level.Value >= platformBandFloor {
				return nil, &document.ValidationError{
					Compiler: "priority",
					Record:   level.Name,
					Reason:   "the default level must be in the workload band",
				}
			}
		}
	}
	if defaults != 1 {
		return nil, &document.ValidationError{
			Compiler: "priority",
			Record:   "batch",
			Reason:   fmt.Sprintf("exactly one level must be the default, got %d", defaults),
		}
	}

	docs := make([]document.Document, 0, len(levels))
	for _, level := range levels {
		pc := &schedulingv1.PriorityClass{
			TypeMeta: metav1.TypeMeta{
				APIVersion: "scheduling.k8s.io/v1",
				Kind:       "PriorityClass",
			},
			ObjectMeta: metav1.ObjectMeta{
				Name: level.Name,
			},
			Value:         level.Value,
			GlobalDefault: level.Default,
			Description:   level.Description,
		}
		docs = append(docs, document.Document{
			APIVersion: "scheduling.k8s.io/v1",
			Kind:       "PriorityClass",
			Name:       level.Name,
			Object:     pc,
		})
	}
	return docs, nil
}
