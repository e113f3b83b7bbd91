package labels

import (
	"reflect"
	"testing"
)

func TestStandard(t *testing.T) {
	got := Standard("test-cluster", "production")
	expected := map[string]string{
		"kompilat.io/cluster":          "test-cluster",
		"kompilat.io/environment":      "production",
		"app.kubernetes.io/managed-by": "kompilat",
	}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("Standard() = %v, want %v", got, expected)
	}

	// Each call returns a fresh map.
	got["extra"] = "x"
	if _, ok := Standard("test-cluster", "production")["extra"]; ok {
		t.Error("Standard() returned a shared map")
	}
}

func TestMerge(t *testing.T) {
	standard := Standard("c", "dev")
	existing := map[string]string{
		"app":                 "api",
		"kompilat.io/cluster": "overridden",
	}

	got := Merge(existing, standard)

	if got["app"] != "api" {
		t.Errorf("existing label lost: %v", got)
	}
	if got["kompilat.io/cluster"] != "overridden" {
		t.Error("existing keys must win over the standard set")
	}
	if got["app.kubernetes.io/managed-by"] != "kompilat" {
		t.Error("standard label missing")
	}
}
