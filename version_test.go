package hfrtos

import "testing"

func TestModuleVersionsMatchMatrix(t *testing.T) {
	versions := ModuleVersions()
	matrix := CompatibilityMatrix()

	if len(versions) != len(matrix) {
		t.Fatalf("ModuleVersions has %d entries, CompatibilityMatrix has %d", len(versions), len(matrix))
	}
	for name, v := range versions {
		if v == "" {
			t.Errorf("module %s has an empty version", name)
		}
		if _, ok := matrix[name]; !ok {
			t.Errorf("module %s missing from the compatibility matrix", name)
		}
	}
}

func TestValidateModuleVersions(t *testing.T) {
	if err := ValidateModuleVersions(); err != nil {
		t.Fatalf("ValidateModuleVersions: %v", err)
	}
}

func TestIsVersionCompatible(t *testing.T) {
	tests := []struct {
		version string
		min     string
		want    bool
	}{
		{"1.0.0", "1.0.0", true},
		{"1.2.3", "1.0.0", true},
		{"2.0.0", "1.9.9", true},
		{"1.0.0", "1.0.1", false},
		{"1.0.0", "1.1.0", false},
		{"0.9.9", "1.0.0", false},
		{"1.10.0", "1.9.0", true},
	}
	for _, tt := range tests {
		if got := isVersionCompatible(tt.version, tt.min); got != tt.want {
			t.Errorf("isVersionCompatible(%q, %q) = %v, want %v", tt.version, tt.min, got, tt.want)
		}
	}
}
