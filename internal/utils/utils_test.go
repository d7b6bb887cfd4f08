package utils

import (
	"path/filepath"
	"testing"
)

// TestDeduplicatePatterns verifies that duplicates are dropped while the first occurrence keeps its position.
func TestDeduplicatePatterns(testingHandle *testing.T) {
	result := DeduplicatePatterns([]string{"dist", "build", "dist", "vendor", "build"})
	expected := []string{"dist", "build", "vendor"}
	if len(result) != len(expected) {
		testingHandle.Fatalf("expected %d patterns, got %d: %v", len(expected), len(result), result)
	}
	for index, expectedPattern := range expected {
		if result[index] != expectedPattern {
			testingHandle.Errorf("pattern %d: expected %q, got %q", index, expectedPattern, result[index])
		}
	}
}

// TestRelativePathOrSelf verifies root-relative path calculation and slash normalization.
func TestRelativePathOrSelf(testingHandle *testing.T) {
	root := testingHandle.TempDir()
	if relativePath := RelativePathOrSelf(root, root); relativePath != "." {
		testingHandle.Errorf("expected '.' for the root itself, got %q", relativePath)
	}
	nestedPath := filepath.Join(root, "src", "a.py")
	if relativePath := RelativePathOrSelf(nestedPath, root); relativePath != "src/a.py" {
		testingHandle.Errorf("expected slash-separated relative path, got %q", relativePath)
	}
}

// TestIsHiddenName verifies dot-prefix detection with the dot and dot-dot exceptions.
func TestIsHiddenName(testingHandle *testing.T) {
	testCases := []struct {
		name     string
		expected bool
	}{
		{".env", true},
		{".github", true},
		{".", false},
		{"..", false},
		{"main.go", false},
	}
	for _, testCase := range testCases {
		if IsHiddenName(testCase.name) != testCase.expected {
			testingHandle.Errorf("IsHiddenName(%q) = %v, expected %v", testCase.name, !testCase.expected, testCase.expected)
		}
	}
}
