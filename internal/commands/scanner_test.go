package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mazeincoding/twiggy/internal/ignore"
	"github.com/mazeincoding/twiggy/internal/types"
)

// writeTestFile creates a file with placeholder content, creating parents and failing the test on error.
func writeTestFile(testingHandle *testing.T, path string) {
	testingHandle.Helper()
	if mkdirError := os.MkdirAll(filepath.Dir(path), 0o755); mkdirError != nil {
		testingHandle.Fatalf("create directory for %s: %v", path, mkdirError)
	}
	if writeError := os.WriteFile(path, []byte("content"), 0o644); writeError != nil {
		testingHandle.Fatalf("write %s: %v", path, writeError)
	}
}

// TestScanExcludesIgnoredDirectories verifies that rule-matched directories and their contents never enter the tree.
func TestScanExcludesIgnoredDirectories(testingHandle *testing.T) {
	projectRoot := testingHandle.TempDir()
	writeTestFile(testingHandle, filepath.Join(projectRoot, "src", "a.py"))
	writeTestFile(testingHandle, filepath.Join(projectRoot, "src", "b.py"))
	writeTestFile(testingHandle, filepath.Join(projectRoot, "node_modules", "x.js"))
	writeTestFile(testingHandle, filepath.Join(projectRoot, ".git", "HEAD"))

	scanner := &Scanner{Rules: ignore.NewRuleSet([]string{"node_modules", ".git"})}
	rootNode, scanError := scanner.Scan(projectRoot)
	if scanError != nil {
		testingHandle.Fatalf("Scan error: %v", scanError)
	}

	if len(rootNode.Children) != 1 {
		testingHandle.Fatalf("expected 1 child under root, got %d", len(rootNode.Children))
	}
	sourceDirectory := rootNode.Children[0]
	if sourceDirectory.Name != "src" || !sourceDirectory.IsDirectory() {
		testingHandle.Fatalf("expected src directory, got %s (%s)", sourceDirectory.Name, sourceDirectory.Kind)
	}
	if len(sourceDirectory.Children) != 2 {
		testingHandle.Fatalf("expected 2 files under src, got %d", len(sourceDirectory.Children))
	}
	if sourceDirectory.Children[0].Name != "a.py" || sourceDirectory.Children[1].Name != "b.py" {
		testingHandle.Fatalf("unexpected src children: %s, %s", sourceDirectory.Children[0].Name, sourceDirectory.Children[1].Name)
	}
}

// TestScanOrdersDirectoriesBeforeFiles verifies directory-first, case-insensitive ordering.
func TestScanOrdersDirectoriesBeforeFiles(testingHandle *testing.T) {
	projectRoot := testingHandle.TempDir()
	writeTestFile(testingHandle, filepath.Join(projectRoot, "zeta.txt"))
	writeTestFile(testingHandle, filepath.Join(projectRoot, "Alpha.txt"))
	writeTestFile(testingHandle, filepath.Join(projectRoot, "lib", "code.go"))
	writeTestFile(testingHandle, filepath.Join(projectRoot, "API", "notes.md"))

	scanner := &Scanner{Rules: ignore.NewRuleSet(nil)}
	rootNode, scanError := scanner.Scan(projectRoot)
	if scanError != nil {
		testingHandle.Fatalf("Scan error: %v", scanError)
	}

	expectedOrder := []string{"API", "lib", "Alpha.txt", "zeta.txt"}
	if len(rootNode.Children) != len(expectedOrder) {
		testingHandle.Fatalf("expected %d children, got %d", len(expectedOrder), len(rootNode.Children))
	}
	for index, expectedName := range expectedOrder {
		if rootNode.Children[index].Name != expectedName {
			testingHandle.Errorf("child %d: expected %s, got %s", index, expectedName, rootNode.Children[index].Name)
		}
	}
}

// TestScanSkipsHiddenFilesButNotHiddenDirectories verifies that dot-prefixed files are omitted while dot-prefixed directories are scanned.
func TestScanSkipsHiddenFilesButNotHiddenDirectories(testingHandle *testing.T) {
	projectRoot := testingHandle.TempDir()
	writeTestFile(testingHandle, filepath.Join(projectRoot, ".env.local"))
	writeTestFile(testingHandle, filepath.Join(projectRoot, ".github", "workflow.yml"))
	writeTestFile(testingHandle, filepath.Join(projectRoot, "main.go"))

	scanner := &Scanner{Rules: ignore.NewRuleSet(nil)}
	rootNode, scanError := scanner.Scan(projectRoot)
	if scanError != nil {
		testingHandle.Fatalf("Scan error: %v", scanError)
	}

	if len(rootNode.Children) != 2 {
		testingHandle.Fatalf("expected 2 children, got %d", len(rootNode.Children))
	}
	if rootNode.Children[0].Name != ".github" || !rootNode.Children[0].IsDirectory() {
		testingHandle.Errorf("expected .github directory first, got %s", rootNode.Children[0].Name)
	}
	if rootNode.Children[1].Name != "main.go" {
		testingHandle.Errorf("expected main.go, got %s", rootNode.Children[1].Name)
	}
}

// TestScanRejectsMissingRoot verifies that scanning a nonexistent root fails.
func TestScanRejectsMissingRoot(testingHandle *testing.T) {
	scanner := &Scanner{Rules: ignore.NewRuleSet(nil)}
	missingRoot := filepath.Join(testingHandle.TempDir(), "does-not-exist")
	if _, scanError := scanner.Scan(missingRoot); scanError == nil {
		testingHandle.Fatalf("expected error for missing project root")
	}
}

// TestScanRejectsFileRoot verifies that scanning a regular file as the root fails.
func TestScanRejectsFileRoot(testingHandle *testing.T) {
	projectRoot := testingHandle.TempDir()
	filePath := filepath.Join(projectRoot, "plain.txt")
	writeTestFile(testingHandle, filePath)

	scanner := &Scanner{Rules: ignore.NewRuleSet(nil)}
	if _, scanError := scanner.Scan(filePath); scanError == nil {
		testingHandle.Fatalf("expected error when the root is a regular file")
	}
}

// TestCountEntries verifies directory and file counting over a nested tree.
func TestCountEntries(testingHandle *testing.T) {
	rootNode := &types.TreeNode{
		Name: "project",
		Kind: types.NodeKindDirectory,
		Children: []*types.TreeNode{
			{
				Name: "src",
				Kind: types.NodeKindDirectory,
				Children: []*types.TreeNode{
					{Name: "a.py", Kind: types.NodeKindFile},
					{Name: "b.py", Kind: types.NodeKindFile},
				},
			},
			{Name: "README.md", Kind: types.NodeKindFile},
		},
	}
	totalDirectories, totalFiles := rootNode.CountEntries()
	if totalDirectories != 1 || totalFiles != 3 {
		testingHandle.Fatalf("expected 1 directory and 3 files, got %d and %d", totalDirectories, totalFiles)
	}
}
