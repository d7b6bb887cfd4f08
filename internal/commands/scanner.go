// Package commands contains the core logic behind each twiggy command.
package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/mazeincoding/twiggy/internal/ignore"
	"github.com/mazeincoding/twiggy/internal/types"
	"github.com/mazeincoding/twiggy/internal/utils"
)

const (
	// warningSkipSubdirFormat is used when a subdirectory cannot be processed.
	warningSkipSubdirFormat = "skipping subdirectory %s: %v"

	// errorAbsolutePathFormat is used when the absolute path cannot be determined.
	errorAbsolutePathFormat = "getting absolute path for %s: %w"

	// errorRootMissingFormat is used when the project root does not exist.
	errorRootMissingFormat = "project root %s does not exist"

	// errorRootNotDirectoryFormat is used when the project root is not a directory.
	errorRootNotDirectoryFormat = "project root %s is not a directory"

	// errorReadDirectoryFormat is used when a directory cannot be read.
	errorReadDirectoryFormat = "reading directory %s: %w"
)

// Scanner walks a project tree and produces its structural representation.
// Traversal is depth-first with directories listed before files; both groups
// are ordered case-insensitively so repeated scans of an unchanged tree are
// byte-identical after rendering.
type Scanner struct {
	Rules  *ignore.RuleSet
	Logger *zap.Logger
}

// Scan builds the tree for the given project root. Per-subtree read failures
// are logged and the subtree omitted; only an unusable root aborts the scan.
func (scanner *Scanner) Scan(rootDirectoryPath string) (*types.TreeNode, error) {
	absoluteRootPath, absolutePathError := filepath.Abs(rootDirectoryPath)
	if absolutePathError != nil {
		return nil, fmt.Errorf(errorAbsolutePathFormat, rootDirectoryPath, absolutePathError)
	}

	rootInformation, rootStatError := os.Stat(absoluteRootPath)
	if rootStatError != nil {
		if os.IsNotExist(rootStatError) {
			return nil, fmt.Errorf(errorRootMissingFormat, absoluteRootPath)
		}
		return nil, fmt.Errorf("stat project root %s: %w", absoluteRootPath, rootStatError)
	}
	if !rootInformation.IsDir() {
		return nil, fmt.Errorf(errorRootNotDirectoryFormat, absoluteRootPath)
	}

	rootNode := &types.TreeNode{
		Name: filepath.Base(absoluteRootPath),
		Path: ".",
		Kind: types.NodeKindDirectory,
	}

	children, buildError := scanner.buildTreeNodes(absoluteRootPath, absoluteRootPath)
	if buildError != nil {
		return nil, fmt.Errorf("building tree for %s: %w", absoluteRootPath, buildError)
	}
	rootNode.Children = children
	return rootNode, nil
}

// buildTreeNodes recursively builds child nodes for the directory tree.
func (scanner *Scanner) buildTreeNodes(currentDirectoryPath string, rootDirectoryPath string) ([]*types.TreeNode, error) {
	directoryEntries, readDirectoryError := os.ReadDir(currentDirectoryPath)
	if readDirectoryError != nil {
		return nil, fmt.Errorf(errorReadDirectoryFormat, currentDirectoryPath, readDirectoryError)
	}

	var directoryNodes []*types.TreeNode
	var fileNodes []*types.TreeNode

	for _, directoryEntry := range directoryEntries {
		childPath := filepath.Join(currentDirectoryPath, directoryEntry.Name())
		relativeChildPath := utils.RelativePathOrSelf(childPath, rootDirectoryPath)

		// Symlinked directories report IsDir false from ReadDir, so they are
		// listed as plain entries and never followed into cycles.
		if directoryEntry.IsDir() {
			if scanner.Rules.Matches(relativeChildPath) {
				continue
			}
			node := &types.TreeNode{
				Name: directoryEntry.Name(),
				Path: relativeChildPath,
				Kind: types.NodeKindDirectory,
			}
			childNodes, buildError := scanner.buildTreeNodes(childPath, rootDirectoryPath)
			if buildError != nil {
				scanner.logWarning(fmt.Sprintf(warningSkipSubdirFormat, childPath, buildError))
				node.Children = nil
			} else {
				node.Children = childNodes
			}
			directoryNodes = append(directoryNodes, node)
			continue
		}

		if utils.IsHiddenName(directoryEntry.Name()) {
			continue
		}
		if scanner.Rules.Matches(relativeChildPath) {
			continue
		}
		fileNodes = append(fileNodes, &types.TreeNode{
			Name: directoryEntry.Name(),
			Path: relativeChildPath,
			Kind: types.NodeKindFile,
		})
	}

	sortNodesByName(directoryNodes)
	sortNodesByName(fileNodes)
	return append(directoryNodes, fileNodes...), nil
}

// sortNodesByName orders nodes case-insensitively, falling back to a
// case-sensitive comparison so ordering stays total.
func sortNodesByName(nodes []*types.TreeNode) {
	sort.SliceStable(nodes, func(firstIndex, secondIndex int) bool {
		firstName := strings.ToLower(nodes[firstIndex].Name)
		secondName := strings.ToLower(nodes[secondIndex].Name)
		if firstName == secondName {
			return nodes[firstIndex].Name < nodes[secondIndex].Name
		}
		return firstName < secondName
	})
}

func (scanner *Scanner) logWarning(message string) {
	if scanner.Logger != nil {
		scanner.Logger.Warn(message)
		return
	}
	fmt.Fprintf(os.Stderr, "Warning: %s\n", message)
}
