// Package types defines every cross-package data structure used by the twiggy CLI.
package types

const (
	NodeKindFile      = "file"
	NodeKindDirectory = "directory"

	FormatTree = "tree"
	FormatXML  = "xml"

	// DestinationRelativePath is the project-relative path of the generated
	// rules file. The tool owns this file exclusively.
	DestinationRelativePath = ".cursor/rules/file-structure.mdc"

	// RulesDirectoryRelativePath is the project-relative directory holding
	// Cursor rule files.
	RulesDirectoryRelativePath = ".cursor/rules"

	// CursorDirectoryName is the directory Cursor keeps its metadata in. It is
	// always excluded from scanning and watching so self-writes never feed
	// back into a pass.
	CursorDirectoryName = ".cursor"
)

// TreeNode represents one file or directory discovered by a scan. Nodes are
// rebuilt wholesale on every scan; they carry no identity across scans.
type TreeNode struct {
	// Name is the base name of the entry.
	Name string
	// Path is the slash-separated path relative to the project root.
	Path string
	// Kind is NodeKindFile or NodeKindDirectory.
	Kind string
	// Children holds ordered child nodes; only directories have children.
	Children []*TreeNode
}

// IsDirectory reports whether the node represents a directory.
func (node *TreeNode) IsDirectory() bool {
	return node.Kind == NodeKindDirectory
}

// CountEntries returns the number of directories and files in the subtree
// rooted at the node, excluding the node itself.
func (node *TreeNode) CountEntries() (int, int) {
	var totalDirectories int
	var totalFiles int
	for _, child := range node.Children {
		if child == nil {
			continue
		}
		if child.IsDirectory() {
			totalDirectories++
			childDirectories, childFiles := child.CountEntries()
			totalDirectories += childDirectories
			totalFiles += childFiles
		} else {
			totalFiles++
		}
	}
	return totalDirectories, totalFiles
}

// IsSupportedFormat reports whether the provided render format is recognized.
func IsSupportedFormat(format string) bool {
	switch format {
	case FormatTree, FormatXML:
		return true
	default:
		return false
	}
}
