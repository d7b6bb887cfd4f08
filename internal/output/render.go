// Package output renders the scanned tree into the rules document and writes
// it to disk.
package output

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/mazeincoding/twiggy/internal/types"
)

const (
	// MarkerBegin and MarkerEnd delimit the generated region of the rules
	// file. Content outside the markers is never touched by the writer.
	MarkerBegin = "<!-- twiggy:begin -->"
	MarkerEnd   = "<!-- twiggy:end -->"

	treeBranchConnector = "├── "
	treeLastConnector   = "└── "
	treeBranchPadding   = "│   "
	treeLastPadding     = "    "

	directorySuffix = "/"

	indentPrefix = ""
	indentSpacer = "  "

	xmlStructureElement = "structure"
	xmlDirectoryElement = "directory"
	xmlFileElement      = "file"
	xmlNameAttribute    = "name"
	xmlProjectAttribute = "project"

	invalidFormatMessage = "unsupported render format %q"

	documentHeaderFormat = `---
description: Auto-generated map of the project file structure
alwaysApply: true
---

# File Structure: %s

`
)

// RenderDocument produces the full rules document for a scanned tree: the
// .mdc frontmatter, a heading naming the project, and the serialized
// structure between the begin/end markers. Identical trees always render to
// byte-identical documents.
func RenderDocument(rootNode *types.TreeNode, format string) (string, error) {
	structure, renderError := RenderStructure(rootNode, format)
	if renderError != nil {
		return "", renderError
	}

	var buffer bytes.Buffer
	fmt.Fprintf(&buffer, documentHeaderFormat, rootNode.Name)
	buffer.WriteString(MarkerBegin + "\n")
	buffer.WriteString(structure)
	buffer.WriteString(MarkerEnd + "\n")
	return buffer.String(), nil
}

// RenderStructure serializes the tree in the requested format. The result
// always ends with a newline.
func RenderStructure(rootNode *types.TreeNode, format string) (string, error) {
	switch format {
	case types.FormatTree:
		return renderTree(rootNode), nil
	case types.FormatXML:
		return renderXML(rootNode)
	default:
		return "", fmt.Errorf(invalidFormatMessage, format)
	}
}

// renderTree produces the indented outline representation. Directories carry
// a trailing slash to distinguish them from files.
func renderTree(rootNode *types.TreeNode) string {
	var buffer bytes.Buffer
	buffer.WriteString(rootNode.Name + directorySuffix + "\n")
	renderTreeChildren(&buffer, rootNode.Children, "")
	return buffer.String()
}

func renderTreeChildren(buffer *bytes.Buffer, children []*types.TreeNode, prefix string) {
	for index, child := range children {
		if child == nil {
			continue
		}
		isLastChild := index == len(children)-1
		connector := treeBranchConnector
		childPrefix := prefix + treeBranchPadding
		if isLastChild {
			connector = treeLastConnector
			childPrefix = prefix + treeLastPadding
		}
		if child.IsDirectory() {
			buffer.WriteString(prefix + connector + child.Name + directorySuffix + "\n")
			renderTreeChildren(buffer, child.Children, childPrefix)
		} else {
			buffer.WriteString(prefix + connector + child.Name + "\n")
		}
	}
}

// renderXML produces the XML representation using an explicit token stream so
// directory and file children keep their scanned order.
func renderXML(rootNode *types.TreeNode) (string, error) {
	var buffer bytes.Buffer
	encoder := xml.NewEncoder(&buffer)
	encoder.Indent(indentPrefix, indentSpacer)

	structureStart := xml.StartElement{
		Name: xml.Name{Local: xmlStructureElement},
		Attr: []xml.Attr{{Name: xml.Name{Local: xmlProjectAttribute}, Value: rootNode.Name}},
	}
	if tokenError := encoder.EncodeToken(structureStart); tokenError != nil {
		return "", tokenError
	}
	for _, child := range rootNode.Children {
		if tokenError := encodeXMLNode(encoder, child); tokenError != nil {
			return "", tokenError
		}
	}
	if tokenError := encoder.EncodeToken(structureStart.End()); tokenError != nil {
		return "", tokenError
	}
	if flushError := encoder.Flush(); flushError != nil {
		return "", flushError
	}
	buffer.WriteString("\n")
	return buffer.String(), nil
}

func encodeXMLNode(encoder *xml.Encoder, node *types.TreeNode) error {
	if node == nil {
		return nil
	}
	elementName := xmlFileElement
	if node.IsDirectory() {
		elementName = xmlDirectoryElement
	}
	elementStart := xml.StartElement{
		Name: xml.Name{Local: elementName},
		Attr: []xml.Attr{{Name: xml.Name{Local: xmlNameAttribute}, Value: node.Name}},
	}
	if tokenError := encoder.EncodeToken(elementStart); tokenError != nil {
		return tokenError
	}
	for _, child := range node.Children {
		if childError := encodeXMLNode(encoder, child); childError != nil {
			return childError
		}
	}
	return encoder.EncodeToken(elementStart.End())
}
