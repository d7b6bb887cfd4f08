package commands

import (
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/mazeincoding/twiggy/internal/ignore"
	"github.com/mazeincoding/twiggy/internal/output"
	"github.com/mazeincoding/twiggy/internal/types"
)

// Pipeline runs one scan → render → write pass over a project. The same
// pipeline instance backs init, scan, and every watch-triggered regeneration.
type Pipeline struct {
	ProjectRoot string
	Rules       *ignore.RuleSet
	Format      string
	Logger      *zap.Logger
}

// PassResult describes one completed regeneration pass.
type PassResult struct {
	// Document is the full rendered document produced by the pass.
	Document string
	// DestinationPath is the absolute path of the written rules file.
	DestinationPath string
	// TotalDirectories and TotalFiles count the entries in the scanned tree.
	TotalDirectories int
	TotalFiles       int
	// Written is false when the destination already held identical content.
	Written bool
}

// RunPass scans the project root, renders the structure document, and writes
// it to the destination file.
func (pipeline *Pipeline) RunPass() (*PassResult, error) {
	scanner := &Scanner{Rules: pipeline.Rules, Logger: pipeline.Logger}
	rootNode, scanError := scanner.Scan(pipeline.ProjectRoot)
	if scanError != nil {
		return nil, scanError
	}

	renderedDocument, renderError := output.RenderDocument(rootNode, pipeline.Format)
	if renderError != nil {
		return nil, renderError
	}

	destinationPath := filepath.Join(pipeline.ProjectRoot, filepath.FromSlash(types.DestinationRelativePath))
	written, writeError := output.WriteDocument(destinationPath, renderedDocument)
	if writeError != nil {
		return nil, fmt.Errorf("writing structure to %s: %w", destinationPath, writeError)
	}

	totalDirectories, totalFiles := rootNode.CountEntries()
	return &PassResult{
		Document:         renderedDocument,
		DestinationPath:  destinationPath,
		TotalDirectories: totalDirectories,
		TotalFiles:       totalFiles,
		Written:          written,
	}, nil
}
