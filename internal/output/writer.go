package output

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	temporaryFilePattern = ".twiggy-*.tmp"

	errorMarkerOrderFormat = "destination %s has end marker before begin marker"
)

// WriteDocument writes the rendered document to the destination path,
// creating parent directories as needed. When the destination already
// contains both markers, only the region between them is replaced and every
// other byte is preserved verbatim. The replacement is atomic: content is
// written to a temporary file in the destination directory and renamed into
// place, so a partially written file is never observable. It reports whether
// the destination changed.
func WriteDocument(destinationPath string, renderedDocument string) (bool, error) {
	destinationDirectory := filepath.Dir(destinationPath)
	if mkdirError := os.MkdirAll(destinationDirectory, 0o755); mkdirError != nil {
		return false, fmt.Errorf("create destination directory %s: %w", destinationDirectory, mkdirError)
	}

	finalContent := renderedDocument
	existingContent, readError := os.ReadFile(destinationPath)
	if readError == nil {
		splicedContent, spliceError := spliceMarkedRegion(destinationPath, string(existingContent), renderedDocument)
		if spliceError != nil {
			return false, spliceError
		}
		finalContent = splicedContent
		if finalContent == string(existingContent) {
			return false, nil
		}
	} else if !os.IsNotExist(readError) {
		return false, fmt.Errorf("read destination %s: %w", destinationPath, readError)
	}

	if replaceError := replaceFileAtomically(destinationPath, destinationDirectory, finalContent); replaceError != nil {
		return false, replaceError
	}
	return true, nil
}

// spliceMarkedRegion merges the freshly rendered document into existing file
// content. If the existing content carries both markers, the region between
// them is swapped for the newly generated region; otherwise the rendered
// document replaces the file wholesale.
func spliceMarkedRegion(destinationPath string, existingContent string, renderedDocument string) (string, error) {
	existingBegin := strings.Index(existingContent, MarkerBegin)
	existingEnd := strings.Index(existingContent, MarkerEnd)
	if existingBegin < 0 || existingEnd < 0 {
		return renderedDocument, nil
	}
	if existingEnd < existingBegin {
		return "", fmt.Errorf(errorMarkerOrderFormat, destinationPath)
	}

	generatedRegion, extractError := extractMarkedRegion(renderedDocument)
	if extractError != nil {
		return "", extractError
	}

	var buffer bytes.Buffer
	buffer.WriteString(existingContent[:existingBegin])
	buffer.WriteString(generatedRegion)
	buffer.WriteString(existingContent[existingEnd+len(MarkerEnd):])
	return buffer.String(), nil
}

// extractMarkedRegion returns the marker-delimited region of a rendered
// document, markers included.
func extractMarkedRegion(renderedDocument string) (string, error) {
	beginIndex := strings.Index(renderedDocument, MarkerBegin)
	endIndex := strings.Index(renderedDocument, MarkerEnd)
	if beginIndex < 0 || endIndex < 0 || endIndex < beginIndex {
		return "", fmt.Errorf("rendered document is missing structure markers")
	}
	return renderedDocument[beginIndex : endIndex+len(MarkerEnd)], nil
}

// replaceFileAtomically writes content to a temporary file in the destination
// directory and renames it over the destination.
func replaceFileAtomically(destinationPath string, destinationDirectory string, content string) error {
	temporaryFile, createError := os.CreateTemp(destinationDirectory, temporaryFilePattern)
	if createError != nil {
		return fmt.Errorf("create temporary file in %s: %w", destinationDirectory, createError)
	}
	temporaryPath := temporaryFile.Name()

	_, writeError := temporaryFile.WriteString(content)
	closeError := temporaryFile.Close()
	if writeError != nil {
		os.Remove(temporaryPath)
		return fmt.Errorf("write temporary file %s: %w", temporaryPath, writeError)
	}
	if closeError != nil {
		os.Remove(temporaryPath)
		return fmt.Errorf("close temporary file %s: %w", temporaryPath, closeError)
	}
	if chmodError := os.Chmod(temporaryPath, 0o644); chmodError != nil {
		os.Remove(temporaryPath)
		return fmt.Errorf("set permissions on %s: %w", temporaryPath, chmodError)
	}
	if renameError := os.Rename(temporaryPath, destinationPath); renameError != nil {
		os.Remove(temporaryPath)
		return fmt.Errorf("replace %s: %w", destinationPath, renameError)
	}
	return nil
}
