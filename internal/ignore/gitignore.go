package ignore

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mazeincoding/twiggy/internal/utils"
)

const (
	commentPrefix  = "#"
	negationPrefix = "!"
)

// LoadGitIgnorePatterns reads the .gitignore file in the provided directory
// and returns its patterns. A missing file yields no patterns and no error.
// Comment lines, blank lines, and negation patterns are skipped; anchored
// patterns lose their leading slash so they evaluate relative to the root.
func LoadGitIgnorePatterns(directoryPath string) ([]string, error) {
	gitIgnoreFilePath := filepath.Join(directoryPath, utils.GitIgnoreFileName)
	fileHandle, openFileError := os.Open(gitIgnoreFilePath)
	if openFileError != nil {
		if os.IsNotExist(openFileError) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening %s: %w", gitIgnoreFilePath, openFileError)
	}
	defer func() {
		closeError := fileHandle.Close()
		if closeError != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to close %s: %v\n", gitIgnoreFilePath, closeError)
		}
	}()

	var patterns []string
	scanner := bufio.NewScanner(fileHandle)
	for scanner.Scan() {
		trimmedLine := strings.TrimSpace(scanner.Text())
		if trimmedLine == "" || strings.HasPrefix(trimmedLine, commentPrefix) {
			continue
		}
		if strings.HasPrefix(trimmedLine, negationPrefix) {
			continue
		}
		patterns = append(patterns, strings.TrimPrefix(trimmedLine, pathSegmentSeparator))
	}
	if scanError := scanner.Err(); scanError != nil {
		return nil, fmt.Errorf("reading %s: %w", gitIgnoreFilePath, scanError)
	}
	return utils.DeduplicatePatterns(patterns), nil
}
