package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mazeincoding/twiggy/internal/types"
	"github.com/mazeincoding/twiggy/internal/utils"
)

const gitIgnoreEntryComment = "# Twiggy"

// EnsureGitIgnoreEntry adds the generated rules file to the project's
// .gitignore, creating the file when absent. It reports whether the entry was
// added by this call.
func EnsureGitIgnoreEntry(projectRoot string) (bool, error) {
	gitIgnoreFilePath := filepath.Join(projectRoot, utils.GitIgnoreFileName)
	entry := types.DestinationRelativePath

	existingContent, readError := os.ReadFile(gitIgnoreFilePath)
	if readError != nil {
		if !os.IsNotExist(readError) {
			return false, fmt.Errorf("reading %s: %w", gitIgnoreFilePath, readError)
		}
		initialContent := gitIgnoreEntryComment + "\n" + entry + "\n"
		if writeError := os.WriteFile(gitIgnoreFilePath, []byte(initialContent), 0o644); writeError != nil {
			return false, fmt.Errorf("creating %s: %w", gitIgnoreFilePath, writeError)
		}
		return true, nil
	}

	for _, line := range strings.Split(string(existingContent), "\n") {
		if strings.TrimSpace(line) == entry {
			return false, nil
		}
	}

	appendedContent := string(existingContent)
	if appendedContent != "" && !strings.HasSuffix(appendedContent, "\n") {
		appendedContent += "\n"
	}
	appendedContent += "\n" + gitIgnoreEntryComment + "\n" + entry + "\n"
	if writeError := os.WriteFile(gitIgnoreFilePath, []byte(appendedContent), 0o644); writeError != nil {
		return false, fmt.Errorf("updating %s: %w", gitIgnoreFilePath, writeError)
	}
	return true, nil
}
