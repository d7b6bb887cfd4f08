package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/mazeincoding/twiggy/internal/types"
	"github.com/mazeincoding/twiggy/internal/utils"
)

const configurationFileHeader = `# twiggy project configuration.
# Edit this file to customize scanning; see README for all options.
`

// InitOptions controls how configuration initialization behaves.
type InitOptions struct {
	WorkingDirectory string
	Force            bool
}

// InitializeConfiguration writes the default twiggy.yaml into the working
// directory and returns its path. An existing file is preserved unless Force
// is set.
func InitializeConfiguration(options InitOptions) (string, error) {
	workingDirectory := options.WorkingDirectory
	if workingDirectory == "" {
		currentDirectory, workingDirectoryError := os.Getwd()
		if workingDirectoryError != nil {
			return "", fmt.Errorf("determine working directory for configuration: %w", workingDirectoryError)
		}
		workingDirectory = currentDirectory
	}
	destinationPath := filepath.Join(workingDirectory, utils.ConfigFileName)

	if _, statError := os.Stat(destinationPath); statError == nil {
		if !options.Force {
			return "", fmt.Errorf("configuration file already exists at %s", destinationPath)
		}
	} else if !os.IsNotExist(statError) {
		return "", fmt.Errorf("inspect configuration path %s: %w", destinationPath, statError)
	}

	defaults := DefaultSettings()
	if defaults.Ignores == nil {
		defaults.Ignores = []string{}
	}
	encodedSettings, marshalError := yaml.Marshal(defaults)
	if marshalError != nil {
		return "", fmt.Errorf("encode default configuration: %w", marshalError)
	}

	content := append([]byte(configurationFileHeader), encodedSettings...)
	if writeError := os.WriteFile(destinationPath, content, 0o600); writeError != nil {
		return "", fmt.Errorf("write configuration to %s: %w", destinationPath, writeError)
	}

	return destinationPath, nil
}

// EnsureRulesDirectory creates the Cursor rules directory under the project
// root if it does not already exist.
func EnsureRulesDirectory(projectRoot string) (string, error) {
	rulesDirectoryPath := filepath.Join(projectRoot, filepath.FromSlash(types.RulesDirectoryRelativePath))
	if mkdirError := os.MkdirAll(rulesDirectoryPath, 0o755); mkdirError != nil {
		return "", fmt.Errorf("create rules directory %s: %w", rulesDirectoryPath, mkdirError)
	}
	return rulesDirectoryPath, nil
}
