// Package config loads, merges, and initializes twiggy project configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/mazeincoding/twiggy/internal/ignore"
	"github.com/mazeincoding/twiggy/internal/types"
	"github.com/mazeincoding/twiggy/internal/utils"
)

const (
	// defaultDebounceMillis is the quiet period after a filesystem event
	// before a regeneration pass runs.
	defaultDebounceMillis = 500
	// defaultRescanIntervalMillis disables the periodic full rescan.
	defaultRescanIntervalMillis = 0
	// defaultTokenizerModelName selects the tokenizer used for --tokens.
	defaultTokenizerModelName = "gpt-4o"
)

// LoadOptions controls how project configuration is discovered.
type LoadOptions struct {
	WorkingDirectory string
	ExplicitFilePath string
}

// Settings holds the project configuration read from twiggy.yaml.
type Settings struct {
	Format               string        `mapstructure:"format" yaml:"format"`
	DebounceMillis       int           `mapstructure:"debounce_ms" yaml:"debounce_ms"`
	RescanIntervalMillis int           `mapstructure:"rescan_interval_ms" yaml:"rescan_interval_ms"`
	UseGitignore         *bool         `mapstructure:"use_gitignore" yaml:"use_gitignore"`
	Ignores              []string      `mapstructure:"ignores" yaml:"ignores"`
	Tokens               TokenSettings `mapstructure:"tokens" yaml:"tokens"`
}

// TokenSettings controls token counting of the rendered document.
type TokenSettings struct {
	Enabled *bool  `mapstructure:"enabled" yaml:"enabled"`
	Model   string `mapstructure:"model" yaml:"model"`
}

// DefaultSettings returns the compiled-in configuration defaults.
func DefaultSettings() Settings {
	gitignoreEnabled := true
	tokensEnabled := false
	return Settings{
		Format:               types.FormatTree,
		DebounceMillis:       defaultDebounceMillis,
		RescanIntervalMillis: defaultRescanIntervalMillis,
		UseGitignore:         &gitignoreEnabled,
		Ignores:              nil,
		Tokens: TokenSettings{
			Enabled: &tokensEnabled,
			Model:   defaultTokenizerModelName,
		},
	}
}

// Debounce returns the configured debounce window as a duration.
func (settings Settings) Debounce() time.Duration {
	if settings.DebounceMillis <= 0 {
		return defaultDebounceMillis * time.Millisecond
	}
	return time.Duration(settings.DebounceMillis) * time.Millisecond
}

// RescanInterval returns the periodic rescan interval, or zero when disabled.
func (settings Settings) RescanInterval() time.Duration {
	if settings.RescanIntervalMillis <= 0 {
		return 0
	}
	return time.Duration(settings.RescanIntervalMillis) * time.Millisecond
}

// GitignoreEnabled reports whether .gitignore patterns feed the ignore set.
func (settings Settings) GitignoreEnabled() bool {
	return settings.UseGitignore == nil || *settings.UseGitignore
}

// TokensEnabled reports whether the rendered document should be token counted.
func (settings Settings) TokensEnabled() bool {
	return settings.Tokens.Enabled != nil && *settings.Tokens.Enabled
}

// LoadSettings reads twiggy.yaml from the working directory and overlays it
// onto the defaults. A missing configuration file is not an error.
func LoadSettings(options LoadOptions) (Settings, error) {
	workingDirectory := options.WorkingDirectory
	if workingDirectory == "" {
		currentDirectory, workingDirectoryError := os.Getwd()
		if workingDirectoryError != nil {
			return Settings{}, fmt.Errorf("determine working directory: %w", workingDirectoryError)
		}
		workingDirectory = currentDirectory
	}

	configurationPath := options.ExplicitFilePath
	if configurationPath == "" {
		configurationPath = filepath.Join(workingDirectory, utils.ConfigFileName)
	} else if !filepath.IsAbs(configurationPath) {
		configurationPath = filepath.Join(workingDirectory, configurationPath)
	}

	fileSettings, loadError := loadSettingsFromPath(configurationPath)
	if loadError != nil {
		return Settings{}, loadError
	}

	merged := DefaultSettings().Merge(fileSettings)
	merged.Ignores = utils.DeduplicatePatterns(merged.Ignores)
	return merged, nil
}

func loadSettingsFromPath(path string) (Settings, error) {
	fileInformation, statError := os.Stat(path)
	if statError != nil {
		if os.IsNotExist(statError) {
			return Settings{}, nil
		}
		return Settings{}, fmt.Errorf("stat configuration %s: %w", path, statError)
	}
	if fileInformation.IsDir() {
		return Settings{}, fmt.Errorf("configuration path %s is a directory", path)
	}

	reader := viper.New()
	reader.SetConfigFile(path)
	if readError := reader.ReadInConfig(); readError != nil {
		return Settings{}, fmt.Errorf("read configuration from %s: %w", path, readError)
	}
	var settings Settings
	if decodeError := reader.Unmarshal(&settings); decodeError != nil {
		return Settings{}, fmt.Errorf("decode configuration from %s: %w", path, decodeError)
	}
	return settings, nil
}

// Merge overlays override onto the receiver returning the combined settings.
func (settings Settings) Merge(override Settings) Settings {
	result := settings
	if override.Format != "" {
		result.Format = override.Format
	}
	if override.DebounceMillis > 0 {
		result.DebounceMillis = override.DebounceMillis
	}
	if override.RescanIntervalMillis > 0 {
		result.RescanIntervalMillis = override.RescanIntervalMillis
	}
	if override.UseGitignore != nil {
		result.UseGitignore = cloneBool(override.UseGitignore)
	}
	if len(override.Ignores) > 0 {
		result.Ignores = append([]string{}, utils.DeduplicatePatterns(override.Ignores)...)
	}
	result.Tokens = result.Tokens.merge(override.Tokens)
	return result
}

func (settings TokenSettings) merge(override TokenSettings) TokenSettings {
	result := settings
	if override.Enabled != nil {
		result.Enabled = cloneBool(override.Enabled)
	}
	if override.Model != "" {
		result.Model = override.Model
	}
	return result
}

func cloneBool(value *bool) *bool {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}

// BuildRuleSet assembles the ignore rule set for a project: built-in defaults,
// configured ignores, .gitignore patterns when enabled, and any extra
// command-line exclusions.
func BuildRuleSet(projectRoot string, settings Settings, extraExclusions []string) (*ignore.RuleSet, error) {
	combinedPatterns := DefaultIgnorePatterns()
	combinedPatterns = append(combinedPatterns, settings.Ignores...)

	if settings.GitignoreEnabled() {
		gitIgnorePatterns, loadError := ignore.LoadGitIgnorePatterns(projectRoot)
		if loadError != nil {
			return nil, fmt.Errorf("loading %s from %s: %w", utils.GitIgnoreFileName, projectRoot, loadError)
		}
		combinedPatterns = append(combinedPatterns, gitIgnorePatterns...)
	}

	combinedPatterns = append(combinedPatterns, extraExclusions...)
	return ignore.NewRuleSet(combinedPatterns), nil
}
