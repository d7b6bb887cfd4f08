package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mazeincoding/twiggy/internal/types"
	"github.com/mazeincoding/twiggy/internal/utils"
)

// TestDefaultSettings verifies the compiled-in configuration defaults.
func TestDefaultSettings(testingHandle *testing.T) {
	defaults := DefaultSettings()
	if defaults.Format != types.FormatTree {
		testingHandle.Errorf("expected default format %q, got %q", types.FormatTree, defaults.Format)
	}
	if defaults.Debounce() != 500*time.Millisecond {
		testingHandle.Errorf("expected 500ms default debounce, got %v", defaults.Debounce())
	}
	if defaults.RescanInterval() != 0 {
		testingHandle.Errorf("expected periodic rescan disabled by default, got %v", defaults.RescanInterval())
	}
	if !defaults.GitignoreEnabled() {
		testingHandle.Errorf("expected gitignore integration enabled by default")
	}
	if defaults.TokensEnabled() {
		testingHandle.Errorf("expected token counting disabled by default")
	}
	if defaults.Tokens.Model != "gpt-4o" {
		testingHandle.Errorf("unexpected default tokenizer model %q", defaults.Tokens.Model)
	}
}

// TestLoadSettingsMissingFileReturnsDefaults verifies that a project without twiggy.yaml loads the defaults.
func TestLoadSettingsMissingFileReturnsDefaults(testingHandle *testing.T) {
	settings, loadError := LoadSettings(LoadOptions{WorkingDirectory: testingHandle.TempDir()})
	if loadError != nil {
		testingHandle.Fatalf("LoadSettings error: %v", loadError)
	}
	defaults := DefaultSettings()
	if settings.Format != defaults.Format || settings.DebounceMillis != defaults.DebounceMillis {
		testingHandle.Fatalf("expected defaults for a project without configuration, got %+v", settings)
	}
}

// TestLoadSettingsOverlaysFileOntoDefaults verifies that configured values override defaults and ignores are deduplicated.
func TestLoadSettingsOverlaysFileOntoDefaults(testingHandle *testing.T) {
	workingDirectory := testingHandle.TempDir()
	configurationContent := `format: xml
debounce_ms: 750
use_gitignore: false
ignores:
  - tmp
  - tmp
  - generated
tokens:
  enabled: true
  model: gpt-4
`
	configurationPath := filepath.Join(workingDirectory, utils.ConfigFileName)
	if writeError := os.WriteFile(configurationPath, []byte(configurationContent), 0o600); writeError != nil {
		testingHandle.Fatalf("write configuration: %v", writeError)
	}

	settings, loadError := LoadSettings(LoadOptions{WorkingDirectory: workingDirectory})
	if loadError != nil {
		testingHandle.Fatalf("LoadSettings error: %v", loadError)
	}
	if settings.Format != types.FormatXML {
		testingHandle.Errorf("expected xml format, got %q", settings.Format)
	}
	if settings.Debounce() != 750*time.Millisecond {
		testingHandle.Errorf("expected 750ms debounce, got %v", settings.Debounce())
	}
	if settings.GitignoreEnabled() {
		testingHandle.Errorf("expected gitignore integration disabled")
	}
	if len(settings.Ignores) != 2 || settings.Ignores[0] != "tmp" || settings.Ignores[1] != "generated" {
		testingHandle.Errorf("expected deduplicated ignores [tmp generated], got %v", settings.Ignores)
	}
	if !settings.TokensEnabled() || settings.Tokens.Model != "gpt-4" {
		testingHandle.Errorf("unexpected token settings: %+v", settings.Tokens)
	}
}

// TestLoadSettingsRejectsMalformedFile verifies that unparseable configuration fails the load.
func TestLoadSettingsRejectsMalformedFile(testingHandle *testing.T) {
	workingDirectory := testingHandle.TempDir()
	configurationPath := filepath.Join(workingDirectory, utils.ConfigFileName)
	if writeError := os.WriteFile(configurationPath, []byte("format: [unclosed"), 0o600); writeError != nil {
		testingHandle.Fatalf("write configuration: %v", writeError)
	}
	if _, loadError := LoadSettings(LoadOptions{WorkingDirectory: workingDirectory}); loadError == nil {
		testingHandle.Fatalf("expected error for malformed configuration")
	}
}

// TestMergePreservesDefaultsForZeroValues verifies that an empty override leaves every default in place.
func TestMergePreservesDefaultsForZeroValues(testingHandle *testing.T) {
	merged := DefaultSettings().Merge(Settings{})
	defaults := DefaultSettings()
	if merged.Format != defaults.Format {
		testingHandle.Errorf("empty override changed format to %q", merged.Format)
	}
	if merged.DebounceMillis != defaults.DebounceMillis {
		testingHandle.Errorf("empty override changed debounce to %d", merged.DebounceMillis)
	}
	if !merged.GitignoreEnabled() {
		testingHandle.Errorf("empty override changed gitignore setting")
	}
	if merged.Tokens.Model != defaults.Tokens.Model {
		testingHandle.Errorf("empty override changed tokenizer model to %q", merged.Tokens.Model)
	}
}

// TestBuildRuleSetCombinesAllSources verifies that defaults, configured ignores, .gitignore patterns, and flags all apply.
func TestBuildRuleSetCombinesAllSources(testingHandle *testing.T) {
	projectRoot := testingHandle.TempDir()
	gitIgnoreContent := "artifacts/\n"
	if writeError := os.WriteFile(filepath.Join(projectRoot, utils.GitIgnoreFileName), []byte(gitIgnoreContent), 0o644); writeError != nil {
		testingHandle.Fatalf("write .gitignore: %v", writeError)
	}

	settings := DefaultSettings()
	settings.Ignores = []string{"generated"}
	ruleSet, buildError := BuildRuleSet(projectRoot, settings, []string{"scratch"})
	if buildError != nil {
		testingHandle.Fatalf("BuildRuleSet error: %v", buildError)
	}

	for _, excludedPath := range []string{"node_modules", "generated/file.go", "artifacts/report.html", "scratch"} {
		if !ruleSet.Matches(excludedPath) {
			testingHandle.Errorf("expected %q to be excluded", excludedPath)
		}
	}
	if ruleSet.Matches("src/main.go") {
		testingHandle.Errorf("expected src/main.go to be included")
	}
}

// TestBuildRuleSetSkipsGitignoreWhenDisabled verifies that .gitignore patterns are ignored when the integration is off.
func TestBuildRuleSetSkipsGitignoreWhenDisabled(testingHandle *testing.T) {
	projectRoot := testingHandle.TempDir()
	if writeError := os.WriteFile(filepath.Join(projectRoot, utils.GitIgnoreFileName), []byte("artifacts/\n"), 0o644); writeError != nil {
		testingHandle.Fatalf("write .gitignore: %v", writeError)
	}

	settings := DefaultSettings()
	gitignoreDisabled := false
	settings.UseGitignore = &gitignoreDisabled
	ruleSet, buildError := BuildRuleSet(projectRoot, settings, nil)
	if buildError != nil {
		testingHandle.Fatalf("BuildRuleSet error: %v", buildError)
	}
	if ruleSet.Matches("artifacts/report.html") {
		testingHandle.Errorf("expected artifacts to stay included when gitignore integration is off")
	}
}
