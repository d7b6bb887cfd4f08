// Package ignore decides which paths are excluded from scanning and watching.
package ignore

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/mazeincoding/twiggy/internal/types"
	"github.com/mazeincoding/twiggy/internal/utils"
)

const pathSegmentSeparator = "/"

// RuleSet is an immutable collection of ignore patterns. A pattern without a
// separator matches any path segment by name or glob; a pattern containing a
// separator matches the slash-normalized relative path. A trailing slash marks
// a directory pattern, which also excludes every descendant of the directory.
type RuleSet struct {
	patterns []string
}

// NewRuleSet builds a rule set from the provided patterns. Empty patterns are
// dropped and duplicates removed while preserving order.
func NewRuleSet(patterns []string) *RuleSet {
	cleanedPatterns := make([]string, 0, len(patterns))
	for _, pattern := range patterns {
		trimmedPattern := strings.TrimSpace(pattern)
		if trimmedPattern == "" {
			continue
		}
		cleanedPatterns = append(cleanedPatterns, trimmedPattern)
	}
	return &RuleSet{patterns: utils.DeduplicatePatterns(cleanedPatterns)}
}

// Patterns returns a copy of the patterns in the rule set.
func (ruleSet *RuleSet) Patterns() []string {
	copied := make([]string, len(ruleSet.patterns))
	copy(copied, ruleSet.patterns)
	return copied
}

// Matches reports whether a path relative to the project root is excluded.
// The Cursor metadata directory is always excluded so the generated rules file
// never appears in its own output and self-writes never re-trigger a pass.
func (ruleSet *RuleSet) Matches(relativePath string) bool {
	normalizedPath := strings.ReplaceAll(relativePath, "\\", pathSegmentSeparator)
	normalizedPath = strings.Trim(normalizedPath, pathSegmentSeparator)
	if normalizedPath == "" || normalizedPath == "." {
		return false
	}
	pathSegments := strings.Split(normalizedPath, pathSegmentSeparator)

	if pathSegments[0] == types.CursorDirectoryName {
		return true
	}

	for _, patternValue := range ruleSet.patterns {
		if matchesPattern(patternValue, normalizedPath, pathSegments) {
			return true
		}
	}
	return false
}

// matchesPattern evaluates a single pattern against the normalized path and
// its segments.
func matchesPattern(patternValue string, normalizedPath string, pathSegments []string) bool {
	normalizedPattern := strings.ReplaceAll(patternValue, "\\", pathSegmentSeparator)
	trimmedPattern := strings.TrimSuffix(normalizedPattern, pathSegmentSeparator)
	if trimmedPattern == "" {
		return false
	}

	if strings.Contains(trimmedPattern, pathSegmentSeparator) {
		if isMatched, matchError := doublestar.Match(trimmedPattern, normalizedPath); matchError == nil && isMatched {
			return true
		}
		// A path pattern also excludes everything beneath the matched directory.
		if isMatched, matchError := doublestar.Match(trimmedPattern+"/**", normalizedPath); matchError == nil && isMatched {
			return true
		}
		return false
	}

	for _, pathSegment := range pathSegments {
		if isMatched, matchError := doublestar.Match(trimmedPattern, pathSegment); matchError == nil && isMatched {
			return true
		}
	}
	return false
}
