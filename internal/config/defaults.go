package config

// defaultIgnorePatterns lists directory and file names that are excluded from
// every scan regardless of user configuration. The list covers dependency
// caches, build output, version-control metadata, IDE state, and OS noise
// across the common toolchains.
var defaultIgnorePatterns = []string{
	// Node.js / JavaScript / TypeScript
	"node_modules",
	".next",
	".nuxt",
	"dist",
	"build",
	".output",
	".vercel",
	".netlify",
	"out",
	".cache",
	".parcel-cache",
	".webpack",
	"coverage",
	".nyc_output",
	".jest",

	// Python
	"__pycache__",
	".pytest_cache",
	".mypy_cache",
	".tox",
	"venv",
	"env",
	".venv",
	".env",
	"site-packages",
	".coverage",
	"htmlcov",
	"*.egg-info",
	".eggs",

	// Rust
	"target",
	"Cargo.lock",

	// Go
	"vendor",

	// Java / Kotlin / Scala
	".gradle",
	".idea",

	// C/C++
	"cmake-build-debug",
	"cmake-build-release",
	".vs",

	// Ruby
	".bundle",

	// General IDE/Editor
	".vscode",
	".vscode-test",

	// Version control
	".git",
	".svn",
	".hg",
	".bzr",

	// OS
	".DS_Store",
	"Thumbs.db",
	".Trash",

	// Logs and temp
	"logs",
	"log",
	"tmp",
	"temp",
	".tmp",
	".temp",

	// Documentation builds
	"_site",
	".docusaurus",

	// Mobile development
	"ios/build",
	"android/build",
	".expo",

	// Database
	"*.db",
	"*.sqlite",
	"*.sqlite3",

	// Docker
	".docker",

	// Cloud/Deploy
	".terraform",
	".serverless",

	// Package managers
	".yarn",
	".pnpm-store",
	".rush",

	// Testing
	".playwright",
	"cypress/videos",
	"cypress/screenshots",
	"test-results",

	// Misc
	".sass-cache",
	".eslintcache",
	".stylelintcache",
}

// DefaultIgnorePatterns returns a copy of the built-in ignore pattern list.
func DefaultIgnorePatterns() []string {
	copied := make([]string, len(defaultIgnorePatterns))
	copy(copied, defaultIgnorePatterns)
	return copied
}
