package utils

import "runtime/debug"

const unknownVersion = "unknown"

// GetApplicationVersion reports the version twiggy was built at. Module-aware
// builds carry the version in the embedded build info; development builds
// report it as unknown.
func GetApplicationVersion() string {
	buildInfo, buildInfoAvailable := debug.ReadBuildInfo()
	if !buildInfoAvailable {
		return unknownVersion
	}
	if buildInfo.Main.Version == "" || buildInfo.Main.Version == "(devel)" {
		return unknownVersion
	}
	return buildInfo.Main.Version
}
