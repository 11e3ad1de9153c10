// Package version reports the build version of vtable.
package version

import "runtime/debug"

// Set at build time with -ldflags "-X github.com/rshade/vtable/pkg/version.version=v1.2.3".
//
//nolint:gochecknoglobals // Populated by the linker
var version = ""

// GetVersion returns the linker-provided version, the module version when
// installed with go install, or "dev".
func GetVersion() string {
	if version != "" {
		return version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return "dev"
}
