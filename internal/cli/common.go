// Package cli holds the small set of helpers shared by the minikernel
// binary's entry point: version reporting, flag validation, and
// consistent error exits.
package cli

import (
	"fmt"
	"os"
	"runtime"

	"github.com/Masterminds/semver/v3"
)

// EngineRevision is the internal policy-table revision this build
// implements. -version prints it and, when -version-constraint is also
// given, checks it against that semver constraint (see CheckCompatibility).
const EngineRevision = "1.0.0"

// VersionInfo is the structured payload printed by -version.
type VersionInfo struct {
	Revision  string
	GoVersion string
	Platform  string
	Arch      string
}

// GetVersionInfo returns the current build's version information.
func GetVersionInfo() *VersionInfo {
	return &VersionInfo{
		Revision:  EngineRevision,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
}

// PrintVersion writes version information for toolName to stdout.
func PrintVersion(toolName string) {
	info := GetVersionInfo()
	fmt.Printf("%s v%s\n", toolName, info.Revision)
	fmt.Printf("Go Version: %s\n", info.GoVersion)
	fmt.Printf("Platform: %s/%s\n", info.Platform, info.Arch)
}

// CheckCompatibility reports whether EngineRevision satisfies the given
// semver constraint string (e.g. ">= 1.0.0, < 2.0.0"), so a future
// workload format bump can declare the minimum engine version it needs.
func CheckCompatibility(constraint string) error {
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return fmt.Errorf("invalid version constraint %q: %w", constraint, err)
	}
	v, err := semver.NewVersion(EngineRevision)
	if err != nil {
		return fmt.Errorf("invalid engine revision %q: %w", EngineRevision, err)
	}
	if !c.Check(v) {
		return fmt.Errorf("engine revision %s does not satisfy constraint %q", EngineRevision, constraint)
	}
	return nil
}

// ExitWithError prints an error message to stderr and exits with code 1.
func ExitWithError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

// ValidateArgs checks that args has at least minArgs positional values.
func ValidateArgs(args []string, minArgs int, usage string) error {
	if len(args) < minArgs {
		return fmt.Errorf("insufficient arguments\nUsage: %s", usage)
	}
	return nil
}
