// Package platform identifies the operating system homelink is running on.
// The Brewfile and some links are authored for macOS first; other systems
// get best-effort filtered behavior.
package platform

import "runtime"

// OS represents a supported operating system.
type OS string

const (
	Darwin  OS = "darwin"
	Linux   OS = "linux"
	Unknown OS = "unknown"
)

// Detect returns the current operating system.
func Detect() OS {
	switch runtime.GOOS {
	case "darwin":
		return Darwin
	case "linux":
		return Linux
	default:
		return Unknown
	}
}

// IsDarwin returns true if running on macOS.
func IsDarwin() bool {
	return Detect() == Darwin
}

// IsPrimary reports whether the given OS is the primary authoring target.
func (o OS) IsPrimary(primary OS) bool {
	return o == primary
}

// String implements fmt.Stringer.
func (o OS) String() string {
	return string(o)
}
