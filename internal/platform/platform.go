package platform

import (
	"runtime"
	"strings"

	"ulbuild/internal/sdkerr"
)

// Platform identifies one of the operating systems the SDK is published for.
type Platform int

const (
	Windows Platform = iota + 1
	Linux
	MacOS
)

// All lists every supported platform.
func All() []Platform {
	return []Platform{Windows, Linux, MacOS}
}

func (p Platform) String() string {
	switch p {
	case Windows:
		return "windows"
	case Linux:
		return "linux"
	case MacOS:
		return "macos"
	default:
		return "unknown"
	}
}

// Token is the platform segment used in SDK archive names.
func (p Platform) Token() string {
	switch p {
	case Windows:
		return "win"
	case Linux:
		return "linux"
	case MacOS:
		return "mac"
	default:
		return ""
	}
}

// SharedLibraryName returns the on-disk name of a shared library for p.
func (p Platform) SharedLibraryName(base string) string {
	switch p {
	case Windows:
		return base + ".dll"
	case MacOS:
		return "lib" + base + ".dylib"
	default:
		return "lib" + base + ".so"
	}
}

// ImportLibraryName returns the linker stub name for base. Only Windows ships
// import libraries.
func (p Platform) ImportLibraryName(base string) string {
	return base + ".lib"
}

// HasImportLibraries reports whether the SDK package for p contains lib/.
func (p Platform) HasImportLibraries() bool {
	return p == Windows
}

// Parse maps a user-supplied platform name onto a Platform.
func Parse(value string) (Platform, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "windows", "win":
		return Windows, nil
	case "linux":
		return Linux, nil
	case "macos", "mac", "darwin", "osx":
		return MacOS, nil
	default:
		return 0, sdkerr.Unsupported(value)
	}
}

// FromGOOS infers the platform from a Go target OS name.
func FromGOOS(goos string) (Platform, error) {
	switch goos {
	case "windows":
		return Windows, nil
	case "linux":
		return Linux, nil
	case "darwin":
		return MacOS, nil
	default:
		return 0, sdkerr.Unsupported(goos)
	}
}

// Resolve returns the explicit platform when one is given, otherwise the
// platform of goos. An empty goos means the running host.
func Resolve(explicit, goos string) (Platform, error) {
	if strings.TrimSpace(explicit) != "" {
		return Parse(explicit)
	}
	if goos == "" {
		goos = runtime.GOOS
	}
	return FromGOOS(goos)
}

// MarshalText encodes p by name.
func (p Platform) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText accepts any spelling Parse accepts.
func (p *Platform) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
