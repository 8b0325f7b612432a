package sdk

import (
	"fmt"
	"strings"

	"ulbuild/internal/platform"
)

// LatestVersion is the version token the CDN resolves to the newest SDK.
const LatestVersion = "latest"

// Category is a named subset of the SDK archive that callers opt into.
type Category int

const (
	Headers Category = iota
	Resources
	Binaries
	Libs
)

// Categories returns every category in materialization order.
func Categories() []Category {
	return []Category{Headers, Resources, Binaries, Libs}
}

func (c Category) String() string {
	switch c {
	case Headers:
		return "headers"
	case Resources:
		return "resources"
	case Binaries:
		return "binaries"
	case Libs:
		return "libs"
	default:
		return fmt.Sprintf("category(%d)", int(c))
	}
}

// ParseCategory maps a category name onto a Category.
func ParseCategory(name string) (Category, error) {
	for _, c := range Categories() {
		if strings.EqualFold(strings.TrimSpace(name), c.String()) {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown category: %s", name)
}

// ArchiveDir is the folder inside the SDK archive holding c's files.
func (c Category) ArchiveDir() string {
	switch c {
	case Headers:
		return "include"
	case Resources:
		return "resources"
	case Binaries:
		return "bin"
	case Libs:
		return "lib"
	default:
		return ""
	}
}

// DefaultDirName is the subfolder of the output root used when no override
// is configured.
func (c Category) DefaultDirName() string {
	return c.String()
}

// AppliesTo reports whether the SDK package for p ships c at all.
func (c Category) AppliesTo(p platform.Platform) bool {
	if c == Libs {
		return p.HasImportLibraries()
	}
	return true
}

// LinkLibraries are the libraries every consumer links against.
var LinkLibraries = []string{"Ultralight", "UltralightCore", "WebCore", "AppCore"}

var headerFiles = []string{
	"AppCore/CAPI.h",
	"Ultralight/CAPI.h",
	"Ultralight/CAPI/CAPI_Defines.h",
	"Ultralight/CAPI/CAPI_Bitmap.h",
	"Ultralight/CAPI/CAPI_Buffer.h",
	"Ultralight/CAPI/CAPI_Clipboard.h",
	"Ultralight/CAPI/CAPI_Config.h",
	"Ultralight/CAPI/CAPI_FileSystem.h",
	"Ultralight/CAPI/CAPI_FontFile.h",
	"Ultralight/CAPI/CAPI_FontLoader.h",
	"Ultralight/CAPI/CAPI_Geometry.h",
	"Ultralight/CAPI/CAPI_GPUDriver.h",
	"Ultralight/CAPI/CAPI_KeyEvent.h",
	"Ultralight/CAPI/CAPI_Logger.h",
	"Ultralight/CAPI/CAPI_MouseEvent.h",
	"Ultralight/CAPI/CAPI_Platform.h",
	"Ultralight/CAPI/CAPI_Renderer.h",
	"Ultralight/CAPI/CAPI_ScrollEvent.h",
	"Ultralight/CAPI/CAPI_GamepadEvent.h",
	"Ultralight/CAPI/CAPI_Session.h",
	"Ultralight/CAPI/CAPI_String.h",
	"Ultralight/CAPI/CAPI_Surface.h",
	"Ultralight/CAPI/CAPI_View.h",
}

var resourceFiles = []string{"cacert.pem", "icudt67l.dat"}

var nativeLibraries = []string{"Ultralight", "UltralightCore", "AppCore", "WebCore"}

// RequiredPaths lists the slash-separated paths, relative to c's output
// directory, that must exist for c to count as materialized on p. Libs has
// no required paths outside Windows.
func RequiredPaths(c Category, p platform.Platform) []string {
	switch c {
	case Headers:
		return append([]string(nil), headerFiles...)
	case Resources:
		return append([]string(nil), resourceFiles...)
	case Binaries:
		out := make([]string, 0, len(nativeLibraries))
		for _, name := range nativeLibraries {
			out = append(out, p.SharedLibraryName(name))
		}
		return out
	case Libs:
		if !p.HasImportLibraries() {
			return nil
		}
		out := make([]string, 0, len(nativeLibraries))
		for _, name := range nativeLibraries {
			out = append(out, p.ImportLibraryName(name))
		}
		return out
	default:
		return nil
	}
}

// MarshalText encodes c by name.
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Category) UnmarshalText(text []byte) error {
	parsed, err := ParseCategory(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
