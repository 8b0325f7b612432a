package fetch

import (
	"fmt"
	"strings"

	"ulbuild/internal/platform"
	"ulbuild/internal/sdk"
)

// DefaultBaseURL is the CDN hosting the SDK archives.
const DefaultBaseURL = "https://ultralight-sdk.sfo2.cdn.digitaloceanspaces.com"

// ArchiveName returns the SDK archive file name for p and version. An empty
// version selects the latest SDK.
func ArchiveName(p platform.Platform, version string) string {
	if strings.TrimSpace(version) == "" {
		version = sdk.LatestVersion
	}
	return fmt.Sprintf("ultralight-sdk-%s-%s-x64.7z", version, p.Token())
}

// URL builds the download URL for p and version under baseURL, falling back
// to DefaultBaseURL.
func URL(baseURL string, p platform.Platform, version string) string {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return strings.TrimRight(baseURL, "/") + "/" + ArchiveName(p, version)
}
