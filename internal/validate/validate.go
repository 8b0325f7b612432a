package validate

import (
	"os"
	"path/filepath"

	"ulbuild/internal/directive"
)

// IsMaterialized reports whether every path in required exists under dir.
// Each checked path is reported as a rerun dependency; the first missing one
// is reported as a warning and ends the check. A missing dir counts as a
// missing file.
func IsMaterialized(dir string, required []string, em directive.Emitter) bool {
	if em == nil {
		em = directive.Discard
	}
	for _, rel := range required {
		path := filepath.Join(dir, filepath.FromSlash(rel))
		em.Emit(directive.Rerun(path))
		if _, err := os.Stat(path); err != nil {
			em.Emit(directive.Warn("%s does not exist, will redownload", path))
			return false
		}
	}
	return true
}

// Missing returns every path in required that does not exist under dir.
func Missing(dir string, required []string) []string {
	var missing []string
	for _, rel := range required {
		if _, err := os.Stat(filepath.Join(dir, filepath.FromSlash(rel))); err != nil {
			missing = append(missing, rel)
		}
	}
	return missing
}
