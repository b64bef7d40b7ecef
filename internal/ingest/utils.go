package ingest

import (
	"path/filepath"
	"strings"

	"github.com/joseph-ayodele/condo-contacts/constants"
)

// AllowedExt reports whether ext (with or without the dot) names a document the inbox reads.
func AllowedExt(ext string) bool {
	_, ok := constants.AllowedExtensions[constants.NormalizeExt(ext)]
	return ok
}

// IsHidden reports dotfiles and dot-directories.
func IsHidden(path string) bool {
	return strings.HasPrefix(filepath.Base(path), ".")
}
