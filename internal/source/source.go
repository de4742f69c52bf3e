// Package source locates and loads the raw upstream content for each case.
//
// Two layouts are supported: one directory per case with a case.yml descriptor,
// and one long README per language split into "### Case N:" sections.
package source

import (
	"errors"
	"path/filepath"
	"strings"
)

// ErrNoDescriptor is returned when a case directory has no case.yml.
var ErrNoDescriptor = errors.New("case descriptor not found")

// DescriptorFile is the per-case descriptor name in the directory layout.
const DescriptorFile = "case.yml"

var imageExtensions = map[string]struct{}{
	".png":  {},
	".jpg":  {},
	".jpeg": {},
	".webp": {},
	".gif":  {},
}

// IsImage reports whether name has an allowed image extension (case-insensitive).
func IsImage(name string) bool {
	_, ok := imageExtensions[strings.ToLower(filepath.Ext(name))]
	return ok
}
