package source

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
)

var caseDirPattern = regexp.MustCompile(`^\d+$`)

// CaseDir is one numbered case folder.
type CaseDir struct {
	Name   string // folder name as it appears upstream, e.g. "7"
	Number int
	Path   string
}

// DiscoverCaseDirs returns the all-digit subdirectories of root sorted numerically,
// so "10" comes after "9". Folders with equal numbers keep name order.
// A missing or unreadable root is an error.
func DiscoverCaseDirs(root string) ([]CaseDir, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("read cases root: %w", err)
	}
	var dirs []CaseDir
	for _, e := range entries {
		if !e.IsDir() || !caseDirPattern.MatchString(e.Name()) {
			continue
		}
		n, err := strconv.Atoi(e.Name())
		if err != nil {
			continue
		}
		dirs = append(dirs, CaseDir{Name: e.Name(), Number: n, Path: filepath.Join(root, e.Name())})
	}
	sort.SliceStable(dirs, func(i, j int) bool {
		if dirs[i].Number != dirs[j].Number {
			return dirs[i].Number < dirs[j].Number
		}
		return dirs[i].Name < dirs[j].Name
	})
	return dirs, nil
}

// ListImages returns the image files directly inside dir, sorted by name.
// Non-image files and subdirectories are skipped.
func ListImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read case dir: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !IsImage(e.Name()) {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}
