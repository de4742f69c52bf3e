package ingest

import (
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/hyperjump/promptgallery/internal/models"
)

// AssetCopy is one planned byte-exact copy into the assets directory.
type AssetCopy struct {
	Source string // absolute or working-directory-relative source path
	Dest   string // slash-separated path relative to the assets directory
}

// assetPlan collects copies during extraction; duplicates by destination are kept once.
type assetPlan struct {
	urlPrefix string
	copies    []AssetCopy
	seen      map[string]struct{}
}

func newAssetPlan(urlPrefix string) *assetPlan {
	if urlPrefix == "" {
		urlPrefix = "/assets"
	}
	return &assetPlan{urlPrefix: urlPrefix, seen: make(map[string]struct{})}
}

// add plans a copy of source to <model>/<caseDir>/<fileName> and returns its public src.
func (p *assetPlan) add(source string, model models.Model, caseDir, fileName string) string {
	dest := path.Join(string(model), caseDir, fileName)
	if _, ok := p.seen[dest]; !ok {
		p.seen[dest] = struct{}{}
		p.copies = append(p.copies, AssetCopy{Source: source, Dest: dest})
	}
	return p.publicSrc(dest)
}

func (p *assetPlan) publicSrc(dest string) string {
	return strings.TrimSuffix(p.urlPrefix, "/") + "/" + dest
}

// fileExists reports whether path is an existing regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// withinRoot reports whether target is root or lies under it.
func withinRoot(root, target string) bool {
	rel, err := filepath.Rel(filepath.Clean(root), filepath.Clean(target))
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
