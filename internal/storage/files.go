package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/hyperjump/promptgallery/internal/models"
)

// FileStorage implements Storage on the local filesystem.
type FileStorage struct {
	dataDir   string
	assetsDir string
}

// NewFileStorage returns a FileStorage writing case files under dataDir and assets under assetsDir.
// Directories are created on first write.
func NewFileStorage(dataDir, assetsDir string) *FileStorage {
	return &FileStorage{dataDir: dataDir, assetsDir: assetsDir}
}

// CasesFileName is the file name of one model's records in one language.
func CasesFileName(model models.Model, lang models.Language) string {
	return fmt.Sprintf("%s.%s.json", model, lang)
}

// CasesPath returns the full path of a case file.
func (s *FileStorage) CasesPath(model models.Model, lang models.Language) string {
	return filepath.Join(s.dataDir, CasesFileName(model, lang))
}

// AssetPath returns the destination path of an asset relative to the assets directory.
func (s *FileStorage) AssetPath(relDest string) string {
	return filepath.Join(s.assetsDir, filepath.FromSlash(relDest))
}

// EncodeCases renders records as indented JSON without HTML escaping.
func EncodeCases(records []models.CaseRecord) ([]byte, error) {
	out := make([]models.CaseRecord, len(records))
	for i, r := range records {
		r.Normalize()
		out[i] = r
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return nil, fmt.Errorf("encode cases: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteCases replaces the case file for model and lang.
func (s *FileStorage) WriteCases(ctx context.Context, model models.Model, lang models.Language, records []models.CaseRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := EncodeCases(records)
	if err != nil {
		return err
	}
	if err := writeFileAtomic(s.CasesPath(model, lang), bytes.NewReader(data)); err != nil {
		return fmt.Errorf("write %s: %w", CasesFileName(model, lang), err)
	}
	return nil
}

// ReadCases loads the case file for model and lang. A missing file yields ErrNotFound.
func (s *FileStorage) ReadCases(ctx context.Context, model models.Model, lang models.Language) ([]models.CaseRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := s.CasesPath(model, lang)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", path, ErrNotFound)
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var records []models.CaseRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	for i := range records {
		records[i].Normalize()
	}
	return records, nil
}

// CopyAsset copies srcPath byte for byte to relDest under the assets directory.
func (s *FileStorage) CopyAsset(ctx context.Context, srcPath, relDest string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	src, err := os.Open(srcPath)
	if err != nil {
		return fmt.Errorf("open asset: %w", err)
	}
	defer src.Close()
	if err := writeFileAtomic(s.AssetPath(relDest), src); err != nil {
		return fmt.Errorf("copy asset %s: %w", relDest, err)
	}
	return nil
}

// writeFileAtomic writes r to a temp file next to path and renames it into place.
func writeFileAtomic(path string, r io.Reader) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := io.Copy(tmp, r); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	return nil
}
