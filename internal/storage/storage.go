// Package storage persists the generated dataset: per-model, per-language case files and
// the copied image assets served next to them.
package storage

import (
	"context"
	"errors"

	"github.com/hyperjump/promptgallery/internal/models"
)

// ErrNotFound is returned when a case file has not been generated yet.
var ErrNotFound = errors.New("case file not found")

// Storage reads and writes the generated dataset.
type Storage interface {
	// Case files
	WriteCases(ctx context.Context, model models.Model, lang models.Language, records []models.CaseRecord) error
	ReadCases(ctx context.Context, model models.Model, lang models.Language) ([]models.CaseRecord, error)

	// Assets
	CopyAsset(ctx context.Context, srcPath, relDest string) error

	// Stats
	Usage() (Usage, error)
}
