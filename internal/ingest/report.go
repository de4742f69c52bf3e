package ingest

import (
	"time"

	"github.com/google/uuid"

	"github.com/hyperjump/promptgallery/internal/models"
)

// SkippedCase is a case left out of the output.
type SkippedCase struct {
	Case   string `json:"case"`
	Reason string `json:"reason"`
}

// DroppedImage is an image reference removed because its source file could not be used.
type DroppedImage struct {
	Case     string          `json:"case"`
	Language models.Language `json:"language"`
	Src      string          `json:"src"`
	Path     string          `json:"path"`
	Reason   string          `json:"reason"`
}

// ModelReport summarizes one model's ingestion.
type ModelReport struct {
	Model          models.Model   `json:"model"`
	CasesEN        int            `json:"cases_en"`
	CasesZH        int            `json:"cases_zh"`
	AssetsPlanned  int            `json:"assets_planned"`
	DuplicateCases []string       `json:"duplicate_cases"`
	Skipped        []SkippedCase  `json:"skipped"`
	DroppedImages  []DroppedImage `json:"dropped_images"`
}

func newModelReport(m models.Model) *ModelReport {
	return &ModelReport{
		Model:          m,
		DuplicateCases: []string{},
		Skipped:        []SkippedCase{},
		DroppedImages:  []DroppedImage{},
	}
}

// Report summarizes one pipeline run.
type Report struct {
	RunID        string         `json:"run_id"`
	StartedAt    time.Time      `json:"started_at"`
	Duration     time.Duration  `json:"duration_ns"`
	Written      bool           `json:"written"`
	AssetsCopied int            `json:"assets_copied"`
	Files        []string       `json:"files"`
	Models       []*ModelReport `json:"models"`
}

func newReport(now time.Time) *Report {
	return &Report{
		RunID:     uuid.New().String(),
		StartedAt: now,
		Files:     []string{},
		Models:    []*ModelReport{},
	}
}

// Model returns the report for m, or nil.
func (r *Report) Model(m models.Model) *ModelReport {
	for _, mr := range r.Models {
		if mr.Model == m {
			return mr
		}
	}
	return nil
}

// TotalCases returns the number of English records across models.
func (r *Report) TotalCases() int {
	n := 0
	for _, mr := range r.Models {
		n += mr.CasesEN
	}
	return n
}

// TotalDropped returns the number of dropped image references across models and languages.
func (r *Report) TotalDropped() int {
	n := 0
	for _, mr := range r.Models {
		n += len(mr.DroppedImages)
	}
	return n
}

// TotalSkipped returns the number of skipped cases across models.
func (r *Report) TotalSkipped() int {
	n := 0
	for _, mr := range r.Models {
		n += len(mr.Skipped)
	}
	return n
}
