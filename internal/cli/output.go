// Package cli renders command output for the promptgallery binary.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/hyperjump/promptgallery/internal/catalog"
	"github.com/hyperjump/promptgallery/internal/ingest"
	"github.com/hyperjump/promptgallery/internal/models"
	"github.com/hyperjump/promptgallery/internal/storage"
	"github.com/hyperjump/promptgallery/pkg/utils"
)

// OutputFormat is the format for command output.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

// ParseOutputFormat parses a --output flag value.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch OutputFormat(s) {
	case "", OutputText:
		return OutputText, nil
	case OutputJSON:
		return OutputJSON, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want text or json)", s)
	}
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// WriteReport writes an ingestion report to w in the given format.
func WriteReport(w io.Writer, report *ingest.Report, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, report)
	}
	state := "written"
	if !report.Written {
		state = "dry run, nothing written"
	}
	fmt.Fprintf(w, "\nRun %s (%s) in %s\n", report.RunID, state, report.Duration.Round(time.Millisecond))
	for _, mr := range report.Models {
		fmt.Fprintf(w, "─────────────────────────────────────────────────────────\n")
		fmt.Fprintf(w, "%s: %d en / %d zh cases, %d assets\n",
			models.ModelLabel(mr.Model), mr.CasesEN, mr.CasesZH, mr.AssetsPlanned)
		for _, s := range mr.Skipped {
			fmt.Fprintf(w, "  skipped %s: %s\n", s.Case, s.Reason)
		}
		for _, d := range mr.DroppedImages {
			fmt.Fprintf(w, "  dropped image %s [%s] %s: %s\n", d.Case, d.Language, d.Src, d.Reason)
		}
		if len(mr.DuplicateCases) > 0 {
			fmt.Fprintf(w, "  duplicate cases (last wins): %v\n", mr.DuplicateCases)
		}
	}
	fmt.Fprintf(w, "\nTotal: %d cases, %d skipped, %d dropped images, %d assets copied\n",
		report.TotalCases(), report.TotalSkipped(), report.TotalDropped(), report.AssetsCopied)
	for _, f := range report.Files {
		fmt.Fprintf(w, "  %s\n", f)
	}
	return nil
}

// WriteSearchResults writes search results to w in the given format.
func WriteSearchResults(w io.Writer, result *catalog.SearchResult, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, result)
	}
	fmt.Fprintf(w, "\nFound %d results for %q\n", len(result.Hits), result.Query)
	if result.Suggestion != "" {
		fmt.Fprintf(w, "Did you mean: %s\n", result.Suggestion)
	}
	fmt.Fprintln(w)
	for i, hit := range result.Hits {
		fmt.Fprintf(w, "─────────────────────────────────────────────────────────\n")
		fmt.Fprintf(w, "%d. %s | Score: %.4f\n", i+1, hit.Title, hit.Score)
		fmt.Fprintf(w, "ID: %s | Model: %s | Slug: %s\n", hit.ID, models.ModelLabel(hit.Model), hit.Slug)
		if len(hit.StyleTags) > 0 || len(hit.ThemeTags) > 0 {
			fmt.Fprintf(w, "Tags: %v %v\n", hit.StyleTags, hit.ThemeTags)
		}
		fmt.Fprintf(w, "\n%s\n\n", utils.Truncate(hit.Prompt, 200))
	}
	return nil
}

// Status is the summary printed by the status command.
type Status struct {
	Cases map[models.Language]int `json:"cases"`
	Usage storage.Usage           `json:"disk_usage"`
}

// WriteStatus writes a dataset status summary to w in the given format.
func WriteStatus(w io.Writer, status Status, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, status)
	}
	for _, lang := range models.Languages() {
		fmt.Fprintf(w, "Cases (%s): %d\n", lang, status.Cases[lang])
	}
	fmt.Fprintf(w, "Data: %s\n", utils.FormatBytes(status.Usage.DataBytes))
	fmt.Fprintf(w, "Assets: %s in %d files\n", utils.FormatBytes(status.Usage.AssetBytes), status.Usage.AssetFiles)
	return nil
}
