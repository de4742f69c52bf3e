package ingest

import (
	"fmt"
	"net/url"
	"path"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/hyperjump/promptgallery/internal/extract"
	"github.com/hyperjump/promptgallery/internal/models"
	"github.com/hyperjump/promptgallery/internal/source"
)

// buildNano reads the README-per-language tree. English is parsed first so the Chinese
// pass can reuse English titles for alt text.
func (p *Pipeline) buildNano(plan *assetPlan, report *ModelReport) (models.ModelData, error) {
	cfg := p.opts.Sources.NanoBanana
	data := models.ModelData{EN: []models.CaseRecord{}, ZH: []models.CaseRecord{}}

	enContent, err := source.ReadReadme(filepath.Join(cfg.Root, cfg.ReadmeEN))
	if err != nil {
		return data, fmt.Errorf("%w: %s: %w", ErrSourceRootMissing, models.ModelNanoBanana, err)
	}
	zhContent, err := source.ReadReadme(filepath.Join(cfg.Root, cfg.ReadmeZH))
	if err != nil {
		return data, fmt.Errorf("%w: %s: %w", ErrSourceRootMissing, models.ModelNanoBanana, err)
	}

	english, err := p.parseReadme(enContent, models.LanguageEN, nil, plan, report)
	if err != nil {
		return data, err
	}
	chinese, err := p.parseReadme(zhContent, models.LanguageZH, english, plan, report)
	if err != nil {
		return data, err
	}
	data.EN = sortedRecords(english)
	data.ZH = sortedRecords(chinese)
	return data, nil
}

// parseReadme turns README sections into records keyed by id. A repeated case number replaces
// the earlier section. When english is non-nil, attribution and images of a shared id are taken
// from the English record.
func (p *Pipeline) parseReadme(content string, lang models.Language, english map[string]models.CaseRecord,
	plan *assetPlan, report *ModelReport) (map[string]models.CaseRecord, error) {
	const model = models.ModelNanoBanana
	cfg := p.opts.Sources.NanoBanana
	labels := extract.LabelsFor(lang)
	records := make(map[string]models.CaseRecord)

	sections, err := source.SplitSections(content, cfg.SectionMarker)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s readme: %w", ErrMalformedSource, model, lang, err)
	}
	for _, sec := range sections {
		key := models.CaseKey(sec.Number)
		id := models.CaseID(model, key)
		fields, err := p.extractor.Extract(sec.Heading, sec.Body, labels)
		if err != nil {
			return nil, fmt.Errorf("%w: %s %s case %s (line %d): %w", ErrMalformedSource, model, lang, key, sec.Line, err)
		}
		if fields.Title == "" {
			p.logger.Warn("case skipped", zap.String("model", string(model)), zap.String("case", key),
				zap.String("language", string(lang)), zap.Int("line", sec.Line), zap.String("reason", "heading has no title"))
			report.Skipped = append(report.Skipped, SkippedCase{Case: key, Reason: string(lang) + ": heading has no title"})
			continue
		}
		if _, dup := records[id]; dup {
			p.logger.Warn("duplicate case number, keeping the later section", zap.String("model", string(model)),
				zap.String("case", key), zap.String("language", string(lang)), zap.Int("line", sec.Line))
			report.DuplicateCases = append(report.DuplicateCases, string(lang)+":"+key)
		}

		altTitle := fields.Title
		if en, ok := english[id]; ok && en.Title != "" {
			altTitle = en.Title
		}
		caseDir := "case" + key
		inputs := p.nanoImages(fields.InputImages, plan, report, lang, key, caseDir)
		outputs := p.nanoImages(fields.OutputImages, plan, report, lang, key, caseDir)
		for i := range inputs {
			inputs[i].Alt = extract.BuildAlt(altTitle, extract.RoleInput, i)
		}
		for i := range outputs {
			outputs[i].Alt = extract.BuildAlt(altTitle, extract.RoleOutput, i)
		}

		record := models.CaseRecord{
			ID:               id,
			CaseNumber:       sec.Number,
			Model:            model,
			Slug:             models.CaseSlug(model, key),
			Title:            fields.Title,
			Prompt:           fields.Prompt,
			InputRequirement: fields.InputRequirement,
			PromptNote:       fields.PromptNote,
			ReferenceNote:    fields.ReferenceNote,
			Notes:            fields.Notes,
			Author:           fields.Author,
			AuthorURL:        fields.AuthorURL,
			SourceLinks:      fields.SourceLinks,
			InputImages:      inputs,
			OutputImages:     outputs,
		}
		if en, ok := english[id]; ok {
			p.shareAttribution(&record, en)
		}
		records[id] = record
	}
	return records, nil
}

// shareAttribution copies source links, author and images from the English record so both
// languages describe the same case. Differences in the translated section are logged.
func (p *Pipeline) shareAttribution(record *models.CaseRecord, en models.CaseRecord) {
	var differs []string
	if !slices.Equal(record.SourceLinks, en.SourceLinks) {
		differs = append(differs, "sourceLinks")
	}
	if record.Author != en.Author || record.AuthorURL != en.AuthorURL {
		differs = append(differs, "author")
	}
	if !slices.Equal(record.InputImages, en.InputImages) {
		differs = append(differs, "inputImages")
	}
	if !slices.Equal(record.OutputImages, en.OutputImages) {
		differs = append(differs, "outputImages")
	}
	if len(differs) > 0 {
		p.logger.Warn("translated case differs from english, using english values",
			zap.String("model", string(record.Model)), zap.String("id", record.ID),
			zap.String("language", string(models.LanguageZH)), zap.Strings("fields", differs))
	}
	record.SourceLinks = slices.Clone(en.SourceLinks)
	record.Author = en.Author
	record.AuthorURL = en.AuthorURL
	record.InputImages = slices.Clone(en.InputImages)
	record.OutputImages = slices.Clone(en.OutputImages)
}

// nanoImages resolves README image references against the source root. References whose file
// is missing or outside the root are dropped and reported.
func (p *Pipeline) nanoImages(refs []extract.ImageRef, plan *assetPlan, report *ModelReport,
	lang models.Language, key, caseDir string) []models.ImageEntry {
	root := p.opts.Sources.NanoBanana.Root
	entries := make([]models.ImageEntry, 0, len(refs))
	for _, ref := range refs {
		rel := ref.Src
		if decoded, err := url.PathUnescape(rel); err == nil {
			rel = decoded
		}
		diskPath := filepath.Join(root, filepath.FromSlash(rel))
		switch {
		case strings.Contains(rel, "://") || !withinRoot(root, diskPath):
			p.dropImage(report, key, lang, ref.Src, diskPath, "not a file under the source root")
			continue
		case !fileExists(diskPath):
			p.dropImage(report, key, lang, ref.Src, diskPath, "source file missing")
			continue
		}
		src := plan.add(diskPath, models.ModelNanoBanana, caseDir, path.Base(filepath.ToSlash(rel)))
		entries = append(entries, models.ImageEntry{Src: src})
	}
	return extract.DedupeImages(entries)
}

func (p *Pipeline) dropImage(report *ModelReport, key string, lang models.Language, src, diskPath, reason string) {
	p.logger.Warn("image dropped", zap.String("model", string(report.Model)), zap.String("case", key),
		zap.String("language", string(lang)), zap.String("src", src), zap.String("path", diskPath),
		zap.String("reason", reason))
	report.DroppedImages = append(report.DroppedImages, DroppedImage{
		Case: key, Language: lang, Src: src, Path: diskPath, Reason: reason,
	})
}

func sortedRecords(byID map[string]models.CaseRecord) []models.CaseRecord {
	out := make([]models.CaseRecord, 0, len(byID))
	for _, r := range byID {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	sortByCaseNumber(out)
	return out
}

// sortByCaseNumber orders records ascending by case number, keeping input order for ties.
func sortByCaseNumber(records []models.CaseRecord) {
	sort.SliceStable(records, func(i, j int) bool { return records[i].CaseNumber < records[j].CaseNumber })
}
