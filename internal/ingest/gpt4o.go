package ingest

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/hyperjump/promptgallery/internal/extract"
	"github.com/hyperjump/promptgallery/internal/models"
	"github.com/hyperjump/promptgallery/internal/source"
)

// buildGPT4o reads the one-directory-per-case tree. Every image in a case folder is an output image.
func (p *Pipeline) buildGPT4o(plan *assetPlan, report *ModelReport) (models.ModelData, error) {
	const model = models.ModelGPT4o
	data := models.ModelData{EN: []models.CaseRecord{}, ZH: []models.CaseRecord{}}
	root := p.opts.Sources.GPT4o.CasesPath()

	dirs, err := source.DiscoverCaseDirs(root)
	if err != nil {
		return data, fmt.Errorf("%w: %s: %w", ErrSourceRootMissing, model, err)
	}
	promptLabels := append(extract.EnglishLabels().Prompt, extract.ChineseLabels().Prompt...)

	for _, dir := range dirs {
		desc, err := source.ReadDescriptor(dir.Path)
		if errors.Is(err, source.ErrNoDescriptor) {
			p.logger.Warn("case skipped", zap.String("model", string(model)), zap.String("case", dir.Name),
				zap.String("path", dir.Path), zap.String("reason", "missing "+source.DescriptorFile))
			report.Skipped = append(report.Skipped, SkippedCase{Case: dir.Name, Reason: "missing " + source.DescriptorFile})
			continue
		}
		if err != nil {
			return data, fmt.Errorf("%w: %s case %s: %w", ErrMalformedSource, model, dir.Name, err)
		}

		titleEN := strings.TrimSpace(source.First(desc.TitleEN, desc.Title))
		titleZH := strings.TrimSpace(source.First(desc.Title, desc.TitleEN))
		altTitle := titleEN
		if altTitle == "" {
			altTitle = titleZH
		}

		images, err := source.ListImages(dir.Path)
		if err != nil {
			return data, fmt.Errorf("%s case %s: %w", model, dir.Name, err)
		}
		outputs := make([]models.ImageEntry, 0, len(images))
		for _, name := range images {
			srcPath := filepath.Join(dir.Path, name)
			if !fileExists(srcPath) {
				p.dropImage(report, dir.Name, "", name, srcPath, "source file missing")
				continue
			}
			src := plan.add(srcPath, model, dir.Name, name)
			outputs = append(outputs, models.ImageEntry{Src: src})
		}
		outputs = extract.DedupeImages(outputs)
		for i := range outputs {
			outputs[i].Alt = extract.BuildAlt(altTitle, extract.RoleOutput, i)
		}

		referenceEN := extract.NormalizeText(source.First(desc.ReferenceNoteEN, desc.ReferenceNote))
		referenceZH := extract.NormalizeText(source.First(desc.ReferenceNote, desc.ReferenceNoteEN))
		base := models.CaseRecord{
			ID:          models.CaseID(model, dir.Name),
			CaseNumber:  dir.Number,
			Model:       model,
			Slug:        models.CaseSlug(model, dir.Name),
			Notes:       []string{},
			Author:      desc.Author.String(),
			AuthorURL:   desc.AuthorLink.String(),
			SourceLinks: append([]string{}, desc.SourceLinks...),
			InputImages: []models.ImageEntry{},
		}

		en := base
		en.Title = titleEN
		en.Prompt = extract.ResolvePrompt(source.First(desc.PromptEN, desc.Prompt), promptLabels)
		en.InputRequirement = referenceEN
		en.PromptNote = extract.NormalizeText(source.First(desc.PromptNoteEN, desc.PromptNote))
		en.ReferenceNote = referenceEN
		en.OutputImages = append([]models.ImageEntry{}, outputs...)

		zh := base
		zh.Title = titleZH
		zh.Prompt = extract.ResolvePrompt(source.First(desc.Prompt, desc.PromptEN), promptLabels)
		zh.InputRequirement = referenceZH
		zh.PromptNote = extract.NormalizeText(source.First(desc.PromptNote, desc.PromptNoteEN))
		zh.ReferenceNote = referenceZH
		zh.SourceLinks = append([]string{}, base.SourceLinks...)
		zh.Notes = []string{}
		zh.InputImages = []models.ImageEntry{}
		zh.OutputImages = append([]models.ImageEntry{}, outputs...)

		data.EN = append(data.EN, en)
		data.ZH = append(data.ZH, zh)
	}

	sortByCaseNumber(data.EN)
	sortByCaseNumber(data.ZH)
	return data, nil
}
