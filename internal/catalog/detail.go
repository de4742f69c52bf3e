package catalog

import (
	"fmt"

	"github.com/hyperjump/promptgallery/internal/models"
)

// SEO is the page metadata of a case detail page.
type SEO struct {
	Title         string `json:"title"`
	Description   string `json:"description"`
	CanonicalPath string `json:"canonicalPath"`
	Image         string `json:"image,omitempty"`
	Locale        string `json:"locale"`
}

// Detail is a case prepared for its detail page.
type Detail struct {
	models.CaseWithTags
	ModelLabel string `json:"modelLabel"`
	PromptText string `json:"promptText"`
	SEO        SEO    `json:"seo"`
}

// NewDetail prepares c for display in lang.
func NewDetail(c models.CaseWithTags, lang models.Language) Detail {
	label := models.ModelLabel(c.Model)
	seo := SEO{Image: coverImage(c)}
	if lang == models.LanguageZH {
		seo.Title = c.Title + " | 提示词案例研究"
		seo.Description = fmt.Sprintf("#1 %s 提示词详情，模型：%s。", c.Title, label)
		seo.CanonicalPath = CasePath(lang, c.Slug)
		seo.Locale = "zh_CN"
	} else {
		seo.Title = c.Title + " | AI Prompt Case Study"
		seo.Description = fmt.Sprintf("#1 Prompt detail for %s using %s.", c.Title, label)
		seo.CanonicalPath = CasePath(lang, c.Slug)
		seo.Locale = "en_US"
	}
	return Detail{
		CaseWithTags: c,
		ModelLabel:   label,
		PromptText:   EnsurePromptPrefix(c.Prompt),
		SEO:          seo,
	}
}

// CasePath is the site path of a case page.
func CasePath(lang models.Language, slug string) string {
	if lang == models.LanguageZH {
		return "/zh/cases/" + slug
	}
	return "/cases/" + slug
}

// coverImage is the first output image, else the first input image.
func coverImage(c models.CaseWithTags) string {
	if len(c.OutputImages) > 0 {
		return c.OutputImages[0].Src
	}
	if len(c.InputImages) > 0 {
		return c.InputImages[0].Src
	}
	return ""
}
