package extract

import "github.com/hyperjump/promptgallery/internal/models"

// LabelSet lists the accepted spellings for each bolded field label of one language.
type LabelSet struct {
	Input      []string
	Prompt     []string
	PromptNote []string
	Reference  []string
}

// EnglishLabels are the labels used by English READMEs.
func EnglishLabels() LabelSet {
	return LabelSet{
		Input:      []string{"input", "Input"},
		Prompt:     []string{"prompt", "Prompt"},
		PromptNote: []string{"prompt note", "Prompt note", "prompt-note"},
		Reference:  []string{"reference", "Reference", "reference note"},
	}
}

// ChineseLabels are the labels used by Chinese READMEs.
// Longer spellings come first so "提示词" wins over "提示".
func ChineseLabels() LabelSet {
	return LabelSet{
		Input:      []string{"输入"},
		Prompt:     []string{"提示词", "提示"},
		PromptNote: []string{"提示词注释", "补充说明"},
		Reference:  []string{"参考", "参考说明"},
	}
}

// LabelsFor returns the label set for lang.
func LabelsFor(lang models.Language) LabelSet {
	if lang == models.LanguageZH {
		return ChineseLabels()
	}
	return EnglishLabels()
}
