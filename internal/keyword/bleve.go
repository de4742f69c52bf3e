package keyword

import (
	"context"
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/analysis/lang/cjk"
	blevequery "github.com/blevesearch/bleve/v2/search/query"

	"github.com/hyperjump/promptgallery/internal/models"
)

// textFields are the analyzed fields searched besides the title.
var textFields = []string{"prompt", "inputRequirement", "notes", "keywords", "author"}

// caseDocument is the indexed projection of a case.
type caseDocument struct {
	Model            string `json:"model"`
	Slug             string `json:"slug"`
	Title            string `json:"title"`
	Prompt           string `json:"prompt"`
	InputRequirement string `json:"inputRequirement"`
	Notes            string `json:"notes"`
	Keywords         string `json:"keywords"`
	Author           string `json:"author"`
}

func newCaseDocument(c models.CaseWithTags) caseDocument {
	notes := append([]string{c.PromptNote, c.ReferenceNote}, c.Notes...)
	return caseDocument{
		Model:            string(c.Model),
		Slug:             c.Slug,
		Title:            c.Title,
		Prompt:           c.Prompt,
		InputRequirement: c.InputRequirement,
		Notes:            strings.Join(notes, "\n"),
		Keywords:         strings.Join(append(append(append([]string{}, c.Keywords...), c.StyleTags...), c.ThemeTags...), " "),
		Author:           strings.TrimPrefix(c.Author, "@"),
	}
}

// BleveIndex implements CaseIndex with an in-memory Bleve index.
type BleveIndex struct {
	index bleve.Index
}

var _ CaseIndex = (*BleveIndex)(nil)

// NewMemIndex creates an empty in-memory index. Chinese text is analyzed into CJK bigrams;
// other languages use the standard analyzer (lowercase, no stemming).
func NewMemIndex(lang models.Language) (*BleveIndex, error) {
	im := bleve.NewIndexMapping()

	analyzer := standard.Name
	if lang == models.LanguageZH {
		analyzer = cjk.AnalyzerName
	}
	docMapping := bleve.NewDocumentMapping()
	textFieldMapping := bleve.NewTextFieldMapping()
	textFieldMapping.Analyzer = analyzer
	docMapping.AddFieldMappingsAt("title", textFieldMapping)
	for _, f := range textFields {
		docMapping.AddFieldMappingsAt(f, textFieldMapping)
	}
	keywordFieldMapping := bleve.NewKeywordFieldMapping()
	docMapping.AddFieldMappingsAt("model", keywordFieldMapping)
	docMapping.AddFieldMappingsAt("slug", keywordFieldMapping)
	im.AddDocumentMapping("case", docMapping)
	im.DefaultType = "case"
	im.DefaultMapping = docMapping

	index, err := bleve.NewMemOnly(im)
	if err != nil {
		return nil, fmt.Errorf("failed to create Bleve index: %w", err)
	}
	return &BleveIndex{index: index}, nil
}

// Index adds or replaces a case, keyed by its id.
func (b *BleveIndex) Index(ctx context.Context, c models.CaseWithTags) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return b.index.Index(c.ID, newCaseDocument(c))
}

// IndexAll indexes cases in one batch.
func (b *BleveIndex) IndexAll(ctx context.Context, cases []models.CaseWithTags) error {
	batch := b.index.NewBatch()
	for _, c := range cases {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := batch.Index(c.ID, newCaseDocument(c)); err != nil {
			return fmt.Errorf("index %s: %w", c.ID, err)
		}
	}
	return b.index.Batch(batch)
}

// Search returns up to limit case ids ranked by relevance; ties are broken by id.
// Any plain term or quoted phrase may match any field; -excluded terms must match none.
// A query without terms or phrases has no results.
func (b *BleveIndex) Search(ctx context.Context, query string, limit int, opts *SearchOptions) ([]Result, error) {
	parsed := ParseQuery(query)
	if parsed.Empty() || limit <= 0 {
		return []Result{}, nil
	}
	titleBoost := 1.0
	fuzzy := false
	fuzziness := 1
	if opts != nil {
		if opts.TitleBoost > 1 {
			titleBoost = opts.TitleBoost
		}
		fuzzy = opts.FuzzyEnabled
		if opts.Fuzziness > 0 {
			fuzziness = opts.Fuzziness
		}
	}

	fields := append([]string{"title"}, textFields...)
	boostFor := func(field string) float64 {
		if field == "title" {
			return titleBoost
		}
		return 1
	}

	var should []blevequery.Query
	if len(parsed.Terms) > 0 {
		text := strings.Join(parsed.Terms, " ")
		for _, f := range fields {
			should = append(should, b.fieldQuery(text, parsed.Terms, f, boostFor(f), fuzzy, fuzziness))
		}
	}
	for _, phrase := range parsed.Phrases {
		for _, f := range fields {
			pq := bleve.NewMatchPhraseQuery(phrase)
			pq.SetField(f)
			pq.SetBoost(boostFor(f))
			should = append(should, pq)
		}
	}

	var q blevequery.Query = bleve.NewDisjunctionQuery(should...)
	if len(parsed.Negated) > 0 {
		bq := bleve.NewBooleanQuery()
		bq.AddMust(q)
		for _, neg := range parsed.Negated {
			for _, f := range fields {
				mq := bleve.NewMatchQuery(neg)
				mq.SetField(f)
				bq.AddMustNot(mq)
			}
		}
		q = bq
	}

	req := bleve.NewSearchRequestOptions(q, limit, 0, false)
	req.SortBy([]string{"-_score", "_id"})
	results, err := b.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("Bleve search failed: %w", err)
	}
	out := make([]Result, len(results.Hits))
	for i, hit := range results.Hits {
		out[i] = Result{ID: hit.ID, Score: hit.Score}
	}
	return out, nil
}

// fieldQuery matches text against one field. Fuzzy mode ORs one fuzzy query per term.
func (b *BleveIndex) fieldQuery(text string, terms []string, field string, boost float64, fuzzy bool, fuzziness int) blevequery.Query {
	if !fuzzy {
		mq := bleve.NewMatchQuery(text)
		mq.SetField(field)
		mq.SetBoost(boost)
		return mq
	}
	queries := make([]blevequery.Query, 0, len(terms))
	for _, term := range terms {
		fq := bleve.NewFuzzyQuery(term)
		fq.SetFuzziness(fuzziness)
		fq.SetField(field)
		fq.SetBoost(boost)
		queries = append(queries, fq)
	}
	return bleve.NewDisjunctionQuery(queries...)
}

// DocCount returns the number of indexed cases.
func (b *BleveIndex) DocCount() (uint64, error) {
	return b.index.DocCount()
}

// Terms returns every indexed term of the title and text fields with its highest document frequency.
func (b *BleveIndex) Terms() (map[string]int, error) {
	terms := make(map[string]int)
	for _, field := range append([]string{"title"}, textFields...) {
		dict, err := b.index.FieldDict(field)
		if err != nil {
			return nil, fmt.Errorf("field dictionary %s: %w", field, err)
		}
		for {
			entry, err := dict.Next()
			if err != nil {
				_ = dict.Close()
				return nil, err
			}
			if entry == nil {
				break
			}
			if int(entry.Count) > terms[entry.Term] {
				terms[entry.Term] = int(entry.Count)
			}
		}
		if err := dict.Close(); err != nil {
			return nil, err
		}
	}
	return terms, nil
}

// Close releases the index.
func (b *BleveIndex) Close() error {
	return b.index.Close()
}
