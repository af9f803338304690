package knowledge

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/transvia/copiloto/core/domain"
	coreerrors "github.com/transvia/copiloto/core/errors"
)

// bleveDoc is the flattened shape stored in the index.
type bleveDoc struct {
	Content      string `json:"content"`
	SourceTitle  string `json:"source_title"`
	SourceType   string `json:"source_type"`
	LawReference string `json:"law_reference"`
	Article      string `json:"article"`
}

// BleveIndex is a full-text index over legislation chunks backed by Bleve.
// It implements KeywordSearcher for the hybrid display ordering path.
type BleveIndex struct {
	mu     sync.RWMutex
	index  bleve.Index
	closed bool
	logger *slog.Logger
}

// OpenBleveIndex opens the index at path, creating it with the legislation
// mapping when absent. An empty path opens an in-memory index.
func OpenBleveIndex(path string, logger *slog.Logger) (*BleveIndex, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var index bleve.Index
	var err error
	if path == "" {
		index, err = bleve.NewMemOnly(buildLegislationMapping())
	} else {
		index, err = bleve.Open(path)
		if err != nil {
			index, err = bleve.New(path, buildLegislationMapping())
		}
	}
	if err != nil {
		return nil, fmt.Errorf("open bleve index: %w", err)
	}

	return &BleveIndex{index: index, logger: logger}, nil
}

func buildLegislationMapping() mapping.IndexMapping {
	textField := bleve.NewTextFieldMapping()

	keywordField := bleve.NewKeywordFieldMapping()
	keywordField.Store = true

	docMapping := bleve.NewDocumentMapping()
	docMapping.AddFieldMappingsAt("content", textField)
	docMapping.AddFieldMappingsAt("source_title", textField)
	docMapping.AddFieldMappingsAt("source_type", keywordField)
	docMapping.AddFieldMappingsAt("law_reference", keywordField)
	docMapping.AddFieldMappingsAt("article", keywordField)

	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultMapping = docMapping
	return indexMapping
}

// Add indexes a document under its ID.
func (b *BleveIndex) Add(doc Document) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return coreerrors.RetrievalUnavailable("keyword index", fmt.Errorf("index closed"))
	}
	return b.index.Index(doc.ID, bleveDoc{
		Content:      doc.Content,
		SourceTitle:  doc.SourceTitle,
		SourceType:   doc.SourceType.String(),
		LawReference: doc.LawReference,
		Article:      doc.Article,
	})
}

// SearchText runs a full-text match query over content and source titles.
// Results carry Bleve's relevance score untouched; callers fuse or rank as
// they see fit.
func (b *BleveIndex) SearchText(ctx context.Context, q string, topK int, filter domain.SourceType) ([]Match, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return nil, coreerrors.RetrievalUnavailable("keyword index", fmt.Errorf("index closed"))
	}
	if topK <= 0 {
		return nil, nil
	}

	matchQuery := bleve.NewMatchQuery(q)

	var finalQuery query.Query = matchQuery
	if filter != domain.SourceNone {
		typeQuery := bleve.NewTermQuery(filter.String())
		typeQuery.SetField("source_type")
		finalQuery = bleve.NewConjunctionQuery(matchQuery, typeQuery)
	}

	req := bleve.NewSearchRequestOptions(finalQuery, topK, 0, false)
	req.Fields = []string{"content", "source_title", "source_type", "law_reference", "article"}

	result, err := b.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, coreerrors.RetrievalUnavailable("keyword search", err)
	}

	matches := make([]Match, 0, len(result.Hits))
	for _, hit := range result.Hits {
		matches = append(matches, Match{
			Document: Document{
				ID:           hit.ID,
				Content:      fieldString(hit.Fields, "content"),
				SourceTitle:  fieldString(hit.Fields, "source_title"),
				SourceType:   domain.ParseSourceType(fieldString(hit.Fields, "source_type")),
				LawReference: fieldString(hit.Fields, "law_reference"),
				Article:      fieldString(hit.Fields, "article"),
			},
			Score: hit.Score,
		})
	}
	return matches, nil
}

// Close closes the underlying index. Safe to call twice.
func (b *BleveIndex) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	return b.index.Close()
}

func fieldString(fields map[string]interface{}, key string) string {
	if v, ok := fields[key].(string); ok {
		return v
	}
	return ""
}
