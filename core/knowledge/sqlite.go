package knowledge

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/transvia/copiloto/core/domain"
	coreerrors "github.com/transvia/copiloto/core/errors"
)

// Catalog is the sqlite-backed legislation catalog. It serves exact citation
// lookup (law reference plus article) and BM25 full-text search over the
// ingested corpus.
type Catalog struct {
	db     *sql.DB
	logger *slog.Logger
}

// OpenCatalog opens or creates the catalog database at path. Use ":memory:"
// for an ephemeral catalog.
func OpenCatalog(path string, logger *slog.Logger) (*Catalog, error) {
	if logger == nil {
		logger = slog.Default()
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	if err := initSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("init catalog schema: %w", err)
	}

	return &Catalog{db: db, logger: logger}, nil
}

func initSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS legislation (
			id TEXT PRIMARY KEY,
			content TEXT NOT NULL,
			source_title TEXT NOT NULL,
			source_type TEXT,
			law_reference TEXT,
			article TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE INDEX IF NOT EXISTS idx_legislation_citation
			ON legislation(law_reference, article);

		CREATE VIRTUAL TABLE IF NOT EXISTS legislation_fts USING fts5(
			content,
			source_title,
			source_type,
			content='legislation',
			content_rowid='rowid'
		);

		CREATE TRIGGER IF NOT EXISTS legislation_ai AFTER INSERT ON legislation BEGIN
			INSERT INTO legislation_fts(rowid, content, source_title, source_type)
			VALUES (new.rowid, new.content, new.source_title, new.source_type);
		END;

		CREATE TRIGGER IF NOT EXISTS legislation_ad AFTER DELETE ON legislation BEGIN
			INSERT INTO legislation_fts(legislation_fts, rowid, content, source_title, source_type)
			VALUES ('delete', old.rowid, old.content, old.source_title, old.source_type);
		END;
	`
	_, err := db.Exec(schema)
	return err
}

// Add inserts a document into the catalog. Re-inserting an existing ID
// replaces the previous row.
func (c *Catalog) Add(ctx context.Context, doc Document) error {
	_, err := c.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO legislation (id, content, source_title, source_type, law_reference, article)
		VALUES (?, ?, ?, ?, ?, ?)`,
		doc.ID, doc.Content, doc.SourceTitle, doc.SourceType.String(), doc.LawReference, doc.Article,
	)
	if err != nil {
		return coreerrors.RetrievalUnavailable("catalog insert", err)
	}
	return nil
}

// LookupCitation returns documents matching a law reference, optionally
// narrowed to an article. Matching is exact on the stored reference.
func (c *Catalog) LookupCitation(ctx context.Context, lawReference, article string) ([]Match, error) {
	q := `SELECT id, content, source_title, source_type, law_reference, article
		FROM legislation WHERE law_reference = ?`
	args := []any{lawReference}
	if article != "" {
		q += ` AND article = ?`
		args = append(args, article)
	}
	q += ` ORDER BY article`

	rows, err := c.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, coreerrors.RetrievalUnavailable("citation lookup", err)
	}
	defer rows.Close()

	var matches []Match
	for rows.Next() {
		m, err := scanMatch(rows, 1.0)
		if err != nil {
			return nil, coreerrors.RetrievalUnavailable("citation lookup", err)
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

// SearchText performs a BM25-ranked full-text search. BM25 scores are
// negative in sqlite (lower is better); they are mapped to a positive
// descending scale so callers can fuse them with other result lists.
func (c *Catalog) SearchText(ctx context.Context, q string, topK int, filter domain.SourceType) ([]Match, error) {
	if topK <= 0 {
		return nil, nil
	}
	ftsQuery := buildFTSQuery(q)
	if ftsQuery == "" {
		return nil, nil
	}

	sqlQuery := `SELECT l.id, l.content, l.source_title, l.source_type, l.law_reference, l.article,
			bm25(legislation_fts) AS score
		FROM legislation_fts
		JOIN legislation l ON legislation_fts.rowid = l.rowid
		WHERE legislation_fts MATCH ?`
	args := []any{ftsQuery}
	if filter != domain.SourceNone {
		sqlQuery += ` AND l.source_type = ?`
		args = append(args, filter.String())
	}
	sqlQuery += ` ORDER BY score LIMIT ?`
	args = append(args, topK)

	rows, err := c.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, coreerrors.RetrievalUnavailable("catalog search", err)
	}
	defer rows.Close()

	var matches []Match
	for rows.Next() {
		var doc Document
		var typeName string
		var bm25 float64
		if err := rows.Scan(&doc.ID, &doc.Content, &doc.SourceTitle, &typeName, &doc.LawReference, &doc.Article, &bm25); err != nil {
			return nil, coreerrors.RetrievalUnavailable("catalog search", err)
		}
		doc.SourceType = domain.ParseSourceType(typeName)
		matches = append(matches, Match{Document: doc, Score: -bm25})
	}
	return matches, rows.Err()
}

// List returns every catalog document in insertion order. Callers use it to
// rebuild derived stores, such as the in-memory vector index, at startup.
func (c *Catalog) List(ctx context.Context) ([]Document, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT id, content, source_title, source_type, law_reference, article
		FROM legislation ORDER BY rowid`)
	if err != nil {
		return nil, coreerrors.RetrievalUnavailable("catalog list", err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var doc Document
		var typeName string
		if err := rows.Scan(&doc.ID, &doc.Content, &doc.SourceTitle, &typeName, &doc.LawReference, &doc.Article); err != nil {
			return nil, coreerrors.RetrievalUnavailable("catalog list", err)
		}
		doc.SourceType = domain.ParseSourceType(typeName)
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// Close closes the underlying database.
func (c *Catalog) Close() error {
	return c.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMatch(row rowScanner, score float64) (Match, error) {
	var doc Document
	var typeName string
	if err := row.Scan(&doc.ID, &doc.Content, &doc.SourceTitle, &typeName, &doc.LawReference, &doc.Article); err != nil {
		return Match{}, err
	}
	doc.SourceType = domain.ParseSourceType(typeName)
	return Match{Document: doc, Score: score}, nil
}

// buildFTSQuery quotes each term so user punctuation cannot break the FTS5
// query syntax.
func buildFTSQuery(q string) string {
	terms := strings.Fields(q)
	if len(terms) == 0 {
		return ""
	}
	quoted := make([]string, 0, len(terms))
	for _, t := range terms {
		t = strings.ReplaceAll(t, `"`, "")
		if t == "" {
			continue
		}
		quoted = append(quoted, `"`+t+`"`)
	}
	return strings.Join(quoted, " ")
}
