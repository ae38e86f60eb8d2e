package docs

import (
	"context"
	"log/slog"
	"unicode/utf8"

	"github.com/cnnrbrn/feu-docs-indexer/internal/search"
)

// Source reads repository files by slash-separated relative path.
// fstest.MapFS and storage.FSStorage both satisfy it.
type Source interface {
	ReadFile(name string) ([]byte, error)
}

type Builder struct {
	Source Source
	Prefix string
	Filter Filter
	Logger *slog.Logger
}

func NewBuilder(src Source, prefix string, excluded []string) *Builder {
	return &Builder{
		Source: src,
		Prefix: prefix,
		Filter: NewFilter(excluded),
	}
}

// Build reads every eligible path and returns its documents in input order.
// A path listed twice yields one document. The first read failure aborts the
// build with a *FileReadError.
func (b *Builder) Build(ctx context.Context, paths []string) ([]search.Document, error) {
	docs := make([]search.Document, 0, len(paths))
	seen := make(map[string]bool, len(paths))

	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !b.Filter.Eligible(p) {
			b.debug("skipping ineligible file", "path", p)
			continue
		}

		id := DeriveID(b.Prefix, p)
		if seen[id] {
			b.debug("skipping duplicate file", "path", p, "object_id", id)
			continue
		}
		seen[id] = true

		name := cleanPath(p)
		content, err := b.Source.ReadFile(name)
		if err != nil {
			return nil, &FileReadError{Path: name, Err: err}
		}

		if !utf8.Valid(content) {
			b.warn("content is not valid UTF-8, the hosted index will store replacement characters", "path", name)
		}

		text := string(content)
		doc := search.Document{
			ObjectID: id,
			Title:    DeriveTitle(text, id),
			Content:  text,
		}
		b.debug("built document", "path", name, "object_id", doc.ObjectID, "title", doc.Title)
		docs = append(docs, doc)
	}

	return docs, nil
}

// DeletionIDs maps eligible deleted paths to the ids they were indexed under.
func (b *Builder) DeletionIDs(paths []string) []string {
	var ids []string
	seen := make(map[string]bool, len(paths))
	for _, p := range paths {
		if !b.Filter.Eligible(p) {
			continue
		}
		id := DeriveID(b.Prefix, p)
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return ids
}

func (b *Builder) debug(msg string, args ...any) {
	if b.Logger != nil {
		b.Logger.Debug(msg, args...)
	}
}

func (b *Builder) warn(msg string, args ...any) {
	if b.Logger != nil {
		b.Logger.Warn(msg, args...)
	}
}
