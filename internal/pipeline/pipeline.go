package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cnnrbrn/feu-docs-indexer/internal/docs"
	"github.com/cnnrbrn/feu-docs-indexer/internal/search"
	"github.com/cnnrbrn/feu-docs-indexer/internal/storage"
)

type Runner struct {
	Builder *docs.Builder
	Index   search.Index
	Storage *storage.FSStorage
	Logger  *slog.Logger

	// Prune deletes documents for eligible deleted files.
	Prune bool
	// DryRun builds the batch without submitting it.
	DryRun bool
	// Dump, when set, is where the built batch is written as JSON.
	Dump string
}

// Run builds documents for the new and updated files and upserts them in one
// batch. Input and read errors abort before anything is submitted.
func (r *Runner) Run(ctx context.Context, changes docs.Changes) (Summary, error) {
	if r.Builder == nil || (r.Index == nil && !r.DryRun) {
		return Summary{}, errors.New("pipeline runner missing dependencies")
	}
	logger := r.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	candidates := changes.Upserts()
	logger.Info("received changes",
		"new", len(changes.New),
		"updated", len(changes.Updated),
		"deleted", len(changes.Deleted))

	batch, err := r.Builder.Build(ctx, candidates)
	if err != nil {
		return Summary{}, err
	}

	summary := Summary{
		Candidates: len(candidates),
		Skipped:    len(candidates) - len(batch),
	}

	if r.Dump != "" {
		if r.Storage == nil {
			return summary, errors.New("dump requested without storage")
		}
		if err := r.Storage.WriteJSON(ctx, r.Dump, batch); err != nil {
			return summary, fmt.Errorf("dump batch: %w", err)
		}
		logger.Info("wrote batch", "path", r.Dump, "documents", len(batch))
	}

	if r.DryRun {
		for _, doc := range batch {
			summary.ObjectIDs = append(summary.ObjectIDs, doc.ObjectID)
		}
		logger.Info("dry run, skipping submission", "documents", len(batch), "skipped", summary.Skipped)
		return summary, nil
	}

	if len(batch) == 0 {
		logger.Info("no eligible documents to index", "skipped", summary.Skipped)
	} else {
		res, err := r.Index.SaveDocuments(ctx, batch)
		if err != nil {
			return summary, &IndexSubmissionError{Op: "save", Count: len(batch), Err: err}
		}
		summary.Indexed = len(batch)
		summary.ObjectIDs = res.ObjectIDs
		logger.Info("indexed documents", "documents", summary.Indexed, "tasks", res.Tasks, "skipped", summary.Skipped)
	}

	if r.Prune {
		ids := r.Builder.DeletionIDs(changes.Deleted)
		if len(ids) > 0 {
			if err := r.Index.DeleteDocuments(ctx, ids); err != nil {
				return summary, &IndexSubmissionError{Op: "delete", Count: len(ids), Err: err}
			}
			summary.Deleted = len(ids)
			logger.Info("deleted documents", "documents", summary.Deleted)
		}
	} else if len(changes.Deleted) > 0 {
		logger.Debug("ignoring deleted files", "count", len(changes.Deleted))
	}

	return summary, nil
}
