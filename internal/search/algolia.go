package search

import (
	"context"
	"errors"
	"fmt"

	algolia "github.com/algolia/algoliasearch-client-go/v3/algolia/search"
)

// AlgoliaIndex writes documents to a hosted Algolia index. The client is
// built from explicit credentials so callers decide where it comes from.
type AlgoliaIndex struct {
	index *algolia.Index
	name  string
}

var _ Index = (*AlgoliaIndex)(nil)

func NewAlgoliaIndex(appID, writeKey, indexName string) (*AlgoliaIndex, error) {
	return NewAlgoliaIndexWithConfig(algolia.Configuration{AppID: appID, APIKey: writeKey}, indexName)
}

// NewAlgoliaIndexWithConfig allows overriding client settings such as hosts
// or the HTTP requester.
func NewAlgoliaIndexWithConfig(cfg algolia.Configuration, indexName string) (*AlgoliaIndex, error) {
	if cfg.AppID == "" {
		return nil, errors.New("algolia app id is required")
	}
	if cfg.APIKey == "" {
		return nil, errors.New("algolia write key is required")
	}
	if indexName == "" {
		return nil, errors.New("algolia index name is required")
	}

	client := algolia.NewClientWithConfig(cfg)
	return &AlgoliaIndex{
		index: client.InitIndex(indexName),
		name:  indexName,
	}, nil
}

func (a *AlgoliaIndex) Name() string { return a.name }

// SaveDocuments sends one saveObjects batch and blocks until every task the
// batch produced is published.
func (a *AlgoliaIndex) SaveDocuments(ctx context.Context, docs []Document) (SaveResult, error) {
	if len(docs) == 0 {
		return SaveResult{}, nil
	}

	res, err := a.index.SaveObjects(docs, ctx)
	if err != nil {
		return SaveResult{}, fmt.Errorf("save objects to %s: %w", a.name, err)
	}
	if err := res.Wait(ctx); err != nil {
		return SaveResult{}, fmt.Errorf("wait for %s tasks: %w", a.name, err)
	}
	return batchResult(res), nil
}

func (a *AlgoliaIndex) DeleteDocuments(ctx context.Context, objectIDs []string) error {
	if len(objectIDs) == 0 {
		return nil
	}

	res, err := a.index.DeleteObjects(objectIDs, ctx)
	if err != nil {
		return fmt.Errorf("delete objects from %s: %w", a.name, err)
	}
	if err := res.Wait(ctx); err != nil {
		return fmt.Errorf("wait for %s tasks: %w", a.name, err)
	}
	return nil
}

// Close is a no-op; the Algolia client holds no resources that need releasing.
func (a *AlgoliaIndex) Close() error { return nil }

func batchResult(res algolia.GroupBatchRes) SaveResult {
	out := SaveResult{Tasks: len(res.Responses)}
	for _, r := range res.Responses {
		out.ObjectIDs = append(out.ObjectIDs, r.ObjectIDs...)
	}
	return out
}
