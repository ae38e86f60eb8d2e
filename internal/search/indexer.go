package search

import "context"

// Index abstracts the search backend so the pipeline package does not depend
// on a specific hosted or local implementation.
type Index interface {
	// SaveDocuments upserts the batch by ObjectID and waits until the
	// backend has accepted it.
	SaveDocuments(ctx context.Context, docs []Document) (SaveResult, error)
	// DeleteDocuments removes documents by ObjectID.
	DeleteDocuments(ctx context.Context, objectIDs []string) error
	Close() error
}

// Document is a single search record. The JSON field names are the ones the
// hosted index expects. Content is sent as JSON, so invalid UTF-8 bytes reach
// the hosted index as U+FFFD.
type Document struct {
	ObjectID string `json:"objectID"`
	Title    string `json:"title"`
	Content  string `json:"content"`
}

// SaveResult reports what the backend acknowledged for a batch.
type SaveResult struct {
	ObjectIDs []string
	Tasks     int
}
