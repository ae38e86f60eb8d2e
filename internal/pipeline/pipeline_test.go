package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/algolia/algoliasearch-client-go/v3/algolia/errs"
	algolia "github.com/algolia/algoliasearch-client-go/v3/algolia/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cnnrbrn/feu-docs-indexer/internal/docs"
	"github.com/cnnrbrn/feu-docs-indexer/internal/search"
	"github.com/cnnrbrn/feu-docs-indexer/internal/storage"
)

const section = "feu/js-frameworks/"

type fakeIndex struct {
	saved     [][]search.Document
	deleted   [][]string
	saveErr   error
	deleteErr error
}

func (f *fakeIndex) SaveDocuments(_ context.Context, docs []search.Document) (search.SaveResult, error) {
	if f.saveErr != nil {
		return search.SaveResult{}, f.saveErr
	}
	f.saved = append(f.saved, docs)
	res := search.SaveResult{Tasks: 1}
	for _, d := range docs {
		res.ObjectIDs = append(res.ObjectIDs, d.ObjectID)
	}
	return res, nil
}

func (f *fakeIndex) DeleteDocuments(_ context.Context, ids []string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, ids)
	return nil
}

func (f *fakeIndex) Close() error { return nil }

func newRunner(idx search.Index) *Runner {
	repo := fstest.MapFS{
		"feu/react/intro.md": {Data: []byte("# Intro to React\nbody\n")},
		"feu/vue/setup.md":   {Data: []byte("no heading")},
		"feu/README.md":      {Data: []byte("# Readme\n")},
	}
	return &Runner{
		Builder: docs.NewBuilder(repo, section, docs.DefaultExcluded),
		Index:   idx,
	}
}

func TestRunSubmitsOneBatch(t *testing.T) {
	idx := &fakeIndex{}
	r := newRunner(idx)

	changes, err := docs.ParseChanges(`["feu/react/intro.md","feu/README.md"]`, `["feu/vue/setup.md"]`, `["feu/old.md"]`, false)
	require.NoError(t, err)

	summary, err := r.Run(context.Background(), changes)
	require.NoError(t, err)

	require.Len(t, idx.saved, 1)
	assert.Equal(t, []search.Document{
		{ObjectID: "feu/js-frameworks/feu/react/intro", Title: "Intro to React", Content: "# Intro to React\nbody\n"},
		{ObjectID: "feu/js-frameworks/feu/vue/setup", Title: "feu/js-frameworks/feu/vue/setup", Content: "no heading"},
	}, idx.saved[0])
	assert.Empty(t, idx.deleted, "deleted files are ignored unless pruning")

	assert.Equal(t, Summary{
		Candidates: 3,
		Indexed:    2,
		Skipped:    1,
		ObjectIDs:  []string{"feu/js-frameworks/feu/react/intro", "feu/js-frameworks/feu/vue/setup"},
	}, summary)
}

func TestRunReadErrorSubmitsNothing(t *testing.T) {
	idx := &fakeIndex{}
	r := newRunner(idx)

	_, err := r.Run(context.Background(), docs.Changes{New: []string{"feu/react/intro.md", "feu/missing.md"}})

	var re *docs.FileReadError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, "feu/missing.md", re.Path)
	assert.Empty(t, idx.saved)
}

func TestRunSubmissionFailureFailsRun(t *testing.T) {
	boom := errors.New("403 invalid api key")
	r := newRunner(&fakeIndex{saveErr: boom})

	_, err := r.Run(context.Background(), docs.Changes{Updated: []string{"feu/react/intro.md"}})
	require.Error(t, err)

	var se *IndexSubmissionError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "save", se.Op)
	assert.Equal(t, 1, se.Count)
	assert.ErrorIs(t, err, boom)
}

func TestRunEmptyBatchSkipsSubmission(t *testing.T) {
	idx := &fakeIndex{}
	r := newRunner(idx)

	summary, err := r.Run(context.Background(), docs.Changes{New: []string{"feu/README.md", "logo.svg"}})
	require.NoError(t, err)
	assert.Empty(t, idx.saved)
	assert.Equal(t, 2, summary.Skipped)
	assert.Zero(t, summary.Indexed)
}

func TestRunPrune(t *testing.T) {
	idx := &fakeIndex{}
	r := newRunner(idx)
	r.Prune = true

	summary, err := r.Run(context.Background(), docs.Changes{
		Deleted: []string{"feu/react/old.md", "feu/README.md"},
	})
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"feu/js-frameworks/feu/react/old"}}, idx.deleted)
	assert.Equal(t, 1, summary.Deleted)
}

func TestRunPruneFailure(t *testing.T) {
	r := newRunner(&fakeIndex{deleteErr: errors.New("timeout")})
	r.Prune = true

	_, err := r.Run(context.Background(), docs.Changes{Deleted: []string{"feu/react/old.md"}})

	var se *IndexSubmissionError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "delete", se.Op)
}

func TestRunDryRunWithDump(t *testing.T) {
	dir := t.TempDir()
	r := newRunner(nil)
	r.DryRun = true
	r.Storage = storage.NewFSStorage(dir)
	r.Dump = "batch.json"

	summary, err := r.Run(context.Background(), docs.Changes{New: []string{"feu/react/intro.md"}})
	require.NoError(t, err)
	assert.Zero(t, summary.Indexed)
	assert.Equal(t, []string{"feu/js-frameworks/feu/react/intro"}, summary.ObjectIDs)

	raw, err := os.ReadFile(filepath.Join(dir, "batch.json"))
	require.NoError(t, err)
	var dumped []map[string]string
	require.NoError(t, json.Unmarshal(raw, &dumped))
	require.Len(t, dumped, 1)
	assert.Equal(t, "feu/js-frameworks/feu/react/intro", dumped[0]["objectID"])
	assert.Equal(t, "Intro to React", dumped[0]["title"])
}

func TestRunMissingDependencies(t *testing.T) {
	_, err := (&Runner{}).Run(context.Background(), docs.Changes{})
	assert.Error(t, err)
}

func TestRunAgainstSQLiteMirror(t *testing.T) {
	idx, err := search.NewSQLiteIndex(filepath.Join(t.TempDir(), "search.db"))
	require.NoError(t, err)
	defer func() { _ = idx.Close() }()

	r := newRunner(idx)
	_, err = r.Run(context.Background(), docs.Changes{New: []string{"feu/react/intro.md"}})
	require.NoError(t, err)

	doc, ok, err := idx.Get(context.Background(), "feu/js-frameworks/feu/react/intro")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Intro to React", doc.Title)
}

// forbiddenRequester rejects every Algolia call the way the API does for a
// bad write key.
type forbiddenRequester struct{ calls int }

func (f *forbiddenRequester) Request(*http.Request) (*http.Response, error) {
	f.calls++
	return &http.Response{
		StatusCode: http.StatusForbidden,
		Header:     http.Header{},
		Body:       io.NopCloser(strings.NewReader(`{"message":"Invalid Application-ID or API key","status":403}`)),
	}, nil
}

func TestRunAlgoliaRejectionFailsRun(t *testing.T) {
	requester := &forbiddenRequester{}
	idx, err := search.NewAlgoliaIndexWithConfig(algolia.Configuration{
		AppID:     "APP",
		APIKey:    "bad-key",
		Hosts:     []string{"algolia.test"},
		Requester: requester,
	}, "feu")
	require.NoError(t, err)
	r := newRunner(idx)

	changes, err := docs.ParseChanges(`["feu/react/intro.md"]`, "", "", false)
	require.NoError(t, err)

	summary, err := r.Run(context.Background(), changes)
	require.Error(t, err)

	var subErr *IndexSubmissionError
	require.ErrorAs(t, err, &subErr)
	assert.Equal(t, "save", subErr.Op)
	assert.Equal(t, 1, subErr.Count)

	var apiErr *errs.AlgoliaErr
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.Status)

	assert.Equal(t, 1, requester.calls)
	assert.Zero(t, summary.Indexed)
}
