package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/cnnrbrn/feu-docs-indexer/internal/actions"
	"github.com/cnnrbrn/feu-docs-indexer/internal/config"
	"github.com/cnnrbrn/feu-docs-indexer/internal/docs"
	"github.com/cnnrbrn/feu-docs-indexer/internal/logging"
	"github.com/cnnrbrn/feu-docs-indexer/internal/pipeline"
	"github.com/cnnrbrn/feu-docs-indexer/internal/search"
	"github.com/cnnrbrn/feu-docs-indexer/internal/storage"
)

// Globals are flags shared by every command.
type Globals struct {
	Config    string `help:"Path to config YAML" default:"${config_path}"`
	LogLevel  string `help:"Log level (debug, info, warn, error)" default:"info" enum:"debug,info,warn,error"`
	LogFormat string `help:"Log format (text, json)" default:"text" enum:"text,json"`

	logger *slog.Logger
	stdout io.Writer
}

type CLI struct {
	Globals

	Sync   SyncCmd   `cmd:"" default:"withargs" help:"Upsert new and updated markdown files into the search index"`
	Search SearchCmd `cmd:"" help:"Query the local SQLite mirror"`
}

// AfterApply runs after flag parsing; set up logging once.
func (c *CLI) AfterApply() error {
	c.logger = logging.WithRunID(logging.BuildLogger(os.Stderr, c.LogLevel, c.LogFormat))
	c.stdout = os.Stdout
	return nil
}

// SyncCmd reads the file lists the workflow passes as action inputs.
type SyncCmd struct {
	NewFiles     string `name:"new-files" env:"INPUT_NEW-FILES" help:"JSON array of added file paths"`
	UpdatedFiles string `name:"updated-files" env:"INPUT_UPDATED-FILES" help:"JSON array of modified file paths"`
	DeletedFiles string `name:"deleted-files" env:"INPUT_DELETED-FILES" help:"JSON array of removed file paths"`

	Workspace string `help:"Repository checkout the paths are relative to" env:"GITHUB_WORKSPACE" default:"."`
	Backend   string `help:"Index backend (algolia, sqlite)" default:"algolia" enum:"algolia,sqlite"`
	DryRun    bool   `name:"dry-run" help:"Build documents without submitting them"`
	Prune     bool   `help:"Delete documents for eligible deleted files"`
	Dump      string `help:"Write the built batch as JSON to this path"`
}

func (s *SyncCmd) Run(g *Globals, reporter *actions.Reporter) error {
	logger := g.logger
	logger.Debug("inputs",
		docs.InputNewFiles, s.NewFiles,
		docs.InputUpdatedFiles, s.UpdatedFiles,
		docs.InputDeletedFiles, s.DeletedFiles)

	changes, err := docs.ParseChanges(s.NewFiles, s.UpdatedFiles, s.DeletedFiles, s.Prune)
	if err != nil {
		return err
	}
	if !s.Prune && strings.TrimSpace(s.DeletedFiles) != "" {
		logger.Debug("ignoring deleted-files input, pruning is disabled")
	}

	cfg, err := config.Load(g.Config)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	var index search.Index
	if !s.DryRun {
		if err := cfg.Validate(s.Backend); err != nil {
			return err
		}
		index, err = openIndex(cfg, s.Backend)
		if err != nil {
			return err
		}
		defer func() { _ = index.Close() }()
	}

	store := storage.NewFSStorage(s.Workspace)
	builder := docs.NewBuilder(store, cfg.Section, cfg.Exclude)
	builder.Logger = logger

	runner := &pipeline.Runner{
		Builder: builder,
		Index:   index,
		Storage: store,
		Logger:  logger.With("backend", s.Backend),
		Prune:   s.Prune,
		DryRun:  s.DryRun,
		Dump:    s.Dump,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	summary, err := runner.Run(ctx, changes)
	if err != nil {
		return err
	}

	reporter.Counts(summary.Indexed, summary.Skipped, summary.Deleted)
	return nil
}

func openIndex(cfg *config.Config, backend string) (search.Index, error) {
	switch backend {
	case config.BackendSQLite:
		return search.NewSQLiteIndex(cfg.SQLite.Path)
	case config.BackendAlgolia:
		return search.NewAlgoliaIndex(cfg.Algolia.AppID, cfg.Algolia.WriteKey, cfg.Algolia.Index)
	default:
		return nil, fmt.Errorf("unknown backend %q", backend)
	}
}

type SearchCmd struct {
	Query string `arg:"" help:"Search terms"`
	Limit int    `short:"n" help:"Maximum number of results" default:"10"`
	JSON  bool   `name:"json" help:"Output results as JSON"`
}

func (c *SearchCmd) Run(g *Globals) error {
	cfg, err := config.Load(g.Config)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(config.BackendSQLite); err != nil {
		return err
	}

	searcher, err := search.NewSQLiteSearcher(cfg.SQLite.Path)
	if err != nil {
		return err
	}
	defer func() { _ = searcher.Close() }()

	resp, err := searcher.Search(context.Background(), c.Query, c.Limit, 0)
	if err != nil {
		return err
	}

	if c.JSON {
		enc := json.NewEncoder(g.stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}

	if len(resp.Results) == 0 {
		_, err := fmt.Fprintln(g.stdout, "No results found.")
		return err
	}
	for i, r := range resp.Results {
		if _, err := fmt.Fprintf(g.stdout, "%d. %s\n   %s\n   %s\n", i+1, r.Title, r.ObjectID, r.Snippet); err != nil {
			return err
		}
	}
	return nil
}
