package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"JournalFeed/internal/domain"
	"JournalFeed/internal/ports"
)

// PipelineDeps wires all driven adapters into the orchestration pipeline.
type PipelineDeps struct {
	Resolver   ports.MetadataResolver
	TOC        ports.TOCFetcher
	Normalizer ports.Normalizer
	Enricher   *Enricher
	Logger     *slog.Logger
}

// Pipeline builds the current-issue feed of a journal.
type Pipeline struct {
	resolver   ports.MetadataResolver
	toc        ports.TOCFetcher
	normalizer ports.Normalizer
	enricher   *Enricher
	logger     *slog.Logger
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	return &Pipeline{
		resolver:   deps.Resolver,
		toc:        deps.TOC,
		normalizer: deps.Normalizer,
		enricher:   deps.Enricher,
		logger:     deps.Logger,
	}
}

// Run resolves the journal, loads its current table of contents and enriches
// the articles. Under PartialSuccess it returns the feed together with a
// *PartialError; any other error leaves the feed empty.
func (p *Pipeline) Run(ctx context.Context, journalID, sortType string) (domain.Feed, error) {
	journalID = strings.TrimSpace(journalID)
	if journalID == "" {
		return domain.Feed{}, fmt.Errorf("journal id is required")
	}
	if p.resolver == nil || p.toc == nil || p.normalizer == nil {
		return domain.Feed{}, fmt.Errorf("pipeline is not configured")
	}

	p.debug("run pipeline", "journal", journalID, "sort", sortType)

	journal, err := p.resolver.Resolve(ctx, journalID)
	if err != nil {
		return domain.Feed{}, fmt.Errorf("resolve journal: %w", err)
	}

	records, err := p.toc.FetchTOC(ctx, journal, sortType)
	if err != nil {
		return domain.Feed{}, fmt.Errorf("fetch toc: %w", err)
	}

	articles := p.normalizer.Normalize(records, journal)
	p.debug("articles normalized", "journal", journalID, "count", len(articles))

	feed := domain.Feed{
		Title: journal.Title,
		Link:  p.resolver.IssueLink(journalID),
		Items: articles,
	}

	if p.enricher == nil {
		return feed, nil
	}

	enriched, err := p.enricher.Enrich(ctx, articles)
	var partial *PartialError
	switch {
	case errors.As(err, &partial):
		feed.Items = enriched
		return feed, err
	case err != nil:
		return domain.Feed{}, err
	}

	feed.Items = enriched
	return feed, nil
}

func (p *Pipeline) debug(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Debug(msg, args...)
	}
}
