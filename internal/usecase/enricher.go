package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"JournalFeed/internal/domain"
	"JournalFeed/internal/ports"
)

// FailurePolicy decides what a per-article enrichment failure does to the run.
type FailurePolicy string

const (
	// FailFast cancels the remaining articles and fails the run on the first error.
	FailFast FailurePolicy = "fail-fast"
	// PartialSuccess keeps failed articles unenriched and reports them in a *PartialError.
	PartialSuccess FailurePolicy = "partial"
)

// ArticleError records one article that could not be enriched.
type ArticleError struct {
	Index int
	Link  string
	Err   error
}

// PartialError is returned alongside the items when PartialSuccess drops enrichment for some articles.
type PartialError struct {
	Failures []ArticleError
}

func (e *PartialError) Error() string {
	links := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		links = append(links, f.Link)
	}
	return fmt.Sprintf("enrichment failed for %d article(s): %s", len(e.Failures), strings.Join(links, ", "))
}

func (e *PartialError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failures))
	for _, f := range e.Failures {
		errs = append(errs, f.Err)
	}
	return errs
}

// EnricherDeps wires the collaborators of the abstract enricher.
type EnricherDeps struct {
	Fetcher        ports.DetailFetcher
	Parser         ports.AbstractParser
	Renderer       ports.Renderer
	Cache          ports.ArticleCache
	Policy         FailurePolicy
	MaxConcurrency int
	Logger         *slog.Logger
}

// Enricher replaces TOC abstracts with the full abstract from each article page.
type Enricher struct {
	fetcher        ports.DetailFetcher
	parser         ports.AbstractParser
	renderer       ports.Renderer
	cache          ports.ArticleCache
	policy         FailurePolicy
	maxConcurrency int
	logger         *slog.Logger
}

// NewEnricher constructs the enrichment stage. Policy defaults to FailFast.
func NewEnricher(deps EnricherDeps) *Enricher {
	policy := deps.Policy
	if policy != PartialSuccess {
		policy = FailFast
	}
	return &Enricher{
		fetcher:        deps.Fetcher,
		parser:         deps.Parser,
		renderer:       deps.Renderer,
		cache:          deps.Cache,
		policy:         policy,
		maxConcurrency: deps.MaxConcurrency,
		logger:         deps.Logger,
	}
}

// Enrich fans out over every article with a TOC abstract and returns the
// articles in their original order. Articles without a TOC abstract pass
// through untouched.
func (e *Enricher) Enrich(ctx context.Context, articles []domain.Article) ([]domain.Article, error) {
	out := make([]domain.Article, len(articles))
	copy(out, articles)

	g := &errgroup.Group{}
	gctx := ctx
	if e.policy == FailFast {
		g, gctx = errgroup.WithContext(ctx)
	}
	if e.maxConcurrency > 0 {
		g.SetLimit(e.maxConcurrency)
	}

	var (
		mu       sync.Mutex
		failures []ArticleError
		eligible int
	)

	for i := range out {
		if out[i].Abstract == "" {
			continue
		}
		eligible++
		i := i
		article := out[i]
		g.Go(func() error {
			enriched, err := e.enrichOne(gctx, article)
			if err != nil {
				if e.policy == FailFast {
					return err
				}
				e.warn("article enrichment failed", "link", article.Link, "error", err)
				mu.Lock()
				failures = append(failures, ArticleError{Index: i, Link: article.Link, Err: err})
				mu.Unlock()
				return nil
			}
			out[i] = enriched
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("enrich articles: %w", err)
	}

	e.debug("enrichment done", "articles", len(out), "eligible", eligible, "failed", len(failures))

	if len(failures) > 0 {
		sort.Slice(failures, func(a, b int) bool { return failures[a].Index < failures[b].Index })
		return out, &PartialError{Failures: failures}
	}
	return out, nil
}

func (e *Enricher) enrichOne(ctx context.Context, article domain.Article) (domain.Article, error) {
	produce := func(ctx context.Context) (domain.Article, error) {
		return e.expand(ctx, article)
	}
	if e.cache == nil {
		return produce(ctx)
	}
	return e.cache.TryGet(ctx, article.Link, produce)
}

func (e *Enricher) expand(ctx context.Context, article domain.Article) (domain.Article, error) {
	page, err := e.fetcher.FetchDetail(ctx, article.Link)
	if err != nil {
		return domain.Article{}, err
	}

	abstract, err := e.parser.ParseAbstract(page)
	if err != nil {
		if !errors.Is(err, domain.ErrMetadataExtraction) {
			return domain.Article{}, err
		}
		e.debug("embedded metadata unreadable", "link", article.Link, "error", err)
		abstract = ""
	}

	// Keep the TOC text when the page has nothing better.
	if abstract == "" {
		abstract = e.parser.PlainText(article.Abstract)
	}
	article.Abstract = abstract

	description, err := e.renderer.Render(article)
	if err != nil {
		return domain.Article{}, err
	}
	article.Description = description

	return article, nil
}

func (e *Enricher) debug(msg string, args ...any) {
	if e.logger != nil {
		e.logger.Debug(msg, args...)
	}
}

func (e *Enricher) warn(msg string, args ...any) {
	if e.logger != nil {
		e.logger.Warn(msg, args...)
	}
}
