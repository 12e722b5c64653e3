package ports

import (
	"context"
	"net/http"
	"time"

	"JournalFeed/internal/domain"
)

// CookieContext carries platform session cookies between requests.
type CookieContext interface {
	Header(origin string) string
	Absorb(resp *http.Response)
}

// MetadataResolver looks up a journal's title and current issue.
type MetadataResolver interface {
	Resolve(ctx context.Context, journalID string) (domain.JournalIdentity, error)
	IssueLink(journalID string) string
}

// TOCFetcher loads the raw table of contents for a resolved issue.
type TOCFetcher interface {
	FetchTOC(ctx context.Context, journal domain.JournalIdentity, sortType string) ([]domain.RawArticleRecord, error)
}

// Normalizer maps publisher records onto feed articles without network access.
type Normalizer interface {
	Normalize(records []domain.RawArticleRecord, journal domain.JournalIdentity) []domain.Article
}

// AbstractParser reads the abstract embedded in an article page.
// ParseAbstract returns "" when the page carries no abstract.
type AbstractParser interface {
	ParseAbstract(page string) (string, error)
	PlainText(fragment string) string
}

// DetailFetcher downloads the raw article page behind a relative link.
type DetailFetcher interface {
	FetchDetail(ctx context.Context, link string) (string, error)
}

// Renderer produces the HTML description of an enriched article.
type Renderer interface {
	Render(article domain.Article) (string, error)
}

// ArticleCache runs produce at most once per key and returns the stored value afterwards.
type ArticleCache interface {
	TryGet(ctx context.Context, key string, produce func(ctx context.Context) (domain.Article, error)) (domain.Article, error)
}

// ArticleStore is the persistence medium behind ArticleCache.
type ArticleStore interface {
	Get(ctx context.Context, key string) (domain.Article, bool, error)
	Set(ctx context.Context, key string, article domain.Article) error
}

// FeedWriter emits an assembled feed.
type FeedWriter interface {
	WriteFeed(ctx context.Context, journalID string, feed domain.Feed) error
}

// Scheduler controls when pipelines execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
