package usecase

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"JournalFeed/internal/domain"
	"JournalFeed/internal/infrastructure/cache"
	"JournalFeed/internal/infrastructure/ieee"
	"JournalFeed/internal/infrastructure/render"
)

type platformStub struct {
	detailCalls atomic.Int32
	sawCookie   atomic.Bool
}

func (s *platformStub) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/rest/publication/home/metadata", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "JSESSIONID", Value: "s1", Path: "/"})
		_, _ = w.Write([]byte(`{"displayTitle":"Example Journal","currentIssue":{"issueNumber":"123","volume":"45"}}`))
	})
	mux.HandleFunc("/rest/search/pub/8782710/issue/123/toc", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"records":[
			{"articleTitle":"<i>Deep</i> Learning","htmlLink":"/doc/999","doi":"10.1/x","authors":[{"preferredName":"A. One"}],"abstract":"<p>stub</p>"},
			{"articleTitle":"Editorial","htmlLink":"/doc/1000","doi":"10.1/y"}
		]}`))
	})
	mux.HandleFunc("/doc/999", func(w http.ResponseWriter, r *http.Request) {
		s.detailCalls.Add(1)
		if strings.Contains(r.Header.Get("Cookie"), "JSESSIONID=s1") {
			s.sawCookie.Store(true)
		}
		_, _ = w.Write([]byte(`<html><script>xplGlobal.document.metadata={"abstract":"<p>Full text</p>"};</script></html>`))
	})
	return mux
}

func newScenarioPipeline(t *testing.T, baseURL string, client *http.Client, memo *cache.Memo) *Pipeline {
	t.Helper()

	jar, err := ieee.NewCookieJar()
	if err != nil {
		t.Fatalf("cookie jar: %v", err)
	}
	platform := ieee.NewClient(jar, ieee.Options{BaseURL: baseURL, HTTPClient: client})

	renderer, err := render.NewDescriptionRenderer()
	if err != nil {
		t.Fatalf("renderer: %v", err)
	}

	return NewPipeline(PipelineDeps{
		Resolver:   platform,
		TOC:        platform,
		Normalizer: ieee.RecordNormalizer{},
		Enricher: NewEnricher(EnricherDeps{
			Fetcher:  platform,
			Parser:   ieee.PageParser{},
			Renderer: renderer,
			Cache:    memo,
		}),
	})
}

func TestPipelineScenario(t *testing.T) {
	t.Parallel()

	stub := &platformStub{}
	server := httptest.NewServer(stub.handler())
	defer server.Close()

	memo := cache.NewMemo(cache.NewMemoryStore(), nil, nil)
	pipeline := newScenarioPipeline(t, server.URL, server.Client(), memo)

	feed, err := pipeline.Run(context.Background(), "8782710", "")
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}

	if feed.Title != "Example Journal" {
		t.Fatalf("unexpected title: %s", feed.Title)
	}
	if feed.Link != server.URL+"/xpl/mostRecentIssue.jsp?punumber=8782710" {
		t.Fatalf("unexpected link: %s", feed.Link)
	}
	if len(feed.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(feed.Items))
	}

	first := feed.Items[0]
	if first.Title != "Deep Learning" || first.Authors != "A. One" || first.DOI != "10.1/x" || first.Volume != "45" {
		t.Fatalf("unexpected first item: %+v", first)
	}
	if first.Abstract != "Full text" {
		t.Fatalf("unexpected abstract: %q", first.Abstract)
	}
	if !strings.Contains(first.Description, "Full text") {
		t.Fatalf("expected description to carry the abstract, got %s", first.Description)
	}

	second := feed.Items[1]
	if second.Authors != domain.NoAuthors {
		t.Fatalf("expected sentinel authors, got %q", second.Authors)
	}
	if second.Abstract != "" || second.Description != "" {
		t.Fatalf("expected unenriched second item, got %+v", second)
	}

	if !stub.sawCookie.Load() {
		t.Fatalf("expected session cookie on detail request")
	}

	// Second run with a warm cache must not hit the detail page again.
	if _, err := pipeline.Run(context.Background(), "8782710", ""); err != nil {
		t.Fatalf("second Run error: %v", err)
	}
	if stub.detailCalls.Load() != 1 {
		t.Fatalf("expected 1 detail fetch, got %d", stub.detailCalls.Load())
	}
}

func TestPipelineResolutionFailure(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "maintenance", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	pipeline := newScenarioPipeline(t, server.URL, server.Client(), cache.NewMemo(nil, nil, nil))
	feed, err := pipeline.Run(context.Background(), "8782710", "")
	if !errors.Is(err, domain.ErrResolution) {
		t.Fatalf("expected ErrResolution, got %v", err)
	}
	if feed.Title != "" || feed.Items != nil {
		t.Fatalf("expected empty feed, got %+v", feed)
	}
}

func TestPipelineRejectsEmptyJournal(t *testing.T) {
	t.Parallel()

	pipeline := NewPipeline(PipelineDeps{})
	if _, err := pipeline.Run(context.Background(), "  ", ""); err == nil {
		t.Fatalf("expected error for empty journal id")
	}
}
