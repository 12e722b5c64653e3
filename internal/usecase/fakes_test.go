package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"JournalFeed/internal/domain"
)

type fakeFetcher struct {
	mu     sync.Mutex
	pages  map[string]string
	delays map[string]time.Duration
	errs   map[string]error
	calls  map[string]int
}

func newFakeFetcher(pages map[string]string) *fakeFetcher {
	return &fakeFetcher{
		pages:  pages,
		delays: map[string]time.Duration{},
		errs:   map[string]error{},
		calls:  map[string]int{},
	}
}

func (f *fakeFetcher) FetchDetail(ctx context.Context, link string) (string, error) {
	f.mu.Lock()
	f.calls[link]++
	delay := f.delays[link]
	err := f.errs[link]
	page, ok := f.pages[link]
	f.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if err != nil {
		return "", err
	}
	if !ok {
		return "", errors.New("no page for " + link)
	}
	return page, nil
}

func (f *fakeFetcher) callCount(link string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[link]
}

func (f *fakeFetcher) totalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	total := 0
	for _, n := range f.calls {
		total += n
	}
	return total
}

type fakeRenderer struct {
	err error
}

func (r fakeRenderer) Render(article domain.Article) (string, error) {
	if r.err != nil {
		return "", r.err
	}
	return "<p>" + article.Abstract + "</p>", nil
}

func metadataPage(abstractHTML string) string {
	return `<html><script>xplGlobal.document.metadata={"abstract":"` + abstractHTML + `"};</script></html>`
}
