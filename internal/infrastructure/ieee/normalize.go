package ieee

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"JournalFeed/internal/domain"
	"JournalFeed/internal/ports"
)

// RecordNormalizer implements ports.Normalizer on top of Normalize.
type RecordNormalizer struct{}

var _ ports.Normalizer = RecordNormalizer{}

// Normalize maps TOC records onto feed articles.
func (RecordNormalizer) Normalize(records []domain.RawArticleRecord, journal domain.JournalIdentity) []domain.Article {
	return Normalize(records, journal)
}

// Normalize maps TOC records onto feed articles, preserving record order.
func Normalize(records []domain.RawArticleRecord, journal domain.JournalIdentity) []domain.Article {
	articles := make([]domain.Article, 0, len(records))
	for _, record := range records {
		articles = append(articles, normalizeRecord(record, journal.Volume))
	}
	return articles
}

func normalizeRecord(record domain.RawArticleRecord, volume string) domain.Article {
	return domain.Article{
		Title:    PlainText(record.ArticleTitle),
		Link:     record.HTMLLink,
		Authors:  joinAuthors(record.Authors),
		DOI:      record.DOI,
		Volume:   volume,
		Abstract: record.Abstract,
	}
}

func joinAuthors(authors []domain.Author) string {
	names := make([]string, 0, len(authors))
	for _, author := range authors {
		if name := strings.TrimSpace(author.PreferredName); name != "" {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return domain.NoAuthors
	}
	return strings.Join(names, "; ")
}

// PlainText drops markup from an HTML fragment. Unparseable input yields "".
func PlainText(fragment string) string {
	if strings.TrimSpace(fragment) == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(doc.Text())
}
