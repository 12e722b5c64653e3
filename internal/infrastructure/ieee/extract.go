package ieee

import (
	"encoding/json"
	"fmt"
	"regexp"

	"JournalFeed/internal/domain"
	"JournalFeed/internal/ports"
)

var metadataExpr = regexp.MustCompile(`metadata=(.*);`)

// PageMetadata is the subset of the embedded document metadata the feed uses.
type PageMetadata struct {
	Abstract string `json:"abstract"`
}

// ExtractMetadata finds the `metadata={...};` assignment in an article page.
// It returns (nil, nil) when the page has no such assignment and
// ErrMetadataExtraction when the captured JSON does not parse.
func ExtractMetadata(page string) (*PageMetadata, error) {
	match := metadataExpr.FindStringSubmatch(page)
	if match == nil {
		return nil, nil
	}

	var meta PageMetadata
	if err := json.Unmarshal([]byte(match[1]), &meta); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrMetadataExtraction, err)
	}
	return &meta, nil
}

// PageParser implements ports.AbstractParser for IEEE Xplore document pages.
type PageParser struct{}

var _ ports.AbstractParser = PageParser{}

// ParseAbstract returns the plain-text abstract from the embedded metadata, or "" when absent.
func (PageParser) ParseAbstract(page string) (string, error) {
	meta, err := ExtractMetadata(page)
	if err != nil {
		return "", err
	}
	if meta == nil {
		return "", nil
	}
	return PlainText(meta.Abstract), nil
}

// PlainText drops markup from an HTML fragment.
func (PageParser) PlainText(fragment string) string {
	return PlainText(fragment)
}
