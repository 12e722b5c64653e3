package domain

// NoAuthors is the placeholder used when a record carries no author list.
const NoAuthors = "Do not have author"

// JournalIdentity describes a journal and its current issue as resolved from the platform.
type JournalIdentity struct {
	JournalID   string
	Title       string
	IssueNumber string
	Volume      string
}

// Author is a single entry of a TOC record's author list.
type Author struct {
	PreferredName string `json:"preferredName"`
}

// RawArticleRecord is the publisher-native TOC record.
type RawArticleRecord struct {
	ArticleTitle string   `json:"articleTitle"`
	HTMLLink     string   `json:"htmlLink"`
	DOI          string   `json:"doi"`
	Authors      []Author `json:"authors,omitempty"`
	Abstract     string   `json:"abstract,omitempty"`
}

// Article is the canonical feed item.
type Article struct {
	Title       string `json:"title"`
	Link        string `json:"link"`
	Authors     string `json:"authors"`
	DOI         string `json:"doi"`
	Volume      string `json:"volume"`
	Abstract    string `json:"abstract"`
	Description string `json:"description,omitempty"`
}

// Enriched reports whether the abstract enricher produced a description.
func (a Article) Enriched() bool {
	return a.Description != ""
}

// Feed is the envelope handed to feed serializers.
type Feed struct {
	Title string    `json:"title"`
	Link  string    `json:"link"`
	Items []Article `json:"items"`
}
