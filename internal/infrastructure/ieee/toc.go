package ieee

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"JournalFeed/internal/domain"
)

// DefaultSortType is the platform's volume-sequence ordering.
const DefaultSortType = "vol-only-seq"

type tocRequest struct {
	PUNumber    string `json:"punumber"`
	ISNumber    string `json:"isnumber"`
	SortType    string `json:"sortType"`
	RowsPerPage string `json:"rowsPerPage"`
}

type tocResponse struct {
	Records []domain.RawArticleRecord `json:"records"`
}

// FetchTOC posts the issue search and returns records in platform order.
// Only the first PageSize rows are requested.
func (c *Client) FetchTOC(ctx context.Context, journal domain.JournalIdentity, sortType string) ([]domain.RawArticleRecord, error) {
	if sortType == "" {
		sortType = DefaultSortType
	}

	endpoint := fmt.Sprintf("%s/rest/search/pub/%s/issue/%s/toc",
		c.baseURL, url.PathEscape(journal.JournalID), url.PathEscape(journal.IssueNumber))

	payload := tocRequest{
		PUNumber:    journal.JournalID,
		ISNumber:    journal.IssueNumber,
		SortType:    sortType,
		RowsPerPage: strconv.Itoa(PageSize),
	}

	var resp tocResponse
	if err := c.postJSON(ctx, endpoint, payload, &resp); err != nil {
		return nil, fmt.Errorf("%w: journal %s issue %s: %w", domain.ErrTOCFetch, journal.JournalID, journal.IssueNumber, err)
	}

	c.debug("toc fetched", "journal", journal.JournalID, "issue", journal.IssueNumber, "records", len(resp.Records))
	return resp.Records, nil
}
