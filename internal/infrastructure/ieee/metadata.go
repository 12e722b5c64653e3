package ieee

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"JournalFeed/internal/domain"
)

type metadataResponse struct {
	DisplayTitle string `json:"displayTitle"`
	CurrentIssue struct {
		IssueNumber flexString `json:"issueNumber"`
		Volume      flexString `json:"volume"`
	} `json:"currentIssue"`
}

// Resolve reads the journal home metadata and returns the title and current issue identifiers.
func (c *Client) Resolve(ctx context.Context, journalID string) (domain.JournalIdentity, error) {
	endpoint := fmt.Sprintf("%s/rest/publication/home/metadata?pubid=%s", c.baseURL, url.QueryEscape(journalID))

	var resp metadataResponse
	if err := c.getJSON(ctx, endpoint, &resp); err != nil {
		return domain.JournalIdentity{}, fmt.Errorf("%w: journal %s: %w", domain.ErrResolution, journalID, err)
	}

	identity := domain.JournalIdentity{
		JournalID:   journalID,
		Title:       strings.TrimSpace(resp.DisplayTitle),
		IssueNumber: string(resp.CurrentIssue.IssueNumber),
		Volume:      string(resp.CurrentIssue.Volume),
	}

	if identity.Title == "" {
		return domain.JournalIdentity{}, fmt.Errorf("%w: journal %s: missing displayTitle", domain.ErrResolution, journalID)
	}
	if identity.IssueNumber == "" {
		return domain.JournalIdentity{}, fmt.Errorf("%w: journal %s: missing currentIssue.issueNumber", domain.ErrResolution, journalID)
	}

	c.debug("journal resolved", "journal", journalID, "issue", identity.IssueNumber, "volume", identity.Volume)
	return identity, nil
}

// flexString accepts both JSON strings and numbers; the platform is not consistent about either.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(strings.TrimSpace(s))
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("expected string or number, got %s", data)
	}
	*f = flexString(n.String())
	return nil
}
