package ieee

import (
	"context"
	"fmt"
	"strings"

	"JournalFeed/internal/domain"
)

// FetchDetail downloads the article page behind a relative link such as /document/123/.
func (c *Client) FetchDetail(ctx context.Context, link string) (string, error) {
	endpoint := link
	if !strings.HasPrefix(link, "http://") && !strings.HasPrefix(link, "https://") {
		if !strings.HasPrefix(link, "/") {
			link = "/" + link
		}
		endpoint = c.baseURL + link
	}

	page, err := c.getText(ctx, endpoint)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", domain.ErrDetailFetch, link, err)
	}
	return page, nil
}
