package ieee

import (
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"

	"golang.org/x/net/publicsuffix"

	"JournalFeed/internal/ports"
)

// CookieJar accumulates Set-Cookie headers per origin for the lifetime of the process.
type CookieJar struct {
	jar *cookiejar.Jar
}

var _ ports.CookieContext = (*CookieJar)(nil)

// NewCookieJar builds an empty jar using public-suffix domain rules.
func NewCookieJar() (*CookieJar, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}
	return &CookieJar{jar: jar}, nil
}

// Header returns the Cookie header value for origin, or "" when nothing is stored.
func (c *CookieJar) Header(origin string) string {
	u, err := url.Parse(origin)
	if err != nil || u.Host == "" {
		return ""
	}

	cookies := c.jar.Cookies(u)
	if len(cookies) == 0 {
		return ""
	}

	parts := make([]string, 0, len(cookies))
	for _, ck := range cookies {
		parts = append(parts, ck.Name+"="+ck.Value)
	}
	return strings.Join(parts, "; ")
}

// Absorb stores the cookies a response sets against the URL that produced it.
func (c *CookieJar) Absorb(resp *http.Response) {
	if resp == nil || resp.Request == nil || resp.Request.URL == nil {
		return
	}
	if cookies := resp.Cookies(); len(cookies) > 0 {
		c.jar.SetCookies(resp.Request.URL, cookies)
	}
}
